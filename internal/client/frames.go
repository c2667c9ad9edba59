package client

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"yoga-intelligence-be/pkg/framecodec"
)

// FrameSource yields encoded pose_frame payloads.
type FrameSource interface {
	Next() (string, error)
}

// DirectorySource cycles over the JPEG and PNG files of a directory, in name
// order, standing in for a camera.
type DirectorySource struct {
	mu        sync.Mutex
	frames    []string
	next      int
	maxWidth  int
	maxHeight int
	quality   int
}

func NewDirectorySource(dir string, maxWidth, maxHeight, quality int) (*DirectorySource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read frame dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".jpg", ".jpeg", ".png":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, framecodec.ErrFrameUnavailable)
	}
	sort.Strings(files)
	return &DirectorySource{frames: files, maxWidth: maxWidth, maxHeight: maxHeight, quality: quality}, nil
}

func (s *DirectorySource) Next() (string, error) {
	s.mu.Lock()
	path := s.frames[s.next]
	s.next = (s.next + 1) % len(s.frames)
	s.mu.Unlock()

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", framecodec.ErrFrameUnavailable, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", framecodec.ErrFrameUnavailable, path, err)
	}
	return framecodec.Encode(img, s.maxWidth, s.maxHeight, s.quality)
}

// BlankSource produces a flat grey frame. Useful against a detector stub.
type BlankSource struct {
	Width, Height int
	Quality       int
}

func (s BlankSource) Next() (string, error) {
	img := image.NewGray(image.Rect(0, 0, max(s.Width, 1), max(s.Height, 1)))
	for i := range img.Pix {
		img.Pix[i] = 128
	}
	return framecodec.Encode(img, framecodec.DefaultMaxWidth, framecodec.DefaultMaxHeight, s.Quality)
}
