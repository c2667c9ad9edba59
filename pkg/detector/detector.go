// Package detector adapts an external pose-landmark model to the pose
// pipeline. The model itself runs out of process.
package detector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"strings"
	"time"

	"yoga-intelligence-be/pkg/pose"
)

var ErrDetectorUnavailable = errors.New("pose detector unavailable")

// Detector finds a body pose in an image. found is false when no person is
// visible; that is not an error.
type Detector interface {
	Detect(ctx context.Context, img image.Image) (landmarks pose.LandmarkSet, found bool, err error)
}

// Func adapts a plain function to Detector.
type Func func(ctx context.Context, img image.Image) (pose.LandmarkSet, bool, error)

func (f Func) Detect(ctx context.Context, img image.Image) (pose.LandmarkSet, bool, error) {
	return f(ctx, img)
}

type detectResponse struct {
	PoseDetected *bool           `json:"pose_detected,omitempty"`
	Landmarks    []pose.Landmark `json:"landmarks"`
}

// HTTPDetector posts each frame as image/jpeg to {BaseURL}/detect and
// expects {"landmarks":[{id,x,y,z,visibility}...]} back.
type HTTPDetector struct {
	BaseURL string
	Client  *http.Client
	Quality int
}

func NewHTTPDetector(baseURL string, timeout time.Duration) *HTTPDetector {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &HTTPDetector{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
		Quality: 85,
	}
}

func (d *HTTPDetector) Detect(ctx context.Context, img image.Image) (pose.LandmarkSet, bool, error) {
	if img == nil {
		return nil, false, nil
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: d.Quality}); err != nil {
		return nil, false, fmt.Errorf("encode frame: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.BaseURL+"/detect", &buf)
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "image/jpeg")

	resp, err := d.Client.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrDetectorUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, false, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, false, fmt.Errorf("%w: status %d: %s", ErrDetectorUnavailable, resp.StatusCode, string(body))
	}

	var out detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, false, fmt.Errorf("decode landmarks: %w", err)
	}
	if out.PoseDetected != nil && !*out.PoseDetected {
		return nil, false, nil
	}
	if len(out.Landmarks) == 0 {
		return nil, false, nil
	}
	return normalize(out.Landmarks), true, nil
}

func (d *HTTPDetector) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.BaseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := d.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDetectorUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrDetectorUnavailable, resp.StatusCode)
	}
	return nil
}

// normalize stamps each landmark with its position in the detector output.
func normalize(in []pose.Landmark) pose.LandmarkSet {
	out := make(pose.LandmarkSet, len(in))
	for i, lm := range in {
		lm.ID = i
		out[i] = lm
	}
	return out
}
