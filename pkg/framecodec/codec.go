// Package framecodec converts captured frames to and from the compact still
// image payload carried by pose_frame messages.
package framecodec

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"strings"

	"golang.org/x/image/draw"
)

const (
	DefaultMaxWidth  = 640
	DefaultMaxHeight = 480
	DefaultQuality   = 70

	// DefaultMaxDecodePixels caps inbound frames at 4K UHD.
	DefaultMaxDecodePixels = 3840 * 2160

	dataURLPrefix = "data:image/jpeg;base64,"
)

var (
	ErrFrameUnavailable = errors.New("frame unavailable")
	ErrInvalidPayload   = errors.New("invalid image payload")
)

// Encode downscales frame to fit maxWidth x maxHeight (aspect preserved, never
// upscaled) and returns it as a JPEG data URL. A nil or empty frame returns
// ErrFrameUnavailable and the caller must skip the frame.
func Encode(frame image.Image, maxWidth, maxHeight, quality int) (string, error) {
	if frame == nil || frame.Bounds().Empty() {
		return "", ErrFrameUnavailable
	}
	scaled := Fit(frame, maxWidth, maxHeight)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: clampQuality(quality)}); err != nil {
		return "", fmt.Errorf("encode jpeg: %w", err)
	}
	return dataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Limits bounds what an inbound payload may decode to. MaxPixels is checked
// against the header before any raster is allocated; MaxWidth and MaxHeight
// are applied with Fit after decoding. Non-positive values disable a limit.
type Limits struct {
	MaxPixels int
	MaxWidth  int
	MaxHeight int
}

// DefaultLimits is the limit set used by the pose pipeline.
var DefaultLimits = Limits{
	MaxPixels: DefaultMaxDecodePixels,
	MaxWidth:  DefaultMaxWidth,
	MaxHeight: DefaultMaxHeight,
}

// Decode accepts either a data URL or a bare base64 string and returns the
// decoded image at its own size, up to DefaultMaxDecodePixels.
func Decode(payload string) (image.Image, error) {
	return DecodeLimited(payload, Limits{MaxPixels: DefaultMaxDecodePixels})
}

// DecodeLimited decodes payload, rejecting images whose declared size exceeds
// limits.MaxPixels with ErrInvalidPayload, and scales the result to fit
// limits.MaxWidth x limits.MaxHeight.
func DecodeLimited(payload string, limits Limits) (image.Image, error) {
	raw, err := DecodeBytes(payload)
	if err != nil {
		return nil, err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidPayload)
	}
	if limits.MaxPixels > 0 && cfg.Width > limits.MaxPixels/cfg.Height {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrInvalidPayload, cfg.Width, cfg.Height, limits.MaxPixels)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return Fit(img, limits.MaxWidth, limits.MaxHeight), nil
}

// DecodeBytes strips the data URL header and base64-decodes the image bytes.
func DecodeBytes(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, ErrInvalidPayload
	}
	if strings.HasPrefix(payload, "data:") {
		idx := strings.IndexByte(payload, ',')
		if idx < 0 {
			return nil, ErrInvalidPayload
		}
		payload = payload[idx+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return raw, nil
}

// Fit returns the frame scaled down to fit the bounds. Non-positive bounds
// disable the limit on that axis.
func Fit(frame image.Image, maxWidth, maxHeight int) image.Image {
	b := frame.Bounds()
	w, h := b.Dx(), b.Dy()

	scale := 1.0
	if maxWidth > 0 && w > maxWidth {
		scale = float64(maxWidth) / float64(w)
	}
	if maxHeight > 0 && h > maxHeight {
		if s := float64(maxHeight) / float64(h); s < scale {
			scale = s
		}
	}
	if scale >= 1 {
		return frame
	}

	nw := max(1, int(float64(w)*scale))
	nh := max(1, int(float64(h)*scale))
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), frame, b, draw.Src, nil)
	return dst
}

func clampQuality(q int) int {
	if q < 1 {
		return 1
	}
	if q > 100 {
		return 100
	}
	return q
}
