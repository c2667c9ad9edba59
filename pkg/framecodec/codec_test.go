package framecodec

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidFrame(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	return img
}

func TestEncodeDownscalesToBounds(t *testing.T) {
	payload, err := Encode(solidFrame(1280, 720), 640, 480, 70)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(payload, "data:image/jpeg;base64,"))

	img, err := Decode(payload)
	require.NoError(t, err)
	assert.Equal(t, 640, img.Bounds().Dx())
	assert.Equal(t, 360, img.Bounds().Dy())
}

func TestEncodeNeverUpscales(t *testing.T) {
	payload, err := Encode(solidFrame(320, 240), 640, 480, 70)
	require.NoError(t, err)

	img, err := Decode(payload)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 320, 240), img.Bounds())
}

func TestEncodeHeightBound(t *testing.T) {
	img := Fit(solidFrame(400, 1000), 640, 500)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 500, img.Bounds().Dy())
}

func TestEncodeQualityTradesSize(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 200, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			frame.Set(x, y, color.RGBA{R: uint8(x * y), G: uint8(x + y), B: uint8(x ^ y), A: 255})
		}
	}
	low, err := Encode(frame, 0, 0, 10)
	require.NoError(t, err)
	high, err := Encode(frame, 0, 0, 95)
	require.NoError(t, err)
	assert.Less(t, len(low), len(high))
}

func TestEncodeFrameUnavailable(t *testing.T) {
	_, err := Encode(nil, 640, 480, 70)
	assert.ErrorIs(t, err, ErrFrameUnavailable)

	_, err = Encode(image.NewRGBA(image.Rect(0, 0, 0, 0)), 640, 480, 70)
	assert.ErrorIs(t, err, ErrFrameUnavailable)
}

func TestDecodeVariants(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solidFrame(8, 4)))
	bare := base64.StdEncoding.EncodeToString(buf.Bytes())

	img, err := Decode(bare)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())

	img, err = Decode("data:image/png;base64," + bare)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dy())

	for _, bad := range []string{"", "data:image/jpeg;base64", "%%%not-base64", base64.StdEncoding.EncodeToString([]byte("not an image"))} {
		_, err := Decode(bad)
		assert.ErrorIs(t, err, ErrInvalidPayload, bad)
	}
}

// pngHeader returns a PNG signature and IHDR chunk declaring a w x h grey image
// with no pixel data behind it.
func pngHeader(w, h uint32) []byte {
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:], w)
	binary.BigEndian.PutUint32(ihdr[4:], h)
	ihdr[8] = 8

	chunk := append([]byte("IHDR"), ihdr...)
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(ihdr)))
	buf.Write(chunk)
	_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}

func TestDecodeRejectsOversizedDimensions(t *testing.T) {
	payload := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngHeader(20000, 20000))
	assert.Less(t, len(payload), 1024)

	_, err := Decode(payload)
	assert.ErrorIs(t, err, ErrInvalidPayload)
	assert.Contains(t, err.Error(), "20000x20000")

	_, err = DecodeLimited(payload, DefaultLimits)
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestDecodeLimited(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solidFrame(1280, 960)))
	payload := base64.StdEncoding.EncodeToString(buf.Bytes())

	img, err := DecodeLimited(payload, DefaultLimits)
	require.NoError(t, err)
	assert.Equal(t, 640, img.Bounds().Dx())
	assert.Equal(t, 480, img.Bounds().Dy())

	img, err = DecodeLimited(payload, Limits{})
	require.NoError(t, err)
	assert.Equal(t, 1280, img.Bounds().Dx())

	_, err = DecodeLimited(payload, Limits{MaxPixels: 1280*960 - 1})
	assert.ErrorIs(t, err, ErrInvalidPayload)
}
