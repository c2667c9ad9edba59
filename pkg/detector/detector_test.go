package detector

import (
	"context"
	"encoding/json"
	"image"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yoga-intelligence-be/pkg/pose"
)

func frame() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 16, 16))
}

func TestHTTPDetectorFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/detect", r.URL.Path)
		assert.Equal(t, "image/jpeg", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.NotEmpty(t, body)

		lms := make([]pose.Landmark, pose.LandmarkCount)
		for i := range lms {
			lms[i] = pose.Landmark{X: float64(i) / 100, Y: 0.5, Visibility: 0.9}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"landmarks": lms})
	}))
	defer srv.Close()

	d := NewHTTPDetector(srv.URL, time.Second)
	set, found, err := d.Detect(context.Background(), frame())
	require.NoError(t, err)
	assert.True(t, found)
	require.Len(t, set, pose.LandmarkCount)
	assert.Equal(t, pose.LeftKnee, set[pose.LeftKnee].ID)
	assert.InDelta(t, 0.25, set[pose.LeftKnee].X, 1e-9)
}

func TestHTTPDetectorNoPose(t *testing.T) {
	for name, handler := range map[string]http.HandlerFunc{
		"no content": func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) },
		"flag false": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"pose_detected":false,"landmarks":[]}`))
		},
		"empty": func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`{"landmarks":[]}`)) },
	} {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(handler)
			defer srv.Close()
			set, found, err := NewHTTPDetector(srv.URL, time.Second).Detect(context.Background(), frame())
			require.NoError(t, err)
			assert.False(t, found)
			assert.Empty(t, set)
		})
	}
}

func TestHTTPDetectorFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model crashed", http.StatusInternalServerError)
	}))
	defer srv.Close()

	d := NewHTTPDetector(srv.URL, time.Second)
	_, found, err := d.Detect(context.Background(), frame())
	assert.False(t, found)
	assert.ErrorIs(t, err, ErrDetectorUnavailable)
	assert.ErrorIs(t, d.Health(context.Background()), ErrDetectorUnavailable)
}

func TestHTTPDetectorHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()
	assert.NoError(t, NewHTTPDetector(srv.URL+"/", 0).Health(context.Background()))
}

func TestFuncAdapter(t *testing.T) {
	var d Detector = Func(func(ctx context.Context, img image.Image) (pose.LandmarkSet, bool, error) {
		return pose.LandmarkSet{{ID: 0}}, true, nil
	})
	set, found, err := d.Detect(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Len(t, set, 1)
}
