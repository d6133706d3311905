package detect

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestDetectParsesLandmarks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/detect" {
			t.Errorf("path = %q, want /api/detect", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"faces":[{
			"leftEye":{"x":180,"y":140},
			"rightEye":{"x":260,"y":140},
			"nose":{"x":220,"y":190},
			"mouth":{"x":220,"y":240},
			"box":{"x":140,"y":90,"width":160,"height":200}
		}]}`))
	}))
	defer srv.Close()

	d := NewHTTPDetector(srv.URL, time.Second)
	lm, err := d.Detect(context.Background(), "base64data")
	if err != nil {
		t.Fatalf("Detect() error: %v", err)
	}
	if lm == nil {
		t.Fatal("Detect() returned nil landmarks")
	}
	if lm.Nose.X != 220 || lm.Nose.Y != 190 {
		t.Errorf("nose = %+v, want (220, 190)", lm.Nose)
	}
	if lm.FaceBox.Width != 160 {
		t.Errorf("face box width = %v, want 160", lm.FaceBox.Width)
	}
}

func TestDetectNoFaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"faces":[]}`))
	}))
	defer srv.Close()

	d := NewHTTPDetector(srv.URL, time.Second)
	lm, err := d.Detect(context.Background(), "base64data")
	if err != nil {
		t.Fatalf("Detect() error: %v", err)
	}
	if lm != nil {
		t.Errorf("Detect() = %+v, want nil for no faces", lm)
	}
}

func TestDetectServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	d := NewHTTPDetector(srv.URL, time.Second)
	if _, err := d.Detect(context.Background(), "base64data"); err == nil {
		t.Fatal("Detect() should surface service errors")
	}
}

func TestNopDetector(t *testing.T) {
	lm, err := NopDetector{}.Detect(context.Background(), "anything")
	if lm != nil || err != nil {
		t.Errorf("NopDetector.Detect() = %v, %v, want nil, nil", lm, err)
	}
}
