package detect

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/medvis/fracturevis/pkg/fracture"
)

func TestClientDetectAssignsBones(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("expected multipart body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		// 200x100 image: center x is 100. One box left of center, one right.
		w.Write([]byte(`{"detections":[
			{"x":20,"y":40,"width":20,"height":20,"class":"fracture","confidence":0.9},
			{"x":140,"y":30,"width":20,"height":20,"class":"fracture","confidence":0.8}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	breaks, err := client.Detect(context.Background(), []byte("fake image"), 200, 100)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}

	radius, ok := breaks[fracture.LabelRadiusBreak]
	if !ok {
		t.Fatal("expected a radius break from the left-side box")
	}
	// Box center (30, 50) in a 200x100 image maps to (-70, 0)
	if radius.X != -70 || radius.Y != 0 {
		t.Errorf("expected radius break at (-70, 0), got %v", radius)
	}

	ulna, ok := breaks[fracture.LabelUlnaBreak]
	if !ok {
		t.Fatal("expected an ulna break from the right-side box")
	}
	// Box center (150, 40) maps to (50, 10)
	if ulna.X != 50 || ulna.Y != 10 {
		t.Errorf("expected ulna break at (50, 10), got %v", ulna)
	}
}

func TestClientDetectFiltersLowConfidence(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"detections":[
			{"x":20,"y":40,"width":20,"height":20,"class":"fracture","confidence":0.1}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	breaks, err := client.Detect(context.Background(), nil, 200, 100)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(breaks) != 0 {
		t.Errorf("expected low-confidence detection dropped, got %v", breaks)
	}
}

func TestClientDetectKeepsFirstPerBone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"detections":[
			{"x":140,"y":30,"width":20,"height":20,"class":"fracture","confidence":0.9},
			{"x":160,"y":60,"width":20,"height":20,"class":"fracture","confidence":0.95}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	breaks, err := client.Detect(context.Background(), nil, 200, 100)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(breaks) != 1 {
		t.Fatalf("expected one break kept per bone, got %d", len(breaks))
	}
	ulna := breaks[fracture.LabelUlnaBreak]
	if ulna.X != 50 {
		t.Errorf("expected the first detection kept, got %v", ulna)
	}
}

func TestClientDetectErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	if _, err := client.Detect(context.Background(), nil, 200, 100); err == nil {
		t.Error("expected error on non-200 response")
	}
}

func TestClientHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	if err := client.Health(context.Background()); err != nil {
		t.Errorf("Health failed: %v", err)
	}
}

func TestFallbackProvidesBothBones(t *testing.T) {
	breaks, err := Fallback{}.Detect(context.Background(), nil, 200, 100)
	if err != nil {
		t.Fatalf("Fallback failed: %v", err)
	}
	if _, ok := breaks[fracture.LabelUlnaBreak]; !ok {
		t.Error("expected an ulna break")
	}
	if _, ok := breaks[fracture.LabelRadiusBreak]; !ok {
		t.Error("expected a radius break")
	}
}
