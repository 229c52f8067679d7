package advisory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/medvis/fracturevis/pkg/fracture"
)

func sampleMeasurements() []fracture.Measurement {
	return []fracture.Measurement{
		{
			Bone:        fracture.Ulna,
			Damage:      "crack",
			Location:    0.5,
			TopAngle:    10,
			BottomAngle: -10,
			Severity:    fracture.SeverityModerate,
		},
	}
}

func TestClientAnalyzeParsesReport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("unexpected model %q", req.Model)
		}
		if len(req.Messages) != 1 || !strings.Contains(req.Messages[0].Content, "ulna") {
			t.Error("prompt should carry the measurement data")
		}

		content := `Here is the analysis:
{"most_likely_damaged_structures": ["ulnar nerve"], "explanation": "The midshaft ulnar fracture endangers the ulnar nerve."}`
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", "test-model", 5*time.Second)
	report, err := client.Analyze(context.Background(), sampleMeasurements())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if report == nil {
		t.Fatal("expected a report")
	}
	if len(report.Structures) != 1 || report.Structures[0] != "ulnar nerve" {
		t.Errorf("unexpected structures: %v", report.Structures)
	}
	if report.Explanation == "" {
		t.Error("expected an explanation")
	}
}

func TestClientAnalyzeNoMeasurements(t *testing.T) {
	client := NewClient("http://unused", "key", "model", time.Second)
	report, err := client.Analyze(context.Background(), nil)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if report != nil {
		t.Error("expected nil report for empty input")
	}
}

func TestClientAnalyzeErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "key", "model", time.Second)
	if _, err := client.Analyze(context.Background(), sampleMeasurements()); err == nil {
		t.Error("expected error on non-200 response")
	}
}

func TestDisabledAdvisor(t *testing.T) {
	report, err := Disabled{}.Analyze(context.Background(), sampleMeasurements())
	if err != nil {
		t.Fatalf("Disabled advisor should not fail: %v", err)
	}
	if report != nil {
		t.Error("Disabled advisor should return no report")
	}
}

func TestExtractJSON(t *testing.T) {
	raw, err := extractJSON("```json\n{\"a\": 1}\n```")
	if err != nil {
		t.Fatalf("extractJSON failed: %v", err)
	}
	if raw != `{"a": 1}` {
		t.Errorf("unexpected extraction: %q", raw)
	}

	if _, err := extractJSON("no json here"); err == nil {
		t.Error("expected error when no object present")
	}
}
