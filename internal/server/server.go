// Package server exposes the analysis pipeline over HTTP.
package server

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/medvis/fracturevis/internal/advisory"
	"github.com/medvis/fracturevis/internal/config"
	"github.com/medvis/fracturevis/internal/detect"
	"github.com/medvis/fracturevis/internal/session"
	"github.com/medvis/fracturevis/pkg/mesh"
)

// Static confidence reported with analysis results: higher when a live
// detector sidecar produced the break points, lower for the fallback.
const (
	confidenceDetector = 0.92
	confidenceFallback = 0.75
)

type Server struct {
	cfg      *config.Config
	store    session.Store
	detector detect.Detector
	advisor  advisory.Advisor

	// detectorLive records whether the inference sidecar answered its
	// health check at startup.
	detectorLive bool

	mu          sync.RWMutex
	defaultMesh *mesh.Mesh
}

func New(cfg *config.Config, store session.Store, detector detect.Detector, detectorLive bool, advisor advisory.Advisor, defaultMesh *mesh.Mesh) *Server {
	return &Server{
		cfg:          cfg,
		store:        store,
		detector:     detector,
		advisor:      advisor,
		detectorLive: detectorLive,
		defaultMesh:  defaultMesh,
	}
}

// SetDefaultModel swaps the default bone model. Called by the file
// watcher when the model on disk changes; sessions created afterwards
// pick up the new mesh.
func (s *Server) SetDefaultModel(m *mesh.Mesh) {
	s.mu.Lock()
	s.defaultMesh = m
	s.mu.Unlock()
}

func (s *Server) defaultModel() *mesh.Mesh {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaultMesh
}

// Handler builds the route table with CORS and request logging applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /upload/xray", s.handleUploadXray)
	mux.HandleFunc("POST /upload/model", s.handleUploadModel)
	mux.HandleFunc("POST /process/landmarks", s.handleProcessLandmarks)
	mux.HandleFunc("GET /model/{session}/original", s.handleModelOriginal)
	mux.HandleFunc("GET /model/{session}/fractured", s.handleModelFractured)
	mux.HandleFunc("GET /session/{session}", s.handleSession)
	mux.HandleFunc("GET /health", s.handleHealth)

	return s.logRequests(s.cors(mux))
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.cfg.CORSOrigins)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
