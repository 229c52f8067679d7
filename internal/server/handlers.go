package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/medvis/fracturevis/internal/detect"
	"github.com/medvis/fracturevis/internal/session"
	"github.com/medvis/fracturevis/pkg/fracture"
	"github.com/medvis/fracturevis/pkg/geometry"
	"github.com/medvis/fracturevis/pkg/mesh"
	"github.com/medvis/fracturevis/pkg/stl"
	"github.com/medvis/fracturevis/version"
)

func respondJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, map[string]string{"error": message}, status)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]any{
		"service":            "fracturevis",
		"version":            version.Version,
		"detector_available": s.detectorLive,
	}, http.StatusOK)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

func (s *Server) handleUploadXray(w http.ResponseWriter, r *http.Request) {
	data, _, err := s.readUpload(r)
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	img, _, err := decodeImage(data)
	if err != nil {
		respondError(w, "unsupported image format", http.StatusBadRequest)
		return
	}
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	sess := session.New()
	sess.ImageWidth = width
	sess.ImageHeight = height
	sess.Mesh = s.defaultModel()

	breaks, err := s.detector.Detect(r.Context(), data, width, height)
	if err != nil {
		log.Printf("detection failed for session %s: %v", sess.ID, err)
		breaks = fracture.BreakPoints{}
	}
	sess.Breaks = breaks
	s.store.Put(sess)

	preview, err := previewDataURL(img)
	if err != nil {
		log.Printf("preview encoding failed for session %s: %v", sess.ID, err)
	}

	types := make([]string, 0, len(breaks))
	for _, label := range []string{fracture.LabelUlnaBreak, fracture.LabelRadiusBreak} {
		if _, ok := breaks[label]; ok {
			types = append(types, label)
		}
	}

	respondJSON(w, map[string]any{
		"session_id":         sess.ID,
		"preview":            preview,
		"width":              width,
		"height":             height,
		"fractures_detected": len(breaks),
		"fracture_types":     types,
	}, http.StatusOK)
}

func (s *Server) handleUploadModel(w http.ResponseWriter, r *http.Request) {
	data, _, err := s.readUpload(r)
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	m, err := stl.Decode(data)
	if err != nil {
		respondError(w, fmt.Sprintf("invalid STL: %v", err), http.StatusBadRequest)
		return
	}

	var sess *session.Session
	if id := r.FormValue("session_id"); id != "" {
		sess, err = s.store.Get(id)
		if err != nil {
			respondError(w, "session not found", http.StatusNotFound)
			return
		}
	} else {
		sess = session.New()
	}

	sess.Mesh = m
	sess.OriginalSTL = data
	s.store.Put(sess)

	respondJSON(w, map[string]any{
		"session_id": sess.ID,
		"vertices":   m.VertexCount(),
		"triangles":  m.TriangleCount(),
	}, http.StatusOK)
}

type landmarkPoint struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label"`
}

type landmarksRequest struct {
	SessionID string          `json:"session_id"`
	Landmarks []landmarkPoint `json:"landmarks"`
}

func (s *Server) handleProcessLandmarks(w http.ResponseWriter, r *http.Request) {
	var req landmarksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	sess, err := s.store.Get(req.SessionID)
	if err != nil {
		respondError(w, "session not found", http.StatusNotFound)
		return
	}

	landmarks := fracture.Landmarks{}
	for _, p := range req.Landmarks {
		if sess.ImageWidth > 0 && sess.ImageHeight > 0 {
			landmarks[p.Label] = geometry.FromImage(p.X, p.Y, sess.ImageWidth, sess.ImageHeight)
		} else {
			// Model-only sessions carry no image frame; take the
			// coordinates as already centered.
			landmarks[p.Label] = geometry.NewPoint2D(p.X, p.Y)
		}
	}
	sess.Landmarks = landmarks

	breaks := sess.Breaks
	if len(breaks) == 0 {
		breaks, _ = detect.Fallback{}.Detect(r.Context(), nil, sess.ImageWidth, sess.ImageHeight)
		sess.Breaks = breaks
	}

	measurements := fracture.Analyze(landmarks, breaks)

	model := sess.Mesh
	if model == nil {
		model = s.defaultModel()
	}
	if model == nil {
		model = fallbackCylinder()
	}

	fractured, clamped := fracture.ApplyAll(model, measurements)
	if clamped {
		log.Printf("session %s: break point outside the landmark span, split ratio clamped", sess.ID)
	}

	sess.Measurements = measurements
	sess.Fractured = fractured
	s.store.Put(sess)

	bones := make([]fracture.Bone, 0, len(measurements))
	for _, m := range measurements {
		bones = append(bones, m.Bone)
	}

	confidence := confidenceFallback
	if s.detectorLive {
		confidence = confidenceDetector
	}

	result := map[string]any{
		"fractures":      measurements,
		"confidence":     confidence,
		"detected_bones": bones,
	}

	if report, err := s.advisor.Analyze(r.Context(), measurements); err != nil {
		log.Printf("session %s: advisory analysis failed: %v", sess.ID, err)
	} else if report != nil {
		result["medical_analysis"] = report
	}

	respondJSON(w, result, http.StatusOK)
}

func (s *Server) handleModelOriginal(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.PathValue("session"))
	if err != nil {
		respondError(w, "session not found", http.StatusNotFound)
		return
	}

	if len(sess.OriginalSTL) > 0 {
		serveSTLBytes(w, "original.stl", sess.OriginalSTL)
		return
	}

	m := sess.Mesh
	if m == nil {
		m = s.defaultModel()
	}
	if m == nil {
		m = fallbackCylinder()
	}
	serveSTLMesh(w, "original.stl", m)
}

func (s *Server) handleModelFractured(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.PathValue("session"))
	if err != nil {
		respondError(w, "session not found", http.StatusNotFound)
		return
	}

	m := sess.Fractured
	if m == nil {
		m = sess.Mesh
	}
	if m == nil {
		m = s.defaultModel()
	}
	if m == nil {
		m = fallbackCylinder()
	}
	serveSTLMesh(w, "fractured.stl", m)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.PathValue("session"))
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			respondError(w, "session not found", http.StatusNotFound)
			return
		}
		respondError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, map[string]any{
		"session_id":   sess.ID,
		"has_image":    sess.ImageWidth > 0,
		"has_model":    sess.Mesh != nil,
		"has_fracture": sess.Fractured != nil,
		"fractures":    len(sess.Measurements),
		"created_at":   sess.CreatedAt.Format(time.RFC3339),
	}, http.StatusOK)
}

// readUpload extracts the "file" part of a multipart upload, bounded by
// the configured size limit.
func (s *Server) readUpload(r *http.Request) ([]byte, string, error) {
	limit := int64(s.cfg.MaxUploadMB) << 20
	r.Body = http.MaxBytesReader(nil, r.Body, limit)

	if err := r.ParseMultipartForm(limit); err != nil {
		return nil, "", fmt.Errorf("failed to parse form")
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", fmt.Errorf("no file uploaded")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read file")
	}
	return data, header.Filename, nil
}

func serveSTLBytes(w http.ResponseWriter, name string, data []byte) {
	w.Header().Set("Content-Type", "model/stl")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Write(data)
}

func serveSTLMesh(w http.ResponseWriter, name string, m *mesh.Mesh) {
	w.Header().Set("Content-Type", "model/stl")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	if err := stl.Encode(w, m); err != nil {
		log.Printf("stream %s: %v", name, err)
	}
}

// fallbackCylinder is the stand-in bone used when no model was uploaded
// and no default model is configured.
func fallbackCylinder() *mesh.Mesh {
	return mesh.NewCylinder(10, 200, 32)
}
