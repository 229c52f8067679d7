// Package session holds per-upload state between the X-ray upload and
// the final model download.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/medvis/fracturevis/pkg/fracture"
	"github.com/medvis/fracturevis/pkg/mesh"
)

// Session is the working state of one analysis. A session starts with
// an X-ray upload, gains landmark and break annotations, and ends with
// a fractured mesh ready for download.
type Session struct {
	ID          string
	ImageWidth  int
	ImageHeight int

	Landmarks fracture.Landmarks
	Breaks    fracture.BreakPoints

	// Mesh is the undeformed bone model for this session, either the
	// server default or a per-session upload.
	Mesh *mesh.Mesh

	// OriginalSTL keeps the uploaded model bytes verbatim so the
	// download endpoint serves exactly what the client sent.
	OriginalSTL []byte

	Fractured    *mesh.Mesh
	Measurements []fracture.Measurement

	CreatedAt time.Time
}

// Store is the session registry. Implementations are safe for
// concurrent use. Writes follow last-write-wins: a Put under an
// existing ID replaces the stored session entirely.
type Store interface {
	Get(id string) (*Session, error)
	Put(s *Session)
	Delete(id string)
}

// ErrNotFound is returned by Get for unknown session IDs.
var ErrNotFound = fmt.Errorf("session not found")

type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
	}
}

func (s *MemoryStore) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return sess, nil
}

func (s *MemoryStore) Put(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
}

func (s *MemoryStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// NewID returns a fresh session identifier.
func NewID() string {
	return uuid.NewString()
}

// New creates an empty session with a generated ID.
func New() *Session {
	return &Session{
		ID:        NewID(),
		Landmarks: fracture.Landmarks{},
		Breaks:    fracture.BreakPoints{},
		CreatedAt: time.Now(),
	}
}
