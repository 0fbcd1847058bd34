package session

import (
	"sync"
	"time"

	"github.com/sguter90/anomalymaestro/pkg/models"
)

// Artifact records where the chart for the current result was delivered
type Artifact struct {
	Filename  string
	URL       string
	LocalPath string
}

// Session holds the single current detection result. Publishing replaces it;
// there is no history.
type Session struct {
	mu          sync.RWMutex
	result      *models.DetectionResult
	artifact    *Artifact
	generation  uint64
	publishedAt time.Time
}

// New creates an empty session
func New() *Session {
	return &Session{}
}

// Publish unconditionally replaces the current result and drops any artifact
// rendered for the previous one. It returns the new generation number.
func (s *Session) Publish(result models.DetectionResult) uint64 {
	clone := result.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.result = &clone
	s.artifact = nil
	s.generation++
	s.publishedAt = time.Now().UTC()
	return s.generation
}

// Current returns the last published result or a SessionEmpty error
func (s *Session) Current() (models.DetectionResult, error) {
	result, _, err := s.Snapshot()
	return result, err
}

// Snapshot returns the current result together with its generation
func (s *Session) Snapshot() (models.DetectionResult, uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.result == nil {
		return models.DetectionResult{}, 0, models.NewError(models.KindSessionEmpty,
			"No anomaly detection results available. Run detect_anomalies first.", nil)
	}
	return s.result.Clone(), s.generation, nil
}

// AttachArtifact stores artifact for the result of the given generation. It is
// a no-op when a newer result has been published in between.
func (s *Session) AttachArtifact(generation uint64, artifact Artifact) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.result == nil || generation != s.generation {
		return false
	}
	s.artifact = &artifact
	return true
}

// CurrentArtifact returns the artifact rendered for the current result, if any
func (s *Session) CurrentArtifact() (Artifact, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.artifact == nil {
		return Artifact{}, false
	}
	return *s.artifact, true
}

// PublishedAt returns when the current result was published
func (s *Session) PublishedAt() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.publishedAt, s.result != nil
}
