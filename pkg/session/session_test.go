package session

import (
	"errors"
	"sync"
	"testing"

	"github.com/sguter90/anomalymaestro/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult(sensorID string, scores ...int) models.DetectionResult {
	result := models.DetectionResult{SensorID: sensorID, Parameter: models.ParameterTemperature}
	for i, s := range scores {
		result.Readings = append(result.Readings, models.NewScoredReading(models.SensorReading{
			SensorID:    sensorID,
			Temperature: float64(20 + i),
		}, s))
	}
	return result
}

func TestSession_EmptyAtStart(t *testing.T) {
	s := New()

	_, err := s.Current()
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrSessionEmpty))

	_, ok := s.CurrentArtifact()
	assert.False(t, ok)

	_, published := s.PublishedAt()
	assert.False(t, published)
}

func TestSession_PublishOverwrites(t *testing.T) {
	s := New()

	s.Publish(sampleResult("S001", 1, -1, 1))
	s.Publish(sampleResult("S002", 1))

	current, err := s.Current()
	require.NoError(t, err)
	assert.Equal(t, "S002", current.SensorID)
	assert.Equal(t, 1, current.Len())
}

func TestSession_IsolatedFromCallerMutation(t *testing.T) {
	s := New()
	result := sampleResult("S001", 1, 1)

	s.Publish(result)
	result.Readings[0] = models.NewScoredReading(models.SensorReading{}, models.ScoreAnomalous)

	current, err := s.Current()
	require.NoError(t, err)
	assert.Equal(t, 0, current.AnomalyCount())

	current.Readings[1].IsAnomaly = true
	again, _ := s.Current()
	assert.Equal(t, 0, again.AnomalyCount())
}

func TestSession_ArtifactFollowsGeneration(t *testing.T) {
	s := New()

	assert.False(t, s.AttachArtifact(0, Artifact{Filename: "early.png"}))

	gen := s.Publish(sampleResult("S001", 1))
	require.True(t, s.AttachArtifact(gen, Artifact{Filename: "a.png", URL: "http://localhost:5000/graficos/a.png"}))

	artifact, ok := s.CurrentArtifact()
	require.True(t, ok)
	assert.Equal(t, "a.png", artifact.Filename)

	next := s.Publish(sampleResult("S001", -1))
	_, ok = s.CurrentArtifact()
	assert.False(t, ok, "publishing must drop the previous artifact")

	assert.False(t, s.AttachArtifact(gen, Artifact{Filename: "stale.png"}))
	assert.True(t, s.AttachArtifact(next, Artifact{Filename: "b.png"}))
}

func TestSession_ConcurrentPublishAndRead(t *testing.T) {
	s := New()
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Publish(sampleResult("S001", 1, -1, 1, 1))
		}()
		go func() {
			defer wg.Done()
			if current, err := s.Current(); err == nil {
				assert.Equal(t, 4, current.Len())
			}
		}()
	}
	wg.Wait()
}
