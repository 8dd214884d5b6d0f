package snapshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minzi-dev/floodwatch/internal/domain"
	"github.com/minzi-dev/floodwatch/internal/observability"
)

func testSnapshot(generatedAt time.Time) *Snapshot {
	wl := 10.81
	return &Snapshot{
		Stations: []domain.StationRecord{
			{
				Name:       "Hanwella",
				Basin:      "Kelani Ganga",
				Location:   &domain.Coordinate{Lat: 6.909, Lon: 80.083},
				Status:     domain.StatusMajorFlood,
				WaterLevel: &wl,
			},
		},
		GeneratedAt: generatedAt,
	}
}

func TestCachedAssessor_HitAndMiss(t *testing.T) {
	assessor := NewCachedAssessor(10, observability.NewMetricsForTesting())
	snap := testSnapshot(time.Date(2025, 11, 29, 10, 0, 0, 0, time.UTC))
	point := domain.Coordinate{Lat: 6.85, Lon: 80.03}

	first := assessor.Assess(snap, point, 15)
	assert.Equal(t, domain.RiskHigh, first.Level)
	assert.Equal(t, 1, len(assessor.cache.entries))

	second := assessor.Assess(snap, point, 15)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, len(assessor.cache.entries))
}

func TestCachedAssessor_RoundsCoordinates(t *testing.T) {
	assessor := NewCachedAssessor(10, observability.NewMetricsForTesting())
	snap := testSnapshot(time.Date(2025, 11, 29, 10, 0, 0, 0, time.UTC))

	assessor.Assess(snap, domain.Coordinate{Lat: 6.850004, Lon: 80.03}, 15)
	assessor.Assess(snap, domain.Coordinate{Lat: 6.850001, Lon: 80.03}, 15)
	assert.Equal(t, 1, len(assessor.cache.entries))
}

func TestCachedAssessor_NewSnapshotMisses(t *testing.T) {
	assessor := NewCachedAssessor(10, observability.NewMetricsForTesting())
	point := domain.Coordinate{Lat: 6.85, Lon: 80.03}

	assessor.Assess(testSnapshot(time.Date(2025, 11, 29, 10, 0, 0, 0, time.UTC)), point, 15)
	assessor.Assess(testSnapshot(time.Date(2025, 11, 29, 10, 10, 0, 0, time.UTC)), point, 15)
	assert.Equal(t, 2, len(assessor.cache.entries))
}

func TestCachedAssessor_DifferentRadiusMisses(t *testing.T) {
	assessor := NewCachedAssessor(10, observability.NewMetricsForTesting())
	snap := testSnapshot(time.Date(2025, 11, 29, 10, 0, 0, 0, time.UTC))
	point := domain.Coordinate{Lat: 6.85, Lon: 80.03}

	near := assessor.Assess(snap, point, 5)
	far := assessor.Assess(snap, point, 15)
	assert.Equal(t, 2, len(assessor.cache.entries))
	assert.Equal(t, domain.RiskUnknown, near.Level)
	assert.Equal(t, domain.RiskHigh, far.Level)
}

func TestLRUCache_EvictsOldest(t *testing.T) {
	c := newLRUCache(2)
	c.put("a", domain.RiskAssessment{Level: domain.RiskLow})
	c.put("b", domain.RiskAssessment{Level: domain.RiskMedium})

	// Touch "a" so "b" becomes least recently used.
	_, ok := c.get("a")
	require.True(t, ok)

	c.put("c", domain.RiskAssessment{Level: domain.RiskHigh})

	_, ok = c.get("b")
	assert.False(t, ok)
	_, ok = c.get("a")
	assert.True(t, ok)
	_, ok = c.get("c")
	assert.True(t, ok)
}
