package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"museumCompanionAPI/internal/docstore"
	"museumCompanionAPI/internal/types/attendance"
	"museumCompanionAPI/internal/zones"
)

func seedLog(store *docstore.MemoryStore, userID, activityID string) {
	id := attendance.LogID(userID, activityID)
	store.Seed(collectionAttendance, id, attendance.Log{
		ID:         id,
		VisitedAt:  time.Now(),
		ActivityID: activityID,
		UserID:     userID,
	})
}

func TestProgressRatio_OneOfThreeInSoy(t *testing.T) {
	store := docstore.NewMemoryStore()
	seedActivity(store, "act1", "Heartbeat Wall", testZoneSoy)
	seedActivity(store, "act2", "Body Map", testZoneSoy)
	seedActivity(store, "act3", "Senses Lab", testZoneSoy)
	seedLog(store, "user1", "act1")

	svc := NewProgressService(store)
	progress, err := svc.ProgressRatio(context.Background(), "user1")
	require.NoError(t, err)
	require.Len(t, progress, len(zones.All()))

	byZone := make(map[string]ZoneProgress, len(progress))
	for _, p := range progress {
		byZone[p.ZoneID] = p
	}

	soy := byZone[testZoneSoy]
	assert.Equal(t, "Soy", soy.ZoneName)
	assert.Equal(t, 3, soy.Total)
	assert.Equal(t, 1, soy.Completed)
	assert.InDelta(t, 1.0/3.0, soy.Ratio, 1e-9)
}

func TestProgressRatio_BoundsAndEmptyZones(t *testing.T) {
	store := docstore.NewMemoryStore()
	seedActivity(store, "act1", "Heartbeat Wall", testZoneSoy)
	seedLog(store, "user1", "act1")

	svc := NewProgressService(store)
	progress, err := svc.ProgressRatio(context.Background(), "user1")
	require.NoError(t, err)

	for _, p := range progress {
		assert.GreaterOrEqual(t, p.Ratio, 0.0)
		assert.LessOrEqual(t, p.Ratio, 1.0)
		if p.Total == 0 {
			assert.Equal(t, 0.0, p.Ratio, "zone %s with no activities must report 0", p.ZoneID)
		}
	}

	for _, p := range progress {
		if p.ZoneID == testZoneSoy {
			assert.Equal(t, 1.0, p.Ratio)
		}
	}
}

func TestProgressRatio_CompletionIsMonotonic(t *testing.T) {
	store := docstore.NewMemoryStore()
	seedActivity(store, "act1", "Heartbeat Wall", testZoneSoy)
	seedActivity(store, "act2", "Body Map", testZoneSoy)

	svc := NewProgressService(store)
	ctx := context.Background()

	ratioOf := func() float64 {
		progress, err := svc.ProgressRatio(ctx, "user1")
		require.NoError(t, err)
		for _, p := range progress {
			if p.ZoneID == testZoneSoy {
				return p.Ratio
			}
		}
		t.Fatal("zone missing from progress")
		return 0
	}

	r0 := ratioOf()
	seedLog(store, "user1", "act1")
	r1 := ratioOf()
	seedLog(store, "user1", "act2")
	r2 := ratioOf()

	assert.LessOrEqual(t, r0, r1)
	assert.LessOrEqual(t, r1, r2)
	assert.Equal(t, 1.0, r2)
}

func TestUserCompletedCounts_SkipsMissingActivity(t *testing.T) {
	store := docstore.NewMemoryStore()
	seedActivity(store, "act1", "Heartbeat Wall", testZoneSoy)
	seedLog(store, "user1", "act1")
	seedLog(store, "user1", "deleted-activity")

	svc := NewProgressService(store)
	completed, err := svc.UserCompletedCounts(context.Background(), "user1")
	require.NoError(t, err)
	assert.Equal(t, 1, completed[testZoneSoy])
}
