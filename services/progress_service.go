package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"museumCompanionAPI/internal/docstore"
	"museumCompanionAPI/internal/types/activity"
	"museumCompanionAPI/internal/types/attendance"
	"museumCompanionAPI/internal/zones"
)

// ZoneProgress is one zone's completion state for a user.
type ZoneProgress struct {
	ZoneID    string  `json:"zoneId"`
	ZoneName  string  `json:"zoneName"`
	Total     int     `json:"total"`
	Completed int     `json:"completed"`
	Ratio     float64 `json:"ratio"`
}

// ProgressService aggregates per-zone completion ratios.
type ProgressService struct {
	store docstore.Store
}

func NewProgressService(store docstore.Store) *ProgressService {
	return &ProgressService{store: store}
}

// ZoneActivityCounts returns the total activity count per zone. One count
// query per zone; the zone set is six, so the round-trips stay bounded.
func (s *ProgressService) ZoneActivityCounts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, len(zones.All()))
	for _, z := range zones.All() {
		n, err := s.store.Count(ctx, collectionActivities, "zoneId", z.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count activities in zone %s: %w", z.ID, err)
		}
		counts[z.ID] = int(n)
	}
	return counts, nil
}

// UserCompletedCounts returns, per zone, how many activities the user has
// logged. Each log is resolved to its activity to find the zone; O(logs)
// lookups, acceptable at tens of activities.
func (s *ProgressService) UserCompletedCounts(ctx context.Context, userID string) (map[string]int, error) {
	logDocs, err := s.store.Query(ctx, collectionAttendance, "userId", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch attendance logs: %w", err)
	}

	completed := make(map[string]int)
	for _, doc := range logDocs {
		var entry attendance.Log
		if err := doc.DataTo(&entry); err != nil {
			return nil, fmt.Errorf("failed to decode attendance log %s: %w", doc.ID, err)
		}

		actDoc, err := s.store.Get(ctx, collectionActivities, entry.ActivityID)
		if errors.Is(err, docstore.ErrNotFound) {
			log.Printf("UserCompletedCounts: log %s references missing activity %s", doc.ID, entry.ActivityID)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to resolve activity %s: %w", entry.ActivityID, err)
		}
		var act activity.Activity
		if err := actDoc.DataTo(&act); err != nil {
			return nil, fmt.Errorf("failed to decode activity %s: %w", entry.ActivityID, err)
		}
		if act.ZoneID == "" {
			continue
		}
		completed[act.ZoneID]++
	}
	return completed, nil
}

// ProgressRatio joins totals and completed counts into per-zone ratios.
// Every ratio is in [0, 1]; a zone with no activities reports 0.
func (s *ProgressService) ProgressRatio(ctx context.Context, userID string) ([]ZoneProgress, error) {
	totals, err := s.ZoneActivityCounts(ctx)
	if err != nil {
		return nil, err
	}
	completed, err := s.UserCompletedCounts(ctx, userID)
	if err != nil {
		return nil, err
	}

	progress := make([]ZoneProgress, 0, len(zones.All()))
	for _, z := range zones.All() {
		total := totals[z.ID]
		done := completed[z.ID]
		ratio := 0.0
		if total > 0 {
			ratio = float64(done) / float64(total)
		}
		progress = append(progress, ZoneProgress{
			ZoneID:    z.ID,
			ZoneName:  z.Name,
			Total:     total,
			Completed: done,
			Ratio:     ratio,
		})
	}
	return progress, nil
}
