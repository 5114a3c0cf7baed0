package services

import (
	"context"
	"fmt"
	"log"
	"math/rand"

	"museumCompanionAPI/internal/docstore"
	"museumCompanionAPI/internal/types/activity"
	"museumCompanionAPI/internal/zones"
)

// ActivityService is the read-only access path to the activity catalog.
type ActivityService struct {
	store docstore.Store
}

func NewActivityService(store docstore.Store) *ActivityService {
	return &ActivityService{store: store}
}

// GetRandomActivities returns up to count activities chosen uniformly at
// random, each joined with its zone. Activities whose zone id does not
// resolve are excluded silently; that is an availability rule, not an error.
func (s *ActivityService) GetRandomActivities(ctx context.Context, count int) ([]activity.ActivityWithZone, error) {
	if count <= 0 {
		return []activity.ActivityWithZone{}, nil
	}

	eligible, err := s.allEligible(ctx)
	if err != nil {
		return nil, err
	}

	rand.Shuffle(len(eligible), func(i, j int) {
		eligible[i], eligible[j] = eligible[j], eligible[i]
	})
	if count < len(eligible) {
		eligible = eligible[:count]
	}
	return eligible, nil
}

// GetActivityByID fetches one activity. Absence surfaces as
// docstore.ErrNotFound, which callers treat as a normal outcome.
func (s *ActivityService) GetActivityByID(ctx context.Context, id string) (*activity.Activity, error) {
	doc, err := s.store.Get(ctx, collectionActivities, id)
	if err != nil {
		return nil, err
	}
	act, err := decodeActivity(doc)
	if err != nil {
		return nil, err
	}
	return &act, nil
}

// GetActivitiesByZone returns every activity of one zone, zone-joined. An
// unknown zone id yields an empty result.
func (s *ActivityService) GetActivitiesByZone(ctx context.Context, zoneID string) ([]activity.ActivityWithZone, error) {
	z, ok := zones.ByID(zoneID)
	if !ok {
		log.Printf("GetActivitiesByZone: unknown zone %s", zoneID)
		return []activity.ActivityWithZone{}, nil
	}

	docs, err := s.store.Query(ctx, collectionActivities, "zoneId", zoneID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch activities for zone %s: %w", zoneID, err)
	}

	result := make([]activity.ActivityWithZone, 0, len(docs))
	for _, doc := range docs {
		act, err := decodeActivity(doc)
		if err != nil {
			log.Printf("GetActivitiesByZone: skipping %s: %v", doc.ID, err)
			continue
		}
		result = append(result, activity.ActivityWithZone{Activity: act, Zone: z})
	}
	return result, nil
}

// allEligible lists every activity whose zone resolves against the static
// directory.
func (s *ActivityService) allEligible(ctx context.Context) ([]activity.ActivityWithZone, error) {
	docs, err := s.store.GetAll(ctx, collectionActivities)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch activities: %w", err)
	}

	result := make([]activity.ActivityWithZone, 0, len(docs))
	for _, doc := range docs {
		act, err := decodeActivity(doc)
		if err != nil {
			log.Printf("allEligible: skipping %s: %v", doc.ID, err)
			continue
		}
		z, ok := zones.ByID(act.ZoneID)
		if !ok {
			continue
		}
		result = append(result, activity.ActivityWithZone{Activity: act, Zone: z})
	}
	return result, nil
}

func decodeActivity(doc docstore.Document) (activity.Activity, error) {
	var act activity.Activity
	if err := doc.DataTo(&act); err != nil {
		return activity.Activity{}, fmt.Errorf("failed to decode activity %s: %w", doc.ID, err)
	}
	act.ID = doc.ID
	return act, nil
}
