package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"museumCompanionAPI/internal/docstore"
	"museumCompanionAPI/internal/types/achievement"
	"museumCompanionAPI/internal/types/activity"
)

// AchievementService assembles a user's achievement album.
type AchievementService struct {
	store docstore.Store
}

func NewAchievementService(store docstore.Store) *AchievementService {
	return &AchievementService{store: store}
}

// GetUserAlbum returns every configured achievement joined with the user's
// unlock record. Achievements the user never earned get a synthesized locked
// placeholder so the client can render the complete album without negative
// records existing in storage. Achievements whose keyed activity cannot be
// resolved are skipped.
func (s *AchievementService) GetUserAlbum(ctx context.Context, userID string) ([]achievement.AlbumEntry, error) {
	achDocs, err := s.store.GetAll(ctx, collectionAchievements)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch achievements: %w", err)
	}

	unlockDocs, err := s.store.Query(ctx, collectionUnlocks, "userId", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unlocks: %w", err)
	}
	unlocked := make(map[string]achievement.Unlock, len(unlockDocs))
	for _, doc := range unlockDocs {
		var u achievement.Unlock
		if err := doc.DataTo(&u); err != nil {
			return nil, fmt.Errorf("failed to decode unlock %s: %w", doc.ID, err)
		}
		u.ID = doc.ID
		unlocked[u.AchievementID] = u
	}

	album := make([]achievement.AlbumEntry, 0, len(achDocs))
	for _, doc := range achDocs {
		var ach achievement.Achievement
		if err := doc.DataTo(&ach); err != nil {
			return nil, fmt.Errorf("failed to decode achievement %s: %w", doc.ID, err)
		}
		ach.ID = doc.ID

		actDoc, err := s.store.Get(ctx, collectionActivities, ach.ActivityID)
		if errors.Is(err, docstore.ErrNotFound) {
			log.Printf("GetUserAlbum: achievement %s references missing activity %s", ach.ID, ach.ActivityID)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to resolve activity %s: %w", ach.ActivityID, err)
		}
		var act activity.Activity
		if err := actDoc.DataTo(&act); err != nil {
			return nil, fmt.Errorf("failed to decode activity %s: %w", ach.ActivityID, err)
		}

		entry, ok := unlocked[ach.ID]
		if !ok {
			entry = achievement.Unlock{
				ID:            achievement.LockedPlaceholderID(ach.ID),
				Unlocked:      false,
				UserID:        userID,
				AchievementID: ach.ID,
			}
		}
		album = append(album, achievement.AlbumEntry{
			Achievement: ach,
			Unlock:      entry,
			ZoneID:      act.ZoneID,
		})
	}

	// Unlocked entries first, then by name, so the album is stable.
	sort.SliceStable(album, func(i, j int) bool {
		if album[i].Unlock.Unlocked != album[j].Unlock.Unlocked {
			return album[i].Unlock.Unlocked
		}
		return album[i].Achievement.Name < album[j].Achievement.Name
	})
	return album, nil
}
