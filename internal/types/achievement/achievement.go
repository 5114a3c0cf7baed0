package achievement

import (
	"fmt"
	"time"
)

// Achievement is reference data: a named reward keyed to exactly one activity.
type Achievement struct {
	ID          string `json:"id" firestore:"id"`
	Name        string `json:"name" firestore:"name"`
	Description string `json:"description" firestore:"description"`
	ActivityID  string `json:"activityId" firestore:"activityId"`
}

// Unlock records that a user has earned an achievement. Once Unlocked is true
// it never reverts.
type Unlock struct {
	ID            string    `json:"id" firestore:"id"`
	Unlocked      bool      `json:"unlocked" firestore:"unlocked"`
	UserID        string    `json:"userId" firestore:"userId"`
	AchievementID string    `json:"achievementId" firestore:"achievementId"`
	UnlockedAt    time.Time `json:"unlockedAt" firestore:"unlockedAt"`
}

// AlbumEntry is one row of a user's achievement album: the achievement, its
// unlock state (a synthesized locked placeholder when the user never earned
// it), and the zone the keyed activity belongs to.
type AlbumEntry struct {
	Achievement Achievement `json:"achievement"`
	Unlock      Unlock      `json:"unlock"`
	ZoneID      string      `json:"zoneId"`
}

// UnlockID derives the deterministic document id for a (user, achievement)
// pair.
func UnlockID(userID, achievementID string) string {
	return fmt.Sprintf("achievementUnlock_%s_%s", userID, achievementID)
}

// LockedPlaceholderID marks album entries that exist only client-side; they
// are never persisted.
func LockedPlaceholderID(achievementID string) string {
	return "locked_" + achievementID
}
