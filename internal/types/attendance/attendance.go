package attendance

import (
	"fmt"
	"time"
)

// Log is the durable evidence that a user completed an activity. At most one
// log exists per (user, activity) pair; the deterministic document id is the
// mechanism that enforces it.
type Log struct {
	ID         string    `json:"id" firestore:"id"`
	VisitedAt  time.Time `json:"visitedAt" firestore:"visitedAt"`
	ActivityID string    `json:"activityId" firestore:"activityId"`
	UserID     string    `json:"userId" firestore:"userId"`
}

// LogID derives the deterministic document id for a (user, activity) pair.
func LogID(userID, activityID string) string {
	return fmt.Sprintf("log_%s_%s", userID, activityID)
}
