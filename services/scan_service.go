package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"museumCompanionAPI/internal/docstore"
	"museumCompanionAPI/internal/types/achievement"
	"museumCompanionAPI/internal/types/activity"
	"museumCompanionAPI/internal/types/attendance"
)

// ScanStatus is the terminal outcome of processing one scan. Every value
// except ScanUnlocked is a legitimate non-error ending; transport and store
// failures are returned as errors, never as a status.
type ScanStatus string

const (
	ScanUnlocked           ScanStatus = "unlocked"
	ScanNoEligibleActivity ScanStatus = "no_eligible_activity"
	ScanAlreadyCompleted   ScanStatus = "already_completed"
	ScanNoAchievement      ScanStatus = "no_achievement"
	ScanAlreadyUnlocked    ScanStatus = "already_unlocked"
)

// ScanResult is what a scan produces for display. Activity and
// AchievementName are set only when Status is ScanUnlocked.
type ScanResult struct {
	Status          ScanStatus         `json:"status"`
	Activity        *activity.Activity `json:"activity,omitempty"`
	UserID          string             `json:"userId"`
	AchievementName string             `json:"achievementName,omitempty"`
}

// UnlockNotifier receives a best-effort signal after a successful unlock.
type UnlockNotifier interface {
	NotifyUnlock(ctx context.Context, userID, achievementName, activityName string)
}

// ScanService turns a QR scan into an attendance log plus an achievement
// unlock, written together atomically.
type ScanService struct {
	store    docstore.Store
	notifier UnlockNotifier
	now      func() time.Time
}

func NewScanService(store docstore.Store) *ScanService {
	return &ScanService{store: store, now: time.Now}
}

// SetNotifier injects the push provider. Scans work without one.
func (s *ScanService) SetNotifier(n UnlockNotifier) {
	s.notifier = n
}

// ProcessScan runs the unlock workflow for one scanned code.
//
// The scanned payload is deliberately not interpreted: selection is a
// uniform-random pick from the activities the user has not completed yet
// (demo mode). The payload is only validated as non-empty and logged.
//
// The duplicate guards are read-then-write; only the final two-document
// batch is atomic. Two concurrent scans for the same user can both pass the
// guards before either commit. Tolerated at exhibit scale; the identical
// payloads make the double write content-idempotent.
func (s *ScanService) ProcessScan(ctx context.Context, qrContent string, userID string) (*ScanResult, error) {
	if userID == "" {
		return nil, errors.New("user id is required")
	}
	log.Printf("ProcessScan: user %s scanned %q", userID, qrContent)

	// 1. Activities the user already completed.
	logDocs, err := s.store.Query(ctx, collectionAttendance, "userId", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch attendance logs: %w", err)
	}
	completed := make(map[string]bool, len(logDocs))
	for _, doc := range logDocs {
		var entry attendance.Log
		if err := doc.DataTo(&entry); err != nil {
			return nil, fmt.Errorf("failed to decode attendance log %s: %w", doc.ID, err)
		}
		completed[entry.ActivityID] = true
	}

	// 2. Eligible set and random selection.
	actDocs, err := s.store.GetAll(ctx, collectionActivities)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch activities: %w", err)
	}
	var eligible []activity.Activity
	for _, doc := range actDocs {
		act, err := decodeActivity(doc)
		if err != nil {
			log.Printf("ProcessScan: skipping %s: %v", doc.ID, err)
			continue
		}
		if !completed[act.ID] {
			eligible = append(eligible, act)
		}
	}
	if len(eligible) == 0 {
		log.Printf("ProcessScan: user %s has completed every activity", userID)
		return &ScanResult{Status: ScanNoEligibleActivity, UserID: userID}, nil
	}
	chosen := eligible[rand.Intn(len(eligible))]

	// 3. Duplicate guard on the attendance log.
	logID := attendance.LogID(userID, chosen.ID)
	if _, err := s.store.Get(ctx, collectionAttendance, logID); err == nil {
		log.Printf("ProcessScan: attendance log %s already exists", logID)
		return &ScanResult{Status: ScanAlreadyCompleted, UserID: userID}, nil
	} else if !errors.Is(err, docstore.ErrNotFound) {
		return nil, fmt.Errorf("failed to check attendance log %s: %w", logID, err)
	}

	// 4. Exactly one achievement is keyed to the activity.
	achDocs, err := s.store.Query(ctx, collectionAchievements, "activityId", chosen.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch achievement for activity %s: %w", chosen.ID, err)
	}
	if len(achDocs) == 0 {
		log.Printf("ProcessScan: no achievement configured for activity %s", chosen.ID)
		return &ScanResult{Status: ScanNoAchievement, UserID: userID}, nil
	}
	var ach achievement.Achievement
	if err := achDocs[0].DataTo(&ach); err != nil {
		return nil, fmt.Errorf("failed to decode achievement %s: %w", achDocs[0].ID, err)
	}
	ach.ID = achDocs[0].ID

	// 5. Duplicate guard on the unlock record.
	unlockID := achievement.UnlockID(userID, ach.ID)
	if doc, err := s.store.Get(ctx, collectionUnlocks, unlockID); err == nil {
		var existing achievement.Unlock
		if err := doc.DataTo(&existing); err != nil {
			return nil, fmt.Errorf("failed to decode unlock %s: %w", unlockID, err)
		}
		if existing.Unlocked {
			log.Printf("ProcessScan: user %s already unlocked achievement %s", userID, ach.ID)
			return &ScanResult{Status: ScanAlreadyUnlocked, UserID: userID}, nil
		}
	} else if !errors.Is(err, docstore.ErrNotFound) {
		return nil, fmt.Errorf("failed to check unlock %s: %w", unlockID, err)
	}

	// 6. Both documents in one atomic batch.
	now := s.now()
	batch := s.store.Batch()
	batch.Set(collectionAttendance, logID, attendance.Log{
		ID:         logID,
		VisitedAt:  now,
		ActivityID: chosen.ID,
		UserID:     userID,
	})
	batch.Set(collectionUnlocks, unlockID, achievement.Unlock{
		ID:            unlockID,
		Unlocked:      true,
		UserID:        userID,
		AchievementID: ach.ID,
		UnlockedAt:    now,
	})
	if err := batch.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to persist scan for user %s: %w", userID, err)
	}

	log.Printf("ProcessScan: user %s completed %s and unlocked %q", userID, chosen.Name, ach.Name)

	if s.notifier != nil {
		s.notifier.NotifyUnlock(ctx, userID, ach.Name, chosen.Name)
	}

	return &ScanResult{
		Status:          ScanUnlocked,
		Activity:        &chosen,
		UserID:          userID,
		AchievementName: ach.Name,
	}, nil
}
