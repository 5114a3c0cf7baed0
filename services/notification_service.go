package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"museumCompanionAPI/internal/docstore"
	"museumCompanionAPI/internal/types/notification"
)

// PushProvider delivers a push message to a set of device tokens.
type PushProvider interface {
	SendPush(ctx context.Context, tokens []notification.DeviceToken, title, body string, data map[string]any) error
}

// NotificationService keeps device registrations and pushes unlock events.
// Everything here is best-effort; a scan never fails because a push did.
type NotificationService struct {
	store    docstore.Store
	provider PushProvider
}

func NewNotificationService(store docstore.Store) *NotificationService {
	return &NotificationService{store: store}
}

// SetPushProvider injects the FCM client once credentials are available.
func (s *NotificationService) SetPushProvider(p PushProvider) {
	s.provider = p
}

// RegisterDevice stores a device token for a user. Re-registering the same
// token is fine; the token field is what delivery keys on.
func (s *NotificationService) RegisterDevice(ctx context.Context, userID string, req *notification.RegisterDeviceRequest) error {
	if req.Token == "" {
		return errors.New("device token is required")
	}
	batch := s.store.Batch()
	batch.Set(collectionDeviceTokens, uuid.NewString(), notification.DeviceToken{
		Token:        req.Token,
		UserID:       userID,
		Platform:     req.Platform,
		RegisteredAt: time.Now(),
	})
	if err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("failed to register device for %s: %w", userID, err)
	}
	return nil
}

// NotifyUnlock satisfies the scan service's UnlockNotifier.
func (s *NotificationService) NotifyUnlock(ctx context.Context, userID, achievementName, activityName string) {
	if s.provider == nil {
		return
	}
	docs, err := s.store.Query(ctx, collectionDeviceTokens, "userId", userID)
	if err != nil {
		log.Printf("NotifyUnlock: failed to fetch device tokens for %s: %v", userID, err)
		return
	}
	tokens := make([]notification.DeviceToken, 0, len(docs))
	for _, doc := range docs {
		var t notification.DeviceToken
		if err := doc.DataTo(&t); err != nil {
			log.Printf("NotifyUnlock: skipping token doc %s: %v", doc.ID, err)
			continue
		}
		tokens = append(tokens, t)
	}
	if len(tokens) == 0 {
		return
	}

	title := "Achievement unlocked!"
	body := fmt.Sprintf("You earned %q at %s", achievementName, activityName)
	if err := s.provider.SendPush(ctx, tokens, title, body, map[string]any{
		"type":        "achievement_unlock",
		"achievement": achievementName,
	}); err != nil {
		log.Printf("NotifyUnlock: push failed for %s: %v", userID, err)
	}
}
