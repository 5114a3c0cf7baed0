package notification

import "time"

// DeviceToken is a push-notification registration for one of a user's devices.
type DeviceToken struct {
	Token        string    `json:"token" firestore:"token"`
	UserID       string    `json:"userId" firestore:"userId"`
	Platform     string    `json:"platform" firestore:"platform"`
	RegisteredAt time.Time `json:"registeredAt" firestore:"registeredAt"`
}

type RegisterDeviceRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}
