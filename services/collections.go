package services

// Firestore collection names. Zones are not listed: the zone directory is
// static reference data and never fetched.
const (
	collectionActivities   = "activities"
	collectionAttendance   = "attendanceLogs"
	collectionAchievements = "achievements"
	collectionUnlocks      = "achievementUnlocks"
	collectionUsers        = "users"
	collectionDeviceTokens = "deviceTokens"
)
