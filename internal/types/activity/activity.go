package activity

import "museumCompanionAPI/internal/types/zone"

type Activity struct {
	ID          string `json:"id" firestore:"id"`
	Name        string `json:"name" firestore:"name"`
	Description string `json:"description" firestore:"description"`
	Objective   string `json:"objective" firestore:"objective"`
	Learning    string `json:"learning" firestore:"learning"`
	Rating      int    `json:"rating" firestore:"rating"`
	CousinID    string `json:"cousinId" firestore:"cousinId"`
	ZoneID      string `json:"zoneId" firestore:"zoneId"`
}

// ActivityWithZone pairs an activity with its resolved zone. Activities whose
// zone id does not resolve against the static directory are never wrapped in
// one of these; they are treated as unavailable.
type ActivityWithZone struct {
	Activity Activity  `json:"activity"`
	Zone     zone.Zone `json:"zone"`
}
