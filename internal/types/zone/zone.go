package zone

type Zone struct {
	ID    string `json:"id" firestore:"id"`
	Name  string `json:"name" firestore:"name"`
	Color string `json:"color" firestore:"color"`
}
