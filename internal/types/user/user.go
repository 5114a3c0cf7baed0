package user

type User struct {
	ID        string `json:"id" firestore:"-"`
	FirstName string `json:"firstName" firestore:"firstName"`
	LastName  string `json:"lastName" firestore:"lastName"`
	Email     string `json:"email" firestore:"email"`
	Phone     string `json:"phone" firestore:"phone"`
}

type SignUpRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Credentials is what the auth service hands back on a successful login or
// sign-up: an opaque bearer token and the stable user id.
type Credentials struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}
