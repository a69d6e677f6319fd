package model

// User is the signed-in account as returned by the sign-in/sign-up payloads.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session tracks who is signed in and whether an auth request is running.
type Session struct {
	User          *User `json:"user"`
	Authenticated bool  `json:"authenticated"`
	Loading       bool  `json:"loading"`
}
