package entity

// UserLoginData identifies the authenticated end user behind a request.
type UserLoginData struct {
	ID       string
	Username string
	Email    string
}
