// Package models defines client-side data models: the signed-in user, the
// session, car records, and the editable draft used by the car form.
package models

// User is the identity returned by the API on signup/login.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Session binds a user to the bearer credential that proves their identity.
type Session struct {
	User  User
	Token string
}

// Valid reports whether s can be used for authenticated calls. A session
// without a credential counts as anonymous.
func (s *Session) Valid() bool {
	return s != nil && s.Token != ""
}
