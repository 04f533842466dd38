package models

// User is the opaque identity capability handed to us by the hosting auth
// provider. Only the display name participates in finalization; anonymous
// viewers carry IsAnonymous and an empty email.
type User struct {
	UID         string `json:"uid"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	IsAnonymous bool   `json:"is_anonymous"`
}
