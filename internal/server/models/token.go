package models

// TokenData is the minimal identity snapshot embedded in bearer tokens and
// returned when a request is authenticated. It is never persisted.
type TokenData struct {
	UserID   int64
	Email    string
	Username string
}
