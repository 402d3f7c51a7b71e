// Package models holds the persistent and derived domain entities of the
// user-management service.
package models

import "time"

// User is the persistent user entity. HashedPassword is opaque and must
// never be serialized outward.
type User struct {
	ID             int64
	Email          string
	Username       string
	FirstName      string
	LastName       string
	Phone          *string
	Bio            *string
	AvatarURL      *string
	HashedPassword string
	IsActive       bool
	IsSuperuser    bool
	LastLogin      *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// FullName joins first and last name for display.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// UserUpdate is a partial update: only non-nil fields are applied.
// Email and Username changes are subject to the same uniqueness rules
// as registration.
type UserUpdate struct {
	Email     *string
	Username  *string
	FirstName *string
	LastName  *string
	Phone     *string
	Bio       *string
	AvatarURL *string
}

// Empty reports whether no field is set.
func (u UserUpdate) Empty() bool {
	return u.Email == nil && u.Username == nil && u.FirstName == nil &&
		u.LastName == nil && u.Phone == nil && u.Bio == nil && u.AvatarURL == nil
}
