package models

import (
	"time"

	"gorm.io/datatypes"
)

// Preferences maps a preference key (e.g. "notifyPosts") to whether the user
// wants notifications of that kind.
type Preferences map[string]bool

// DefaultPreferences is applied to users created without an explicit preference map.
func DefaultPreferences() Preferences {
	return Preferences{
		"notifyFollows": true,
		"notifyPosts":   true,
	}
}

// User represents an account that can follow, post and receive notifications (PostgreSQL)
type User struct {
	ID          uint                           `json:"id" gorm:"primaryKey"`
	Name        string                         `json:"name" gorm:"size:100;not null"`
	Email       *string                        `json:"email,omitempty" gorm:"uniqueIndex"`
	Preferences datatypes.JSONType[Preferences] `json:"preferences"`
	CreatedAt   time.Time                      `json:"createdAt"`
	UpdatedAt   time.Time                      `json:"updatedAt"`
}

// NewUser builds a user carrying the default preference object
func NewUser(name string) *User {
	return &User{
		Name:        name,
		Preferences: datatypes.NewJSONType(DefaultPreferences()),
	}
}

// Wants reports the stored value for a preference key and whether the key is present.
func (u *User) Wants(key string) (enabled, ok bool) {
	prefs := u.Preferences.Data()
	if prefs == nil {
		return false, false
	}
	enabled, ok = prefs[key]
	return enabled, ok
}

// UpdatePreferencesRequest merges the given keys into a user's preference map
type UpdatePreferencesRequest struct {
	Preferences map[string]bool `json:"preferences" validate:"required,min=1"`
}
