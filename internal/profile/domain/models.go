// Package domain contains the user profile model and service contracts.
package domain

import (
	"time"

	"github.com/smallbiznis/userhub/internal/lifecycle"
)

// Profile is the aggregate root. Settings, subscriptions, and status rows
// are owned by exactly one profile. At most one active profile exists per
// authUserId, enforced by a unique index so create/restore is race-safe.
type Profile struct {
	lifecycle.Envelope
	AuthUserID  string     `gorm:"column:auth_user_id;not null;uniqueIndex" json:"authUserId"`
	DisplayName *string    `gorm:"type:text" json:"displayName"`
	FirstName   *string    `gorm:"type:text" json:"firstName"`
	LastName    *string    `gorm:"type:text" json:"lastName"`
	Avatar      *string    `gorm:"type:text" json:"avatar"`
	Bio         *string    `gorm:"type:text" json:"bio"`
	Country     *string    `gorm:"type:text" json:"country"`
	DateOfBirth *time.Time `json:"dateOfBirth"`
	Phone       *string    `gorm:"type:text" json:"phone"`
}

// TableName sets the database table name.
func (Profile) TableName() string { return "user_profiles" }
