// Package domain contains the account status model, moderation states, and
// service contracts.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/userhub/internal/lifecycle"
)

// State is the moderation standing of an account.
type State string

const (
	StateActive    State = "active"
	StateSuspended State = "suspended"
	StateBanned    State = "banned"
)

// AccountStatus holds a profile's moderation state and capability flags.
// One row per profile, enforced by the unique index on user_profile_id.
type AccountStatus struct {
	lifecycle.Envelope
	UserProfileID snowflake.ID `gorm:"column:user_profile_id;uniqueIndex;not null" json:"userProfileId"`
	Status        State        `gorm:"type:text;not null" json:"status"`
	Reason        *string      `gorm:"type:text" json:"reason"`
	ReasonDetail  *string      `gorm:"type:text" json:"reasonDetail"`
	ActionedBy    *string      `gorm:"type:text" json:"actionedBy"`
	ActionedAt    *time.Time   `gorm:"index" json:"actionedAt"`
	ExpiresAt     *time.Time   `json:"expiresAt"`
	Notes         *string      `gorm:"type:text" json:"notes"`

	CanLogin           bool `gorm:"not null;default:true" json:"canLogin"`
	CanStream          bool `gorm:"not null;default:true" json:"canStream"`
	CanComment         bool `gorm:"not null;default:true" json:"canComment"`
	CanMessage         bool `gorm:"not null;default:true" json:"canMessage"`
	CanPurchase        bool `gorm:"not null;default:true" json:"canPurchase"`
	CanUpload          bool `gorm:"not null;default:false" json:"canUpload"`
	RequiresKyc        bool `gorm:"column:requires_kyc;not null;default:false" json:"requiresKyc"`
	IsVerified         bool `gorm:"not null;default:false" json:"isVerified"`
	IsModerator        bool `gorm:"not null;default:false" json:"isModerator"`
	IsContentCreator   bool `gorm:"not null;default:false" json:"isContentCreator"`
	IsPremiumSupporter bool `gorm:"not null;default:false" json:"isPremiumSupporter"`
}

// TableName sets the database table name.
func (AccountStatus) TableName() string { return "user_statuses" }

// Defaults returns a status row in good standing.
func Defaults() AccountStatus {
	return AccountStatus{
		Status:      StateActive,
		CanLogin:    true,
		CanStream:   true,
		CanComment:  true,
		CanMessage:  true,
		CanPurchase: true,
	}
}
