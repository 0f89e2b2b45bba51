// Package domain contains the subscription model, billing states, and
// service contracts.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/userhub/internal/lifecycle"
	"gorm.io/datatypes"
)

// Status represents billing lifecycle states for a subscription.
// inactive → active → {canceled, suspended}; suspended → active.
// Canceled is terminal: no un-cancel operation is exposed.
type Status string

const (
	StatusInactive  Status = "inactive"
	StatusActive    Status = "active"
	StatusCanceled  Status = "canceled"
	StatusSuspended Status = "suspended"
)

// Subscription captures a profile's plan agreement. A profile may hold many
// rows historically; the "active" one is selected by status at query time,
// not by a uniqueness constraint.
type Subscription struct {
	lifecycle.Envelope
	UserProfileID          snowflake.ID      `gorm:"column:user_profile_id;not null;index" json:"userProfileId"`
	PlanType               string            `gorm:"type:text;not null" json:"planType"`
	Status                 Status            `gorm:"type:text;not null" json:"status"`
	BillingCycle           *string           `gorm:"type:text" json:"billingCycle"`
	StartDate              time.Time         `gorm:"not null" json:"startDate"`
	EndDate                *time.Time        `gorm:"index" json:"endDate"`
	RenewalDate            *time.Time        `json:"renewalDate"`
	CanceledAt             *time.Time        `json:"canceledAt"`
	SuspendedAt            *time.Time        `json:"suspendedAt"`
	TrialEndsAt            *time.Time        `json:"trialEndsAt"`
	IsAutoRenew            bool              `gorm:"not null;default:true" json:"isAutoRenew"`
	IsTrial                bool              `gorm:"not null;default:false" json:"isTrial"`
	MaxDevices             int               `gorm:"not null;default:1" json:"maxDevices"`
	MaxProfiles            int               `gorm:"not null;default:1" json:"maxProfiles"`
	CanDownload            bool              `gorm:"not null;default:false" json:"canDownload"`
	VideoQuality           string            `gorm:"type:text;not null" json:"videoQuality"`
	AdsEnabled             bool              `gorm:"not null;default:true" json:"adsEnabled"`
	ExternalSubscriptionID *string           `gorm:"column:external_subscription_id;type:text" json:"externalSubscriptionId"`
	PaymentMethod          *string           `gorm:"type:text" json:"paymentMethod"`
	Metadata               datatypes.JSONMap `gorm:"type:jsonb" json:"metadata"`
}

// TableName sets the database table name.
func (Subscription) TableName() string { return "subscriptions" }

// Expired reports whether the subscription's end date has passed. A
// subscription with no end date never expires.
func (s *Subscription) Expired(now time.Time) bool {
	if s.EndDate == nil {
		return false
	}
	return now.After(*s.EndDate)
}
