package domain

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type CreateSubscriptionRequest struct {
	UserProfileID          snowflake.ID    `json:"userProfileId"`
	PlanType               string          `json:"planType"`
	Status                 *Status         `json:"status"`
	BillingCycle           *string         `json:"billingCycle"`
	StartDate              *time.Time      `json:"startDate"`
	EndDate                *time.Time      `json:"endDate"`
	RenewalDate            *time.Time      `json:"renewalDate"`
	TrialEndsAt            *time.Time      `json:"trialEndsAt"`
	IsAutoRenew            *bool           `json:"isAutoRenew"`
	IsTrial                *bool           `json:"isTrial"`
	MaxDevices             *int            `json:"maxDevices"`
	MaxProfiles            *int            `json:"maxProfiles"`
	CanDownload            *bool           `json:"canDownload"`
	VideoQuality           *string         `json:"videoQuality"`
	AdsEnabled             *bool           `json:"adsEnabled"`
	ExternalSubscriptionID *string         `json:"externalSubscriptionId"`
	PaymentMethod          *string         `json:"paymentMethod"`
	Metadata               json.RawMessage `json:"metadata"`
}

// UpdateSubscriptionRequest is a partial update: nil fields are left
// unchanged.
type UpdateSubscriptionRequest struct {
	ID                     snowflake.ID    `json:"id"`
	Version                *int64          `json:"version"`
	PlanType               *string         `json:"planType"`
	Status                 *Status         `json:"status"`
	BillingCycle           *string         `json:"billingCycle"`
	EndDate                *time.Time      `json:"endDate"`
	RenewalDate            *time.Time      `json:"renewalDate"`
	CanceledAt             *time.Time      `json:"canceledAt"`
	SuspendedAt            *time.Time      `json:"suspendedAt"`
	TrialEndsAt            *time.Time      `json:"trialEndsAt"`
	IsAutoRenew            *bool           `json:"isAutoRenew"`
	IsTrial                *bool           `json:"isTrial"`
	MaxDevices             *int            `json:"maxDevices"`
	MaxProfiles            *int            `json:"maxProfiles"`
	CanDownload            *bool           `json:"canDownload"`
	VideoQuality           *string         `json:"videoQuality"`
	AdsEnabled             *bool           `json:"adsEnabled"`
	ExternalSubscriptionID *string         `json:"externalSubscriptionId"`
	PaymentMethod          *string         `json:"paymentMethod"`
	Metadata               json.RawMessage `json:"metadata"`
}

type Service interface {
	Create(ctx context.Context, req CreateSubscriptionRequest) (*Subscription, error)
	FindByID(ctx context.Context, id snowflake.ID) (*Subscription, error)
	FindActiveByUserProfileID(ctx context.Context, userProfileID snowflake.ID) (*Subscription, error)
	FindAllByUserProfileID(ctx context.Context, userProfileID snowflake.ID) ([]Subscription, error)
	Update(ctx context.Context, req UpdateSubscriptionRequest) (*Subscription, error)
	Delete(ctx context.Context, id snowflake.ID) error

	// Cancel transitions to canceled from any state, stamps canceledAt and
	// forces isAutoRenew off. Re-cancel is allowed and re-stamps canceledAt.
	Cancel(ctx context.Context, id snowflake.ID) (*Subscription, error)

	// Suspend transitions to suspended and records the optional reason in
	// metadata.
	Suspend(ctx context.Context, id snowflake.ID, reason string) (*Subscription, error)

	// Activate transitions to active and clears suspendedAt.
	Activate(ctx context.Context, id snowflake.ID) (*Subscription, error)

	// CheckExpiration is a pure read: true iff the end date has passed.
	CheckExpiration(ctx context.Context, id snowflake.ID) (bool, error)

	// FindExpiringSoon returns active subscriptions whose endDate falls
	// within [now, now+days], soonest first. A nil days means the default
	// 7-day window; an explicit value is honored literally, so days=0
	// matches only subscriptions ending right now.
	FindExpiringSoon(ctx context.Context, days *int) ([]Subscription, error)
}

var (
	ErrInvalidID            = errors.New("invalid_id")
	ErrInvalidUserProfileID = errors.New("invalid_user_profile_id")
	ErrInvalidPlanType      = errors.New("invalid_plan_type")
	ErrInvalidMetadata      = errors.New("invalid_metadata")
)

// DefaultExpiringWindowDays is the findExpiringSoon window when the caller
// does not supply one.
const DefaultExpiringWindowDays = 7
