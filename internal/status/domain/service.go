package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type CreateStatusRequest struct {
	UserProfileID      snowflake.ID `json:"userProfileId"`
	Status             *State       `json:"status"`
	Reason             *string      `json:"reason"`
	ReasonDetail       *string      `json:"reasonDetail"`
	ActionedBy         *string      `json:"actionedBy"`
	ActionedAt         *time.Time   `json:"actionedAt"`
	ExpiresAt          *time.Time   `json:"expiresAt"`
	Notes              *string      `json:"notes"`
	CanLogin           *bool        `json:"canLogin"`
	CanStream          *bool        `json:"canStream"`
	CanComment         *bool        `json:"canComment"`
	CanMessage         *bool        `json:"canMessage"`
	CanPurchase        *bool        `json:"canPurchase"`
	CanUpload          *bool        `json:"canUpload"`
	RequiresKyc        *bool        `json:"requiresKyc"`
	IsVerified         *bool        `json:"isVerified"`
	IsModerator        *bool        `json:"isModerator"`
	IsContentCreator   *bool        `json:"isContentCreator"`
	IsPremiumSupporter *bool        `json:"isPremiumSupporter"`
}

// UpdateStatusRequest is a partial update: nil fields are left unchanged.
type UpdateStatusRequest struct {
	ID                 snowflake.ID `json:"id"`
	Version            *int64       `json:"version"`
	Status             *State       `json:"status"`
	Reason             *string      `json:"reason"`
	ReasonDetail       *string      `json:"reasonDetail"`
	ActionedBy         *string      `json:"actionedBy"`
	ActionedAt         *time.Time   `json:"actionedAt"`
	ExpiresAt          *time.Time   `json:"expiresAt"`
	Notes              *string      `json:"notes"`
	CanLogin           *bool        `json:"canLogin"`
	CanStream          *bool        `json:"canStream"`
	CanComment         *bool        `json:"canComment"`
	CanMessage         *bool        `json:"canMessage"`
	CanPurchase        *bool        `json:"canPurchase"`
	CanUpload          *bool        `json:"canUpload"`
	RequiresKyc        *bool        `json:"requiresKyc"`
	IsVerified         *bool        `json:"isVerified"`
	IsModerator        *bool        `json:"isModerator"`
	IsContentCreator   *bool        `json:"isContentCreator"`
	IsPremiumSupporter *bool        `json:"isPremiumSupporter"`
}

// SuspendRequest temporarily restricts an account. ExpiresAt is optional; a
// nil value means an indefinite suspension.
type SuspendRequest struct {
	ID         snowflake.ID `json:"id"`
	Reason     string       `json:"reason"`
	ActionedBy string       `json:"actionedBy"`
	ExpiresAt  *time.Time   `json:"expiresAt"`
}

// BanRequest permanently restricts an account.
type BanRequest struct {
	ID         snowflake.ID `json:"id"`
	Reason     string       `json:"reason"`
	ActionedBy string       `json:"actionedBy"`
}

type Service interface {
	Create(ctx context.Context, req CreateStatusRequest) (*AccountStatus, error)
	FindByID(ctx context.Context, id snowflake.ID) (*AccountStatus, error)
	FindByUserProfileID(ctx context.Context, userProfileID snowflake.ID) (*AccountStatus, error)
	Update(ctx context.Context, req UpdateStatusRequest) (*AccountStatus, error)
	Delete(ctx context.Context, id snowflake.ID) error

	// Suspend moves the account to suspended and revokes login and
	// streaming. Earned standing flags are untouched.
	Suspend(ctx context.Context, req SuspendRequest) (*AccountStatus, error)

	// Ban moves the account to banned and revokes login, streaming,
	// commenting, messaging, and purchasing.
	Ban(ctx context.Context, req BanRequest) (*AccountStatus, error)

	// Activate restores good standing: clears the moderation audit fields
	// and re-grants the capabilities a suspension or ban revoked. Earned
	// flags such as isVerified survive the round trip.
	Activate(ctx context.Context, id snowflake.ID) (*AccountStatus, error)

	FindAllSuspended(ctx context.Context) ([]AccountStatus, error)
	FindAllBanned(ctx context.Context) ([]AccountStatus, error)
}

var (
	ErrInvalidID            = errors.New("invalid_id")
	ErrInvalidUserProfileID = errors.New("invalid_user_profile_id")
	ErrInvalidReason        = errors.New("invalid_reason")
)
