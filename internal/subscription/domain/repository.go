package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// FindActiveByUserProfileID returns the newest non-deleted subscription
	// in active status, or nil when the profile has none.
	FindActiveByUserProfileID(ctx context.Context, db *gorm.DB, userProfileID snowflake.ID) (*Subscription, error)

	// FindAllByUserProfileID returns every non-deleted subscription for the
	// profile, newest first.
	FindAllByUserProfileID(ctx context.Context, db *gorm.DB, userProfileID snowflake.ID) ([]Subscription, error)

	// FindExpiringBetween returns active, non-deleted subscriptions whose
	// endDate falls within [from, to], ordered by endDate ascending.
	FindExpiringBetween(ctx context.Context, db *gorm.DB, from, to time.Time) ([]Subscription, error)

	// FindByIDAny is the maintenance-only lookup including deleted rows.
	FindByIDAny(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Subscription, error)
}
