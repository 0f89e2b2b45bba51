package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// FindByUserProfileID returns the row for the natural key including
	// soft-deleted rows, or nil when none exists.
	FindByUserProfileID(ctx context.Context, db *gorm.DB, userProfileID snowflake.ID) (*Settings, error)

	// FindActiveByUserProfileID returns the non-deleted row, or nil.
	FindActiveByUserProfileID(ctx context.Context, db *gorm.DB, userProfileID snowflake.ID) (*Settings, error)

	// FindByIDAny is the maintenance-only lookup including deleted rows.
	FindByIDAny(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Settings, error)
}
