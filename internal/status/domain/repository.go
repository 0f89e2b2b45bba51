package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// FindByUserProfileID looks up the row by its natural key, including
	// soft-deleted rows so create can restore them.
	FindByUserProfileID(ctx context.Context, db *gorm.DB, userProfileID snowflake.ID) (*AccountStatus, error)

	// FindAllInState returns every non-deleted row in the given state,
	// most recently actioned first.
	FindAllInState(ctx context.Context, db *gorm.DB, state State) ([]AccountStatus, error)

	// FindByIDAny is the maintenance-only lookup including deleted rows.
	FindByIDAny(ctx context.Context, db *gorm.DB, id snowflake.ID) (*AccountStatus, error)
}
