package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/userhub/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	// FindByAuthUserID returns the row for the natural key including
	// soft-deleted rows, or nil when none exists. Drives the
	// create/restore/duplicate decision.
	FindByAuthUserID(ctx context.Context, db *gorm.DB, authUserID string) (*Profile, error)

	// FindByIDAny is the maintenance-only lookup: it returns the row by
	// primary key regardless of delete state, or nil.
	FindByIDAny(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Profile, error)

	// ExistsActive reports whether a non-deleted profile exists. Child
	// managers use it as the parent-existence check.
	ExistsActive(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error)

	List(ctx context.Context, db *gorm.DB, page pagination.Pagination) ([]Profile, int64, error)
}
