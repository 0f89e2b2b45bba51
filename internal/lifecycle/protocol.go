package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgdb "github.com/smallbiznis/userhub/pkg/db"
	"gorm.io/gorm"
)

// FindActive loads the non-deleted record with the given id into dest.
func FindActive(ctx context.Context, db *gorm.DB, dest Record, id any) error {
	err := db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("record %v: %w", id, ErrNotFound)
	}
	return err
}

// Reload refreshes rec from the store by primary key, regardless of
// delete state.
func Reload(ctx context.Context, db *gorm.DB, rec Record) error {
	return db.WithContext(ctx).
		Where("id = ?", rec.Meta().ID).
		First(rec).Error
}

// Insert persists a brand-new record at version 1. A duplicate-key store
// error means a concurrent writer won the natural-key race and is surfaced
// as ErrDuplicate.
func Insert(ctx context.Context, db *gorm.DB, rec Record, now time.Time) error {
	env := rec.Meta()
	env.CreatedAt = now
	env.UpdatedAt = now
	env.IsDeleted = false
	env.DeletedAt = nil
	env.Version = 1

	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		if pkgdb.IsDuplicateKeyErr(err) {
			return fmt.Errorf("record %v: %w", env.ID, ErrDuplicate)
		}
		return err
	}
	return nil
}

// Restore clears the soft-delete marker on rec, applies the new payload
// fields, and bumps the version. This is the only path that resurrects a
// logical identity. rec is reloaded with the stored state on success.
func Restore(ctx context.Context, db *gorm.DB, rec Record, fields map[string]any, now time.Time) error {
	env := rec.Meta()
	updates := make(map[string]any, len(fields)+4)
	for column, value := range fields {
		updates[column] = value
	}
	updates["is_deleted"] = false
	updates["deleted_at"] = nil
	updates["updated_at"] = now
	updates["version"] = gorm.Expr("version + 1")

	res := db.WithContext(ctx).Model(rec).
		Where("id = ?", env.ID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("record %v: %w", env.ID, ErrNotFound)
	}
	return Reload(ctx, db, rec)
}

// CreateOrRestore applies the create/restore/duplicate-reject decision for
// an entity with a natural uniqueness key. existing is the result of the
// natural-key lookup including deleted rows (exists=false when absent);
// fresh is the fully populated candidate row. The three outcomes are
// mutually exclusive and restoration takes priority over fresh creation.
func CreateOrRestore[T Record](ctx context.Context, db *gorm.DB, existing T, exists bool, fresh T, restoreFields map[string]any, now time.Time) (T, error) {
	var zero T

	if exists {
		env := existing.Meta()
		if !env.IsDeleted {
			return zero, fmt.Errorf("record %v: %w", env.ID, ErrDuplicate)
		}
		if err := Restore(ctx, db, existing, restoreFields, now); err != nil {
			return zero, err
		}
		return existing, nil
	}

	if err := Insert(ctx, db, fresh, now); err != nil {
		return zero, err
	}
	return fresh, nil
}

// UpdateWithVersion applies fields iff the stored version still matches the
// version loaded on rec. The write and the version check are one conditional
// statement, so a writer racing between the read and this call loses cleanly.
// Zero rows affected is disambiguated into ErrNotFound (row deleted
// concurrently) or ErrVersionConflict.
func UpdateWithVersion(ctx context.Context, db *gorm.DB, rec Record, fields map[string]any, now time.Time) error {
	env := rec.Meta()
	updates := make(map[string]any, len(fields)+2)
	for column, value := range fields {
		updates[column] = value
	}
	updates["updated_at"] = now
	updates["version"] = env.Version + 1

	res := db.WithContext(ctx).Model(rec).
		Where("id = ? AND version = ? AND is_deleted = ?", env.ID, env.Version, false).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var active int64
		if err := db.WithContext(ctx).Model(rec).
			Where("id = ? AND is_deleted = ?", env.ID, false).
			Count(&active).Error; err != nil {
			return err
		}
		if active == 0 {
			return fmt.Errorf("record %v: %w", env.ID, ErrNotFound)
		}
		return fmt.Errorf("record %v: %w", env.ID, ErrVersionConflict)
	}
	return Reload(ctx, db, rec)
}

// UpdateActive applies fields to the non-deleted record identified by
// rec's id, bumping the version atomically at the store. Administrative
// transitions use this path and intentionally skip the optimistic-version
// gate. rec is reloaded with the stored state on success.
func UpdateActive(ctx context.Context, db *gorm.DB, rec Record, fields map[string]any, now time.Time) error {
	env := rec.Meta()
	updates := make(map[string]any, len(fields)+2)
	for column, value := range fields {
		updates[column] = value
	}
	updates["updated_at"] = now
	updates["version"] = gorm.Expr("version + 1")

	res := db.WithContext(ctx).Model(rec).
		Where("id = ? AND is_deleted = ?", env.ID, false).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("record %v: %w", env.ID, ErrNotFound)
	}
	return Reload(ctx, db, rec)
}

// SoftDelete marks the non-deleted record as logically absent. Calling it
// again for the same id yields ErrNotFound since the record is no longer
// active.
func SoftDelete(ctx context.Context, db *gorm.DB, rec Record, now time.Time) error {
	env := rec.Meta()
	res := db.WithContext(ctx).Model(rec).
		Where("id = ? AND is_deleted = ?", env.ID, false).
		Updates(map[string]any{
			"is_deleted": true,
			"deleted_at": now,
			"updated_at": now,
			"version":    gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("record %v: %w", env.ID, ErrNotFound)
	}
	return nil
}
