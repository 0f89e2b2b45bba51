package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	pkgdb "github.com/smallbiznis/userhub/pkg/db"
	"gorm.io/gorm"
)

type widget struct {
	Envelope
	Code string `gorm:"uniqueIndex"`
	Name string
}

func (widget) TableName() string { return "widgets" }

func setupProtocolDB(t *testing.T) (*gorm.DB, *snowflake.Node) {
	t.Helper()

	dbConn, err := pkgdb.NewTest()
	if err != nil {
		t.Fatalf("new test db: %v", err)
	}
	if err := dbConn.AutoMigrate(&widget{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new snowflake node: %v", err)
	}
	return dbConn, node
}

func TestInsertStartsAtVersionOne(t *testing.T) {
	dbConn, node := setupProtocolDB(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	w := &widget{Code: "a", Name: "first"}
	w.ID = node.Generate()
	if err := Insert(ctx, dbConn, w, now); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if w.Version != 1 {
		t.Fatalf("expected version 1, got %d", w.Version)
	}

	var got widget
	if err := FindActive(ctx, dbConn, &got, w.ID); err != nil {
		t.Fatalf("find active: %v", err)
	}
	if got.Name != "first" || got.IsDeleted {
		t.Fatalf("unexpected record state: %+v", got)
	}
}

func TestUpdateWithVersionBumpsAndGates(t *testing.T) {
	dbConn, node := setupProtocolDB(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	w := &widget{Code: "a", Name: "first"}
	w.ID = node.Generate()
	if err := Insert(ctx, dbConn, w, now); err != nil {
		t.Fatalf("insert: %v", err)
	}

	stale := &widget{}
	stale.ID = w.ID
	stale.Version = w.Version

	if err := UpdateWithVersion(ctx, dbConn, w, map[string]any{"name": "second"}, now.Add(time.Minute)); err != nil {
		t.Fatalf("update: %v", err)
	}
	if w.Version != 2 || w.Name != "second" {
		t.Fatalf("expected version 2 name second, got %d %q", w.Version, w.Name)
	}

	// The stale copy still carries version 1; its write must lose.
	err := UpdateWithVersion(ctx, dbConn, stale, map[string]any{"name": "third"}, now.Add(2*time.Minute))
	if !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("expected version conflict, got %v", err)
	}

	var got widget
	if err := FindActive(ctx, dbConn, &got, w.ID); err != nil {
		t.Fatalf("find active: %v", err)
	}
	if got.Name != "second" || got.Version != 2 {
		t.Fatalf("stale write leaked: %+v", got)
	}
}

func TestUpdateWithVersionAfterDeleteIsNotFound(t *testing.T) {
	dbConn, node := setupProtocolDB(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	w := &widget{Code: "a", Name: "first"}
	w.ID = node.Generate()
	if err := Insert(ctx, dbConn, w, now); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := SoftDelete(ctx, dbConn, w, now.Add(time.Minute)); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	err := UpdateWithVersion(ctx, dbConn, w, map[string]any{"name": "second"}, now.Add(2*time.Minute))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateOrRestoreOutcomes(t *testing.T) {
	dbConn, node := setupProtocolDB(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	fresh := &widget{Code: "a", Name: "first"}
	fresh.ID = node.Generate()
	created, err := CreateOrRestore(ctx, dbConn, (*widget)(nil), false, fresh, nil, now)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// An active row with the same natural key rejects a second create.
	dup := &widget{Code: "a", Name: "other"}
	dup.ID = node.Generate()
	_, err = CreateOrRestore(ctx, dbConn, created, true, dup, nil, now)
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected duplicate, got %v", err)
	}

	if err := SoftDelete(ctx, dbConn, created, now.Add(time.Minute)); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	if err := Reload(ctx, dbConn, created); err != nil {
		t.Fatalf("reload: %v", err)
	}

	// Restoration keeps the original identity and bumps the version.
	restored, err := CreateOrRestore(ctx, dbConn, created, true, dup, map[string]any{"name": "revived"}, now.Add(2*time.Minute))
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.ID != fresh.ID {
		t.Fatalf("restore minted a new identity: %s != %s", restored.ID, fresh.ID)
	}
	if restored.IsDeleted || restored.DeletedAt != nil {
		t.Fatalf("restore left delete markers: %+v", restored.Envelope)
	}
	if restored.Name != "revived" {
		t.Fatalf("restore dropped payload: %q", restored.Name)
	}
	if restored.Version != 3 {
		t.Fatalf("expected version 3 after create+delete+restore, got %d", restored.Version)
	}
}

func TestSoftDeleteHidesButKeepsRow(t *testing.T) {
	dbConn, node := setupProtocolDB(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	w := &widget{Code: "a", Name: "first"}
	w.ID = node.Generate()
	if err := Insert(ctx, dbConn, w, now); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := SoftDelete(ctx, dbConn, w, now.Add(time.Minute)); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	// Deleting an already-deleted record is not found.
	if err := SoftDelete(ctx, dbConn, w, now.Add(2*time.Minute)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}

	var hidden widget
	if err := FindActive(ctx, dbConn, &hidden, w.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found via active read, got %v", err)
	}

	// The row is still reachable through the maintenance path.
	kept := &widget{}
	kept.ID = w.ID
	if err := Reload(ctx, dbConn, kept); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !kept.IsDeleted || kept.DeletedAt == nil || kept.Version != 2 {
		t.Fatalf("unexpected tombstone state: %+v", kept.Envelope)
	}
}

func TestUpdateActiveSkipsVersionGate(t *testing.T) {
	dbConn, node := setupProtocolDB(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	w := &widget{Code: "a", Name: "first"}
	w.ID = node.Generate()
	if err := Insert(ctx, dbConn, w, now); err != nil {
		t.Fatalf("insert: %v", err)
	}

	stale := &widget{}
	stale.ID = w.ID
	stale.Version = 999 // ignored on this path

	if err := UpdateActive(ctx, dbConn, stale, map[string]any{"name": "forced"}, now.Add(time.Minute)); err != nil {
		t.Fatalf("update active: %v", err)
	}
	if stale.Name != "forced" || stale.Version != 2 {
		t.Fatalf("unexpected state after forced update: %q v%d", stale.Name, stale.Version)
	}
}
