package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/userhub/internal/clock"
	"github.com/smallbiznis/userhub/internal/lifecycle"
	"github.com/smallbiznis/userhub/internal/profile/domain"
	"github.com/smallbiznis/userhub/internal/profile/repository"
	pkgdb "github.com/smallbiznis/userhub/pkg/db"
	"github.com/smallbiznis/userhub/pkg/db/pagination"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupProfileService(t *testing.T) (domain.Service, *gorm.DB, *clock.FakeClock) {
	t.Helper()

	dbConn, err := pkgdb.NewTest()
	if err != nil {
		t.Fatalf("new test db: %v", err)
	}
	if err := dbConn.AutoMigrate(&domain.Profile{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new snowflake node: %v", err)
	}
	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	svc := New(Params{
		DB:    dbConn,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clk,
		Repo:  repository.Provide(),
	})
	return svc, dbConn, clk
}

func strptr(s string) *string { return &s }

func TestProfileCreateDuplicateAndRestore(t *testing.T) {
	svc, _, clk := setupProfileService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateProfileRequest{
		AuthUserID:  "auth-1",
		DisplayName: strptr("Alice"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Version != 1 {
		t.Fatalf("expected version 1, got %d", created.Version)
	}

	_, err = svc.Create(ctx, domain.CreateProfileRequest{AuthUserID: "auth-1"})
	if !errors.Is(err, lifecycle.ErrDuplicate) {
		t.Fatalf("expected duplicate, got %v", err)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	clk.Advance(time.Hour)

	restored, err := svc.Create(ctx, domain.CreateProfileRequest{
		AuthUserID:  "auth-1",
		DisplayName: strptr("Alice Again"),
	})
	if err != nil {
		t.Fatalf("restore create: %v", err)
	}
	if restored.ID != created.ID {
		t.Fatalf("restore minted a new identity: %s != %s", restored.ID, created.ID)
	}
	if restored.Version != 3 {
		t.Fatalf("expected version 3 after create+delete+restore, got %d", restored.Version)
	}
	if restored.DisplayName == nil || *restored.DisplayName != "Alice Again" {
		t.Fatalf("restore dropped payload: %v", restored.DisplayName)
	}
}

func TestProfileUpdateOptimisticLock(t *testing.T) {
	svc, _, _ := setupProfileService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateProfileRequest{AuthUserID: "auth-1"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	v1 := created.Version
	updated, err := svc.Update(ctx, domain.UpdateProfileRequest{
		ID:      created.ID,
		Version: &v1,
		Bio:     strptr("hello"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Version != 2 {
		t.Fatalf("expected version 2, got %d", updated.Version)
	}

	// The first writer's version token is stale now.
	_, err = svc.Update(ctx, domain.UpdateProfileRequest{
		ID:      created.ID,
		Version: &v1,
		Bio:     strptr("stale"),
	})
	if !errors.Is(err, lifecycle.ErrVersionConflict) {
		t.Fatalf("expected version conflict, got %v", err)
	}

	got, err := svc.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Bio == nil || *got.Bio != "hello" {
		t.Fatalf("stale write leaked: %v", got.Bio)
	}
}

func TestProfileUpdateWithoutVersionSucceeds(t *testing.T) {
	svc, _, _ := setupProfileService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateProfileRequest{AuthUserID: "auth-1"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(ctx, domain.UpdateProfileRequest{
		ID:      created.ID,
		Country: strptr("DE"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Version != 2 {
		t.Fatalf("expected version 2, got %d", updated.Version)
	}
}

func TestProfileFindAllExcludesDeleted(t *testing.T) {
	svc, _, _ := setupProfileService(t)
	ctx := context.Background()

	ids := make([]snowflake.ID, 0, 3)
	for _, auth := range []string{"a", "b", "c"} {
		p, err := svc.Create(ctx, domain.CreateProfileRequest{AuthUserID: auth})
		if err != nil {
			t.Fatalf("create %s: %v", auth, err)
		}
		ids = append(ids, p.ID)
	}
	if err := svc.Delete(ctx, ids[0]); err != nil {
		t.Fatalf("delete: %v", err)
	}

	page, err := svc.FindAll(ctx, pagination.Pagination{Page: 1, Limit: 1})
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("expected total 2, got %d", page.Total)
	}
	if page.TotalPages != 2 {
		t.Fatalf("expected 2 pages, got %d", page.TotalPages)
	}
	if len(page.Data) != 1 {
		t.Fatalf("expected 1 row on page, got %d", len(page.Data))
	}
}

func TestProfileFindByAuthUserIDHidesDeleted(t *testing.T) {
	svc, _, _ := setupProfileService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateProfileRequest{AuthUserID: "auth-1"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	_, err = svc.FindByAuthUserID(ctx, "auth-1")
	if !errors.Is(err, lifecycle.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
