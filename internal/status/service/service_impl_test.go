package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/userhub/internal/clock"
	"github.com/smallbiznis/userhub/internal/lifecycle"
	profiledomain "github.com/smallbiznis/userhub/internal/profile/domain"
	profilerepository "github.com/smallbiznis/userhub/internal/profile/repository"
	"github.com/smallbiznis/userhub/internal/status/domain"
	"github.com/smallbiznis/userhub/internal/status/repository"
	pkgdb "github.com/smallbiznis/userhub/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type statusFixture struct {
	svc       domain.Service
	db        *gorm.DB
	node      *snowflake.Node
	clk       *clock.FakeClock
	profileID snowflake.ID
}

func setupStatusService(t *testing.T) statusFixture {
	t.Helper()

	dbConn, err := pkgdb.NewTest()
	if err != nil {
		t.Fatalf("new test db: %v", err)
	}
	if err := dbConn.AutoMigrate(&profiledomain.Profile{}, &domain.AccountStatus{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new snowflake node: %v", err)
	}
	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	profile := &profiledomain.Profile{AuthUserID: "auth-1"}
	profile.ID = node.Generate()
	if err := lifecycle.Insert(context.Background(), dbConn, profile, clk.Now()); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	svc := New(Params{
		DB:       dbConn,
		Log:      zap.NewNop(),
		GenID:    node,
		Clock:    clk,
		Repo:     repository.Provide(),
		Profiles: profilerepository.Provide(),
	})
	return statusFixture{svc: svc, db: dbConn, node: node, clk: clk, profileID: profile.ID}
}

func (f statusFixture) seedProfile(t *testing.T, authUserID string) snowflake.ID {
	t.Helper()
	profile := &profiledomain.Profile{AuthUserID: authUserID}
	profile.ID = f.node.Generate()
	if err := lifecycle.Insert(context.Background(), f.db, profile, f.clk.Now()); err != nil {
		t.Fatalf("seed profile %s: %v", authUserID, err)
	}
	return profile.ID
}

func TestStatusCreateDefaultsToGoodStanding(t *testing.T) {
	f := setupStatusService(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, domain.CreateStatusRequest{UserProfileID: f.profileID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if created.Status != domain.StateActive {
		t.Fatalf("expected active, got %s", created.Status)
	}
	if !created.CanLogin || !created.CanStream || !created.CanComment || !created.CanMessage || !created.CanPurchase {
		t.Fatalf("expected base capabilities granted: %+v", created)
	}
	if created.CanUpload || created.RequiresKyc || created.IsVerified || created.IsModerator {
		t.Fatalf("expected earned flags off: %+v", created)
	}
}

func TestStatusSuspendRevokesAndActivateRestores(t *testing.T) {
	f := setupStatusService(t)
	ctx := context.Background()

	verified := true
	created, err := f.svc.Create(ctx, domain.CreateStatusRequest{
		UserProfileID: f.profileID,
		IsVerified:    &verified,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	expires := f.clk.Now().Add(72 * time.Hour)
	suspended, err := f.svc.Suspend(ctx, domain.SuspendRequest{
		ID:         created.ID,
		Reason:     "tos_violation",
		ActionedBy: "moderator-7",
		ExpiresAt:  &expires,
	})
	if err != nil {
		t.Fatalf("suspend: %v", err)
	}
	if suspended.Status != domain.StateSuspended {
		t.Fatalf("expected suspended, got %s", suspended.Status)
	}
	if suspended.CanLogin || suspended.CanStream {
		t.Fatalf("suspend must revoke login and streaming: %+v", suspended)
	}
	if suspended.CanComment == false {
		t.Fatalf("suspend must not touch commenting")
	}
	if suspended.Reason == nil || *suspended.Reason != "tos_violation" {
		t.Fatalf("missing audit reason: %v", suspended.Reason)
	}
	if suspended.ActionedAt == nil || suspended.ExpiresAt == nil {
		t.Fatalf("missing audit timestamps: %+v", suspended)
	}

	activated, err := f.svc.Activate(ctx, created.ID)
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if activated.Status != domain.StateActive {
		t.Fatalf("expected active, got %s", activated.Status)
	}
	if !activated.CanLogin || !activated.CanStream {
		t.Fatalf("activate must restore capabilities: %+v", activated)
	}
	if activated.Reason != nil || activated.ReasonDetail != nil || activated.ExpiresAt != nil {
		t.Fatalf("activate must clear audit fields: %+v", activated)
	}
	// Earned standing survives the moderation round trip.
	if !activated.IsVerified {
		t.Fatalf("activate must not reset verification")
	}
}

func TestStatusBanRevokesAllTransactionalCapabilities(t *testing.T) {
	f := setupStatusService(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, domain.CreateStatusRequest{UserProfileID: f.profileID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	banned, err := f.svc.Ban(ctx, domain.BanRequest{
		ID:         created.ID,
		Reason:     "fraud",
		ActionedBy: "trust-safety",
	})
	if err != nil {
		t.Fatalf("ban: %v", err)
	}
	if banned.Status != domain.StateBanned {
		t.Fatalf("expected banned, got %s", banned.Status)
	}
	if banned.CanLogin || banned.CanStream || banned.CanComment || banned.CanMessage || banned.CanPurchase {
		t.Fatalf("ban must revoke all base capabilities: %+v", banned)
	}
	if banned.ExpiresAt != nil {
		t.Fatalf("a ban has no expiry")
	}
}

func TestStatusSuspendRequiresReason(t *testing.T) {
	f := setupStatusService(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, domain.CreateStatusRequest{UserProfileID: f.profileID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = f.svc.Suspend(ctx, domain.SuspendRequest{ID: created.ID, Reason: "  "})
	if !errors.Is(err, domain.ErrInvalidReason) {
		t.Fatalf("expected invalid reason, got %v", err)
	}
	_, err = f.svc.Ban(ctx, domain.BanRequest{ID: created.ID})
	if !errors.Is(err, domain.ErrInvalidReason) {
		t.Fatalf("expected invalid reason, got %v", err)
	}
}

func TestStatusDuplicateAndRestore(t *testing.T) {
	f := setupStatusService(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, domain.CreateStatusRequest{UserProfileID: f.profileID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = f.svc.Create(ctx, domain.CreateStatusRequest{UserProfileID: f.profileID})
	if !errors.Is(err, lifecycle.ErrDuplicate) {
		t.Fatalf("expected duplicate, got %v", err)
	}

	if err := f.svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	restored, err := f.svc.Create(ctx, domain.CreateStatusRequest{UserProfileID: f.profileID})
	if err != nil {
		t.Fatalf("restore create: %v", err)
	}
	if restored.ID != created.ID {
		t.Fatalf("restore minted a new identity")
	}
}

func TestStatusModerationRosters(t *testing.T) {
	f := setupStatusService(t)
	ctx := context.Background()

	firstProfile := f.profileID
	secondProfile := f.seedProfile(t, "auth-2")
	thirdProfile := f.seedProfile(t, "auth-3")

	first, err := f.svc.Create(ctx, domain.CreateStatusRequest{UserProfileID: firstProfile})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := f.svc.Create(ctx, domain.CreateStatusRequest{UserProfileID: secondProfile})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	third, err := f.svc.Create(ctx, domain.CreateStatusRequest{UserProfileID: thirdProfile})
	if err != nil {
		t.Fatalf("create third: %v", err)
	}

	if _, err := f.svc.Suspend(ctx, domain.SuspendRequest{ID: first.ID, Reason: "spam", ActionedBy: "mod"}); err != nil {
		t.Fatalf("suspend: %v", err)
	}
	f.clk.Advance(time.Minute)
	if _, err := f.svc.Suspend(ctx, domain.SuspendRequest{ID: second.ID, Reason: "spam", ActionedBy: "mod"}); err != nil {
		t.Fatalf("suspend second: %v", err)
	}
	if _, err := f.svc.Ban(ctx, domain.BanRequest{ID: third.ID, Reason: "fraud", ActionedBy: "mod"}); err != nil {
		t.Fatalf("ban: %v", err)
	}

	suspended, err := f.svc.FindAllSuspended(ctx)
	if err != nil {
		t.Fatalf("find suspended: %v", err)
	}
	if len(suspended) != 2 {
		t.Fatalf("expected 2 suspended, got %d", len(suspended))
	}
	// Most recently actioned first.
	if suspended[0].ID != second.ID {
		t.Fatalf("expected newest action first")
	}

	banned, err := f.svc.FindAllBanned(ctx)
	if err != nil {
		t.Fatalf("find banned: %v", err)
	}
	if len(banned) != 1 || banned[0].ID != third.ID {
		t.Fatalf("expected the banned row, got %d", len(banned))
	}
}
