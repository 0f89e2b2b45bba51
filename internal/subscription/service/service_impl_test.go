package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/userhub/internal/clock"
	"github.com/smallbiznis/userhub/internal/lifecycle"
	profiledomain "github.com/smallbiznis/userhub/internal/profile/domain"
	profilerepository "github.com/smallbiznis/userhub/internal/profile/repository"
	"github.com/smallbiznis/userhub/internal/subscription/domain"
	"github.com/smallbiznis/userhub/internal/subscription/repository"
	pkgdb "github.com/smallbiznis/userhub/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type subscriptionFixture struct {
	svc       domain.Service
	db        *gorm.DB
	node      *snowflake.Node
	clk       *clock.FakeClock
	profileID snowflake.ID
}

func setupSubscriptionService(t *testing.T) subscriptionFixture {
	t.Helper()

	dbConn, err := pkgdb.NewTest()
	if err != nil {
		t.Fatalf("new test db: %v", err)
	}
	if err := dbConn.AutoMigrate(&profiledomain.Profile{}, &domain.Subscription{}); err != nil {
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
	return subscriptionFixture{svc: svc, db: dbConn, node: node, clk: clk, profileID: profile.ID}
}

func statusPtr(s domain.Status) *domain.Status { return &s }

func intPtr(n int) *int { return &n }

func TestSubscriptionCreateDefaults(t *testing.T) {
	f := setupSubscriptionService(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, domain.CreateSubscriptionRequest{
		UserProfileID: f.profileID,
		PlanType:      "basic",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if created.Status != domain.StatusInactive {
		t.Fatalf("expected inactive, got %s", created.Status)
	}
	if !created.IsAutoRenew || created.IsTrial {
		t.Fatalf("unexpected renewal defaults: %+v", created)
	}
	if created.MaxDevices != 1 || created.MaxProfiles != 1 || created.CanDownload {
		t.Fatalf("unexpected entitlement defaults: %+v", created)
	}
	if created.VideoQuality != "sd" || !created.AdsEnabled {
		t.Fatalf("unexpected playback defaults: %+v", created)
	}
	if !created.StartDate.Equal(f.clk.Now()) {
		t.Fatalf("expected start date %v, got %v", f.clk.Now(), created.StartDate)
	}
}

func TestSubscriptionCreateRejectsBadMetadata(t *testing.T) {
	f := setupSubscriptionService(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, domain.CreateSubscriptionRequest{
		UserProfileID: f.profileID,
		PlanType:      "basic",
		Metadata:      json.RawMessage(`"not an object"`),
	})
	if !errors.Is(err, domain.ErrInvalidMetadata) {
		t.Fatalf("expected invalid metadata, got %v", err)
	}
}

func TestSubscriptionHistoryAndActiveSelection(t *testing.T) {
	f := setupSubscriptionService(t)
	ctx := context.Background()

	// A profile accumulates subscription rows; only the active one is the
	// "current" subscription.
	old, err := f.svc.Create(ctx, domain.CreateSubscriptionRequest{
		UserProfileID: f.profileID,
		PlanType:      "basic",
		Status:        statusPtr(domain.StatusCanceled),
	})
	if err != nil {
		t.Fatalf("create old: %v", err)
	}
	f.clk.Advance(time.Minute)

	current, err := f.svc.Create(ctx, domain.CreateSubscriptionRequest{
		UserProfileID: f.profileID,
		PlanType:      "premium",
		Status:        statusPtr(domain.StatusActive),
	})
	if err != nil {
		t.Fatalf("create current: %v", err)
	}

	active, err := f.svc.FindActiveByUserProfileID(ctx, f.profileID)
	if err != nil {
		t.Fatalf("find active: %v", err)
	}
	if active == nil || active.ID != current.ID {
		t.Fatalf("expected current subscription, got %+v", active)
	}

	all, err := f.svc.FindAllByUserProfileID(ctx, f.profileID)
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(all))
	}
	if all[0].ID != current.ID || all[1].ID != old.ID {
		t.Fatalf("expected newest-first history")
	}
}

func TestSubscriptionNoActiveIsNotAnError(t *testing.T) {
	f := setupSubscriptionService(t)
	ctx := context.Background()

	active, err := f.svc.FindActiveByUserProfileID(ctx, f.profileID)
	if err != nil {
		t.Fatalf("find active: %v", err)
	}
	if active != nil {
		t.Fatalf("expected nil, got %+v", active)
	}
}

func TestSubscriptionCancelSuspendActivate(t *testing.T) {
	f := setupSubscriptionService(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, domain.CreateSubscriptionRequest{
		UserProfileID: f.profileID,
		PlanType:      "basic",
		Status:        statusPtr(domain.StatusActive),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	suspended, err := f.svc.Suspend(ctx, created.ID, "payment failed")
	if err != nil {
		t.Fatalf("suspend: %v", err)
	}
	if suspended.Status != domain.StatusSuspended || suspended.SuspendedAt == nil {
		t.Fatalf("unexpected suspend state: %+v", suspended)
	}
	if suspended.Metadata["suspendReason"] != "payment failed" {
		t.Fatalf("expected suspend reason in metadata, got %v", suspended.Metadata)
	}

	activated, err := f.svc.Activate(ctx, created.ID)
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if activated.Status != domain.StatusActive || activated.SuspendedAt != nil {
		t.Fatalf("unexpected activate state: %+v", activated)
	}

	canceled, err := f.svc.Cancel(ctx, created.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if canceled.Status != domain.StatusCanceled || canceled.CanceledAt == nil || canceled.IsAutoRenew {
		t.Fatalf("unexpected cancel state: %+v", canceled)
	}
}

func TestSubscriptionExpiration(t *testing.T) {
	f := setupSubscriptionService(t)
	ctx := context.Background()

	end := f.clk.Now().Add(24 * time.Hour)
	withEnd, err := f.svc.Create(ctx, domain.CreateSubscriptionRequest{
		UserProfileID: f.profileID,
		PlanType:      "basic",
		EndDate:       &end,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	open, err := f.svc.Create(ctx, domain.CreateSubscriptionRequest{
		UserProfileID: f.profileID,
		PlanType:      "lifetime",
	})
	if err != nil {
		t.Fatalf("create open-ended: %v", err)
	}

	expired, err := f.svc.CheckExpiration(ctx, withEnd.ID)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if expired {
		t.Fatalf("not yet expired")
	}

	f.clk.Advance(48 * time.Hour)

	expired, err = f.svc.CheckExpiration(ctx, withEnd.ID)
	if err != nil {
		t.Fatalf("check after advance: %v", err)
	}
	if !expired {
		t.Fatalf("expected expired after end date")
	}

	// No end date never expires.
	expired, err = f.svc.CheckExpiration(ctx, open.ID)
	if err != nil {
		t.Fatalf("check open-ended: %v", err)
	}
	if expired {
		t.Fatalf("open-ended subscription must not expire")
	}
}

func TestSubscriptionFindExpiringSoon(t *testing.T) {
	f := setupSubscriptionService(t)
	ctx := context.Background()

	soon := f.clk.Now().Add(24 * time.Hour)
	later := f.clk.Now().Add(10 * 24 * time.Hour)

	first, err := f.svc.Create(ctx, domain.CreateSubscriptionRequest{
		UserProfileID: f.profileID,
		PlanType:      "basic",
		Status:        statusPtr(domain.StatusActive),
		EndDate:       &soon,
	})
	if err != nil {
		t.Fatalf("create soon: %v", err)
	}
	if _, err := f.svc.Create(ctx, domain.CreateSubscriptionRequest{
		UserProfileID: f.profileID,
		PlanType:      "basic",
		Status:        statusPtr(domain.StatusActive),
		EndDate:       &later,
	}); err != nil {
		t.Fatalf("create later: %v", err)
	}
	// Inactive subscriptions never show up, whatever the end date.
	if _, err := f.svc.Create(ctx, domain.CreateSubscriptionRequest{
		UserProfileID: f.profileID,
		PlanType:      "basic",
		EndDate:       &soon,
	}); err != nil {
		t.Fatalf("create inactive: %v", err)
	}

	expiring, err := f.svc.FindExpiringSoon(ctx, intPtr(2))
	if err != nil {
		t.Fatalf("find expiring: %v", err)
	}
	if len(expiring) != 1 || expiring[0].ID != first.ID {
		t.Fatalf("expected only the soon-expiring active row, got %d", len(expiring))
	}

	// An absent days means the default seven-day window.
	expiring, err = f.svc.FindExpiringSoon(ctx, nil)
	if err != nil {
		t.Fatalf("find expiring default: %v", err)
	}
	if len(expiring) != 1 {
		t.Fatalf("expected 1 row in default window, got %d", len(expiring))
	}

	// An explicit zero is a real window of [now, now], not the default:
	// the row ending tomorrow must not appear.
	expiring, err = f.svc.FindExpiringSoon(ctx, intPtr(0))
	if err != nil {
		t.Fatalf("find expiring zero window: %v", err)
	}
	if len(expiring) != 0 {
		t.Fatalf("expected empty zero-day window, got %d rows", len(expiring))
	}

	expiring, err = f.svc.FindExpiringSoon(ctx, intPtr(30))
	if err != nil {
		t.Fatalf("find expiring wide: %v", err)
	}
	if len(expiring) != 2 {
		t.Fatalf("expected 2 rows in wide window, got %d", len(expiring))
	}
	if !expiring[0].EndDate.Before(*expiring[1].EndDate) {
		t.Fatalf("expected soonest-first ordering")
	}
}

func TestSubscriptionCreateRequiresActiveParent(t *testing.T) {
	f := setupSubscriptionService(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, domain.CreateSubscriptionRequest{
		UserProfileID: f.node.Generate(),
		PlanType:      "basic",
	})
	if !errors.Is(err, lifecycle.ErrParentNotFound) {
		t.Fatalf("expected parent not found, got %v", err)
	}
}
