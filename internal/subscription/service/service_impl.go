package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/userhub/internal/clock"
	"github.com/smallbiznis/userhub/internal/lifecycle"
	profiledomain "github.com/smallbiznis/userhub/internal/profile/domain"
	"github.com/smallbiznis/userhub/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	Profiles profiledomain.Repository
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	profiles profiledomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("subscription.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		profiles: p.Profiles,
	}
}

// Create inserts a new subscription row unconditionally. Unlike profiles and
// settings there is no natural-key restore path: a profile accumulates
// subscription history, and the current one is picked by status.
func (s *Service) Create(ctx context.Context, req domain.CreateSubscriptionRequest) (*domain.Subscription, error) {
	if req.UserProfileID == 0 {
		return nil, domain.ErrInvalidUserProfileID
	}
	if req.PlanType == "" {
		return nil, domain.ErrInvalidPlanType
	}

	s.log.Info("creating subscription",
		zap.Stringer("user_profile_id", req.UserProfileID),
		zap.String("plan_type", req.PlanType),
	)

	ok, err := s.profiles.ExistsActive(ctx, s.db, req.UserProfileID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", req.UserProfileID, lifecycle.ErrParentNotFound)
	}

	metadata, err := parseMetadata(req.Metadata)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	sub := &domain.Subscription{
		UserProfileID:          req.UserProfileID,
		PlanType:               req.PlanType,
		Status:                 domain.StatusInactive,
		BillingCycle:           req.BillingCycle,
		StartDate:              now,
		EndDate:                req.EndDate,
		RenewalDate:            req.RenewalDate,
		TrialEndsAt:            req.TrialEndsAt,
		IsAutoRenew:            true,
		IsTrial:                false,
		MaxDevices:             1,
		MaxProfiles:            1,
		CanDownload:            false,
		VideoQuality:           "sd",
		AdsEnabled:             true,
		ExternalSubscriptionID: req.ExternalSubscriptionID,
		PaymentMethod:          req.PaymentMethod,
		Metadata:               metadata,
	}
	sub.ID = s.genID.Generate()
	applyValue(&sub.Status, req.Status)
	applyValue(&sub.StartDate, req.StartDate)
	applyValue(&sub.IsAutoRenew, req.IsAutoRenew)
	applyValue(&sub.IsTrial, req.IsTrial)
	applyValue(&sub.MaxDevices, req.MaxDevices)
	applyValue(&sub.MaxProfiles, req.MaxProfiles)
	applyValue(&sub.CanDownload, req.CanDownload)
	applyValue(&sub.VideoQuality, req.VideoQuality)
	applyValue(&sub.AdsEnabled, req.AdsEnabled)

	if err := lifecycle.Insert(ctx, s.db, sub, now); err != nil {
		return nil, err
	}

	s.log.Info("subscription created", zap.Stringer("id", sub.ID))
	return sub, nil
}

func (s *Service) FindByID(ctx context.Context, id snowflake.ID) (*domain.Subscription, error) {
	if id == 0 {
		return nil, domain.ErrInvalidID
	}
	var sub domain.Subscription
	if err := lifecycle.FindActive(ctx, s.db, &sub, id); err != nil {
		return nil, err
	}
	return &sub, nil
}

// FindActiveByUserProfileID returns nil without error when the profile has no
// active subscription; having none is a normal state, not a failure.
func (s *Service) FindActiveByUserProfileID(ctx context.Context, userProfileID snowflake.ID) (*domain.Subscription, error) {
	if userProfileID == 0 {
		return nil, domain.ErrInvalidUserProfileID
	}
	return s.repo.FindActiveByUserProfileID(ctx, s.db, userProfileID)
}

func (s *Service) FindAllByUserProfileID(ctx context.Context, userProfileID snowflake.ID) ([]domain.Subscription, error) {
	if userProfileID == 0 {
		return nil, domain.ErrInvalidUserProfileID
	}
	return s.repo.FindAllByUserProfileID(ctx, s.db, userProfileID)
}

func (s *Service) Update(ctx context.Context, req domain.UpdateSubscriptionRequest) (*domain.Subscription, error) {
	sub, err := s.FindByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Version != nil && *req.Version != sub.Version {
		return nil, lifecycle.ErrVersionConflict
	}

	fields := map[string]any{}
	applyIfSet(fields, "plan_type", req.PlanType)
	applyIfSet(fields, "status", req.Status)
	applyIfSet(fields, "billing_cycle", req.BillingCycle)
	applyIfSet(fields, "end_date", req.EndDate)
	applyIfSet(fields, "renewal_date", req.RenewalDate)
	applyIfSet(fields, "canceled_at", req.CanceledAt)
	applyIfSet(fields, "suspended_at", req.SuspendedAt)
	applyIfSet(fields, "trial_ends_at", req.TrialEndsAt)
	applyIfSet(fields, "is_auto_renew", req.IsAutoRenew)
	applyIfSet(fields, "is_trial", req.IsTrial)
	applyIfSet(fields, "max_devices", req.MaxDevices)
	applyIfSet(fields, "max_profiles", req.MaxProfiles)
	applyIfSet(fields, "can_download", req.CanDownload)
	applyIfSet(fields, "video_quality", req.VideoQuality)
	applyIfSet(fields, "ads_enabled", req.AdsEnabled)
	applyIfSet(fields, "external_subscription_id", req.ExternalSubscriptionID)
	applyIfSet(fields, "payment_method", req.PaymentMethod)
	if len(req.Metadata) > 0 {
		metadata, err := parseMetadata(req.Metadata)
		if err != nil {
			return nil, err
		}
		fields["metadata"] = metadata
	}

	if err := lifecycle.UpdateWithVersion(ctx, s.db, sub, fields, s.clock.Now()); err != nil {
		return nil, err
	}

	s.log.Info("subscription updated", zap.Stringer("id", sub.ID), zap.Int64("version", sub.Version))
	return sub, nil
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	sub, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := lifecycle.SoftDelete(ctx, s.db, sub, s.clock.Now()); err != nil {
		return err
	}
	s.log.Info("subscription soft deleted", zap.Stringer("id", id))
	return nil
}

func (s *Service) Cancel(ctx context.Context, id snowflake.ID) (*domain.Subscription, error) {
	sub, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	fields := map[string]any{
		"status":        domain.StatusCanceled,
		"canceled_at":   now,
		"is_auto_renew": false,
	}
	if err := lifecycle.UpdateActive(ctx, s.db, sub, fields, now); err != nil {
		return nil, err
	}

	s.log.Info("subscription canceled", zap.Stringer("id", id))
	return sub, nil
}

func (s *Service) Suspend(ctx context.Context, id snowflake.ID, reason string) (*domain.Subscription, error) {
	sub, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	fields := map[string]any{
		"status":       domain.StatusSuspended,
		"suspended_at": now,
	}
	if reason != "" {
		fields["metadata"] = datatypes.JSONMap{"suspendReason": reason}
	}
	if err := lifecycle.UpdateActive(ctx, s.db, sub, fields, now); err != nil {
		return nil, err
	}

	s.log.Info("subscription suspended", zap.Stringer("id", id), zap.String("reason", reason))
	return sub, nil
}

func (s *Service) Activate(ctx context.Context, id snowflake.ID) (*domain.Subscription, error) {
	sub, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{
		"status":       domain.StatusActive,
		"suspended_at": nil,
	}
	if err := lifecycle.UpdateActive(ctx, s.db, sub, fields, s.clock.Now()); err != nil {
		return nil, err
	}

	s.log.Info("subscription activated", zap.Stringer("id", id))
	return sub, nil
}

func (s *Service) CheckExpiration(ctx context.Context, id snowflake.ID) (bool, error) {
	sub, err := s.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	return sub.Expired(s.clock.Now()), nil
}

func (s *Service) FindExpiringSoon(ctx context.Context, days *int) ([]domain.Subscription, error) {
	window := domain.DefaultExpiringWindowDays
	if days != nil {
		window = *days
	}
	now := s.clock.Now()
	return s.repo.FindExpiringBetween(ctx, s.db, now, now.Add(time.Duration(window)*24*time.Hour))
}

// parseMetadata decodes the caller-supplied JSON object. Absent metadata is
// fine; malformed metadata is a validation error.
func parseMetadata(raw json.RawMessage) (datatypes.JSONMap, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var metadata datatypes.JSONMap
	if err := json.Unmarshal(raw, &metadata); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidMetadata, err)
	}
	return metadata, nil
}

func applyValue[T any](dst *T, value *T) {
	if value != nil {
		*dst = *value
	}
}

func applyIfSet[T any](fields map[string]any, column string, value *T) {
	if value != nil {
		fields[column] = *value
	}
}
