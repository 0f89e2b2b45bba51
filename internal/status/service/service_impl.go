package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/userhub/internal/clock"
	"github.com/smallbiznis/userhub/internal/lifecycle"
	profiledomain "github.com/smallbiznis/userhub/internal/profile/domain"
	"github.com/smallbiznis/userhub/internal/status/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
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
		log:      p.Log.Named("status.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		profiles: p.Profiles,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateStatusRequest) (*domain.AccountStatus, error) {
	if req.UserProfileID == 0 {
		return nil, domain.ErrInvalidUserProfileID
	}

	s.log.Info("creating status", zap.Stringer("user_profile_id", req.UserProfileID))

	ok, err := s.profiles.ExistsActive(ctx, s.db, req.UserProfileID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", req.UserProfileID, lifecycle.ErrParentNotFound)
	}

	existing, err := s.repo.FindByUserProfileID(ctx, s.db, req.UserProfileID)
	if err != nil {
		return nil, err
	}

	fresh := newWithDefaults(req)
	fresh.ID = s.genID.Generate()

	status, err := lifecycle.CreateOrRestore(ctx, s.db, existing, existing != nil, fresh, patchFields(req), s.clock.Now())
	if err != nil {
		return nil, err
	}

	s.log.Info("status created", zap.Stringer("id", status.ID))
	return status, nil
}

func (s *Service) FindByID(ctx context.Context, id snowflake.ID) (*domain.AccountStatus, error) {
	if id == 0 {
		return nil, domain.ErrInvalidID
	}
	var status domain.AccountStatus
	if err := lifecycle.FindActive(ctx, s.db, &status, id); err != nil {
		return nil, err
	}
	return &status, nil
}

func (s *Service) FindByUserProfileID(ctx context.Context, userProfileID snowflake.ID) (*domain.AccountStatus, error) {
	if userProfileID == 0 {
		return nil, domain.ErrInvalidUserProfileID
	}
	status, err := s.repo.FindByUserProfileID(ctx, s.db, userProfileID)
	if err != nil {
		return nil, err
	}
	if status == nil || status.IsDeleted {
		return nil, fmt.Errorf("status for profile %s: %w", userProfileID, lifecycle.ErrNotFound)
	}
	return status, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateStatusRequest) (*domain.AccountStatus, error) {
	status, err := s.FindByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Version != nil && *req.Version != status.Version {
		return nil, lifecycle.ErrVersionConflict
	}

	fields := map[string]any{}
	applyIfSet(fields, "status", req.Status)
	applyIfSet(fields, "reason", req.Reason)
	applyIfSet(fields, "reason_detail", req.ReasonDetail)
	applyIfSet(fields, "actioned_by", req.ActionedBy)
	applyIfSet(fields, "actioned_at", req.ActionedAt)
	applyIfSet(fields, "expires_at", req.ExpiresAt)
	applyIfSet(fields, "notes", req.Notes)
	applyCapabilityFields(fields, req.CanLogin, req.CanStream, req.CanComment, req.CanMessage, req.CanPurchase,
		req.CanUpload, req.RequiresKyc, req.IsVerified, req.IsModerator, req.IsContentCreator, req.IsPremiumSupporter)

	if err := lifecycle.UpdateWithVersion(ctx, s.db, status, fields, s.clock.Now()); err != nil {
		return nil, err
	}

	s.log.Info("status updated", zap.Stringer("id", status.ID), zap.Int64("version", status.Version))
	return status, nil
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	status, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := lifecycle.SoftDelete(ctx, s.db, status, s.clock.Now()); err != nil {
		return err
	}
	s.log.Info("status soft deleted", zap.Stringer("id", id))
	return nil
}

func (s *Service) Suspend(ctx context.Context, req domain.SuspendRequest) (*domain.AccountStatus, error) {
	if strings.TrimSpace(req.Reason) == "" {
		return nil, domain.ErrInvalidReason
	}

	status, err := s.FindByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	fields := map[string]any{
		"status":      domain.StateSuspended,
		"reason":      req.Reason,
		"actioned_by": req.ActionedBy,
		"actioned_at": now,
		"expires_at":  req.ExpiresAt,
		"can_login":   false,
		"can_stream":  false,
	}
	if err := lifecycle.UpdateActive(ctx, s.db, status, fields, now); err != nil {
		return nil, err
	}

	s.log.Warn("account suspended",
		zap.Stringer("id", req.ID),
		zap.String("reason", req.Reason),
		zap.String("actioned_by", req.ActionedBy),
	)
	return status, nil
}

func (s *Service) Ban(ctx context.Context, req domain.BanRequest) (*domain.AccountStatus, error) {
	if strings.TrimSpace(req.Reason) == "" {
		return nil, domain.ErrInvalidReason
	}

	status, err := s.FindByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	fields := map[string]any{
		"status":       domain.StateBanned,
		"reason":       req.Reason,
		"actioned_by":  req.ActionedBy,
		"actioned_at":  now,
		"expires_at":   nil,
		"can_login":    false,
		"can_stream":   false,
		"can_comment":  false,
		"can_message":  false,
		"can_purchase": false,
	}
	if err := lifecycle.UpdateActive(ctx, s.db, status, fields, now); err != nil {
		return nil, err
	}

	s.log.Warn("account banned",
		zap.Stringer("id", req.ID),
		zap.String("reason", req.Reason),
		zap.String("actioned_by", req.ActionedBy),
	)
	return status, nil
}

func (s *Service) Activate(ctx context.Context, id snowflake.ID) (*domain.AccountStatus, error) {
	status, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Restores exactly what suspend/ban revoked. Earned flags (isVerified,
	// isModerator, isContentCreator, isPremiumSupporter) are left alone.
	fields := map[string]any{
		"status":        domain.StateActive,
		"reason":        nil,
		"reason_detail": nil,
		"expires_at":    nil,
		"can_login":     true,
		"can_stream":    true,
		"can_comment":   true,
		"can_message":   true,
		"can_purchase":  true,
	}
	if err := lifecycle.UpdateActive(ctx, s.db, status, fields, s.clock.Now()); err != nil {
		return nil, err
	}

	s.log.Info("account reactivated", zap.Stringer("id", id))
	return status, nil
}

func (s *Service) FindAllSuspended(ctx context.Context) ([]domain.AccountStatus, error) {
	return s.repo.FindAllInState(ctx, s.db, domain.StateSuspended)
}

func (s *Service) FindAllBanned(ctx context.Context) ([]domain.AccountStatus, error) {
	return s.repo.FindAllInState(ctx, s.db, domain.StateBanned)
}

func newWithDefaults(req domain.CreateStatusRequest) *domain.AccountStatus {
	status := domain.Defaults()
	status.UserProfileID = req.UserProfileID
	applyValue(&status.Status, req.Status)
	status.Reason = req.Reason
	status.ReasonDetail = req.ReasonDetail
	status.ActionedBy = req.ActionedBy
	status.ActionedAt = req.ActionedAt
	status.ExpiresAt = req.ExpiresAt
	status.Notes = req.Notes
	applyValue(&status.CanLogin, req.CanLogin)
	applyValue(&status.CanStream, req.CanStream)
	applyValue(&status.CanComment, req.CanComment)
	applyValue(&status.CanMessage, req.CanMessage)
	applyValue(&status.CanPurchase, req.CanPurchase)
	applyValue(&status.CanUpload, req.CanUpload)
	applyValue(&status.RequiresKyc, req.RequiresKyc)
	applyValue(&status.IsVerified, req.IsVerified)
	applyValue(&status.IsModerator, req.IsModerator)
	applyValue(&status.IsContentCreator, req.IsContentCreator)
	applyValue(&status.IsPremiumSupporter, req.IsPremiumSupporter)
	return &status
}

// patchFields carries only the request's present fields, used when a
// soft-deleted row is restored.
func patchFields(req domain.CreateStatusRequest) map[string]any {
	fields := map[string]any{}
	applyIfSet(fields, "status", req.Status)
	applyIfSet(fields, "reason", req.Reason)
	applyIfSet(fields, "reason_detail", req.ReasonDetail)
	applyIfSet(fields, "actioned_by", req.ActionedBy)
	applyIfSet(fields, "actioned_at", req.ActionedAt)
	applyIfSet(fields, "expires_at", req.ExpiresAt)
	applyIfSet(fields, "notes", req.Notes)
	applyCapabilityFields(fields, req.CanLogin, req.CanStream, req.CanComment, req.CanMessage, req.CanPurchase,
		req.CanUpload, req.RequiresKyc, req.IsVerified, req.IsModerator, req.IsContentCreator, req.IsPremiumSupporter)
	return fields
}

func applyCapabilityFields(fields map[string]any,
	canLogin, canStream, canComment, canMessage, canPurchase,
	canUpload, requiresKyc, isVerified, isModerator, isContentCreator, isPremiumSupporter *bool,
) {
	applyIfSet(fields, "can_login", canLogin)
	applyIfSet(fields, "can_stream", canStream)
	applyIfSet(fields, "can_comment", canComment)
	applyIfSet(fields, "can_message", canMessage)
	applyIfSet(fields, "can_purchase", canPurchase)
	applyIfSet(fields, "can_upload", canUpload)
	applyIfSet(fields, "requires_kyc", requiresKyc)
	applyIfSet(fields, "is_verified", isVerified)
	applyIfSet(fields, "is_moderator", isModerator)
	applyIfSet(fields, "is_content_creator", isContentCreator)
	applyIfSet(fields, "is_premium_supporter", isPremiumSupporter)
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
