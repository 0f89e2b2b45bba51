package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/userhub/internal/clock"
	"github.com/smallbiznis/userhub/internal/lifecycle"
	"github.com/smallbiznis/userhub/internal/profile/domain"
	"github.com/smallbiznis/userhub/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("profile.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateProfileRequest) (*domain.Profile, error) {
	authUserID := strings.TrimSpace(req.AuthUserID)
	if authUserID == "" {
		return nil, domain.ErrInvalidAuthUserID
	}

	s.log.Info("creating profile", zap.String("auth_user_id", authUserID))

	existing, err := s.repo.FindByAuthUserID(ctx, s.db, authUserID)
	if err != nil {
		return nil, err
	}

	fresh := &domain.Profile{
		AuthUserID:  authUserID,
		DisplayName: req.DisplayName,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Avatar:      req.Avatar,
		Bio:         req.Bio,
		Country:     req.Country,
		DateOfBirth: req.DateOfBirth,
		Phone:       req.Phone,
	}
	fresh.ID = s.genID.Generate()

	profile, err := lifecycle.CreateOrRestore(ctx, s.db, existing, existing != nil, fresh, restoreFields(req), s.clock.Now())
	if err != nil {
		return nil, err
	}

	s.log.Info("profile created", zap.Stringer("id", profile.ID))
	return profile, nil
}

func (s *Service) FindByID(ctx context.Context, id snowflake.ID) (*domain.Profile, error) {
	if id == 0 {
		return nil, domain.ErrInvalidID
	}
	var profile domain.Profile
	if err := lifecycle.FindActive(ctx, s.db, &profile, id); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *Service) FindByAuthUserID(ctx context.Context, authUserID string) (*domain.Profile, error) {
	authUserID = strings.TrimSpace(authUserID)
	if authUserID == "" {
		return nil, domain.ErrInvalidAuthUserID
	}
	profile, err := s.repo.FindByAuthUserID(ctx, s.db, authUserID)
	if err != nil {
		return nil, err
	}
	if profile == nil || profile.IsDeleted {
		return nil, lifecycle.ErrNotFound
	}
	return profile, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateProfileRequest) (*domain.Profile, error) {
	profile, err := s.FindByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Version != nil && *req.Version != profile.Version {
		return nil, lifecycle.ErrVersionConflict
	}

	fields := map[string]any{}
	applyIfSet(fields, "display_name", req.DisplayName)
	applyIfSet(fields, "first_name", req.FirstName)
	applyIfSet(fields, "last_name", req.LastName)
	applyIfSet(fields, "avatar", req.Avatar)
	applyIfSet(fields, "bio", req.Bio)
	applyIfSet(fields, "country", req.Country)
	applyIfSet(fields, "date_of_birth", req.DateOfBirth)
	applyIfSet(fields, "phone", req.Phone)

	if err := lifecycle.UpdateWithVersion(ctx, s.db, profile, fields, s.clock.Now()); err != nil {
		return nil, err
	}

	s.log.Info("profile updated", zap.Stringer("id", profile.ID), zap.Int64("version", profile.Version))
	return profile, nil
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	profile, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := lifecycle.SoftDelete(ctx, s.db, profile, s.clock.Now()); err != nil {
		return err
	}
	s.log.Info("profile soft deleted", zap.Stringer("id", id))
	return nil
}

func (s *Service) FindAll(ctx context.Context, page pagination.Pagination) (pagination.Page[domain.Profile], error) {
	page = page.Normalize()
	profiles, total, err := s.repo.List(ctx, s.db, page)
	if err != nil {
		return pagination.Page[domain.Profile]{}, err
	}
	return pagination.NewPage(profiles, total, page), nil
}

// restoreFields is the payload applied when a soft-deleted profile is
// resurrected by a create call. Absent fields keep their prior values.
func restoreFields(req domain.CreateProfileRequest) map[string]any {
	fields := map[string]any{}
	applyIfSet(fields, "display_name", req.DisplayName)
	applyIfSet(fields, "first_name", req.FirstName)
	applyIfSet(fields, "last_name", req.LastName)
	applyIfSet(fields, "avatar", req.Avatar)
	applyIfSet(fields, "bio", req.Bio)
	applyIfSet(fields, "country", req.Country)
	applyIfSet(fields, "date_of_birth", req.DateOfBirth)
	applyIfSet(fields, "phone", req.Phone)
	return fields
}

func applyIfSet[T any](fields map[string]any, column string, value *T) {
	if value != nil {
		fields[column] = *value
	}
}
