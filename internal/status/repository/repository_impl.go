package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/userhub/internal/status/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByUserProfileID(ctx context.Context, db *gorm.DB, userProfileID snowflake.ID) (*domain.AccountStatus, error) {
	var status domain.AccountStatus
	err := db.WithContext(ctx).Where("user_profile_id = ?", userProfileID).First(&status).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &status, nil
}

func (r *repo) FindAllInState(ctx context.Context, db *gorm.DB, state domain.State) ([]domain.AccountStatus, error) {
	var statuses []domain.AccountStatus
	err := db.WithContext(ctx).
		Where("status = ? AND is_deleted = ?", state, false).
		Order("actioned_at desc").
		Find(&statuses).Error
	if err != nil {
		return nil, err
	}
	return statuses, nil
}

func (r *repo) FindByIDAny(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.AccountStatus, error) {
	var status domain.AccountStatus
	err := db.WithContext(ctx).Where("id = ?", id).First(&status).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &status, nil
}
