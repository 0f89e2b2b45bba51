package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/userhub/pkg/db/pagination"
)

type CreateProfileRequest struct {
	AuthUserID  string     `json:"authUserId"`
	DisplayName *string    `json:"displayName"`
	FirstName   *string    `json:"firstName"`
	LastName    *string    `json:"lastName"`
	Avatar      *string    `json:"avatar"`
	Bio         *string    `json:"bio"`
	Country     *string    `json:"country"`
	DateOfBirth *time.Time `json:"dateOfBirth"`
	Phone       *string    `json:"phone"`
}

// UpdateProfileRequest is a partial update: nil fields are left unchanged.
// Version, when set, is the optimistic-locking gate.
type UpdateProfileRequest struct {
	ID          snowflake.ID `json:"id"`
	Version     *int64       `json:"version"`
	DisplayName *string      `json:"displayName"`
	FirstName   *string      `json:"firstName"`
	LastName    *string      `json:"lastName"`
	Avatar      *string      `json:"avatar"`
	Bio         *string      `json:"bio"`
	Country     *string      `json:"country"`
	DateOfBirth *time.Time   `json:"dateOfBirth"`
	Phone       *string      `json:"phone"`
}

type Service interface {
	Create(ctx context.Context, req CreateProfileRequest) (*Profile, error)
	FindByID(ctx context.Context, id snowflake.ID) (*Profile, error)
	FindByAuthUserID(ctx context.Context, authUserID string) (*Profile, error)
	Update(ctx context.Context, req UpdateProfileRequest) (*Profile, error)
	Delete(ctx context.Context, id snowflake.ID) error
	FindAll(ctx context.Context, page pagination.Pagination) (pagination.Page[Profile], error)
}

var (
	ErrInvalidAuthUserID = errors.New("invalid_auth_user_id")
	ErrInvalidID         = errors.New("invalid_id")
)
