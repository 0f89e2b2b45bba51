package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/userhub/internal/lifecycle"
	profiledomain "github.com/smallbiznis/userhub/internal/profile/domain"
	settingsdomain "github.com/smallbiznis/userhub/internal/settings/domain"
	statusdomain "github.com/smallbiznis/userhub/internal/status/domain"
	subscriptiondomain "github.com/smallbiznis/userhub/internal/subscription/domain"
	"github.com/smallbiznis/userhub/pkg/db/pagination"
	"go.uber.org/fx"
)

type ProfileHandlerParams struct {
	fx.In

	Profiles      profiledomain.Service
	Settings      settingsdomain.Service
	Subscriptions subscriptiondomain.Service
	Statuses      statusdomain.Service
}

// ProfileHandler serves the user.profile.* patterns. It holds the other
// three services as well, for the with-relations read.
type ProfileHandler struct {
	profiles      profiledomain.Service
	settings      settingsdomain.Service
	subscriptions subscriptiondomain.Service
	statuses      statusdomain.Service
}

func NewProfileHandler(p ProfileHandlerParams) *ProfileHandler {
	return &ProfileHandler{
		profiles:      p.Profiles,
		settings:      p.Settings,
		subscriptions: p.Subscriptions,
		statuses:      p.Statuses,
	}
}

func (h *ProfileHandler) Register(d *Dispatcher) {
	d.Register("user.profile.create", h.create)
	d.Register("user.profile.findById", h.findByID)
	d.Register("user.profile.findByAuthUserId", h.findByAuthUserID)
	d.Register("user.profile.findByIdWithRelations", h.findByIDWithRelations)
	d.Register("user.profile.update", h.update)
	d.Register("user.profile.delete", h.delete)
	d.Register("user.profile.findAll", h.findAll)
}

func (h *ProfileHandler) create(ctx context.Context, data json.RawMessage) (any, error) {
	req, err := decode[profiledomain.CreateProfileRequest](data)
	if err != nil {
		return nil, err
	}
	return h.profiles.Create(ctx, req)
}

func (h *ProfileHandler) findByID(ctx context.Context, data json.RawMessage) (any, error) {
	req, err := decode[idRequest](data)
	if err != nil {
		return nil, err
	}
	return h.profiles.FindByID(ctx, req.ID)
}

func (h *ProfileHandler) findByAuthUserID(ctx context.Context, data json.RawMessage) (any, error) {
	req, err := decode[struct {
		AuthUserID string `json:"authUserId"`
	}](data)
	if err != nil {
		return nil, err
	}
	return h.profiles.FindByAuthUserID(ctx, req.AuthUserID)
}

// ProfileWithRelations bundles a profile with its dependent records. Absent
// relations are null rather than errors.
type ProfileWithRelations struct {
	*profiledomain.Profile
	Settings     *settingsdomain.Settings         `json:"settings"`
	Subscription *subscriptiondomain.Subscription `json:"subscription"`
	AccountState *statusdomain.AccountStatus      `json:"accountStatus"`
}

func (h *ProfileHandler) findByIDWithRelations(ctx context.Context, data json.RawMessage) (any, error) {
	req, err := decode[idRequest](data)
	if err != nil {
		return nil, err
	}

	profile, err := h.profiles.FindByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	out := ProfileWithRelations{Profile: profile}
	if out.Settings, err = tolerateNotFound(h.settings.FindByUserProfileID(ctx, profile.ID)); err != nil {
		return nil, err
	}
	if out.Subscription, err = h.subscriptions.FindActiveByUserProfileID(ctx, profile.ID); err != nil {
		return nil, err
	}
	if out.AccountState, err = tolerateNotFound(h.statuses.FindByUserProfileID(ctx, profile.ID)); err != nil {
		return nil, err
	}
	return out, nil
}

func (h *ProfileHandler) update(ctx context.Context, data json.RawMessage) (any, error) {
	req, err := decode[profiledomain.UpdateProfileRequest](data)
	if err != nil {
		return nil, err
	}
	return h.profiles.Update(ctx, req)
}

func (h *ProfileHandler) delete(ctx context.Context, data json.RawMessage) (any, error) {
	req, err := decode[idRequest](data)
	if err != nil {
		return nil, err
	}
	if err := h.profiles.Delete(ctx, req.ID); err != nil {
		return nil, err
	}
	return deletedResponse(), nil
}

func (h *ProfileHandler) findAll(ctx context.Context, data json.RawMessage) (any, error) {
	req, err := decode[pagination.Pagination](data)
	if err != nil {
		return nil, err
	}
	return h.profiles.FindAll(ctx, req)
}

// idRequest is the common single-id payload.
type idRequest struct {
	ID snowflake.ID `json:"id"`
}

func decode[T any](data json.RawMessage) (T, error) {
	var req T
	if len(data) == 0 {
		return req, nil
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("%w: %v", lifecycle.ErrInvalidRequest, err)
	}
	return req, nil
}

// tolerateNotFound turns a missing dependent record into a nil result.
func tolerateNotFound[T any](rec *T, err error) (*T, error) {
	if err != nil {
		if errors.Is(err, lifecycle.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

func deletedResponse() map[string]any {
	return map[string]any{"success": true}
}
