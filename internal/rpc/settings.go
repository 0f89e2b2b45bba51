package rpc

import (
	"context"
	"encoding/json"

	"github.com/bwmarrin/snowflake"
	settingsdomain "github.com/smallbiznis/userhub/internal/settings/domain"
)

// SettingsHandler serves the user.settings.* patterns.
type SettingsHandler struct {
	settings settingsdomain.Service
}

func NewSettingsHandler(settings settingsdomain.Service) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

func (h *SettingsHandler) Register(d *Dispatcher) {
	d.Register("user.settings.create", h.create)
	d.Register("user.settings.findById", h.findByID)
	d.Register("user.settings.findByUserProfileId", h.findByUserProfileID)
	d.Register("user.settings.update", h.update)
	d.Register("user.settings.delete", h.delete)
	d.Register("user.settings.reset", h.reset)
}

func (h *SettingsHandler) create(ctx context.Context, data json.RawMessage) (any, error) {
	req, err := decode[settingsdomain.CreateSettingsRequest](data)
	if err != nil {
		return nil, err
	}
	return h.settings.Create(ctx, req)
}

func (h *SettingsHandler) findByID(ctx context.Context, data json.RawMessage) (any, error) {
	req, err := decode[idRequest](data)
	if err != nil {
		return nil, err
	}
	return h.settings.FindByID(ctx, req.ID)
}

func (h *SettingsHandler) findByUserProfileID(ctx context.Context, data json.RawMessage) (any, error) {
	req, err := decode[userProfileIDRequest](data)
	if err != nil {
		return nil, err
	}
	return h.settings.FindByUserProfileID(ctx, req.UserProfileID)
}

func (h *SettingsHandler) update(ctx context.Context, data json.RawMessage) (any, error) {
	req, err := decode[settingsdomain.UpdateSettingsRequest](data)
	if err != nil {
		return nil, err
	}
	return h.settings.Update(ctx, req)
}

func (h *SettingsHandler) delete(ctx context.Context, data json.RawMessage) (any, error) {
	req, err := decode[idRequest](data)
	if err != nil {
		return nil, err
	}
	if err := h.settings.Delete(ctx, req.ID); err != nil {
		return nil, err
	}
	return deletedResponse(), nil
}

func (h *SettingsHandler) reset(ctx context.Context, data json.RawMessage) (any, error) {
	req, err := decode[idRequest](data)
	if err != nil {
		return nil, err
	}
	return h.settings.ResetToDefaults(ctx, req.ID)
}

// userProfileIDRequest is the common by-profile payload.
type userProfileIDRequest struct {
	UserProfileID snowflake.ID `json:"userProfileId"`
}
