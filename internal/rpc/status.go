package rpc

import (
	"context"
	"encoding/json"

	statusdomain "github.com/smallbiznis/userhub/internal/status/domain"
)

// StatusHandler serves the user.status.* patterns.
type StatusHandler struct {
	statuses statusdomain.Service
}

func NewStatusHandler(statuses statusdomain.Service) *StatusHandler {
	return &StatusHandler{statuses: statuses}
}

func (h *StatusHandler) Register(d *Dispatcher) {
	d.Register("user.status.create", h.create)
	d.Register("user.status.findById", h.findByID)
	d.Register("user.status.findByUserProfileId", h.findByUserProfileID)
	d.Register("user.status.update", h.update)
	d.Register("user.status.delete", h.delete)
	d.Register("user.status.suspend", h.suspend)
	d.Register("user.status.ban", h.ban)
	d.Register("user.status.activate", h.activate)
	d.Register("user.status.findAllSuspended", h.findAllSuspended)
	d.Register("user.status.findAllBanned", h.findAllBanned)
}

func (h *StatusHandler) create(ctx context.Context, data json.RawMessage) (any, error) {
	req, err := decode[statusdomain.CreateStatusRequest](data)
	if err != nil {
		return nil, err
	}
	return h.statuses.Create(ctx, req)
}

func (h *StatusHandler) findByID(ctx context.Context, data json.RawMessage) (any, error) {
	req, err := decode[idRequest](data)
	if err != nil {
		return nil, err
	}
	return h.statuses.FindByID(ctx, req.ID)
}

func (h *StatusHandler) findByUserProfileID(ctx context.Context, data json.RawMessage) (any, error) {
	req, err := decode[userProfileIDRequest](data)
	if err != nil {
		return nil, err
	}
	return h.statuses.FindByUserProfileID(ctx, req.UserProfileID)
}

func (h *StatusHandler) update(ctx context.Context, data json.RawMessage) (any, error) {
	req, err := decode[statusdomain.UpdateStatusRequest](data)
	if err != nil {
		return nil, err
	}
	return h.statuses.Update(ctx, req)
}

func (h *StatusHandler) delete(ctx context.Context, data json.RawMessage) (any, error) {
	req, err := decode[idRequest](data)
	if err != nil {
		return nil, err
	}
	if err := h.statuses.Delete(ctx, req.ID); err != nil {
		return nil, err
	}
	return deletedResponse(), nil
}

func (h *StatusHandler) suspend(ctx context.Context, data json.RawMessage) (any, error) {
	req, err := decode[statusdomain.SuspendRequest](data)
	if err != nil {
		return nil, err
	}
	return h.statuses.Suspend(ctx, req)
}

func (h *StatusHandler) ban(ctx context.Context, data json.RawMessage) (any, error) {
	req, err := decode[statusdomain.BanRequest](data)
	if err != nil {
		return nil, err
	}
	return h.statuses.Ban(ctx, req)
}

func (h *StatusHandler) activate(ctx context.Context, data json.RawMessage) (any, error) {
	req, err := decode[idRequest](data)
	if err != nil {
		return nil, err
	}
	return h.statuses.Activate(ctx, req.ID)
}

func (h *StatusHandler) findAllSuspended(ctx context.Context, data json.RawMessage) (any, error) {
	return h.statuses.FindAllSuspended(ctx)
}

func (h *StatusHandler) findAllBanned(ctx context.Context, data json.RawMessage) (any, error) {
	return h.statuses.FindAllBanned(ctx)
}
