package rpc

import (
	"context"
	"encoding/json"

	"github.com/bwmarrin/snowflake"
	subscriptiondomain "github.com/smallbiznis/userhub/internal/subscription/domain"
)

// SubscriptionHandler serves the user.subscription.* patterns.
type SubscriptionHandler struct {
	subscriptions subscriptiondomain.Service
}

func NewSubscriptionHandler(subscriptions subscriptiondomain.Service) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions}
}

func (h *SubscriptionHandler) Register(d *Dispatcher) {
	d.Register("user.subscription.create", h.create)
	d.Register("user.subscription.findById", h.findByID)
	d.Register("user.subscription.findActiveByUserProfileId", h.findActiveByUserProfileID)
	d.Register("user.subscription.findAllByUserProfileId", h.findAllByUserProfileID)
	d.Register("user.subscription.update", h.update)
	d.Register("user.subscription.delete", h.delete)
	d.Register("user.subscription.cancel", h.cancel)
	d.Register("user.subscription.suspend", h.suspend)
	d.Register("user.subscription.activate", h.activate)
	d.Register("user.subscription.checkExpiration", h.checkExpiration)
	d.Register("user.subscription.findExpiringSoon", h.findExpiringSoon)
}

func (h *SubscriptionHandler) create(ctx context.Context, data json.RawMessage) (any, error) {
	req, err := decode[subscriptiondomain.CreateSubscriptionRequest](data)
	if err != nil {
		return nil, err
	}
	return h.subscriptions.Create(ctx, req)
}

func (h *SubscriptionHandler) findByID(ctx context.Context, data json.RawMessage) (any, error) {
	req, err := decode[idRequest](data)
	if err != nil {
		return nil, err
	}
	return h.subscriptions.FindByID(ctx, req.ID)
}

func (h *SubscriptionHandler) findActiveByUserProfileID(ctx context.Context, data json.RawMessage) (any, error) {
	req, err := decode[userProfileIDRequest](data)
	if err != nil {
		return nil, err
	}
	sub, err := h.subscriptions.FindActiveByUserProfileID(ctx, req.UserProfileID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		// No active subscription is a valid answer, not an error.
		return nil, nil
	}
	return sub, nil
}

func (h *SubscriptionHandler) findAllByUserProfileID(ctx context.Context, data json.RawMessage) (any, error) {
	req, err := decode[userProfileIDRequest](data)
	if err != nil {
		return nil, err
	}
	return h.subscriptions.FindAllByUserProfileID(ctx, req.UserProfileID)
}

func (h *SubscriptionHandler) update(ctx context.Context, data json.RawMessage) (any, error) {
	req, err := decode[subscriptiondomain.UpdateSubscriptionRequest](data)
	if err != nil {
		return nil, err
	}
	return h.subscriptions.Update(ctx, req)
}

func (h *SubscriptionHandler) delete(ctx context.Context, data json.RawMessage) (any, error) {
	req, err := decode[idRequest](data)
	if err != nil {
		return nil, err
	}
	if err := h.subscriptions.Delete(ctx, req.ID); err != nil {
		return nil, err
	}
	return deletedResponse(), nil
}

func (h *SubscriptionHandler) cancel(ctx context.Context, data json.RawMessage) (any, error) {
	req, err := decode[idRequest](data)
	if err != nil {
		return nil, err
	}
	return h.subscriptions.Cancel(ctx, req.ID)
}

func (h *SubscriptionHandler) suspend(ctx context.Context, data json.RawMessage) (any, error) {
	req, err := decode[struct {
		ID     snowflake.ID `json:"id"`
		Reason string       `json:"reason"`
	}](data)
	if err != nil {
		return nil, err
	}
	return h.subscriptions.Suspend(ctx, req.ID, req.Reason)
}

func (h *SubscriptionHandler) activate(ctx context.Context, data json.RawMessage) (any, error) {
	req, err := decode[idRequest](data)
	if err != nil {
		return nil, err
	}
	return h.subscriptions.Activate(ctx, req.ID)
}

func (h *SubscriptionHandler) checkExpiration(ctx context.Context, data json.RawMessage) (any, error) {
	req, err := decode[idRequest](data)
	if err != nil {
		return nil, err
	}
	expired, err := h.subscriptions.CheckExpiration(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	return map[string]any{"id": req.ID, "isExpired": expired}, nil
}

func (h *SubscriptionHandler) findExpiringSoon(ctx context.Context, data json.RawMessage) (any, error) {
	// days is a pointer so an explicit 0 stays distinct from "not sent".
	req, err := decode[struct {
		Days *int `json:"days"`
	}](data)
	if err != nil {
		return nil, err
	}
	return h.subscriptions.FindExpiringSoon(ctx, req.Days)
}
