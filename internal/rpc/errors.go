package rpc

import (
	"errors"
	"net/http"

	"github.com/smallbiznis/userhub/internal/lifecycle"
	profiledomain "github.com/smallbiznis/userhub/internal/profile/domain"
	settingsdomain "github.com/smallbiznis/userhub/internal/settings/domain"
	statusdomain "github.com/smallbiznis/userhub/internal/status/domain"
	subscriptiondomain "github.com/smallbiznis/userhub/internal/subscription/domain"
)

var validationErrs = []error{
	lifecycle.ErrInvalidRequest,
	profiledomain.ErrInvalidID,
	profiledomain.ErrInvalidAuthUserID,
	settingsdomain.ErrInvalidID,
	settingsdomain.ErrInvalidUserProfileID,
	subscriptiondomain.ErrInvalidID,
	subscriptiondomain.ErrInvalidUserProfileID,
	subscriptiondomain.ErrInvalidPlanType,
	subscriptiondomain.ErrInvalidMetadata,
	statusdomain.ErrInvalidID,
	statusdomain.ErrInvalidUserProfileID,
	statusdomain.ErrInvalidReason,
}

// mapError translates a service error into an HTTP status and a stable code.
// The code is the sentinel's own message so callers can switch on it.
func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, ErrUnknownPattern):
		return http.StatusNotFound, ErrUnknownPattern.Error()
	case errors.Is(err, lifecycle.ErrNotFound):
		return http.StatusNotFound, lifecycle.ErrNotFound.Error()
	case errors.Is(err, lifecycle.ErrParentNotFound):
		return http.StatusNotFound, lifecycle.ErrParentNotFound.Error()
	case errors.Is(err, lifecycle.ErrDuplicate):
		return http.StatusConflict, lifecycle.ErrDuplicate.Error()
	case errors.Is(err, lifecycle.ErrVersionConflict):
		return http.StatusConflict, lifecycle.ErrVersionConflict.Error()
	}
	for _, sentinel := range validationErrs {
		if errors.Is(err, sentinel) {
			return http.StatusBadRequest, sentinel.Error()
		}
	}
	return http.StatusInternalServerError, "internal_error"
}
