package v1

import (
	"errors"
	"net/http"

	"samkitchen-backend/internal/domain"
	"samkitchen-backend/internal/gateway"
	"samkitchen-backend/pkg/logger"
	"samkitchen-backend/pkg/utils"
)

// actorFrom pulls the actor the auth middleware stored. Handlers behind
// AuthMiddleware can rely on ok being true.
func actorFrom(r *http.Request) (domain.ActorContext, bool) {
	actor, ok := r.Context().Value(domain.ActorContextKey).(domain.ActorContext)
	return actor, ok
}

// writeDomainError maps core errors onto HTTP statuses in one place so all
// handlers report failures the same way.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		unavailable *domain.UnavailableItemError
		transition  *domain.InvalidStateTransitionError
		mismatch    *domain.AmountMismatchError
	)

	switch {
	case errors.As(err, &unavailable):
		utils.WriteError(w, http.StatusBadRequest, unavailable.Error())
	case errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, gateway.ErrUnsupportedMethod):
		utils.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		utils.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		utils.WriteError(w, http.StatusForbidden, "forbidden")
	case errors.As(err, &transition):
		utils.WriteError(w, http.StatusConflict, transition.Error())
	case errors.Is(err, domain.ErrAlreadyAssigned),
		errors.Is(err, domain.ErrAlreadyPaid),
		errors.Is(err, domain.ErrAlreadyCashedOut),
		errors.Is(err, domain.ErrStaleState):
		utils.WriteError(w, http.StatusConflict, err.Error())
	case errors.As(err, &mismatch):
		utils.WriteError(w, http.StatusUnprocessableEntity, mismatch.Error())
	case errors.Is(err, domain.ErrRiderUnavailable):
		utils.WriteError(w, http.StatusNotFound, err.Error())
	default:
		logger.WithContext(r.Context()).Error().Err(err).
			Str("path", r.URL.Path).
			Msg("request failed")
		utils.WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}
