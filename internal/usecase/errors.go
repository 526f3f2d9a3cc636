package usecase

import (
	stderrors "errors"
	"net/http"

	"agrotrust/internal/domain/lifecycle"
	"agrotrust/pkg/errors"
)

// mapDomainError turns lifecycle sentinels into AppErrors. Errors that are
// already AppErrors pass through unchanged.
func mapDomainError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return err
	}

	var verr *lifecycle.ValidationError
	switch {
	case stderrors.As(err, &verr):
		return errors.Validation("Some fields are missing or invalid", verr.Fields, err)
	case stderrors.Is(err, lifecycle.ErrFarmerNotFound):
		return errors.NotFound("Farmer", err)
	case stderrors.Is(err, lifecycle.ErrDuplicateFarmer):
		return errors.Conflict("A farmer with this phone number or NIN is already registered", err)
	case stderrors.Is(err, lifecycle.ErrActorNotAllowed):
		return errors.Forbidden(err.Error(), err)
	case stderrors.Is(err, lifecycle.ErrInvalidTransition):
		return errors.New("INVALID_TRANSITION", err.Error(), http.StatusConflict, err)
	case stderrors.Is(err, lifecycle.ErrWizardStep):
		return errors.New("INVALID_STEP", err.Error(), http.StatusConflict, err)
	}
	return errors.Internal("Unexpected error", err)
}
