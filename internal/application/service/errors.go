package service

import (
	"errors"
	"net/http"

	"github.com/sangkips/procura-api/internal/domain/domainerr"
	"github.com/sangkips/procura-api/pkg/apperror"
)

var errTenantRequired = apperror.NewBadRequestError("Tenant context required")

// translateDomainError maps pricing and ledger failures to API errors.
// Anything that is not a domain failure is returned unchanged.
func translateDomainError(err error) error {
	if err == nil {
		return nil
	}
	kind := domainerr.KindName(err)
	if kind == "" {
		return err
	}

	code := http.StatusUnprocessableEntity
	switch {
	case errors.Is(err, domainerr.ErrInsufficientStock):
		code = http.StatusConflict
	case errors.Is(err, domainerr.ErrLineNotFound):
		code = http.StatusNotFound
	}

	message := err.Error()
	var ve *domainerr.ValidationError
	if errors.As(err, &ve) && error(ve) == err {
		message = domainerr.Detail(err)
	}
	return apperror.NewKindError(code, kind, message)
}
