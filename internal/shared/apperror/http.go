package apperror

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// HTTPError is the transport-level view of an error, ready to be written
// through the response envelope.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details any
}

// ToHTTP collapses any error into an HTTPError. AppErrors keep their code
// and status; validator errors are mapped to field messages; everything
// else becomes an opaque internal error so infra details never leak.
func ToHTTP(err error) HTTPError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return HTTPError{
			Status:  appErr.HTTPStatus,
			Code:    appErr.Code,
			Message: appErr.Message,
		}
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		mapped := MapValidationError(validationErrs)
		if errors.As(mapped, &appErr) {
			return HTTPError{
				Status:  appErr.HTTPStatus,
				Code:    appErr.Code,
				Message: appErr.Message,
			}
		}
	}

	return HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternalError,
		Message: ErrInternal.Message,
	}
}
