package overtimeerrors

import (
	"net/http"

	"github.com/Arce-y-Vargas/arceyvargas-system/internal/shared/apperror"
)

var (
	ErrOvertimeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Overtime request not found",
		http.StatusNotFound,
	)
	ErrAlreadyReviewed = apperror.New(
		apperror.CodeInvalidState,
		"Overtime request has already been reviewed",
		http.StatusBadRequest,
	)
	ErrConcurrentReview = apperror.New(
		apperror.CodeConflict,
		"Overtime request was reviewed by someone else, please refresh",
		http.StatusConflict,
	)
	ErrInvalidTimeRange = apperror.New(
		apperror.CodeInvalidInput,
		"End time must be after start time",
		http.StatusBadRequest,
	)
	ErrHoursOutOfRange = apperror.New(
		apperror.CodeInvalidInput,
		"Overtime hours must be greater than zero and at most twelve",
		http.StatusBadRequest,
	)
	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"Date must use the YYYY-MM-DD format",
		http.StatusBadRequest,
	)
	ErrAccrualFailed = apperror.New(
		apperror.CodeApplyFailed,
		"Failed to record approved hours in the weekly accrual",
		http.StatusInternalServerError,
	)
)
