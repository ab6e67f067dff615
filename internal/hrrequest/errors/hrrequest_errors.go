package hrrequesterrors

import (
	"net/http"

	"github.com/Arce-y-Vargas/arceyvargas-system/internal/shared/apperror"
)

var (
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"Request not found",
		http.StatusNotFound,
	)
	ErrRequestFinalized = apperror.New(
		apperror.CodeInvalidState,
		"Request is already finalized and cannot be modified",
		http.StatusBadRequest,
	)
	ErrTrackAlreadyApproved = apperror.New(
		apperror.CodeInvalidState,
		"This approval track has already signed off on the request",
		http.StatusBadRequest,
	)
	ErrConcurrentUpdate = apperror.New(
		apperror.CodeConflict,
		"Request was modified by another approver, please retry",
		http.StatusConflict,
	)
	ErrInvalidRequestType = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid request type",
		http.StatusBadRequest,
	)
	ErrMissingTargetEmployee = apperror.New(
		apperror.CodeInvalidInput,
		"A target employee is required for this request type",
		http.StatusBadRequest,
	)
	ErrIncompleteProposedData = apperror.New(
		apperror.CodeInvalidInput,
		"Proposed data is missing required fields",
		http.StatusBadRequest,
	)
)
