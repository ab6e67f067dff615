package employeeerrors

import (
	"net/http"

	"github.com/Arce-y-Vargas/arceyvargas-system/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrEmployeeAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"An employee with this cedula already exists",
		http.StatusConflict,
	)
	ErrInvalidCedula = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid cedula",
		http.StatusBadRequest,
	)
	ErrMissingRequiredFields = apperror.New(
		apperror.CodeInvalidInput,
		"Missing required fields",
		http.StatusBadRequest,
	)
)
