package statuslogerrors

import (
	"net/http"

	"go-welfare/internal/shared/apperror"
)

var (
	ErrRecordNotFound = apperror.New(
		apperror.CodeNotFound,
		"welfare record not found",
		http.StatusNotFound,
	)
	ErrForbiddenRecordAccess = apperror.New(
		apperror.CodeForbidden,
		"not allowed to access this welfare record",
		http.StatusForbidden,
	)
	ErrInvalidRecordID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid welfare record id",
		http.StatusBadRequest,
	)
)
