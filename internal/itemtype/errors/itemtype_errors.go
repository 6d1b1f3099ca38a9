package itemtypeerrors

import (
	"net/http"

	"go-welfare/internal/shared/apperror"
)

var (
	ErrItemTypeNotFound = apperror.New(
		apperror.CodeNotFound,
		"item type not found",
		http.StatusNotFound,
	)
	ErrItemTypeNameExists = apperror.New(
		apperror.CodeConflict,
		"item type name already exists",
		http.StatusConflict,
	)
	ErrItemTypeHasRecords = apperror.New(
		apperror.CodeConflict,
		"cannot delete item type with welfare records",
		http.StatusConflict,
	)
	ErrInvalidItemTypeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid item type id",
		http.StatusBadRequest,
	)
)
