package welfarerecorderrors

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
	ErrSomeRecordsNotFound = apperror.New(
		apperror.CodeNotFound,
		"one or more welfare records do not exist",
		http.StatusNotFound,
	)
	ErrForbiddenRecordAccess = apperror.New(
		apperror.CodeForbidden,
		"not allowed to access this welfare record",
		http.StatusForbidden,
	)
	ErrForbiddenCreateForOther = apperror.New(
		apperror.CodeForbidden,
		"cannot create a welfare record for another user",
		http.StatusForbidden,
	)
	ErrForbiddenRecordFields = apperror.New(
		apperror.CodeForbidden,
		"not allowed to change these fields",
		http.StatusForbidden,
	)
	ErrNothingToUpdate = apperror.New(
		apperror.CodeInvalidInput,
		"nothing to update",
		http.StatusBadRequest,
	)
	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidRecordID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid welfare record id",
		http.StatusBadRequest,
	)
	ErrUnknownItemType = apperror.New(
		apperror.CodeInvalidInput,
		"item type does not exist",
		http.StatusBadRequest,
	)
	ErrUnknownUser = apperror.New(
		apperror.CodeInvalidInput,
		"user does not exist",
		http.StatusBadRequest,
	)
	ErrUnknownDepartment = apperror.New(
		apperror.CodeInvalidInput,
		"department does not exist",
		http.StatusBadRequest,
	)
)
