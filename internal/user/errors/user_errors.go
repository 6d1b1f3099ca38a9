package usererrors

import (
	"net/http"

	"go-welfare/internal/shared/apperror"
)

var (
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"user not found",
		http.StatusNotFound,
	)
	ErrEmailExists = apperror.New(
		apperror.CodeConflict,
		"email already registered",
		http.StatusConflict,
	)
	ErrEmployeeIDExists = apperror.New(
		apperror.CodeConflict,
		"employee id already registered",
		http.StatusConflict,
	)
	ErrUserHasRecords = apperror.New(
		apperror.CodeConflict,
		"cannot delete user with welfare records",
		http.StatusConflict,
	)
	ErrUserHasProcessedLogs = apperror.New(
		apperror.CodeConflict,
		"cannot delete user who has processed status changes",
		http.StatusConflict,
	)
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrUnknownDepartment = apperror.New(
		apperror.CodeInvalidInput,
		"department does not exist",
		http.StatusBadRequest,
	)
	ErrForbiddenUserAccess = apperror.New(
		apperror.CodeForbidden,
		"not allowed to access this user",
		http.StatusForbidden,
	)
	ErrForbiddenUserFields = apperror.New(
		apperror.CodeForbidden,
		"only administrators can change role or department",
		http.StatusForbidden,
	)
)
