package departmenterrors

import (
	"net/http"

	"go-welfare/internal/shared/apperror"
)

var (
	ErrDepartmentNotFound = apperror.New(
		apperror.CodeNotFound,
		"department not found",
		http.StatusNotFound,
	)
	ErrDepartmentNameExists = apperror.New(
		apperror.CodeConflict,
		"department name already exists",
		http.StatusConflict,
	)
	ErrDepartmentHasUsers = apperror.New(
		apperror.CodeConflict,
		"cannot delete department with users",
		http.StatusConflict,
	)
	ErrDepartmentHasRecords = apperror.New(
		apperror.CodeConflict,
		"cannot delete department with welfare records",
		http.StatusConflict,
	)
	ErrInvalidDepartmentID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid department id",
		http.StatusBadRequest,
	)
)
