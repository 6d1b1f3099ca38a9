package user

import (
	"errors"
	"strings"

	usererrors "go-welfare/internal/user/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return usererrors.ErrUserNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			if strings.Contains(pgErr.ConstraintName, "employee_id") {
				return usererrors.ErrEmployeeIDExists
			}
			return usererrors.ErrEmailExists
		case "23503":
			return usererrors.ErrUnknownDepartment
		}
	}

	return err
}
