package department

import (
	"errors"

	departmenterrors "go-welfare/internal/department/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return departmenterrors.ErrDepartmentNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return departmenterrors.ErrDepartmentNameExists
		case "23503":
			return departmenterrors.ErrDepartmentHasRecords
		}
	}

	return err
}
