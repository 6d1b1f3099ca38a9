package itemtype

import (
	"errors"

	itemtypeerrors "go-welfare/internal/itemtype/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return itemtypeerrors.ErrItemTypeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return itemtypeerrors.ErrItemTypeNameExists
		case "23503":
			return itemtypeerrors.ErrItemTypeHasRecords
		}
	}

	return err
}
