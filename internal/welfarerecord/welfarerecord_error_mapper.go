package welfarerecord

import (
	"errors"
	"strings"

	welfarerecorderrors "go-welfare/internal/welfarerecord/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return welfarerecorderrors.ErrRecordNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		switch {
		case strings.Contains(pgErr.ConstraintName, "item_type"):
			return welfarerecorderrors.ErrUnknownItemType
		case strings.Contains(pgErr.ConstraintName, "department"):
			return welfarerecorderrors.ErrUnknownDepartment
		case strings.Contains(pgErr.ConstraintName, "user"):
			return welfarerecorderrors.ErrUnknownUser
		}
	}

	return err
}
