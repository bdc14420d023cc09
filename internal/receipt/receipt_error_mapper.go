package receipt

import (
	"errors"
	"strings"

	receipterrors "go-farmops/internal/receipt/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniquePendingChangeRequest = "uq_change_requests_one_pending"

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == uniquePendingChangeRequest {
			return receipterrors.ErrChangeRequestPending
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, uniquePendingChangeRequest) {
		return receipterrors.ErrChangeRequestPending
	}

	return err
}
