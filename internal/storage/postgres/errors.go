package postgres

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/xerrors"

	"github.com/deeper-chain/deeper-archive/internal/storage/internal"
	"github.com/deeper-chain/deeper-archive/internal/utils/retry"
)

const (
	// SQLSTATE class 08: connection exception.
	connectionExceptionClass = "08"
	serializationFailure     = "40001"
	deadlockDetected         = "40P01"
	tooManyConnections       = "53300"
	adminShutdown            = "57P01"
	cannotConnectNow         = "57P03"
)

// mapError marks transient failures as retryable and maps cancellations to ErrRequestCanceled.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	if xerrors.Is(err, context.Canceled) || xerrors.Is(err, context.DeadlineExceeded) {
		return xerrors.Errorf("%v: %w", err.Error(), internal.ErrRequestCanceled)
	}

	if IsRetryable(err) {
		return retry.Retryable(err)
	}

	return err
}

// IsRetryable reports whether the statement may succeed if it is sent again.
func IsRetryable(err error) bool {
	if pgconn.SafeToRetry(err) || pgconn.Timeout(err) {
		return true
	}

	var pgErr *pgconn.PgError
	if xerrors.As(err, &pgErr) {
		if strings.HasPrefix(pgErr.Code, connectionExceptionClass) {
			return true
		}

		switch pgErr.Code {
		case serializationFailure, deadlockDetected, tooManyConnections, adminShutdown, cannotConnectNow:
			return true
		}
		return false
	}

	var connectErr *pgconn.ConnectError
	return xerrors.As(err, &connectErr)
}
