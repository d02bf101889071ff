package postgres

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/xerrors"

	"github.com/deeper-chain/deeper-archive/internal/storage/internal"
	"github.com/deeper-chain/deeper-archive/internal/utils/retry"
	"github.com/deeper-chain/deeper-archive/internal/utils/testutil"
)

var _ Row = testutil.StaticRow(nil)

func TestBulkInsertRequest_SQL(t *testing.T) {
	require := testutil.Require(t)

	request := &BulkInsertRequest{
		Table:           TableCredit,
		Columns:         []string{"block_num", "address", "credit"},
		Rows:            [][]any{{uint64(1), "a", uint64(100)}, {uint64(1), "b", uint64(200)}},
		ConflictColumns: []string{"block_num", "address"},
	}
	require.NoError(request.Validate())

	query, args := request.SQL()
	require.Equal(
		"INSERT INTO block_credit (block_num, address, credit) VALUES ($1, $2, $3), ($4, $5, $6) ON CONFLICT (block_num, address) DO NOTHING",
		query,
	)
	require.Equal([]any{uint64(1), "a", uint64(100), uint64(1), "b", uint64(200)}, args)
}

func TestBulkInsertRequest_SQLWithoutConflictColumns(t *testing.T) {
	require := testutil.Require(t)

	request := &BulkInsertRequest{
		Table:   TableTimestamp,
		Columns: []string{"block_num", "block_time"},
		Rows:    [][]any{{uint64(7), nil}},
	}
	query, args := request.SQL()
	require.Equal("INSERT INTO block_timestamp (block_num, block_time) VALUES ($1, $2) ON CONFLICT DO NOTHING", query)
	require.Len(args, 2)
}

func TestBulkInsertRequest_Chunks(t *testing.T) {
	require := testutil.Require(t)

	rows := make([][]any, 7)
	for i := range rows {
		rows[i] = []any{i}
	}
	request := &BulkInsertRequest{Table: "t", Columns: []string{"c"}, Rows: rows}

	chunks := request.Chunks(3)
	require.Len(chunks, 3)
	require.Len(chunks[0].Rows, 3)
	require.Len(chunks[1].Rows, 3)
	require.Len(chunks[2].Rows, 1)
	require.Equal([]any{6}, chunks[2].Rows[0])

	require.Len(request.Chunks(0), 1)
	require.Empty((&BulkInsertRequest{Table: "t", Columns: []string{"c"}}).Chunks(0))
}

func TestBulkInsertRequest_Validate(t *testing.T) {
	require := testutil.Require(t)

	err := (&BulkInsertRequest{Table: "t", Columns: []string{"a", "b"}, Rows: [][]any{{1}}}).Validate()
	require.True(xerrors.Is(err, ErrInvalidRequest))

	err = (&BulkInsertRequest{Columns: []string{"a"}}).Validate()
	require.True(xerrors.Is(err, ErrInvalidRequest))
}

func TestMapError(t *testing.T) {
	require := testutil.Require(t)

	require.NoError(mapError(nil))

	err := mapError(&pgconn.PgError{Code: "08006"})
	var retryable *retry.RetryableError
	require.True(xerrors.As(err, &retryable))

	err = mapError(&pgconn.PgError{Code: "40P01"})
	require.True(xerrors.As(err, &retryable))

	err = mapError(&pgconn.PgError{Code: "23505"})
	require.False(xerrors.As(err, &retryable))

	err = mapError(context.Canceled)
	require.True(xerrors.Is(err, internal.ErrRequestCanceled))
}
