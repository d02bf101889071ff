package postgres

import (
	"fmt"
	"strings"

	"golang.org/x/xerrors"
)

// BulkInsertRequest describes a multi-row INSERT ... ON CONFLICT DO NOTHING.
type BulkInsertRequest struct {
	Table   string
	Columns []string
	Rows    [][]any
	// ConflictColumns is the unique key of the table. Rows colliding on it are skipped.
	ConflictColumns []string
}

var ErrInvalidRequest = xerrors.New("invalid request")

func (r *BulkInsertRequest) Validate() error {
	if r.Table == "" || len(r.Columns) == 0 {
		return xerrors.Errorf("table and columns are required: %w", ErrInvalidRequest)
	}

	for i, row := range r.Rows {
		if len(row) != len(r.Columns) {
			return xerrors.Errorf("row %d has %d values, expected %d: %w", i, len(row), len(r.Columns), ErrInvalidRequest)
		}
	}

	return nil
}

// Chunks splits the rows into requests of at most maxRows rows each.
func (r *BulkInsertRequest) Chunks(maxRows int) []*BulkInsertRequest {
	if maxRows <= 0 {
		maxRows = max(len(r.Rows), 1)
	}

	chunks := make([]*BulkInsertRequest, 0, (len(r.Rows)+maxRows-1)/maxRows)
	for start := 0; start < len(r.Rows); start += maxRows {
		end := min(start+maxRows, len(r.Rows))
		chunks = append(chunks, &BulkInsertRequest{
			Table:           r.Table,
			Columns:         r.Columns,
			Rows:            r.Rows[start:end],
			ConflictColumns: r.ConflictColumns,
		})
	}
	return chunks
}

// SQL renders the statement with positional placeholders and the flattened arguments.
func (r *BulkInsertRequest) SQL() (string, []any) {
	var sb strings.Builder
	args := make([]any, 0, len(r.Rows)*len(r.Columns))

	fmt.Fprintf(&sb, "INSERT INTO %s (%s) VALUES ", r.Table, strings.Join(r.Columns, ", "))
	for i, row := range r.Rows {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for j, v := range row {
			if j > 0 {
				sb.WriteString(", ")
			}
			args = append(args, v)
			fmt.Fprintf(&sb, "$%d", len(args))
		}
		sb.WriteString(")")
	}

	if len(r.ConflictColumns) > 0 {
		fmt.Fprintf(&sb, " ON CONFLICT (%s) DO NOTHING", strings.Join(r.ConflictColumns, ", "))
	} else {
		sb.WriteString(" ON CONFLICT DO NOTHING")
	}

	return sb.String(), args
}
