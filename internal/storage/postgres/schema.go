package postgres

import (
	"context"

	"golang.org/x/xerrors"
)

const (
	TableBalance    = "block_balance"
	TableCredit     = "block_credit"
	TableDelegation = "block_delegation"
	TableEvent      = "block_event"
	TableTimestamp  = "block_timestamp"
)

// sinkSchema creates the fact tables. Every table has a unique key so that re-running a batch is a no-op.
var sinkSchema = []string{
	`CREATE TABLE IF NOT EXISTS block_balance (
		block_num   BIGINT         NOT NULL,
		address     TEXT           NOT NULL,
		nonce       BIGINT         NOT NULL,
		free        NUMERIC(39, 0) NOT NULL,
		reserved    NUMERIC(39, 0) NOT NULL,
		misc_frozen NUMERIC(39, 0) NOT NULL,
		fee_frozen  NUMERIC(39, 0) NOT NULL,
		UNIQUE (block_num, address)
	)`,
	`CREATE TABLE IF NOT EXISTS block_credit (
		block_num BIGINT NOT NULL,
		address   TEXT   NOT NULL,
		credit    BIGINT NOT NULL,
		UNIQUE (block_num, address)
	)`,
	`CREATE TABLE IF NOT EXISTS block_delegation (
		block_num  BIGINT NOT NULL,
		delegator  TEXT   NOT NULL,
		validators JSONB  NOT NULL,
		UNIQUE (block_num, delegator)
	)`,
	`CREATE TABLE IF NOT EXISTS block_event (
		block_num   BIGINT NOT NULL,
		event_index BIGINT NOT NULL,
		pallet      TEXT   NOT NULL,
		event       TEXT   NOT NULL,
		payload     JSONB  NOT NULL,
		UNIQUE (block_num, event_index)
	)`,
	`CREATE TABLE IF NOT EXISTS block_timestamp (
		block_num  BIGINT PRIMARY KEY,
		block_time TIMESTAMPTZ
	)`,
}

// EnsureSchema creates the fact tables if they do not exist.
func EnsureSchema(ctx context.Context, client Client) error {
	for _, statement := range sinkSchema {
		if _, err := client.Exec(ctx, statement); err != nil {
			return xerrors.Errorf("failed to ensure sink schema: %w", err)
		}
	}
	return nil
}
