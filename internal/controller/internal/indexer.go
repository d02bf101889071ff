package internal

import (
	"context"

	"github.com/deeper-chain/deeper-archive/internal/api"
)

type (
	// Indexer extracts the facts of one domain from a batch and persists them.
	// It returns the number of rows inserted; rows already present are not counted.
	Indexer interface {
		Index(ctx context.Context, batch *api.Batch) (int64, error)
	}
)
