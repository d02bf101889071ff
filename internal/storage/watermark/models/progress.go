package models

import (
	"time"

	"github.com/deeper-chain/deeper-archive/internal/api"
)

// WatermarkEntry is the aggregate read from the progress table. Both columns are NULL when the table is empty.
type WatermarkEntry struct {
	Height        *int64
	LastBlockTime *time.Time
}

var (
	ProgressColumns         = []string{"block_num", "block_time"}
	ProgressConflictColumns = []string{"block_num"}
)

func MakeProgressRow(fact *api.ProgressFact) []any {
	var blockTime any
	if fact.BlockTime != nil {
		blockTime = fact.BlockTime.UTC()
	}

	return []any{
		int64(fact.BlockNumber),
		blockTime,
	}
}

func (e *WatermarkEntry) Empty() bool {
	return e.Height == nil
}

func (e *WatermarkEntry) AsAPI(updatedAt time.Time) *api.Watermark {
	watermark := api.NewWatermark(uint64(*e.Height))
	if e.LastBlockTime != nil {
		watermark = watermark.WithLastBlockTime(e.LastBlockTime.UTC())
	}
	watermark.UpdatedAt = updatedAt
	return watermark
}
