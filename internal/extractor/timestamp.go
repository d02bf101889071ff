package extractor

import (
	"time"

	"github.com/deeper-chain/deeper-archive/internal/chain"
	"github.com/deeper-chain/deeper-archive/internal/extrinsic"
	"github.com/deeper-chain/deeper-archive/internal/value"
)

const (
	timestampCall = "set"
)

// BlockTimestamp reads the block time set by the timestamp inherent, truncated to seconds.
func BlockTimestamp(ops []*extrinsic.Operation) (time.Time, bool) {
	for _, op := range ops {
		if !op.Is(chain.PalletTimestamp, timestampCall) || len(op.Args) == 0 {
			continue
		}

		ms, err := value.AsUint64(op.Args[0])
		if err != nil {
			continue
		}
		return time.Unix(int64(ms/1000), 0).UTC(), true
	}
	return time.Time{}, false
}
