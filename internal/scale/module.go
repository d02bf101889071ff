package scale

import (
	"go.uber.org/fx"

	"github.com/deeper-chain/deeper-archive/internal/schema"
)

var Module = fx.Options(
	fx.Provide(func() schema.Decoder { return NewDecoder() }),
)
