package utils

import (
	"go.uber.org/fx"

	"github.com/deeper-chain/deeper-archive/internal/utils/tally"
)

var Module = fx.Options(
	tally.Module,
)
