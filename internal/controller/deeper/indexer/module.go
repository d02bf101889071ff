package indexer

import (
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(fx.Annotated{
		Name:   "deeper/balance",
		Target: NewBalanceIndexer,
	}),
	fx.Provide(fx.Annotated{
		Name:   "deeper/credit",
		Target: NewCreditIndexer,
	}),
	fx.Provide(fx.Annotated{
		Name:   "deeper/delegation",
		Target: NewDelegationIndexer,
	}),
	fx.Provide(fx.Annotated{
		Name:   "deeper/event",
		Target: NewEventIndexer,
	}),
	fx.Provide(fx.Annotated{
		Name:   "deeper/timestamp",
		Target: NewTimestampIndexer,
	}),
)
