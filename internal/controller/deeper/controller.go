package deeper

import (
	"go.uber.org/fx"
	"golang.org/x/xerrors"

	"github.com/deeper-chain/deeper-archive/internal/api"
	"github.com/deeper-chain/deeper-archive/internal/controller/internal"
)

type (
	controller struct {
		watermarker       internal.Watermarker
		cronTasks         []internal.CronTask
		balanceIndexer    internal.Indexer
		creditIndexer     internal.Indexer
		delegationIndexer internal.Indexer
		eventIndexer      internal.Indexer
		timestampIndexer  internal.Indexer
	}

	ControllerParams struct {
		fx.In
		Watermarker       internal.Watermarker
		CronTasks         []internal.CronTask `group:"deeper"`
		BalanceIndexer    internal.Indexer    `name:"deeper/balance"`
		CreditIndexer     internal.Indexer    `name:"deeper/credit"`
		DelegationIndexer internal.Indexer    `name:"deeper/delegation"`
		EventIndexer      internal.Indexer    `name:"deeper/event"`
		TimestampIndexer  internal.Indexer    `name:"deeper/timestamp"`
	}
)

func NewController(params ControllerParams) internal.Controller {
	return &controller{
		watermarker:       params.Watermarker,
		cronTasks:         params.CronTasks,
		balanceIndexer:    params.BalanceIndexer,
		creditIndexer:     params.CreditIndexer,
		delegationIndexer: params.DelegationIndexer,
		eventIndexer:      params.EventIndexer,
		timestampIndexer:  params.TimestampIndexer,
	}
}

func (c *controller) Watermarker() internal.Watermarker {
	return c.watermarker
}

func (c *controller) Indexer(domain api.Domain) (internal.Indexer, error) {
	switch domain {
	case api.DomainBalance:
		return c.balanceIndexer, nil
	case api.DomainCredit:
		return c.creditIndexer, nil
	case api.DomainDelegation:
		return c.delegationIndexer, nil
	case api.DomainEvent:
		return c.eventIndexer, nil
	case api.DomainTimestamp:
		return c.timestampIndexer, nil
	default:
		return nil, xerrors.Errorf("domain %v: %w", domain, api.ErrNotImplemented)
	}
}

func (c *controller) CronTasks() []internal.CronTask {
	return c.cronTasks
}
