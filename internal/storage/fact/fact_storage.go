package fact

import (
	"context"

	"github.com/uber-go/tally/v4"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/deeper-chain/deeper-archive/internal/api"
	"github.com/deeper-chain/deeper-archive/internal/config"
	"github.com/deeper-chain/deeper-archive/internal/storage/fact/models"
	"github.com/deeper-chain/deeper-archive/internal/storage/internal"
	"github.com/deeper-chain/deeper-archive/internal/storage/postgres"
	"github.com/deeper-chain/deeper-archive/internal/utils/fxparams"
	"github.com/deeper-chain/deeper-archive/internal/utils/instrument"
	"github.com/deeper-chain/deeper-archive/internal/utils/log"
)

type (
	// FactStorage writes the per-domain fact tables. Every method issues one bulk insert
	// for the whole batch, skips rows that already exist and returns the number of inserted rows.
	FactStorage interface {
		PersistBalances(ctx context.Context, facts []*api.BalanceFact) (int64, error)
		PersistCredits(ctx context.Context, facts []*api.CreditFact) (int64, error)
		PersistDelegations(ctx context.Context, facts []*api.DelegationFact) (int64, error)
		PersistEvents(ctx context.Context, facts []*api.EventFact) (int64, error)
	}

	FactStorageParams struct {
		fx.In
		fxparams.Params
		Client postgres.Client `name:"sink"`
	}

	factStorageImpl struct {
		client  postgres.Client
		config  *config.Config
		logger  *zap.Logger
		metrics *factStorageMetrics
	}

	factStorageMetrics struct {
		persistBalances    instrument.Call
		persistCredits     instrument.Call
		persistDelegations instrument.Call
		persistEvents      instrument.Call
	}
)

var _ FactStorage = (*factStorageImpl)(nil)

func NewFactStorage(params FactStorageParams) (FactStorage, error) {
	return &factStorageImpl{
		client:  params.Client,
		config:  params.Config,
		logger:  log.WithPackage(params.Logger),
		metrics: newFactStorageMetrics(params.Metrics),
	}, nil
}

func newFactStorageMetrics(scope tally.Scope) *factStorageMetrics {
	scope = scope.SubScope("fact_storage")
	return &factStorageMetrics{
		persistBalances:    instrument.NewCall(scope, "persist_balances"),
		persistCredits:     instrument.NewCall(scope, "persist_credits"),
		persistDelegations: instrument.NewCall(scope, "persist_delegations"),
		persistEvents:      instrument.NewCall(scope, "persist_events"),
	}
}

func (s *factStorageImpl) prefix() uint16 {
	return s.config.Chain.SS58Prefix
}

func (s *factStorageImpl) PersistBalances(ctx context.Context, facts []*api.BalanceFact) (int64, error) {
	rows := make([][]any, len(facts))
	for i, fact := range facts {
		rows[i] = models.MakeBalanceRow(fact, s.prefix())
	}

	return s.persist(ctx, s.metrics.persistBalances, &postgres.BulkInsertRequest{
		Table:           postgres.TableBalance,
		Columns:         models.BalanceColumns,
		Rows:            rows,
		ConflictColumns: models.BalanceConflictColumns,
	})
}

func (s *factStorageImpl) PersistCredits(ctx context.Context, facts []*api.CreditFact) (int64, error) {
	rows := make([][]any, len(facts))
	for i, fact := range facts {
		rows[i] = models.MakeCreditRow(fact, s.prefix())
	}

	return s.persist(ctx, s.metrics.persistCredits, &postgres.BulkInsertRequest{
		Table:           postgres.TableCredit,
		Columns:         models.CreditColumns,
		Rows:            rows,
		ConflictColumns: models.CreditConflictColumns,
	})
}

func (s *factStorageImpl) PersistDelegations(ctx context.Context, facts []*api.DelegationFact) (int64, error) {
	rows := make([][]any, len(facts))
	for i, fact := range facts {
		row, err := models.MakeDelegationRow(fact, s.prefix())
		if err != nil {
			return 0, xerrors.Errorf("failed to make delegation row: %v: %w", err.Error(), internal.ErrSinkWrite)
		}
		rows[i] = row
	}

	return s.persist(ctx, s.metrics.persistDelegations, &postgres.BulkInsertRequest{
		Table:           postgres.TableDelegation,
		Columns:         models.DelegationColumns,
		Rows:            rows,
		ConflictColumns: models.DelegationConflictColumns,
	})
}

func (s *factStorageImpl) PersistEvents(ctx context.Context, facts []*api.EventFact) (int64, error) {
	rows := make([][]any, len(facts))
	for i, fact := range facts {
		row, err := models.MakeEventRow(fact, s.prefix())
		if err != nil {
			return 0, xerrors.Errorf("failed to make event row: %v: %w", err.Error(), internal.ErrSinkWrite)
		}
		rows[i] = row
	}

	return s.persist(ctx, s.metrics.persistEvents, &postgres.BulkInsertRequest{
		Table:           postgres.TableEvent,
		Columns:         models.EventColumns,
		Rows:            rows,
		ConflictColumns: models.EventConflictColumns,
	})
}

func (s *factStorageImpl) persist(ctx context.Context, call instrument.Call, request *postgres.BulkInsertRequest) (int64, error) {
	if len(request.Rows) == 0 {
		return 0, nil
	}

	var inserted int64
	err := call.Instrument(ctx, func(ctx context.Context) error {
		var err error
		inserted, err = s.client.BulkInsert(ctx, request)
		return err
	})
	if err != nil {
		return inserted, xerrors.Errorf("failed to persist %d rows into %v: %v: %w", len(request.Rows), request.Table, err.Error(), internal.ErrSinkWrite)
	}

	return inserted, nil
}
