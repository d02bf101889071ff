package activity

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/fx"
	"golang.org/x/xerrors"

	"github.com/deeper-chain/deeper-archive/internal/api"
	"github.com/deeper-chain/deeper-archive/internal/controller"
	controllermocks "github.com/deeper-chain/deeper-archive/internal/controller/mocks"
	"github.com/deeper-chain/deeper-archive/internal/storage"
	sourcemocks "github.com/deeper-chain/deeper-archive/internal/storage/source/mocks"
	"github.com/deeper-chain/deeper-archive/internal/utils/testapp"
	"github.com/deeper-chain/deeper-archive/internal/utils/testutil"
)

type TransformerTestSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	app         testapp.TestApp
	controller  *controllermocks.MockController
	transformer *Transformer
}

func TestTransformerTestSuite(t *testing.T) {
	suite.Run(t, new(TransformerTestSuite))
}

func (s *TransformerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.controller = controllermocks.NewMockController(s.ctrl)
	s.app = testapp.New(
		s.T(),
		Module,
		fx.Provide(func() controller.Controller { return s.controller }),
		fx.Provide(func() storage.SourceStorage { return sourcemocks.NewMockSourceStorage(s.ctrl) }),
		fx.Populate(&s.transformer),
	)
}

func (s *TransformerTestSuite) TearDownTest() {
	s.app.Close()
	s.ctrl.Finish()
}

func (s *TransformerTestSuite) TestTransformer() {
	require := testutil.Require(s.T())

	batch := api.NewBatch(10, testutil.MakeBlocks(11, 5))
	var calls int32
	for i, domain := range api.FactDomains {
		inserted := int64(i + 1)
		indexer := controllermocks.NewMockIndexer(s.ctrl)
		indexer.EXPECT().
			Index(gomock.Any(), batch).
			DoAndReturn(func(ctx context.Context, actual *api.Batch) (int64, error) {
				atomic.AddInt32(&calls, 1)
				return inserted, nil
			})
		s.controller.EXPECT().Indexer(domain).Return(indexer, nil)
	}

	response, err := s.transformer.Execute(context.Background(), &TransformerRequest{
		Batch:       batch,
		Domains:     api.FactDomains,
		Parallelism: 2,
	})
	require.NoError(err)
	require.Equal(int32(len(api.FactDomains)), atomic.LoadInt32(&calls))
	require.Equal(map[api.Domain]int64{
		api.DomainBalance:    1,
		api.DomainCredit:     2,
		api.DomainDelegation: 3,
		api.DomainEvent:      4,
	}, response.Inserted)
}

func (s *TransformerTestSuite) TestTransformer_IndexerError() {
	require := testutil.Require(s.T())

	batch := api.NewBatch(10, testutil.MakeBlocks(11, 1))
	balance := controllermocks.NewMockIndexer(s.ctrl)
	balance.EXPECT().Index(gomock.Any(), batch).Return(int64(0), xerrors.Errorf("mock: %w", storage.ErrSinkWrite))
	s.controller.EXPECT().Indexer(api.DomainBalance).Return(balance, nil)

	_, err := s.transformer.Execute(context.Background(), &TransformerRequest{
		Batch:   batch,
		Domains: []api.Domain{api.DomainBalance},
	})
	require.Error(err)
	require.True(xerrors.Is(err, storage.ErrSinkWrite))
}

func (s *TransformerTestSuite) TestTransformer_NotFactDomain() {
	require := testutil.Require(s.T())

	_, err := s.transformer.Execute(context.Background(), &TransformerRequest{
		Batch:   api.NewBatch(10, testutil.MakeBlocks(11, 1)),
		Domains: []api.Domain{api.DomainBalance, api.DomainTimestamp},
	})
	require.Error(err)
	require.True(xerrors.Is(err, api.ErrNotAllowed))
}

func (s *TransformerTestSuite) TestTransformer_NoDomains() {
	require := testutil.Require(s.T())

	_, err := s.transformer.Execute(context.Background(), &TransformerRequest{
		Batch: api.NewBatch(10, testutil.MakeBlocks(11, 1)),
	})
	require.Error(err)
	require.Contains(err.Error(), "invalid activity request")
}
