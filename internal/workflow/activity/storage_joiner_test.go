package activity

import (
	"context"
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

type StorageJoinerTestSuite struct {
	suite.Suite
	ctrl          *gomock.Controller
	app           testapp.TestApp
	source        *sourcemocks.MockSourceStorage
	storageJoiner *StorageJoiner
}

func TestStorageJoinerTestSuite(t *testing.T) {
	suite.Run(t, new(StorageJoinerTestSuite))
}

func (s *StorageJoinerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.source = sourcemocks.NewMockSourceStorage(s.ctrl)
	s.app = testapp.New(
		s.T(),
		Module,
		fx.Provide(func() controller.Controller { return controllermocks.NewMockController(s.ctrl) }),
		fx.Provide(func() storage.SourceStorage { return s.source }),
		fx.Populate(&s.storageJoiner),
	)
}

func (s *StorageJoinerTestSuite) TearDownTest() {
	s.app.Close()
	s.ctrl.Finish()
}

func (s *StorageJoinerTestSuite) TestStorageJoiner() {
	require := testutil.Require(s.T())

	key := []byte{0x01, 0x02}
	batch := api.NewBatch(10, testutil.MakeBlocks(11, 2))
	s.source.EXPECT().
		GetStorage(gomock.Any(), uint64(11), uint64(12)).
		Return([]*api.StorageEntry{
			testutil.MakeStorageEntry(11, key, "storage/system_account.hex"),
			{BlockNumber: 12, Key: key},
		}, nil)

	response, err := s.storageJoiner.Execute(context.Background(), &StorageJoinerRequest{Batch: batch})
	require.NoError(err)
	require.Equal(2, response.Entries)
	require.False(response.Degraded)

	_, ok := batch.Lookup(11, key)
	require.True(ok)
	_, ok = batch.Lookup(12, key)
	require.False(ok)
}

func (s *StorageJoinerTestSuite) TestStorageJoiner_EmptyBatch() {
	require := testutil.Require(s.T())

	response, err := s.storageJoiner.Execute(context.Background(), &StorageJoinerRequest{Batch: api.NewBatch(10, nil)})
	require.NoError(err)
	require.Equal(0, response.Entries)
}

func (s *StorageJoinerTestSuite) TestStorageJoiner_Degraded() {
	require := testutil.Require(s.T())

	batch := api.NewBatch(10, testutil.MakeBlocks(11, 2))
	s.source.EXPECT().
		GetStorage(gomock.Any(), uint64(11), uint64(12)).
		Return(nil, xerrors.Errorf("mock: %w", storage.ErrSourceFetch))

	response, err := s.storageJoiner.Execute(context.Background(), &StorageJoinerRequest{Batch: batch})
	require.NoError(err)
	require.True(response.Degraded)
	require.Equal(0, batch.StorageSize())
}

func (s *StorageJoinerTestSuite) TestStorageJoiner_Canceled() {
	require := testutil.Require(s.T())

	ctx, cancel := context.WithCancel(context.Background())
	batch := api.NewBatch(10, testutil.MakeBlocks(11, 1))
	s.source.EXPECT().
		GetStorage(gomock.Any(), uint64(11), uint64(11)).
		DoAndReturn(func(ctx context.Context, from uint64, to uint64) ([]*api.StorageEntry, error) {
			cancel()
			return nil, xerrors.Errorf("mock: %w", storage.ErrRequestCanceled)
		})

	_, err := s.storageJoiner.Execute(ctx, &StorageJoinerRequest{Batch: batch})
	require.Error(err)
	require.True(xerrors.Is(err, context.Canceled))
}
