package watermark

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/fx"
	"golang.org/x/xerrors"

	"github.com/deeper-chain/deeper-archive/internal/api"
	"github.com/deeper-chain/deeper-archive/internal/storage/internal"
	"github.com/deeper-chain/deeper-archive/internal/storage/postgres"
	postgresmocks "github.com/deeper-chain/deeper-archive/internal/storage/postgres/mocks"
	"github.com/deeper-chain/deeper-archive/internal/utils/testapp"
	"github.com/deeper-chain/deeper-archive/internal/utils/testutil"
)

type watermarkStorageTestSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	client  *postgresmocks.MockClient
	storage WatermarkStorage
	app     testapp.TestApp
}

func TestWatermarkStorageTestSuite(t *testing.T) {
	suite.Run(t, new(watermarkStorageTestSuite))
}

func (s *watermarkStorageTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.client = postgresmocks.NewMockClient(s.ctrl)
	s.app = testapp.New(
		s.T(),
		Module,
		fx.Provide(fx.Annotated{Name: "sink", Target: func() postgres.Client { return s.client }}),
		fx.Populate(&s.storage),
	)
}

func (s *watermarkStorageTestSuite) TearDownTest() {
	s.app.Close()
	s.ctrl.Finish()
}

func (s *watermarkStorageTestSuite) TestPersistProgress() {
	require := testutil.Require(s.T())

	blockTime := testutil.MustTime("2022-03-01T02:00:00Z")
	facts := []*api.ProgressFact{
		{BlockNumber: 11, BlockTime: &blockTime},
		{BlockNumber: 12},
	}

	s.client.EXPECT().
		BulkInsert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, request *postgres.BulkInsertRequest) (int64, error) {
			require.Equal(postgres.TableTimestamp, request.Table)
			require.Equal([]string{"block_num"}, request.ConflictColumns)
			require.Equal([][]any{
				{int64(11), blockTime},
				{int64(12), nil},
			}, request.Rows)
			return 2, nil
		})

	inserted, err := s.storage.PersistProgress(context.Background(), facts)
	require.NoError(err)
	require.Equal(int64(2), inserted)
}

func (s *watermarkStorageTestSuite) TestPersistProgress_Empty() {
	require := testutil.Require(s.T())

	inserted, err := s.storage.PersistProgress(context.Background(), nil)
	require.NoError(err)
	require.Zero(inserted)
}

func (s *watermarkStorageTestSuite) TestPersistProgress_Error() {
	require := testutil.Require(s.T())

	s.client.EXPECT().
		BulkInsert(gomock.Any(), gomock.Any()).
		Return(int64(0), xerrors.New("disk full"))

	_, err := s.storage.PersistProgress(context.Background(), []*api.ProgressFact{{BlockNumber: 1}})
	require.Error(err)
	require.True(xerrors.Is(err, internal.ErrSinkWrite))
}

func (s *watermarkStorageTestSuite) TestGetWatermark() {
	require := testutil.Require(s.T())

	height := int64(120)
	blockTime := testutil.MustTime("2022-03-01T02:00:00Z")
	s.client.EXPECT().
		QueryRow(gomock.Any(), getWatermarkQuery, gomock.Nil(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, query string, args []any, dest ...any) error {
			return testutil.StaticRow{&height, &blockTime}.Scan(dest...)
		})

	watermark, err := s.storage.GetWatermark(context.Background())
	require.NoError(err)
	require.Equal(uint64(120), watermark.Height)
	require.Equal(blockTime, watermark.LastBlockTime)
	require.WithinDuration(time.Now(), watermark.UpdatedAt, time.Minute)
}

func (s *watermarkStorageTestSuite) TestGetWatermark_Empty() {
	require := testutil.Require(s.T())

	s.client.EXPECT().
		QueryRow(gomock.Any(), getWatermarkQuery, gomock.Nil(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, query string, args []any, dest ...any) error {
			return testutil.StaticRow{nil, nil}.Scan(dest...)
		})

	_, err := s.storage.GetWatermark(context.Background())
	require.True(xerrors.Is(err, internal.ErrItemNotFound))
}
