package crontask

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
	"github.com/uber-go/tally/v4"
	"go.uber.org/fx"
	"golang.org/x/xerrors"

	"github.com/deeper-chain/deeper-archive/internal/api"
	"github.com/deeper-chain/deeper-archive/internal/controller/internal"
	controllermocks "github.com/deeper-chain/deeper-archive/internal/controller/mocks"
	"github.com/deeper-chain/deeper-archive/internal/storage"
	sourcemocks "github.com/deeper-chain/deeper-archive/internal/storage/source/mocks"
	"github.com/deeper-chain/deeper-archive/internal/utils/testapp"
	"github.com/deeper-chain/deeper-archive/internal/utils/testutil"
)

type SLATaskTestSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	app         testapp.TestApp
	watermarker *controllermocks.MockWatermarker
	source      *sourcemocks.MockSourceStorage
	scope       tally.TestScope
	task        *slaTask
	now         time.Time
}

func TestSLATaskTestSuite(t *testing.T) {
	suite.Run(t, new(SLATaskTestSuite))
}

func (s *SLATaskTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.watermarker = controllermocks.NewMockWatermarker(s.ctrl)
	s.source = sourcemocks.NewMockSourceStorage(s.ctrl)

	var task internal.CronTask
	var scope tally.Scope
	s.app = testapp.New(
		s.T(),
		fx.Provide(func() internal.Watermarker { return s.watermarker }),
		fx.Provide(func() storage.SourceStorage { return s.source }),
		fx.Provide(NewSLATask),
		fx.Populate(&task),
		fx.Populate(&scope),
	)

	s.scope = scope.(tally.TestScope)
	s.task = task.(*slaTask)
	s.now = testutil.MustTime("2022-04-07T14:00:00Z")
	s.task.now = func() time.Time { return s.now }
}

func (s *SLATaskTestSuite) TearDownTest() {
	s.app.Close()
	s.ctrl.Finish()
}

func (s *SLATaskTestSuite) TestTaskProperties() {
	require := testutil.Require(s.T())
	require.Equal("sla", s.task.Name())
	require.Equal(s.app.Config().Cron.SLASpec, s.task.Spec())
	require.Equal(int64(1), s.task.Parallelism())
	require.True(s.task.Enabled())
	require.Zero(s.task.DelayStartDuration())
}

func (s *SLATaskTestSuite) TestWithinSLA() {
	require := testutil.Require(s.T())

	s.watermarker.EXPECT().Get(gomock.Any()).
		Return(api.NewWatermark(1000).WithLastBlockTime(s.now.Add(-time.Minute)), nil)
	s.source.EXPECT().GetLatestBlock(gomock.Any()).Return(uint64(1010), nil)

	require.NoError(s.task.Run(context.Background()))
	require.Equal(int64(1), s.slaCounter(blockHeightDeltaMetric, resultTypeSuccess))
	require.Equal(int64(0), s.slaCounter(blockHeightDeltaMetric, resultTypeError))
	require.Equal(int64(1), s.slaCounter(timeSinceLastBlockMetric, resultTypeSuccess))
	require.Equal(float64(10), s.gauge(blockHeightDeltaMetric))
}

func (s *SLATaskTestSuite) TestOutOfSLA() {
	require := testutil.Require(s.T())

	sla := s.app.Config().SLA
	s.watermarker.EXPECT().Get(gomock.Any()).
		Return(api.NewWatermark(1000).WithLastBlockTime(s.now.Add(-sla.TimeSinceLastBlock-time.Second)), nil)
	s.source.EXPECT().GetLatestBlock(gomock.Any()).Return(1000+sla.BlockHeightDelta, nil)

	require.NoError(s.task.Run(context.Background()))
	require.Equal(int64(1), s.slaCounter(blockHeightDeltaMetric, resultTypeError))
	require.Equal(int64(1), s.slaCounter(timeSinceLastBlockMetric, resultTypeError))
}

func (s *SLATaskTestSuite) TestArchiveBehindWatermark() {
	require := testutil.Require(s.T())

	s.watermarker.EXPECT().Get(gomock.Any()).Return(api.NewWatermark(1000), nil)
	s.source.EXPECT().GetLatestBlock(gomock.Any()).Return(uint64(900), nil)

	require.NoError(s.task.Run(context.Background()))
	require.Equal(float64(0), s.gauge(blockHeightDeltaMetric))
	require.Equal(int64(1), s.slaCounter(blockHeightDeltaMetric, resultTypeSuccess))
	// No block time is known yet.
	require.Equal(int64(0), s.slaCounter(timeSinceLastBlockMetric, resultTypeSuccess))
	require.Equal(int64(0), s.slaCounter(timeSinceLastBlockMetric, resultTypeError))
}

func (s *SLATaskTestSuite) TestEmptyArchive() {
	require := testutil.Require(s.T())

	s.watermarker.EXPECT().Get(gomock.Any()).Return(api.NewWatermark(0), nil).AnyTimes()
	s.source.EXPECT().GetLatestBlock(gomock.Any()).Return(uint64(0), storage.ErrItemNotFound)

	require.NoError(s.task.Run(context.Background()))
	require.Equal(int64(0), s.slaCounter(blockHeightDeltaMetric, resultTypeSuccess))
}

func (s *SLATaskTestSuite) TestWatermarkError() {
	require := testutil.Require(s.T())

	s.watermarker.EXPECT().Get(gomock.Any()).Return(nil, xerrors.New("connection refused"))
	s.source.EXPECT().GetLatestBlock(gomock.Any()).Return(uint64(10), nil).AnyTimes()

	err := s.task.Run(context.Background())
	require.Error(err)
	require.Contains(err.Error(), "connection refused")
}

func (s *SLATaskTestSuite) slaCounter(slaType string, resultType string) int64 {
	for _, counter := range s.scope.Snapshot().Counters() {
		tags := counter.Tags()
		if counter.Name() == "deeper_archive.sla" && tags[slaTypeTag] == slaType && tags[resultTypeTag] == resultType {
			return counter.Value()
		}
	}
	return 0
}

func (s *SLATaskTestSuite) gauge(name string) float64 {
	for _, gauge := range s.scope.Snapshot().Gauges() {
		if gauge.Name() == "deeper_archive.sla."+name {
			return gauge.Value()
		}
	}
	return -1
}
