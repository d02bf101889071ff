package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/fx"
	"golang.org/x/xerrors"

	"github.com/deeper-chain/deeper-archive/internal/api"
	"github.com/deeper-chain/deeper-archive/internal/chain"
	"github.com/deeper-chain/deeper-archive/internal/config"
	"github.com/deeper-chain/deeper-archive/internal/controller"
	"github.com/deeper-chain/deeper-archive/internal/scale"
	"github.com/deeper-chain/deeper-archive/internal/storage"
	"github.com/deeper-chain/deeper-archive/internal/utils/fixtures"
	"github.com/deeper-chain/deeper-archive/internal/utils/testapp"
	"github.com/deeper-chain/deeper-archive/internal/utils/testutil"
)

const (
	ingestorBatchSize = uint64(10)
)

var (
	alice = chain.MustParseAddress("5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY")
	bob   = chain.MustParseAddress("5FshJD1E8MuZw4U2sUWLQHeKuDmkQ85MZacBA36PEJj77xAZ")
	carol = chain.MustParseAddress("5GNJqTPyNqANBkUVMN1LPPrxXnFouWXoe2wNSmmEoLctxiZY")

	transferKeepAlive = fixtures.MustReadFile("extrinsic/balance_transfer_keep_alive.json")
	addCredit         = fixtures.MustReadFile("extrinsic/credit_sudo_add_credit.json")
	delegate          = fixtures.MustReadFile("extrinsic/staking_delegate.json")
	timestampOnly     = []byte(`[{"Current":{"call_data":{"ty":{"name":"set","index":0,"fields":[{"name":"now","type":152,"typeName":"T::Moment"}]},"arguments":[1649339560000],"pallet_name":"Timestamp"},"signature":null}}]`)
)

type IngestorTestSuite struct {
	suite.Suite
	app      testapp.TestApp
	cfg      *config.Config
	source   *memorySource
	sink     *memorySink
	ingestor *Ingestor
}

func TestIngestorTestSuite(t *testing.T) {
	suite.Run(t, new(IngestorTestSuite))
}

func (s *IngestorTestSuite) SetupTest() {
	require := testutil.Require(s.T())

	cfg, err := config.New()
	require.NoError(err)
	cfg.Indexer.BatchSize = ingestorBatchSize
	s.cfg = cfg
	s.source = newMemorySource()
	s.sink = newMemorySink()
	s.app = testapp.New(
		s.T(),
		Module,
		controller.Module,
		scale.Module,
		testapp.WithConfig(s.cfg),
		fx.Provide(func() storage.SourceStorage { return s.source }),
		fx.Provide(func() storage.FactStorage { return s.sink }),
		fx.Provide(func() storage.WatermarkStorage { return s.sink }),
		fx.Populate(&s.ingestor),
	)
}

func (s *IngestorTestSuite) TearDownTest() {
	s.app.Close()
}

func (s *IngestorTestSuite) execute() (*IngestorResult, error) {
	return s.ingestor.Execute(context.Background(), s.ingestor.NewRequest())
}

func (s *IngestorTestSuite) TestNewRequest() {
	require := testutil.Require(s.T())

	request := s.ingestor.NewRequest()
	require.Equal(ingestorBatchSize, request.BatchSize)
	require.Equal(api.FactDomains, request.Domains)
	require.False(request.Partial())
	require.Equal(s.cfg.Indexer.Parallelism, request.Parallelism)
	require.Equal(s.cfg.Indexer.HaltOnCorruptBlock, request.HaltOnCorruptBlock)
}

func (s *IngestorTestSuite) TestTransferKeepAlive() {
	require := testutil.Require(s.T())

	s.source.addBlock(
		1, testutil.SpecVersion, transferKeepAlive,
		testutil.MakeStorageEntry(1, chain.SystemAccountKey(alice), "storage/system_account.hex"),
		testutil.MakeStorageEntry(1, chain.SystemAccountKey(bob), "storage/system_account.hex"),
		testutil.MakeStorageEntry(1, chain.SystemAccountKey(carol), "storage/system_account.hex"),
	)

	result, err := s.execute()
	require.NoError(err)
	require.Equal(uint64(1), result.From)
	require.Equal(uint64(1), result.To)
	require.Equal(uint64(1), result.Watermark)
	require.Equal(int64(2), result.Inserted[api.DomainBalance])

	require.Len(s.sink.balances, 2)
	for _, account := range []chain.AccountID{alice, bob} {
		fact, ok := s.sink.balances["1/"+account.String()]
		require.True(ok, "missing balance of %v", account)
		require.Equal(uint32(2), fact.Nonce)
		require.EqualUint256("500", fact.Free)
	}

	require.Equal([]uint64{1}, s.sink.progressBlocks())
	progress := s.sink.progress[1]
	require.NotNil(progress.BlockTime)
	require.Equal(time.Unix(1649339540, 0).UTC(), progress.BlockTime.Truncate(time.Second))
}

func (s *IngestorTestSuite) TestAllDomains() {
	require := testutil.Require(s.T())

	s.source.addBlock(
		1, testutil.SpecVersion, addCredit,
		testutil.MakeStorageEntry(1, chain.UserCreditKey(bob), "storage/user_credit.hex"),
		testutil.MakeStorageEntry(1, chain.EventsKey(), "storage/system_events.hex"),
	)
	s.source.addBlock(
		2, testutil.SpecVersion, delegate,
		testutil.MakeStorageEntry(2, chain.DelegatorKey(bob), "storage/staking_delegator.hex"),
	)

	result, err := s.execute()
	require.NoError(err)
	require.Equal(uint64(2), result.Watermark)
	require.Equal(map[api.Domain]int64{
		api.DomainBalance:    0,
		api.DomainCredit:     1,
		api.DomainDelegation: 1,
		api.DomainEvent:      1,
	}, result.Inserted)

	credit := s.sink.credits["1/"+bob.String()]
	require.NotNil(credit)
	require.Equal(uint64(100), credit.Credit)

	delegation := s.sink.delegations["2/"+bob.String()]
	require.NotNil(delegation)
	require.Equal([]chain.AccountID{carol}, delegation.Validators)

	event := s.sink.events["1/1"]
	require.NotNil(event)
	require.Equal(bob, event.Account)
}

func (s *IngestorTestSuite) TestPartialRun() {
	require := testutil.Require(s.T())

	s.source.addBlock(
		1, testutil.SpecVersion, addCredit,
		testutil.MakeStorageEntry(1, chain.UserCreditKey(bob), "storage/user_credit.hex"),
		testutil.MakeStorageEntry(1, chain.EventsKey(), "storage/system_events.hex"),
	)

	request := s.ingestor.NewRequest()
	request.Domains = []api.Domain{api.DomainBalance}
	require.True(request.Partial())

	result, err := s.ingestor.Execute(context.Background(), request)
	require.NoError(err)
	require.True(result.Partial)
	require.Equal(uint64(0), result.Watermark)
	require.Empty(s.sink.credits)
	require.Empty(s.sink.progressBlocks())

	result, err = s.execute()
	require.NoError(err)
	require.False(result.Partial)
	require.Equal(uint64(1), result.Watermark)
	require.Equal([]uint64{1}, s.sink.progressBlocks())

	credit := s.sink.credits["1/"+bob.String()]
	require.NotNil(credit)
	require.Equal(uint64(100), credit.Credit)
	require.Len(s.sink.events, 1)
}

func (s *IngestorTestSuite) TestRequest_Partial() {
	require := testutil.Require(s.T())

	request := s.ingestor.NewRequest()
	request.Domains = []api.Domain{api.DomainEvent, api.DomainCredit, api.DomainBalance, api.DomainDelegation, api.DomainCredit}
	require.False(request.Partial())

	request.Domains = []api.Domain{api.DomainCredit, api.DomainCredit, api.DomainBalance, api.DomainEvent}
	require.True(request.Partial())
}

func (s *IngestorTestSuite) TestUnrelatedOperation() {
	require := testutil.Require(s.T())

	s.source.addBlock(
		1, testutil.SpecVersion, timestampOnly,
		testutil.MakeStorageEntry(1, chain.SystemAccountKey(alice), "storage/system_account.hex"),
	)

	result, err := s.execute()
	require.NoError(err)
	require.Equal(uint64(1), result.Watermark)
	require.Empty(s.sink.balances)
	require.Empty(s.sink.credits)
	require.Empty(s.sink.delegations)
	require.Empty(s.sink.events)
	for _, domain := range api.FactDomains {
		require.Zero(result.Inserted[domain], "domain %v", domain)
	}
	require.Equal([]uint64{1}, s.sink.progressBlocks())
}

func (s *IngestorTestSuite) TestNoNewBlocks() {
	require := testutil.Require(s.T())

	result, err := s.execute()
	require.NoError(err)
	require.Equal(uint64(0), result.Watermark)
	require.Equal(0, result.Blocks)
	require.Empty(s.sink.progressBlocks())
}

func (s *IngestorTestSuite) TestBatches() {
	require := testutil.Require(s.T())

	for number := uint64(1); number <= 25; number++ {
		s.source.addBlock(
			number, testutil.SpecVersion, transferKeepAlive,
			testutil.MakeStorageEntry(number, chain.SystemAccountKey(bob), "storage/system_account.hex"),
		)
	}

	expected := []uint64{10, 20, 25, 25}
	for _, watermark := range expected {
		result, err := s.execute()
		require.NoError(err)
		require.Equal(watermark, result.Watermark)
	}

	require.Len(s.sink.balances, 25)
	require.Len(s.sink.progressBlocks(), 25)
}

func (s *IngestorTestSuite) TestIdempotence() {
	require := testutil.Require(s.T())

	for number := uint64(1); number <= 3; number++ {
		s.source.addBlock(
			number, testutil.SpecVersion, transferKeepAlive,
			testutil.MakeStorageEntry(number, chain.SystemAccountKey(alice), "storage/system_account.hex"),
			testutil.MakeStorageEntry(number, chain.SystemAccountKey(bob), "storage/system_account.hex"),
		)
	}

	first, err := s.execute()
	require.NoError(err)
	require.Equal(int64(6), first.Inserted[api.DomainBalance])

	// A crash before the watermark advanced replays the same range.
	s.sink.rollback(0)
	second, err := s.execute()
	require.NoError(err)
	require.Equal(uint64(3), second.Watermark)
	require.Equal(int64(0), second.Inserted[api.DomainBalance])
	require.Len(s.sink.balances, 6)
	require.Equal([]uint64{1, 2, 3}, s.sink.progressBlocks())
}

func (s *IngestorTestSuite) TestExcludedBlock() {
	require := testutil.Require(s.T())

	s.source.addBlock(
		1, testutil.SpecVersion+1, transferKeepAlive,
		testutil.MakeStorageEntry(1, chain.SystemAccountKey(bob), "storage/system_account.hex"),
	)
	s.source.addBlock(2, testutil.SpecVersion, timestampOnly)

	result, err := s.execute()
	require.NoError(err)
	require.Equal(1, result.Excluded)
	require.Equal(uint64(2), result.Watermark)
	require.Empty(s.sink.balances)
	require.Equal([]uint64{1, 2}, s.sink.progressBlocks())
}

func (s *IngestorTestSuite) TestCorruptBlock() {
	require := testutil.Require(s.T())

	s.source.addBlock(1, testutil.SpecVersion, []byte(`{"not": "a list"}`))
	s.source.addBlock(
		2, testutil.SpecVersion, transferKeepAlive,
		testutil.MakeStorageEntry(2, chain.SystemAccountKey(bob), "storage/system_account.hex"),
	)

	result, err := s.execute()
	require.NoError(err)
	require.Equal(1, result.Corrupted)
	require.False(result.Halted)
	require.Equal(uint64(2), result.Watermark)
	require.Len(s.sink.balances, 1)
	require.Equal([]uint64{1, 2}, s.sink.progressBlocks())
}

func (s *IngestorTestSuite) TestCorruptBlock_Halt() {
	require := testutil.Require(s.T())

	s.source.addBlock(
		1, testutil.SpecVersion, transferKeepAlive,
		testutil.MakeStorageEntry(1, chain.SystemAccountKey(bob), "storage/system_account.hex"),
	)
	s.source.addBlock(2, testutil.SpecVersion, []byte(`{"not": "a list"}`))
	s.source.addBlock(
		3, testutil.SpecVersion, transferKeepAlive,
		testutil.MakeStorageEntry(3, chain.SystemAccountKey(bob), "storage/system_account.hex"),
	)

	request := s.ingestor.NewRequest()
	request.HaltOnCorruptBlock = true
	for i := 0; i < 2; i++ {
		result, err := s.ingestor.Execute(context.Background(), request)
		require.NoError(err)
		require.True(result.Halted)
		require.Equal(uint64(1), result.Watermark)
	}

	require.Len(s.sink.balances, 2)
	require.Equal([]uint64{1}, s.sink.progressBlocks())
}

func (s *IngestorTestSuite) TestStorageDegraded() {
	require := testutil.Require(s.T())

	s.source.addBlock(
		1, testutil.SpecVersion, transferKeepAlive,
		testutil.MakeStorageEntry(1, chain.SystemAccountKey(bob), "storage/system_account.hex"),
	)
	s.source.storageErr = xerrors.Errorf("mock: %w", storage.ErrSourceFetch)

	result, err := s.execute()
	require.NoError(err)
	require.True(result.Degraded)
	require.Equal(uint64(1), result.Watermark)
	require.Empty(s.sink.balances)
}

func (s *IngestorTestSuite) TestExtrinsicsError_Abort() {
	require := testutil.Require(s.T())

	s.cfg.Indexer.AbortOnOperationsError = true
	s.source.addBlock(1, testutil.SpecVersion, transferKeepAlive)
	s.source.extrinsicsErr = xerrors.Errorf("mock: %w", storage.ErrSourceFetch)

	_, err := s.execute()
	require.Error(err)
	require.True(xerrors.Is(err, storage.ErrSourceFetch))
	require.Empty(s.sink.progressBlocks())
}

func (s *IngestorTestSuite) TestExtrinsicsError() {
	require := testutil.Require(s.T())

	s.source.addBlock(
		1, testutil.SpecVersion, transferKeepAlive,
		testutil.MakeStorageEntry(1, chain.SystemAccountKey(bob), "storage/system_account.hex"),
	)
	s.source.extrinsicsErr = xerrors.Errorf("mock: %w", storage.ErrSourceFetch)

	result, err := s.execute()
	require.NoError(err)
	require.True(result.Degraded)
	require.Equal(uint64(1), result.Watermark)
	require.Empty(s.sink.balances)
	require.Equal([]uint64{1}, s.sink.progressBlocks())
}

func (s *IngestorTestSuite) TestSinkError() {
	require := testutil.Require(s.T())

	s.source.addBlock(
		1, testutil.SpecVersion, transferKeepAlive,
		testutil.MakeStorageEntry(1, chain.SystemAccountKey(bob), "storage/system_account.hex"),
	)
	s.sink.balanceErr = xerrors.Errorf("mock: %w", storage.ErrSinkWrite)

	_, err := s.execute()
	require.Error(err)
	require.True(xerrors.Is(err, storage.ErrSinkWrite))
	require.Empty(s.sink.progressBlocks())

	s.sink.balanceErr = nil
	result, err := s.execute()
	require.NoError(err)
	require.Equal(uint64(1), result.Watermark)
	require.Len(s.sink.balances, 1)
}

func (s *IngestorTestSuite) TestInvalidRequest() {
	require := testutil.Require(s.T())

	_, err := s.ingestor.Execute(context.Background(), &IngestorRequest{BatchSize: 1})
	require.Error(err)
	require.Contains(err.Error(), "invalid workflow request")
}
