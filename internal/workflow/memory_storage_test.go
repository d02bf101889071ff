package workflow

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/xerrors"

	"github.com/deeper-chain/deeper-archive/internal/api"
	"github.com/deeper-chain/deeper-archive/internal/schema"
	"github.com/deeper-chain/deeper-archive/internal/storage"
	"github.com/deeper-chain/deeper-archive/internal/utils/testutil"
)

type (
	// memorySource is an archive held in memory.
	memorySource struct {
		blocks        []*storage.BlockRecord
		extrinsics    map[uint64][]byte
		entries       []*api.StorageEntry
		extrinsicsErr error
		storageErr    error
	}

	// memorySink keeps the first row per unique key, like the ON CONFLICT DO NOTHING inserts.
	memorySink struct {
		mu          sync.Mutex
		balances    map[string]*api.BalanceFact
		credits     map[string]*api.CreditFact
		delegations map[string]*api.DelegationFact
		events      map[string]*api.EventFact
		progress    map[uint64]*api.ProgressFact
		balanceErr  error
	}
)

var (
	_ storage.SourceStorage    = (*memorySource)(nil)
	_ storage.FactStorage      = (*memorySink)(nil)
	_ storage.WatermarkStorage = (*memorySink)(nil)
)

func newMemorySource() *memorySource {
	return &memorySource{
		extrinsics: make(map[uint64][]byte),
	}
}

func (s *memorySource) addBlock(number uint64, specVersion uint32, payload []byte, entries ...*api.StorageEntry) {
	s.blocks = append(s.blocks, &storage.BlockRecord{Number: number, SpecVersion: specVersion})
	if payload != nil {
		s.extrinsics[number] = payload
	}
	s.entries = append(s.entries, entries...)
}

func (s *memorySource) GetBlocks(ctx context.Context, after uint64, limit uint64) ([]*storage.BlockRecord, error) {
	var result []*storage.BlockRecord
	for _, block := range s.blocks {
		if block.Number > after && uint64(len(result)) < limit {
			result = append(result, block)
		}
	}
	return result, nil
}

func (s *memorySource) GetExtrinsics(ctx context.Context, from uint64, to uint64) (map[uint64][]byte, error) {
	if s.extrinsicsErr != nil {
		return nil, s.extrinsicsErr
	}

	result := make(map[uint64][]byte)
	for number, payload := range s.extrinsics {
		if number >= from && number <= to {
			result[number] = payload
		}
	}
	return result, nil
}

func (s *memorySource) GetStorage(ctx context.Context, from uint64, to uint64) ([]*api.StorageEntry, error) {
	if s.storageErr != nil {
		return nil, s.storageErr
	}

	var result []*api.StorageEntry
	for _, entry := range s.entries {
		if entry.BlockNumber >= from && entry.BlockNumber <= to {
			result = append(result, entry)
		}
	}
	return result, nil
}

func (s *memorySource) GetSchemas(ctx context.Context) ([]*schema.Schema, error) {
	return []*schema.Schema{testutil.MakeSchema()}, nil
}

func (s *memorySource) GetLatestBlock(ctx context.Context) (uint64, error) {
	if len(s.blocks) == 0 {
		return 0, storage.ErrItemNotFound
	}
	return s.blocks[len(s.blocks)-1].Number, nil
}

func newMemorySink() *memorySink {
	return &memorySink{
		balances:    make(map[string]*api.BalanceFact),
		credits:     make(map[string]*api.CreditFact),
		delegations: make(map[string]*api.DelegationFact),
		events:      make(map[string]*api.EventFact),
		progress:    make(map[uint64]*api.ProgressFact),
	}
}

func insertOnce[T any](rows map[string]T, key string, row T) int64 {
	if _, ok := rows[key]; ok {
		return 0
	}
	rows[key] = row
	return 1
}

func (s *memorySink) PersistBalances(ctx context.Context, facts []*api.BalanceFact) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.balanceErr != nil {
		return 0, s.balanceErr
	}

	var inserted int64
	for _, fact := range facts {
		inserted += insertOnce(s.balances, fmt.Sprintf("%d/%v", fact.BlockNumber, fact.Account), fact)
	}
	return inserted, nil
}

func (s *memorySink) PersistCredits(ctx context.Context, facts []*api.CreditFact) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var inserted int64
	for _, fact := range facts {
		inserted += insertOnce(s.credits, fmt.Sprintf("%d/%v", fact.BlockNumber, fact.Account), fact)
	}
	return inserted, nil
}

func (s *memorySink) PersistDelegations(ctx context.Context, facts []*api.DelegationFact) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var inserted int64
	for _, fact := range facts {
		inserted += insertOnce(s.delegations, fmt.Sprintf("%d/%v", fact.BlockNumber, fact.Delegator), fact)
	}
	return inserted, nil
}

func (s *memorySink) PersistEvents(ctx context.Context, facts []*api.EventFact) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var inserted int64
	for _, fact := range facts {
		inserted += insertOnce(s.events, fmt.Sprintf("%d/%d", fact.BlockNumber, fact.Index), fact)
	}
	return inserted, nil
}

func (s *memorySink) PersistProgress(ctx context.Context, facts []*api.ProgressFact) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var inserted int64
	for _, fact := range facts {
		if _, ok := s.progress[fact.BlockNumber]; !ok {
			s.progress[fact.BlockNumber] = fact
			inserted++
		}
	}
	return inserted, nil
}

func (s *memorySink) GetWatermark(ctx context.Context) (*api.Watermark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.progress) == 0 {
		return nil, xerrors.Errorf("no progress rows: %w", storage.ErrItemNotFound)
	}

	var last *api.ProgressFact
	for _, fact := range s.progress {
		if last == nil || fact.BlockNumber > last.BlockNumber {
			last = fact
		}
	}

	watermark := api.NewWatermark(last.BlockNumber)
	if last.BlockTime != nil {
		watermark.LastBlockTime = *last.BlockTime
	}
	return watermark, nil
}

// rollback drops the progress rows above height, as if the batches after it had never committed.
func (s *memorySink) rollback(height uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for number := range s.progress {
		if number > height {
			delete(s.progress, number)
		}
	}
}

func (s *memorySink) progressBlocks() []uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	blocks := make([]uint64, 0, len(s.progress))
	for number := range s.progress {
		blocks = append(blocks, number)
	}
	sort.Slice(blocks, func(i, j int) bool { return blocks[i] < blocks[j] })
	return blocks
}
