package api

import (
	"github.com/deeper-chain/deeper-archive/internal/extrinsic"
	"github.com/deeper-chain/deeper-archive/internal/schema"
)

type (
	// Block is one archived block selected for a batch.
	Block struct {
		Number      uint64
		SpecVersion uint32

		// Schema is nil when the block is excluded.
		Schema     *schema.Schema
		Operations []*extrinsic.Operation

		// Excluded blocks have no usable schema. They are never retried.
		Excluded bool
		// Corrupted blocks have an unreadable operations payload.
		Corrupted bool
	}

	// StorageEntry is one raw storage row. Data is nil when the block recorded no change.
	StorageEntry struct {
		BlockNumber uint64
		Key         []byte
		Data        []byte
	}

	// Batch is the read-only input shared by every domain indexer.
	Batch struct {
		Watermark uint64
		Blocks    []*Block

		storage map[storageKey]*StorageEntry
	}

	storageKey struct {
		blockNumber uint64
		key         string
	}
)

func NewBatch(watermark uint64, blocks []*Block) *Batch {
	return &Batch{
		Watermark: watermark,
		Blocks:    blocks,
		storage:   make(map[storageKey]*StorageEntry),
	}
}

// Indexable reports whether facts should be extracted from the block.
func (b *Block) Indexable() bool {
	return !b.Excluded && !b.Corrupted && b.Schema != nil
}

func (b *Batch) Empty() bool {
	return len(b.Blocks) == 0
}

func (b *Batch) From() uint64 {
	if b.Empty() {
		return 0
	}
	return b.Blocks[0].Number
}

func (b *Batch) To() uint64 {
	if b.Empty() {
		return 0
	}
	return b.Blocks[len(b.Blocks)-1].Number
}

// JoinStorage indexes storage rows by (block, key). A later row for the same pair replaces an earlier one.
func (b *Batch) JoinStorage(entries []*StorageEntry) {
	for _, entry := range entries {
		if entry == nil {
			continue
		}
		b.storage[storageKey{blockNumber: entry.BlockNumber, key: string(entry.Key)}] = entry
	}
}

// Lookup finds the storage row recorded for the key at the block.
// Rows without data are reported as missing.
func (b *Batch) Lookup(blockNumber uint64, key []byte) (*StorageEntry, bool) {
	entry, ok := b.storage[storageKey{blockNumber: blockNumber, key: string(key)}]
	if !ok || entry.Data == nil {
		return nil, false
	}
	return entry, true
}

func (b *Batch) StorageSize() int {
	return len(b.storage)
}
