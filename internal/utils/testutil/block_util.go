package testutil

import (
	"github.com/deeper-chain/deeper-archive/internal/api"
	"github.com/deeper-chain/deeper-archive/internal/extrinsic"
	"github.com/deeper-chain/deeper-archive/internal/schema"
	"github.com/deeper-chain/deeper-archive/internal/utils/fixtures"
)

const (
	// SpecVersion is the spec version of the fixture schema.
	SpecVersion uint32 = 1

	schemaFixture = "schema/deeper_v1.json"
)

type (
	Option func(*builderOptions)

	builderOptions struct {
		specVersion uint32
		excluded    bool
		corrupted   bool
	}
)

func WithSpecVersion(specVersion uint32) Option {
	return func(opts *builderOptions) {
		opts.specVersion = specVersion
	}
}

func WithExcluded() Option {
	return func(opts *builderOptions) {
		opts.excluded = true
	}
}

func WithCorrupted() Option {
	return func(opts *builderOptions) {
		opts.corrupted = true
	}
}

// MakeSchema loads the fixture schema.
func MakeSchema() *schema.Schema {
	return &schema.Schema{
		SpecVersion: SpecVersion,
		Blob:        fixtures.MustReadFile(schemaFixture),
	}
}

func MakeCatalog() *schema.Catalog {
	return schema.NewCatalog([]*schema.Schema{MakeSchema()}, SpecVersion)
}

// MakeOperations parses the operations of the given extrinsic fixtures, in order.
func MakeOperations(paths ...string) []*extrinsic.Operation {
	var ops []*extrinsic.Operation
	for _, path := range paths {
		result, err := extrinsic.Parse(fixtures.MustReadFile(path))
		if err != nil {
			panic(err)
		}
		ops = append(ops, result.Operations...)
	}
	return ops
}

func MakeBlock(number uint64, ops []*extrinsic.Operation, opts ...Option) *api.Block {
	options := &builderOptions{
		specVersion: SpecVersion,
	}
	for _, opt := range opts {
		opt(options)
	}

	block := &api.Block{
		Number:      number,
		SpecVersion: options.specVersion,
		Operations:  ops,
		Excluded:    options.excluded,
		Corrupted:   options.corrupted,
	}
	if !options.excluded {
		block.Schema = MakeSchema()
	}
	if options.corrupted {
		block.Operations = nil
	}
	return block
}

// MakeBlocks builds size empty blocks starting at startHeight.
func MakeBlocks(startHeight uint64, size int, opts ...Option) []*api.Block {
	blocks := make([]*api.Block, size)
	for i := 0; i < size; i++ {
		blocks[i] = MakeBlock(startHeight+uint64(i), nil, opts...)
	}
	return blocks
}

func MakeStorageEntry(blockNumber uint64, key []byte, hexFixture string) *api.StorageEntry {
	return &api.StorageEntry{
		BlockNumber: blockNumber,
		Key:         key,
		Data:        fixtures.MustReadHex(hexFixture),
	}
}
