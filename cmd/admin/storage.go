package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/fatih/color"
	"go.uber.org/fx"
	"golang.org/x/xerrors"

	"github.com/deeper-chain/deeper-archive/internal/chain"
	"github.com/deeper-chain/deeper-archive/internal/schema"
	"github.com/deeper-chain/deeper-archive/internal/storage"
	"github.com/deeper-chain/deeper-archive/internal/utils/jsonutil"
)

type keyFn func(account chain.AccountID) []byte

var (
	storageItems = map[string]keyFn{
		"account":   chain.SystemAccountKey,
		"credit":    chain.UserCreditKey,
		"delegator": chain.DelegatorKey,
		"events":    func(chain.AccountID) []byte { return chain.EventsKey() },
		"timestamp": func(chain.AccountID) []byte { return chain.TimestampKey() },
	}

	storageFlags struct {
		item    string
		address string
		block   uint64
	}

	storageCommand = NewCommand("storage", "derive and decode storage entries", nil)

	storageKeyCommand = NewCommand("key", "print the storage key of an item", func() error {
		key, err := storageKey(storageFlags.item, storageFlags.address)
		if err != nil {
			return err
		}

		fmt.Println(hexutil.Encode(key))
		return nil
	})

	storageDecodeCommand = NewCommand("decode", "decode an item as recorded at a block", func() error {
		key, err := storageKey(storageFlags.item, storageFlags.address)
		if err != nil {
			return err
		}

		var deps struct {
			fx.In
			SourceStorage storage.SourceStorage
			Decoder       schema.Decoder
		}

		app, err := NewApp(fx.Populate(&deps))
		if err != nil {
			return xerrors.Errorf("failed to create command: %w", err)
		}
		defer app.Close()

		ctx := app.Context()
		block := storageFlags.block
		if block == 0 {
			return xerrors.New("block must be positive")
		}

		records, err := deps.SourceStorage.GetBlocks(ctx, block-1, 1)
		if err != nil {
			return xerrors.Errorf("failed to get block %v: %w", block, err)
		}
		if len(records) == 0 || records[0].Number != block {
			return xerrors.Errorf("block %v is not archived", block)
		}

		schemas, err := deps.SourceStorage.GetSchemas(ctx)
		if err != nil {
			return xerrors.Errorf("failed to get schemas: %w", err)
		}
		s, err := schema.NewCatalog(schemas, app.Config.Chain.MinSpecVersion).Resolve(records[0].SpecVersion)
		if err != nil {
			return xerrors.Errorf("failed to resolve schema: %w", err)
		}

		entries, err := deps.SourceStorage.GetStorage(ctx, block, block)
		if err != nil {
			return xerrors.Errorf("failed to get storage: %w", err)
		}

		for _, entry := range entries {
			if string(entry.Key) != string(key) {
				continue
			}
			if entry.Data == nil {
				break
			}

			v, err := deps.Decoder.DecodeStorage(s, entry.Key, entry.Data)
			if err != nil {
				return xerrors.Errorf("failed to decode %v: %w", hexutil.Encode(key), err)
			}

			output, err := jsonutil.FormatJSON(v)
			if err != nil {
				return err
			}
			fmt.Println(output)
			return nil
		}

		fmt.Println(color.YellowString("no change of %v recorded at block %v", hexutil.Encode(key), block))
		return nil
	})
)

func init() {
	rootCommand.AddCommand(storageCommand)
	storageCommand.AddCommand(storageKeyCommand, storageDecodeCommand)

	storageCommand.StringVar(&storageFlags.item, "item", "account", false)
	storageCommand.StringVar(&storageFlags.address, "address", "", false)
	storageDecodeCommand.Uint64Var(&storageFlags.block, "block", 0, true)
}

// storageKey derives the key of item. Per-account items require an SS58 address.
func storageKey(item string, address string) ([]byte, error) {
	fn, ok := storageItems[item]
	if !ok {
		items := make([]string, 0, len(storageItems))
		for name := range storageItems {
			items = append(items, name)
		}
		sort.Strings(items)
		return nil, xerrors.Errorf("unknown item %q, expected one of %v", item, strings.Join(items, ", "))
	}

	var account chain.AccountID
	if item != "events" && item != "timestamp" {
		if address == "" {
			return nil, xerrors.Errorf("item %v requires an address", item)
		}

		parsed, _, err := chain.ParseAddress(address)
		if err != nil {
			return nil, xerrors.Errorf("failed to parse address %v: %w", address, err)
		}
		account = parsed
	}

	return fn(account), nil
}
