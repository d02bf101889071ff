package storage

import (
	"go.uber.org/fx"

	"github.com/deeper-chain/deeper-archive/internal/storage/fact"
	"github.com/deeper-chain/deeper-archive/internal/storage/internal"
	"github.com/deeper-chain/deeper-archive/internal/storage/postgres"
	"github.com/deeper-chain/deeper-archive/internal/storage/source"
	"github.com/deeper-chain/deeper-archive/internal/storage/watermark"
)

type (
	SourceStorage    = source.SourceStorage
	FactStorage      = fact.FactStorage
	WatermarkStorage = watermark.WatermarkStorage
	BlockRecord      = source.BlockRecord
)

var (
	Module = fx.Options(
		postgres.Module,
		source.Module,
		fact.Module,
		watermark.Module,
	)

	ErrItemNotFound    = internal.ErrItemNotFound
	ErrRequestCanceled = internal.ErrRequestCanceled
	ErrSourceFetch     = internal.ErrSourceFetch
	ErrSinkWrite       = internal.ErrSinkWrite
)
