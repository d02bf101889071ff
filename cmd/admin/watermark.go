package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"go.uber.org/fx"
	"golang.org/x/xerrors"

	"github.com/deeper-chain/deeper-archive/internal/controller"
	"github.com/deeper-chain/deeper-archive/internal/storage"
)

var (
	watermarkCommand = NewCommand("watermark", "inspect indexing progress", nil)

	watermarkGetCommand = NewCommand("get", "print the watermark and the lag behind the archive", func() error {
		var deps struct {
			fx.In
			Controller    controller.Controller
			SourceStorage storage.SourceStorage
		}

		app, err := NewApp(fx.Populate(&deps))
		if err != nil {
			return xerrors.Errorf("failed to create command: %w", err)
		}
		defer app.Close()

		ctx := app.Context()
		watermark, err := deps.Controller.Watermarker().Get(ctx)
		if err != nil {
			return xerrors.Errorf("failed to get watermark: %w", err)
		}

		latest, err := deps.SourceStorage.GetLatestBlock(ctx)
		if err != nil && !xerrors.Is(err, storage.ErrItemNotFound) {
			return xerrors.Errorf("failed to get latest block: %w", err)
		}

		fmt.Println(color.GreenString("watermark: %v", watermark.Height))
		if !watermark.LastBlockTime.IsZero() {
			fmt.Printf("last block time: %v (%v ago)\n", watermark.LastBlockTime.Format(time.RFC3339), time.Since(watermark.LastBlockTime).Truncate(time.Second))
		}
		fmt.Printf("latest archived block: %v\n", latest)
		if latest > watermark.Height {
			fmt.Println(color.YellowString("lag: %v blocks", latest-watermark.Height))
		}
		return nil
	})
)

func init() {
	rootCommand.AddCommand(watermarkCommand)
	watermarkCommand.AddCommand(watermarkGetCommand)
}
