package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/deeper-chain/deeper-archive/internal/api"
	"github.com/deeper-chain/deeper-archive/internal/utils/jsonutil"
	"github.com/deeper-chain/deeper-archive/internal/workflow"
)

var (
	batchFlags struct {
		batchSize          uint64
		domains            string
		haltOnCorruptBlock bool
		yes                bool
	}

	batchCommand = NewCommand("batch", "run the indexer pipeline by hand", nil)

	batchRunCommand = NewCommand("run", "index one batch after the watermark", func() error {
		var deps struct {
			fx.In
			Ingestor *workflow.Ingestor
		}

		app, err := NewApp(fx.Populate(&deps))
		if err != nil {
			return xerrors.Errorf("failed to create command: %w", err)
		}
		defer app.Close()

		request := deps.Ingestor.NewRequest()
		if batchFlags.batchSize > 0 {
			request.BatchSize = batchFlags.batchSize
		}
		if batchFlags.domains != "" {
			domains, err := parseDomains(batchFlags.domains)
			if err != nil {
				return err
			}
			request.Domains = domains
		}
		if batchFlags.haltOnCorruptBlock {
			request.HaltOnCorruptBlock = true
		}

		prompt := fmt.Sprintf("Index up to %v blocks for %v?", request.BatchSize, request.Domains)
		if request.Partial() {
			prompt = fmt.Sprintf("Index up to %v blocks for %v only? The watermark will not move.", request.BatchSize, request.Domains)
		}
		if !batchFlags.yes && !app.Confirm(prompt) {
			return nil
		}

		result, err := deps.Ingestor.Execute(app.Context(), request)
		if err != nil {
			return xerrors.Errorf("failed to run batch: %w", err)
		}

		output, err := jsonutil.FormatJSON(result)
		if err != nil {
			return err
		}
		app.Logger.Info("finished batch", zap.Uint64("watermark", result.Watermark))
		fmt.Println(color.GreenString(output))
		return nil
	})
)

func init() {
	rootCommand.AddCommand(batchCommand)
	batchCommand.AddCommand(batchRunCommand)

	batchRunCommand.Uint64Var(&batchFlags.batchSize, "batch-size", 0, false)
	batchRunCommand.StringVar(&batchFlags.domains, "domains", "", false)
	batchRunCommand.BoolVar(&batchFlags.haltOnCorruptBlock, "halt-on-corrupt-block", false, false)
	batchRunCommand.BoolVar(&batchFlags.yes, "yes", false, false)
}

// parseDomains reads a comma-separated list of fact domains.
func parseDomains(s string) ([]api.Domain, error) {
	var domains []api.Domain
	for _, name := range strings.Split(s, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		domain, ok := api.ParseDomain(name)
		if !ok || !domain.IsFactDomain() {
			return nil, xerrors.Errorf("unknown domain %q", name)
		}
		domains = append(domains, domain)
	}

	if len(domains) == 0 {
		return nil, xerrors.Errorf("no domain in %q", s)
	}
	return domains, nil
}
