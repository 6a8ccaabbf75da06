package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/newthinker/mocha/internal/backtest"
	"github.com/newthinker/mocha/internal/core"
	"github.com/newthinker/mocha/internal/pricedata"
	"github.com/newthinker/mocha/internal/storage/archive"
	"github.com/newthinker/mocha/internal/storage/ledger"
	"github.com/newthinker/mocha/internal/strategy"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	batchInputs  []string
	batchWorkers int
)

var batchCmd = &cobra.Command{
	Use:   "batch [strategy]",
	Short: "Backtest one strategy on many price series concurrently",
	Long: `Run a strategy against several CSV price series at once. Each input is
given as --csv CODE=PATH (or just PATH, the code then being the file name).
A failed instrument is reported and does not stop the others.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringArrayVar(&batchInputs, "csv", nil, "CODE=PATH price input, repeatable (required)")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "concurrent runs (default from config)")
	addParamFlags(batchCmd)
	batchCmd.Flags().BoolVar(&runJSON, "json", false, "print the result sets as JSON")
	batchCmd.Flags().BoolVar(&runArchive, "archive", false, "archive every successful run")

	batchCmd.MarkFlagRequired("csv")

	rootCmd.AddCommand(batchCmd)
}

type batchInput struct {
	code string
	path string
}

func parseBatchInput(s string) (batchInput, error) {
	code, path, ok := strings.Cut(s, "=")
	if !ok {
		path, code = s, codeFromPath(s)
	}
	code, path = strings.TrimSpace(code), strings.TrimSpace(path)
	if code == "" || path == "" {
		return batchInput{}, core.Errorf(core.ErrInvalidInput, "batch input %q, want CODE=PATH", s)
	}
	return batchInput{code: code, path: path}, nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	kind, err := strategy.ParseKind(args[0])
	if err != nil {
		return err
	}

	e, err := setup()
	if err != nil {
		return err
	}
	defer e.close()

	// The store rejects a (code, strategy) pair that appears twice.
	store := ledger.NewMemoryStore()
	e.backtester.SetStore(store)

	ctx := context.Background()
	params := paramsFromFlags()

	var reqs []backtest.Request
	var codes []string
	var failed int
	for _, raw := range batchInputs {
		in, err := parseBatchInput(raw)
		if err != nil {
			return err
		}
		table, err := pricedata.LoadFile(in.path)
		if err == nil {
			err = store.SavePrices(ctx, in.code, table.Bars)
		}
		if err != nil {
			e.log.Error("skipping input", zap.String("code", in.code), zap.String("path", in.path), zap.Error(err))
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", in.code, err)
			failed++
			continue
		}
		codes = append(codes, in.code)
		reqs = append(reqs, backtest.Request{
			Code:              in.code,
			Kind:              kind,
			Params:            params,
			Bars:              table.Bars,
			Columns:           table.Columns,
			InitialInvestment: runInvestment,
		})
	}

	workers := batchWorkers
	if workers <= 0 {
		workers = e.cfg.Backtest.Workers
	}
	results, errs := e.backtester.Batch(ctx, reqs, workers)

	var a *archive.ResultArchive
	if runArchive {
		if a, err = e.archive(); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	var sets []backtest.ResultSet
	for i, res := range results {
		if errs[i] != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", codes[i], errs[i])
			failed++
			continue
		}
		if a != nil {
			if err := a.Save(ctx, res); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: archiving: %v\n", codes[i], err)
				failed++
			}
		}
		sets = append(sets, res.ResultSet)
	}

	if runJSON {
		if err := printJSONSets(out, sets); err != nil {
			return err
		}
	} else {
		printSummary(out, sets)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d inputs failed", failed, len(batchInputs))
	}
	return nil
}
