package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/newthinker/mocha/internal/backtest"
	"github.com/newthinker/mocha/internal/pricedata"
	"github.com/newthinker/mocha/internal/strategy"
	"github.com/spf13/cobra"
)

var (
	runCode       string
	runCSV        string
	runFast       int
	runSlow       int
	runSignal     int
	runTrigger    string
	runInverted   bool
	runInvestment float64
	runLedger     string
	runJSON       bool
	runArchive    bool
)

var runCmd = &cobra.Command{
	Use:   "run [strategy]",
	Short: "Backtest one strategy on one price series",
	Long: `Run a strategy against a CSV price series (Date, Close and optionally
Open, High, Low, Volume columns) and show the trades and performance
statistics. Windows left unset use the configured or built-in defaults.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runCSV, "csv", "", "CSV price file (required)")
	runCmd.Flags().StringVar(&runCode, "code", "", "instrument code (default: CSV file name)")
	addParamFlags(runCmd)
	runCmd.Flags().StringVar(&runLedger, "ledger", "", "write the per-bar ledger as CSV to this path")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "print the result set as JSON")
	runCmd.Flags().BoolVar(&runArchive, "archive", false, "archive the run to the configured archive")

	runCmd.MarkFlagRequired("csv")

	rootCmd.AddCommand(runCmd)
}

// addParamFlags registers the strategy parameter flags shared by run and
// batch.
func addParamFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&runFast, "fast", 0, "fast window")
	cmd.Flags().IntVar(&runSlow, "slow", 0, "slow window")
	cmd.Flags().IntVar(&runSignal, "signal", 0, "signal window (MACD, VW_MACD)")
	cmd.Flags().StringVar(&runTrigger, "trigger", "", "condition trigger: level or cross")
	cmd.Flags().BoolVar(&runInverted, "inverted", false, "swap buy and sell conditions (cannot undo inverted: true from config)")
	cmd.Flags().Float64Var(&runInvestment, "investment", 0, "initial investment per trade (default from config)")
}

func paramsFromFlags() strategy.Params {
	return strategy.Params{
		Fast:     runFast,
		Slow:     runSlow,
		Signal:   runSignal,
		Trigger:  strategy.Trigger(strings.ToLower(strings.TrimSpace(runTrigger))),
		Inverted: runInverted,
	}
}

// codeFromPath derives an instrument code from a file name: bhp.csv -> BHP.
func codeFromPath(path string) string {
	base := filepath.Base(path)
	return strings.ToUpper(strings.TrimSuffix(base, filepath.Ext(base)))
}

func runRun(cmd *cobra.Command, args []string) error {
	kind, err := strategy.ParseKind(args[0])
	if err != nil {
		return err
	}

	e, err := setup()
	if err != nil {
		return err
	}
	defer e.close()

	table, err := pricedata.LoadFile(runCSV)
	if err != nil {
		return fmt.Errorf("loading %s: %w", runCSV, err)
	}

	code := runCode
	if code == "" {
		code = codeFromPath(runCSV)
	}

	res, err := e.backtester.Run(context.Background(), backtest.Request{
		Code:              code,
		Kind:              kind,
		Params:            paramsFromFlags(),
		Bars:              table.Bars,
		Columns:           table.Columns,
		InitialInvestment: runInvestment,
	})
	if err != nil {
		return err
	}

	if runLedger != "" {
		if err := writeLedger(runLedger, res.Ledger); err != nil {
			return err
		}
	}

	if runArchive {
		a, err := e.archive()
		if err != nil {
			return err
		}
		if err := a.Save(context.Background(), res); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if runJSON {
		return printJSON(out, res)
	}
	printResult(out, res)
	return nil
}

func writeLedger(path string, rows []backtest.LedgerRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := backtest.WriteLedgerCSV(f, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
