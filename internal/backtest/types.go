package backtest

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/newthinker/mocha/internal/core"
	"github.com/newthinker/mocha/internal/series"
	"github.com/newthinker/mocha/internal/signal"
	"github.com/newthinker/mocha/internal/strategy"
)

// DefaultInitialInvestment is the notional stake applied to every trade.
const DefaultInitialInvestment = 1000.0

// Request describes one (instrument, strategy, params) run.
type Request struct {
	Code   string
	Kind   strategy.Kind
	Params strategy.Params
	Bars   []core.OHLCV
	// Columns lists the columns present in the source table; nil means all.
	Columns []string
	// InitialInvestment overrides the backtester default when positive.
	InitialInvestment float64
}

// Result holds the complete output of one run.
type Result struct {
	RunID      uuid.UUID
	Code       string
	Strategy   string
	Kind       strategy.Kind
	Params     strategy.Params
	Indicators *strategy.IndicatorSeries
	Signals    signal.Signals
	Ledger     []LedgerRow
	Trades     []Trade
	ResultSet  ResultSet
}

// Trade is one completed buy-then-sell pair.
type Trade struct {
	BuyDate   time.Time `json:"buy_date"`
	BuyPrice  float64   `json:"buy_price"`
	SellDate  time.Time `json:"sell_date"`
	SellPrice float64   `json:"sell_price"`
}

// LedgerRow is the per-bar view of one run: the signals and the price
// each one fired at.
type LedgerRow struct {
	Date       time.Time  `json:"date"`
	Close      float64    `json:"close"`
	BuySignal  bool       `json:"buy_signal"`
	BuyPrice   series.Num `json:"buy_price"`
	SellSignal bool       `json:"sell_signal"`
	SellPrice  series.Num `json:"sell_price"`
}

// ResultSet is the performance record of one run. Money fields are rounded
// to two decimal places.
type ResultSet struct {
	Code                string    `json:"code"`
	Strategy            string    `json:"strategy"`
	InitialInvestment   float64   `json:"initial_investment"`
	BuySellPairs        []Trade   `json:"buy_sell_pairs"`
	StrategyROI         float64   `json:"strategy_roi"`
	TotalProfit         float64   `json:"total_profit"`
	TotalProfitPerTrade []float64 `json:"total_profit_per_trade"`
	TotalNumberOfTrades int       `json:"total_number_of_trades"`
	NumberProfitTrades  int       `json:"number_profit_trades"`
	NumberLossTrades    int       `json:"number_loss_trades"`
	PctWin              float64   `json:"pct_win"`
	PctLoss             float64   `json:"pct_loss"`
	GreatestProfit      float64   `json:"greatest_profit"`
	GreatestLoss        float64   `json:"greatest_loss"`
}

// Holding returns how long the position was open.
func (t Trade) Holding() time.Duration {
	return t.SellDate.Sub(t.BuyDate)
}

// MarshalJSON writes the trade dates as calendar dates.
func (t Trade) MarshalJSON() ([]byte, error) {
	type plain Trade
	return json.Marshal(struct {
		plain
		BuyDate  string `json:"buy_date"`
		SellDate string `json:"sell_date"`
	}{plain(t), t.BuyDate.Format(core.DateLayout), t.SellDate.Format(core.DateLayout)})
}

// UnmarshalJSON reads the form written by MarshalJSON.
func (t *Trade) UnmarshalJSON(data []byte) error {
	type plain Trade
	aux := struct {
		*plain
		BuyDate  string `json:"buy_date"`
		SellDate string `json:"sell_date"`
	}{plain: (*plain)(t)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	if t.BuyDate, err = time.Parse(core.DateLayout, aux.BuyDate); err != nil {
		return err
	}
	t.SellDate, err = time.Parse(core.DateLayout, aux.SellDate)
	return err
}

// MarshalJSON writes the row date as a calendar date.
func (r LedgerRow) MarshalJSON() ([]byte, error) {
	type plain LedgerRow
	return json.Marshal(struct {
		plain
		Date string `json:"date"`
	}{plain(r), r.Date.Format(core.DateLayout)})
}

// UnmarshalJSON reads the form written by MarshalJSON.
func (r *LedgerRow) UnmarshalJSON(data []byte) error {
	type plain LedgerRow
	aux := struct {
		*plain
		Date string `json:"date"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	r.Date, err = time.Parse(core.DateLayout, aux.Date)
	return err
}
