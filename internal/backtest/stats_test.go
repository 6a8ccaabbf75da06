package backtest

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/newthinker/mocha/internal/core"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trade(buy, sell float64) Trade {
	return Trade{BuyDate: baseDay, BuyPrice: buy, SellDate: baseDay.AddDate(0, 0, 1), SellPrice: sell}
}

func TestTradeProfit_WholeShares(t *testing.T) {
	tests := []struct {
		name      string
		buy, sell float64
		want      string
	}{
		{"even split", 10, 15, "500"},
		{"fractional shares dropped", 12, 13, "83"},
		{"loss", 3, 2.5, "-166.5"},
		{"price above investment", 1500, 1600, "0"},
		{"rounded to cents", 7, 7.123, "17.47"},
	}

	inv := decimal.NewFromInt(1000)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TradeProfit(trade(tt.buy, tt.sell), inv)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestTradeProfit_NonPositiveBuy(t *testing.T) {
	_, err := TradeProfit(trade(0, 10), decimal.NewFromInt(1000))
	assert.True(t, errors.Is(err, core.ErrInvalidTrade))

	_, err = NewPerformance([]Trade{trade(10, 11), trade(-1, 2)}, 1000)
	assert.True(t, errors.Is(err, core.ErrInvalidTrade))
}

func TestPerformance_MixedTrades(t *testing.T) {
	// Profits at $1000: 50, -20, 30, -10.
	trades := []Trade{trade(10, 10.5), trade(10, 9.8), trade(10, 10.3), trade(10, 9.9)}

	p, err := NewPerformance(trades, 1000)
	require.NoError(t, err)

	assert.Equal(t, []float64{50, -20, 30, -10}, p.ProfitPerTrade())
	assert.Equal(t, 2, p.NumberProfitTrades())
	assert.Equal(t, 2, p.NumberLossTrades())
	assert.Equal(t, 50.0, p.TotalProfit())
	assert.Equal(t, 5.0, p.ROI())

	pctWin, err := p.PctWin()
	require.NoError(t, err)
	assert.Equal(t, 50.0, pctWin)

	pctLoss, err := p.PctLoss()
	require.NoError(t, err)
	assert.Equal(t, 50.0, pctLoss)

	best, err := p.GreatestProfit()
	require.NoError(t, err)
	assert.Equal(t, 50.0, best)

	worst, err := p.GreatestLoss()
	require.NoError(t, err)
	assert.Equal(t, -20.0, worst)
}

func TestPerformance_BreakEvenIsALoss(t *testing.T) {
	p, err := NewPerformance([]Trade{trade(10, 10), trade(10, 11)}, 1000)
	require.NoError(t, err)

	assert.Equal(t, 1, p.NumberProfitTrades())
	assert.Equal(t, 1, p.NumberLossTrades())
}

func TestPerformance_PercentagesRounded(t *testing.T) {
	p, err := NewPerformance([]Trade{trade(10, 11), trade(10, 9), trade(10, 9)}, 1000)
	require.NoError(t, err)

	win, _ := p.PctWin()
	loss, _ := p.PctLoss()
	assert.Equal(t, 33.33, win)
	assert.Equal(t, 66.67, loss)
}

func TestPerformance_NoTrades(t *testing.T) {
	p, err := NewPerformance(nil, 1000)
	require.NoError(t, err)

	assert.Equal(t, 0.0, p.TotalProfit())
	assert.Equal(t, 0, p.NumberLossTrades())

	_, err = p.PctWin()
	assert.True(t, errors.Is(err, core.ErrNoTrades))
	_, err = p.PctLoss()
	assert.True(t, errors.Is(err, core.ErrNoTrades))
	_, err = p.GreatestProfit()
	assert.True(t, errors.Is(err, core.ErrNoTrades))
	_, err = p.GreatestLoss()
	assert.True(t, errors.Is(err, core.ErrNoTrades))
	_, err = p.ResultSet("BHP", "ma_crossover")
	assert.True(t, errors.Is(err, core.ErrNoTrades))
}

func TestPerformance_InvalidInvestment(t *testing.T) {
	_, err := NewPerformance(nil, 0)
	assert.True(t, errors.Is(err, core.ErrInvalidParams))
}

func TestPerformance_SumAndCompleteness(t *testing.T) {
	r := rand.New(rand.NewSource(3))

	for n := 0; n < 100; n++ {
		trades := make([]Trade, 1+r.Intn(30))
		for i := range trades {
			buy := decimal.NewFromFloat(1 + r.Float64()*50).Round(2).InexactFloat64()
			sell := decimal.NewFromFloat(1 + r.Float64()*50).Round(2).InexactFloat64()
			trades[i] = trade(buy, sell)
		}

		p, err := NewPerformance(trades, 1000)
		require.NoError(t, err)

		sum := decimal.Zero
		for _, v := range p.ProfitPerTrade() {
			sum = sum.Add(decimal.NewFromFloat(v))
		}
		assert.Equal(t, sum.Round(2).InexactFloat64(), p.TotalProfit())
		assert.Equal(t, len(trades), p.NumberProfitTrades()+p.NumberLossTrades())

		win, _ := p.PctWin()
		loss, _ := p.PctLoss()
		assert.InDelta(t, 100, win+loss, 0.011)
	}
}

func TestPerformance_ResultSet(t *testing.T) {
	trades := []Trade{trade(10, 15)}
	p, err := NewPerformance(trades, 1000)
	require.NoError(t, err)

	rs, err := p.ResultSet("BHP", "ma_crossover")
	require.NoError(t, err)

	assert.Equal(t, ResultSet{
		Code:                "BHP",
		Strategy:            "ma_crossover",
		InitialInvestment:   1000,
		BuySellPairs:        trades,
		StrategyROI:         50,
		TotalProfit:         500,
		TotalProfitPerTrade: []float64{500},
		TotalNumberOfTrades: 1,
		NumberProfitTrades:  1,
		NumberLossTrades:    0,
		PctWin:              100,
		PctLoss:             0,
		GreatestProfit:      500,
		GreatestLoss:        500,
	}, rs)
}
