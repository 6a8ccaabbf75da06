package backtest

import (
	"github.com/newthinker/mocha/internal/core"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// TradeProfit is the profit of buying as many whole shares as investment
// affords at the buy price and selling them at the sell price.
func TradeProfit(t Trade, investment decimal.Decimal) (decimal.Decimal, error) {
	buy := decimal.NewFromFloat(t.BuyPrice)
	if !buy.IsPositive() {
		return decimal.Zero, core.Errorf(core.ErrInvalidTrade, "buy at %s on %s", buy, t.BuyDate.Format(core.DateLayout))
	}
	shares := investment.Div(buy).Floor()
	profit := shares.Mul(decimal.NewFromFloat(t.SellPrice).Sub(buy))
	return profit.Round(2), nil
}

// Performance aggregates the profits of an ordered list of trades. Each
// trade stakes the same investment; gains are not compounded.
type Performance struct {
	investment decimal.Decimal
	trades     []Trade
	profits    []decimal.Decimal
}

// NewPerformance computes per-trade profits for trades.
func NewPerformance(trades []Trade, investment float64) (*Performance, error) {
	inv := decimal.NewFromFloat(investment)
	if !inv.IsPositive() {
		return nil, core.Errorf(core.ErrInvalidParams, "initial investment %s", inv)
	}

	profits := make([]decimal.Decimal, len(trades))
	for i, t := range trades {
		p, err := TradeProfit(t, inv)
		if err != nil {
			return nil, err
		}
		profits[i] = p
	}
	return &Performance{investment: inv, trades: trades, profits: profits}, nil
}

// N returns the number of trades.
func (p *Performance) N() int {
	return len(p.profits)
}

// ProfitPerTrade returns each trade's profit in trade order.
func (p *Performance) ProfitPerTrade() []float64 {
	out := make([]float64, len(p.profits))
	for i, v := range p.profits {
		out[i] = v.InexactFloat64()
	}
	return out
}

func (p *Performance) total() decimal.Decimal {
	return decimal.Sum(decimal.Zero, p.profits...)
}

// TotalProfit is the sum of the per-trade profits.
func (p *Performance) TotalProfit() float64 {
	return p.total().Round(2).InexactFloat64()
}

// NumberProfitTrades counts trades with a strictly positive profit.
func (p *Performance) NumberProfitTrades() int {
	n := 0
	for _, v := range p.profits {
		if v.IsPositive() {
			n++
		}
	}
	return n
}

// NumberLossTrades counts the remaining trades; break-even is a loss.
func (p *Performance) NumberLossTrades() int {
	return p.N() - p.NumberProfitTrades()
}

func (p *Performance) pct(count int) (float64, error) {
	if p.N() == 0 {
		return 0, core.ErrNoTrades
	}
	v := decimal.NewFromInt(int64(count)).Mul(hundred).Div(decimal.NewFromInt(int64(p.N())))
	return v.Round(2).InexactFloat64(), nil
}

// PctWin is the percentage of profitable trades.
func (p *Performance) PctWin() (float64, error) {
	return p.pct(p.NumberProfitTrades())
}

// PctLoss is the percentage of break-even or losing trades.
func (p *Performance) PctLoss() (float64, error) {
	return p.pct(p.NumberLossTrades())
}

// GreatestProfit is the largest single-trade profit.
func (p *Performance) GreatestProfit() (float64, error) {
	if p.N() == 0 {
		return 0, core.ErrNoTrades
	}
	return decimal.Max(p.profits[0], p.profits[1:]...).InexactFloat64(), nil
}

// GreatestLoss is the smallest single-trade profit, which may be positive.
func (p *Performance) GreatestLoss() (float64, error) {
	if p.N() == 0 {
		return 0, core.ErrNoTrades
	}
	return decimal.Min(p.profits[0], p.profits[1:]...).InexactFloat64(), nil
}

// ROI is total profit as a percentage of the investment.
func (p *Performance) ROI() float64 {
	return p.total().Mul(hundred).Div(p.investment).Round(2).InexactFloat64()
}

// ResultSet assembles the performance record. It fails with
// core.ErrNoTrades when there is nothing to aggregate.
func (p *Performance) ResultSet(code, strategyName string) (ResultSet, error) {
	pctWin, err := p.PctWin()
	if err != nil {
		return ResultSet{}, err
	}
	pctLoss, _ := p.PctLoss()
	best, _ := p.GreatestProfit()
	worst, _ := p.GreatestLoss()

	pairs := make([]Trade, len(p.trades))
	copy(pairs, p.trades)

	return ResultSet{
		Code:                code,
		Strategy:            strategyName,
		InitialInvestment:   p.investment.InexactFloat64(),
		BuySellPairs:        pairs,
		StrategyROI:         p.ROI(),
		TotalProfit:         p.TotalProfit(),
		TotalProfitPerTrade: p.ProfitPerTrade(),
		TotalNumberOfTrades: p.N(),
		NumberProfitTrades:  p.NumberProfitTrades(),
		NumberLossTrades:    p.NumberLossTrades(),
		PctWin:              pctWin,
		PctLoss:             pctLoss,
		GreatestProfit:      best,
		GreatestLoss:        worst,
	}, nil
}
