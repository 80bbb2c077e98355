package risk

import (
	"time"
)

// 引擎默认参数
const (
	DefaultLookbackDays       = 120
	DefaultBenchmark          = "SPY"
	DefaultPortfolioValue     = 1_000_000
	DefaultPositionNotional   = 100_000
	DefaultRiskBudgetPct      = 0.02
	DefaultADVWindow          = 20
	DefaultTradingDaysPerYear = 252
)

// Request 单次风险评估请求
// 零值字段在求值前由withDefaults补齐；Benchmark与Sector留空表示不做对比
type Request struct {
	Ticker             string    `json:"ticker"`
	EndDate            time.Time `json:"end_date"`
	LookbackDays       int       `json:"lookback_days"`
	Benchmark          string    `json:"benchmark"`
	Sector             string    `json:"sector"`
	ConfidenceLevels   []float64 `json:"confidence_levels"`
	PortfolioValue     float64   `json:"portfolio_value"`
	PositionNotional   float64   `json:"position_notional"`
	RiskBudgetPct      float64   `json:"risk_budget_pct"`
	ADVWindow          int       `json:"adv_window"`
	TradingDaysPerYear int       `json:"trading_days_per_year"`
}

// NewRequest 构建带全部默认值(含默认基准SPY)的请求
func NewRequest(ticker string, end time.Time) Request {
	return Request{
		Ticker:    ticker,
		EndDate:   end,
		Benchmark: DefaultBenchmark,
	}.withDefaults()
}

func (r Request) withDefaults() Request {
	if r.LookbackDays == 0 {
		r.LookbackDays = DefaultLookbackDays
	}
	if len(r.ConfidenceLevels) == 0 {
		r.ConfidenceLevels = []float64{0.95, 0.99}
	}
	if r.PortfolioValue == 0 {
		r.PortfolioValue = DefaultPortfolioValue
	}
	if r.PositionNotional == 0 {
		r.PositionNotional = DefaultPositionNotional
	}
	if r.RiskBudgetPct == 0 {
		r.RiskBudgetPct = DefaultRiskBudgetPct
	}
	if r.ADVWindow == 0 {
		r.ADVWindow = DefaultADVWindow
	}
	if r.TradingDaysPerYear == 0 {
		r.TradingDaysPerYear = DefaultTradingDaysPerYear
	}
	return r
}

// Validate 校验必填字段与置信水平序列
func (r Request) Validate() error {
	if r.Ticker == "" {
		return &InvalidRequestError{Reason: "ticker is required"}
	}
	if r.EndDate.IsZero() {
		return &InvalidRequestError{Reason: "end date is required"}
	}
	if r.LookbackDays < 1 {
		return &InvalidRequestError{Reason: "lookback days must be positive"}
	}
	if len(r.ConfidenceLevels) == 0 {
		return &InvalidRequestError{Reason: "confidence levels are empty"}
	}

	prev := 0.0
	for _, c := range r.ConfidenceLevels {
		if c <= 0 || c >= 1 {
			return &InvalidRequestError{Reason: "confidence levels must be in (0, 1)"}
		}
		if c <= prev {
			return &InvalidRequestError{Reason: "confidence levels must be strictly increasing"}
		}
		prev = c
	}

	if r.PortfolioValue <= 0 || r.PositionNotional <= 0 || r.RiskBudgetPct <= 0 {
		return &InvalidRequestError{Reason: "portfolio value, position notional and risk budget must be positive"}
	}
	if r.ADVWindow < 1 || r.TradingDaysPerYear < 1 {
		return &InvalidRequestError{Reason: "adv window and trading days per year must be positive"}
	}

	return nil
}
