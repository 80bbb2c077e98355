package risk

import (
	"encoding/json"
	"math"
)

// JSONFloat NaN在JSON中序列化为null，消费方将null视为"未定义"
type JSONFloat float64

func (f JSONFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

func (f *JSONFloat) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = JSONFloat(math.NaN())
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = JSONFloat(v)
	return nil
}

// Report 结构化风险报告，由一次求值生成后不再修改
type Report struct {
	Meta           Meta                 `json:"meta"`
	VaR            VaRReport            `json:"var"`
	Volatility     VolatilityReport     `json:"volatility"`
	Drawdown       DrawdownReport       `json:"drawdown"`
	Beta           BetaReport           `json:"beta"`
	Correlation    CorrelationReport    `json:"correlation"`
	Liquidity      LiquidityReport      `json:"liquidity"`
	Stress         StressReport         `json:"stress"`
	PositionSizing PositionSizingReport `json:"position_sizing"`
	Stops          StopReport           `json:"stops"`
	RiskLimits     []RiskLimit          `json:"risk_limits"`
}

// Meta 本次求值的元信息
type Meta struct {
	Ticker       string  `json:"ticker"`
	EndDate      string  `json:"end_date"`
	LookbackDays int     `json:"lookback_days"`
	DataPoints   int     `json:"data_points"`
	LastPrice    float64 `json:"last_price"`
}

// VaRReport 按置信水平("0.95"等)索引的VaR估计
type VaRReport struct {
	Historical map[string]HistoricalVaR `json:"historical"`
	Parametric map[string]ParametricVaR `json:"parametric"`
}

type ConfidenceInterval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

type HistoricalVaR struct {
	Value              float64            `json:"value"`
	ExpectedShortfall  float64            `json:"expected_shortfall"`
	ConfidenceInterval ConfidenceInterval `json:"confidence_interval"`
}

type ParametricVaR struct {
	Value              float64            `json:"value"`
	ConfidenceInterval ConfidenceInterval `json:"confidence_interval"`
}

type VolatilityReport struct {
	Annualized float64 `json:"annualized"`
	Daily      float64 `json:"daily"`
}

type DrawdownReport struct {
	MaxPct       float64 `json:"max_pct"`
	DurationDays int     `json:"duration_days"`
}

// BetaReport 基准或行业序列缺失/退化时对应字段为NaN
type BetaReport struct {
	VsBenchmark JSONFloat `json:"vs_benchmark"`
	VsSector    JSONFloat `json:"vs_sector"`
}

type CorrelationReport struct {
	Rolling30D       JSONFloat `json:"rolling_30d"`
	FullPeriod       JSONFloat `json:"full_period"`
	BreakProbability float64   `json:"break_probability"`
}

type LiquidityReport struct {
	ADVDollars float64 `json:"adv_dollars"`
	DaysToExit float64 `json:"days_to_exit"`
}

type StressReport struct {
	MarketCrashPct    float64 `json:"market_crash_pct"`
	SectorRotationPct float64 `json:"sector_rotation_pct"`
	VolSpikeCost      float64 `json:"vol_spike_cost"`
	LiquidityDays     float64 `json:"liquidity_days"`
}

type PositionSizingReport struct {
	MaxPosition     float64 `json:"max_position"`
	OptimalPosition float64 `json:"optimal_position"`
	MinimumPosition float64 `json:"minimum_position"`
}

type StopReport struct {
	ATRStop            float64 `json:"atr_stop"`
	TimeStopDays       int     `json:"time_stop_days"`
	FundamentalTrigger string  `json:"fundamental_trigger"`
}

// RiskLimit 单条风险限额的评估结果
type RiskLimit struct {
	Metric  string  `json:"metric"`
	Current float64 `json:"current"`
	Limit   float64 `json:"limit"`
	Status  string  `json:"status"`
}
