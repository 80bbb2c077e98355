package risk

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/songzhibin97/quantrisk/internal/data"
	"github.com/songzhibin97/quantrisk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	bars map[string][]models.Candle
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]models.Candle, error) {
	return p.bars[symbol], nil
}

var scenarioEnd = time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

// 三条8日合成序列：A为资产，B为基准，C为行业
func scenarioProvider() *stubProvider {
	start := scenarioEnd.AddDate(0, 0, -7)
	return &stubProvider{bars: map[string][]models.Candle{
		"A": makeCandles(start, []float64{100, 102, 101, 103, 105, 104, 107, 106}, 5_000_000),
		"B": makeCandles(start, []float64{400, 401, 398, 404, 406, 405, 407, 409}, 5_000_000),
		"C": makeCandles(start, []float64{150, 151, 149, 152, 153, 154, 155, 156}, 5_000_000),
	}}
}

func scenarioRequest() Request {
	return Request{
		Ticker:           "A",
		EndDate:          scenarioEnd,
		LookbackDays:     7,
		Benchmark:        "B",
		Sector:           "C",
		ConfidenceLevels: []float64{0.95, 0.99},
		PortfolioValue:   1_000_000,
		PositionNotional: 150_000,
	}
}

func TestBasicEngine_Evaluate(t *testing.T) {
	engine := NewBasicEngine(scenarioProvider(), nil)

	result, err := engine.Evaluate(context.Background(), scenarioRequest())
	require.NoError(t, err)
	require.NotNil(t, result)

	t.Run("meta", func(t *testing.T) {
		assert.Equal(t, "A", result.Meta.Ticker)
		assert.Equal(t, "2024-05-10", result.Meta.EndDate)
		assert.Equal(t, 7, result.Meta.LookbackDays)
		assert.Equal(t, 8, result.Meta.DataPoints)
		assert.Equal(t, 106.0, result.Meta.LastPrice)
	})

	t.Run("historical var", func(t *testing.T) {
		hist, ok := result.VaR.Historical["0.95"]
		require.True(t, ok)
		assert.InEpsilon(t, -0.0097198879551821, hist.Value, 1e-6)
		assert.LessOrEqual(t, hist.ExpectedShortfall, hist.Value)
	})

	t.Run("parametric var ordering", func(t *testing.T) {
		p95, ok := result.VaR.Parametric["0.95"]
		require.True(t, ok)
		p99, ok := result.VaR.Parametric["0.99"]
		require.True(t, ok)
		assert.Less(t, p99.Value, p95.Value)
	})

	t.Run("beta vs benchmark", func(t *testing.T) {
		assert.InDelta(t, 1.5087, float64(result.Beta.VsBenchmark), 5e-4)
		assert.False(t, math.IsNaN(float64(result.Beta.VsSector)))
	})

	t.Run("liquidity and stress", func(t *testing.T) {
		assert.Greater(t, result.Liquidity.DaysToExit, 0.0)
		assert.Less(t, result.Stress.MarketCrashPct, 0.0)
		assert.Equal(t, result.Liquidity.DaysToExit, result.Stress.LiquidityDays)
	})

	t.Run("drawdown", func(t *testing.T) {
		assert.LessOrEqual(t, result.Drawdown.MaxPct, 0.0)
	})

	t.Run("risk limits", func(t *testing.T) {
		require.Len(t, result.RiskLimits, 3)
		for _, row := range result.RiskLimits {
			assert.Contains(t, []string{"OK", "WARNING", "BREACH"}, row.Status)
		}
	})
}

func TestBasicEngine_Idempotent(t *testing.T) {
	engine := NewBasicEngine(scenarioProvider(), nil)
	ctx := context.Background()

	first, err := engine.Evaluate(ctx, scenarioRequest())
	require.NoError(t, err)
	second, err := engine.Evaluate(ctx, scenarioRequest())
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)

	assert.Equal(t, firstJSON, secondJSON)
}

func TestBasicEngine_NoBenchmark(t *testing.T) {
	engine := NewBasicEngine(scenarioProvider(), nil)

	req := scenarioRequest()
	req.Benchmark = ""
	req.Sector = ""

	result, err := engine.Evaluate(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, math.IsNaN(float64(result.Beta.VsBenchmark)))
	assert.True(t, math.IsNaN(float64(result.Beta.VsSector)))
	assert.True(t, math.IsNaN(float64(result.Correlation.Rolling30D)))
	assert.True(t, math.IsNaN(float64(result.Correlation.FullPeriod)))
	assert.Equal(t, 1.0, result.Correlation.BreakProbability)

	// β缺失时压力测试退化为β=1
	assert.InDelta(t, -0.20, result.Stress.MarketCrashPct, 1e-12)
	assert.InDelta(t, -0.10, result.Stress.SectorRotationPct, 1e-12)
}

func TestBasicEngine_ReferenceFailureDegrades(t *testing.T) {
	// 基准符号不存在：资产求值继续，β为NaN
	engine := NewBasicEngine(scenarioProvider(), nil)

	req := scenarioRequest()
	req.Benchmark = "MISSING"
	req.Sector = ""

	result, err := engine.Evaluate(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(float64(result.Beta.VsBenchmark)))
}

func TestBasicEngine_InsufficientHistory(t *testing.T) {
	start := scenarioEnd.AddDate(0, 0, -3)
	provider := &stubProvider{bars: map[string][]models.Candle{
		"A": makeCandles(start, []float64{100, 101, 102, 103}, 5_000_000),
	}}
	engine := NewBasicEngine(provider, nil)

	req := scenarioRequest()
	req.Benchmark = ""
	req.Sector = ""

	_, err := engine.Evaluate(context.Background(), req)
	require.Error(t, err)

	var insufficient *data.InsufficientHistoryError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "A", insufficient.Symbol)
	assert.Equal(t, 4, insufficient.Rows)
	assert.Equal(t, 8, insufficient.Min)
}

func TestBasicEngine_EmptyData(t *testing.T) {
	engine := NewBasicEngine(&stubProvider{bars: map[string][]models.Candle{}}, nil)

	req := scenarioRequest()
	req.Benchmark = ""
	req.Sector = ""

	_, err := engine.Evaluate(context.Background(), req)
	require.Error(t, err)

	var empty *data.EmptyDataError
	require.ErrorAs(t, err, &empty)
	assert.Equal(t, "A", empty.Symbol)
}

func TestBasicEngine_InvalidRequest(t *testing.T) {
	engine := NewBasicEngine(scenarioProvider(), nil)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{
			name:   "missing ticker",
			mutate: func(r *Request) { r.Ticker = "" },
		},
		{
			name:   "non monotonic confidence levels",
			mutate: func(r *Request) { r.ConfidenceLevels = []float64{0.99, 0.95} },
		},
		{
			name:   "confidence level out of range",
			mutate: func(r *Request) { r.ConfidenceLevels = []float64{0.95, 1.0} },
		},
		{
			name:   "negative lookback",
			mutate: func(r *Request) { r.LookbackDays = -10 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := scenarioRequest()
			tt.mutate(&req)

			_, err := engine.Evaluate(ctx, req)
			require.Error(t, err)

			var invalid *InvalidRequestError
			assert.True(t, errors.As(err, &invalid))
		})
	}
}

func TestRequestDefaults(t *testing.T) {
	req := NewRequest("AAPL", scenarioEnd)

	assert.Equal(t, DefaultLookbackDays, req.LookbackDays)
	assert.Equal(t, DefaultBenchmark, req.Benchmark)
	assert.Equal(t, []float64{0.95, 0.99}, req.ConfidenceLevels)
	assert.Equal(t, float64(DefaultPortfolioValue), req.PortfolioValue)
	assert.Equal(t, float64(DefaultPositionNotional), req.PositionNotional)
	assert.Equal(t, DefaultRiskBudgetPct, req.RiskBudgetPct)
	assert.Equal(t, DefaultADVWindow, req.ADVWindow)
	assert.Equal(t, DefaultTradingDaysPerYear, req.TradingDaysPerYear)
	assert.NoError(t, req.Validate())
}

func TestReportJSON_NaNAsNull(t *testing.T) {
	engine := NewBasicEngine(scenarioProvider(), nil)

	req := scenarioRequest()
	req.Benchmark = ""
	req.Sector = ""

	result, err := engine.Evaluate(context.Background(), req)
	require.NoError(t, err)

	payload, err := json.Marshal(result)
	require.NoError(t, err)

	assert.Contains(t, string(payload), `"vs_benchmark":null`)
	assert.Contains(t, string(payload), `"rolling_30d":null`)

	// null往返解码后恢复为NaN
	var decoded Report
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.True(t, math.IsNaN(float64(decoded.Beta.VsBenchmark)))
}
