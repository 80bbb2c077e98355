package risk

import (
	"context"
	"math"
	"strconv"

	"github.com/songzhibin97/quantrisk/internal/data"
)

// BasicEngine 实现Engine接口
// 同步且无状态：一次求值是(请求, 外部行情数据)的纯函数，可安全并发调用
type BasicEngine struct {
	loader *data.Loader
	logger Logger
}

func NewBasicEngine(provider data.HistoryProvider, logger Logger) *BasicEngine {
	if logger == nil {
		logger = nopLogger{}
	}
	return &BasicEngine{
		loader: data.NewLoader(provider),
		logger: logger,
	}
}

// Evaluate implements Engine interface
func (e *BasicEngine) Evaluate(ctx context.Context, req Request) (*Report, error) {
	req = req.withDefaults()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	series, err := e.loader.LoadWindow(ctx, req.Ticker, req.EndDate, req.LookbackDays)
	if err != nil {
		return nil, err
	}

	returns, err := BuildReturns(series)
	if err != nil {
		return nil, err
	}

	// 基准/行业序列加载失败不阻断资产求值，相关指标退化为NaN
	benchReturns := e.loadReference(ctx, req.Benchmark, req)
	sectorReturns := e.loadReference(ctx, req.Sector, req)

	historical := make(map[string]HistoricalVaR, len(req.ConfidenceLevels))
	parametric := make(map[string]ParametricVaR, len(req.ConfidenceLevels))
	for _, c := range req.ConfidenceLevels {
		key := confidenceKey(c)
		historical[key] = historicalVaR(returns.Values, c)
		parametric[key] = parametricVaR(returns.Values, c)
	}

	vol := volatility(returns.Values, req.TradingDaysPerYear)
	betaBench := betaAgainst(returns, benchReturns)
	betaSector := betaAgainst(returns, sectorReturns)
	liquidity := liquidityProfile(series, req.ADVWindow, req.PositionNotional)

	// 首个置信水平的历史VaR幅度作为单位仓位风险
	perUnitRisk := math.Abs(historical[confidenceKey(req.ConfidenceLevels[0])].Value)
	if perUnitRisk < 1e-6 {
		perUnitRisk = 1e-6
	}
	sizing := positionSizing(perUnitRisk, req)

	return &Report{
		Meta: Meta{
			Ticker:       req.Ticker,
			EndDate:      req.EndDate.Format("2006-01-02"),
			LookbackDays: req.LookbackDays,
			DataPoints:   series.Len(),
			LastPrice:    series.LastClose(),
		},
		VaR:        VaRReport{Historical: historical, Parametric: parametric},
		Volatility: vol,
		Drawdown:   maxDrawdown(returns),
		Beta: BetaReport{
			VsBenchmark: JSONFloat(betaBench),
			VsSector:    JSONFloat(betaSector),
		},
		Correlation: correlationSnapshot(returns, benchReturns),
		Liquidity:   liquidity,
		Stress: stressScenarios(
			betaBench, betaSector, vol.Annualized, req.PositionNotional, liquidity.DaysToExit),
		PositionSizing: sizing,
		Stops:          stopLevels(averageTrueRange(series), req),
		RiskLimits:     evaluateLimits(perUnitRisk, sizing.OptimalPosition, req),
	}, nil
}

// loadReference 加载基准/行业收益率序列，符号为空或加载失败时返回nil
func (e *BasicEngine) loadReference(ctx context.Context, symbol string, req Request) *ReturnSeries {
	if symbol == "" {
		return nil
	}

	series, err := e.loader.LoadWindow(ctx, symbol, req.EndDate, req.LookbackDays)
	if err != nil {
		e.logger.Error("failed to load reference series", "symbol", symbol, "error", err)
		return nil
	}

	returns, err := BuildReturns(series)
	if err != nil {
		e.logger.Error("failed to build reference returns", "symbol", symbol, "error", err)
		return nil
	}
	return returns
}

func confidenceKey(c float64) string {
	return strconv.FormatFloat(c, 'g', -1, 64)
}

type nopLogger struct{}

func (nopLogger) Error(msg string, fields ...interface{}) {}
func (nopLogger) Info(msg string, fields ...interface{})  {}
