package risk

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/songzhibin97/quantrisk/internal/models"
)

const sigmaFloor = 1e-9

// historicalVaR 历史模拟法VaR：收益率分布的(1-c)分位数
func historicalVaR(returns []float64, confidence float64) HistoricalVaR {
	value := quantileLinear(returns, 1-confidence)

	// 尾部均值作为期望损失，尾部为空时退化为分位数本身
	var tail []float64
	for _, r := range returns {
		if r <= value {
			tail = append(tail, r)
		}
	}
	es := value
	if len(tail) > 0 {
		es = mean(tail)
	}

	return HistoricalVaR{
		Value:              value,
		ExpectedShortfall:  es,
		ConfidenceInterval: varConfidenceInterval(value, returns),
	}
}

// parametricVaR 正态分布拟合VaR，σ下限sigmaFloor避免退化分布
func parametricVaR(returns []float64, confidence float64) ParametricVaR {
	sigma := popStd(returns)
	if sigma < sigmaFloor {
		sigma = sigmaFloor
	}
	dist := distuv.Normal{Mu: mean(returns), Sigma: sigma}
	value := dist.Quantile(1 - confidence)

	return ParametricVaR{
		Value:              value,
		ConfidenceInterval: varConfidenceInterval(value, returns),
	}
}

func varConfidenceInterval(value float64, returns []float64) ConfidenceInterval {
	stderr := popStd(returns) / math.Sqrt(float64(len(returns)))
	return ConfidenceInterval{
		Lower: value - 1.96*stderr,
		Upper: value + 1.96*stderr,
	}
}

func volatility(returns []float64, tradingDaysPerYear int) VolatilityReport {
	daily := popStd(returns)
	return VolatilityReport{
		Annualized: daily * math.Sqrt(float64(tradingDaysPerYear)),
		Daily:      daily,
	}
}

// maxDrawdown 累计净值曲线的峰谷最大回撤及持续天数
func maxDrawdown(returns *ReturnSeries) DrawdownReport {
	growth := make([]float64, returns.Len())
	g := 1.0
	for i, r := range returns.Values {
		g *= 1 + r
		growth[i] = g
	}

	maxPct := 0.0
	trough := 0
	running := math.Inf(-1)
	for i, gi := range growth {
		if gi > running {
			running = gi
		}
		if dd := gi/running - 1; dd < maxPct {
			maxPct = dd
			trough = i
		}
	}

	// 峰值取[0, trough]内累计净值首次达到最大的位置
	peak := 0
	best := growth[0]
	for i := 1; i <= trough; i++ {
		if growth[i] > best {
			best = growth[i]
			peak = i
		}
	}

	duration := int(returns.Dates[trough].Sub(returns.Dates[peak]).Hours() / 24)
	return DrawdownReport{MaxPct: maxPct, DurationDays: duration}
}

// betaAgainst 资产对参照序列的β(总体协方差/总体方差)
// 参照缺失、对齐样本不足两个或参照方差为0时为NaN
func betaAgainst(asset, ref *ReturnSeries) float64 {
	if ref == nil {
		return math.NaN()
	}
	x, y := alignReturns(asset, ref)
	if len(x) < 2 {
		return math.NaN()
	}
	v := popVariance(y)
	if v == 0 {
		return math.NaN()
	}
	return popCovariance(x, y) / v
}

// correlationSnapshot 滚动30日相关性、全期相关性与相关性突变概率
// 基准缺失时相关性为NaN且突变概率取最大值1.0
func correlationSnapshot(asset, bench *ReturnSeries) CorrelationReport {
	out := CorrelationReport{
		Rolling30D:       JSONFloat(math.NaN()),
		FullPeriod:       JSONFloat(math.NaN()),
		BreakProbability: 1.0,
	}
	if bench == nil {
		return out
	}

	x, y := alignReturns(asset, bench)
	if len(x) < 2 {
		return out
	}

	window := 30
	if len(x) < window {
		window = len(x)
	}

	var rolling []float64
	for i := window - 1; i < len(x); i++ {
		rolling = append(rolling, stat.Correlation(x[i-window+1:i+1], y[i-window+1:i+1], nil))
	}

	var valid []float64
	for _, c := range rolling {
		if !math.IsNaN(c) {
			valid = append(valid, c)
		}
	}

	out.FullPeriod = JSONFloat(stat.Correlation(x, y, nil))
	if len(valid) == 0 {
		return out
	}

	latest := valid[len(valid)-1]
	out.Rolling30D = JSONFloat(latest)

	sd := popStd(valid)
	if sd == 0 {
		return out
	}

	z := math.Abs(latest-mean(valid)) / sd
	if z > 10 {
		z = 10
	}
	out.BreakProbability = 2 * (1 - distuv.UnitNormal.CDF(z))
	return out
}

// averageTrueRange 真实波幅的14期滚动均值(最少1个观测)的最新值
func averageTrueRange(series *models.PriceSeries) float64 {
	candles := series.Candles
	if len(candles) == 0 {
		return 0
	}

	trs := make([]float64, len(candles))
	for i, c := range candles {
		tr := c.High - c.Low
		if i > 0 {
			prev := candles[i-1].Close
			tr = math.Max(tr, math.Max(math.Abs(c.High-prev), math.Abs(c.Low-prev)))
		}
		trs[i] = tr
	}

	window := 14
	if len(trs) < window {
		window = len(trs)
	}
	return mean(trs[len(trs)-window:])
}

// liquidityProfile 以近期日均美元成交额估算清仓所需天数
// 假定每天最多消耗ADV的20%
func liquidityProfile(series *models.PriceSeries, advWindow int, positionNotional float64) LiquidityReport {
	candles := series.Candles
	n := advWindow
	if len(candles) < n {
		n = len(candles)
	}

	dollar := make([]float64, 0, n)
	for _, c := range candles[len(candles)-n:] {
		dollar = append(dollar, c.Close*c.Volume)
	}
	adv := mean(dollar)

	return LiquidityReport{
		ADVDollars: adv,
		DaysToExit: positionNotional / math.Max(adv*0.2, 1.0),
	}
}

// stressScenarios β线性敏感度下的确定性压力情景
// 基准β缺失按1.0处理，行业β缺失退化为基准β
func stressScenarios(betaBench, betaSector, annualizedVol, positionNotional, daysToExit float64) StressReport {
	if math.IsNaN(betaBench) {
		betaBench = 1.0
	}
	if math.IsNaN(betaSector) {
		betaSector = betaBench
	}

	return StressReport{
		MarketCrashPct:    betaBench * -0.20,
		SectorRotationPct: betaSector * -0.10,
		VolSpikeCost:      positionNotional * math.Min(0.05, annualizedVol*0.1),
		LiquidityDays:     daysToExit,
	}
}

// positionSizing 按风险预算推导仓位上限与建议仓位
func positionSizing(perUnitRisk float64, req Request) PositionSizingReport {
	riskBudget := req.PortfolioValue * req.RiskBudgetPct
	maxPosition := math.Min(req.PortfolioValue, riskBudget/perUnitRisk)
	optimal := math.Min(req.PositionNotional, maxPosition*0.6)

	return PositionSizingReport{
		MaxPosition:     maxPosition,
		OptimalPosition: optimal,
		MinimumPosition: optimal * 0.25,
	}
}

func stopLevels(atr float64, req Request) StopReport {
	timeStop := req.LookbackDays / 3
	if timeStop < 5 {
		timeStop = 5
	}
	if timeStop > 20 {
		timeStop = 20
	}

	return StopReport{
		ATRStop:      atr * 3,
		TimeStopDays: timeStop,
		FundamentalTrigger: fmt.Sprintf(
			"Exit %s if consensus earnings estimates are revised down by more than 10%%", req.Ticker),
	}
}

// evaluateLimits 三条风险限额：VaR、总敞口、集中度
func evaluateLimits(perUnitRisk, optimalPosition float64, req Request) []RiskLimit {
	rows := []RiskLimit{
		{Metric: "VaR", Current: perUnitRisk, Limit: req.RiskBudgetPct},
		{Metric: "Gross Exposure", Current: req.PositionNotional / req.PortfolioValue, Limit: 0.25},
		{Metric: "Concentration", Current: optimalPosition / req.PortfolioValue, Limit: 0.15},
	}
	for i := range rows {
		rows[i].Status = limitStatus(rows[i].Current, rows[i].Limit)
	}
	return rows
}

func limitStatus(current, limit float64) string {
	switch {
	case current > limit*1.1:
		return "BREACH"
	case current > limit:
		return "WARNING"
	default:
		return "OK"
	}
}
