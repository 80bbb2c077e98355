package configs

import (
	"time"

	"github.com/songzhibin97/quantrisk/internal/risk"
)

type Config struct {
	// 基础配置
	Tickers []string `json:"tickers" yaml:"tickers"`   // 待评估标的列表
	EndDate string   `json:"end_date" yaml:"end_date"` // 评估截止日(YYYY-MM-DD)，留空取当天
	Proxy   string   `json:"proxy" yaml:"proxy"`

	// 风险引擎参数
	Engine EngineConfig `json:"engine" yaml:"engine"`

	// 行情源配置
	Feed FeedConfig `json:"feed" yaml:"feed"`

	Database Database `json:"database" yaml:"database"`

	// AI 摘要参数
	AIConfig AIConfig `json:"ai_config" yaml:"ai_config"`
}

type EngineConfig struct {
	LookbackDays       int       `json:"lookback_days" yaml:"lookback_days"`
	Benchmark          string    `json:"benchmark" yaml:"benchmark"` // 基准符号，留空表示不做对比
	Sector             string    `json:"sector" yaml:"sector"`       // 行业符号(可选)
	ConfidenceLevels   []float64 `json:"confidence_levels" yaml:"confidence_levels"`
	PortfolioValue     float64   `json:"portfolio_value" yaml:"portfolio_value"`
	PositionNotional   float64   `json:"position_notional" yaml:"position_notional"`
	RiskBudgetPct      float64   `json:"risk_budget_pct" yaml:"risk_budget_pct"`
	ADVWindow          int       `json:"adv_window" yaml:"adv_window"`
	TradingDaysPerYear int       `json:"trading_days_per_year" yaml:"trading_days_per_year"`
}

// Request 由配置构建单个标的的风险评估请求，零值参数由引擎补默认值
func (c EngineConfig) Request(ticker string, end time.Time) risk.Request {
	return risk.Request{
		Ticker:             ticker,
		EndDate:            end,
		LookbackDays:       c.LookbackDays,
		Benchmark:          c.Benchmark,
		Sector:             c.Sector,
		ConfidenceLevels:   c.ConfidenceLevels,
		PortfolioValue:     c.PortfolioValue,
		PositionNotional:   c.PositionNotional,
		RiskBudgetPct:      c.RiskBudgetPct,
		ADVWindow:          c.ADVWindow,
		TradingDaysPerYear: c.TradingDaysPerYear,
	}
}

type FeedConfig struct {
	CSVBaseURL string         `json:"csv_base_url" yaml:"csv_base_url"` // CSV行情接口地址
	Exchange   ExchangeConfig `json:"exchange" yaml:"exchange"`         // 交易所K线源(可选)
}

type ExchangeConfig struct {
	Enabled   bool   `json:"enabled" yaml:"enabled"`
	Debug     bool   `json:"debug" yaml:"debug"`
	APIKey    string `json:"api_key" yaml:"api_key"`       // 交易所API密钥
	SecretKey string `json:"secret_key" yaml:"secret_key"` // 交易所密钥
}

type Database struct {
	ConnStr string `json:"conn_str" yaml:"conn_str"` // 行情仓库连接串，配置后优先作为数据源
}

type AIConfig struct {
	Narrate   bool   `json:"narrate" yaml:"narrate"`       // 是否生成AI摘要
	Provider  string `json:"provider" yaml:"provider"`     // openai 或 deepseek
	APIKey    string `json:"api_key" yaml:"api_key"`       // AI服务API密钥
	ModelType string `json:"model_type" yaml:"model_type"` // AI模型类型
}
