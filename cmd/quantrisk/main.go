package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	binanceFeed "github.com/songzhibin97/quantrisk/internal/data/provider/binance"

	"github.com/songzhibin97/quantrisk/internal/data/provider/csvfeed"
	"github.com/songzhibin97/quantrisk/internal/data/provider/postgres"

	deepseekReport "github.com/songzhibin97/quantrisk/internal/report/deepseek"
	openaiReport "github.com/songzhibin97/quantrisk/internal/report/openai"

	"github.com/songzhibin97/quantrisk/internal/configs"
	"github.com/songzhibin97/quantrisk/internal/data"
	"github.com/songzhibin97/quantrisk/internal/report"
	"github.com/songzhibin97/quantrisk/internal/risk"
)

var (
	flagconf string

	log = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		AddSource:   true,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
)

func init() {
	flag.StringVar(&flagconf, "conf", "../configs", "config path, eg: -conf config.json")
}

func main() {
	flag.Parse()

	// 加载配置
	config := &configs.Config{}
	configFile, err := os.ReadFile(flagconf)
	if err != nil {
		log.Error("Error reading config file", "err", err)
		return
	}

	if err := json.Unmarshal(configFile, config); err != nil {
		log.Error("Error parsing config file", "err", err)
		return
	}

	log.Debug("Loaded config", "config", config)

	if config.Proxy != "" {
		_ = os.Setenv("HTTP_PROXY", config.Proxy)
		_ = os.Setenv("HTTPS_PROXY", config.Proxy)
		log.Debug("set proxy ok", "proxy", config.Proxy)
	}

	// 初始化行情源
	provider, err := buildProvider(config)
	if err != nil {
		log.Error("Error building history provider", "err", err)
		return
	}

	log.Debug("init provider", "name", provider.Name())

	// 初始化风险引擎
	engine := risk.NewBasicEngine(provider, log)

	log.Debug("init engine")

	narrator := buildNarrator(config)

	end := time.Now()
	if config.EndDate != "" {
		end, err = time.Parse("2006-01-02", config.EndDate)
		if err != nil {
			log.Error("Error parsing end date", "err", err)
			return
		}
	}

	ctx := context.Background()

	// 逐个标的求值并输出报告
	for _, ticker := range config.Tickers {
		result, err := engine.Evaluate(ctx, config.Engine.Request(ticker, end))
		if err != nil {
			log.Error("failed to evaluate risk", "ticker", ticker, "err", err)
			continue
		}

		payload, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			log.Error("failed to marshal report", "ticker", ticker, "err", err)
			continue
		}

		if narrator == nil {
			fmt.Println(string(payload))
			continue
		}

		summary, err := narrator.Narrate(ctx, result)
		if err != nil {
			log.Error("failed to narrate report", "ticker", ticker, "err", err)
			fmt.Println(string(payload))
			continue
		}
		fmt.Println(summary)
	}
}

// buildProvider 按配置组装行情源，配置了多个时按仓库->CSV->交易所的顺序逐个尝试
func buildProvider(config *configs.Config) (data.HistoryProvider, error) {
	var sources []data.HistoryProvider

	if config.Database.ConnStr != "" {
		pg, err := postgres.NewPostgresProvider(config.Database.ConnStr)
		if err != nil {
			return nil, err
		}
		sources = append(sources, pg)
	}

	if config.Feed.CSVBaseURL != "" {
		sources = append(sources, csvfeed.NewCSVFeed(config.Feed.CSVBaseURL))
	}

	if config.Feed.Exchange.Enabled {
		sources = append(sources, binanceFeed.NewBinanceProvider(
			config.Feed.Exchange.APIKey,
			config.Feed.Exchange.SecretKey,
			config.Feed.Exchange.Debug,
		))
	}

	switch len(sources) {
	case 0:
		return nil, fmt.Errorf("no history provider configured")
	case 1:
		return sources[0], nil
	default:
		return data.NewMultiSourceProvider(sources, log), nil
	}
}

func buildNarrator(config *configs.Config) report.Narrator {
	if !config.AIConfig.Narrate {
		return nil
	}

	switch config.AIConfig.Provider {
	case "openai":
		return openaiReport.NewOpenAINarrator(config.AIConfig.APIKey, config.AIConfig.ModelType)
	default:
		return deepseekReport.NewDeepSeekNarrator(config.AIConfig.APIKey, config.AIConfig.ModelType)
	}
}
