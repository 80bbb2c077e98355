package data

import (
	"context"
	"time"

	"github.com/songzhibin97/quantrisk/internal/models"
)

// HistoryProvider 历史行情数据源
// 不同的行情供应商(CSV接口、交易所K线、行情仓库)实现同一个接口
type HistoryProvider interface {
	Name() string

	// FetchDailyBars retrieves daily OHLCV bars for a symbol within [start, end]
	FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]models.Candle, error)
}

type Logger interface {
	Error(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
}
