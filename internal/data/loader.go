package data

import (
	"context"
	"fmt"
	"time"

	"github.com/songzhibin97/quantrisk/internal/models"
)

// Loader 为风险引擎加载并校验一段有界的历史行情窗口
type Loader struct {
	provider HistoryProvider
}

func NewLoader(provider HistoryProvider) *Loader {
	return &Loader{provider: provider}
}

// MinRows 返回给定回看窗口所要求的最小样本数
func MinRows(lookbackDays int) int {
	n := lookbackDays + 1
	if n > 60 {
		n = 60
	}
	if n < 5 {
		n = 5
	}
	return n
}

// LoadWindow 抓取end之前lookbackDays+5个日历日的数据，
// 截取到[end-(lookbackDays+1)d, end]并检查样本是否充足
func (l *Loader) LoadWindow(ctx context.Context, symbol string, end time.Time, lookbackDays int) (*models.PriceSeries, error) {
	end = models.DayUTC(end)
	fetchStart := end.AddDate(0, 0, -(lookbackDays + 5))

	candles, err := l.provider.FetchDailyBars(ctx, symbol, fetchStart, end)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history for %s: %w", symbol, err)
	}
	if len(candles) == 0 {
		return nil, &EmptyDataError{Symbol: symbol}
	}

	series := models.NewPriceSeries(symbol, candles).
		Truncate(end.AddDate(0, 0, -(lookbackDays+1)), end)

	if min := MinRows(lookbackDays); series.Len() < min {
		return nil, &InsufficientHistoryError{Symbol: symbol, Rows: series.Len(), Min: min}
	}

	return series, nil
}
