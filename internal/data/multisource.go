package data

import (
	"context"
	"fmt"
	"time"

	"github.com/songzhibin97/quantrisk/internal/models"
)

// MultiSourceProvider implements HistoryProvider by trying multiple sources in order
type MultiSourceProvider struct {
	sources []HistoryProvider
	logger  Logger
}

func NewMultiSourceProvider(sources []HistoryProvider, logger Logger) *MultiSourceProvider {
	return &MultiSourceProvider{
		sources: sources,
		logger:  logger,
	}
}

func (p *MultiSourceProvider) Name() string {
	return "multi"
}

// FetchDailyBars implements HistoryProvider interface
func (p *MultiSourceProvider) FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]models.Candle, error) {
	for _, source := range p.sources {
		candles, err := source.FetchDailyBars(ctx, symbol, start, end)
		if err == nil && len(candles) > 0 {
			p.logger.Info("fetched daily bars", "source", source.Name(), "symbol", symbol, "rows", len(candles))
			return candles, nil
		}
		p.logger.Error("failed to fetch daily bars", "source", source.Name(), "symbol", symbol, "error", err)
	}

	return nil, fmt.Errorf("failed to fetch daily bars for %s from all sources", symbol)
}
