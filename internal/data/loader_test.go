package data

import (
	"context"
	"testing"
	"time"

	"github.com/songzhibin97/quantrisk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	candles   []models.Candle
	err       error
	lastStart time.Time
	lastEnd   time.Time
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]models.Candle, error) {
	p.lastStart, p.lastEnd = start, end
	return p.candles, p.err
}

func dailyCandles(end time.Time, n int) []models.Candle {
	candles := make([]models.Candle, 0, n)
	for i := n - 1; i >= 0; i-- {
		candles = append(candles, models.Candle{
			Date:   end.AddDate(0, 0, -i),
			Open:   100,
			High:   101,
			Low:    99,
			Close:  100,
			Volume: 1000,
		})
	}
	return candles
}

func TestMinRows(t *testing.T) {
	tests := []struct {
		name         string
		lookbackDays int
		want         int
	}{
		{name: "tiny lookback floors at five", lookbackDays: 3, want: 5},
		{name: "short lookback", lookbackDays: 7, want: 8},
		{name: "just below cap", lookbackDays: 58, want: 59},
		{name: "capped at sixty", lookbackDays: 120, want: 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MinRows(tt.lookbackDays))
		})
	}
}

func TestLoader_LoadWindow(t *testing.T) {
	end := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()

	t.Run("fetch window extends five days beyond lookback", func(t *testing.T) {
		provider := &fakeProvider{candles: dailyCandles(end, 20)}
		loader := NewLoader(provider)

		_, err := loader.LoadWindow(ctx, "AAPL", end, 10)
		require.NoError(t, err)

		assert.Equal(t, end.AddDate(0, 0, -15), provider.lastStart)
		assert.Equal(t, end, provider.lastEnd)
	})

	t.Run("truncates to lookback plus one days", func(t *testing.T) {
		provider := &fakeProvider{candles: dailyCandles(end, 20)}
		loader := NewLoader(provider)

		series, err := loader.LoadWindow(ctx, "AAPL", end, 10)
		require.NoError(t, err)

		// [end-11d, end] 共12个日历日
		assert.Equal(t, 12, series.Len())
		assert.Equal(t, end.AddDate(0, 0, -11), series.Candles[0].Date)
		assert.Equal(t, end, series.Candles[series.Len()-1].Date)
	})

	t.Run("insufficient history", func(t *testing.T) {
		provider := &fakeProvider{candles: dailyCandles(end, 4)}
		loader := NewLoader(provider)

		_, err := loader.LoadWindow(ctx, "AAPL", end, 10)
		require.Error(t, err)

		var insufficient *InsufficientHistoryError
		require.ErrorAs(t, err, &insufficient)
		assert.Equal(t, "AAPL", insufficient.Symbol)
		assert.Equal(t, 4, insufficient.Rows)
		assert.Equal(t, 11, insufficient.Min)
	})

	t.Run("empty data", func(t *testing.T) {
		loader := NewLoader(&fakeProvider{})

		_, err := loader.LoadWindow(ctx, "AAPL", end, 10)
		require.Error(t, err)

		var empty *EmptyDataError
		require.ErrorAs(t, err, &empty)
		assert.Equal(t, "AAPL", empty.Symbol)
	})

	t.Run("provider error is wrapped", func(t *testing.T) {
		provider := &fakeProvider{err: assert.AnError}
		loader := NewLoader(provider)

		_, err := loader.LoadWindow(ctx, "AAPL", end, 10)
		require.Error(t, err)
		assert.ErrorIs(t, err, assert.AnError)
	})
}

type nopLogger struct{}

func (nopLogger) Error(msg string, fields ...interface{}) {}
func (nopLogger) Info(msg string, fields ...interface{})  {}

func TestMultiSourceProvider(t *testing.T) {
	end := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()

	t.Run("falls back to next source", func(t *testing.T) {
		broken := &fakeProvider{err: assert.AnError}
		healthy := &fakeProvider{candles: dailyCandles(end, 10)}
		multi := NewMultiSourceProvider([]HistoryProvider{broken, healthy}, nopLogger{})

		candles, err := multi.FetchDailyBars(ctx, "AAPL", end.AddDate(0, 0, -10), end)
		require.NoError(t, err)
		assert.Len(t, candles, 10)
	})

	t.Run("all sources failing", func(t *testing.T) {
		multi := NewMultiSourceProvider([]HistoryProvider{
			&fakeProvider{err: assert.AnError},
			&fakeProvider{}, // 返回空也视为失败
		}, nopLogger{})

		_, err := multi.FetchDailyBars(ctx, "AAPL", end.AddDate(0, 0, -10), end)
		assert.Error(t, err)
	})
}
