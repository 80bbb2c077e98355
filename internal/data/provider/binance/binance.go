package binance

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/songzhibin97/quantrisk/internal/models"
)

// BinanceProvider 基于Binance日线K线的行情源
type BinanceProvider struct {
	client *binance.Client
}

// NewBinanceProvider creates a new BinanceProvider instance
func NewBinanceProvider(apiKey, secretKey string, debug ...bool) *BinanceProvider {
	debug = append(debug, false)
	if debug[0] {
		binance.UseTestnet = true
	}

	return &BinanceProvider{
		client: binance.NewClient(apiKey, secretKey),
	}
}

func (b *BinanceProvider) Name() string {
	return "binance"
}

// FetchDailyBars implements data.HistoryProvider interface
func (b *BinanceProvider) FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]models.Candle, error) {
	klines, err := b.client.NewKlinesService().
		Symbol(symbol).
		Interval("1d").
		StartTime(start.UnixMilli()).
		// K线按开盘时间过滤，终点放宽到end当日结束
		EndTime(end.AddDate(0, 0, 1).UnixMilli() - 1).
		Limit(1000).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch klines: %w", err)
	}

	candles := make([]models.Candle, 0, len(klines))
	for _, k := range klines {
		candle, err := convertKline(k)
		if err != nil {
			return nil, err
		}
		candles = append(candles, candle)
	}

	return candles, nil
}

func convertKline(k *binance.Kline) (models.Candle, error) {
	fields := map[string]string{
		"open":   k.Open,
		"high":   k.High,
		"low":    k.Low,
		"close":  k.Close,
		"volume": k.Volume,
	}

	parsed := make(map[string]float64, len(fields))
	for name, raw := range fields {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return models.Candle{}, fmt.Errorf("failed to parse kline %s: %w", name, err)
		}
		parsed[name] = v
	}

	return models.Candle{
		Date:   models.DayUTC(time.UnixMilli(k.OpenTime)),
		Open:   parsed["open"],
		High:   parsed["high"],
		Low:    parsed["low"],
		Close:  parsed["close"],
		Volume: parsed["volume"],
	}, nil
}
