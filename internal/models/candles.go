package models

import (
	"sort"
	"time"
)

// Candle 单个交易日的K线(OHLCV)数据
type Candle struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PriceSeries 单一标的按日期升序排列的历史行情
// 日期严格递增且唯一
type PriceSeries struct {
	Symbol  string   `json:"symbol"`
	Candles []Candle `json:"candles"`
}

// NewPriceSeries 构建价格序列：日期归一化到UTC零点，按日期排序，重复日期保留最后一条
func NewPriceSeries(symbol string, candles []Candle) *PriceSeries {
	normalized := make([]Candle, len(candles))
	copy(normalized, candles)
	for i := range normalized {
		normalized[i].Date = DayUTC(normalized[i].Date)
	}

	sort.SliceStable(normalized, func(i, j int) bool {
		return normalized[i].Date.Before(normalized[j].Date)
	})

	deduped := normalized[:0]
	for _, c := range normalized {
		if n := len(deduped); n > 0 && deduped[n-1].Date.Equal(c.Date) {
			deduped[n-1] = c
			continue
		}
		deduped = append(deduped, c)
	}

	return &PriceSeries{Symbol: symbol, Candles: deduped}
}

// Len 返回序列长度
func (s *PriceSeries) Len() int {
	return len(s.Candles)
}

// LastClose 返回最后一个交易日的收盘价，空序列返回0
func (s *PriceSeries) LastClose() float64 {
	if len(s.Candles) == 0 {
		return 0
	}
	return s.Candles[len(s.Candles)-1].Close
}

// Truncate 返回位于[start, end]闭区间内的子序列
func (s *PriceSeries) Truncate(start, end time.Time) *PriceSeries {
	start, end = DayUTC(start), DayUTC(end)

	var kept []Candle
	for _, c := range s.Candles {
		if c.Date.Before(start) || c.Date.After(end) {
			continue
		}
		kept = append(kept, c)
	}
	return &PriceSeries{Symbol: s.Symbol, Candles: kept}
}

// DayUTC 将时间截断为UTC零点，用作日线数据的规范日期
func DayUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
