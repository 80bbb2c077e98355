package risk

import (
	"time"

	"github.com/songzhibin97/quantrisk/internal/models"
)

// ReturnSeries 逐日简单收益率序列，保留日期用于与基准/行业序列对齐
type ReturnSeries struct {
	Dates  []time.Time
	Values []float64
}

// Len 返回序列长度
func (s *ReturnSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Values)
}

// BuildReturns 由收盘价计算逐日简单收益率 close[i]/close[i-1] - 1
// 首日收益率无定义被丢弃
func BuildReturns(series *models.PriceSeries) (*ReturnSeries, error) {
	if series.Len() < 2 {
		return nil, &InsufficientReturnsError{Symbol: series.Symbol}
	}

	candles := series.Candles
	out := &ReturnSeries{
		Dates:  make([]time.Time, 0, len(candles)-1),
		Values: make([]float64, 0, len(candles)-1),
	}
	for i := 1; i < len(candles); i++ {
		out.Dates = append(out.Dates, candles[i].Date)
		out.Values = append(out.Values, candles[i].Close/candles[i-1].Close-1)
	}

	return out, nil
}

// alignReturns 按日期对齐两个收益率序列，任一侧缺失的日期被丢弃
// 返回的两个切片等长且保持a的时间顺序
func alignReturns(a, b *ReturnSeries) (x, y []float64) {
	if a.Len() == 0 || b.Len() == 0 {
		return nil, nil
	}

	byDate := make(map[time.Time]float64, b.Len())
	for i, d := range b.Dates {
		byDate[d] = b.Values[i]
	}

	for i, d := range a.Dates {
		if v, ok := byDate[d]; ok {
			x = append(x, a.Values[i])
			y = append(y, v)
		}
	}
	return x, y
}
