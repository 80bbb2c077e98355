package csvfeed

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/songzhibin97/quantrisk/internal/models"
	"github.com/songzhibin97/quantrisk/internal/utils/request"
)

// CSVFeed 通过HTTP拉取CSV日线数据的行情源
// 远端报文允许若干以'#'或';'开头的注释行，随后是表头
// Date,Open,High,Low,Close,Volume 以及每个交易日一行数据
type CSVFeed struct {
	baseURL    string
	httpClient *resty.Client
}

func NewCSVFeed(baseURL string) *CSVFeed {
	return &CSVFeed{
		baseURL:    baseURL,
		httpClient: request.Request,
	}
}

func (f *CSVFeed) Name() string {
	return "csvfeed"
}

// FetchDailyBars implements data.HistoryProvider interface
func (f *CSVFeed) FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]models.Candle, error) {
	resp, err := f.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"symbol": symbol,
			"start":  start.Format("2006-01-02"),
			"end":    end.Format("2006-01-02"),
		}).
		Get(f.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode())
	}

	return Parse(string(resp.Body())), nil
}

// Parse 解析CSV行情报文
// 跳过注释行、表头和无法解析的行，只保留完整的OHLCV数据行
func Parse(payload string) []models.Candle {
	var candles []models.Candle

	for _, line := range strings.Split(payload, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}

		fields := strings.Split(line, ",")
		if len(fields) < 6 || strings.EqualFold(fields[0], "Date") {
			continue
		}

		date, err := time.Parse("2006-01-02", strings.TrimSpace(fields[0]))
		if err != nil {
			continue
		}

		values := make([]float64, 5)
		ok := true
		for i := 0; i < 5; i++ {
			values[i], err = strconv.ParseFloat(strings.TrimSpace(fields[i+1]), 64)
			if err != nil {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}

		candles = append(candles, models.Candle{
			Date:   date,
			Open:   values[0],
			High:   values[1],
			Low:    values[2],
			Close:  values[3],
			Volume: values[4],
		})
	}

	return candles
}
