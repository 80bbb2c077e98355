package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/songzhibin97/quantrisk/internal/models"

	_ "github.com/lib/pq"
)

// PostgresProvider 基于Postgres行情仓库的历史数据源
// 仓库由独立的回填任务写入，引擎侧只读
type PostgresProvider struct {
	db *sql.DB
}

func NewPostgresProvider(connStr string) (*PostgresProvider, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	p := &PostgresProvider{db: db}

	if err := p.initTables(); err != nil {
		return nil, fmt.Errorf("failed to initialize tables: %w", err)
	}

	return p, nil
}

func (p *PostgresProvider) Name() string {
	return "postgres"
}

// FetchDailyBars implements data.HistoryProvider interface
func (p *PostgresProvider) FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]models.Candle, error) {
	query := `
        SELECT date, open, high, low, close, volume
        FROM daily_bars
        WHERE symbol = $1 AND date BETWEEN $2 AND $3
        ORDER BY date ASC
    `

	rows, err := p.db.QueryContext(ctx, query, symbol, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily bars: %w", err)
	}
	defer rows.Close()

	var candles []models.Candle
	for rows.Next() {
		var c models.Candle
		err := rows.Scan(&c.Date, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily bar: %w", err)
		}
		candles = append(candles, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily bar rows: %w", err)
	}

	return candles, nil
}

// SaveDailyBars 写入回填的日线数据，同一(symbol, date)覆盖更新
func (p *PostgresProvider) SaveDailyBars(ctx context.Context, symbol string, candles []models.Candle) error {
	query := `
        INSERT INTO daily_bars (
            symbol, date, open, high, low, close, volume
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7
        )
        ON CONFLICT (symbol, date) DO UPDATE SET
            open = EXCLUDED.open,
            high = EXCLUDED.high,
            low = EXCLUDED.low,
            close = EXCLUDED.close,
            volume = EXCLUDED.volume
    `

	for _, c := range candles {
		_, err := p.db.ExecContext(ctx, query,
			symbol,
			models.DayUTC(c.Date),
			c.Open,
			c.High,
			c.Low,
			c.Close,
			c.Volume,
		)
		if err != nil {
			return fmt.Errorf("failed to save daily bar: %w", err)
		}
	}

	return nil
}

func (p *PostgresProvider) initTables() error {
	query := `CREATE TABLE IF NOT EXISTS daily_bars (
		id SERIAL PRIMARY KEY,
		symbol VARCHAR(50) NOT NULL,
		date TIMESTAMP NOT NULL,
		open NUMERIC(18, 8),
		high NUMERIC(18, 8),
		low NUMERIC(18, 8),
		close NUMERIC(18, 8),
		volume NUMERIC(24, 8),
		UNIQUE (symbol, date)
	)`

	if _, err := p.db.Exec(query); err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}
	return nil
}
