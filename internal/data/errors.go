package data

import "fmt"

// EmptyDataError 行情源没有返回任何可解析的数据
type EmptyDataError struct {
	Symbol string
}

func (e *EmptyDataError) Error() string {
	return fmt.Sprintf("no parsable price data for %s", e.Symbol)
}

// InsufficientHistoryError 截取窗口后的样本数低于最小样本要求
type InsufficientHistoryError struct {
	Symbol string
	Rows   int
	Min    int
}

func (e *InsufficientHistoryError) Error() string {
	return fmt.Sprintf("insufficient history for %s: got %d rows, need at least %d", e.Symbol, e.Rows, e.Min)
}
