package risk

import "fmt"

// InvalidRequestError 请求参数非法
type InvalidRequestError struct {
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("invalid risk request: %s", e.Reason)
}

// InsufficientReturnsError 差分之后没有任何可用的收益率
type InsufficientReturnsError struct {
	Symbol string
}

func (e *InsufficientReturnsError) Error() string {
	return fmt.Sprintf("no usable returns for %s", e.Symbol)
}
