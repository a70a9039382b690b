package risk

import "errors"

var (
	ErrPositionLimit = errors.New("position limit exceeded")
	ErrNotionalLimit = errors.New("notional limit exceeded")
	ErrBreakerOpen   = errors.New("circuit breaker open")
	ErrDailyLoss     = errors.New("daily loss limit exceeded")
	ErrMaxDrawdown   = errors.New("max drawdown limit exceeded")
)
