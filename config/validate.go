package config

import "fmt"

// ErrInvalid 用于参数验证错误。
type ErrInvalid string

func (e ErrInvalid) Error() string { return string(e) }

// Validate ensures required fields are present and flag-style fields are not
// negative. Model-level validation happens again when the strategy is built.
func Validate(cfg AppConfig) error {
	if cfg.Env == "" {
		return ErrInvalid("env is required")
	}
	if cfg.Strategy.Gamma <= 0 {
		return ErrInvalid("strategy.gamma must be > 0")
	}
	if cfg.Strategy.Sigma <= 0 {
		return ErrInvalid("strategy.sigma must be > 0")
	}
	if cfg.Strategy.K <= 0 {
		return ErrInvalid("strategy.k must be > 0")
	}
	if cfg.Strategy.TimeHorizon <= 0 {
		return ErrInvalid("strategy.timeHorizon must be > 0")
	}
	if cfg.Session.InitialEquity <= 0 {
		return ErrInvalid("session.initialEquity must be > 0")
	}
	if cfg.Session.QuoteSize <= 0 {
		return ErrInvalid("session.quoteSize must be > 0")
	}
	if cfg.Session.QuoteIntervalMs < 0 {
		return ErrInvalid("session.quoteIntervalMs must be >= 0")
	}
	if cfg.Risk.Limits.MaxPositionUnits < 0 {
		return ErrInvalid("risk.limits.maxPositionUnits must be >= 0")
	}
	if cfg.Risk.Limits.MaxNotional < 0 {
		return ErrInvalid("risk.limits.maxNotional must be >= 0")
	}
	if cfg.Risk.Limits.OrderScale < 0 || cfg.Risk.Limits.OrderScale > 1 {
		return ErrInvalid("risk.limits.orderScale must be in [0, 1]")
	}
	if cfg.Risk.Breaker.MaxDailyLoss < 0 {
		return ErrInvalid("risk.breaker.maxDailyLoss must be >= 0")
	}
	if cfg.Risk.Breaker.MaxConsecutiveLosses < 0 {
		return ErrInvalid("risk.breaker.maxConsecutiveLosses must be >= 0")
	}
	if cfg.Risk.Breaker.RapidDrawdownPct < 0 || cfg.Risk.Breaker.RapidDrawdownPct >= 1 {
		return ErrInvalid("risk.breaker.rapidDrawdownPct must be in [0, 1)")
	}
	if cfg.Risk.Breaker.DrawdownWindowSec < 0 {
		return ErrInvalid("risk.breaker.drawdownWindowSec must be >= 0")
	}
	if cfg.Risk.Breaker.CooldownSec < 0 {
		return ErrInvalid("risk.breaker.cooldownSec must be >= 0")
	}
	if cfg.Risk.PnL.DailyLossLimit < 0 {
		return ErrInvalid("risk.pnl.dailyLossLimit must be >= 0")
	}
	if cfg.Risk.PnL.MaxDrawdownLimit < 0 || cfg.Risk.PnL.MaxDrawdownLimit >= 1 {
		return ErrInvalid("risk.pnl.maxDrawdownLimit must be in [0, 1)")
	}
	switch cfg.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return ErrInvalid(fmt.Sprintf("logging.level %q is not one of debug/info/warn/error", cfg.Logging.Level))
	}
	if cfg.Metrics.Enabled && cfg.Metrics.Addr == "" {
		return ErrInvalid("metrics.addr is required when metrics.enabled")
	}
	return nil
}
