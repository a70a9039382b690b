package config

import "fmt"

// 热更新时收紧的参数范围，防止手滑写入离谱的值后立刻生效。
const (
	maxGamma       = 10.0
	maxSigma       = 100.0
	maxK           = 1000.0
	maxTimeHorizon = 24.0
)

// ValidateParams 在 Validate 之上进一步限制热更新可接受的参数范围。
func ValidateParams(cfg AppConfig) error {
	if cfg.Strategy.Gamma > maxGamma {
		return ErrInvalid(fmt.Sprintf("strategy.gamma must be in (0, %g], got %g", maxGamma, cfg.Strategy.Gamma))
	}
	if cfg.Strategy.Sigma > maxSigma {
		return ErrInvalid(fmt.Sprintf("strategy.sigma must be in (0, %g], got %g", maxSigma, cfg.Strategy.Sigma))
	}
	if cfg.Strategy.K > maxK {
		return ErrInvalid(fmt.Sprintf("strategy.k must be in (0, %g], got %g", maxK, cfg.Strategy.K))
	}
	if cfg.Strategy.TimeHorizon > maxTimeHorizon {
		return ErrInvalid(fmt.Sprintf("strategy.timeHorizon must be in (0, %g], got %g", maxTimeHorizon, cfg.Strategy.TimeHorizon))
	}
	return nil
}
