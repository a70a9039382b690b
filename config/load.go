package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// AppConfig holds the main runtime configuration.
type AppConfig struct {
	Env      string         `yaml:"env"`
	Strategy StrategyParams `yaml:"strategy"`
	Session  SessionParams  `yaml:"session"`
	Risk     RiskParams     `yaml:"risk"`
	Logging  LoggingParams  `yaml:"logging"`
	Metrics  MetricsParams  `yaml:"metrics"`
}

// StrategyParams Avellaneda-Stoikov 模型参数。
type StrategyParams struct {
	Gamma       float64 `yaml:"gamma"`       // 风险厌恶系数 γ
	Sigma       float64 `yaml:"sigma"`       // 波动率 σ
	K           float64 `yaml:"k"`           // 订单簿流动性参数 κ
	TimeHorizon float64 `yaml:"timeHorizon"` // 交易时段长度 T
}

// SessionParams 报价会话参数。
type SessionParams struct {
	Symbol          string  `yaml:"symbol"`
	InitialEquity   float64 `yaml:"initialEquity"`
	QuoteSize       float64 `yaml:"quoteSize"`       // 每侧报价数量
	QuoteIntervalMs int     `yaml:"quoteIntervalMs"` // 报价基础周期（毫秒）
}

type RiskParams struct {
	Limits  LimitParams   `yaml:"limits"`
	Breaker BreakerParams `yaml:"breaker"`
	PnL     PnLParams     `yaml:"pnl"`
}

// LimitParams 事前风控限额，0 表示不启用。
type LimitParams struct {
	MaxPositionUnits float64 `yaml:"maxPositionUnits"`
	MaxNotional      float64 `yaml:"maxNotional"`
	OrderScale       float64 `yaml:"orderScale"`
}

// BreakerParams 熔断阈值，0 表示不启用对应触发器。
type BreakerParams struct {
	MaxDailyLoss         float64 `yaml:"maxDailyLoss"`
	MaxConsecutiveLosses int     `yaml:"maxConsecutiveLosses"`
	RapidDrawdownPct     float64 `yaml:"rapidDrawdownPct"`
	DrawdownWindowSec    int     `yaml:"drawdownWindowSec"`
	CooldownSec          int     `yaml:"cooldownSec"`
}

// PnLParams 盈亏监控限额，0 表示不启用。
type PnLParams struct {
	DailyLossLimit   float64 `yaml:"dailyLossLimit"`
	MaxDrawdownLimit float64 `yaml:"maxDrawdownLimit"`
	MinPnLThreshold  float64 `yaml:"minPnlThreshold"`
}

type LoggingParams struct {
	Level string `yaml:"level"` // debug/info/warn/error
	File  string `yaml:"file"`  // 为空时仅输出到 stdout
}

type MetricsParams struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Default returns a runnable configuration for local experiments.
func Default() AppConfig {
	return AppConfig{
		Env: "dev",
		Strategy: StrategyParams{
			Gamma:       0.1,
			Sigma:       2.0,
			K:           1.5,
			TimeHorizon: 1.0,
		},
		Session: SessionParams{
			Symbol:          "ETHUSDC",
			InitialEquity:   10000,
			QuoteSize:       1,
			QuoteIntervalMs: 1000,
		},
		Risk: RiskParams{
			Limits: LimitParams{
				MaxPositionUnits: 10,
				MaxNotional:      100000,
				OrderScale:       1,
			},
			Breaker: BreakerParams{
				MaxDailyLoss:         500,
				MaxConsecutiveLosses: 10,
				RapidDrawdownPct:     0.05,
				DrawdownWindowSec:    60,
				CooldownSec:          300,
			},
			PnL: PnLParams{
				DailyLossLimit:   500,
				MaxDrawdownLimit: 0.05,
				MinPnLThreshold:  -100,
			},
		},
		Logging: LoggingParams{Level: "info"},
		Metrics: MetricsParams{Enabled: true, Addr: ":9090"},
	}
}

// Load reads YAML config from path and applies basic validation.
func Load(path string) (AppConfig, error) {
	var cfg AppConfig
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadWithEnvOverrides loads config then overrides selected fields from env
// vars if present. MM_STRATEGY_* overrides exist so parameter experiments do
// not require editing the file.
func LoadWithEnvOverrides(path string) (AppConfig, error) {
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	if v := os.Getenv("MM_ENV"); v != "" {
		cfg.Env = v
	}
	if v := os.Getenv("MM_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("MM_METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
	overrides := []struct {
		env string
		dst *float64
	}{
		{"MM_STRATEGY_GAMMA", &cfg.Strategy.Gamma},
		{"MM_STRATEGY_SIGMA", &cfg.Strategy.Sigma},
		{"MM_STRATEGY_K", &cfg.Strategy.K},
		{"MM_STRATEGY_TIME_HORIZON", &cfg.Strategy.TimeHorizon},
	}
	for _, ov := range overrides {
		v := os.Getenv(ov.env)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, fmt.Errorf("parse %s: %w", ov.env, err)
		}
		*ov.dst = f
	}
	return cfg, Validate(cfg)
}
