package logschema

import (
	"fmt"
	"sort"
	"strings"
)

// Schema 定义每个日志事件所需的关键字段，便于集中校验。
// 下游的日志解析（告警、pnl 汇总脚本）依赖这些字段名保持稳定。
type Schema struct {
	Event    string
	Required []string
}

var schemas = map[string]Schema{
	"quote_refreshed": {
		Event:    "quote_refreshed",
		Required: []string{"symbol", "bid", "ask", "mid", "inventory", "spread_bps"},
	},
	"fill_applied": {
		Event:    "fill_applied",
		Required: []string{"symbol", "side", "qty", "price", "realized", "size", "avg"},
	},
	"fill_rejected": {
		Event:    "fill_rejected",
		Required: []string{"symbol", "side", "qty", "price", "reason"},
	},
	"pnl_snapshot": {
		Event:    "pnl_snapshot",
		Required: []string{"symbol", "realized", "unrealized", "total"},
	},
	"breaker_open": {
		Event:    "breaker_open",
		Required: []string{"symbol", "reason"},
	},
	"pnl_below_threshold": {
		Event:    "pnl_below_threshold",
		Required: []string{"symbol", "total"},
	},
	"session_halted": {
		Event:    "session_halted",
		Required: []string{"symbol", "reason"},
	},
}

// Known 返回所有事件名，便于外部生成文档。
func Known() []string {
	names := make([]string, 0, len(schemas))
	for k := range schemas {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Validate 检查日志字段是否包含 schema 中要求的 key。
func Validate(event string, fields map[string]interface{}) error {
	s, ok := schemas[event]
	if !ok {
		return nil
	}
	var missing []string
	for _, key := range s.Required {
		if _, exists := fields[key]; !exists {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing fields: %s", strings.Join(missing, ","))
	}
	return nil
}
