package render

import "github.com/goccy/go-json"

// JSON 紧凑 JSON 编码，供日志或管道消费。
func JSON(r Report) ([]byte, error) {
	return json.Marshal(r)
}

// JSONIndent 缩进 JSON 编码，供终端查看。
func JSONIndent(r Report) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
