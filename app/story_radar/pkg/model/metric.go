package model

import (
	"bytes"
	"encoding/json"
)

type metricKind uint8

const (
	metricBare metricKind = iota
	metricSourced
)

// RawMetric 输入侧的指标，二选一：
//   - Bare: 裸数字（或 null），旧版调用方的写法
//   - Sourced: {value, source} 对象
//
// 只在归一化边界被消费，下游只看到 Metric。
type RawMetric struct {
	kind   metricKind
	value  *float64
	text   string
	source string
}

// Bare 构造裸数字指标
func Bare(value *float64) RawMetric {
	return RawMetric{kind: metricBare, value: value}
}

// Sourced 构造带来源的指标
func Sourced(value *float64, source string) RawMetric {
	return RawMetric{kind: metricSourced, value: value, source: source}
}

// IsSourced 是否为 {value, source} 形式
func (m RawMetric) IsSourced() bool { return m.kind == metricSourced }

// Value 数值，可能为 nil
func (m RawMetric) Value() *float64 { return m.value }

// Text 非数字的原始值
func (m RawMetric) Text() string { return m.text }

// Source 对象形式下的 source 字段，可能为空
func (m RawMetric) Source() string { return m.source }

// UnmarshalJSON 对象解析为 Sourced，其余一律按 Bare 处理
func (m *RawMetric) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if !isObject(data) {
		value, text := scalarValue(data)
		*m = RawMetric{kind: metricBare, value: value, text: text}
		return nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	value, text := scalarValue(obj["value"])
	*m = RawMetric{kind: metricSourced, value: value, text: text, source: decodeSource(obj["source"])}
	return nil
}

// decodeSource 非字符串的 source 转成紧凑 JSON 文本，false 和 0 视为缺失
func decodeSource(raw json.RawMessage) string {
	s := DecodeOptionalString(raw)
	if s == nil {
		return ""
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] != '"' {
		if string(trimmed) == "false" {
			return ""
		}
		var n float64
		if err := json.Unmarshal(trimmed, &n); err == nil && n == 0 {
			return ""
		}
	}
	return *s
}

// MarshalJSON 按原始形态输出
func (m RawMetric) MarshalJSON() ([]byte, error) {
	var value any = m.value
	if m.value == nil && m.text != "" {
		value = m.text
	}
	if m.kind == metricBare {
		return json.Marshal(value)
	}
	return json.Marshal(struct {
		Value  any    `json:"value"`
		Source string `json:"source,omitempty"`
	}{Value: value, Source: m.source})
}
