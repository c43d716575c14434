package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// UnknownSource 缺少来源时使用的默认值
const UnknownSource = "Unknown"

// 四项核心指标
const (
	MetricRevenue     = "revenue"
	MetricFunding     = "funding"
	MetricMarketShare = "market_share"
	MetricGrowthRate  = "growth_rate"
)

// KnownMetrics 核心指标的固定顺序
var KnownMetrics = []string{MetricRevenue, MetricFunding, MetricMarketShare, MetricGrowthRate}

// Metric 归一化后的指标
type Metric struct {
	Value  *float64 `json:"value"`
	Source string   `json:"source"`
	Raw    string   `json:"raw,omitempty"` // 无法解析成数字的原始值，例如 "$5B"
}

// Metrics 指标名到指标的映射，未知指标同样保留
type Metrics map[string]Metric

// Story 一次请求内的公司研究故事
type Story struct {
	Headline       string        `json:"headline"`
	Context        StoryContext  `json:"context"`
	Metrics        Metrics       `json:"metrics"`
	BusinessModel  BusinessModel `json:"business_model"`
	AnalysisPoints []string      `json:"analysis_points"`
}

// StoryContext 市场背景
type StoryContext struct {
	MarketSize         Metric
	KeyPlayers         []string
	RecentDevelopments []string
	Extra              map[string]json.RawMessage
}

// MarshalJSON 已知字段与额外字段平铺输出
func (c StoryContext) MarshalJSON() ([]byte, error) {
	out := inline(c.Extra)
	out["market_size"] = c.MarketSize
	out["key_players"] = nonNil(c.KeyPlayers)
	out["recent_developments"] = nonNil(c.RecentDevelopments)
	return json.Marshal(out)
}

// BusinessModel 商业模式
type BusinessModel struct {
	CoreOffering  *string
	UnitEconomics *string
	Channels      []string
	Partnerships  []string
	Extra         map[string]json.RawMessage
}

// MarshalJSON 已知字段与额外字段平铺输出
func (b BusinessModel) MarshalJSON() ([]byte, error) {
	out := inline(b.Extra)
	out["core_offering"] = b.CoreOffering
	out["unit_economics"] = b.UnitEconomics
	out["channels"] = nonNil(b.Channels)
	out["partnerships"] = nonNil(b.Partnerships)
	return json.Marshal(out)
}

// Bundle 调用方提供或研究服务返回的公司数据
type Bundle struct {
	Metrics        map[string]RawMetric `json:"metrics"`
	BusinessModel  Section              `json:"business_model"`
	Context        Section              `json:"context"`
	AnalysisPoints StringList           `json:"analysis_points"`
}

// UnmarshalJSON 宽松解析：类型不符的分段直接忽略，而不是让整个数据包失败
func (b *Bundle) UnmarshalJSON(data []byte) error {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return err
	}
	*b = Bundle{}
	if raw, ok := top["metrics"]; ok && isObject(raw) {
		if err := json.Unmarshal(raw, &b.Metrics); err != nil {
			return err
		}
	}
	if raw, ok := top["business_model"]; ok && isObject(raw) {
		if err := json.Unmarshal(raw, &b.BusinessModel); err != nil {
			return err
		}
	}
	if raw, ok := top["context"]; ok && isObject(raw) {
		if err := json.Unmarshal(raw, &b.Context); err != nil {
			return err
		}
	}
	if raw, ok := top["analysis_points"]; ok {
		b.AnalysisPoints = DecodeStringList(raw)
	}
	return nil
}

// Section 保留原始 JSON 的数据分段，字段在合并时按需解析
type Section map[string]json.RawMessage

// ResearchResult 研究服务的解析结果
type ResearchResult struct {
	Data      *Bundle
	Citations []string
	Raw       string // 去掉代码围栏后的原始文本
}

// StringList 宽松的字符串列表
type StringList []string

// UnmarshalJSON 兼容单个字符串与非字符串元素
func (l *StringList) UnmarshalJSON(data []byte) error {
	*l = DecodeStringList(data)
	return nil
}

// DecodeStringList 把任意 JSON 值转成字符串列表
// 数组元素若不是字符串则保留其紧凑 JSON 文本；null 视为空列表
func DecodeStringList(raw json.RawMessage) []string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return []string{}
	}
	var items []json.RawMessage
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &items); err != nil {
			return []string{}
		}
	} else {
		items = []json.RawMessage{raw}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := DecodeOptionalString(item); s != nil {
			out = append(out, *s)
		}
	}
	return out
}

// DecodeOptionalString null 返回 nil，字符串原样返回，其他类型返回紧凑 JSON
func DecodeOptionalString(raw json.RawMessage) *string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return &s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		text := string(raw)
		return &text
	}
	text := buf.String()
	return &text
}

// Float 返回 v 的指针
func Float(v float64) *float64 {
	return &v
}

// String 返回 s 的指针
func String(s string) *string {
	return &s
}

// scalarValue 解析指标值：数字、数字字符串、null，其余保留为原始文本
func scalarValue(raw json.RawMessage) (*float64, string) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil, ""
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return &f, ""
	}
	text := DecodeOptionalString(raw)
	if text == nil {
		return nil, ""
	}
	trimmed := strings.TrimSpace(*text)
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return &f, ""
	}
	return nil, trimmed
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

func inline(extra map[string]json.RawMessage) map[string]any {
	out := make(map[string]any, len(extra)+4)
	for k, v := range extra {
		out[k] = v
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
