package story

import (
	"encoding/json"

	"github.com/iWorld-y/story_radar/app/story_radar/pkg/model"
)

// NormalizeMetric 把裸数字或 {value, source} 统一成 Metric
// 来源缺失或为空时一律记为 Unknown，不做数值范围校验
func NormalizeMetric(m model.RawMetric) model.Metric {
	source := model.UnknownSource
	if m.IsSourced() && m.Source() != "" {
		source = m.Source()
	}
	return model.Metric{
		Value:  m.Value(),
		Source: source,
		Raw:    m.Text(),
	}
}

// NormalizeMetrics 逐项归一化
func NormalizeMetrics(in map[string]model.RawMetric) model.Metrics {
	out := make(model.Metrics, len(in))
	for name, m := range in {
		out[name] = NormalizeMetric(m)
	}
	return out
}

// NormalizeContext 把数据包中的 context 分段叠加到 base 上
// market_size 走指标归一化规则，两个列表字段整体替换，其余键原样保留
func NormalizeContext(base model.StoryContext, section model.Section) model.StoryContext {
	out := base
	out.Extra = copyExtra(base.Extra)
	for key, raw := range section {
		switch key {
		case "market_size":
			var m model.RawMetric
			if err := json.Unmarshal(raw, &m); err != nil {
				m = model.Bare(nil)
			}
			out.MarketSize = NormalizeMetric(m)
		case "key_players":
			out.KeyPlayers = model.DecodeStringList(raw)
		case "recent_developments":
			out.RecentDevelopments = model.DecodeStringList(raw)
		default:
			if out.Extra == nil {
				out.Extra = make(map[string]json.RawMessage)
			}
			out.Extra[key] = raw
		}
	}
	return out
}

func copyExtra(in map[string]json.RawMessage) map[string]json.RawMessage {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]json.RawMessage, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
