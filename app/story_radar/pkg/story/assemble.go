package story

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/iWorld-y/story_radar/app/story_radar/pkg/model"
)

// HeadlineFunc 根据公司名生成标题
type HeadlineFunc func(ctx context.Context, companyName string) (string, error)

// NewStory 返回全部为空值的默认故事
func NewStory() model.Story {
	metrics := make(model.Metrics, len(model.KnownMetrics))
	for _, name := range model.KnownMetrics {
		metrics[name] = model.Metric{Source: model.UnknownSource}
	}
	return model.Story{
		Context: model.StoryContext{
			MarketSize:         model.Metric{Source: model.UnknownSource},
			KeyPlayers:         []string{},
			RecentDevelopments: []string{},
		},
		Metrics: metrics,
		BusinessModel: model.BusinessModel{
			Channels:     []string{},
			Partnerships: []string{},
		},
		AnalysisPoints: []string{},
	}
}

// Merge 逐字段把数据包叠加到故事上，数据包优先
// 列表与字符串字段整体替换，不做追加或深度合并
func Merge(s model.Story, b *model.Bundle) model.Story {
	out := s
	out.Metrics = make(model.Metrics, len(s.Metrics))
	for name, m := range s.Metrics {
		out.Metrics[name] = m
	}
	if b == nil {
		out.AnalysisPoints = []string{}
		return out
	}

	for name, m := range NormalizeMetrics(b.Metrics) {
		out.Metrics[name] = m
	}
	out.BusinessModel = mergeBusinessModel(s.BusinessModel, b.BusinessModel)
	out.Context = NormalizeContext(s.Context, b.Context)

	out.AnalysisPoints = []string{}
	if b.AnalysisPoints != nil {
		out.AnalysisPoints = append(out.AnalysisPoints, b.AnalysisPoints...)
	}
	return out
}

// Assemble 生成标题并合并数据包
// 标题生成失败或为空时整体失败，不会返回缺少标题的故事
func Assemble(ctx context.Context, hook HeadlineFunc, companyName string, b *model.Bundle) (*model.Story, error) {
	s := NewStory()

	headline, err := hook(ctx, companyName)
	if err != nil {
		return nil, err
	}
	headline = strings.TrimSpace(headline)
	if headline == "" {
		return nil, &model.CompletionServiceError{Stage: model.StageHeadline, Err: model.ErrEmptyCompletion}
	}
	s.Headline = headline

	s = Merge(s, b)
	return &s, nil
}

func mergeBusinessModel(base model.BusinessModel, section model.Section) model.BusinessModel {
	out := base
	out.Extra = copyExtra(base.Extra)
	for key, raw := range section {
		switch key {
		case "core_offering":
			out.CoreOffering = model.DecodeOptionalString(raw)
		case "unit_economics":
			out.UnitEconomics = model.DecodeOptionalString(raw)
		case "channels":
			out.Channels = model.DecodeStringList(raw)
		case "partnerships":
			out.Partnerships = model.DecodeStringList(raw)
		default:
			if out.Extra == nil {
				out.Extra = make(map[string]json.RawMessage)
			}
			out.Extra[key] = raw
		}
	}
	return out
}
