package factory

import (
	"fmt"

	"github.com/cloudwego/eino/components/model"

	"github.com/iWorld-y/story_radar/app/story_radar/pkg/config"
	"github.com/iWorld-y/story_radar/app/story_radar/pkg/perplexity"
	"github.com/iWorld-y/story_radar/app/story_radar/pkg/research"
	"github.com/iWorld-y/story_radar/app/story_radar/pkg/tavily"
)

// NewResearcher 根据配置创建研究服务实例
// 凭证缺失时依然返回实例，由每次请求报告 ConfigurationError
// tavily 只负责搜索，结果交给 cm 整理成 JSON
func NewResearcher(cfg *config.Config, cm model.BaseChatModel) (research.Researcher, error) {
	provider := cfg.Research.Provider
	if provider == "" {
		provider = config.ProviderPerplexity
	}

	switch provider {
	case config.ProviderPerplexity:
		p := cfg.Research.Perplexity
		return perplexity.NewClient(p.APIKey, perplexity.WithBaseURL(p.BaseURL), perplexity.WithModel(p.Model)), nil

	case config.ProviderTavily:
		searcher := tavily.NewClient(cfg.Research.Tavily.APIKey)
		return research.NewSearchResearcher(searcher, cm, cfg.LLM.StoryModel), nil

	default:
		return nil, fmt.Errorf("unknown research provider: %s", provider)
	}
}
