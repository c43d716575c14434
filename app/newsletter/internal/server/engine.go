package server

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/story_radar/app/newsletter/internal/conf"
	"github.com/iWorld-y/story_radar/app/story_radar/pkg/config"
	"github.com/iWorld-y/story_radar/app/story_radar/pkg/engine"
	srLogger "github.com/iWorld-y/story_radar/app/story_radar/pkg/logger"
)

// NewStoryEngine 初始化故事生成引擎
// 缺少研究服务凭证不会导致启动失败，只会在请求时返回诊断信息
func NewStoryEngine(c *conf.Newsletter, logger log.Logger) (*engine.Engine, func(), error) {
	helper := log.NewHelper(logger)

	cfg := toConfig(c)
	config.ApplyEnv(cfg)

	// 初始化日志
	if err := srLogger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		helper.Errorf("Failed to init story_radar logger: %v", err)
		_ = srLogger.InitLogger("info", "") // 降级处理
	}

	eng, err := engine.NewEngine(context.Background(), cfg)
	if err != nil {
		helper.Errorf("Failed to init engine: %v", err)
		return nil, nil, err
	}

	cleanup := func() {
		helper.Info("Cleaning up story engine")
	}
	return eng, cleanup, nil
}

// toConfig 将 internal/conf.Newsletter 转换为 pkg/config.Config，未配置的字段保留默认值
func toConfig(c *conf.Newsletter) *config.Config {
	cfg := config.Default()
	if c == nil {
		return cfg
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	if c.Llm != nil {
		set(&cfg.LLM.BaseURL, c.Llm.BaseUrl)
		set(&cfg.LLM.APIKey, c.Llm.ApiKey)
		set(&cfg.LLM.HeadlineModel, c.Llm.HeadlineModel)
		set(&cfg.LLM.StoryModel, c.Llm.StoryModel)
	}
	if c.Research != nil {
		set(&cfg.Research.Provider, c.Research.Provider)
		if p := c.Research.Perplexity; p != nil {
			set(&cfg.Research.Perplexity.APIKey, p.ApiKey)
			set(&cfg.Research.Perplexity.BaseURL, p.BaseUrl)
			set(&cfg.Research.Perplexity.Model, p.Model)
		}
		if t := c.Research.Tavily; t != nil {
			set(&cfg.Research.Tavily.APIKey, t.ApiKey)
		}
	}
	if c.Story != nil {
		set(&cfg.Story.Currency, c.Story.Currency)
	}
	if c.Log != nil {
		set(&cfg.Log.Level, c.Log.Level)
		set(&cfg.Log.File, c.Log.File)
	}
	return cfg
}
