package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/sirupsen/logrus"

	"github.com/iWorld-y/story_radar/app/story_radar/pkg/config"
	"github.com/iWorld-y/story_radar/app/story_radar/pkg/logger"
	dm "github.com/iWorld-y/story_radar/app/story_radar/pkg/model"
	"github.com/iWorld-y/story_radar/app/story_radar/pkg/research"
	"github.com/iWorld-y/story_radar/app/story_radar/pkg/research/factory"
	"github.com/iWorld-y/story_radar/app/story_radar/pkg/story"
)

const (
	headlineMaxTokens   = 50
	headlineTemperature = 0.8
	storyMaxTokens      = 10000
	storyTemperature    = 0.7
)

// Engine 故事生成引擎，本身无状态，可被并发请求共享
type Engine struct {
	cfg        *config.Config
	chatModel  model.BaseChatModel
	researcher research.Researcher
}

// NewEngine 根据配置创建引擎实例
func NewEngine(ctx context.Context, cfg *config.Config) (*Engine, error) {
	// 初始化 LLM，标题和正文的模型在调用时通过 Option 指定
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.StoryModel,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}

	// 初始化研究服务客户端
	researcher, err := factory.NewResearcher(cfg, chatModel)
	if err != nil {
		return nil, fmt.Errorf("研究服务初始化失败: %w", err)
	}

	return New(cfg, chatModel, researcher), nil
}

// New 使用给定的依赖创建引擎
func New(cfg *config.Config, cm model.BaseChatModel, researcher research.Researcher) *Engine {
	return &Engine{
		cfg:        cfg,
		chatModel:  cm,
		researcher: researcher,
	}
}

// Research 调用研究服务获取公司数据
func (e *Engine) Research(ctx context.Context, companyName string) (*dm.ResearchResult, error) {
	return research.Fetch(ctx, e.researcher, companyName)
}

// Assemble 生成标题并组装故事
func (e *Engine) Assemble(ctx context.Context, companyName string, bundle *dm.Bundle) (*dm.Story, error) {
	return story.Assemble(ctx, e.GenerateHook, companyName, bundle)
}

// GenerateHook 生成一句简短、兴奋的标题
func (e *Engine) GenerateHook(ctx context.Context, companyName string) (string, error) {
	prompt := fmt.Sprintf(`Create an engaging headline for a newsletter about %s, highlighting its innovative business model and recent growth. Include a sense of excitement. Reply with the headline only.`, companyName)

	text, err := e.complete(ctx, dm.StageHeadline, prompt,
		e.cfg.LLM.HeadlineModel, headlineMaxTokens, headlineTemperature)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{"stage": dm.StageHeadline, "company": companyName}).
			Errorf("标题生成失败: %v", err)
		return "", err
	}
	return text, nil
}

// FormatStory 把结构化故事写成完整的研究文档
func (e *Engine) FormatStory(ctx context.Context, s *dm.Story) (string, error) {
	prompt, err := BuildStoryPrompt(s, e.cfg.Story.Currency)
	if err != nil {
		return "", &dm.CompletionServiceError{Stage: dm.StageFormat, Err: err}
	}

	text, err := e.complete(ctx, dm.StageFormat, prompt,
		e.cfg.LLM.StoryModel, storyMaxTokens, storyTemperature)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{"stage": dm.StageFormat, "headline": s.Headline}).
			Errorf("正文生成失败: %v", err)
		return "", err
	}
	logger.Log.Debugf("生成的正文: %s", text)
	return text, nil
}

// BuildStoryPrompt 把四个结构化分段序列化为 JSON 并嵌入提示词
func BuildStoryPrompt(s *dm.Story, currency string) (string, error) {
	sections := []struct {
		label string
		value any
	}{
		{"Context", s.Context},
		{"Metrics", s.Metrics},
		{"Business Model", s.BusinessModel},
		{"Analysis Points", s.AnalysisPoints},
	}

	var sb strings.Builder
	sb.WriteString("Write a compelling newsletter research document about the company based on the following details:\n\n")
	fmt.Fprintf(&sb, "Headline: %s\n", s.Headline)
	for _, sec := range sections {
		data, err := json.Marshal(sec.value)
		if err != nil {
			return "", fmt.Errorf("marshal %s failed: %w", sec.label, err)
		}
		fmt.Fprintf(&sb, "%s: %s\n", sec.label, data)
	}

	figures := story.Figures(s, currency)
	if len(figures) > 0 {
		sb.WriteString("Key Figures:\n")
		for _, line := range figures {
			fmt.Fprintf(&sb, "- %s\n", line)
		}
	}

	sb.WriteString("\nStructure the research document into sections like Context, Business Model, Metrics, and Insights. ")
	sb.WriteString("Whenever you mention a numeric figure, cite its source in parentheses right after it, for example \"$5M (Crunchbase)\". ")
	sb.WriteString("Use the source given in the data, or \"Unknown\" when none is given.")
	return sb.String(), nil
}

// complete 单次调用补全服务，不重试
func (e *Engine) complete(ctx context.Context, stage, prompt, modelName string, maxTokens int, temperature float32) (string, error) {
	opts := []model.Option{
		model.WithMaxTokens(maxTokens),
		model.WithTemperature(temperature),
	}
	if modelName != "" {
		opts = append(opts, model.WithModel(modelName))
	}

	messages := []*schema.Message{schema.UserMessage(prompt)}

	resp, err := e.chatModel.Generate(ctx, messages, opts...)
	if err != nil {
		return "", &dm.CompletionServiceError{Stage: stage, Err: err}
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", &dm.CompletionServiceError{Stage: stage, Err: dm.ErrEmptyCompletion}
	}
	return strings.TrimSpace(resp.Content), nil
}
