package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// 研究服务提供方
const (
	ProviderPerplexity = "perplexity"
	ProviderTavily     = "tavily"
)

// Config 项目配置结构体
type Config struct {
	LLM      LLMConfig      `yaml:"llm"`
	Research ResearchConfig `yaml:"research"`
	Story    StoryConfig    `yaml:"story"`
	Log      LogConfig      `yaml:"log"`
}

// LLMConfig 补全服务配置，标题和正文使用不同模型
type LLMConfig struct {
	BaseURL       string `yaml:"base_url"`
	APIKey        string `yaml:"api_key"`
	HeadlineModel string `yaml:"headline_model"`
	StoryModel    string `yaml:"story_model"`
}

// ResearchConfig 研究服务配置
type ResearchConfig struct {
	Provider   string           `yaml:"provider"`
	Perplexity PerplexityConfig `yaml:"perplexity"`
	Tavily     TavilyConfig     `yaml:"tavily"`
}

// PerplexityConfig Perplexity 配置
type PerplexityConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// TavilyConfig Tavily 配置
type TavilyConfig struct {
	APIKey string `yaml:"api_key"`
}

// StoryConfig 故事渲染配置
type StoryConfig struct {
	Currency string `yaml:"currency"` // usd 或 inr
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default 返回带默认值的配置
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			HeadlineModel: "gpt-3.5-turbo",
			StoryModel:    "gpt-4o-mini",
		},
		Research: ResearchConfig{
			Provider: ProviderPerplexity,
			Perplexity: PerplexityConfig{
				BaseURL: "https://api.perplexity.ai",
				Model:   "sonar",
			},
		},
		Story: StoryConfig{Currency: "usd"},
		Log:   LogConfig{Level: "info"},
	}
}

// LoadConfig 从指定路径加载配置，未填写的字段保留默认值
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyEnv 用环境变量（以及可选的 .env 文件）覆盖凭证类配置
// 缺少凭证不是启动错误，只会让对应请求失败
func ApplyEnv(cfg *Config) {
	_ = godotenv.Load()

	override := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	override(&cfg.Research.Perplexity.APIKey, "PERPLEXITY_API_KEY")
	override(&cfg.Research.Tavily.APIKey, "TAVILY_API_KEY")
	override(&cfg.LLM.APIKey, "OPENAI_API_KEY")
	override(&cfg.LLM.BaseURL, "OPENAI_BASE_URL")
}
