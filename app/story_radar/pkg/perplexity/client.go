package perplexity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/iWorld-y/story_radar/app/story_radar/pkg/model"
	"github.com/iWorld-y/story_radar/app/story_radar/pkg/research"
)

const (
	providerName   = "perplexity"
	defaultBaseURL = "https://api.perplexity.ai"
	defaultModel   = "sonar"
)

// Client Perplexity API 客户端
type Client struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// Option 客户端选项
type Option func(*Client)

// WithBaseURL 指定 API 地址，空值忽略
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithModel 指定模型，空值忽略
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithHTTPClient 指定 http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// NewClient 创建一个新的 Perplexity 客户端
// 不设置超时：慢请求会一直阻塞到服务端返回
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		model:   defaultModel,
		client:  http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ensure Client implements research.Researcher
var _ research.Researcher = (*Client)(nil)

// ChatRequest chat/completions 请求
type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
}

// ChatMessage 单条消息
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResponse chat/completions 响应
type ChatResponse struct {
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
	Citations     []string       `json:"citations"`
	SearchResults []SearchResult `json:"search_results"`
}

// SearchResult 新版接口返回的检索结果
type SearchResult struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Research implements research.Researcher
func (c *Client) Research(ctx context.Context, req *research.Request) (*research.Response, error) {
	if c.apiKey == "" {
		return nil, &model.ConfigurationError{Setting: "PERPLEXITY_API_KEY", Message: "Perplexity API key is not set"}
	}

	chatReq := ChatRequest{
		Model: c.model,
		Messages: []ChatMessage{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: req.Prompt},
		},
		MaxTokens:   10000,
		Temperature: 0.7,
		TopP:        0.9,
	}

	resp, err := c.doChat(ctx, chatReq)
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, &model.ResearchServiceError{Provider: providerName, StatusCode: http.StatusOK, Body: "no choices in response"}
	}

	citations := resp.Citations
	if len(citations) == 0 {
		for _, r := range resp.SearchResults {
			if r.URL != "" {
				citations = append(citations, r.URL)
			}
		}
	}

	return &research.Response{
		Content:   resp.Choices[0].Message.Content,
		Citations: citations,
	}, nil
}

// doChat 执行请求 (Internal)
func (c *Client) doChat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request failed: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, &model.ResearchServiceError{Provider: providerName, Err: err}
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &model.ResearchServiceError{Provider: providerName, StatusCode: res.StatusCode, Err: fmt.Errorf("read body failed: %w", err)}
	}

	if res.StatusCode != http.StatusOK {
		return nil, &model.ResearchServiceError{Provider: providerName, StatusCode: res.StatusCode, Body: string(body)}
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, &model.ResearchServiceError{Provider: providerName, StatusCode: res.StatusCode, Body: string(body), Err: fmt.Errorf("unmarshal response failed: %w", err)}
	}

	return &chatResp, nil
}
