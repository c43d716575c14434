package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/iWorld-y/story_radar/app/story_radar/pkg/model"
	"github.com/iWorld-y/story_radar/app/story_radar/pkg/research"
)

const (
	providerName   = "tavily"
	defaultBaseURL = "https://api.tavily.com/search"
)

// Client Tavily API 客户端
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient 创建一个新的 Tavily 客户端
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  http.DefaultClient,
	}
}

// Ensure Client implements research.Searcher
var _ research.Searcher = (*Client)(nil)

// Search implements research.Searcher
// 查询超过服务上限时按字符截断
func (c *Client) Search(ctx context.Context, req *research.SearchRequest) (*research.SearchResponse, error) {
	if c.apiKey == "" {
		return nil, &model.ConfigurationError{Setting: "TAVILY_API_KEY", Message: "Tavily API key is not set"}
	}

	query := req.Query
	if r := []rune(query); len(r) > research.MaxQueryLength {
		query = string(r[:research.MaxQueryLength])
	}

	tavilyReq := SearchRequest{
		Query:       query,
		SearchDepth: "advanced",
		Topic:       req.Topic,
		MaxResults:  req.MaxResults,
	}

	resp, err := c.doSearch(ctx, tavilyReq)
	if err != nil {
		return nil, err
	}

	results := make([]research.SearchResult, 0, len(resp.Results))
	for _, r := range resp.Results {
		results = append(results, research.SearchResult{
			Title:   r.Title,
			URL:     r.URL,
			Content: r.Content,
			Score:   r.Score,
		})
	}

	return &research.SearchResponse{Results: results}, nil
}

// SearchRequest Tavily 搜索请求参数
type SearchRequest struct {
	Query             string   `json:"query"`
	SearchDepth       string   `json:"search_depth,omitempty"` // basic or advanced
	Topic             string   `json:"topic,omitempty"`        // general or news
	MaxResults        int      `json:"max_results,omitempty"`
	IncludeRawContent bool     `json:"include_raw_content,omitempty"`
	IncludeAnswer     bool     `json:"include_answer,omitempty"`
	IncludeDomains    []string `json:"include_domains,omitempty"`
	ExcludeDomains    []string `json:"exclude_domains,omitempty"`
}

// SearchResponse Tavily 搜索响应
type SearchResponse struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
	Answer  string         `json:"answer"`
}

// SearchResult 单个搜索结果
type SearchResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// doSearch 执行搜索 (Internal)
func (c *Client) doSearch(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request failed: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}

	httpReq.Header.Add("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Add("Content-Type", "application/json")

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

	var searchResp SearchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, &model.ResearchServiceError{Provider: providerName, StatusCode: res.StatusCode, Body: string(body), Err: fmt.Errorf("unmarshal response failed: %w", err)}
	}

	return &searchResp, nil
}
