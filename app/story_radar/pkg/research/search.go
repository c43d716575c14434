package research

import "context"

// Searcher 定义通用的搜索接口
type Searcher interface {
	Search(ctx context.Context, req *SearchRequest) (*SearchResponse, error)
}

// SearchRequest 通用搜索请求
type SearchRequest struct {
	Query      string
	Topic      string // "news" or "general"
	MaxResults int
}

// SearchResponse 通用搜索响应
type SearchResponse struct {
	Results []SearchResult
}

// SearchResult 单条搜索结果
type SearchResult struct {
	Title   string
	URL     string
	Content string
	Score   float64
}
