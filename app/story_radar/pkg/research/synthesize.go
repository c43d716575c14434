package research

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/iWorld-y/story_radar/app/story_radar/pkg/logger"
	dm "github.com/iWorld-y/story_radar/app/story_radar/pkg/model"
)

const (
	// MaxQueryLength 搜索服务接受的最大查询长度
	MaxQueryLength = 400

	synthesisProvider    = "synthesis"
	synthesisMaxTokens   = 4000
	synthesisTemperature = 0.2
	searchMaxResults     = 8
)

// SearchQuery 以公司名为主的简短搜索语句，超长时按字符截断
func SearchQuery(companyName string) string {
	q := strings.TrimSpace(companyName) + " company business model revenue funding market share growth"
	if r := []rune(q); len(r) > MaxQueryLength {
		q = string(r[:MaxQueryLength])
	}
	return q
}

// SearchResearcher 先搜索，再让 LLM 把搜索结果整理成约定的 JSON 对象
type SearchResearcher struct {
	searcher  Searcher
	chatModel model.BaseChatModel
	modelName string
}

var _ Researcher = (*SearchResearcher)(nil)

// NewSearchResearcher 创建基于搜索的研究服务
func NewSearchResearcher(searcher Searcher, cm model.BaseChatModel, modelName string) *SearchResearcher {
	return &SearchResearcher{searcher: searcher, chatModel: cm, modelName: modelName}
}

// Research implements Researcher
func (s *SearchResearcher) Research(ctx context.Context, req *Request) (*Response, error) {
	resp, err := s.searcher.Search(ctx, &SearchRequest{
		Query:      SearchQuery(req.CompanyName),
		Topic:      "general",
		MaxResults: searchMaxResults,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, &dm.ResearchServiceError{Provider: synthesisProvider, Err: errors.New("search returned no results")}
	}

	citations := make([]string, 0, len(resp.Results))
	var sb strings.Builder
	sb.WriteString(req.Prompt)
	sb.WriteString("\n\nBase the answer only on the following search results. Use the result URL or site name as the source of each figure.\n")
	for i, r := range resp.Results {
		fmt.Fprintf(&sb, "\n[%d] %s\nURL: %s\n%s\n", i+1, r.Title, r.URL, r.Content)
		if r.URL != "" {
			citations = append(citations, r.URL)
		}
	}

	messages := []*schema.Message{
		schema.SystemMessage(req.SystemPrompt),
		schema.UserMessage(sb.String()),
	}
	opts := []model.Option{
		model.WithMaxTokens(synthesisMaxTokens),
		model.WithTemperature(synthesisTemperature),
	}
	if s.modelName != "" {
		opts = append(opts, model.WithModel(s.modelName))
	}

	out, err := s.chatModel.Generate(ctx, messages, opts...)
	if err != nil {
		return nil, &dm.ResearchServiceError{Provider: synthesisProvider, Err: err}
	}
	if out == nil || strings.TrimSpace(out.Content) == "" {
		return nil, &dm.ResearchServiceError{Provider: synthesisProvider, Err: dm.ErrEmptyCompletion}
	}

	logger.Log.WithField("company", req.CompanyName).Debugf("搜索结果 %d 条，已整理为 JSON", len(resp.Results))
	return &Response{Content: out.Content, Citations: citations}, nil
}
