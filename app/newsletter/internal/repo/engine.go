package repo

import (
	"context"

	"github.com/iWorld-y/story_radar/app/story_radar/pkg/model"
)

// StoryEngine 故事生成管线接口
type StoryEngine interface {
	// Research 调用研究服务获取公司数据
	Research(ctx context.Context, companyName string) (*model.ResearchResult, error)
	// Assemble 生成标题并把数据包合并为故事
	Assemble(ctx context.Context, companyName string, bundle *model.Bundle) (*model.Story, error)
	// FormatStory 把故事写成完整文档
	FormatStory(ctx context.Context, story *model.Story) (string, error)
}
