package usecase

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/story_radar/app/newsletter/internal/domain"
	"github.com/iWorld-y/story_radar/app/newsletter/internal/repo"
	"github.com/iWorld-y/story_radar/app/story_radar/pkg/markup"
	"github.com/iWorld-y/story_radar/app/story_radar/pkg/model"
)

// NewsletterUseCase 新闻稿生成业务逻辑
type NewsletterUseCase struct {
	engine repo.StoryEngine
	log    *log.Helper
}

// NewNewsletterUseCase 创建新闻稿业务逻辑实例
func NewNewsletterUseCase(engine repo.StoryEngine, logger log.Logger) *NewsletterUseCase {
	return &NewsletterUseCase{engine: engine, log: log.NewHelper(logger)}
}

// Generate 按 获取数据 -> 组装 -> 成文 -> 后处理 的顺序生成新闻稿
// bundle 为 nil 时调用研究服务；研究阶段可恢复的失败只记录诊断，不返回错误
func (uc *NewsletterUseCase) Generate(ctx context.Context, companyName string, bundle *model.Bundle) (*domain.Newsletter, error) {
	out := &domain.Newsletter{Citations: []string{}}

	if bundle == nil {
		result, err := uc.engine.Research(ctx, companyName)
		if err != nil {
			diag, ok := model.Diagnostic(err)
			if !ok {
				uc.log.WithContext(ctx).Errorf("research failed for %s: %v", companyName, err)
				return nil, err
			}
			if diag == "" {
				diag = err.Error()
			}
			uc.log.WithContext(ctx).Warnf("research unusable for %s: %v", companyName, err)
			out.Diagnostic = &diag
		} else if result != nil {
			bundle = result.Data
			if result.Citations != nil {
				out.Citations = result.Citations
			}
		}
	}

	if bundle == nil {
		if out.Diagnostic == nil {
			err := &model.MissingDataError{Company: companyName}
			uc.log.WithContext(ctx).Error(err)
			return nil, err
		}
		return out, nil
	}

	s, err := uc.engine.Assemble(ctx, companyName, bundle)
	if err != nil {
		uc.log.WithContext(ctx).Errorf("assemble story for %s failed: %v", companyName, err)
		return nil, err
	}

	text, err := uc.engine.FormatStory(ctx, s)
	if err != nil {
		uc.log.WithContext(ctx).Errorf("format story for %s failed: %v", companyName, err)
		return nil, err
	}

	display, err := markup.ToDisplay(text)
	if err != nil {
		uc.log.WithContext(ctx).Errorf("post-process story for %s failed: %v", companyName, err)
		return nil, err
	}

	out.Story = text
	out.HTMLContent = display.HTML
	out.IsMarkdown = display.IsMarkdown
	return out, nil
}
