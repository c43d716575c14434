package service

import (
	"context"
	"strings"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/story_radar/app/newsletter/internal/usecase"
	"github.com/iWorld-y/story_radar/app/story_radar/pkg/model"
)

// GenerateFailedMessage 对外统一的失败信息，具体原因只写日志
const GenerateFailedMessage = "Failed to generate newsletter"

// ErrGenerateFailed 返回统一的生成失败错误
func ErrGenerateFailed(cause error) *errors.Error {
	return errors.InternalServer("NEWSLETTER_FAILED", GenerateFailedMessage).WithCause(cause)
}

// GenerateNewsletterRequest 生成请求
type GenerateNewsletterRequest struct {
	CompanyName string        `json:"company_name"`
	CompanyData *model.Bundle `json:"company_data"`
}

// GenerateNewsletterReply 生成结果
type GenerateNewsletterReply struct {
	Story          string   `json:"story"`
	HTMLContent    string   `json:"htmlContent"`
	IsMarkdown     bool     `json:"isMarkdown"`
	RawAPIResponse *string  `json:"rawApiResponse"`
	Citations      []string `json:"citations"`
}

type NewsletterService struct {
	uc  *usecase.NewsletterUseCase
	log *log.Helper
}

func NewNewsletterService(uc *usecase.NewsletterUseCase, logger log.Logger) *NewsletterService {
	return &NewsletterService{
		uc:  uc,
		log: log.NewHelper(logger),
	}
}

func (s *NewsletterService) GenerateNewsletter(ctx context.Context, req *GenerateNewsletterRequest) (*GenerateNewsletterReply, error) {
	name := strings.TrimSpace(req.CompanyName)
	if name == "" {
		return nil, errors.BadRequest("INVALID_REQUEST", "company_name is required")
	}

	n, err := s.uc.Generate(ctx, name, req.CompanyData)
	if err != nil {
		s.log.WithContext(ctx).Errorf("generate newsletter for %s failed: %v", name, err)
		return nil, ErrGenerateFailed(err)
	}

	citations := n.Citations
	if citations == nil {
		citations = []string{}
	}
	return &GenerateNewsletterReply{
		Story:          n.Story,
		HTMLContent:    n.HTMLContent,
		IsMarkdown:     n.IsMarkdown,
		RawAPIResponse: n.Diagnostic,
		Citations:      citations,
	}, nil
}
