package research

import "context"

// Researcher 定义通用的公司研究接口
type Researcher interface {
	Research(ctx context.Context, req *Request) (*Response, error)
}

// Request 通用研究请求
type Request struct {
	CompanyName  string
	SystemPrompt string
	Prompt       string
}

// Response 研究服务的原始回答
type Response struct {
	Content   string   // 期望是 JSON，可能带代码围栏
	Citations []string // 引用链接，可能为空
}
