package domain

// Newsletter 单次生成请求的结果
// 研究阶段可恢复的失败只填写 Diagnostic，Story 为空
type Newsletter struct {
	Story       string
	HTMLContent string
	IsMarkdown  bool
	Diagnostic  *string
	Citations   []string
}
