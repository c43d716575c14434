package markup

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Result 后处理结果
type Result struct {
	IsMarkdown bool
	HTML       string // 非 Markdown 时为原文
}

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// IsMarkdown 粗略判断：出现 "##" 或 "*" 即视为 Markdown
// 正文里普通的星号也会被当成 Markdown
func IsMarkdown(text string) bool {
	return strings.Contains(text, "##") || strings.Contains(text, "*")
}

// ToDisplay 把 Markdown 转成可直接展示的 HTML，其余原样返回
func ToDisplay(text string) (Result, error) {
	if !IsMarkdown(text) {
		return Result{IsMarkdown: false, HTML: text}, nil
	}

	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return Result{}, fmt.Errorf("convert markdown failed: %w", err)
	}
	return Result{IsMarkdown: true, HTML: buf.String()}, nil
}
