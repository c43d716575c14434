package model

import (
	"context"
	"errors"
	"fmt"
)

// ErrEmptyCompletion 模型返回了空文本
var ErrEmptyCompletion = errors.New("completion service returned empty text")

// ConfigurationError 缺少必要配置（例如研究服务的凭证）
// 只让当前请求失败，不影响进程
type ConfigurationError struct {
	Setting string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error (%s): %s", e.Setting, e.Message)
}

// ResearchServiceError 研究服务网络错误或非 200 响应
type ResearchServiceError struct {
	Provider   string
	StatusCode int
	Body       string
	Err        error
}

func (e *ResearchServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s api error (status %d): %s", e.Provider, e.StatusCode, e.Body)
}

func (e *ResearchServiceError) Unwrap() error { return e.Err }

// ResearchParseError 研究服务返回的不是合法的 JSON 对象
type ResearchParseError struct {
	Raw string // 去掉代码围栏后的原文
	Err error
}

func (e *ResearchParseError) Error() string {
	return fmt.Sprintf("failed to parse research response as JSON: %v", e.Err)
}

func (e *ResearchParseError) Unwrap() error { return e.Err }

// CompletionServiceError 标题或正文生成失败，对请求是致命的
type CompletionServiceError struct {
	Stage string
	Err   error
}

func (e *CompletionServiceError) Error() string {
	return fmt.Sprintf("completion service error (%s): %v", e.Stage, e.Err)
}

func (e *CompletionServiceError) Unwrap() error { return e.Err }

// MissingDataError 既没有数据包也没有诊断信息
type MissingDataError struct {
	Company string
}

func (e *MissingDataError) Error() string {
	return fmt.Sprintf("no company data available for %q", e.Company)
}

// Diagnostic 判断研究阶段的错误是否可恢复，并返回可展示的诊断文本
// 请求被取消或超时不可恢复
func Diagnostic(err error) (string, bool) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "", false
	}
	var cfgErr *ConfigurationError
	if errors.As(err, &cfgErr) {
		return cfgErr.Message, true
	}
	var parseErr *ResearchParseError
	if errors.As(err, &parseErr) {
		return parseErr.Raw, true
	}
	var svcErr *ResearchServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Error(), true
	}
	return "", false
}

// 生成阶段
const (
	StageHeadline = "headline"
	StageFormat   = "format"
)
