package research

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/iWorld-y/story_radar/app/story_radar/pkg/logger"
	"github.com/iWorld-y/story_radar/app/story_radar/pkg/model"
)

const systemPrompt = "You are a helpful assistant that provides accurate information about companies."

const userPromptTpl = `Research the company %s and provide information about its business model, metrics (if available), market context, and key analysis points. ` +
	`Format the response strictly as a JSON object with keys: business_model, metrics, context, and analysis_points. ` +
	`For every numeric metric use an object of the form {"value": <number>, "source": "<where the figure comes from>"}. ` +
	`Do not include any explanations, prose, code fences, or additional formatting. Provide only the JSON object.`

var codeFence = regexp.MustCompile("^```(?:json)?\\s*|\\s*```$")

// BuildRequest 组装研究请求，要求服务只返回约定键的 JSON 对象
func BuildRequest(companyName string) *Request {
	return &Request{
		CompanyName:  companyName,
		SystemPrompt: systemPrompt,
		Prompt:       fmt.Sprintf(userPromptTpl, companyName),
	}
}

// StripCodeFence 去掉首尾的 ``` 或 ```json 围栏
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	text = codeFence.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// Fetch 调用研究服务并把回答解析成数据包
// 解析失败返回 ResearchParseError，其中保留去围栏后的原文
func Fetch(ctx context.Context, r Researcher, companyName string) (*model.ResearchResult, error) {
	log := logger.Log.WithFields(logrus.Fields{"stage": "research", "company": companyName})

	resp, err := r.Research(ctx, BuildRequest(companyName))
	if err != nil {
		var svcErr *model.ResearchServiceError
		if errors.As(err, &svcErr) {
			log.Errorf("研究服务调用失败: %v", err)
		} else {
			log.Warnf("研究服务不可用: %v", err)
		}
		return nil, err
	}

	cleaned := StripCodeFence(resp.Content)
	log.Debugf("研究服务返回: %s", cleaned)

	citations := resp.Citations
	if citations == nil {
		citations = []string{}
	}

	data, err := parseBundle(cleaned)
	if err != nil {
		log.Errorf("研究结果 JSON 解析失败: %v, raw: %s", err, cleaned)
		return nil, &model.ResearchParseError{Raw: cleaned, Err: err}
	}

	return &model.ResearchResult{Data: data, Citations: citations, Raw: cleaned}, nil
}

// parseBundle JSON null 返回 nil 数据包，非对象视为解析失败
func parseBundle(text string) (*model.Bundle, error) {
	var probe json.RawMessage
	if err := json.Unmarshal([]byte(text), &probe); err != nil {
		return nil, err
	}
	probe = bytes.TrimSpace(probe)
	if string(probe) == "null" {
		return nil, nil
	}
	if len(probe) == 0 || probe[0] != '{' {
		return nil, fmt.Errorf("expected a JSON object, got %.20s", probe)
	}

	var b model.Bundle
	if err := json.Unmarshal(probe, &b); err != nil {
		return nil, err
	}
	return &b, nil
}
