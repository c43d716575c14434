package server

import (
	"context"
	"encoding/json"
	"errors"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/story_radar/app/newsletter/internal/conf"
	"github.com/iWorld-y/story_radar/app/newsletter/internal/service"
	"github.com/iWorld-y/story_radar/app/newsletter/internal/usecase"
	"github.com/iWorld-y/story_radar/app/story_radar/pkg/model"
)

type fakeEngine struct {
	researchErr error
	assembleErr error
	panicMsg    string
	bundles     []*model.Bundle
}

func (f *fakeEngine) Research(ctx context.Context, companyName string) (*model.ResearchResult, error) {
	return nil, f.researchErr
}

func (f *fakeEngine) Assemble(ctx context.Context, companyName string, bundle *model.Bundle) (*model.Story, error) {
	f.bundles = append(f.bundles, bundle)
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	if f.assembleErr != nil {
		return nil, f.assembleErr
	}
	return &model.Story{Headline: companyName}, nil
}

func (f *fakeEngine) FormatStory(ctx context.Context, story *model.Story) (string, error) {
	return "## " + story.Headline, nil
}

func newTestServer(engine *fakeEngine) nethttp.Handler {
	uc := usecase.NewNewsletterUseCase(engine, log.DefaultLogger)
	svc := service.NewNewsletterService(uc, log.DefaultLogger)
	return NewHTTPServer(&conf.Server{Http: &conf.HTTP{Addr: "127.0.0.1:0", Timeout: "5s"}}, svc, log.DefaultLogger)
}

func post(t *testing.T, h nethttp.Handler, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(nethttp.MethodPost, "/api/generate-newsletter", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return rec, out
}

func TestGenerateNewsletterRoute(t *testing.T) {
	engine := &fakeEngine{}
	rec, out := post(t, newTestServer(engine), `{
		"company_name": "Acme",
		"company_data": {"metrics": {"revenue": 5000000}, "analysis_points": ["growing"]}
	}`)

	if rec.Code != nethttp.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if out["story"] != "## Acme" || out["htmlContent"] != "<h2>Acme</h2>\n" || out["isMarkdown"] != true {
		t.Errorf("response = %v", out)
	}
	if v, ok := out["rawApiResponse"]; !ok || v != nil {
		t.Errorf("rawApiResponse = %v, want null", v)
	}
	if citations, ok := out["citations"].([]any); !ok || len(citations) != 0 {
		t.Errorf("citations = %v, want []", out["citations"])
	}

	if len(engine.bundles) != 1 {
		t.Fatalf("Assemble called %d times", len(engine.bundles))
	}
	revenue := engine.bundles[0].Metrics["revenue"]
	if revenue.IsSourced() || revenue.Value() == nil || *revenue.Value() != 5000000 {
		t.Errorf("revenue = %+v", revenue)
	}
}

func TestGenerateNewsletterRoute_Diagnostic(t *testing.T) {
	engine := &fakeEngine{researchErr: &model.ConfigurationError{Setting: "PERPLEXITY_API_KEY", Message: "Perplexity API key is not set"}}
	rec, out := post(t, newTestServer(engine), `{"company_name": "Acme", "company_data": null}`)

	if rec.Code != nethttp.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if out["rawApiResponse"] != "Perplexity API key is not set" || out["story"] != "" {
		t.Errorf("response = %v", out)
	}
}

func TestGenerateNewsletterRoute_Errors(t *testing.T) {
	tests := []struct {
		name     string
		engine   *fakeEngine
		body     string
		wantCode int
		wantErr  string
	}{
		{
			name:     "missing company",
			engine:   &fakeEngine{},
			body:     `{"company_data": {}}`,
			wantCode: nethttp.StatusBadRequest,
			wantErr:  "company_name is required",
		},
		{
			name:     "headline failure",
			engine:   &fakeEngine{assembleErr: &model.CompletionServiceError{Stage: model.StageHeadline, Err: errors.New("timeout")}},
			body:     `{"company_name": "Acme", "company_data": {}}`,
			wantCode: nethttp.StatusInternalServerError,
			wantErr:  "Failed to generate newsletter",
		},
		{
			name:     "panic",
			engine:   &fakeEngine{panicMsg: "nil map write"},
			body:     `{"company_name": "Acme", "company_data": {}}`,
			wantCode: nethttp.StatusInternalServerError,
			wantErr:  "Failed to generate newsletter",
		},
		{
			name:     "no data",
			engine:   &fakeEngine{},
			body:     `{"company_name": "Acme"}`,
			wantCode: nethttp.StatusInternalServerError,
			wantErr:  "Failed to generate newsletter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, out := post(t, newTestServer(tt.engine), tt.body)
			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if out["error"] != tt.wantErr {
				t.Errorf("error = %v, want %q", out["error"], tt.wantErr)
			}
		})
	}
}

func TestToConfig(t *testing.T) {
	cfg := toConfig(&conf.Newsletter{
		Llm:      &conf.LLM{StoryModel: "gpt-4o"},
		Research: &conf.Research{Provider: "tavily", Tavily: &conf.Tavily{ApiKey: "tvly-key"}},
		Story:    &conf.Story{Currency: "inr"},
	})

	if cfg.LLM.StoryModel != "gpt-4o" || cfg.LLM.HeadlineModel != "gpt-3.5-turbo" {
		t.Errorf("LLM = %+v", cfg.LLM)
	}
	if cfg.Research.Provider != "tavily" || cfg.Research.Tavily.APIKey != "tvly-key" {
		t.Errorf("Research = %+v", cfg.Research)
	}
	if cfg.Research.Perplexity.Model != "sonar" {
		t.Errorf("Perplexity = %+v", cfg.Research.Perplexity)
	}
	if cfg.Story.Currency != "inr" || cfg.Log.Level != "info" {
		t.Errorf("Story = %+v, Log = %+v", cfg.Story, cfg.Log)
	}

	if got := toConfig(nil); got.Research.Provider != "perplexity" {
		t.Errorf("toConfig(nil) provider = %q", got.Research.Provider)
	}
}

func TestErrorEncoder(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"plain error hides details", errors.New("dial tcp: connection refused"), nethttp.StatusInternalServerError, "Failed to generate newsletter"},
		{"client error keeps message", kerrors.BadRequest("INVALID_REQUEST", "company_name is required"), nethttp.StatusBadRequest, "company_name is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			errorEncoder(rec, httptest.NewRequest(nethttp.MethodPost, "/api/generate-newsletter", nil), tt.err)

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			var out map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
				t.Fatalf("decode %q: %v", rec.Body.String(), err)
			}
			if out["error"] != tt.wantErr {
				t.Errorf("error = %q, want %q", out["error"], tt.wantErr)
			}
		})
	}
}
