package usecase

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/story_radar/app/story_radar/pkg/config"
	"github.com/iWorld-y/story_radar/app/story_radar/pkg/engine"
	"github.com/iWorld-y/story_radar/app/story_radar/pkg/model"
	"github.com/iWorld-y/story_radar/app/story_radar/pkg/perplexity"
)

// mockStoryEngine 模拟故事生成管线
type mockStoryEngine struct {
	research    *model.ResearchResult
	researchErr error
	assembleErr error
	formatted   string
	formatErr   error

	researchCalls int
	assembleCalls int
	formatCalls   int
}

func (m *mockStoryEngine) Research(ctx context.Context, companyName string) (*model.ResearchResult, error) {
	m.researchCalls++
	return m.research, m.researchErr
}

func (m *mockStoryEngine) Assemble(ctx context.Context, companyName string, bundle *model.Bundle) (*model.Story, error) {
	m.assembleCalls++
	if m.assembleErr != nil {
		return nil, m.assembleErr
	}
	return &model.Story{Headline: companyName + " rises"}, nil
}

func (m *mockStoryEngine) FormatStory(ctx context.Context, story *model.Story) (string, error) {
	m.formatCalls++
	return m.formatted, m.formatErr
}

func newUseCase(eng *mockStoryEngine) *NewsletterUseCase {
	return NewNewsletterUseCase(eng, log.DefaultLogger)
}

func TestGenerate_SuppliedBundleSkipsResearch(t *testing.T) {
	eng := &mockStoryEngine{formatted: "## Context\n**Acme** grows"}
	uc := newUseCase(eng)

	got, err := uc.Generate(context.Background(), "Acme", &model.Bundle{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if eng.researchCalls != 0 {
		t.Errorf("Research called %d times, want 0", eng.researchCalls)
	}
	if got.Story != "## Context\n**Acme** grows" {
		t.Errorf("Story = %q", got.Story)
	}
	if !got.IsMarkdown {
		t.Errorf("IsMarkdown = false, want true")
	}
	if got.HTMLContent != "<h2>Context</h2>\n<p><strong>Acme</strong> grows</p>\n" {
		t.Errorf("HTMLContent = %q", got.HTMLContent)
	}
	if got.Diagnostic != nil {
		t.Errorf("Diagnostic = %q, want nil", *got.Diagnostic)
	}
	if got.Citations == nil || len(got.Citations) != 0 {
		t.Errorf("Citations = %v, want empty slice", got.Citations)
	}
}

func TestGenerate_MissingCredential(t *testing.T) {
	eng := &mockStoryEngine{
		researchErr: &model.ConfigurationError{Setting: "PERPLEXITY_API_KEY", Message: "Perplexity API key is not set"},
	}
	uc := newUseCase(eng)

	got, err := uc.Generate(context.Background(), "Acme", nil)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got.Diagnostic == nil || *got.Diagnostic != "Perplexity API key is not set" {
		t.Errorf("Diagnostic = %v", got.Diagnostic)
	}
	if got.Story != "" || got.HTMLContent != "" {
		t.Errorf("unexpected story content: %q / %q", got.Story, got.HTMLContent)
	}
	if eng.assembleCalls != 0 || eng.formatCalls != 0 {
		t.Errorf("generation should be skipped, assemble=%d format=%d", eng.assembleCalls, eng.formatCalls)
	}
}

func TestGenerate_ParseFailureKeepsRawText(t *testing.T) {
	eng := &mockStoryEngine{
		researchErr: &model.ResearchParseError{Raw: "Sorry, I could not find that.", Err: errors.New("invalid character")},
	}
	uc := newUseCase(eng)

	got, err := uc.Generate(context.Background(), "Acme", nil)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got.Diagnostic == nil || *got.Diagnostic != "Sorry, I could not find that." {
		t.Errorf("Diagnostic = %v", got.Diagnostic)
	}
}

func TestGenerate_ResearchSuccess(t *testing.T) {
	eng := &mockStoryEngine{
		research: &model.ResearchResult{
			Data:      &model.Bundle{},
			Citations: []string{"https://example.com/acme"},
		},
		formatted: "Acme grows quickly.",
	}
	uc := newUseCase(eng)

	got, err := uc.Generate(context.Background(), "Acme", nil)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got.IsMarkdown {
		t.Errorf("IsMarkdown = true, want false")
	}
	if got.HTMLContent != "Acme grows quickly." {
		t.Errorf("HTMLContent = %q", got.HTMLContent)
	}
	if len(got.Citations) != 1 || got.Citations[0] != "https://example.com/acme" {
		t.Errorf("Citations = %v", got.Citations)
	}
}

func TestGenerate_NoDataIsFatal(t *testing.T) {
	eng := &mockStoryEngine{research: &model.ResearchResult{Citations: []string{}}}
	uc := newUseCase(eng)

	_, err := uc.Generate(context.Background(), "Acme", nil)
	var missing *model.MissingDataError
	if !errors.As(err, &missing) {
		t.Fatalf("Generate() error = %v, want MissingDataError", err)
	}
}

func TestGenerate_CompletionFailureIsFatal(t *testing.T) {
	tests := []struct {
		name   string
		engine *mockStoryEngine
	}{
		{
			name:   "headline",
			engine: &mockStoryEngine{assembleErr: &model.CompletionServiceError{Stage: model.StageHeadline, Err: errors.New("timeout")}},
		},
		{
			name:   "format",
			engine: &mockStoryEngine{formatErr: &model.CompletionServiceError{Stage: model.StageFormat, Err: errors.New("timeout")}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newUseCase(tt.engine).Generate(context.Background(), "Acme", &model.Bundle{})
			if got != nil {
				t.Errorf("Generate() = %+v, want nil", got)
			}
			var cerr *model.CompletionServiceError
			if !errors.As(err, &cerr) || cerr.Stage != tt.name {
				t.Errorf("Generate() error = %v", err)
			}
		})
	}
}

func TestGenerate_UnclassifiedResearchErrorIsFatal(t *testing.T) {
	eng := &mockStoryEngine{researchErr: context.Canceled}

	_, err := newUseCase(eng).Generate(context.Background(), "Acme", nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Generate() error = %v, want context.Canceled", err)
	}
}

func TestGenerate_CanceledResearchIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": [{"message": {"content": "{}"}}]}`))
	}))
	defer srv.Close()

	researcher := perplexity.NewClient("pplx-key", perplexity.WithBaseURL(srv.URL))
	uc := NewNewsletterUseCase(engine.New(config.Default(), nil, researcher), log.DefaultLogger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := uc.Generate(ctx, "Acme", nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Generate() error = %v, want context.Canceled", err)
	}
	if got != nil {
		t.Errorf("Generate() = %+v, want nil", got)
	}
}
