package model

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawMetric_Source(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"string", `{"value": 1, "source": "Crunchbase"}`, "Crunchbase"},
		{"number", `{"value": 1, "source": 2023}`, "2023"},
		{"true", `{"value": 1, "source": true}`, "true"},
		{"object", `{"value": 1, "source": {"name": "10-K"}}`, `{"name":"10-K"}`},
		{"null", `{"value": 1, "source": null}`, ""},
		{"false", `{"value": 1, "source": false}`, ""},
		{"zero", `{"value": 1, "source": 0}`, ""},
		{"missing", `{"value": 1}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m RawMetric
			require.NoError(t, json.Unmarshal([]byte(tt.in), &m))
			assert.True(t, m.IsSourced())
			assert.Equal(t, tt.want, m.Source())
			require.NotNil(t, m.Value())
			assert.Equal(t, 1.0, *m.Value())
		})
	}
}

func TestDiagnostic(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		want        string
		recoverable bool
	}{
		{
			name:        "configuration",
			err:         &ConfigurationError{Setting: "PERPLEXITY_API_KEY", Message: "Perplexity API key is not set"},
			want:        "Perplexity API key is not set",
			recoverable: true,
		},
		{
			name:        "parse keeps raw text",
			err:         &ResearchParseError{Raw: "not json", Err: errors.New("invalid character")},
			want:        "not json",
			recoverable: true,
		},
		{
			name:        "provider status",
			err:         &ResearchServiceError{Provider: "perplexity", StatusCode: 401, Body: "unauthorized"},
			want:        "perplexity api error (status 401): unauthorized",
			recoverable: true,
		},
		{
			name: "canceled transport call",
			err: &ResearchServiceError{Provider: "perplexity", Err: &url.Error{
				Op: "Post", URL: "https://api.perplexity.ai/chat/completions", Err: context.Canceled,
			}},
		},
		{
			name: "deadline exceeded",
			err:  &ResearchServiceError{Provider: "tavily", Err: fmt.Errorf("search: %w", context.DeadlineExceeded)},
		},
		{
			name: "unclassified",
			err:  errors.New("boom"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Diagnostic(tt.err)
			assert.Equal(t, tt.recoverable, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
