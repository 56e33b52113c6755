// Package llm talks to the hosted language model that writes archive summaries.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/codearchive/internal/types"
)

var (
	// ErrMissingAPIKey is returned when a hosted provider is selected without credentials.
	ErrMissingAPIKey = errors.New("llm: missing API key")
	// ErrEmptyCompletion is returned when the model answers without any text.
	ErrEmptyCompletion = errors.New("llm: empty completion")
	// ErrUnsupportedProvider is returned for unknown provider names.
	ErrUnsupportedProvider = errors.New("llm: unsupported provider")
)

// Summarizer turns a text blob into a document following instruction.
type Summarizer interface {
	Summarize(ctx context.Context, instruction string, content string) (string, error)
}

// Settings selects and configures a Summarizer.
type Settings struct {
	Provider    string
	Model       string
	APIKey      string
	Endpoint    string
	Temperature *float32
}

// NewSummarizer builds the Summarizer named by settings.Provider.
// An empty provider selects Gemini.
func NewSummarizer(ctx context.Context, settings Settings) (Summarizer, error) {
	provider := strings.ToLower(strings.TrimSpace(settings.Provider))
	switch provider {
	case "", types.ProviderGemini:
		geminiSummarizer, geminiError := NewGeminiSummarizer(ctx, settings)
		if geminiError != nil {
			return nil, geminiError
		}
		return geminiSummarizer, nil
	case types.ProviderOffline:
		return OfflineSummarizer{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, settings.Provider)
	}
}
