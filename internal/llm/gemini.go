package llm

import (
	"context"
	"fmt"
	"strings"

	genai "google.golang.org/genai"

	"github.com/temirov/codearchive/internal/types"
)

// contentGenerator is the part of the genai client used by GeminiSummarizer.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiSummarizer is a thin wrapper around the official genai client.
type GeminiSummarizer struct {
	generator   contentGenerator
	model       string
	temperature float32
}

// NewGeminiSummarizer connects to the Gemini API with the configured key and optional endpoint.
func NewGeminiSummarizer(ctx context.Context, settings Settings) (*GeminiSummarizer, error) {
	apiKey := strings.TrimSpace(settings.APIKey)
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	clientConfig := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if endpoint := strings.TrimSpace(settings.Endpoint); endpoint != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: endpoint}
	}
	client, clientError := genai.NewClient(ctx, clientConfig)
	if clientError != nil {
		return nil, fmt.Errorf("create genai client: %w", clientError)
	}
	return newGeminiSummarizer(client.Models, settings), nil
}

func newGeminiSummarizer(generator contentGenerator, settings Settings) *GeminiSummarizer {
	model := strings.TrimSpace(settings.Model)
	if model == "" {
		model = types.DefaultSummaryModel
	}
	temperature := float32(types.DefaultSummaryTemperature)
	if settings.Temperature != nil {
		temperature = *settings.Temperature
	}
	return &GeminiSummarizer{generator: generator, model: model, temperature: temperature}
}

// Name identifies the provider and model.
func (summarizer *GeminiSummarizer) Name() string { return "Gemini:" + summarizer.model }

// Summarize sends instruction as the system instruction and content as the single user turn.
// The text of the first candidate is returned verbatim. Errors are not retried.
func (summarizer *GeminiSummarizer) Summarize(ctx context.Context, instruction string, content string) (string, error) {
	generationConfig := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(summarizer.temperature),
	}
	if instruction != "" {
		generationConfig.SystemInstruction = genai.NewContentFromText(instruction, genai.RoleUser)
	}
	response, generateError := summarizer.generator.GenerateContent(ctx, summarizer.model, genai.Text(content), generationConfig)
	if generateError != nil {
		return "", fmt.Errorf("generate summary with %s: %w", summarizer.model, generateError)
	}
	return firstCandidateText(response)
}

func firstCandidateText(response *genai.GenerateContentResponse) (string, error) {
	if response == nil || len(response.Candidates) == 0 {
		return "", ErrEmptyCompletion
	}
	candidate := response.Candidates[0]
	if candidate == nil || candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", ErrEmptyCompletion
	}
	var builder strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		builder.WriteString(part.Text)
	}
	if builder.Len() == 0 {
		return "", ErrEmptyCompletion
	}
	return builder.String(), nil
}

var _ Summarizer = (*GeminiSummarizer)(nil)
