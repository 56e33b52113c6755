// Package summary writes the model-generated overview document of an archive.
package summary

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/codearchive/internal/llm"
	"github.com/temirov/codearchive/internal/tokenizer"
	"github.com/temirov/codearchive/internal/types"
)

const (
	infoRequestMessage       = "requesting archive summary"
	warningTokenCountMessage = "failed to estimate prompt tokens"
	errorCollectFormat       = "collect structure of %s: %w"
	errorSummarizeFormat     = "summarize %s: %w"
	errorWriteSummaryFormat  = "write summary %s: %w"
)

// Options configures a Generator.
type Options struct {
	// Instruction is the fixed system instruction. DefaultInstruction is used when empty.
	Instruction string
	// Structure controls the rendering of the archive tree.
	Structure StructureOptions
	// TokenCounter, when set, estimates the prompt size before the request.
	TokenCounter tokenizer.Counter
}

// Generator renders an archive tree, asks the summarizer for an overview and writes it next to the archive content.
type Generator struct {
	summarizer llm.Summarizer
	options    Options
	logger     *zap.Logger
}

// NewGenerator builds a Generator. A nil logger discards diagnostics.
func NewGenerator(summarizer llm.Summarizer, options Options, logger *zap.Logger) *Generator {
	if options.Instruction == "" {
		options.Instruction = DefaultInstruction
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{summarizer: summarizer, options: options, logger: logger}
}

// FileName returns the summary file name for an archive directory: README_<base name>.md.
func FileName(archiveDirectoryPath string) string {
	return types.SummaryFilePrefix + filepath.Base(filepath.Clean(archiveDirectoryPath)) + types.SummaryFileSuffix
}

// Generate writes the summary of archiveDirectoryPath and returns its path.
// A summarizer failure is returned wrapped and no summary file is written.
func (generator *Generator) Generate(ctx context.Context, archiveDirectoryPath string) (string, error) {
	structure, collectError := CollectRepositoryStructure(archiveDirectoryPath, generator.options.Structure)
	if collectError != nil {
		return "", fmt.Errorf(errorCollectFormat, archiveDirectoryPath, collectError)
	}

	requestFields := []zap.Field{zap.String("archive", archiveDirectoryPath), zap.Int("bytes", len(structure))}
	if generator.options.TokenCounter != nil {
		countResult, countError := tokenizer.CountBytes(generator.options.TokenCounter, []byte(structure))
		if countError != nil {
			generator.logger.Warn(warningTokenCountMessage, zap.Error(countError))
		} else if countResult.Counted {
			requestFields = append(requestFields, zap.Int("tokens", countResult.Tokens), zap.String("tokenizer", generator.options.TokenCounter.Name()))
		}
	}
	generator.logger.Info(infoRequestMessage, requestFields...)

	summaryText, summarizeError := generator.summarizer.Summarize(ctx, generator.options.Instruction, structure)
	if summarizeError != nil {
		return "", fmt.Errorf(errorSummarizeFormat, archiveDirectoryPath, summarizeError)
	}

	summaryPath := filepath.Join(archiveDirectoryPath, FileName(archiveDirectoryPath))
	if writeError := os.WriteFile(summaryPath, []byte(summaryText), 0o644); writeError != nil {
		return "", fmt.Errorf(errorWriteSummaryFormat, summaryPath, writeError)
	}
	return summaryPath, nil
}
