// Package archive drives one archiving run: validation, mirroring, and the optional summary.
package archive

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/codearchive/internal/mirror"
	"github.com/temirov/codearchive/internal/services/clipboard"
	"github.com/temirov/codearchive/internal/types"
	"github.com/temirov/codearchive/internal/utils"
)

var (
	// ErrInvalidSourceDirectory is returned when the project path is missing or is not a directory.
	ErrInvalidSourceDirectory = errors.New("not a valid directory")
	// ErrArchiveOverlapsSource is returned when the archive directory is the source directory or one of its ancestors.
	ErrArchiveOverlapsSource = errors.New("archive directory overlaps the source directory")
)

const (
	errorInvalidSourceFormat   = "the path '%s' is %w"
	errorOverlapFormat         = "archive %s for source %s: %w"
	errorAbsolutePathFormat    = "abs failed for '%s': %w"
	errorRemoveArchiveFormat   = "remove existing archive %s: %w"
	errorMirrorFormat          = "mirror %s into %s: %w"
	errorGenerateSummaryFormat = "generate summary for %s: %w"

	infoReplacingArchiveMessage = "archive directory already exists, deleting it to overwrite with a new version"
	infoNoSourceFilesMessage    = "no source files found; no archive directory created"
	infoArchiveCreatedMessage   = "created archive"
	infoSummaryCreatedMessage   = "summary created"
	infoSummarySkippedMessage   = "summary generation disabled"
	debugDescriptionsSkipped    = "per-file descriptions disabled"
	infoSummaryCopiedMessage    = "summary copied to clipboard"
	warningClipboardMessage     = "failed to copy summary to clipboard"
)

// SummaryGenerator writes the summary of an archive directory and returns its path.
type SummaryGenerator interface {
	Generate(ctx context.Context, archiveDirectoryPath string) (string, error)
}

// Options describes one archiving run.
type Options struct {
	SourceDirectory      string
	ArchiveBaseDirectory string
	Rules                mirror.Rules
	GenerateSummary      bool
	GenerateDescriptions bool
	CopySummary          bool
}

// Result reports the outcome of a run.
type Result struct {
	Found            bool
	ArchiveDirectory string
	SummaryPath      string
	Statistics       types.ArchiveStatistics
}

// Runner executes archiving runs.
type Runner struct {
	summaryGenerator SummaryGenerator
	copier           clipboard.Copier
	logger           *zap.Logger
}

// NewRunner builds a Runner. summaryGenerator may be nil when summaries are never requested,
// and copier may be nil when the summary is never copied.
func NewRunner(summaryGenerator SummaryGenerator, copier clipboard.Copier, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{summaryGenerator: summaryGenerator, copier: copier, logger: logger}
}

// ArchiveDirectory returns the absolute path <archiveBaseDirectory>/<base name of the absolute source directory>.
func ArchiveDirectory(sourceDirectory string, archiveBaseDirectory string) (string, error) {
	absoluteSourceDirectory, absolutePathError := filepath.Abs(sourceDirectory)
	if absolutePathError != nil {
		return "", fmt.Errorf(errorAbsolutePathFormat, sourceDirectory, absolutePathError)
	}
	absoluteArchiveBase, archiveBaseError := filepath.Abs(archiveBaseDirectory)
	if archiveBaseError != nil {
		return "", fmt.Errorf(errorAbsolutePathFormat, archiveBaseDirectory, archiveBaseError)
	}
	return filepath.Join(absoluteArchiveBase, filepath.Base(absoluteSourceDirectory)), nil
}

// ValidateSourceDirectory resolves sourceDirectory and checks that it is an existing directory.
func ValidateSourceDirectory(sourceDirectory string) (types.ValidatedPath, error) {
	absolutePath, absolutePathError := filepath.Abs(sourceDirectory)
	if absolutePathError != nil {
		return types.ValidatedPath{}, fmt.Errorf(errorAbsolutePathFormat, sourceDirectory, absolutePathError)
	}
	fileInformation, statError := os.Stat(absolutePath)
	if statError != nil || !fileInformation.IsDir() {
		return types.ValidatedPath{}, fmt.Errorf(errorInvalidSourceFormat, sourceDirectory, ErrInvalidSourceDirectory)
	}
	return types.ValidatedPath{AbsolutePath: filepath.Clean(absolutePath), IsDir: true}, nil
}

// archiveContainsSource reports whether archiveDirectory is sourceDirectory or one of its ancestors.
func archiveContainsSource(archiveDirectory string, sourceDirectory string) bool {
	relativePath, relativeError := filepath.Rel(filepath.Clean(archiveDirectory), filepath.Clean(sourceDirectory))
	if relativeError != nil {
		return false
	}
	return relativePath == "." || (relativePath != ".." && !strings.HasPrefix(relativePath, ".."+string(filepath.Separator)))
}

// Run validates the source, replaces any previous archive, mirrors the source tree
// and, when something qualified and summaries are enabled, writes the summary.
// Nothing is touched on disk when validation fails, including when the archive
// directory would be the source directory or one of its ancestors. A summary failure is returned
// after the mirrored archive has already been written.
func (runner *Runner) Run(ctx context.Context, options Options) (Result, error) {
	sourcePath, validationError := ValidateSourceDirectory(options.SourceDirectory)
	if validationError != nil {
		return Result{}, validationError
	}
	archiveDirectory, archiveDirectoryError := ArchiveDirectory(sourcePath.AbsolutePath, options.ArchiveBaseDirectory)
	if archiveDirectoryError != nil {
		return Result{}, archiveDirectoryError
	}
	if archiveContainsSource(archiveDirectory, sourcePath.AbsolutePath) {
		return Result{}, fmt.Errorf(errorOverlapFormat, archiveDirectory, sourcePath.AbsolutePath, ErrArchiveOverlapsSource)
	}
	result := Result{ArchiveDirectory: archiveDirectory}

	if _, statError := os.Lstat(archiveDirectory); statError == nil {
		runner.logger.Info(infoReplacingArchiveMessage, zap.String("archive", archiveDirectory))
		if removeError := os.RemoveAll(archiveDirectory); removeError != nil {
			return result, fmt.Errorf(errorRemoveArchiveFormat, archiveDirectory, removeError)
		}
	}

	if !options.GenerateDescriptions {
		runner.logger.Debug(debugDescriptionsSkipped)
	}

	mirrorer := mirror.NewMirrorer(options.Rules, runner.logger)
	found, statistics, mirrorError := mirrorer.MirrorWithStatistics(sourcePath.AbsolutePath, archiveDirectory)
	if mirrorError != nil {
		return result, fmt.Errorf(errorMirrorFormat, sourcePath.AbsolutePath, archiveDirectory, mirrorError)
	}
	result.Found = found
	result.Statistics = statistics
	if !found {
		runner.logger.Info(infoNoSourceFilesMessage, zap.String("extension", mirrorer.Rules().SourceExtension))
		return result, nil
	}

	runner.logger.Info(infoArchiveCreatedMessage,
		zap.String("archive", archiveDirectory),
		zap.Int("documents", statistics.TransformedDocuments),
		zap.Int("copied", statistics.CopiedDocuments),
		zap.String("size", utils.FormatFileSize(statistics.WrittenBytes)),
	)

	if !options.GenerateSummary || runner.summaryGenerator == nil {
		runner.logger.Info(infoSummarySkippedMessage)
		return result, nil
	}
	summaryPath, summaryError := runner.summaryGenerator.Generate(ctx, archiveDirectory)
	if summaryError != nil {
		return result, fmt.Errorf(errorGenerateSummaryFormat, archiveDirectory, summaryError)
	}
	result.SummaryPath = summaryPath
	runner.logger.Info(infoSummaryCreatedMessage, zap.String("path", summaryPath))

	if options.CopySummary && runner.copier != nil {
		if copyError := clipboard.CopyFile(runner.copier, summaryPath); copyError != nil {
			runner.logger.Warn(warningClipboardMessage, zap.Error(copyError))
		} else {
			runner.logger.Info(infoSummaryCopiedMessage)
		}
	}
	return result, nil
}
