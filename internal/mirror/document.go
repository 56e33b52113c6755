package mirror

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	// CodeFence opens and closes a fenced code block.
	CodeFence = "```"

	errorReadSourceFormat    = "read source file %s: %w"
	errorWriteDocumentFormat = "write document %s: %w"
	errorCopyDocumentFormat  = "copy document %s to %s: %w"
)

var extensionLanguages = map[string]string{
	".py":   "python",
	".go":   "go",
	".js":   "javascript",
	".jsx":  "jsx",
	".ts":   "typescript",
	".tsx":  "tsx",
	".rb":   "ruby",
	".rs":   "rust",
	".java": "java",
	".kt":   "kotlin",
	".sh":   "shell",
	".c":    "c",
	".h":    "c",
	".cpp":  "cpp",
	".cs":   "csharp",
	".php":  "php",
	".sql":  "sql",
}

// LanguageForExtension returns the fence language tag for a source extension.
// Unknown extensions use the extension without its dot.
func LanguageForExtension(extension string) string {
	lowerExtension := strings.ToLower(extension)
	if language, known := extensionLanguages[lowerExtension]; known {
		return language
	}
	return strings.TrimPrefix(lowerExtension, ".")
}

// RenderDocument wraps source code in a fenced block tagged with language.
func RenderDocument(language string, sourceCode []byte) []byte {
	var builder strings.Builder
	builder.Grow(len(sourceCode) + len(language) + 2*len(CodeFence) + 2)
	builder.WriteString(CodeFence)
	builder.WriteString(language)
	builder.WriteString("\n")
	builder.Write(sourceCode)
	builder.WriteString("\n")
	builder.WriteString(CodeFence)
	return []byte(builder.String())
}

// DocumentName returns the destination name of a transformed source file:
// the base name without its extension followed by documentationExtension.
func DocumentName(sourceFileName string, documentationExtension string) string {
	stem := strings.TrimSuffix(sourceFileName, filepath.Ext(sourceFileName))
	if stem == "" {
		stem = sourceFileName
	}
	return stem + documentationExtension
}

// writeTransformedDocument renders the source file at sourcePath into destinationPath.
func writeTransformedDocument(sourcePath string, destinationPath string, language string) (int64, error) {
	sourceCode, readError := os.ReadFile(sourcePath)
	if readError != nil {
		return 0, fmt.Errorf(errorReadSourceFormat, sourcePath, readError)
	}
	document := RenderDocument(language, sourceCode)
	if writeError := os.WriteFile(destinationPath, document, 0o644); writeError != nil {
		return 0, fmt.Errorf(errorWriteDocumentFormat, destinationPath, writeError)
	}
	return int64(len(document)), nil
}

// copyDocument copies sourcePath byte for byte and keeps its mode and modification time.
func copyDocument(sourcePath string, destinationPath string) (int64, error) {
	sourceInfo, statError := os.Stat(sourcePath)
	if statError != nil {
		return 0, fmt.Errorf(errorCopyDocumentFormat, sourcePath, destinationPath, statError)
	}
	sourceFile, openError := os.Open(sourcePath)
	if openError != nil {
		return 0, fmt.Errorf(errorCopyDocumentFormat, sourcePath, destinationPath, openError)
	}
	defer sourceFile.Close()

	destinationFile, createError := os.OpenFile(destinationPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, sourceInfo.Mode().Perm())
	if createError != nil {
		return 0, fmt.Errorf(errorCopyDocumentFormat, sourcePath, destinationPath, createError)
	}
	copiedBytes, copyError := io.Copy(destinationFile, sourceFile)
	closeError := destinationFile.Close()
	if copyError != nil {
		return 0, fmt.Errorf(errorCopyDocumentFormat, sourcePath, destinationPath, copyError)
	}
	if closeError != nil {
		return 0, fmt.Errorf(errorCopyDocumentFormat, sourcePath, destinationPath, closeError)
	}
	if chmodError := os.Chmod(destinationPath, sourceInfo.Mode().Perm()); chmodError != nil {
		return 0, fmt.Errorf(errorCopyDocumentFormat, sourcePath, destinationPath, chmodError)
	}
	if chtimesError := os.Chtimes(destinationPath, sourceInfo.ModTime(), sourceInfo.ModTime()); chtimesError != nil {
		return 0, fmt.Errorf(errorCopyDocumentFormat, sourcePath, destinationPath, chtimesError)
	}
	return copiedBytes, nil
}
