// Package mirror reproduces the source-bearing part of a directory tree as a tree of documents.
package mirror

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/codearchive/internal/types"
)

const (
	// errorReadDirectoryFormat is used when a directory cannot be listed for a reason other than permissions.
	errorReadDirectoryFormat = "reading directory %s: %w"
	// errorCreateDirectoryFormat is used when a destination directory cannot be created.
	errorCreateDirectoryFormat = "creating directory %s: %w"

	debugPermissionDeniedMessage = "directory not readable, treating as empty"
	debugTransformedMessage      = "transformed source file"
	debugCopiedMessage           = "copied documentation file"
)

// Mirrorer mirrors source trees according to a fixed set of rules.
type Mirrorer struct {
	rules         Rules
	logger        *zap.Logger
	readDirectory func(string) ([]os.DirEntry, error)
}

// NewMirrorer builds a Mirrorer. A nil logger discards diagnostics.
func NewMirrorer(rules Rules, logger *zap.Logger) *Mirrorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mirrorer{rules: rules.normalized(), logger: logger, readDirectory: os.ReadDir}
}

// Rules returns the normalized rules used by the mirrorer.
func (mirrorer *Mirrorer) Rules() Rules {
	return mirrorer.rules
}

// mirrorRun carries the state of one Mirror call.
// visited records the outcome per source directory so that the second pass
// over a subtree already materialized during probing returns without rewriting it.
type mirrorRun struct {
	visited    map[string]bool
	statistics types.ArchiveStatistics
}

// Mirror reports whether sourceDirectoryPath or any descendant holds a qualifying
// source file. When it does, destinationDirectoryPath is created and filled with
// transformed source documents and copied documentation files; otherwise nothing
// is written. The destination is expected not to hold stale output.
func (mirrorer *Mirrorer) Mirror(sourceDirectoryPath string, destinationDirectoryPath string) (bool, error) {
	found, _, mirrorError := mirrorer.MirrorWithStatistics(sourceDirectoryPath, destinationDirectoryPath)
	return found, mirrorError
}

// MirrorWithStatistics behaves like Mirror and also reports what was written.
func (mirrorer *Mirrorer) MirrorWithStatistics(sourceDirectoryPath string, destinationDirectoryPath string) (bool, types.ArchiveStatistics, error) {
	run := &mirrorRun{visited: make(map[string]bool)}
	found, mirrorError := mirrorer.mirrorDirectory(run, filepath.Clean(sourceDirectoryPath), filepath.Clean(destinationDirectoryPath))
	return found, run.statistics, mirrorError
}

// mirrorDirectory probes the entries of a directory and, when a qualifying file
// exists beneath it, materializes the destination directory in a second pass.
func (mirrorer *Mirrorer) mirrorDirectory(run *mirrorRun, sourceDirectoryPath string, destinationDirectoryPath string) (bool, error) {
	if found, visited := run.visited[sourceDirectoryPath]; visited {
		return found, nil
	}

	candidateEntries, listError := mirrorer.listCandidates(sourceDirectoryPath)
	if listError != nil {
		if errors.Is(listError, fs.ErrPermission) {
			mirrorer.logger.Debug(debugPermissionDeniedMessage, zap.String("path", sourceDirectoryPath))
			run.visited[sourceDirectoryPath] = false
			return false, nil
		}
		return false, listError
	}

	foundSource := false
	for _, candidate := range candidateEntries {
		if candidate.isDirectory {
			childFound, childError := mirrorer.mirrorDirectory(run, filepath.Join(sourceDirectoryPath, candidate.name), filepath.Join(destinationDirectoryPath, candidate.name))
			if childError != nil {
				return false, childError
			}
			foundSource = foundSource || childFound
			continue
		}
		if mirrorer.rules.isSourceFile(candidate.name) {
			foundSource = true
		}
	}

	if !foundSource {
		run.visited[sourceDirectoryPath] = false
		return false, nil
	}

	if createError := os.MkdirAll(destinationDirectoryPath, 0o755); createError != nil {
		return false, fmt.Errorf(errorCreateDirectoryFormat, destinationDirectoryPath, createError)
	}
	run.statistics.Directories++

	for _, candidate := range candidateEntries {
		sourcePath := filepath.Join(sourceDirectoryPath, candidate.name)
		if candidate.isDirectory {
			if _, childError := mirrorer.mirrorDirectory(run, sourcePath, filepath.Join(destinationDirectoryPath, candidate.name)); childError != nil {
				return false, childError
			}
			continue
		}
		switch {
		case mirrorer.rules.isSourceFile(candidate.name):
			documentPath := filepath.Join(destinationDirectoryPath, DocumentName(candidate.name, mirrorer.rules.DocumentationExtension))
			writtenBytes, writeError := writeTransformedDocument(sourcePath, documentPath, mirrorer.rules.Language)
			if writeError != nil {
				return false, writeError
			}
			run.statistics.TransformedDocuments++
			run.statistics.WrittenBytes += writtenBytes
			mirrorer.logger.Debug(debugTransformedMessage, zap.String("source", sourcePath), zap.String("document", documentPath))
		case mirrorer.rules.isDocumentationFile(candidate.name):
			documentPath := filepath.Join(destinationDirectoryPath, candidate.name)
			copiedBytes, copyError := copyDocument(sourcePath, documentPath)
			if copyError != nil {
				return false, copyError
			}
			run.statistics.CopiedDocuments++
			run.statistics.WrittenBytes += copiedBytes
			mirrorer.logger.Debug(debugCopiedMessage, zap.String("source", sourcePath), zap.String("document", documentPath))
		}
	}

	run.visited[sourceDirectoryPath] = true
	return true, nil
}

type candidateEntry struct {
	name        string
	isDirectory bool
}

// listCandidates lists the entries of a directory that survive the exclusion rules,
// in the name order returned by the directory reader. Symbolic links are resolved when deciding whether an entry is a directory.
func (mirrorer *Mirrorer) listCandidates(directoryPath string) ([]candidateEntry, error) {
	directoryEntries, readDirectoryError := mirrorer.readDirectory(directoryPath)
	if readDirectoryError != nil {
		return nil, fmt.Errorf(errorReadDirectoryFormat, directoryPath, readDirectoryError)
	}

	candidates := make([]candidateEntry, 0, len(directoryEntries))
	for _, directoryEntry := range directoryEntries {
		entryName := directoryEntry.Name()
		isDirectory := directoryEntry.IsDir()
		if directoryEntry.Type()&fs.ModeSymlink != 0 {
			if targetInfo, statError := os.Stat(filepath.Join(directoryPath, entryName)); statError == nil {
				isDirectory = targetInfo.IsDir()
			}
		}
		if isDirectory && mirrorer.rules.skipsDirectory(entryName) {
			continue
		}
		if mirrorer.rules.skipsFile(entryName) {
			continue
		}
		candidates = append(candidates, candidateEntry{name: entryName, isDirectory: isDirectory})
	}
	return candidates, nil
}
