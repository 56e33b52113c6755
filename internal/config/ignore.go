package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/codearchive/internal/utils"
)

const (
	// directoriesSectionHeader starts the list of directory names to skip. It is the default section.
	directoriesSectionHeader = "[directories]"
	// filesSectionHeader starts the list of file names to skip.
	filesSectionHeader = "[files]"
)

// IgnoreList holds the exact names read from a project's ignore file.
type IgnoreList struct {
	Directories []string
	Files       []string
}

// LoadIgnoreFile reads the ignore file at the root of projectDirectory.
// A missing file yields an empty list.
//
// #nosec G304
func LoadIgnoreFile(projectDirectory string) (IgnoreList, error) {
	ignoreFilePath := filepath.Join(projectDirectory, utils.IgnoreFileName)
	fileHandle, openFileError := os.Open(ignoreFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return IgnoreList{}, nil
		}
		return IgnoreList{}, fmt.Errorf("open ignore file %s: %w", ignoreFilePath, openFileError)
	}
	defer func() {
		closeError := fileHandle.Close()
		if closeError != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close %s: %v\n", ignoreFilePath, closeError)
		}
	}()

	var ignoreList IgnoreList
	currentSectionHeader := directoriesSectionHeader
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, "#") {
			continue
		}
		if strings.EqualFold(trimmedLine, filesSectionHeader) {
			currentSectionHeader = filesSectionHeader
			continue
		}
		if strings.EqualFold(trimmedLine, directoriesSectionHeader) {
			currentSectionHeader = directoriesSectionHeader
			continue
		}
		trimmedLine = strings.TrimSuffix(trimmedLine, "/")
		if currentSectionHeader == filesSectionHeader {
			ignoreList.Files = append(ignoreList.Files, trimmedLine)
			continue
		}
		ignoreList.Directories = append(ignoreList.Directories, trimmedLine)
	}
	if scanError := scanner.Err(); scanError != nil {
		return IgnoreList{}, fmt.Errorf("read ignore file %s: %w", ignoreFilePath, scanError)
	}
	ignoreList.Directories = utils.DeduplicatePatterns(ignoreList.Directories)
	ignoreList.Files = utils.DeduplicatePatterns(ignoreList.Files)
	return ignoreList, nil
}
