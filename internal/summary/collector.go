package summary

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	indentUnit = "    "

	errorReadEmbeddedFormat = "reading %s for the summary prompt: %w"
)

// StructureOptions controls how CollectRepositoryStructure renders a tree.
type StructureOptions struct {
	// EmbeddedExtension marks files whose content is inlined beneath their name.
	EmbeddedExtension string
	// Language tags the fenced blocks of inlined content.
	Language string
}

// CollectRepositoryStructure renders the tree rooted at rootDirectoryPath as text:
// one "name/" line per directory indented by depth, the files of a directory one
// level deeper, and, for files carrying options.EmbeddedExtension, their content
// in a fenced block right under the name. Files of a directory come before its
// subdirectories. Unreadable directories are left out.
func CollectRepositoryStructure(rootDirectoryPath string, options StructureOptions) (string, error) {
	var lines []string
	if collectError := collectDirectory(filepath.Clean(rootDirectoryPath), 0, options, &lines); collectError != nil {
		return "", collectError
	}
	return strings.Join(lines, "\n"), nil
}

func collectDirectory(directoryPath string, depth int, options StructureOptions, lines *[]string) error {
	directoryEntries, readDirectoryError := os.ReadDir(directoryPath)
	if readDirectoryError != nil {
		return nil
	}

	indent := strings.Repeat(indentUnit, depth)
	fileIndent := indent + indentUnit
	*lines = append(*lines, indent+filepath.Base(directoryPath)+"/")

	var subdirectoryNames []string
	for _, directoryEntry := range directoryEntries {
		entryName := directoryEntry.Name()
		if directoryEntry.IsDir() {
			subdirectoryNames = append(subdirectoryNames, entryName)
			continue
		}
		*lines = append(*lines, fileIndent+entryName)
		if options.EmbeddedExtension == "" || !strings.HasSuffix(entryName, options.EmbeddedExtension) {
			continue
		}
		filePath := filepath.Join(directoryPath, entryName)
		fileContent, readError := os.ReadFile(filePath)
		if readError != nil {
			return fmt.Errorf(errorReadEmbeddedFormat, filePath, readError)
		}
		*lines = append(*lines, fileIndent+"```"+options.Language+"\n"+string(fileContent)+"\n"+fileIndent+"```")
	}

	for _, subdirectoryName := range subdirectoryNames {
		if collectError := collectDirectory(filepath.Join(directoryPath, subdirectoryName), depth+1, options, lines); collectError != nil {
			return collectError
		}
	}
	return nil
}
