// Package utils contains general helper functions used across codearchive.
package utils

import (
	"strings"
)

const (
	// ConfigFileName is the name of the local configuration file.
	ConfigFileName = ".codearchive.yaml"
	// GlobalConfigFileName is the name of the configuration file inside GlobalConfigDirectoryName.
	GlobalConfigFileName = "config.yaml"
	// GlobalConfigDirectoryName is the directory under the user's home holding the global configuration.
	GlobalConfigDirectoryName = ".codearchive"
	// EnvironmentPrefix prefixes every environment variable read by codearchive.
	EnvironmentPrefix = "CODEARCHIVE"
	// IgnoreFileName is the per-project file listing extra names to leave out of the archive.
	IgnoreFileName = ".codearchiveignore"
)

const extensionSeparator = "."

// DeduplicatePatterns removes duplicate values from a slice while preserving order.
// The first occurrence of each unique value is kept and empty values are dropped.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		trimmedPattern := strings.TrimSpace(pattern)
		if trimmedPattern == "" {
			continue
		}
		if _, exists := encounteredPatterns[trimmedPattern]; !exists {
			encounteredPatterns[trimmedPattern] = struct{}{}
			result = append(result, trimmedPattern)
		}
	}
	return result
}

// ContainsString checks if a slice of strings contains a specific target string.
func ContainsString(stringSlice []string, targetString string) bool {
	for _, currentString := range stringSlice {
		if currentString == targetString {
			return true
		}
	}
	return false
}

// NormalizeExtension returns extension with a single leading dot.
// An empty or blank extension stays empty.
func NormalizeExtension(extension string) string {
	trimmedExtension := strings.TrimSpace(extension)
	if trimmedExtension == "" {
		return ""
	}
	return extensionSeparator + strings.TrimLeft(trimmedExtension, extensionSeparator)
}
