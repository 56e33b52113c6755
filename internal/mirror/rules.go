package mirror

import (
	"strings"

	"github.com/temirov/codearchive/internal/types"
	"github.com/temirov/codearchive/internal/utils"
)

// Rules decides which entries of a source tree take part in mirroring.
type Rules struct {
	// SkipDirectories holds exact directory names that are never entered.
	SkipDirectories []string
	// SkipSubstring excludes every directory whose name contains it. Empty disables the rule.
	SkipSubstring string
	// SkipFiles holds exact file names that are never read.
	SkipFiles []string
	// SourceExtension marks qualifying files.
	SourceExtension string
	// DocumentationExtension marks files copied verbatim and names transformed documents.
	DocumentationExtension string
	// Language tags the fenced code block of transformed documents. Derived from SourceExtension when empty.
	Language string
}

// DefaultRules returns the rules used when nothing is configured.
func DefaultRules() Rules {
	return Rules{
		SkipDirectories:        append([]string{}, types.DefaultSkipDirectories...),
		SkipSubstring:          types.DefaultSkipSubstring,
		SourceExtension:        types.DefaultSourceExtension,
		DocumentationExtension: types.DefaultDocumentationExtension,
	}
}

// normalized fills defaults and canonicalizes extensions.
func (rules Rules) normalized() Rules {
	result := rules
	result.SourceExtension = utils.NormalizeExtension(rules.SourceExtension)
	if result.SourceExtension == "" {
		result.SourceExtension = types.DefaultSourceExtension
	}
	result.DocumentationExtension = utils.NormalizeExtension(rules.DocumentationExtension)
	if result.DocumentationExtension == "" {
		result.DocumentationExtension = types.DefaultDocumentationExtension
	}
	result.Language = strings.TrimSpace(rules.Language)
	if result.Language == "" {
		result.Language = LanguageForExtension(result.SourceExtension)
	}
	result.SkipDirectories = utils.DeduplicatePatterns(rules.SkipDirectories)
	result.SkipFiles = utils.DeduplicatePatterns(rules.SkipFiles)
	return result
}

// skipsDirectory reports whether a directory with the given name is excluded.
// The exact-name set and the substring rule both apply.
func (rules Rules) skipsDirectory(directoryName string) bool {
	if utils.ContainsString(rules.SkipDirectories, directoryName) {
		return true
	}
	return rules.SkipSubstring != "" && strings.Contains(directoryName, rules.SkipSubstring)
}

// skipsFile reports whether a file with the given name is excluded. Only exact names apply.
func (rules Rules) skipsFile(fileName string) bool {
	return utils.ContainsString(rules.SkipFiles, fileName)
}

func (rules Rules) isSourceFile(fileName string) bool {
	return strings.HasSuffix(fileName, rules.SourceExtension)
}

func (rules Rules) isDocumentationFile(fileName string) bool {
	return strings.HasSuffix(fileName, rules.DocumentationExtension)
}
