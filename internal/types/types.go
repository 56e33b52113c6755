// Package types defines the data structures and defaults shared across codearchive packages.
package types

const (
	// DefaultSourceExtension marks files that are transformed into documents.
	DefaultSourceExtension = ".py"
	// DefaultDocumentationExtension marks files that are copied verbatim and names transformed documents.
	DefaultDocumentationExtension = ".md"
	// DefaultSkipSubstring excludes every directory whose name contains it.
	DefaultSkipSubstring = "env"

	// ProviderGemini selects the Gemini API summarizer.
	ProviderGemini = "gemini"
	// ProviderOffline selects the summarizer that returns the collected structure unchanged.
	ProviderOffline = "offline"

	// DefaultSummaryModel is the model used when no model is configured.
	DefaultSummaryModel = "gemini-2.5-flash"
	// DefaultSummaryTemperature is the sampling temperature of summary requests.
	DefaultSummaryTemperature = 0.3
	// DefaultTokenizerModel names the tokenizer used to estimate prompt sizes.
	DefaultTokenizerModel = "gpt-4o"

	// FormatRaw renders the run report as plain text with an archive tree.
	FormatRaw = "raw"
	// FormatJSON renders the run report as JSON.
	FormatJSON = "json"
	// FormatXML renders the run report as XML.
	FormatXML = "xml"

	// SummaryFilePrefix and SummaryFileSuffix surround the archive directory name in the summary file name.
	SummaryFilePrefix = "README_"
	SummaryFileSuffix = ".md"
)

// DefaultSkipDirectories lists directory names excluded regardless of their contents.
var DefaultSkipDirectories = []string{"venv", "data", "__pycache__"}

// ValidatedPath is an absolute input path that already passed existence checks.
type ValidatedPath struct {
	AbsolutePath string
	IsDir        bool
}

// ArchiveStatistics counts the documents written by a mirror run.
type ArchiveStatistics struct {
	Directories          int
	TransformedDocuments int
	CopiedDocuments      int
	WrittenBytes         int64
}

// ReportNode is one entry of the archived tree in a run report.
type ReportNode struct {
	Name     string        `json:"name" xml:"name,attr"`
	IsDir    bool          `json:"isDir,omitempty" xml:"dir,attr,omitempty"`
	Children []*ReportNode `json:"children,omitempty" xml:"node"`
}

// ArchiveReport describes the outcome of one archiving run.
type ArchiveReport struct {
	SourceDirectory      string      `json:"source" xml:"source"`
	ArchiveDirectory     string      `json:"archive" xml:"archive"`
	Found                bool        `json:"found" xml:"found"`
	SummaryPath          string      `json:"summary,omitempty" xml:"summary,omitempty"`
	Directories          int         `json:"directories" xml:"directories"`
	TransformedDocuments int         `json:"documents" xml:"documents"`
	CopiedDocuments      int         `json:"copied" xml:"copied"`
	Size                 string      `json:"size" xml:"size"`
	Tree                 *ReportNode `json:"tree,omitempty" xml:"tree,omitempty"`
}
