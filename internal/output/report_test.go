package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/temirov/codearchive/internal/types"
)

func writeArchiveFile(testingHandle *testing.T, path string) {
	testingHandle.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		testingHandle.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		testingHandle.Fatalf("write %s: %v", path, err)
	}
}

func TestRenderRawDrawsArchiveTree(testingHandle *testing.T) {
	archiveDirectory := filepath.Join(testingHandle.TempDir(), "proj")
	writeArchiveFile(testingHandle, filepath.Join(archiveDirectory, "a.md"))
	writeArchiveFile(testingHandle, filepath.Join(archiveDirectory, "pkg", "b.md"))
	writeArchiveFile(testingHandle, filepath.Join(archiveDirectory, "z.md"))

	tree, err := BuildTree(archiveDirectory)
	if err != nil {
		testingHandle.Fatalf("BuildTree error: %v", err)
	}
	statistics := types.ArchiveStatistics{Directories: 2, TransformedDocuments: 3, WrittenBytes: 2048}
	rendered := RenderRaw(NewReport("/src/proj", archiveDirectory, true, "", statistics, tree))

	expected := "Archive: " + archiveDirectory + "\n" +
		"Directories: 2, documents: 3, copied: 0, size: 2kb\n" +
		"proj/\n" +
		"├── a.md\n" +
		"├── pkg/\n" +
		"│   └── b.md\n" +
		"└── z.md\n"
	if rendered != expected {
		testingHandle.Fatalf("unexpected raw report:\n%s\nwant:\n%s", rendered, expected)
	}
}

func TestRenderReportsMissingSources(testingHandle *testing.T) {
	rendered, err := Render(types.FormatRaw, NewReport("/src/empty", "/archive/empty", false, "", types.ArchiveStatistics{}, nil))
	if err != nil {
		testingHandle.Fatalf("Render error: %v", err)
	}
	if !strings.HasPrefix(rendered, "No source files found in /src/empty") {
		testingHandle.Fatalf("unexpected report %q", rendered)
	}
}

func TestRenderStructuredFormats(testingHandle *testing.T) {
	report := NewReport("/src/proj", "/archive/proj", true, "/archive/proj/README_proj.md", types.ArchiveStatistics{TransformedDocuments: 1}, &types.ReportNode{Name: "proj", IsDir: true})

	jsonText, jsonErr := Render(types.FormatJSON, report)
	if jsonErr != nil {
		testingHandle.Fatalf("json render error: %v", jsonErr)
	}
	var decoded types.ArchiveReport
	if err := json.Unmarshal([]byte(jsonText), &decoded); err != nil {
		testingHandle.Fatalf("decode json: %v", err)
	}
	if decoded.SummaryPath != report.SummaryPath || decoded.Tree == nil || decoded.Tree.Name != "proj" {
		testingHandle.Fatalf("unexpected decoded report %+v", decoded)
	}

	xmlText, xmlErr := Render(types.FormatXML, report)
	if xmlErr != nil {
		testingHandle.Fatalf("xml render error: %v", xmlErr)
	}
	if !strings.Contains(xmlText, "<report>") || !strings.Contains(xmlText, `<tree name="proj" dir="true"></tree>`) {
		testingHandle.Fatalf("unexpected xml report %s", xmlText)
	}

	if _, err := Render("yaml", report); err == nil {
		testingHandle.Fatalf("expected error for unsupported format")
	}
}
