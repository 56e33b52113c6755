// Package output renders the report printed after an archiving run.
package output

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"

	"github.com/temirov/codearchive/internal/types"
	"github.com/temirov/codearchive/internal/utils"
)

const (
	indentPrefix = ""
	indentSpacer = "  "

	xmlHeader = xml.Header

	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "

	noSourceFilesFormat   = "No source files found in %s; no archive created.\n"
	archiveLineFormat     = "Archive: %s\n"
	summaryLineFormat     = "Summary: %s\n"
	statisticsLineFormat  = "Directories: %d, documents: %d, copied: %d, size: %s\n"
	unsupportedFormatText = "unsupported report format %q"
)

// NewReport assembles the report of a run. tree may be nil.
func NewReport(sourceDirectory string, archiveDirectory string, found bool, summaryPath string, statistics types.ArchiveStatistics, tree *types.ReportNode) types.ArchiveReport {
	return types.ArchiveReport{
		SourceDirectory:      sourceDirectory,
		ArchiveDirectory:     archiveDirectory,
		Found:                found,
		SummaryPath:          summaryPath,
		Directories:          statistics.Directories,
		TransformedDocuments: statistics.TransformedDocuments,
		CopiedDocuments:      statistics.CopiedDocuments,
		Size:                 utils.FormatFileSize(statistics.WrittenBytes),
		Tree:                 tree,
	}
}

// BuildTree reads the directory at rootPath into a ReportNode tree. Entries are in name order.
func BuildTree(rootPath string) (*types.ReportNode, error) {
	directoryEntries, readError := os.ReadDir(rootPath)
	if readError != nil {
		return nil, fmt.Errorf("read %s: %w", rootPath, readError)
	}
	node := &types.ReportNode{Name: filepath.Base(rootPath), IsDir: true}
	for _, directoryEntry := range directoryEntries {
		if directoryEntry.IsDir() {
			childNode, childError := BuildTree(filepath.Join(rootPath, directoryEntry.Name()))
			if childError != nil {
				return nil, childError
			}
			node.Children = append(node.Children, childNode)
			continue
		}
		node.Children = append(node.Children, &types.ReportNode{Name: directoryEntry.Name()})
	}
	return node, nil
}

// Render formats report as raw text, JSON or XML.
func Render(format string, report types.ArchiveReport) (string, error) {
	switch format {
	case types.FormatRaw, "":
		return RenderRaw(report), nil
	case types.FormatJSON:
		encoded, jsonEncodeError := json.MarshalIndent(report, indentPrefix, indentSpacer)
		if jsonEncodeError != nil {
			return "", jsonEncodeError
		}
		return string(encoded) + "\n", nil
	case types.FormatXML:
		wrapper := struct {
			XMLName xml.Name `xml:"report"`
			types.ArchiveReport
		}{ArchiveReport: report}
		encoded, xmlMarshalError := xml.MarshalIndent(wrapper, indentPrefix, indentSpacer)
		if xmlMarshalError != nil {
			return "", xmlMarshalError
		}
		return xmlHeader + string(encoded) + "\n", nil
	default:
		return "", fmt.Errorf(unsupportedFormatText, format)
	}
}

// RenderRaw returns the report as text followed by the archive tree.
func RenderRaw(report types.ArchiveReport) string {
	var buffer bytes.Buffer
	if !report.Found {
		fmt.Fprintf(&buffer, noSourceFilesFormat, report.SourceDirectory)
		return buffer.String()
	}
	fmt.Fprintf(&buffer, archiveLineFormat, report.ArchiveDirectory)
	if report.SummaryPath != "" {
		fmt.Fprintf(&buffer, summaryLineFormat, report.SummaryPath)
	}
	fmt.Fprintf(&buffer, statisticsLineFormat, report.Directories, report.TransformedDocuments, report.CopiedDocuments, report.Size)
	if report.Tree != nil {
		renderTreeNode(&buffer, report.Tree, "", true, true)
	}
	return buffer.String()
}

func treeNodeLinePrefix(prefix string, isRoot bool, isLast bool) (string, string) {
	if isRoot {
		return "", ""
	}
	connector := treeBranchConnector
	childPrefix := prefix + treeBranchPadding
	if isLast {
		connector = treeLastConnector
		childPrefix = prefix + treeLastPadding
	}
	return prefix + connector, childPrefix
}

func renderTreeNode(buffer *bytes.Buffer, node *types.ReportNode, prefix string, isRoot bool, isLast bool) {
	linePrefix, childPrefix := treeNodeLinePrefix(prefix, isRoot, isLast)
	name := node.Name
	if node.IsDir {
		name += "/"
	}
	buffer.WriteString(linePrefix + name + "\n")
	for childIndex, child := range node.Children {
		renderTreeNode(buffer, child, childPrefix, false, childIndex == len(node.Children)-1)
	}
}
