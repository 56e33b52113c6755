package main_test

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// #nosec G204
func buildBinary(testSetup *testing.T) string {
	testSetup.Helper()
	binaryName := "codearchive_integration_test_binary"
	if runtime.GOOS == "windows" {
		binaryName += ".exe"
	}
	binaryPath := filepath.Join(testSetup.TempDir(), binaryName)

	buildCommand := exec.Command("go", "build", "-o", binaryPath, ".")
	outputData, buildErr := buildCommand.CombinedOutput()
	if buildErr != nil {
		testSetup.Fatalf("Failed to build binary: %v\nBuild Output:\n%s", buildErr, string(outputData))
	}
	return binaryPath
}

// #nosec G204
func runBinary(testSetup *testing.T, binaryPath string, workingDirectory string, arguments ...string) (string, string, error) {
	testSetup.Helper()
	homeDirectory := testSetup.TempDir()
	command := exec.Command(binaryPath, arguments...)
	command.Dir = workingDirectory
	command.Env = append(os.Environ(),
		"HOME="+homeDirectory,
		"USERPROFILE="+homeDirectory,
		"CODEARCHIVE_PROVIDER=offline",
		"CODEARCHIVE_ARCHIVE_DIR=",
		"GEMINI_API_KEY=",
		"GOOGLE_API_KEY=",
	)
	var standardOutputBuffer, standardErrorBuffer bytes.Buffer
	command.Stdout = &standardOutputBuffer
	command.Stderr = &standardErrorBuffer
	runError := command.Run()
	return standardOutputBuffer.String(), standardErrorBuffer.String(), runError
}

func TestBinaryArchivesProject(testSetup *testing.T) {
	if testing.Short() {
		testSetup.Skip("builds the binary")
	}
	binaryPath := buildBinary(testSetup)
	workingDirectory := testSetup.TempDir()
	projectDirectory := filepath.Join(workingDirectory, "proj")
	if err := os.MkdirAll(projectDirectory, 0o755); err != nil {
		testSetup.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(projectDirectory, "a.py"), []byte("print(1)"), 0o644); err != nil {
		testSetup.Fatalf("write source: %v", err)
	}
	archiveBase := filepath.Join(workingDirectory, "archive")

	standardOutput, standardError, runError := runBinary(testSetup, binaryPath, workingDirectory, projectDirectory, archiveBase, "--tokens=false")
	if runError != nil {
		testSetup.Fatalf("run failed: %v\n%s", runError, standardError)
	}
	if !strings.Contains(standardOutput, "README_proj.md") {
		testSetup.Fatalf("expected the summary in the report, got %q", standardOutput)
	}
	if _, statErr := os.Stat(filepath.Join(archiveBase, "proj", "a.md")); statErr != nil {
		testSetup.Fatalf("expected transformed document: %v", statErr)
	}
}

func TestBinaryFailsOnInvalidSource(testSetup *testing.T) {
	if testing.Short() {
		testSetup.Skip("builds the binary")
	}
	binaryPath := buildBinary(testSetup)
	workingDirectory := testSetup.TempDir()

	_, standardError, runError := runBinary(testSetup, binaryPath, workingDirectory, filepath.Join(workingDirectory, "absent"))
	var exitError *exec.ExitError
	if !errors.As(runError, &exitError) || exitError.ExitCode() == 0 {
		testSetup.Fatalf("expected non-zero exit, got %v", runError)
	}
	if !strings.Contains(standardError, "not a valid directory") {
		testSetup.Fatalf("expected diagnostic on stderr, got %q", standardError)
	}
}
