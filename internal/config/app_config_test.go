package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/temirov/codearchive/internal/types"
	"github.com/temirov/codearchive/internal/utils"
)

// isolateEnvironment points the home directory at a fresh temporary directory and clears the environment overrides.
func isolateEnvironment(testingHandle *testing.T) string {
	testingHandle.Helper()
	homeDirectory := testingHandle.TempDir()
	testingHandle.Setenv("HOME", homeDirectory)
	testingHandle.Setenv("USERPROFILE", homeDirectory)
	for _, variableName := range []string{
		"CODEARCHIVE_ARCHIVE_DIR",
		"CODEARCHIVE_MODEL",
		"CODEARCHIVE_ENDPOINT",
		"CODEARCHIVE_PROVIDER",
		GeminiAPIKeyEnvironmentVariable,
		GoogleAPIKeyEnvironmentVariable,
	} {
		testingHandle.Setenv(variableName, "")
	}
	return homeDirectory
}

func writeConfigurationFile(testingHandle *testing.T, filePath string, content string) {
	testingHandle.Helper()
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		testingHandle.Fatalf("create config dir: %v", err)
	}
	if err := os.WriteFile(filePath, []byte(content), 0o600); err != nil {
		testingHandle.Fatalf("write config %s: %v", filePath, err)
	}
}

func TestLoadApplicationConfigurationDefaults(testingHandle *testing.T) {
	homeDirectory := isolateEnvironment(testingHandle)

	loadedConfig, err := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: testingHandle.TempDir()})
	if err != nil {
		testingHandle.Fatalf("LoadApplicationConfiguration error: %v", err)
	}
	if loadedConfig.Archive.BaseDirectory != filepath.Join(homeDirectory, "Archive") {
		testingHandle.Fatalf("unexpected archive base %s", loadedConfig.Archive.BaseDirectory)
	}
	if loadedConfig.Archive.SourceExtension != types.DefaultSourceExtension {
		testingHandle.Fatalf("unexpected source extension %s", loadedConfig.Archive.SourceExtension)
	}
	if !reflect.DeepEqual(loadedConfig.Archive.SkipDirectories, types.DefaultSkipDirectories) {
		testingHandle.Fatalf("unexpected skip directories %v", loadedConfig.Archive.SkipDirectories)
	}
	if StringValue(loadedConfig.Archive.SkipSubstring, "") != types.DefaultSkipSubstring {
		testingHandle.Fatalf("unexpected skip substring")
	}
	if !BoolValue(loadedConfig.Summary.Enabled, false) {
		testingHandle.Fatalf("expected summary enabled by default")
	}
	if loadedConfig.Summary.Provider != types.ProviderGemini || loadedConfig.Summary.Model != types.DefaultSummaryModel {
		testingHandle.Fatalf("unexpected summary defaults %+v", loadedConfig.Summary)
	}
	if loadedConfig.APIKey != "" {
		testingHandle.Fatalf("expected no API key, got %q", loadedConfig.APIKey)
	}
}

func TestLoadApplicationConfigurationMergesSources(testingHandle *testing.T) {
	testCases := []struct {
		name             string
		globalContent    string
		localContent     string
		explicitPath     string
		explicitContent  string
		environment      map[string]string
		expectModel      string
		expectProvider   string
		expectSubstring  string
		expectSkipDirs   []string
		expectSummaryOn  bool
		expectCopy       bool
		expectBaseSuffix string
	}{
		{
			name:             "local_overrides_global",
			globalContent:    "summary:\n  model: global-model\n  copy: true\narchive:\n  skip_substring: cache\n",
			localContent:     "summary:\n  model: local-model\n  enabled: false\n",
			expectModel:      "local-model",
			expectProvider:   types.ProviderGemini,
			expectSubstring:  "cache",
			expectSkipDirs:   types.DefaultSkipDirectories,
			expectSummaryOn:  false,
			expectCopy:       true,
			expectBaseSuffix: "Archive",
		},
		{
			name:             "explicit_path_replaces_local",
			localContent:     "summary:\n  model: ignored\n",
			explicitPath:     "custom.yaml",
			explicitContent:  "archive:\n  skip_directories: [build, build, dist]\n  skip_substring: \"\"\n",
			expectModel:      types.DefaultSummaryModel,
			expectProvider:   types.ProviderGemini,
			expectSubstring:  "",
			expectSkipDirs:   []string{"build", "dist"},
			expectSummaryOn:  true,
			expectBaseSuffix: "Archive",
		},
		{
			name:          "environment_overrides_files",
			globalContent: "summary:\n  model: global-model\n  provider: gemini\n",
			environment: map[string]string{
				"CODEARCHIVE_MODEL":       "env-model",
				"CODEARCHIVE_PROVIDER":    types.ProviderOffline,
				"CODEARCHIVE_ARCHIVE_DIR": "/tmp/elsewhere",
			},
			expectModel:      "env-model",
			expectProvider:   types.ProviderOffline,
			expectSubstring:  types.DefaultSkipSubstring,
			expectSkipDirs:   types.DefaultSkipDirectories,
			expectSummaryOn:  true,
			expectBaseSuffix: "elsewhere",
		},
	}

	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(testingHandle *testing.T) {
			homeDirectory := isolateEnvironment(testingHandle)
			workingDirectory := testingHandle.TempDir()
			if testCase.globalContent != "" {
				writeConfigurationFile(testingHandle, filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName), testCase.globalContent)
			}
			if testCase.localContent != "" {
				writeConfigurationFile(testingHandle, filepath.Join(workingDirectory, utils.ConfigFileName), testCase.localContent)
			}
			if testCase.explicitPath != "" {
				writeConfigurationFile(testingHandle, filepath.Join(workingDirectory, testCase.explicitPath), testCase.explicitContent)
			}
			for variableName, variableValue := range testCase.environment {
				testingHandle.Setenv(variableName, variableValue)
			}

			loadedConfig, err := LoadApplicationConfiguration(LoadOptions{
				WorkingDirectory: workingDirectory,
				ExplicitFilePath: testCase.explicitPath,
			})
			if err != nil {
				testingHandle.Fatalf("LoadApplicationConfiguration error: %v", err)
			}
			if loadedConfig.Summary.Model != testCase.expectModel {
				testingHandle.Fatalf("expected model %q, got %q", testCase.expectModel, loadedConfig.Summary.Model)
			}
			if loadedConfig.Summary.Provider != testCase.expectProvider {
				testingHandle.Fatalf("expected provider %q, got %q", testCase.expectProvider, loadedConfig.Summary.Provider)
			}
			if substring := StringValue(loadedConfig.Archive.SkipSubstring, "unset"); substring != testCase.expectSubstring {
				testingHandle.Fatalf("expected skip substring %q, got %q", testCase.expectSubstring, substring)
			}
			if !reflect.DeepEqual(loadedConfig.Archive.SkipDirectories, testCase.expectSkipDirs) {
				testingHandle.Fatalf("expected skip directories %v, got %v", testCase.expectSkipDirs, loadedConfig.Archive.SkipDirectories)
			}
			if BoolValue(loadedConfig.Summary.Enabled, true) != testCase.expectSummaryOn {
				testingHandle.Fatalf("unexpected summary enabled value")
			}
			if BoolValue(loadedConfig.Summary.Copy, false) != testCase.expectCopy {
				testingHandle.Fatalf("unexpected copy value")
			}
			if filepath.Base(loadedConfig.Archive.BaseDirectory) != testCase.expectBaseSuffix {
				testingHandle.Fatalf("unexpected archive base %s", loadedConfig.Archive.BaseDirectory)
			}
		})
	}
}

func TestLoadApplicationConfigurationReadsAPIKey(testingHandle *testing.T) {
	testCases := []struct {
		name        string
		geminiKey   string
		googleKey   string
		expectedKey string
	}{
		{name: "gemini_key", geminiKey: "gemini-secret", expectedKey: "gemini-secret"},
		{name: "google_fallback", googleKey: "google-secret", expectedKey: "google-secret"},
		{name: "gemini_preferred", geminiKey: "gemini-secret", googleKey: "google-secret", expectedKey: "gemini-secret"},
	}
	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(testingHandle *testing.T) {
			isolateEnvironment(testingHandle)
			testingHandle.Setenv(GeminiAPIKeyEnvironmentVariable, testCase.geminiKey)
			testingHandle.Setenv(GoogleAPIKeyEnvironmentVariable, testCase.googleKey)
			loadedConfig, err := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: testingHandle.TempDir()})
			if err != nil {
				testingHandle.Fatalf("LoadApplicationConfiguration error: %v", err)
			}
			if loadedConfig.APIKey != testCase.expectedKey {
				testingHandle.Fatalf("expected key %q, got %q", testCase.expectedKey, loadedConfig.APIKey)
			}
		})
	}
}

func TestLoadApplicationConfigurationKeepsZeroTemperature(testingHandle *testing.T) {
	isolateEnvironment(testingHandle)
	workingDirectory := testingHandle.TempDir()
	writeConfigurationFile(testingHandle, filepath.Join(workingDirectory, utils.ConfigFileName), "summary:\n  temperature: 0\n")

	loadedConfig, err := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDirectory})
	if err != nil {
		testingHandle.Fatalf("LoadApplicationConfiguration error: %v", err)
	}
	if loadedConfig.Summary.Temperature == nil {
		testingHandle.Fatalf("expected configured temperature to be kept")
	}
	if *loadedConfig.Summary.Temperature != 0 {
		testingHandle.Fatalf("expected temperature 0, got %v", *loadedConfig.Summary.Temperature)
	}
}

func TestLoadApplicationConfigurationMissingExplicitFile(testingHandle *testing.T) {
	isolateEnvironment(testingHandle)
	_, err := LoadApplicationConfiguration(LoadOptions{
		WorkingDirectory: testingHandle.TempDir(),
		ExplicitFilePath: "absent.yaml",
	})
	if err == nil {
		testingHandle.Fatalf("expected error for missing explicit configuration file")
	}
}

func TestLogOptionsUsesConfiguredValues(testingHandle *testing.T) {
	logConfig := DefaultConfiguration("/home/someone").Log.merge(LogConfiguration{
		Filename: "/var/log/codearchive.log",
		MaxSize:  intPointer(1),
		Compress: boolPointer(true),
	})
	options := logConfig.LogOptions()
	expected := utils.LogOptions{
		FileName:          "/var/log/codearchive.log",
		MaxSizeMegabytes:  1,
		MaxBackups:        utils.DefaultLogMaxBackups,
		MaxAgeDays:        utils.DefaultLogMaxAgeDays,
		CompressRotations: true,
	}
	if options != expected {
		testingHandle.Fatalf("unexpected log options: got %+v want %+v", options, expected)
	}
}

func TestDefaultConfigurationUsesLoggerRotationDefaults(testingHandle *testing.T) {
	options := DefaultConfiguration("/home/someone").Log.LogOptions()
	if options.MaxSizeMegabytes != utils.DefaultLogMaxSizeMegabytes {
		testingHandle.Fatalf("expected max size %d, got %d", utils.DefaultLogMaxSizeMegabytes, options.MaxSizeMegabytes)
	}
	if options.MaxBackups != utils.DefaultLogMaxBackups {
		testingHandle.Fatalf("expected max backups %d, got %d", utils.DefaultLogMaxBackups, options.MaxBackups)
	}
	if options.MaxAgeDays != utils.DefaultLogMaxAgeDays {
		testingHandle.Fatalf("expected max age %d, got %d", utils.DefaultLogMaxAgeDays, options.MaxAgeDays)
	}
}
