package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/temirov/codearchive/internal/utils"
)

func TestInitializeConfigurationCreatesLocalFile(testingHandle *testing.T) {
	workingDirectory := testingHandle.TempDir()
	path, err := InitializeConfiguration(InitOptions{WorkingDirectory: workingDirectory, Target: InitTargetLocal})
	if err != nil {
		testingHandle.Fatalf("InitializeConfiguration error: %v", err)
	}
	expectedPath := filepath.Join(workingDirectory, utils.ConfigFileName)
	if path != expectedPath {
		testingHandle.Fatalf("expected path %s, got %s", expectedPath, path)
	}
	content, readErr := os.ReadFile(path)
	if readErr != nil {
		testingHandle.Fatalf("read config: %v", readErr)
	}
	if !strings.Contains(string(content), "archive:") || !strings.Contains(string(content), "summary:") {
		testingHandle.Fatalf("unexpected configuration content: %s", string(content))
	}
}

func TestInitializeConfigurationHonorsGlobalTarget(testingHandle *testing.T) {
	homeDirectory := isolateEnvironment(testingHandle)
	path, err := InitializeConfiguration(InitOptions{Target: InitTargetGlobal, Force: true})
	if err != nil {
		testingHandle.Fatalf("InitializeConfiguration error: %v", err)
	}
	expectedPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
	if path != expectedPath {
		testingHandle.Fatalf("expected %s, got %s", expectedPath, path)
	}
	if _, statErr := os.Stat(path); statErr != nil {
		testingHandle.Fatalf("expected file to exist at %s: %v", path, statErr)
	}
}

func TestInitializeConfigurationPreventsOverwriteWithoutForce(testingHandle *testing.T) {
	workingDirectory := testingHandle.TempDir()
	path := filepath.Join(workingDirectory, utils.ConfigFileName)
	if err := os.WriteFile(path, []byte("existing"), 0o600); err != nil {
		testingHandle.Fatalf("write seed config: %v", err)
	}
	if _, err := InitializeConfiguration(InitOptions{WorkingDirectory: workingDirectory, Target: InitTargetLocal}); err == nil {
		testingHandle.Fatalf("expected error when configuration already exists")
	}
	if _, err := InitializeConfiguration(InitOptions{WorkingDirectory: workingDirectory, Target: InitTargetLocal, Force: true}); err != nil {
		testingHandle.Fatalf("expected overwrite with force, got %v", err)
	}
}

func TestInitializedConfigurationMatchesDefaults(testingHandle *testing.T) {
	homeDirectory := isolateEnvironment(testingHandle)
	workingDirectory := testingHandle.TempDir()
	if _, err := InitializeConfiguration(InitOptions{WorkingDirectory: workingDirectory}); err != nil {
		testingHandle.Fatalf("InitializeConfiguration error: %v", err)
	}
	loadedConfig, err := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDirectory})
	if err != nil {
		testingHandle.Fatalf("LoadApplicationConfiguration error: %v", err)
	}
	if !reflect.DeepEqual(loadedConfig, DefaultConfiguration(homeDirectory)) {
		testingHandle.Fatalf("initialized configuration differs from defaults:\n got %+v\nwant %+v", loadedConfig, DefaultConfiguration(homeDirectory))
	}
}
