package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/codearchive/internal/types"
	"github.com/temirov/codearchive/internal/utils"
)

const (
	defaultArchiveDirectoryName = "Archive"

	environmentArchiveDirectoryKey = "archive_dir"
	environmentModelKey            = "model"
	environmentEndpointKey         = "endpoint"
	environmentProviderKey         = "provider"
	environmentAPIKeyKey           = "api_key"

	// GeminiAPIKeyEnvironmentVariable holds the credential for the gemini provider.
	GeminiAPIKeyEnvironmentVariable = "GEMINI_API_KEY"
	// GoogleAPIKeyEnvironmentVariable is consulted when GEMINI_API_KEY is unset.
	GoogleAPIKeyEnvironmentVariable = "GOOGLE_API_KEY"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds the settings read from configuration files and the environment.
// Unset pointer fields and empty strings mean "not configured at this level".
type ApplicationConfiguration struct {
	Archive ArchiveConfiguration `mapstructure:"archive"`
	Summary SummaryConfiguration `mapstructure:"summary"`
	Log     LogConfiguration     `mapstructure:"log"`
	// APIKey is only ever read from the environment.
	APIKey string `mapstructure:"-"`
}

// ArchiveConfiguration controls what is mirrored and where.
type ArchiveConfiguration struct {
	BaseDirectory          string   `mapstructure:"base_directory"`
	SourceExtension        string   `mapstructure:"source_extension"`
	DocumentationExtension string   `mapstructure:"documentation_extension"`
	Language               string   `mapstructure:"language"`
	SkipDirectories        []string `mapstructure:"skip_directories"`
	SkipSubstring          *string  `mapstructure:"skip_substring"`
	SkipFiles              []string `mapstructure:"skip_files"`
	Descriptions           *bool    `mapstructure:"descriptions"`
}

// SummaryConfiguration controls the generated summary document.
type SummaryConfiguration struct {
	Enabled     *bool              `mapstructure:"enabled"`
	Provider    string             `mapstructure:"provider"`
	Model       string             `mapstructure:"model"`
	Temperature *float64           `mapstructure:"temperature"`
	Endpoint    string             `mapstructure:"endpoint"`
	PromptFile  string             `mapstructure:"prompt_file"`
	Copy        *bool              `mapstructure:"copy"`
	Tokens      TokenConfiguration `mapstructure:"tokens"`
}

// TokenConfiguration controls the prompt token estimate.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

// LogConfiguration configures the optional rotated log file.
type LogConfiguration struct {
	Filename   string `mapstructure:"filename"`
	MaxSize    *int   `mapstructure:"max_size"`
	MaxBackups *int   `mapstructure:"max_backups"`
	MaxAge     *int   `mapstructure:"max_age"`
	Compress   *bool  `mapstructure:"compress"`
}

// DefaultConfiguration returns the built-in settings with every field populated.
func DefaultConfiguration(homeDirectory string) ApplicationConfiguration {
	return ApplicationConfiguration{
		Archive: ArchiveConfiguration{
			BaseDirectory:          filepath.Join(homeDirectory, defaultArchiveDirectoryName),
			SourceExtension:        types.DefaultSourceExtension,
			DocumentationExtension: types.DefaultDocumentationExtension,
			SkipDirectories:        append([]string{}, types.DefaultSkipDirectories...),
			SkipSubstring:          stringPointer(types.DefaultSkipSubstring),
			SkipFiles:              []string{},
			Descriptions:           boolPointer(true),
		},
		Summary: SummaryConfiguration{
			Enabled:     boolPointer(true),
			Provider:    types.ProviderGemini,
			Model:       types.DefaultSummaryModel,
			Temperature: float64Pointer(types.DefaultSummaryTemperature),
			Copy:        boolPointer(false),
			Tokens: TokenConfiguration{
				Enabled: boolPointer(true),
				Model:   types.DefaultTokenizerModel,
			},
		},
		Log: LogConfiguration{
			MaxSize:    intPointer(utils.DefaultLogMaxSizeMegabytes),
			MaxBackups: intPointer(utils.DefaultLogMaxBackups),
			MaxAge:     intPointer(utils.DefaultLogMaxAgeDays),
			Compress:   boolPointer(false),
		},
	}
}

// LoadApplicationConfiguration resolves the configuration from defaults, the global file,
// the local (or explicit) file and the environment, later sources overriding earlier ones.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	homeDirectory, homeErr := os.UserHomeDir()
	if homeErr != nil {
		homeDirectory = ""
	}
	merged := DefaultConfiguration(homeDirectory)

	if homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	if options.ExplicitFilePath != "" {
		if _, statErr := os.Stat(localPath); statErr != nil {
			return ApplicationConfiguration{}, fmt.Errorf("configuration file %s: %w", localPath, statErr)
		}
	}
	localConfig, loadErr := loadConfigurationFromPath(localPath)
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)
	merged = merged.Merge(loadEnvironmentConfiguration())

	merged.Archive.SkipDirectories = utils.DeduplicatePatterns(merged.Archive.SkipDirectories)
	merged.Archive.SkipFiles = utils.DeduplicatePatterns(merged.Archive.SkipFiles)
	merged.Archive.SourceExtension = utils.NormalizeExtension(merged.Archive.SourceExtension)
	merged.Archive.DocumentationExtension = utils.NormalizeExtension(merged.Archive.DocumentationExtension)

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		if workingDirectory == "" {
			absolute, err := filepath.Abs(explicitPath)
			if err != nil {
				return "", fmt.Errorf("resolve configuration path %s: %w", explicitPath, err)
			}
			return absolute, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	if workingDirectory == "" {
		return "", nil
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// loadEnvironmentConfiguration reads the CODEARCHIVE_* overrides and the API key.
func loadEnvironmentConfiguration() ApplicationConfiguration {
	reader := viper.New()
	reader.SetEnvPrefix(utils.EnvironmentPrefix)
	_ = reader.BindEnv(environmentArchiveDirectoryKey)
	_ = reader.BindEnv(environmentModelKey)
	_ = reader.BindEnv(environmentEndpointKey)
	_ = reader.BindEnv(environmentProviderKey)
	_ = reader.BindEnv(environmentAPIKeyKey, GeminiAPIKeyEnvironmentVariable, GoogleAPIKeyEnvironmentVariable)

	var config ApplicationConfiguration
	config.Archive.BaseDirectory = reader.GetString(environmentArchiveDirectoryKey)
	config.Summary.Model = reader.GetString(environmentModelKey)
	config.Summary.Endpoint = reader.GetString(environmentEndpointKey)
	config.Summary.Provider = reader.GetString(environmentProviderKey)
	config.APIKey = reader.GetString(environmentAPIKeyKey)
	return config
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	result.Archive = result.Archive.merge(override.Archive)
	result.Summary = result.Summary.merge(override.Summary)
	result.Log = result.Log.merge(override.Log)
	if override.APIKey != "" {
		result.APIKey = override.APIKey
	}
	return result
}

func (config ArchiveConfiguration) merge(override ArchiveConfiguration) ArchiveConfiguration {
	result := config
	if override.BaseDirectory != "" {
		result.BaseDirectory = expandHome(override.BaseDirectory)
	}
	if override.SourceExtension != "" {
		result.SourceExtension = override.SourceExtension
	}
	if override.DocumentationExtension != "" {
		result.DocumentationExtension = override.DocumentationExtension
	}
	if override.Language != "" {
		result.Language = override.Language
	}
	if len(override.SkipDirectories) > 0 {
		result.SkipDirectories = append([]string{}, utils.DeduplicatePatterns(override.SkipDirectories)...)
	}
	if override.SkipSubstring != nil {
		result.SkipSubstring = cloneString(override.SkipSubstring)
	}
	if len(override.SkipFiles) > 0 {
		result.SkipFiles = append([]string{}, utils.DeduplicatePatterns(override.SkipFiles)...)
	}
	if override.Descriptions != nil {
		result.Descriptions = cloneBool(override.Descriptions)
	}
	return result
}

func (config SummaryConfiguration) merge(override SummaryConfiguration) SummaryConfiguration {
	result := config
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if override.Provider != "" {
		result.Provider = override.Provider
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	if override.Temperature != nil {
		result.Temperature = cloneFloat64(override.Temperature)
	}
	if override.Endpoint != "" {
		result.Endpoint = override.Endpoint
	}
	if override.PromptFile != "" {
		result.PromptFile = expandHome(override.PromptFile)
	}
	if override.Copy != nil {
		result.Copy = cloneBool(override.Copy)
	}
	result.Tokens = result.Tokens.merge(override.Tokens)
	return result
}

func (config TokenConfiguration) merge(override TokenConfiguration) TokenConfiguration {
	result := config
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	return result
}

func (config LogConfiguration) merge(override LogConfiguration) LogConfiguration {
	result := config
	if override.Filename != "" {
		result.Filename = expandHome(override.Filename)
	}
	if override.MaxSize != nil {
		result.MaxSize = cloneInt(override.MaxSize)
	}
	if override.MaxBackups != nil {
		result.MaxBackups = cloneInt(override.MaxBackups)
	}
	if override.MaxAge != nil {
		result.MaxAge = cloneInt(override.MaxAge)
	}
	if override.Compress != nil {
		result.Compress = cloneBool(override.Compress)
	}
	return result
}

// LogOptions converts the log section into logger options.
func (config LogConfiguration) LogOptions() utils.LogOptions {
	return utils.LogOptions{
		FileName:          config.Filename,
		MaxSizeMegabytes:  IntValue(config.MaxSize, utils.DefaultLogMaxSizeMegabytes),
		MaxBackups:        IntValue(config.MaxBackups, utils.DefaultLogMaxBackups),
		MaxAgeDays:        IntValue(config.MaxAge, utils.DefaultLogMaxAgeDays),
		CompressRotations: BoolValue(config.Compress, false),
	}
}

// BoolValue dereferences value or returns fallback when it is unset.
func BoolValue(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}

// IntValue dereferences value or returns fallback when it is unset.
func IntValue(value *int, fallback int) int {
	if value == nil {
		return fallback
	}
	return *value
}

// StringValue dereferences value or returns fallback when it is unset.
func StringValue(value *string, fallback string) string {
	if value == nil {
		return fallback
	}
	return *value
}

func expandHome(path string) string {
	const homePrefix = "~" + string(filepath.Separator)
	if len(path) < len(homePrefix) || path[:len(homePrefix)] != homePrefix {
		return path
	}
	homeDirectory, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(homeDirectory, path[len(homePrefix):])
}

func boolPointer(value bool) *bool {
	return &value
}

func intPointer(value int) *int {
	return &value
}

func float64Pointer(value float64) *float64 {
	return &value
}

func stringPointer(value string) *string {
	return &value
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneFloat64(value *float64) *float64 {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
