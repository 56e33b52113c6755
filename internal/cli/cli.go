// Package cli provides the command line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/codearchive/internal/archive"
	"github.com/temirov/codearchive/internal/config"
	"github.com/temirov/codearchive/internal/llm"
	"github.com/temirov/codearchive/internal/mirror"
	"github.com/temirov/codearchive/internal/output"
	"github.com/temirov/codearchive/internal/services/clipboard"
	"github.com/temirov/codearchive/internal/summary"
	"github.com/temirov/codearchive/internal/tokenizer"
	"github.com/temirov/codearchive/internal/types"
	"github.com/temirov/codearchive/internal/utils"
)

const (
	noSummaryFlagName      = "no-summary"
	noDescriptionsFlagName = "no-descriptions"
	excludeFlagName        = "exclude"
	excludeFlagShorthand   = "e"
	sourceExtensionFlag    = "source-ext"
	languageFlagName       = "language"
	modelFlagName          = "model"
	providerFlagName       = "provider"
	promptFileFlagName     = "prompt-file"
	copyFlagName           = "copy"
	tokensFlagName         = "tokens"
	configFlagName         = "config"
	logFileFlagName        = "log-file"
	formatFlagName         = "format"
	versionFlagName        = "version"
	globalFlagName         = "global"
	forceFlagName          = "force"

	versionTemplate      = "codearchive version: %s\n"
	rootUse              = "codearchive <project-dir> [archive-base]"
	rootShortDescription = "archive the source files of a project as markdown documents"
	rootLongDescription  = `codearchive mirrors the part of a project tree that holds source files into an archive directory.
Every source file becomes a markdown document holding the code in a fenced block, existing markdown files are copied,
and a language model writes a README_<project>.md overview of the archived tree.
The archive is written to <archive-base>/<project name>; any previous archive there is replaced.`
	rootUsageExample = `  # Archive a project into ~/Archive/myproject
  codearchive ./myproject

  # Archive into a custom base directory without a summary
  codearchive ./myproject /tmp/archives --no-summary

  # Archive Go sources and skip the build directory
  codearchive ./service --source-ext .go -e build`
	initUse              = "init"
	initShortDescription = "write a default configuration file"
	initLongDescription  = `Write the default configuration to ./.codearchive.yaml, or to ~/.codearchive/config.yaml with --global.
An existing file is kept unless --force is given.`

	noSummaryFlagDescription      = "do not generate the summary document"
	noDescriptionsFlagDescription = "do not generate per-file descriptions"
	excludeFlagDescription        = "additional directory name to skip (repeatable)"
	sourceExtensionFlagDesc       = "extension of the files to archive"
	languageFlagDescription       = "language tag of the fenced code blocks"
	modelFlagDescription          = "model used for the summary"
	providerFlagDescription       = "summary provider: gemini or offline"
	promptFileFlagDescription     = "file holding a custom summary instruction"
	copyFlagDescription           = "copy the summary to the clipboard"
	tokensFlagDescription         = "estimate the prompt size in tokens"
	configFlagDescription         = "configuration file to use instead of ./.codearchive.yaml"
	logFileFlagDescription        = "also write logs to this file, rotating it by size"
	formatFlagDescription         = "report format: raw, json or xml"
	versionFlagDescription        = "display application version"
	globalFlagDescription         = "write the global configuration in the home directory"
	forceFlagDescription          = "overwrite an existing configuration file"

	infoConfigurationWrittenFormat = "configuration written to %s\n"
	warningTokenizerMessage        = "token estimate disabled"
	workingDirectoryErrorFormat    = "unable to determine working directory: %w"
	errorLoggerFormat              = "create logger: %w"
	errorIgnoreFileFormat          = "load ignore file: %w"
	errorSummarizerFormat          = "create summarizer: %w"
	errorInstructionFormat         = "load summary instruction: %w"
	errorReportTreeFormat          = "read archive tree: %w"
	invalidFormatMessage           = "invalid format value '%s'"
)

// dependencies holds the collaborators a command run needs from the outside world.
type dependencies struct {
	newLogger      func(options utils.LogOptions) (*zap.Logger, error)
	copier         clipboard.Copier
	executableName string
}

func defaultDependencies() dependencies {
	return dependencies{
		newLogger: func(options utils.LogOptions) (*zap.Logger, error) {
			return utils.NewApplicationLogger(options)
		},
		copier:         clipboard.NewService(),
		executableName: filepath.Base(os.Args[0]),
	}
}

// Execute runs the codearchive application.
func Execute() error {
	rootCommand := createRootCommand(defaultDependencies())
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return rootCommand.Execute()
}

// archiveFlags stores the values of the archive command flags.
type archiveFlags struct {
	noSummary       bool
	noDescriptions  bool
	excludes        []string
	sourceExtension string
	language        string
	model           string
	provider        string
	promptFile      string
	copySummary     bool
	tokens          bool
	configPath      string
	logFile         string
	format          string
	showVersion     bool
}

// createRootCommand builds the root Cobra command.
func createRootCommand(runDependencies dependencies) *cobra.Command {
	var flags archiveFlags

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Example:      rootUsageExample,
		SilenceUsage: true,
		Args: func(command *cobra.Command, arguments []string) error {
			if flags.showVersion {
				return nil
			}
			return cobra.RangeArgs(1, 2)(command, arguments)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			if flags.showVersion {
				_, err := fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				return err
			}
			return runArchive(command, arguments, flags, runDependencies)
		},
	}

	flagSet := rootCommand.Flags()
	flagSet.BoolVar(&flags.noSummary, noSummaryFlagName, false, noSummaryFlagDescription)
	flagSet.BoolVar(&flags.noDescriptions, noDescriptionsFlagName, false, noDescriptionsFlagDescription)
	flagSet.StringArrayVarP(&flags.excludes, excludeFlagName, excludeFlagShorthand, nil, excludeFlagDescription)
	flagSet.StringVar(&flags.sourceExtension, sourceExtensionFlag, "", sourceExtensionFlagDesc)
	flagSet.StringVar(&flags.language, languageFlagName, "", languageFlagDescription)
	flagSet.StringVar(&flags.model, modelFlagName, "", modelFlagDescription)
	flagSet.StringVar(&flags.provider, providerFlagName, "", providerFlagDescription)
	flagSet.StringVar(&flags.promptFile, promptFileFlagName, "", promptFileFlagDescription)
	registerBooleanFlag(flagSet, &flags.copySummary, copyFlagName, false, copyFlagDescription)
	registerBooleanFlag(flagSet, &flags.tokens, tokensFlagName, true, tokensFlagDescription)
	flagSet.StringVar(&flags.logFile, logFileFlagName, "", logFileFlagDescription)
	flagSet.StringVar(&flags.format, formatFlagName, types.FormatRaw, formatFlagDescription)
	rootCommand.PersistentFlags().StringVar(&flags.configPath, configFlagName, "", configFlagDescription)
	rootCommand.PersistentFlags().BoolVar(&flags.showVersion, versionFlagName, false, versionFlagDescription)

	rootCommand.AddCommand(createInitCommand())
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// createInitCommand returns the init subcommand.
func createInitCommand() *cobra.Command {
	var global bool
	var force bool
	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			destinationPath, err := config.InitializeConfiguration(config.InitOptions{Target: target, Force: force})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(command.OutOrStdout(), infoConfigurationWrittenFormat, destinationPath)
			return err
		},
	}
	initCommand.Flags().BoolVar(&global, globalFlagName, false, globalFlagDescription)
	initCommand.Flags().BoolVar(&force, forceFlagName, false, forceFlagDescription)
	return initCommand
}

// runArchive resolves the configuration for one invocation and runs the archiver.
func runArchive(command *cobra.Command, arguments []string, flags archiveFlags, runDependencies dependencies) error {
	if !isSupportedFormat(flags.format) {
		return fmt.Errorf(invalidFormatMessage, flags.format)
	}
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
	}
	applicationConfiguration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: flags.configPath,
	})
	if loadError != nil {
		return loadError
	}
	applicationConfiguration = applyFlagOverrides(command, flags, applicationConfiguration)

	logger, loggerError := runDependencies.newLogger(applicationConfiguration.Log.LogOptions())
	if loggerError != nil {
		return fmt.Errorf(errorLoggerFormat, loggerError)
	}
	defer func() {
		_ = logger.Sync()
	}()

	sourcePath, validationError := archive.ValidateSourceDirectory(arguments[0])
	if validationError != nil {
		return validationError
	}
	ignoreList, ignoreError := config.LoadIgnoreFile(sourcePath.AbsolutePath)
	if ignoreError != nil {
		return fmt.Errorf(errorIgnoreFileFormat, ignoreError)
	}

	archiveConfiguration := applicationConfiguration.Archive
	rules := mirror.Rules{
		SkipDirectories:        append(append(append([]string{}, archiveConfiguration.SkipDirectories...), ignoreList.Directories...), flags.excludes...),
		SkipSubstring:          config.StringValue(archiveConfiguration.SkipSubstring, ""),
		SkipFiles:              append(append(append([]string{}, archiveConfiguration.SkipFiles...), ignoreList.Files...), runDependencies.executableName),
		SourceExtension:        archiveConfiguration.SourceExtension,
		DocumentationExtension: archiveConfiguration.DocumentationExtension,
		Language:               archiveConfiguration.Language,
	}

	archiveBaseDirectory := archiveConfiguration.BaseDirectory
	if len(arguments) > 1 {
		archiveBaseDirectory = arguments[1]
	}

	ctx := command.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	generateSummary := config.BoolValue(applicationConfiguration.Summary.Enabled, true)
	var summaryGenerator archive.SummaryGenerator
	if generateSummary {
		generator, generatorError := buildSummaryGenerator(ctx, applicationConfiguration, rules, logger)
		if generatorError != nil {
			return generatorError
		}
		summaryGenerator = generator
	}

	runner := archive.NewRunner(summaryGenerator, runDependencies.copier, logger)
	result, runError := runner.Run(ctx, archive.Options{
		SourceDirectory:      sourcePath.AbsolutePath,
		ArchiveBaseDirectory: archiveBaseDirectory,
		Rules:                rules,
		GenerateSummary:      generateSummary,
		GenerateDescriptions: config.BoolValue(archiveConfiguration.Descriptions, true),
		CopySummary:          config.BoolValue(applicationConfiguration.Summary.Copy, false),
	})
	if runError != nil {
		return runError
	}
	return writeReport(command, flags.format, sourcePath.AbsolutePath, result)
}

// isSupportedFormat reports whether the provided format is recognized.
func isSupportedFormat(format string) bool {
	switch format {
	case types.FormatRaw, types.FormatJSON, types.FormatXML:
		return true
	default:
		return false
	}
}

// writeReport prints the outcome of a run on standard output.
func writeReport(command *cobra.Command, format string, sourceDirectory string, result archive.Result) error {
	var tree *types.ReportNode
	if result.Found {
		archiveTree, treeError := output.BuildTree(result.ArchiveDirectory)
		if treeError != nil {
			return fmt.Errorf(errorReportTreeFormat, treeError)
		}
		tree = archiveTree
	}
	report := output.NewReport(sourceDirectory, result.ArchiveDirectory, result.Found, result.SummaryPath, result.Statistics, tree)
	rendered, renderError := output.Render(format, report)
	if renderError != nil {
		return renderError
	}
	_, writeError := fmt.Fprint(command.OutOrStdout(), rendered)
	return writeError
}

// applyFlagOverrides lays explicitly set flags over the loaded configuration.
func applyFlagOverrides(command *cobra.Command, flags archiveFlags, applicationConfiguration config.ApplicationConfiguration) config.ApplicationConfiguration {
	var override config.ApplicationConfiguration
	changed := command.Flags().Changed
	if changed(noSummaryFlagName) {
		enabled := !flags.noSummary
		override.Summary.Enabled = &enabled
	}
	if changed(noDescriptionsFlagName) {
		descriptions := !flags.noDescriptions
		override.Archive.Descriptions = &descriptions
	}
	if changed(sourceExtensionFlag) {
		override.Archive.SourceExtension = utils.NormalizeExtension(flags.sourceExtension)
	}
	if changed(languageFlagName) {
		override.Archive.Language = flags.language
	}
	if changed(modelFlagName) {
		override.Summary.Model = flags.model
	}
	if changed(providerFlagName) {
		override.Summary.Provider = flags.provider
	}
	if changed(promptFileFlagName) {
		override.Summary.PromptFile = flags.promptFile
	}
	if changed(copyFlagName) {
		copySummary := flags.copySummary
		override.Summary.Copy = &copySummary
	}
	if changed(tokensFlagName) {
		tokens := flags.tokens
		override.Summary.Tokens.Enabled = &tokens
	}
	if changed(logFileFlagName) {
		override.Log.Filename = flags.logFile
	}
	return applicationConfiguration.Merge(override)
}

// buildSummaryGenerator creates the summarizer before anything is written so that missing credentials fail early.
func buildSummaryGenerator(ctx context.Context, applicationConfiguration config.ApplicationConfiguration, rules mirror.Rules, logger *zap.Logger) (*summary.Generator, error) {
	summaryConfiguration := applicationConfiguration.Summary
	var temperature *float32
	if summaryConfiguration.Temperature != nil {
		configuredTemperature := float32(*summaryConfiguration.Temperature)
		temperature = &configuredTemperature
	}
	summarizer, summarizerError := llm.NewSummarizer(ctx, llm.Settings{
		Provider:    summaryConfiguration.Provider,
		Model:       summaryConfiguration.Model,
		APIKey:      applicationConfiguration.APIKey,
		Endpoint:    summaryConfiguration.Endpoint,
		Temperature: temperature,
	})
	if summarizerError != nil {
		return nil, fmt.Errorf(errorSummarizerFormat, summarizerError)
	}
	instruction, instructionError := summary.LoadInstruction(summaryConfiguration.PromptFile)
	if instructionError != nil {
		return nil, fmt.Errorf(errorInstructionFormat, instructionError)
	}

	var tokenCounter tokenizer.Counter
	if config.BoolValue(summaryConfiguration.Tokens.Enabled, false) {
		counter, _, counterError := tokenizer.NewCounter(summaryConfiguration.Tokens.Model)
		if counterError != nil {
			logger.Warn(warningTokenizerMessage, zap.Error(counterError))
		} else {
			tokenCounter = counter
		}
	}

	normalizedRules := mirror.NewMirrorer(rules, logger).Rules()
	return summary.NewGenerator(summarizer, summary.Options{
		Instruction: instruction,
		Structure: summary.StructureOptions{
			EmbeddedExtension: normalizedRules.SourceExtension,
			Language:          normalizedRules.Language,
		},
		TokenCounter: tokenCounter,
	}, logger), nil
}
