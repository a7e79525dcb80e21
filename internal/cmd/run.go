package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/grumpygabe/TeragonPOIParser/internal/config"
	"github.com/grumpygabe/TeragonPOIParser/internal/display"
	"github.com/grumpygabe/TeragonPOIParser/internal/filelock"
	"github.com/grumpygabe/TeragonPOIParser/internal/history"
	"github.com/grumpygabe/TeragonPOIParser/internal/logger"
	"github.com/grumpygabe/TeragonPOIParser/internal/models"
	"github.com/grumpygabe/TeragonPOIParser/internal/walker"
)

// runLogger is what the run command logs through: every level plus the
// end-of-run summary
type runLogger interface {
	logger.Logger
	logger.SummaryLogger
}

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [prefab-directory]",
		Short: "Write the POI list for a prefab directory",
		Long: `Walk a prefab directory and write the Teragon POI list.

Every directory is searched for *.xml prefab definitions. Directories whose
name matches a skip_dirs pattern are pruned with everything below them;
files matching a skip_files pattern (".xml" is implied) are ignored.
Prefabs without a usable PrefabSize or YOffset are reported and left out.

The prefab directory may also be set as root_path in the config file.
Configuration is loaded from .poiparser/config.yaml if present.
CLI flags override configuration file settings.

Examples:
  poiparser run "C:/Games/7 Days To Die/Data/Prefabs"
  poiparser run ./Prefabs -o out/poi.txt
  poiparser run ./Prefabs --skip-dir Parts --skip-dir "test.*"
  poiparser run ./Prefabs --stdout > list.txt
  poiparser run ./Prefabs --log-level debug --no-history`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCommand,
	}

	cmd.Flags().String("config", "", "Path to config file (default: .poiparser/config.yaml)")
	cmd.Flags().StringP("output", "o", "", "Output file (default: \"teragon poi list.txt\")")
	cmd.Flags().StringArray("skip-file", nil, "File skip pattern, replaces skip_files (repeatable)")
	cmd.Flags().StringArray("skip-dir", nil, "Directory skip pattern, replaces skip_dirs (repeatable)")
	cmd.Flags().String("log-level", "", "Log level: trace, debug, info, warn, error")
	cmd.Flags().String("log-dir", "", "Directory for run log files (empty string disables them)")
	cmd.Flags().Bool("no-history", false, "Do not record this run in the history database")
	cmd.Flags().Bool("stdout", false, "Print the POI list to stdout instead of writing the output file")

	return cmd
}

// runCommand implements the run command logic
func runCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	outputFlag, _ := cmd.Flags().GetString("output")
	skipFilesFlag, _ := cmd.Flags().GetStringArray("skip-file")
	skipDirsFlag, _ := cmd.Flags().GetStringArray("skip-dir")
	logLevelFlag, _ := cmd.Flags().GetString("log-level")
	logDirFlag, _ := cmd.Flags().GetString("log-dir")
	noHistoryFlag, _ := cmd.Flags().GetBool("no-history")
	toStdout, _ := cmd.Flags().GetBool("stdout")

	// Build flag pointers for merge (only flags given on the command line)
	var outputPtr, logLevelPtr, logDirPtr *string
	var skipFilesPtr, skipDirsPtr *[]string
	var noHistoryPtr *bool
	if cmd.Flags().Changed("output") {
		outputPtr = &outputFlag
	}
	if cmd.Flags().Changed("skip-file") {
		skipFilesPtr = &skipFilesFlag
	}
	if cmd.Flags().Changed("skip-dir") {
		skipDirsPtr = &skipDirsFlag
	}
	if cmd.Flags().Changed("log-level") {
		logLevelPtr = &logLevelFlag
	}
	if cmd.Flags().Changed("log-dir") {
		logDirPtr = &logDirFlag
	}
	if cmd.Flags().Changed("no-history") {
		noHistoryPtr = &noHistoryFlag
	}

	cfg.MergeWithFlags(outputPtr, skipFilesPtr, skipDirsPtr, logLevelPtr, logDirPtr, noHistoryPtr)
	if len(args) == 1 {
		cfg.RootPath = args[0]
	}

	if cfg.RootPath == "" {
		return fmt.Errorf("no prefab directory given: pass it as an argument or set root_path in the config")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// The manifest owns stdout in --stdout mode
	console := cmd.OutOrStdout()
	if toStdout {
		console = cmd.ErrOrStderr()
	}

	log, closeLog := newRunLogger(console, cfg)
	defer closeLog()

	return executeRun(cmd.Context(), cfg, log, console, cmd.OutOrStdout(), toStdout)
}

// newRunLogger fans out to the console and, when log_dir is set, a run log
// file. A log file that cannot be created costs a warning, not the run.
func newRunLogger(console io.Writer, cfg *config.Config) (runLogger, func()) {
	consoleLog := logger.NewConsoleLogger(console, cfg.LogLevel)
	if cfg.LogDir == "" {
		return consoleLog, func() {}
	}

	fileLog, err := logger.NewFileLogger(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		consoleLog.LogWarn(fmt.Sprintf("Run log disabled: %v", err))
		return consoleLog, func() {}
	}
	return logger.NewMultiLogger(consoleLog, fileLog), func() { fileLog.Close() }
}

// executeRun walks cfg.RootPath, writes the manifest and records the run
func executeRun(ctx context.Context, cfg *config.Config, log runLogger, console, stdout io.Writer, toStdout bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	dirs, files, err := cfg.Matchers()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	started := time.Now()
	log.LogInfo(fmt.Sprintf("Walking Directory: %s", filepath.Base(filepath.Clean(cfg.RootPath))))

	result, err := walker.New(walker.Options{SkipDirs: dirs, SkipFiles: files}, log).Walk(cfg.RootPath)
	if err != nil {
		return fmt.Errorf("failed to walk %s: %w", cfg.RootPath, err)
	}

	outputName := cfg.OutputFile
	if toStdout {
		outputName = "-"
		if _, err := io.WriteString(stdout, result.Output); err != nil {
			return fmt.Errorf("failed to write POI list: %w", err)
		}
	} else {
		if err := writeManifest(ctx, cfg, result.Output); err != nil {
			return err
		}
		log.LogInfo(fmt.Sprintf("Wrote %d POIs to %s", result.Stats.TotalPois(), cfg.OutputFile))
	}

	duration := time.Since(started)

	if len(result.Dropped) > 0 {
		paths := make([]string, 0, len(result.Dropped))
		for _, d := range result.Dropped {
			paths = append(paths, d.Path)
		}
		display.WarnDroppedPois(paths).Display(console)
	}

	if cfg.History.Enabled {
		run := newRunRecord(cfg, outputName, started, duration, result)
		if err := recordHistory(ctx, cfg, run); err != nil {
			log.LogWarn(fmt.Sprintf("Could not record run history: %v", err))
		} else {
			log.LogDebug(fmt.Sprintf("Recorded run %s", run.ID))
		}
	}

	log.LogSummary(result.Stats, duration)
	log.LogInfo("Finished")

	return nil
}

func writeManifest(ctx context.Context, cfg *config.Config, content string) error {
	if cfg.LockTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.LockTimeout)
		defer cancel()
	}

	if err := filelock.WriteManifest(ctx, cfg.OutputFile, []byte(content)); err != nil {
		return fmt.Errorf("failed to write %s: %w", cfg.OutputFile, err)
	}
	return nil
}

func newRunRecord(cfg *config.Config, outputName string, started time.Time, duration time.Duration, result *walker.Result) *models.RunRecord {
	root := cfg.RootPath
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}

	run := &models.RunRecord{
		RootPath:   root,
		OutputFile: outputName,
		StartedAt:  started,
		Duration:   duration,
		Stats:      result.Stats,
		Sections:   make([]models.SectionSummary, 0, len(result.Sections)),
		Dropped:    make([]models.DroppedEntry, 0, len(result.Dropped)),
	}
	for i := range result.Sections {
		run.Sections = append(run.Sections, result.Sections[i].Summarize())
	}
	for _, d := range result.Dropped {
		run.Dropped = append(run.Dropped, models.DroppedEntry{Path: d.Path, Reason: d.Reason.Error()})
	}
	return run
}

func recordHistory(ctx context.Context, cfg *config.Config, run *models.RunRecord) error {
	dbPath, err := config.GetHistoryDBPath(cfg)
	if err != nil {
		return err
	}

	store, err := history.NewStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	return store.RecordRun(ctx, run)
}
