package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/grumpygabe/TeragonPOIParser/internal/logger"
	"github.com/grumpygabe/TeragonPOIParser/internal/pattern"
)

// DefaultOutputFile is the manifest name Teragon looks for
const DefaultOutputFile = "teragon poi list.txt"

// HistoryConfig controls the SQLite run history
type HistoryConfig struct {
	// Enabled records every run in the history database
	Enabled bool `yaml:"enabled"`

	// DBPath is the history database path. Empty means $POIPARSER_HOME/history.db
	DBPath string `yaml:"db_path"`
}

// Config is the explicit input of a manifest run
type Config struct {
	// RootPath is the prefab directory to walk. The run command's argument
	// takes precedence.
	RootPath string `yaml:"root_path"`

	// OutputFile is the manifest path, relative to the working directory
	OutputFile string `yaml:"output_file"`

	// SkipFiles are anchored filename patterns; ".xml" is implied
	SkipFiles []string `yaml:"skip_files"`

	// SkipDirs are anchored directory name patterns; a match prunes the subtree
	SkipDirs []string `yaml:"skip_dirs"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir is the directory for per-run log files. Empty disables them
	LogDir string `yaml:"log_dir"`

	// LockTimeout bounds how long a run waits for another run's manifest lock
	LockTimeout time.Duration `yaml:"lock_timeout"`

	// History contains run history configuration
	History HistoryConfig `yaml:"history"`
}

// DefaultConfig returns the configuration used when no file is present
func DefaultConfig() *Config {
	return &Config{
		OutputFile:  DefaultOutputFile,
		SkipFiles:   []string{"deco_.*", "DFalls_DemonPortal"},
		SkipDirs:    []string{"CustomWorldPOIs", "WWM Vanilla POIs"},
		LogLevel:    "info",
		LogDir:      ".poiparser/logs",
		LockTimeout: 30 * time.Second,
		History: HistoryConfig{
			Enabled: true,
			DBPath:  "",
		},
	}
}

// LoadConfig loads configuration from a YAML file.
// A missing file yields the defaults. Keys present in the file replace the
// default, including explicit empty values: `skip_dirs: []` clears the list.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Duration is parsed by hand so "30s" style values work
	type yamlConfig struct {
		RootPath    string        `yaml:"root_path"`
		OutputFile  string        `yaml:"output_file"`
		SkipFiles   []string      `yaml:"skip_files"`
		SkipDirs    []string      `yaml:"skip_dirs"`
		LogLevel    string        `yaml:"log_level"`
		LogDir      string        `yaml:"log_dir"`
		LockTimeout string        `yaml:"lock_timeout"`
		History     HistoryConfig `yaml:"history"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	var rawMap map[string]interface{}
	if err := yaml.Unmarshal(data, &rawMap); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	present := func(key string) bool {
		_, ok := rawMap[key]
		return ok
	}

	if present("root_path") {
		cfg.RootPath = yamlCfg.RootPath
	}
	if present("output_file") {
		cfg.OutputFile = yamlCfg.OutputFile
	}
	if present("skip_files") {
		cfg.SkipFiles = nonNil(yamlCfg.SkipFiles)
	}
	if present("skip_dirs") {
		cfg.SkipDirs = nonNil(yamlCfg.SkipDirs)
	}
	if present("log_level") {
		cfg.LogLevel = yamlCfg.LogLevel
	}
	if present("log_dir") {
		cfg.LogDir = yamlCfg.LogDir
	}
	if yamlCfg.LockTimeout != "" {
		timeout, err := time.ParseDuration(yamlCfg.LockTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid lock_timeout format %q: %w", yamlCfg.LockTimeout, err)
		}
		cfg.LockTimeout = timeout
	}

	if historySection, exists := rawMap["history"]; exists && historySection != nil {
		historyMap, _ := historySection.(map[string]interface{})

		if _, exists := historyMap["enabled"]; exists {
			cfg.History.Enabled = yamlCfg.History.Enabled
		}
		if _, exists := historyMap["db_path"]; exists {
			cfg.History.DBPath = yamlCfg.History.DBPath
		}
	}

	return cfg, nil
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

// LoadConfigFromDir loads configuration from .poiparser/config.yaml in dir.
// If the directory or file doesn't exist, returns default configuration without error
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, ".poiparser", "config.yaml"))
}

// MergeWithFlags applies CLI flags over the configuration.
// Non-nil values override; nil means the flag was not given.
func (c *Config) MergeWithFlags(outputFile *string, skipFiles, skipDirs *[]string, logLevel, logDir *string, noHistory *bool) {
	if outputFile != nil {
		c.OutputFile = *outputFile
	}
	if skipFiles != nil {
		c.SkipFiles = *skipFiles
	}
	if skipDirs != nil {
		c.SkipDirs = *skipDirs
	}
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
	if logDir != nil {
		c.LogDir = *logDir
	}
	if noHistory != nil && *noHistory {
		c.History.Enabled = false
	}
}

// Validate checks the configuration. Every skip pattern is compiled, so a
// bad regex is reported here before any directory is read.
func (c *Config) Validate() error {
	if !logger.IsValidLevel(c.LogLevel) {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if c.OutputFile == "" {
		return fmt.Errorf("output_file cannot be empty")
	}

	if c.LockTimeout < 0 {
		return fmt.Errorf("lock_timeout must be >= 0, got %v", c.LockTimeout)
	}

	if err := pattern.Validate(c.SkipFiles); err != nil {
		return fmt.Errorf("skip_files: %w", err)
	}
	if err := pattern.Validate(c.SkipDirs); err != nil {
		return fmt.Errorf("skip_dirs: %w", err)
	}

	return nil
}

// Matchers compiles the skip lists into the directory and file matchers
func (c *Config) Matchers() (dirs, files *pattern.Matcher, err error) {
	dirs, err = pattern.Compile(c.SkipDirs, "")
	if err != nil {
		return nil, nil, fmt.Errorf("skip_dirs: %w", err)
	}
	files, err = pattern.Compile(c.SkipFiles, pattern.FileSuffix)
	if err != nil {
		return nil, nil, fmt.Errorf("skip_files: %w", err)
	}
	return dirs, files, nil
}
