package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/easel/pkg/sqlite"
	"github.com/mesh-intelligence/easel/pkg/types"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	Backend string `yaml:"backend"`
	DataDir string `yaml:"data_dir,omitempty"`
	Sync    string `yaml:"sync,omitempty"`
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize easel storage",
		Long:  "Create configuration and data directories, write a starter schema,\nand initialize the storage backend.",
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	configDir, err := resolveConfigDir()
	if err != nil {
		return exitError(cmd, exitSysError, fmt.Sprintf("resolve config directory: %s", err))
	}
	dataDir := flags.dataDir

	if dataDir == "" {
		dataDir = loadDataDirFromConfig(configDir)
	}
	if dataDir == "" {
		dataDir = ".easel-db"
	}

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return exitError(cmd, exitSysError, fmt.Sprintf("create config directory: %s", err))
	}
	if err := writeConfigIfMissing(filepath.Join(configDir, "config.yaml"), dataDir); err != nil {
		return exitError(cmd, exitSysError, fmt.Sprintf("write config: %s", err))
	}
	if err := writeSchemaIfMissing(configDir); err != nil {
		return exitError(cmd, exitSysError, fmt.Sprintf("write schema: %s", err))
	}

	schema, err := loadSchema(configDir)
	if err != nil {
		return exitError(cmd, exitUserError, err.Error())
	}

	// Initialize the data directory via Attach then Detach.
	backend, err := sqlite.New(schema)
	if err != nil {
		return exitError(cmd, exitUserError, fmt.Sprintf("invalid schema: %s", err))
	}
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: dataDir}
	if err := backend.Attach(cfg); err != nil {
		return exitError(cmd, exitSysError, fmt.Sprintf("initialize storage: %s", err))
	}
	if err := backend.Detach(); err != nil {
		return exitError(cmd, exitSysError, fmt.Sprintf("finalize storage: %s", err))
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Easel initialized successfully")
	return nil
}

// writeConfigIfMissing creates config.yaml with default values if the
// file does not exist. Idempotent.
func writeConfigIfMissing(path, dataDir string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	cfg := configFile{
		Backend: types.BackendSQLite,
		DataDir: dataDir,
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// loadDataDirFromConfig reads data_dir from an existing config.yaml.
// Returns empty string if the file does not exist or cannot be read.
func loadDataDirFromConfig(configDir string) string {
	data, err := os.ReadFile(filepath.Join(configDir, "config.yaml"))
	if err != nil {
		return ""
	}

	var cfg configFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ""
	}
	return cfg.DataDir
}
