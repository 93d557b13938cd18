// Package main contains the godbi command line tool. It uses the cobra
// package for the cli implementation.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"godbi/codegen"
)

type generateFlags struct {
	configFile    string
	schemaFile    string
	structsDir    string
	daoDir        string
	includeTables []string
	excludeTables []string
	modelsModule  string
	daoModule     string
	noStructs     bool
	noDAO         bool
	dryRun        bool
	logLevel      string
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "godbi",
		Short: "Generate typed entities and DAO functions from MySQL DDL",
	}

	rootCmd.AddCommand(generateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func generateCmd() *cobra.Command {
	flags := &generateFlags{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate entity structs and DAO functions from a schema file",
		Long: `Generate parses a MySQL DDL file and emits one entity file and one DAO
file per table, plus shared pagination types.

Options come from a TOML config file (godbi.toml by default); every option
can be overridden on the command line.

Examples:
  godbi generate
  godbi generate --config codegen.toml
  godbi generate --schema schema.sql --structs-dir gen/models --dao-dir gen/dao \
      --models-module example.com/app/gen/models --dao-module example.com/app/gen/dao`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.configFile, "config", "c", "godbi.toml", "Path to the TOML config file")
	cmd.Flags().StringVarP(&flags.schemaFile, "schema", "s", "", "Path to the MySQL DDL input")
	cmd.Flags().StringVar(&flags.structsDir, "structs-dir", "", "Output directory for entity files")
	cmd.Flags().StringVar(&flags.daoDir, "dao-dir", "", "Output directory for DAO files")
	cmd.Flags().StringSliceVar(&flags.includeTables, "include", nil, "Tables to include (default all)")
	cmd.Flags().StringSliceVar(&flags.excludeTables, "exclude", nil, "Tables to exclude")
	cmd.Flags().StringVar(&flags.modelsModule, "models-module", "", "Import path of the generated models package")
	cmd.Flags().StringVar(&flags.daoModule, "dao-module", "", "Import path of the generated DAO package")
	cmd.Flags().BoolVar(&flags.noStructs, "no-structs", false, "Skip entity generation")
	cmd.Flags().BoolVar(&flags.noDAO, "no-dao", false, "Skip DAO generation")
	cmd.Flags().BoolVarP(&flags.dryRun, "dry-run", "d", false, "Parse and plan without writing files")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	return cmd
}

func runGenerate(cmd *cobra.Command, flags *generateFlags) error {
	cfg, err := loadConfig(flags.configFile, cmd.Flags().Changed("config"))
	if err != nil {
		return err
	}

	applyFlagOverrides(cmd, flags, &cfg)

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	return codegen.New(cfg, logger).Run()
}

// loadConfig reads the config file when present. A missing default config
// file is fine (flags may carry everything); a missing explicit one is an
// error.
func loadConfig(path string, explicit bool) (codegen.Config, error) {
	if _, err := os.Stat(path); err != nil {
		if explicit {
			return codegen.Config{}, fmt.Errorf("config file not found: %s", path)
		}
		return codegen.DefaultConfig(), nil
	}
	return codegen.LoadConfig(path)
}

func applyFlagOverrides(cmd *cobra.Command, flags *generateFlags, cfg *codegen.Config) {
	if flags.schemaFile != "" {
		cfg.SchemaFile = flags.schemaFile
	}
	if flags.structsDir != "" {
		cfg.OutputStructsDir = flags.structsDir
	}
	if flags.daoDir != "" {
		cfg.OutputDAODir = flags.daoDir
	}
	if cmd.Flags().Changed("include") {
		cfg.IncludeTables = flags.includeTables
	}
	if cmd.Flags().Changed("exclude") {
		cfg.ExcludeTables = flags.excludeTables
	}
	if flags.modelsModule != "" {
		cfg.ModelsModule = flags.modelsModule
	}
	if flags.daoModule != "" {
		cfg.DAOModule = flags.daoModule
	}
	if flags.noStructs {
		cfg.GenerateStructs = false
	}
	if flags.noDAO {
		cfg.GenerateDAO = false
	}
	if flags.dryRun {
		cfg.DryRun = true
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if level != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		lvl = parsed
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true
	return cfg.Build()
}
