package codegen

import (
	"fmt"
	"os"
	"path"

	"github.com/BurntSushi/toml"
)

// Config controls a code generation run. The TOML keys match the field
// tags; absent keys keep their defaults.
type Config struct {
	// SchemaFile is the path of the MySQL DDL input (required).
	SchemaFile string `toml:"schema_file"`

	// IncludeTables limits generation to the named tables. Empty or
	// containing "*" means every table.
	IncludeTables []string `toml:"include_tables"`

	// ExcludeTables removes tables after inclusion.
	ExcludeTables []string `toml:"exclude_tables"`

	// GenerateStructs emits entity files.
	GenerateStructs bool `toml:"generate_structs"`

	// GenerateDAO emits DAO files. Requires GenerateStructs: DAO code
	// references entity and enum types.
	GenerateDAO bool `toml:"generate_dao"`

	// OutputStructsDir receives the generated entity files.
	OutputStructsDir string `toml:"output_structs_dir"`

	// OutputDAODir receives the generated DAO files.
	OutputDAODir string `toml:"output_dao_dir"`

	// ModelsModule is the import path of the generated models package.
	ModelsModule string `toml:"models_module"`

	// DAOModule is the import path of the generated DAO package.
	DAOModule string `toml:"dao_module"`

	// DryRun parses and plans without writing files.
	DryRun bool `toml:"dry_run"`

	// LogLevel is the logging severity threshold (debug, info, warn,
	// error).
	LogLevel string `toml:"log_level"`
}

// DefaultConfig returns a config with every option at its default.
func DefaultConfig() Config {
	return Config{
		IncludeTables:    []string{"*"},
		GenerateStructs:  true,
		GenerateDAO:      true,
		OutputStructsDir: "models",
		OutputDAODir:     "dao",
		ModelsModule:     "models",
		DAOModule:        "dao",
	}
}

// LoadConfig reads a TOML config file over the defaults.
func LoadConfig(configPath string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(configPath, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}
	return cfg, nil
}

// Validate checks the config for required values and inconsistent options.
func (c Config) Validate() error {
	if c.SchemaFile == "" {
		return fmt.Errorf("schema_file is required")
	}
	if _, err := os.Stat(c.SchemaFile); err != nil {
		return fmt.Errorf("schema file not found: %s", c.SchemaFile)
	}
	if c.GenerateStructs && c.ModelsModule == "" {
		return fmt.Errorf("models_module is required when generate_structs is true")
	}
	if c.GenerateDAO {
		if !c.GenerateStructs {
			return fmt.Errorf("generate_structs must be true when generate_dao is true (DAOs depend on structs)")
		}
		if c.DAOModule == "" {
			return fmt.Errorf("dao_module is required when generate_dao is true")
		}
	}
	return nil
}

// ModelsPackage is the package name of the generated models, the last
// element of the module path.
func (c Config) ModelsPackage() string {
	return path.Base(c.ModelsModule)
}

// DAOPackage is the package name of the generated DAOs.
func (c Config) DAOPackage() string {
	return path.Base(c.DAOModule)
}

// includeTable applies the include/exclude filters to one table name.
// Exclusion wins over inclusion.
func (c Config) includeTable(name string) bool {
	for _, t := range c.ExcludeTables {
		if t == name {
			return false
		}
	}
	if len(c.IncludeTables) == 0 {
		return true
	}
	for _, t := range c.IncludeTables {
		if t == "*" || t == name {
			return true
		}
	}
	return false
}
