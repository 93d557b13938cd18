package codegen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, []string{"*"}, cfg.IncludeTables)
	assert.True(t, cfg.GenerateStructs)
	assert.True(t, cfg.GenerateDAO)
	assert.Equal(t, "models", cfg.ModelsModule)
	assert.Equal(t, "dao", cfg.DAOModule)
	assert.False(t, cfg.DryRun)
	assert.Empty(t, cfg.LogLevel)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "godbi.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
schema_file = "schema.sql"
include_tables = ["users", "orders"]
exclude_tables = ["migrations"]
output_structs_dir = "gen/models"
models_module = "example.com/app/gen/models"
dao_module = "example.com/app/gen/dao"
log_level = "debug"
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "schema.sql", cfg.SchemaFile)
	assert.Equal(t, []string{"users", "orders"}, cfg.IncludeTables)
	assert.Equal(t, []string{"migrations"}, cfg.ExcludeTables)
	assert.Equal(t, "gen/models", cfg.OutputStructsDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.GenerateStructs, "absent keys keep their defaults")
	assert.Equal(t, "models", cfg.ModelsPackage())
	assert.Equal(t, "dao", cfg.DAOPackage())
}

func TestLoadConfigBadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte("schema_file = [broken"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "schema.sql")
	require.NoError(t, os.WriteFile(schemaPath, []byte("CREATE TABLE t (id INT);"), 0o644))

	t.Run("valid", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.SchemaFile = schemaPath
		assert.NoError(t, cfg.Validate())
	})

	t.Run("missing schema file option", func(t *testing.T) {
		cfg := DefaultConfig()
		assert.Error(t, cfg.Validate())
	})

	t.Run("schema file does not exist", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.SchemaFile = filepath.Join(dir, "nope.sql")
		assert.Error(t, cfg.Validate())
	})

	t.Run("dao requires structs", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.SchemaFile = schemaPath
		cfg.GenerateStructs = false
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "generate_structs must be true")
	})

	t.Run("structs without dao is fine", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.SchemaFile = schemaPath
		cfg.GenerateDAO = false
		assert.NoError(t, cfg.Validate())
	})
}

func TestIncludeTable(t *testing.T) {
	t.Run("star includes all", func(t *testing.T) {
		cfg := DefaultConfig()
		assert.True(t, cfg.includeTable("anything"))
	})

	t.Run("empty include means all", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.IncludeTables = nil
		assert.True(t, cfg.includeTable("users"))
	})

	t.Run("explicit include filters", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.IncludeTables = []string{"users"}
		assert.True(t, cfg.includeTable("users"))
		assert.False(t, cfg.includeTable("orders"))
	})

	t.Run("exclude wins over include", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.ExcludeTables = []string{"migrations"}
		assert.False(t, cfg.includeTable("migrations"))
		assert.True(t, cfg.includeTable("users"))
	})
}
