package codegen

import (
	"fmt"
	"go/format"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"godbi/parser"
	"godbi/schema"
)

// Generator orchestrates a full code generation run: parse the schema file,
// filter tables, and emit entity and DAO files.
type Generator struct {
	cfg Config
	log *zap.Logger
}

// New creates a generator. A nil logger disables logging.
func New(cfg Config, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{cfg: cfg, log: logger}
}

// Run executes the generation pass described by the config.
func (g *Generator) Run() error {
	if err := g.cfg.Validate(); err != nil {
		return err
	}

	g.log.Info("parsing schema", zap.String("file", g.cfg.SchemaFile))
	ddl, err := os.ReadFile(g.cfg.SchemaFile)
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}
	tables, err := parser.NewSQLParser().ParseSchema(string(ddl))
	if err != nil {
		return fmt.Errorf("failed to parse schema: %w", err)
	}
	g.log.Info("parsed schema", zap.Int("tables", len(tables)))

	tables = g.filterTables(tables)
	g.log.Debug("after filtering", zap.Int("tables", len(tables)))

	if g.cfg.GenerateStructs {
		if err := g.generateModels(tables); err != nil {
			return err
		}
	}
	if g.cfg.GenerateDAO {
		if err := g.generateDAOs(tables); err != nil {
			return err
		}
	}

	g.log.Info("code generation complete")
	return nil
}

func (g *Generator) filterTables(tables []schema.Table) []schema.Table {
	out := make([]schema.Table, 0, len(tables))
	for _, t := range tables {
		if g.cfg.includeTable(t.Name) {
			out = append(out, t)
		} else {
			g.log.Debug("skipping table", zap.String("table", t.Name))
		}
	}
	return out
}

func (g *Generator) generateModels(tables []schema.Table) error {
	dir := g.cfg.OutputStructsDir
	pkg := g.cfg.ModelsPackage()
	g.log.Info("generating models", zap.String("dir", dir))

	if err := g.writeFile(filepath.Join(dir, "pagination.go"), generatePaginationFile(pkg)); err != nil {
		return err
	}
	for _, table := range tables {
		name := snakeCase(table.Name) + ".go"
		g.log.Debug("generating model", zap.String("table", table.Name), zap.String("file", name))
		if err := g.writeFile(filepath.Join(dir, name), generateModelFile(table, pkg)); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) generateDAOs(tables []schema.Table) error {
	dir := g.cfg.OutputDAODir
	g.log.Info("generating DAOs", zap.String("dir", dir))

	for _, table := range tables {
		name := snakeCase(table.Name) + ".go"
		g.log.Debug("generating DAO", zap.String("table", table.Name), zap.String("file", name))
		if err := g.writeFile(filepath.Join(dir, name), generateDAOFile(table, g.cfg)); err != nil {
			return err
		}
	}
	return nil
}

// writeFile formats and writes one generated source file. Formatting is best
// effort: on failure the unformatted source is written instead.
func (g *Generator) writeFile(path string, src []byte) error {
	formatted, err := format.Source(src)
	if err != nil {
		g.log.Warn("failed to format generated file, writing unformatted",
			zap.String("file", path), zap.Error(err))
		formatted = src
	}

	if g.cfg.DryRun {
		g.log.Info("dry run, skipping write", zap.String("file", path))
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, formatted, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
