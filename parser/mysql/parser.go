// Package mysql parses MySQL CREATE TABLE statements into schema metadata.
// It uses TiDB's parser, so both MySQL syntax and TiDB-specific options are
// accepted.
package mysql

import (
	"fmt"
	"strings"

	"github.com/pingcap/tidb/pkg/parser"
	"github.com/pingcap/tidb/pkg/parser/ast"
	"github.com/pingcap/tidb/pkg/parser/format"
	tidbmysql "github.com/pingcap/tidb/pkg/parser/mysql"
	_ "github.com/pingcap/tidb/pkg/parser/test_driver"

	"godbi/schema"
)

type Parser struct {
	p *parser.Parser
}

func NewParser() *Parser {
	return &Parser{p: parser.New()}
}

// Parse extracts table metadata from every CREATE TABLE statement in sql.
// Other statements are ignored.
func (p *Parser) Parse(sql string) ([]schema.Table, error) {
	stmtNodes, _, err := p.p.Parse(sql, "", "")
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	tables := make([]schema.Table, 0, len(stmtNodes))
	for _, stmt := range stmtNodes {
		if create, ok := stmt.(*ast.CreateTableStmt); ok {
			table, err := p.convertCreateTable(create)
			if err != nil {
				return nil, err
			}
			tables = append(tables, table)
		}
	}

	return tables, nil
}

func (p *Parser) convertCreateTable(stmt *ast.CreateTableStmt) (schema.Table, error) {
	table := schema.Table{
		Name: stmt.Table.Name.O,
	}

	for _, opt := range stmt.Options {
		if opt.Tp == ast.TableOptionComment {
			table.Comment = opt.StrValue
		}
	}

	p.parseColumns(stmt.Cols, &table)
	p.parseConstraints(stmt.Constraints, &table)
	p.forcePrimaryKeyNotNull(&table)

	return table, nil
}

func (p *Parser) parseColumns(cols []*ast.ColumnDef, table *schema.Table) {
	for _, colDef := range cols {
		col := schema.Column{
			Name:     colDef.Name.Name.O,
			DataType: colDef.Tp.String(),
			Nullable: true,
			Unsigned: tidbmysql.HasUnsignedFlag(colDef.Tp.GetFlag()),
		}
		if colDef.Tp.GetType() == tidbmysql.TypeEnum {
			col.EnumValues = append(col.EnumValues, colDef.Tp.GetElems()...)
		}

		isPrimary := false
		for _, opt := range colDef.Options {
			switch opt.Tp {
			case ast.ColumnOptionNotNull:
				col.Nullable = false
			case ast.ColumnOptionNull:
				col.Nullable = true
			case ast.ColumnOptionPrimaryKey:
				isPrimary = true
				col.Nullable = false
			case ast.ColumnOptionAutoIncrement:
				col.AutoIncrement = true
			case ast.ColumnOptionDefaultValue:
				col.Default = p.exprToString(opt.Expr)
			case ast.ColumnOptionUniqKey:
				table.Indexes = append(table.Indexes, schema.Index{
					Name:    col.Name + "_unique",
					Columns: []string{col.Name},
					Unique:  true,
				})
			case ast.ColumnOptionComment:
				if s := p.exprToString(opt.Expr); s != nil {
					col.Comment = *s
				}
			case ast.ColumnOptionReference:
				if opt.Refer != nil && opt.Refer.Table != nil {
					fk := schema.ForeignKey{
						ColumnName:      col.Name,
						ReferencedTable: opt.Refer.Table.Name.O,
					}
					for _, spec := range opt.Refer.IndexPartSpecifications {
						if spec.Column != nil {
							fk.ReferencedColumn = spec.Column.Name.O
							break
						}
					}
					table.ForeignKeys = append(table.ForeignKeys, fk)
				}
			}
		}

		table.Columns = append(table.Columns, col)
		if isPrimary {
			p.addPrimaryKeyColumn(table, col.Name)
		}
	}
}

func (p *Parser) addPrimaryKeyColumn(table *schema.Table, colName string) {
	if table.PrimaryKey == nil {
		table.PrimaryKey = &schema.PrimaryKey{}
	}
	for _, existing := range table.PrimaryKey.Columns {
		if strings.EqualFold(existing, colName) {
			return
		}
	}
	table.PrimaryKey.Columns = append(table.PrimaryKey.Columns, colName)
}

func (p *Parser) parseConstraints(constraints []*ast.Constraint, table *schema.Table) {
	for _, constraint := range constraints {
		columns := make([]string, 0, len(constraint.Keys))
		for _, key := range constraint.Keys {
			if key.Column != nil {
				columns = append(columns, key.Column.Name.O)
			}
		}
		if len(columns) == 0 {
			continue
		}

		switch constraint.Tp {
		case ast.ConstraintPrimaryKey:
			for _, colName := range columns {
				p.addPrimaryKeyColumn(table, colName)
			}

		case ast.ConstraintUniq, ast.ConstraintUniqKey, ast.ConstraintUniqIndex:
			name := constraint.Name
			if name == "" {
				name = columns[0] + "_unique"
			}
			table.Indexes = append(table.Indexes, schema.Index{
				Name:    name,
				Columns: columns,
				Unique:  true,
			})

		case ast.ConstraintIndex, ast.ConstraintKey:
			name := constraint.Name
			if name == "" {
				name = "idx_" + columns[0]
			}
			table.Indexes = append(table.Indexes, schema.Index{
				Name:    name,
				Columns: columns,
				Unique:  false,
			})

		case ast.ConstraintForeignKey:
			if constraint.Refer == nil || constraint.Refer.Table == nil {
				continue
			}
			refTable := constraint.Refer.Table.Name.O
			refColumns := make([]string, 0, len(constraint.Refer.IndexPartSpecifications))
			for _, spec := range constraint.Refer.IndexPartSpecifications {
				if spec.Column != nil {
					refColumns = append(refColumns, spec.Column.Name.O)
				}
			}
			for i, colName := range columns {
				fk := schema.ForeignKey{
					ColumnName:      colName,
					ReferencedTable: refTable,
				}
				if i < len(refColumns) {
					fk.ReferencedColumn = refColumns[i]
				}
				table.ForeignKeys = append(table.ForeignKeys, fk)
			}
		}
	}
}

// forcePrimaryKeyNotNull marks every primary key column non-nullable,
// whatever the column declaration said.
func (p *Parser) forcePrimaryKeyNotNull(table *schema.Table) {
	if table.PrimaryKey == nil {
		return
	}
	for _, name := range table.PrimaryKey.Columns {
		if col := table.Column(name); col != nil {
			col.Nullable = false
		}
	}
}

func (p *Parser) exprToString(expr ast.ExprNode) *string {
	if expr == nil {
		return nil
	}

	var sb strings.Builder
	restoreCtx := format.NewRestoreCtx(format.DefaultRestoreFlags, &sb)
	if err := expr.Restore(restoreCtx); err != nil {
		return nil
	}
	s := strings.TrimSpace(sb.String())

	if unquoted, ok := tryUnquoteSQLStringLiteral(s); ok {
		return &unquoted
	}

	return &s
}

func tryUnquoteSQLStringLiteral(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[len(s)-1] != '\'' {
		return "", false
	}

	if s[0] == '\'' {
		return strings.ReplaceAll(s[1:len(s)-1], "''", "'"), true
	}

	q := strings.IndexByte(s, '\'')
	if q <= 0 {
		return "", false
	}
	prefix := strings.TrimSpace(s[:q])
	if !isSQLStringIntroducer(prefix) {
		return "", false
	}
	inner := s[q+1 : len(s)-1]
	return strings.ReplaceAll(inner, "''", "'"), true
}

func isSQLStringIntroducer(prefix string) bool {
	if prefix == "" {
		return false
	}
	if strings.EqualFold(prefix, "N") {
		return true
	}
	if !strings.HasPrefix(prefix, "_") || len(prefix) == 1 {
		return false
	}
	for _, r := range prefix[1:] {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_':
		default:
			return false
		}
	}
	return true
}
