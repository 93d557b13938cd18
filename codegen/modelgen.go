package codegen

import (
	"fmt"
	"strings"

	"godbi/schema"
)

const generatedHeader = "// Code generated by godbi. DO NOT EDIT.\n\n"

// enumVariantMapping pairs a Go variant identifier with the exact database
// literal it stands for.
type enumVariantMapping struct {
	Variant string
	Literal string
}

// enumVariantMappings converts enum literals to variant identifiers,
// disambiguating PascalCase collisions with a numeric suffix in declaration
// order.
func enumVariantMappings(values []string) []enumVariantMapping {
	used := make(map[string]bool, len(values))
	mappings := make([]enumVariantMapping, 0, len(values))
	for _, value := range values {
		variant := enumVariant(value)
		if used[variant] {
			for counter := 2; ; counter++ {
				candidate := fmt.Sprintf("%s%d", variant, counter)
				if !used[candidate] {
					variant = candidate
					break
				}
			}
		}
		used[variant] = true
		mappings = append(mappings, enumVariantMapping{
			Variant: variant,
			Literal: strings.Trim(value, "'\""),
		})
	}
	return mappings
}

// generateModelFile renders the entity file for one table: enum types,
// the entity struct with row-scanning and parameter methods, and the
// sort-column enumeration.
func generateModelFile(table schema.Table, pkg string) []byte {
	name := structName(table.Name)

	var needsTime, needsDecimal, needsJSON bool
	for _, col := range table.Columns {
		t := resolveType(col, table.Name)
		needsTime = needsTime || t.NeedsTime()
		needsDecimal = needsDecimal || t.NeedsDecimal()
		needsJSON = needsJSON || t.NeedsJSON()
	}

	var b strings.Builder
	b.WriteString(generatedHeader)
	fmt.Fprintf(&b, "package %s\n\n", pkg)

	b.WriteString("import (\n")
	if needsJSON {
		b.WriteString("\t\"encoding/json\"\n")
	}
	if needsTime {
		b.WriteString("\t\"time\"\n")
	}
	if needsJSON || needsTime {
		b.WriteString("\n")
	}
	if needsDecimal {
		b.WriteString("\t\"github.com/shopspring/decimal\"\n\n")
	}
	b.WriteString("\t\"godbi\"\n")
	b.WriteString(")\n\n")

	for _, col := range table.Columns {
		if col.IsEnum() {
			writeEnum(&b, table.Name, col)
		}
	}

	writeEntity(&b, table, name)
	writeParamsMethods(&b, table, name)
	writeSortBy(&b, table, name)

	return []byte(b.String())
}

func writeEnum(b *strings.Builder, tableName string, col schema.Column) {
	name := enumName(tableName, col.Name)
	mappings := enumVariantMappings(col.EnumValues)

	fmt.Fprintf(b, "// %s is the enum type for `%s`.`%s`.\n", name, tableName, col.Name)
	fmt.Fprintf(b, "type %s int\n\n", name)

	b.WriteString("const (\n")
	for i, m := range mappings {
		if i == 0 {
			fmt.Fprintf(b, "\t%s%s %s = iota\n", name, m.Variant, name)
		} else {
			fmt.Fprintf(b, "\t%s%s\n", name, m.Variant)
		}
	}
	b.WriteString(")\n\n")

	fmt.Fprintf(b, "// String returns the database literal for the value.\n")
	fmt.Fprintf(b, "func (v %s) String() string {\n", name)
	b.WriteString("\tswitch v {\n")
	for _, m := range mappings {
		fmt.Fprintf(b, "\tcase %s%s:\n\t\treturn %q\n", name, m.Variant, m.Literal)
	}
	b.WriteString("\t}\n\treturn \"\"\n}\n\n")

	fmt.Fprintf(b, "// Parse%s maps a database literal onto %s.\n", name, name)
	fmt.Fprintf(b, "func Parse%s(s string) (%s, error) {\n", name, name)
	b.WriteString("\tswitch s {\n")
	for _, m := range mappings {
		fmt.Fprintf(b, "\tcase %q:\n\t\treturn %s%s, nil\n", m.Literal, name, m.Variant)
	}
	fmt.Fprintf(b, "\t}\n\treturn 0, &godbi.TypeConversionError{Expected: %q, Actual: s}\n}\n\n", name)

	fmt.Fprintf(b, "// ToValue renders the value as a query parameter.\n")
	fmt.Fprintf(b, "func (v %s) ToValue() godbi.Value {\n", name)
	b.WriteString("\treturn godbi.String(v.String())\n}\n\n")
}

func writeEntity(b *strings.Builder, table schema.Table, name string) {
	fmt.Fprintf(b, "// %s maps a row of the `%s` table.\n", name, table.Name)
	if table.Comment != "" {
		fmt.Fprintf(b, "//\n// %s\n", table.Comment)
	}
	fmt.Fprintf(b, "type %s struct {\n", name)
	for _, col := range table.Columns {
		t := resolveType(col, table.Name)

		doc := fmt.Sprintf("Column: `%s`", col.Name)
		if info := indexInfo(table, col.Name); len(info) > 0 {
			doc += fmt.Sprintf(" (%s)", strings.Join(info, ", "))
		}
		if col.Comment != "" {
			doc += " - " + col.Comment
		}
		fmt.Fprintf(b, "\t// %s\n", doc)
		fmt.Fprintf(b, "\t%s %s `json:%q`\n", pascalCase(col.Name), t.GoType(), col.Name)
	}
	b.WriteString("}\n\n")

	// ScanRow decodes columns in declaration order.
	fmt.Fprintf(b, "// ScanRow decodes a result row into e.\n")
	fmt.Fprintf(b, "func (e *%s) ScanRow(row godbi.Row) error {\n", name)
	hasPlainColumn := false
	for _, col := range table.Columns {
		if !col.IsEnum() {
			hasPlainColumn = true
		}
	}
	if hasPlainColumn {
		b.WriteString("\tvar err error\n")
	}
	for _, col := range table.Columns {
		t := resolveType(col, table.Name)
		field := "e." + pascalCase(col.Name)

		if t.Kind == TypeEnum {
			writeEnumScan(b, col, t, field)
			continue
		}
		getter := "godbi.Get" + t.getterSuffix()
		if t.Optional {
			getter = "godbi.GetNull" + t.getterSuffix()
		}
		fmt.Fprintf(b, "\tif %s, err = %s(row, %q); err != nil {\n\t\treturn err\n\t}\n", field, getter, col.Name)
	}
	b.WriteString("\treturn nil\n}\n\n")
}

func writeEnumScan(b *strings.Builder, col schema.Column, t NativeType, field string) {
	if t.Optional {
		fmt.Fprintf(b, "\t{\n\t\ts, err := godbi.GetNullString(row, %q)\n", col.Name)
		b.WriteString("\t\tif err != nil {\n\t\t\treturn err\n\t\t}\n")
		fmt.Fprintf(b, "\t\t%s = nil\n", field)
		b.WriteString("\t\tif s != nil {\n")
		fmt.Fprintf(b, "\t\t\tv, err := Parse%s(*s)\n", t.EnumName)
		b.WriteString("\t\t\tif err != nil {\n\t\t\t\treturn err\n\t\t\t}\n")
		fmt.Fprintf(b, "\t\t\t%s = &v\n", field)
		b.WriteString("\t\t}\n\t}\n")
		return
	}
	fmt.Fprintf(b, "\t{\n\t\ts, err := godbi.GetString(row, %q)\n", col.Name)
	b.WriteString("\t\tif err != nil {\n\t\t\treturn err\n\t\t}\n")
	fmt.Fprintf(b, "\t\tif %s, err = Parse%s(s); err != nil {\n\t\t\treturn err\n\t\t}\n\t}\n", field, t.EnumName)
}

// valueExpr renders the Value-producing expression for an entity field or
// parameter. enumQualifier prefixes enum type references when the expression
// lives outside the models package.
func valueExpr(t NativeType, expr, enumQualifier string) string {
	switch {
	case t.Kind == TypeEnum && t.Optional:
		return fmt.Sprintf("godbi.Ptr(%s, %s%s.ToValue)", expr, enumQualifier, t.EnumName)
	case t.Kind == TypeEnum:
		return fmt.Sprintf("%s.ToValue()", expr)
	case t.Kind == TypeBytes && t.Optional:
		return fmt.Sprintf("godbi.NullableBytes(%s)", expr)
	case t.Kind == TypeJSON && t.Optional:
		return fmt.Sprintf("godbi.NullableJSON(%s)", expr)
	case t.Optional:
		return fmt.Sprintf("godbi.Ptr(%s, %s)", expr, t.valueCtor())
	default:
		return fmt.Sprintf("%s(%s)", t.valueCtor(), expr)
	}
}

func writeParamsMethods(b *strings.Builder, table schema.Table, name string) {
	insertCols := make([]schema.Column, 0, len(table.Columns))
	for _, col := range table.Columns {
		if !col.AutoIncrement {
			insertCols = append(insertCols, col)
		}
	}

	fmt.Fprintf(b, "// InsertColumnNames lists the columns used for INSERT statements;\n")
	fmt.Fprintf(b, "// auto-increment columns are omitted.\n")
	fmt.Fprintf(b, "func (e %s) InsertColumnNames() []string {\n", name)
	writeStringSlice(b, columnNames(insertCols))
	b.WriteString("}\n\n")

	fmt.Fprintf(b, "// InsertValues returns the values matching InsertColumnNames.\n")
	fmt.Fprintf(b, "func (e %s) InsertValues() []godbi.Value {\n", name)
	writeValueSlice(b, table, insertCols)
	b.WriteString("}\n\n")

	fmt.Fprintf(b, "// AllColumnNames lists every column.\n")
	fmt.Fprintf(b, "func (e %s) AllColumnNames() []string {\n", name)
	writeStringSlice(b, columnNames(table.Columns))
	b.WriteString("}\n\n")

	fmt.Fprintf(b, "// AllValues returns the values matching AllColumnNames.\n")
	fmt.Fprintf(b, "func (e %s) AllValues() []godbi.Value {\n", name)
	writeValueSlice(b, table, table.Columns)
	b.WriteString("}\n\n")
}

func columnNames(cols []schema.Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

func writeStringSlice(b *strings.Builder, names []string) {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	fmt.Fprintf(b, "\treturn []string{%s}\n", strings.Join(quoted, ", "))
}

func writeValueSlice(b *strings.Builder, table schema.Table, cols []schema.Column) {
	b.WriteString("\treturn []godbi.Value{\n")
	for _, col := range cols {
		t := resolveType(col, table.Name)
		fmt.Fprintf(b, "\t\t%s,\n", valueExpr(t, "e."+pascalCase(col.Name), ""))
	}
	b.WriteString("\t}\n")
}

func writeSortBy(b *strings.Builder, table schema.Table, name string) {
	enumType := name + "SortBy"
	fmt.Fprintf(b, "// %s selects the sort column for paginated queries over `%s`.\n", enumType, table.Name)
	fmt.Fprintf(b, "type %s int\n\n", enumType)

	b.WriteString("const (\n")
	for i, col := range table.Columns {
		variant := enumType + pascalCase(col.Name)
		if i == 0 {
			fmt.Fprintf(b, "\t%s %s = iota\n", variant, enumType)
		} else {
			fmt.Fprintf(b, "\t%s\n", variant)
		}
	}
	b.WriteString(")\n\n")

	fmt.Fprintf(b, "// AsSQL returns the backtick-quoted column name.\n")
	fmt.Fprintf(b, "func (s %s) AsSQL() string {\n", enumType)
	b.WriteString("\tswitch s {\n")
	for _, col := range table.Columns {
		fmt.Fprintf(b, "\tcase %s%s:\n\t\treturn \"`%s`\"\n", enumType, pascalCase(col.Name), col.Name)
	}
	b.WriteString("\t}\n")
	fmt.Fprintf(b, "\treturn \"`%s`\"\n}\n\n", table.Columns[0].Name)
}

// indexInfo summarizes key membership for a column's doc comment.
func indexInfo(table schema.Table, columnName string) []string {
	var info []string
	if table.IsPrimaryKeyColumn(columnName) {
		info = append(info, "PRIMARY KEY")
	}
	for _, idx := range table.Indexes {
		for _, c := range idx.Columns {
			if c != columnName {
				continue
			}
			if idx.Unique {
				info = append(info, "UNIQUE: "+idx.Name)
			} else {
				info = append(info, "INDEX: "+idx.Name)
			}
		}
	}
	return info
}

// generatePaginationFile renders the shared pagination types, emitted once
// into the models package.
func generatePaginationFile(pkg string) []byte {
	var b strings.Builder
	b.WriteString(generatedHeader)
	fmt.Fprintf(&b, "package %s\n\n", pkg)

	b.WriteString(`// SortDirection orders paginated queries.
type SortDirection int

const (
	SortAsc SortDirection = iota
	SortDesc
)

// AsSQL returns the SQL rendering of the direction.
func (d SortDirection) AsSQL() string {
	if d == SortDesc {
		return "DESC"
	}
	return "ASC"
}

// PaginatedResult is one page of items together with result totals.
type PaginatedResult[T any] struct {
	Items       []T
	TotalCount  int64
	CurrentPage int32
	TotalPages  int32
	PageSize    int32
	HasNext     bool
}

// NewPaginatedResult assembles a page, deriving TotalPages and HasNext.
func NewPaginatedResult[T any](items []T, totalCount int64, currentPage, pageSize int32) PaginatedResult[T] {
	if pageSize < 1 {
		pageSize = 1
	}
	totalPages := int32((totalCount + int64(pageSize) - 1) / int64(pageSize))
	return PaginatedResult[T]{
		Items:       items,
		TotalCount:  totalCount,
		CurrentPage: currentPage,
		TotalPages:  totalPages,
		PageSize:    pageSize,
		HasNext:     currentPage < totalPages,
	}
}
`)
	return []byte(b.String())
}
