package codegen

import (
	"fmt"
	"strings"

	"godbi/schema"
)

// Method signature priorities for lookup deduplication. When several key
// descriptors cover the same column tuple, the lowest priority wins.
const (
	priorityPrimaryKey     = 1
	priorityUniqueIndex    = 2
	priorityNonUniqueIndex = 3
	priorityForeignKey     = 4
)

type methodSignature struct {
	Columns    []string
	MethodName string
	Priority   int
	IsUnique   bool
	Source     string
}

func newMethodSignature(columns []string, priority int, isUnique bool, source string) methodSignature {
	return methodSignature{
		Columns:    columns,
		MethodName: findByMethodName(columns),
		Priority:   priority,
		IsUnique:   isUnique,
		Source:     source,
	}
}

// collectMethodSignatures gathers lookup candidates from the primary key,
// indexes, and single-column foreign keys, keeping only the lowest-priority
// descriptor per exact column tuple. Order of first appearance is preserved
// so generation is deterministic.
func collectMethodSignatures(table schema.Table) []methodSignature {
	var order []string
	byKey := make(map[string]methodSignature)

	add := func(sig methodSignature) {
		key := strings.Join(sig.Columns, "\x00")
		existing, ok := byKey[key]
		if !ok {
			order = append(order, key)
			byKey[key] = sig
			return
		}
		if sig.Priority < existing.Priority {
			byKey[key] = sig
		}
	}

	if table.PrimaryKey != nil {
		add(newMethodSignature(table.PrimaryKey.Columns, priorityPrimaryKey, true, "PRIMARY_KEY"))
	}
	for _, idx := range table.Indexes {
		if idx.Unique {
			add(newMethodSignature(idx.Columns, priorityUniqueIndex, true, "UNIQUE_INDEX"))
		} else {
			add(newMethodSignature(idx.Columns, priorityNonUniqueIndex, false, "NON_UNIQUE_INDEX"))
		}
	}
	for _, fk := range table.ForeignKeys {
		add(newMethodSignature([]string{fk.ColumnName}, priorityForeignKey, false, "FOREIGN_KEY"))
	}

	out := make([]methodSignature, 0, len(order))
	for _, key := range order {
		out = append(out, byKey[key])
	}
	return out
}

// daoGen renders the DAO file for one table.
type daoGen struct {
	table      schema.Table
	entity     string
	modelsPkg  string
	selectCols string

	needsStrings bool
}

// generateDAOFile renders the per-table DAO functions.
func generateDAOFile(table schema.Table, cfg Config) []byte {
	g := &daoGen{
		table:      table,
		entity:     structName(table.Name),
		modelsPkg:  cfg.ModelsPackage(),
		selectCols: selectColumns(table),
	}

	var body strings.Builder
	g.writeFindAll(&body)
	g.writeCountAll(&body)
	if table.PrimaryKey != nil {
		g.writePrimaryKeyMethods(&body)
	}
	g.writeInsertMethods(&body)
	g.writeUpsert(&body)
	if table.PrimaryKey != nil {
		g.writeUpdateMethods(&body)
	}
	for _, sig := range collectMethodSignatures(table) {
		if sig.Source == "PRIMARY_KEY" {
			// Already emitted as the find-by-primary-key method.
			continue
		}
		g.writeFindBy(&body, sig)
	}
	g.writeFindByListMethods(&body)
	g.writeCompositeEnumListMethods(&body)
	g.writePagination(&body)

	var b strings.Builder
	b.WriteString(generatedHeader)
	fmt.Fprintf(&b, "package %s\n\n", cfg.DAOPackage())
	g.writeImports(&b, cfg)
	b.WriteString(body.String())
	return []byte(b.String())
}

func (g *daoGen) writeImports(b *strings.Builder, cfg Config) {
	var needsTime, needsDecimal, needsJSON bool
	for _, col := range g.table.Columns {
		t := resolveType(col, g.table.Name)
		needsTime = needsTime || t.NeedsTime()
		needsDecimal = needsDecimal || t.NeedsDecimal()
		needsJSON = needsJSON || t.NeedsJSON()
	}

	b.WriteString("import (\n")
	b.WriteString("\t\"context\"\n")
	if needsJSON {
		b.WriteString("\t\"encoding/json\"\n")
	}
	b.WriteString("\t\"fmt\"\n")
	if g.needsStrings {
		b.WriteString("\t\"strings\"\n")
	}
	if needsTime {
		b.WriteString("\t\"time\"\n")
	}
	b.WriteString("\n")
	if needsDecimal {
		b.WriteString("\t\"github.com/shopspring/decimal\"\n\n")
	}
	b.WriteString("\t\"godbi\"\n")
	fmt.Fprintf(b, "\t%q\n", cfg.ModelsModule)
	b.WriteString(")\n\n")
}

func selectColumns(table schema.Table) string {
	quoted := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		quoted[i] = "`" + c.Name + "`"
	}
	return strings.Join(quoted, ", ")
}

func whereClause(columns []string) string {
	conds := make([]string, len(columns))
	for i, c := range columns {
		conds[i] = "`" + c + "` = ?"
	}
	return strings.Join(conds, " AND ")
}

// entityRef renders the qualified entity type, e.g. "models.Users".
func (g *daoGen) entityRef() string {
	return g.modelsPkg + "." + g.entity
}

// paramType renders the Go type of a plain parameter, qualifying enum types
// with the models package.
func (g *daoGen) paramType(t NativeType) string {
	if t.Kind == TypeEnum {
		name := g.modelsPkg + "." + t.EnumName
		if t.Optional {
			return "*" + name
		}
		return name
	}
	return t.GoType()
}

// paramList renders "name type" pairs for the given columns.
func (g *daoGen) paramList(columns []string) string {
	parts := make([]string, len(columns))
	for i, c := range columns {
		col := g.table.Column(c)
		t := resolveType(*col, g.table.Name)
		parts[i] = paramName(c) + " " + g.paramType(t)
	}
	return strings.Join(parts, ", ")
}

// bindCalls renders chained .Bind(...) calls for the given columns.
func (g *daoGen) bindCalls(columns []string) string {
	var b strings.Builder
	for _, c := range columns {
		col := g.table.Column(c)
		t := resolveType(*col, g.table.Name)
		fmt.Fprintf(&b, ".\n\t\tBind(%s)", valueExpr(t, paramName(c), g.modelsPkg+"."))
	}
	return b.String()
}

// derefValueExpr renders the Value expression for a nullable parameter known
// to be present at that point in the generated code.
func (g *daoGen) derefValueExpr(t NativeType, name string) string {
	inner := t.Inner()
	switch inner.Kind {
	case TypeEnum:
		// Value-receiver method, auto-dereferenced.
		return name + ".ToValue()"
	case TypeBytes:
		return "godbi.Bytes(" + name + ")"
	case TypeJSON:
		return "godbi.JSON(" + name + ")"
	}
	return fmt.Sprintf("%s(*%s)", inner.valueCtor(), name)
}

// nilCheck renders the is-present test for a nullable parameter.
func nilCheck(name string) string {
	return name + " != nil"
}

func (g *daoGen) writeFindAll(b *strings.Builder) {
	fmt.Fprintf(b, "// %sFindAll returns every row from `%s`.\n", g.entity, g.table.Name)
	fmt.Fprintf(b, "func %sFindAll(ctx context.Context, ex godbi.Executor) ([]%s, error) {\n", g.entity, g.entityRef())
	fmt.Fprintf(b, "\treturn godbi.FetchAll[%s](ctx, ex, godbi.NewQuery(\"SELECT %s FROM `%s`\"))\n",
		g.entityRef(), g.selectCols, g.table.Name)
	b.WriteString("}\n\n")
}

func (g *daoGen) writeCountAll(b *strings.Builder) {
	fmt.Fprintf(b, "// %sCountAll counts the rows of `%s`.\n", g.entity, g.table.Name)
	fmt.Fprintf(b, "func %sCountAll(ctx context.Context, ex godbi.Executor) (int64, error) {\n", g.entity)
	fmt.Fprintf(b, "\treturn godbi.FetchScalar[int64](ctx, ex, godbi.NewQuery(\"SELECT COUNT(*) FROM `%s`\"))\n", g.table.Name)
	b.WriteString("}\n\n")
}

func (g *daoGen) writePrimaryKeyMethods(b *strings.Builder) {
	pk := g.table.PrimaryKey

	findName := g.entity + findByMethodName(pk.Columns)
	fmt.Fprintf(b, "// %s looks up one row by primary key.\n", findName)
	fmt.Fprintf(b, "func %s(ctx context.Context, ex godbi.Executor, %s) (*%s, error) {\n",
		findName, g.paramList(pk.Columns), g.entityRef())
	fmt.Fprintf(b, "\treturn godbi.FetchOptional[%s](ctx, ex, godbi.NewQuery(\"SELECT %s FROM `%s` WHERE %s\")%s)\n",
		g.entityRef(), g.selectCols, g.table.Name, whereClause(pk.Columns), g.bindCalls(pk.Columns))
	b.WriteString("}\n\n")

	deleteName := g.entity + deleteByMethodName(pk.Columns)
	fmt.Fprintf(b, "// %s deletes by primary key and reports the affected-row count.\n", deleteName)
	fmt.Fprintf(b, "func %s(ctx context.Context, ex godbi.Executor, %s) (int64, error) {\n",
		deleteName, g.paramList(pk.Columns))
	fmt.Fprintf(b, "\tres, err := godbi.NewQuery(\"DELETE FROM `%s` WHERE %s\")%s.\n\t\tExecute(ctx, ex)\n",
		g.table.Name, whereClause(pk.Columns), g.bindCalls(pk.Columns))
	b.WriteString("\tif err != nil {\n\t\treturn 0, err\n\t}\n\treturn res.RowsAffected, nil\n}\n\n")
}

func (g *daoGen) insertColumns() []schema.Column {
	cols := make([]schema.Column, 0, len(g.table.Columns))
	for _, c := range g.table.Columns {
		if !c.AutoIncrement {
			cols = append(cols, c)
		}
	}
	return cols
}

func (g *daoGen) writeInsertMethods(b *strings.Builder) {
	insertCols := g.insertColumns()
	if len(insertCols) == 0 {
		return
	}

	quoted := make([]string, len(insertCols))
	names := make([]string, len(insertCols))
	for i, c := range insertCols {
		quoted[i] = "`" + c.Name + "`"
		names[i] = c.Name
	}
	columnList := strings.Join(quoted, ", ")
	insertSQL := fmt.Sprintf("INSERT INTO `%s` (%s) VALUES (%s)",
		g.table.Name, columnList, placeholders(len(insertCols)))

	fmt.Fprintf(b, "// %sInsert inserts one row and returns the server-assigned id\n", g.entity)
	fmt.Fprintf(b, "// (0 when the table has no AUTO_INCREMENT column).\n")
	fmt.Fprintf(b, "func %sInsert(ctx context.Context, ex godbi.Executor, entity *%s) (int64, error) {\n",
		g.entity, g.entityRef())
	fmt.Fprintf(b, "\tres, err := godbi.NewQuery(%q).\n\t\tBindAll(entity.InsertValues()...).\n\t\tExecute(ctx, ex)\n", insertSQL)
	b.WriteString("\tif err != nil {\n\t\treturn 0, err\n\t}\n\treturn res.LastInsertID, nil\n}\n\n")

	fmt.Fprintf(b, "// %sInsertPlain inserts one row from individual column values.\n", g.entity)
	fmt.Fprintf(b, "func %sInsertPlain(ctx context.Context, ex godbi.Executor, %s) (int64, error) {\n",
		g.entity, g.paramList(names))
	fmt.Fprintf(b, "\tres, err := godbi.NewQuery(%q)%s.\n\t\tExecute(ctx, ex)\n", insertSQL, g.bindCalls(names))
	b.WriteString("\tif err != nil {\n\t\treturn 0, err\n\t}\n\treturn res.LastInsertID, nil\n}\n\n")

	fmt.Fprintf(b, "// %sInsertAll inserts entities as a single multi-row statement.\n", g.entity)
	fmt.Fprintf(b, "func %sInsertAll(ctx context.Context, ex godbi.Executor, entities []%s) (int64, error) {\n",
		g.entity, g.entityRef())
	fmt.Fprintf(b, "\tres, err := godbi.BatchInsert(ctx, ex, %q, entities)\n", g.table.Name)
	b.WriteString("\tif err != nil {\n\t\treturn 0, err\n\t}\n\treturn res.RowsAffected, nil\n}\n\n")
}

func (g *daoGen) writeUpsert(b *strings.Builder) {
	if g.table.PrimaryKey == nil && !g.table.HasUniqueIndex() {
		return
	}
	insertCols := g.insertColumns()
	if len(insertCols) == 0 {
		return
	}

	updateCols := make([]schema.Column, 0, len(insertCols))
	for _, c := range insertCols {
		if !g.table.IsPrimaryKeyColumn(c.Name) {
			updateCols = append(updateCols, c)
		}
	}
	if len(updateCols) == 0 {
		return
	}

	quoted := make([]string, len(insertCols))
	for i, c := range insertCols {
		quoted[i] = "`" + c.Name + "`"
	}
	updates := make([]string, len(updateCols))
	for i, c := range updateCols {
		updates[i] = fmt.Sprintf("`%s` = VALUES(`%s`)", c.Name, c.Name)
	}

	sql := fmt.Sprintf("INSERT INTO `%s` (%s) VALUES (%s) ON DUPLICATE KEY UPDATE %s",
		g.table.Name, strings.Join(quoted, ", "), placeholders(len(insertCols)), strings.Join(updates, ", "))

	fmt.Fprintf(b, "// %sUpsert inserts or updates on duplicate key. The affected-row\n", g.entity)
	fmt.Fprintf(b, "// count is 1 for an insert and 2 for an update, per MySQL convention.\n")
	fmt.Fprintf(b, "func %sUpsert(ctx context.Context, ex godbi.Executor, entity *%s) (int64, error) {\n",
		g.entity, g.entityRef())
	fmt.Fprintf(b, "\tres, err := godbi.NewQuery(%q).\n\t\tBindAll(entity.InsertValues()...).\n\t\tExecute(ctx, ex)\n", sql)
	b.WriteString("\tif err != nil {\n\t\treturn 0, err\n\t}\n\treturn res.RowsAffected, nil\n}\n\n")
}

func (g *daoGen) writeUpdateMethods(b *strings.Builder) {
	pk := g.table.PrimaryKey

	var updateCols []schema.Column
	for _, c := range g.table.Columns {
		if !g.table.IsPrimaryKeyColumn(c.Name) {
			updateCols = append(updateCols, c)
		}
	}
	if len(updateCols) == 0 {
		return
	}

	sets := make([]string, len(updateCols))
	updateNames := make([]string, len(updateCols))
	for i, c := range updateCols {
		sets[i] = fmt.Sprintf("`%s` = ?", c.Name)
		updateNames[i] = c.Name
	}
	sql := fmt.Sprintf("UPDATE `%s` SET %s WHERE %s",
		g.table.Name, strings.Join(sets, ", "), whereClause(pk.Columns))

	// Entity form: bind non-key values first, then the key, matching the
	// SET/WHERE order.
	fmt.Fprintf(b, "// %sUpdate updates every non-key column of the row identified by the\n", g.entity)
	fmt.Fprintf(b, "// entity's primary key.\n")
	fmt.Fprintf(b, "func %sUpdate(ctx context.Context, ex godbi.Executor, entity *%s) (int64, error) {\n",
		g.entity, g.entityRef())
	fmt.Fprintf(b, "\tres, err := godbi.NewQuery(%q)", sql)
	for _, c := range updateCols {
		t := resolveType(c, g.table.Name)
		fmt.Fprintf(b, ".\n\t\tBind(%s)", valueExpr(t, "entity."+pascalCase(c.Name), g.modelsPkg+"."))
	}
	for _, name := range pk.Columns {
		col := g.table.Column(name)
		t := resolveType(*col, g.table.Name)
		fmt.Fprintf(b, ".\n\t\tBind(%s)", valueExpr(t, "entity."+pascalCase(name), g.modelsPkg+"."))
	}
	b.WriteString(".\n\t\tExecute(ctx, ex)\n")
	b.WriteString("\tif err != nil {\n\t\treturn 0, err\n\t}\n\treturn res.RowsAffected, nil\n}\n\n")

	// Plain form: key parameters first in the signature, non-key values
	// bound first.
	updateName := g.entity + updateByMethodName(pk.Columns)
	fmt.Fprintf(b, "// %s updates every non-key column from individual values.\n", updateName)
	fmt.Fprintf(b, "func %s(ctx context.Context, ex godbi.Executor, %s, %s) (int64, error) {\n",
		updateName, g.paramList(pk.Columns), g.paramList(updateNames))
	fmt.Fprintf(b, "\tres, err := godbi.NewQuery(%q)%s%s.\n\t\tExecute(ctx, ex)\n",
		sql, g.bindCalls(updateNames), g.bindCalls(pk.Columns))
	b.WriteString("\tif err != nil {\n\t\treturn 0, err\n\t}\n\treturn res.RowsAffected, nil\n}\n\n")
}

func (g *daoGen) writeFindBy(b *strings.Builder, sig methodSignature) {
	hasNullable := false
	for _, c := range sig.Columns {
		if col := g.table.Column(c); col != nil && col.Nullable {
			hasNullable = true
		}
	}

	methodName := g.entity + sig.MethodName
	sourceDesc := strings.ToLower(strings.ReplaceAll(sig.Source, "_", " "))

	returnType := "[]" + g.entityRef()
	fetch := "FetchAll"
	if sig.IsUnique {
		returnType = "*" + g.entityRef()
		fetch = "FetchOptional"
	}

	if !hasNullable {
		fmt.Fprintf(b, "// %s finds rows by %s.\n", methodName, sourceDesc)
		fmt.Fprintf(b, "func %s(ctx context.Context, ex godbi.Executor, %s) (%s, error) {\n",
			methodName, g.paramList(sig.Columns), returnType)
		fmt.Fprintf(b, "\treturn godbi.%s[%s](ctx, ex, godbi.NewQuery(\"SELECT %s FROM `%s` WHERE %s\")%s)\n",
			fetch, g.entityRef(), g.selectCols, g.table.Name, whereClause(sig.Columns), g.bindCalls(sig.Columns))
		b.WriteString("}\n\n")
		return
	}

	// Nullable predicates cannot use a static placeholder: `= NULL` never
	// matches, so absent values render as IS NULL with no bind.
	g.needsStrings = true
	fmt.Fprintf(b, "// %s finds rows by %s. Nil predicate values match SQL NULL.\n", methodName, sourceDesc)
	fmt.Fprintf(b, "func %s(ctx context.Context, ex godbi.Executor, %s) (%s, error) {\n",
		methodName, g.paramList(sig.Columns), returnType)
	fmt.Fprintf(b, "\tconds := make([]string, 0, %d)\n", len(sig.Columns))
	fmt.Fprintf(b, "\tparams := make([]godbi.Value, 0, %d)\n", len(sig.Columns))
	for _, c := range sig.Columns {
		col := g.table.Column(c)
		t := resolveType(*col, g.table.Name)
		name := paramName(c)
		if col.Nullable {
			fmt.Fprintf(b, "\tif %s {\n", nilCheck(name))
			fmt.Fprintf(b, "\t\tconds = append(conds, \"`%s` = ?\")\n", c)
			fmt.Fprintf(b, "\t\tparams = append(params, %s)\n", g.derefValueExpr(t, name))
			fmt.Fprintf(b, "\t} else {\n\t\tconds = append(conds, \"`%s` IS NULL\")\n\t}\n", c)
		} else {
			fmt.Fprintf(b, "\tconds = append(conds, \"`%s` = ?\")\n", c)
			fmt.Fprintf(b, "\tparams = append(params, %s)\n", valueExpr(t, name, g.modelsPkg+"."))
		}
	}
	fmt.Fprintf(b, "\tquery := fmt.Sprintf(\"SELECT %s FROM `%s` WHERE %%s\", strings.Join(conds, \" AND \"))\n",
		g.selectCols, g.table.Name)
	fmt.Fprintf(b, "\treturn godbi.%s[%s](ctx, ex, godbi.NewQuery(query).BindAll(params...))\n",
		fetch, g.entityRef())
	b.WriteString("}\n\n")
}

func (g *daoGen) writeFindByListMethods(b *strings.Builder) {
	processed := make(map[string]bool)

	if pk := g.table.PrimaryKey; pk != nil && len(pk.Columns) == 1 {
		g.writeFindByList(b, pk.Columns[0])
		processed[pk.Columns[0]] = true
	}
	for _, idx := range g.table.Indexes {
		if len(idx.Columns) != 1 {
			continue
		}
		col := idx.Columns[0]
		if processed[col] {
			continue
		}
		g.writeFindByList(b, col)
		processed[col] = true
	}
}

func (g *daoGen) writeFindByList(b *strings.Builder, columnName string) {
	col := g.table.Column(columnName)
	if col == nil {
		return
	}
	t := resolveType(*col, g.table.Name).Inner()

	methodName := g.entity + findByListMethodName(columnName)
	pname := paramName(pluralize(snakeCase(columnName)))
	elemType := g.paramType(t)

	fmt.Fprintf(b, "// %s finds rows whose `%s` is in %s. An empty slice\n", methodName, columnName, pname)
	fmt.Fprintf(b, "// returns an empty result without executing SQL.\n")
	fmt.Fprintf(b, "func %s(ctx context.Context, ex godbi.Executor, %s []%s) ([]%s, error) {\n",
		methodName, pname, elemType, g.entityRef())
	fmt.Fprintf(b, "\tif len(%s) == 0 {\n\t\treturn []%s{}, nil\n\t}\n", pname, g.entityRef())
	fmt.Fprintf(b, "\tparams := make([]godbi.Value, len(%s))\n", pname)
	fmt.Fprintf(b, "\tfor i, v := range %s {\n\t\tparams[i] = %s\n\t}\n", pname, valueExpr(t, "v", g.modelsPkg+"."))
	fmt.Fprintf(b, "\tquery := fmt.Sprintf(\"SELECT %s FROM `%s` WHERE `%s` IN (%%s)\", godbi.Placeholders(len(%s)))\n",
		g.selectCols, g.table.Name, columnName, pname)
	fmt.Fprintf(b, "\treturn godbi.FetchAll[%s](ctx, ex, godbi.NewQuery(query).BindAll(params...))\n", g.entityRef())
	b.WriteString("}\n\n")
}

func (g *daoGen) writeCompositeEnumListMethods(b *strings.Builder) {
	for _, idx := range g.table.Indexes {
		if len(idx.Columns) <= 1 {
			continue
		}

		enumCols := make(map[string]bool)
		for _, c := range idx.Columns {
			if col := g.table.Column(c); col != nil && col.IsEnum() {
				enumCols[c] = true
			}
		}
		if len(enumCols) == 0 {
			continue
		}
		// An enum-led index keeps its leading-column equality finder;
		// turning the leading column into an IN list would defeat it.
		if enumCols[idx.Columns[0]] {
			continue
		}

		g.writeCompositeEnumList(b, idx.Columns, enumCols)
	}
}

func (g *daoGen) writeCompositeEnumList(b *strings.Builder, columns []string, enumCols map[string]bool) {
	g.needsStrings = true

	nameParts := make([]string, len(columns))
	for i, c := range columns {
		if enumCols[c] {
			nameParts[i] = pluralize(snakeCase(c))
		} else {
			nameParts[i] = c
		}
	}
	methodName := g.entity + findByMethodName(nameParts)

	// Scalar parameters come before slice parameters.
	var params []string
	var scalars, slices []string
	for _, c := range columns {
		if !enumCols[c] {
			scalars = append(scalars, c)
		}
	}
	for _, c := range columns {
		if enumCols[c] {
			slices = append(slices, c)
		}
	}
	for _, c := range scalars {
		col := g.table.Column(c)
		t := resolveType(*col, g.table.Name)
		params = append(params, paramName(c)+" "+g.paramType(t))
	}
	for _, c := range slices {
		col := g.table.Column(c)
		t := resolveType(*col, g.table.Name).Inner()
		params = append(params, paramName(pluralize(snakeCase(c)))+" []"+g.paramType(t))
	}

	fmt.Fprintf(b, "// %s finds rows over a composite index; enum columns accept\n", methodName)
	fmt.Fprintf(b, "// value lists and an empty list returns an empty result without executing SQL.\n")
	fmt.Fprintf(b, "func %s(ctx context.Context, ex godbi.Executor, %s) ([]%s, error) {\n",
		methodName, strings.Join(params, ", "), g.entityRef())

	for _, c := range slices {
		pname := paramName(pluralize(snakeCase(c)))
		fmt.Fprintf(b, "\tif len(%s) == 0 {\n\t\treturn []%s{}, nil\n\t}\n", pname, g.entityRef())
	}

	fmt.Fprintf(b, "\tconds := make([]string, 0, %d)\n", len(columns))
	fmt.Fprintf(b, "\tparams := make([]godbi.Value, 0, %d)\n", len(columns))
	// WHERE keeps the index column order.
	for _, c := range columns {
		if enumCols[c] {
			pname := paramName(pluralize(snakeCase(c)))
			fmt.Fprintf(b, "\tconds = append(conds, fmt.Sprintf(\"`%s` IN (%%s)\", godbi.Placeholders(len(%s))))\n", c, pname)
		} else {
			fmt.Fprintf(b, "\tconds = append(conds, \"`%s` = ?\")\n", c)
		}
	}
	// Bind scalars first, then slices.
	for _, c := range scalars {
		col := g.table.Column(c)
		t := resolveType(*col, g.table.Name)
		fmt.Fprintf(b, "\tparams = append(params, %s)\n", valueExpr(t, paramName(c), g.modelsPkg+"."))
	}
	for _, c := range slices {
		col := g.table.Column(c)
		t := resolveType(*col, g.table.Name).Inner()
		pname := paramName(pluralize(snakeCase(c)))
		fmt.Fprintf(b, "\tfor _, v := range %s {\n\t\tparams = append(params, %s)\n\t}\n",
			pname, valueExpr(t, "v", g.modelsPkg+"."))
	}

	fmt.Fprintf(b, "\tquery := fmt.Sprintf(\"SELECT %s FROM `%s` WHERE %%s\", strings.Join(conds, \" AND \"))\n",
		g.selectCols, g.table.Name)
	fmt.Fprintf(b, "\treturn godbi.FetchAll[%s](ctx, ex, godbi.NewQuery(query).BindAll(params...))\n", g.entityRef())
	b.WriteString("}\n\n")
}

func (g *daoGen) writePagination(b *strings.Builder) {
	sortBy := g.modelsPkg + "." + g.entity + "SortBy"
	sortDir := g.modelsPkg + ".SortDirection"
	pageResult := fmt.Sprintf("%s.PaginatedResult[%s]", g.modelsPkg, g.entityRef())

	fmt.Fprintf(b, "// %sFindAllPaginated returns one page of rows in the given order.\n", g.entity)
	fmt.Fprintf(b, "func %sFindAllPaginated(ctx context.Context, ex godbi.Executor, limit, offset int32, sortBy %s, sortDir %s) ([]%s, error) {\n",
		g.entity, sortBy, sortDir, g.entityRef())
	fmt.Fprintf(b, "\tquery := fmt.Sprintf(\"SELECT %s FROM `%s` ORDER BY %%s %%s LIMIT ? OFFSET ?\", sortBy.AsSQL(), sortDir.AsSQL())\n",
		g.selectCols, g.table.Name)
	fmt.Fprintf(b, "\treturn godbi.FetchAll[%s](ctx, ex, godbi.NewQuery(query).\n\t\tBind(godbi.I32(limit)).\n\t\tBind(godbi.I32(offset)))\n",
		g.entityRef())
	b.WriteString("}\n\n")

	fmt.Fprintf(b, "// %sGetPaginatedResult loads one page together with result totals.\n", g.entity)
	fmt.Fprintf(b, "// pageSize and currentPage are clamped to at least 1.\n")
	fmt.Fprintf(b, "func %sGetPaginatedResult(ctx context.Context, ex godbi.Executor, pageSize, currentPage int32, sortBy %s, sortDir %s) (%s, error) {\n",
		g.entity, sortBy, sortDir, pageResult)
	b.WriteString("\tif pageSize < 1 {\n\t\tpageSize = 1\n\t}\n")
	b.WriteString("\tif currentPage < 1 {\n\t\tcurrentPage = 1\n\t}\n")
	b.WriteString("\toffset := (currentPage - 1) * pageSize\n\n")
	fmt.Fprintf(b, "\ttotalCount, err := %sCountAll(ctx, ex)\n", g.entity)
	fmt.Fprintf(b, "\tif err != nil {\n\t\treturn %s{}, err\n\t}\n", pageResult)
	fmt.Fprintf(b, "\titems, err := %sFindAllPaginated(ctx, ex, pageSize, offset, sortBy, sortDir)\n", g.entity)
	fmt.Fprintf(b, "\tif err != nil {\n\t\treturn %s{}, err\n\t}\n", pageResult)
	fmt.Fprintf(b, "\treturn %s.NewPaginatedResult(items, totalCount, currentPage, pageSize), nil\n", g.modelsPkg)
	b.WriteString("}\n\n")
}

func placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "?"
	}
	return strings.Join(parts, ", ")
}
