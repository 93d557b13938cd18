// Package schema contains the normalized representation of a parsed MySQL
// schema: tables, columns, indexes, and key constraints. It is the single
// source of truth the code generator operates on; parsers for concrete DDL
// dialects produce it.
package schema

// Table represents one CREATE TABLE statement.
type Table struct {
	Name        string
	Comment     string
	Columns     []Column
	Indexes     []Index
	ForeignKeys []ForeignKey
	PrimaryKey  *PrimaryKey
}

// Column represents a table column.
type Column struct {
	// Name is the column identifier.
	Name string
	// DataType is the raw declared type string, e.g. "bigint(20) unsigned".
	DataType string
	// Nullable reports whether the column accepts NULL.
	Nullable bool
	// Default is the default value expression, if declared.
	Default *string
	// AutoIncrement reports AUTO_INCREMENT columns.
	AutoIncrement bool
	// Unsigned reports unsigned numeric columns.
	Unsigned bool
	// EnumValues holds the literal values of an ENUM column, in declaration
	// order. It is non-empty iff the column is an ENUM.
	EnumValues []string
	// Comment is the column comment, if declared.
	Comment string
}

// IsEnum reports whether the column is an ENUM.
func (c Column) IsEnum() bool {
	return len(c.EnumValues) > 0
}

// Index represents a secondary index. Column order is the index order.
type Index struct {
	Name    string
	Columns []string
	Unique  bool
}

// PrimaryKey represents a table's primary key. Column order is the key
// order. Every member column is non-nullable regardless of its declared
// nullability.
type PrimaryKey struct {
	Columns []string
}

// IsComposite reports whether the key spans more than one column.
func (pk PrimaryKey) IsComposite() bool {
	return len(pk.Columns) > 1
}

// ForeignKey represents one column of a foreign key constraint.
type ForeignKey struct {
	ColumnName       string
	ReferencedTable  string
	ReferencedColumn string
}

// Column returns the named column, or nil.
func (t *Table) Column(name string) *Column {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// IsPrimaryKeyColumn reports whether the named column is part of the
// primary key.
func (t *Table) IsPrimaryKeyColumn(name string) bool {
	if t.PrimaryKey == nil {
		return false
	}
	for _, c := range t.PrimaryKey.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// SingleColumnIndexes returns the columns covered by single-column indexes.
func (t *Table) SingleColumnIndexes() []string {
	var cols []string
	for _, idx := range t.Indexes {
		if len(idx.Columns) == 1 {
			cols = append(cols, idx.Columns[0])
		}
	}
	return cols
}

// HasUniqueIndex reports whether any secondary index is unique.
func (t *Table) HasUniqueIndex() bool {
	for _, idx := range t.Indexes {
		if idx.Unique {
			return true
		}
	}
	return false
}
