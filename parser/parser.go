// Package parser provides the schema-dump parsing entry point. Currently
// only the MySQL dialect is supported.
package parser

import (
	"godbi/parser/mysql"
	"godbi/schema"
)

// SQLParser is a facade that delegates to dialect-specific parsers.
type SQLParser struct {
	mysqlParser *mysql.Parser
}

// NewSQLParser creates a new SQL parser. Currently defaults to MySQL.
func NewSQLParser() *SQLParser {
	return &SQLParser{
		mysqlParser: mysql.NewParser(),
	}
}

// ParseSchema parses a SQL schema dump into table metadata.
func (p *SQLParser) ParseSchema(sql string) ([]schema.Table, error) {
	return p.mysqlParser.Parse(sql)
}
