package godbi

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Config carries pool construction options. Zero fields keep the driver
// defaults.
type Config struct {
	// URL is the mysql:// connection URL (required).
	URL string

	// MinConnections is passed to SetMaxIdleConns: it caps how many idle
	// connections are kept for reuse. No connections are opened in advance.
	MinConnections int

	// MaxConnections caps the number of open connections.
	MaxConnections int

	// InactiveConnTTL closes connections idle for longer than this.
	InactiveConnTTL time.Duration

	// AbsConnTTL closes connections older than this regardless of use.
	AbsConnTTL time.Duration
}

// Pool is a MySQL connection pool implementing Executor. A *Pool handle is
// cheap to share: all users of one handle share the underlying connection
// set, and every method is safe for concurrent use.
type Pool struct {
	db *sql.DB
}

// NewPool opens a pool for the given mysql:// connection URL.
func NewPool(url string) (*Pool, error) {
	return NewPoolWithConfig(Config{URL: url})
}

// NewPoolWithConfig opens a pool with explicit sizing and lifetime options.
func NewPoolWithConfig(cfg Config) (*Pool, error) {
	dsn, err := ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, &ConnectionError{Message: err.Error()}
	}
	if cfg.MaxConnections > 0 {
		db.SetMaxOpenConns(cfg.MaxConnections)
	}
	if cfg.MinConnections > 0 {
		db.SetMaxIdleConns(cfg.MinConnections)
	}
	if cfg.InactiveConnTTL > 0 {
		db.SetConnMaxIdleTime(cfg.InactiveConnTTL)
	}
	if cfg.AbsConnTTL > 0 {
		db.SetConnMaxLifetime(cfg.AbsConnTTL)
	}
	return &Pool{db: db}, nil
}

// DB exposes the underlying database handle.
func (p *Pool) DB() *sql.DB { return p.db }

// Ping verifies the server is reachable.
func (p *Pool) Ping(ctx context.Context) error {
	if err := p.db.PingContext(ctx); err != nil {
		return &ConnectionError{Message: err.Error()}
	}
	return nil
}

// Close releases the pool's connections.
func (p *Pool) Close() error {
	return p.db.Close()
}

// sqlConn is the surface shared by *sql.DB and *sql.Tx that statement
// execution needs.
type sqlConn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func execStatement(ctx context.Context, conn sqlConn, query string, params []Value) (ExecResult, error) {
	res, err := conn.ExecContext(ctx, query, driverArgs(params)...)
	if err != nil {
		return ExecResult{}, fmt.Errorf("mysql: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return ExecResult{}, fmt.Errorf("mysql: %w", err)
	}
	// LastInsertId is driver-defined for statements without an
	// AUTO_INCREMENT assignment; treat failures as "no id".
	lastID, err := res.LastInsertId()
	if err != nil {
		lastID = 0
	}
	return ExecResult{RowsAffected: affected, LastInsertID: lastID}, nil
}

func queryStatement(ctx context.Context, conn sqlConn, query string, params []Value) ([]Row, error) {
	rows, err := conn.QueryContext(ctx, query, driverArgs(params)...)
	if err != nil {
		return nil, fmt.Errorf("mysql: %w", err)
	}
	return collectRows(rows)
}

func scalarStatement(ctx context.Context, conn sqlConn, query string, params []Value) (Value, error) {
	rows, err := queryStatement(ctx, conn, query, params)
	if err != nil {
		return Value{}, err
	}
	if len(rows) == 0 {
		return Value{}, queryErr("expected one row, found none")
	}
	first, ok := rows[0].(*mapRow)
	if !ok {
		return Value{}, queryErr("expected at least one column")
	}
	v, ok := first.valueAt(0)
	if !ok {
		return Value{}, queryErr("expected at least one column")
	}
	return v, nil
}

// Execute implements Executor.
func (p *Pool) Execute(ctx context.Context, query string, params []Value) (ExecResult, error) {
	return execStatement(ctx, p.db, query, params)
}

// QueryRows implements Executor.
func (p *Pool) QueryRows(ctx context.Context, query string, params []Value) ([]Row, error) {
	return queryStatement(ctx, p.db, query, params)
}

// QueryScalar implements Executor.
func (p *Pool) QueryScalar(ctx context.Context, query string, params []Value) (Value, error) {
	return scalarStatement(ctx, p.db, query, params)
}
