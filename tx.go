package godbi

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// IsolationLevel selects the transaction isolation level.
type IsolationLevel int

const (
	LevelReadUncommitted IsolationLevel = iota
	LevelReadCommitted
	LevelRepeatableRead
	LevelSerializable
)

// DefaultIsolation is the level used by Begin and InTransaction.
const DefaultIsolation = LevelSerializable

func (l IsolationLevel) String() string {
	switch l {
	case LevelReadUncommitted:
		return "READ UNCOMMITTED"
	case LevelReadCommitted:
		return "READ COMMITTED"
	case LevelRepeatableRead:
		return "REPEATABLE READ"
	case LevelSerializable:
		return "SERIALIZABLE"
	}
	return "UNKNOWN"
}

func (l IsolationLevel) sqlLevel() sql.IsolationLevel {
	switch l {
	case LevelReadUncommitted:
		return sql.LevelReadUncommitted
	case LevelReadCommitted:
		return sql.LevelReadCommitted
	case LevelRepeatableRead:
		return sql.LevelRepeatableRead
	default:
		return sql.LevelSerializable
	}
}

// Tx is a MySQL transaction. It implements Executor, so every generated DAO
// function accepts a transaction wherever it accepts a pool.
//
// The inner driver transaction lives in a single-slot cell under a mutex:
// Commit and Rollback consume the cell, and any operation afterwards fails
// with a "transaction already consumed" QueryError. A transaction pins one
// connection for its whole scope and is meant for use by one goroutine at a
// time; the mutex guards against accidental concurrent use.
type Tx struct {
	mu    sync.Mutex
	inner *sql.Tx
}

func (t *Tx) take() (*sql.Tx, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.inner == nil {
		return nil, queryErr("transaction already consumed")
	}
	tx := t.inner
	t.inner = nil
	return tx, nil
}

func (t *Tx) use(fn func(tx *sql.Tx) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.inner == nil {
		return queryErr("transaction already consumed")
	}
	return fn(t.inner)
}

// Commit makes the transaction's changes permanent and consumes the handle.
func (t *Tx) Commit() error {
	tx, err := t.take()
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("mysql: %w", err)
	}
	return nil
}

// Rollback discards the transaction's changes and consumes the handle.
func (t *Tx) Rollback() error {
	tx, err := t.take()
	if err != nil {
		return err
	}
	if err := tx.Rollback(); err != nil {
		return fmt.Errorf("mysql: %w", err)
	}
	return nil
}

// Execute implements Executor.
func (t *Tx) Execute(ctx context.Context, query string, params []Value) (ExecResult, error) {
	var res ExecResult
	err := t.use(func(tx *sql.Tx) error {
		var err error
		res, err = execStatement(ctx, tx, query, params)
		return err
	})
	return res, err
}

// QueryRows implements Executor.
func (t *Tx) QueryRows(ctx context.Context, query string, params []Value) ([]Row, error) {
	var rows []Row
	err := t.use(func(tx *sql.Tx) error {
		var err error
		rows, err = queryStatement(ctx, tx, query, params)
		return err
	})
	return rows, err
}

// QueryScalar implements Executor.
func (t *Tx) QueryScalar(ctx context.Context, query string, params []Value) (Value, error) {
	var v Value
	err := t.use(func(tx *sql.Tx) error {
		var err error
		v, err = scalarStatement(ctx, tx, query, params)
		return err
	})
	return v, err
}

// Begin starts a transaction at the default (serializable) isolation level.
func (p *Pool) Begin(ctx context.Context) (*Tx, error) {
	return p.BeginWith(ctx, DefaultIsolation)
}

// BeginWith starts a transaction at the given isolation level.
func (p *Pool) BeginWith(ctx context.Context, level IsolationLevel) (*Tx, error) {
	tx, err := p.db.BeginTx(ctx, &sql.TxOptions{Isolation: level.sqlLevel()})
	if err != nil {
		return nil, fmt.Errorf("mysql: %w", err)
	}
	return &Tx{inner: tx}, nil
}

// InTransaction runs fn inside a transaction at the default isolation level,
// committing when fn returns nil and rolling back (and re-surfacing fn's
// error unchanged) otherwise.
func (p *Pool) InTransaction(ctx context.Context, fn func(tx *Tx) error) error {
	return p.InTransactionWith(ctx, DefaultIsolation, fn)
}

// InTransactionWith is InTransaction with an explicit isolation level.
func (p *Pool) InTransactionWith(ctx context.Context, level IsolationLevel, fn func(tx *Tx) error) error {
	tx, err := p.BeginWith(ctx, level)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// WithConnection runs fn against the pool without starting a transaction;
// each statement auto-commits. It exists for call-shape symmetry with
// InTransaction.
func (p *Pool) WithConnection(_ context.Context, fn func(ex Executor) error) error {
	return fn(p)
}
