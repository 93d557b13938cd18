package godbi_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mysql"

	"godbi"
)

type user struct {
	ID       int64
	Username string
	Email    string
	Status   string
}

func (u *user) ScanRow(row godbi.Row) error {
	var err error
	if u.ID, err = godbi.GetInt64(row, "id"); err != nil {
		return err
	}
	if u.Username, err = godbi.GetString(row, "username"); err != nil {
		return err
	}
	if u.Email, err = godbi.GetString(row, "email"); err != nil {
		return err
	}
	if u.Status, err = godbi.GetString(row, "status"); err != nil {
		return err
	}
	return nil
}

func (u user) InsertColumnNames() []string { return []string{"username", "email", "status"} }
func (u user) InsertValues() []godbi.Value {
	return []godbi.Value{godbi.String(u.Username), godbi.String(u.Email), godbi.String(u.Status)}
}
func (u user) AllColumnNames() []string {
	return []string{"id", "username", "email", "status"}
}
func (u user) AllValues() []godbi.Value {
	return []godbi.Value{godbi.I64(u.ID), godbi.String(u.Username), godbi.String(u.Email), godbi.String(u.Status)}
}

type product struct {
	SKU   string
	Name  string
	Price decimal.Decimal
}

func (p *product) ScanRow(row godbi.Row) error {
	var err error
	if p.SKU, err = godbi.GetString(row, "sku"); err != nil {
		return err
	}
	if p.Name, err = godbi.GetString(row, "name"); err != nil {
		return err
	}
	if p.Price, err = godbi.GetDecimal(row, "price"); err != nil {
		return err
	}
	return nil
}

func (p product) InsertColumnNames() []string { return []string{"sku", "name", "price"} }
func (p product) InsertValues() []godbi.Value {
	return []godbi.Value{godbi.String(p.SKU), godbi.String(p.Name), godbi.Decimal(p.Price)}
}
func (p product) AllColumnNames() []string { return p.InsertColumnNames() }
func (p product) AllValues() []godbi.Value { return p.InsertValues() }

func setupPool(t *testing.T) *godbi.Pool {
	t.Helper()
	ctx := context.Background()

	mysqlContainer, err := mysql.Run(ctx, "mysql:8.0",
		mysql.WithDatabase("testdb"),
		mysql.WithUsername("root"),
		mysql.WithPassword("testpass"),
	)
	require.NoError(t, err, "failed to start MySQL container")

	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(mysqlContainer); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := mysqlContainer.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlContainer.MappedPort(ctx, "3306/tcp")
	require.NoError(t, err)

	pool, err := godbi.NewPool(fmt.Sprintf("mysql://root:testpass@%s:%s/testdb", host, port.Port()))
	require.NoError(t, err)
	require.NoError(t, pool.Ping(ctx))
	t.Cleanup(func() {
		if err := pool.Close(); err != nil {
			t.Errorf("failed to close pool: %v", err)
		}
	})

	return pool
}

func mustExec(t *testing.T, pool *godbi.Pool, sql string) {
	t.Helper()
	_, err := pool.Execute(context.Background(), sql, nil)
	require.NoError(t, err)
}

func selectUsers(table string) string {
	return fmt.Sprintf("SELECT `id`, `username`, `email`, `status` FROM `%s`", table)
}

func TestMySQLIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	pool := setupPool(t)
	ctx := context.Background()

	mustExec(t, pool, "CREATE TABLE `users` ("+
		"`id` BIGINT AUTO_INCREMENT PRIMARY KEY, "+
		"`username` VARCHAR(255) NOT NULL UNIQUE, "+
		"`email` VARCHAR(255) NOT NULL, "+
		"`status` ENUM('ACTIVE','INACTIVE','PENDING') NOT NULL)")
	mustExec(t, pool, "CREATE TABLE `products` ("+
		"`sku` VARCHAR(50) PRIMARY KEY, "+
		"`name` VARCHAR(255) NOT NULL, "+
		"`price` DECIMAL(10,2) NOT NULL)")

	resetUsers := func() { mustExec(t, pool, "TRUNCATE TABLE `users`") }

	t.Run("crud round trip", func(t *testing.T) {
		resetUsers()

		res, err := godbi.NewQuery("INSERT INTO `users` (`username`, `email`, `status`) VALUES (?, ?, ?)").
			Bind(godbi.String("alice")).
			Bind(godbi.String("a@x")).
			Bind(godbi.String("ACTIVE")).
			Execute(ctx, pool)
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.RowsAffected)
		require.GreaterOrEqual(t, res.LastInsertID, int64(1))

		found, err := godbi.FetchOptional[user](ctx, pool,
			godbi.NewQuery(selectUsers("users")+" WHERE `id` = ?").Bind(godbi.I64(res.LastInsertID)))
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, res.LastInsertID, found.ID)
		assert.Equal(t, "alice", found.Username)
		assert.Equal(t, "ACTIVE", found.Status)

		upd, err := godbi.NewQuery("UPDATE `users` SET `username` = ?, `email` = ?, `status` = ? WHERE `id` = ?").
			Bind(godbi.String("alice")).
			Bind(godbi.String("a@x")).
			Bind(godbi.String("INACTIVE")).
			Bind(godbi.I64(found.ID)).
			Execute(ctx, pool)
		require.NoError(t, err)
		assert.Equal(t, int64(1), upd.RowsAffected)

		del, err := godbi.NewQuery("DELETE FROM `users` WHERE `id` = ?").
			Bind(godbi.I64(found.ID)).
			Execute(ctx, pool)
		require.NoError(t, err)
		assert.Equal(t, int64(1), del.RowsAffected)

		gone, err := godbi.FetchOptional[user](ctx, pool,
			godbi.NewQuery(selectUsers("users")+" WHERE `id` = ?").Bind(godbi.I64(found.ID)))
		require.NoError(t, err)
		assert.Nil(t, gone)
	})

	t.Run("upsert semantics", func(t *testing.T) {
		mustExec(t, pool, "TRUNCATE TABLE `products`")

		upsertSQL := "INSERT INTO `products` (`sku`, `name`, `price`) VALUES (?, ?, ?) " +
			"ON DUPLICATE KEY UPDATE `name` = VALUES(`name`), `price` = VALUES(`price`)"

		first, err := godbi.NewQuery(upsertSQL).
			Bind(godbi.String("S1")).
			Bind(godbi.String("n")).
			Bind(godbi.Decimal(decimal.RequireFromString("10.00"))).
			Execute(ctx, pool)
		require.NoError(t, err)
		assert.Equal(t, int64(1), first.RowsAffected)

		second, err := godbi.NewQuery(upsertSQL).
			Bind(godbi.String("S1")).
			Bind(godbi.String("n2")).
			Bind(godbi.Decimal(decimal.RequireFromString("15.00"))).
			Execute(ctx, pool)
		require.NoError(t, err)
		assert.Equal(t, int64(2), second.RowsAffected, "updated-by-upsert reports 2 affected rows")

		got, err := godbi.FetchOne[product](ctx, pool,
			godbi.NewQuery("SELECT `sku`, `name`, `price` FROM `products` WHERE `sku` = ?").
				Bind(godbi.String("S1")))
		require.NoError(t, err)
		assert.Equal(t, "n2", got.Name)
		assert.True(t, decimal.RequireFromString("15.00").Equal(got.Price))
	})

	t.Run("batch insert", func(t *testing.T) {
		resetUsers()

		entities := []user{
			{Username: "u1", Email: "1@x", Status: "ACTIVE"},
			{Username: "u2", Email: "2@x", Status: "PENDING"},
			{Username: "u3", Email: "3@x", Status: "INACTIVE"},
		}
		res, err := godbi.BatchInsert(ctx, pool, "users", entities)
		require.NoError(t, err)
		assert.Equal(t, int64(3), res.RowsAffected)
		assert.GreaterOrEqual(t, res.LastInsertID, int64(1), "id of the first inserted row")

		all, err := godbi.FetchAll[user](ctx, pool, godbi.NewQuery(selectUsers("users")))
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("fetch scalar count", func(t *testing.T) {
		count, err := godbi.FetchScalar[int64](ctx, pool, godbi.NewQuery("SELECT COUNT(*) FROM `users`"))
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("transaction commit", func(t *testing.T) {
		resetUsers()

		err := pool.InTransaction(ctx, func(tx *godbi.Tx) error {
			_, err := godbi.NewQuery("INSERT INTO `users` (`username`, `email`, `status`) VALUES (?, ?, ?)").
				Bind(godbi.String("committed")).
				Bind(godbi.String("c@x")).
				Bind(godbi.String("ACTIVE")).
				Execute(ctx, tx)
			return err
		})
		require.NoError(t, err)

		count, err := godbi.FetchScalar[int64](ctx, pool, godbi.NewQuery("SELECT COUNT(*) FROM `users`"))
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("transaction rollback", func(t *testing.T) {
		resetUsers()

		boom := fmt.Errorf("boom")
		err := pool.InTransaction(ctx, func(tx *godbi.Tx) error {
			_, err := godbi.NewQuery("INSERT INTO `users` (`username`, `email`, `status`) VALUES (?, ?, ?)").
				Bind(godbi.String("doomed")).
				Bind(godbi.String("d@x")).
				Bind(godbi.String("ACTIVE")).
				Execute(ctx, tx)
			require.NoError(t, err)
			return boom
		})
		require.ErrorIs(t, err, boom, "the closure's error surfaces unchanged")

		count, err := godbi.FetchScalar[int64](ctx, pool, godbi.NewQuery("SELECT COUNT(*) FROM `users`"))
		require.NoError(t, err)
		assert.Equal(t, int64(0), count, "rollback leaves the table untouched")
	})

	t.Run("consumed transaction fails", func(t *testing.T) {
		tx, err := pool.BeginWith(ctx, godbi.LevelReadCommitted)
		require.NoError(t, err)
		require.NoError(t, tx.Commit())

		_, err = godbi.NewQuery("SELECT COUNT(*) FROM `users`").Execute(ctx, tx)
		var qerr *godbi.QueryError
		require.ErrorAs(t, err, &qerr)
		assert.Contains(t, qerr.Message, "transaction already consumed")

		err = tx.Rollback()
		require.ErrorAs(t, err, &qerr)
	})

	t.Run("parallel independent transactions", func(t *testing.T) {
		resetUsers()

		var wg sync.WaitGroup
		errs := make([]error, 3)
		for i := 0; i < 3; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = pool.InTransaction(ctx, func(tx *godbi.Tx) error {
					_, err := godbi.NewQuery("INSERT INTO `users` (`username`, `email`, `status`) VALUES (?, ?, ?)").
						Bind(godbi.String(fmt.Sprintf("par%d", i))).
						Bind(godbi.String(fmt.Sprintf("%d@x", i))).
						Bind(godbi.String("ACTIVE")).
						Execute(ctx, tx)
					return err
				})
			}(i)
		}
		wg.Wait()
		for i, err := range errs {
			require.NoError(t, err, "transaction %d", i)
		}

		count, err := godbi.FetchScalar[int64](ctx, pool, godbi.NewQuery("SELECT COUNT(*) FROM `users`"))
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("pagination", func(t *testing.T) {
		resetUsers()

		entities := make([]user, 10)
		for i := range entities {
			entities[i] = user{
				Username: fmt.Sprintf("user%02d", i),
				Email:    fmt.Sprintf("%d@x", i),
				Status:   "ACTIVE",
			}
		}
		_, err := godbi.BatchInsert(ctx, pool, "users", entities)
		require.NoError(t, err)

		total, err := godbi.FetchScalar[int64](ctx, pool, godbi.NewQuery("SELECT COUNT(*) FROM `users`"))
		require.NoError(t, err)
		assert.Equal(t, int64(10), total)

		page, err := godbi.FetchAll[user](ctx, pool,
			godbi.NewQuery(selectUsers("users")+" ORDER BY `username` ASC LIMIT ? OFFSET ?").
				Bind(godbi.I32(3)).
				Bind(godbi.I32(0)))
		require.NoError(t, err)
		require.Len(t, page, 3)
		assert.Equal(t, "user00", page[0].Username, "first page starts at the smallest username")

		totalPages := (total + 2) / 3
		assert.Equal(t, int64(4), totalPages)
	})

	t.Run("null round trip", func(t *testing.T) {
		mustExec(t, pool, "CREATE TABLE IF NOT EXISTS `notes` ("+
			"`id` BIGINT AUTO_INCREMENT PRIMARY KEY, `body` TEXT NULL)")
		mustExec(t, pool, "TRUNCATE TABLE `notes`")

		_, err := godbi.NewQuery("INSERT INTO `notes` (`body`) VALUES (?)").
			Bind(godbi.Null()).
			Execute(ctx, pool)
		require.NoError(t, err)

		rows, err := pool.QueryRows(ctx, "SELECT `body` FROM `notes`", nil)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		body, err := godbi.GetNullString(rows[0], "body")
		require.NoError(t, err)
		assert.Nil(t, body)
	})
}
