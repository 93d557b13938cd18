package godbi

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// batchEntity exercises the Params contract; id is server-generated and
// omitted from the insert views.
type batchEntity struct {
	ID   int64
	Name string
	Rank int32
}

func (e batchEntity) InsertColumnNames() []string { return []string{"name", "rank"} }
func (e batchEntity) InsertValues() []Value       { return []Value{String(e.Name), I32(e.Rank)} }
func (e batchEntity) AllColumnNames() []string    { return []string{"id", "name", "rank"} }
func (e batchEntity) AllValues() []Value {
	return []Value{I64(e.ID), String(e.Name), I32(e.Rank)}
}

func TestBatchInsertEmptyShortCircuits(t *testing.T) {
	ex := &fakeExecutor{}
	res, err := BatchInsert(context.Background(), ex, "things", []batchEntity{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.RowsAffected)
	assert.Equal(t, int64(0), res.LastInsertID)
	assert.Empty(t, ex.execSQL, "empty batch must not touch the server")
}

func TestBatchInsertSQLShape(t *testing.T) {
	ex := &fakeExecutor{execResult: ExecResult{RowsAffected: 2, LastInsertID: 10}}
	entities := []batchEntity{
		{Name: "a", Rank: 1},
		{Name: "b", Rank: 2},
	}

	res, err := BatchInsert(context.Background(), ex, "things", entities)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.RowsAffected)
	assert.Equal(t, int64(10), res.LastInsertID)

	require.Len(t, ex.execSQL, 1)
	assert.Equal(t, "INSERT INTO `things` (`name`, `rank`) VALUES (?, ?), (?, ?)", ex.execSQL[0])

	params := ex.execParams[0]
	require.Len(t, params, 4)
	name, err := params[2].AsString()
	require.NoError(t, err)
	assert.Equal(t, "b", name)
}

func TestBatchUpsert(t *testing.T) {
	t.Run("updates all insert columns by default", func(t *testing.T) {
		ex := &fakeExecutor{}
		_, err := BatchUpsert(context.Background(), ex, "things", []batchEntity{{Name: "a"}})
		require.NoError(t, err)
		require.Len(t, ex.execSQL, 1)
		assert.Equal(t,
			"INSERT INTO `things` (`name`, `rank`) VALUES (?, ?) "+
				"ON DUPLICATE KEY UPDATE `name` = VALUES(`name`), `rank` = VALUES(`rank`)",
			ex.execSQL[0])
	})

	t.Run("explicit update subset", func(t *testing.T) {
		ex := &fakeExecutor{}
		_, err := BatchUpsert(context.Background(), ex, "things", []batchEntity{{Name: "a"}}, "rank")
		require.NoError(t, err)
		assert.Contains(t, ex.execSQL[0], "ON DUPLICATE KEY UPDATE `rank` = VALUES(`rank`)")
		assert.NotContains(t, ex.execSQL[0], "`name` = VALUES(`name`)")
	})

	t.Run("empty input short-circuits", func(t *testing.T) {
		ex := &fakeExecutor{}
		res, err := BatchUpsert(context.Background(), ex, "things", []batchEntity{})
		require.NoError(t, err)
		assert.Equal(t, ExecResult{}, res)
		assert.Empty(t, ex.execSQL)
	})
}

func TestBatchPlaceholderCountMatchesParams(t *testing.T) {
	ex := &fakeExecutor{}
	entities := []batchEntity{{Name: "a"}, {Name: "b"}, {Name: "c"}}
	_, err := BatchInsert(context.Background(), ex, "things", entities)
	require.NoError(t, err)

	sql := ex.execSQL[0]
	count := 0
	for _, ch := range sql {
		if ch == '?' {
			count++
		}
	}
	assert.Equal(t, len(ex.execParams[0]), count)
}
