package godbi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRow() Row {
	return NewRow(
		[]string{"id", "name", "age", "bio", "created_at"},
		[]Value{I64(7), String("alice"), U8(30), Null(), DateTime(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))},
	)
}

func TestRowGetValue(t *testing.T) {
	row := testRow()

	t.Run("existing column", func(t *testing.T) {
		v, err := row.GetValue("name")
		require.NoError(t, err)
		assert.Equal(t, KindString, v.Kind())
	})

	t.Run("missing column", func(t *testing.T) {
		_, err := row.GetValue("nope")
		var notFound *ColumnNotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "nope", notFound.Column)
	})

	t.Run("null column", func(t *testing.T) {
		v, err := row.GetValue("bio")
		require.NoError(t, err)
		assert.True(t, v.IsNull())
	})
}

func TestTypedGetters(t *testing.T) {
	row := testRow()

	id, err := GetInt64(row, "id")
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	name, err := GetString(row, "name")
	require.NoError(t, err)
	assert.Equal(t, "alice", name)

	age, err := GetUint8(row, "age")
	require.NoError(t, err)
	assert.Equal(t, uint8(30), age)

	created, err := GetDateTime(row, "created_at")
	require.NoError(t, err)
	assert.Equal(t, 2024, created.Year())
}

func TestGettersRejectNull(t *testing.T) {
	row := testRow()

	_, err := GetString(row, "bio")
	var nullErr *UnexpectedNullError
	require.ErrorAs(t, err, &nullErr)
	assert.Equal(t, "bio", nullErr.Column)
}

func TestNullableGetters(t *testing.T) {
	row := testRow()

	t.Run("null yields nil", func(t *testing.T) {
		bio, err := GetNullString(row, "bio")
		require.NoError(t, err)
		assert.Nil(t, bio)
	})

	t.Run("present yields pointer", func(t *testing.T) {
		name, err := GetNullString(row, "name")
		require.NoError(t, err)
		require.NotNil(t, name)
		assert.Equal(t, "alice", *name)
	})

	t.Run("missing column still errors", func(t *testing.T) {
		_, err := GetNullString(row, "nope")
		assert.Error(t, err)
	})

	t.Run("null bytes yield nil slice", func(t *testing.T) {
		b, err := GetNullBytes(row, "bio")
		require.NoError(t, err)
		assert.Nil(t, b)
	})
}

func TestGetterConversionFailure(t *testing.T) {
	row := NewRow([]string{"n"}, []Value{I64(300)})
	_, err := GetInt8(row, "n")
	var convErr *TypeConversionError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, "i8", convErr.Expected)
}

func TestBytesSurfacedAsStringColumn(t *testing.T) {
	// Drivers may hand text columns back as raw bytes; string decoding must
	// stay transparent.
	row := NewRow([]string{"title"}, []Value{Bytes([]byte("draft"))})
	s, err := GetString(row, "title")
	require.NoError(t, err)
	assert.Equal(t, "draft", s)
}
