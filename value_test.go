package godbi

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueKinds(t *testing.T) {
	cases := []struct {
		value Value
		kind  Kind
		name  string
	}{
		{Null(), KindNull, "null"},
		{Bool(true), KindBool, "bool"},
		{I8(1), KindI8, "i8"},
		{I16(1), KindI16, "i16"},
		{I32(1), KindI32, "i32"},
		{I64(1), KindI64, "i64"},
		{U8(1), KindU8, "u8"},
		{U16(1), KindU16, "u16"},
		{U32(1), KindU32, "u32"},
		{U64(1), KindU64, "u64"},
		{F32(1), KindF32, "f32"},
		{F64(1), KindF64, "f64"},
		{String("x"), KindString, "string"},
		{Bytes([]byte{1}), KindBytes, "bytes"},
		{Date(time.Now()), KindDate, "date"},
		{DateTime(time.Now()), KindDateTime, "datetime"},
		{TimeOfDay(time.Hour), KindTime, "time"},
		{Decimal(decimal.New(1, 0)), KindDecimal, "decimal"},
		{JSON(json.RawMessage(`{}`)), KindJSON, "json"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.kind, tc.value.Kind())
		assert.Equal(t, tc.name, tc.value.Kind().String())
	}
}

func TestValueZeroIsNull(t *testing.T) {
	var v Value
	assert.True(t, v.IsNull())
	assert.False(t, String("").IsNull())
}

func TestPtr(t *testing.T) {
	t.Run("nil maps to null", func(t *testing.T) {
		var p *string
		assert.True(t, Ptr(p, String).IsNull())
	})

	t.Run("present value converts", func(t *testing.T) {
		s := "hello"
		v := Ptr(&s, String)
		got, err := v.AsString()
		require.NoError(t, err)
		assert.Equal(t, "hello", got)
	})
}

func TestNullableBytesAndJSON(t *testing.T) {
	assert.True(t, NullableBytes(nil).IsNull())
	assert.False(t, NullableBytes([]byte{}).IsNull())
	assert.True(t, NullableJSON(nil).IsNull())
	assert.False(t, NullableJSON(json.RawMessage(`1`)).IsNull())
}

func TestIntegerRoundTrips(t *testing.T) {
	i8, err := I8(-5).AsInt8()
	require.NoError(t, err)
	assert.Equal(t, int8(-5), i8)

	i64, err := I64(1<<40).AsInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(1<<40), i64)

	u64, err := U64(1<<63 + 7).AsUint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(1<<63+7), u64)
}

func TestNarrowingConversions(t *testing.T) {
	t.Run("widening signed succeeds", func(t *testing.T) {
		got, err := I8(42).AsInt64()
		require.NoError(t, err)
		assert.Equal(t, int64(42), got)
	})

	t.Run("narrowing in range succeeds", func(t *testing.T) {
		got, err := I64(100).AsInt8()
		require.NoError(t, err)
		assert.Equal(t, int8(100), got)
	})

	t.Run("narrowing out of range fails with magnitude", func(t *testing.T) {
		_, err := I64(300).AsInt8()
		require.Error(t, err)
		var convErr *TypeConversionError
		require.ErrorAs(t, err, &convErr)
		assert.Equal(t, "i8", convErr.Expected)
		assert.Contains(t, convErr.Actual, "i64(300)")
		assert.Contains(t, convErr.Actual, "out of range")
	})

	t.Run("negative to unsigned fails", func(t *testing.T) {
		_, err := I64(-1).AsUint64()
		assert.Error(t, err)
	})

	t.Run("signed to unsigned in range succeeds", func(t *testing.T) {
		got, err := I64(255).AsUint8()
		require.NoError(t, err)
		assert.Equal(t, uint8(255), got)
	})
}

func TestBigintUnsignedBoundary(t *testing.T) {
	big := U64(1<<63 + 1)

	got, err := big.AsUint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(1<<63+1), got)

	_, err = big.AsInt64()
	require.Error(t, err)
	var convErr *TypeConversionError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, "i64", convErr.Expected)
}

func TestBoolConversions(t *testing.T) {
	cases := []struct {
		value Value
		want  bool
	}{
		{Bool(true), true},
		{I64(1), true},
		{I64(0), false},
		{I8(5), true},
		{U64(0), false},
	}
	for _, tc := range cases {
		got, err := tc.value.AsBool()
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}

	_, err := String("true").AsBool()
	assert.Error(t, err)
}

func TestStringBytesConversions(t *testing.T) {
	t.Run("string to bytes", func(t *testing.T) {
		b, err := String("héllo").AsBytes()
		require.NoError(t, err)
		assert.Equal(t, []byte("héllo"), b)
	})

	t.Run("bytes to string", func(t *testing.T) {
		s, err := Bytes([]byte("world")).AsString()
		require.NoError(t, err)
		assert.Equal(t, "world", s)
	})

	t.Run("invalid utf8 fails", func(t *testing.T) {
		_, err := Bytes([]byte{0xff, 0xfe}).AsString()
		assert.Error(t, err)
	})
}

func TestTemporalConversions(t *testing.T) {
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	stamp := time.Date(2024, 3, 15, 13, 45, 30, 0, time.UTC)

	t.Run("date round trip", func(t *testing.T) {
		got, err := Date(day).AsDate()
		require.NoError(t, err)
		assert.Equal(t, day, got)
	})

	t.Run("datetime truncates to date", func(t *testing.T) {
		got, err := DateTime(stamp).AsDate()
		require.NoError(t, err)
		assert.Equal(t, day, got)
	})

	t.Run("date widens to midnight datetime", func(t *testing.T) {
		got, err := Date(day).AsDateTime()
		require.NoError(t, err)
		assert.Equal(t, day, got)
	})

	t.Run("datetime yields time of day", func(t *testing.T) {
		got, err := DateTime(stamp).AsTime()
		require.NoError(t, err)
		assert.Equal(t, 13*time.Hour+45*time.Minute+30*time.Second, got)
	})

	t.Run("time round trip", func(t *testing.T) {
		d := 9*time.Hour + 30*time.Minute
		got, err := TimeOfDay(d).AsTime()
		require.NoError(t, err)
		assert.Equal(t, d, got)
	})

	t.Run("string is not temporal", func(t *testing.T) {
		_, err := String("2024-03-15").AsDate()
		assert.Error(t, err)
	})
}

func TestDecimalConversions(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		d := decimal.RequireFromString("12.34")
		got, err := Decimal(d).AsDecimal()
		require.NoError(t, err)
		assert.True(t, d.Equal(got))
	})

	t.Run("from integer", func(t *testing.T) {
		got, err := I64(7).AsDecimal()
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(7).Equal(got))
	})

	t.Run("from string", func(t *testing.T) {
		got, err := String("99.95").AsDecimal()
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("99.95").Equal(got))
	})

	t.Run("malformed string fails", func(t *testing.T) {
		_, err := String("not-a-number").AsDecimal()
		require.Error(t, err)
		var convErr *TypeConversionError
		require.ErrorAs(t, err, &convErr)
		assert.Equal(t, "decimal", convErr.Expected)
	})
}

func TestJSONConversions(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		doc := json.RawMessage(`{"a":1}`)
		got, err := JSON(doc).AsJSON()
		require.NoError(t, err)
		assert.Equal(t, doc, got)
	})

	t.Run("from valid string", func(t *testing.T) {
		got, err := String(`[1,2]`).AsJSON()
		require.NoError(t, err)
		assert.Equal(t, json.RawMessage(`[1,2]`), got)
	})

	t.Run("from invalid string fails", func(t *testing.T) {
		_, err := String(`{broken`).AsJSON()
		assert.Error(t, err)
	})
}

func TestFloatConversions(t *testing.T) {
	f32, err := F64(1.5).AsFloat32()
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), f32)

	f64, err := F32(2.5).AsFloat64()
	require.NoError(t, err)
	assert.Equal(t, 2.5, f64)

	_, err = I64(3).AsFloat64()
	assert.Error(t, err)
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "type conversion error: expected i8, got string",
		(&TypeConversionError{Expected: "i8", Actual: "string"}).Error())
	assert.Equal(t, "column not found: missing",
		(&ColumnNotFoundError{Column: "missing"}).Error())
	assert.Equal(t, "unexpected null value for column: email",
		(&UnexpectedNullError{Column: "email"}).Error())
	assert.Equal(t, "query error: expected one row, found none",
		(&QueryError{Message: "expected one row, found none"}).Error())
	assert.Equal(t, "connection error: bad url",
		(&ConnectionError{Message: "bad url"}).Error())
	assert.Equal(t, "failed to decode row: boom",
		(&RowDecodeError{Message: "boom"}).Error())
}
