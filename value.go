// Package godbi is a runtime database interface for MySQL. It provides a
// dynamic Value type, row and parameter contracts, a query builder, batch
// insert/upsert composers, and a pooled executor with transaction support.
// Generated entity and DAO code (see the codegen package) is built on top of
// the primitives in this package.
package godbi

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Kind identifies which datum a Value carries.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindI8
	KindI16
	KindI32
	KindI64
	KindU8
	KindU16
	KindU32
	KindU64
	KindF32
	KindF64
	KindString
	KindBytes
	KindDate
	KindDateTime
	KindTime
	KindDecimal
	KindJSON
)

// String returns the short kind name used in error messages.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindI8:
		return "i8"
	case KindI16:
		return "i16"
	case KindI32:
		return "i32"
	case KindI64:
		return "i64"
	case KindU8:
		return "u8"
	case KindU16:
		return "u16"
	case KindU32:
		return "u32"
	case KindU64:
		return "u64"
	case KindF32:
		return "f32"
	case KindF64:
		return "f64"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindDate:
		return "date"
	case KindDateTime:
		return "datetime"
	case KindTime:
		return "time"
	case KindDecimal:
		return "decimal"
	case KindJSON:
		return "json"
	}
	return "unknown"
}

// Value is a dynamic database value covering every MySQL column type.
// The zero Value is Null. Values are passed to queries as parameters and
// returned from rows; the As* methods convert back to native types.
type Value struct {
	kind Kind

	boolVal bool
	intVal  int64
	uintVal uint64
	f32Val  float32
	f64Val  float64
	strVal  string
	byteVal []byte
	timeVal time.Time
	durVal  time.Duration
	decVal  decimal.Decimal
	jsonVal json.RawMessage
}

// Null returns the SQL NULL value.
func Null() Value { return Value{} }

// Bool wraps a boolean value.
func Bool(v bool) Value { return Value{kind: KindBool, boolVal: v} }

// I8 wraps a signed 8-bit integer.
func I8(v int8) Value { return Value{kind: KindI8, intVal: int64(v)} }

// I16 wraps a signed 16-bit integer.
func I16(v int16) Value { return Value{kind: KindI16, intVal: int64(v)} }

// I32 wraps a signed 32-bit integer.
func I32(v int32) Value { return Value{kind: KindI32, intVal: int64(v)} }

// I64 wraps a signed 64-bit integer.
func I64(v int64) Value { return Value{kind: KindI64, intVal: v} }

// U8 wraps an unsigned 8-bit integer.
func U8(v uint8) Value { return Value{kind: KindU8, uintVal: uint64(v)} }

// U16 wraps an unsigned 16-bit integer.
func U16(v uint16) Value { return Value{kind: KindU16, uintVal: uint64(v)} }

// U32 wraps an unsigned 32-bit integer.
func U32(v uint32) Value { return Value{kind: KindU32, uintVal: uint64(v)} }

// U64 wraps an unsigned 64-bit integer.
func U64(v uint64) Value { return Value{kind: KindU64, uintVal: v} }

// F32 wraps a 32-bit float.
func F32(v float32) Value { return Value{kind: KindF32, f32Val: v} }

// F64 wraps a 64-bit float.
func F64(v float64) Value { return Value{kind: KindF64, f64Val: v} }

// String wraps a string value.
func String(v string) Value { return Value{kind: KindString, strVal: v} }

// Bytes wraps binary data.
func Bytes(v []byte) Value { return Value{kind: KindBytes, byteVal: v} }

// Date wraps a calendar date. The time-of-day portion of t is ignored.
func Date(t time.Time) Value { return Value{kind: KindDate, timeVal: t} }

// DateTime wraps a date and time.
func DateTime(t time.Time) Value { return Value{kind: KindDateTime, timeVal: t} }

// TimeOfDay wraps a wall-clock time as an offset from midnight.
// Callers must keep d within [0, 24h); values outside that range are not
// representable as a MySQL wall-clock TIME here.
func TimeOfDay(d time.Duration) Value { return Value{kind: KindTime, durVal: d} }

// Decimal wraps an exact decimal value.
func Decimal(v decimal.Decimal) Value { return Value{kind: KindDecimal, decVal: v} }

// JSON wraps a raw JSON document.
func JSON(v json.RawMessage) Value { return Value{kind: KindJSON, jsonVal: v} }

// NullableBytes wraps binary data, mapping a nil slice to Null.
func NullableBytes(v []byte) Value {
	if v == nil {
		return Null()
	}
	return Bytes(v)
}

// NullableJSON wraps a raw JSON document, mapping a nil document to Null.
func NullableJSON(v json.RawMessage) Value {
	if v == nil {
		return Null()
	}
	return JSON(v)
}

// Ptr lifts an optional native value into a Value using the given
// constructor; nil maps to Null.
//
//	godbi.Ptr(entity.Email, godbi.String)
func Ptr[T any](p *T, conv func(T) Value) Value {
	if p == nil {
		return Null()
	}
	return conv(*p)
}

// Kind reports which datum this value carries.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether this value is SQL NULL.
func (v Value) IsNull() bool { return v.kind == KindNull }
