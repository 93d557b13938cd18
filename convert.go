package godbi

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Conversions from Value to native types. Narrowing integer conversions
// succeed only when the source fits the target range; the error carries the
// expected kind and the offending value with its original magnitude.

func (v Value) isSignedInt() bool {
	return v.kind == KindI8 || v.kind == KindI16 || v.kind == KindI32 || v.kind == KindI64
}

func (v Value) isUnsignedInt() bool {
	return v.kind == KindU8 || v.kind == KindU16 || v.kind == KindU32 || v.kind == KindU64
}

func (v Value) rangeErr(expected string) error {
	if v.isSignedInt() {
		return convErr(expected, fmt.Sprintf("%s(%d) out of range", v.kind, v.intVal))
	}
	return convErr(expected, fmt.Sprintf("%s(%d) out of range", v.kind, v.uintVal))
}

// AsBool converts to bool. Integer values convert as non-zero, matching
// MySQL's TINYINT(1) convention.
func (v Value) AsBool() (bool, error) {
	switch {
	case v.kind == KindBool:
		return v.boolVal, nil
	case v.isSignedInt():
		return v.intVal != 0, nil
	case v.isUnsignedInt():
		return v.uintVal != 0, nil
	}
	return false, convErrKind("bool", v)
}

func (v Value) asSignedRange(expected string, min, max int64) (int64, error) {
	if !v.isSignedInt() {
		return 0, convErrKind(expected, v)
	}
	if v.intVal < min || v.intVal > max {
		return 0, v.rangeErr(expected)
	}
	return v.intVal, nil
}

// AsInt8 converts to int8.
func (v Value) AsInt8() (int8, error) {
	n, err := v.asSignedRange("i8", math.MinInt8, math.MaxInt8)
	return int8(n), err
}

// AsInt16 converts to int16.
func (v Value) AsInt16() (int16, error) {
	n, err := v.asSignedRange("i16", math.MinInt16, math.MaxInt16)
	return int16(n), err
}

// AsInt32 converts to int32.
func (v Value) AsInt32() (int32, error) {
	n, err := v.asSignedRange("i32", math.MinInt32, math.MaxInt32)
	return int32(n), err
}

// AsInt64 converts to int64. Unsigned sources succeed when they fit.
func (v Value) AsInt64() (int64, error) {
	switch {
	case v.isSignedInt():
		return v.intVal, nil
	case v.isUnsignedInt():
		if v.uintVal > math.MaxInt64 {
			return 0, v.rangeErr("i64")
		}
		return int64(v.uintVal), nil
	}
	return 0, convErrKind("i64", v)
}

func (v Value) asUnsignedRange(expected string, max uint64) (uint64, error) {
	switch {
	case v.isUnsignedInt():
		if v.uintVal > max {
			return 0, v.rangeErr(expected)
		}
		return v.uintVal, nil
	case v.isSignedInt():
		// MySQL often returns integers as i64 regardless of column type.
		if v.intVal < 0 || uint64(v.intVal) > max {
			return 0, v.rangeErr(expected)
		}
		return uint64(v.intVal), nil
	}
	return 0, convErrKind(expected, v)
}

// AsUint8 converts to uint8.
func (v Value) AsUint8() (uint8, error) {
	n, err := v.asUnsignedRange("u8", math.MaxUint8)
	return uint8(n), err
}

// AsUint16 converts to uint16.
func (v Value) AsUint16() (uint16, error) {
	n, err := v.asUnsignedRange("u16", math.MaxUint16)
	return uint16(n), err
}

// AsUint32 converts to uint32.
func (v Value) AsUint32() (uint32, error) {
	n, err := v.asUnsignedRange("u32", math.MaxUint32)
	return uint32(n), err
}

// AsUint64 converts to uint64. Negative signed sources fail the range check.
func (v Value) AsUint64() (uint64, error) {
	return v.asUnsignedRange("u64", math.MaxUint64)
}

// AsFloat32 converts to float32.
func (v Value) AsFloat32() (float32, error) {
	switch v.kind {
	case KindF32:
		return v.f32Val, nil
	case KindF64:
		return float32(v.f64Val), nil
	}
	return 0, convErrKind("f32", v)
}

// AsFloat64 converts to float64.
func (v Value) AsFloat64() (float64, error) {
	switch v.kind {
	case KindF32:
		return float64(v.f32Val), nil
	case KindF64:
		return v.f64Val, nil
	}
	return 0, convErrKind("f64", v)
}

// AsString converts to string. Byte values are decoded as UTF-8 to
// accommodate drivers that surface text columns as raw bytes.
func (v Value) AsString() (string, error) {
	switch v.kind {
	case KindString:
		return v.strVal, nil
	case KindBytes:
		if !utf8.Valid(v.byteVal) {
			return "", convErr("utf8 string", "invalid utf8 bytes")
		}
		return string(v.byteVal), nil
	}
	return "", convErrKind("string", v)
}

// AsBytes converts to a byte slice. String values are encoded as UTF-8.
func (v Value) AsBytes() ([]byte, error) {
	switch v.kind {
	case KindBytes:
		return v.byteVal, nil
	case KindString:
		return []byte(v.strVal), nil
	}
	return nil, convErrKind("bytes", v)
}

// AsDate converts to a calendar date with the time-of-day zeroed.
func (v Value) AsDate() (time.Time, error) {
	switch v.kind {
	case KindDate, KindDateTime:
		t := v.timeVal
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()), nil
	}
	return time.Time{}, convErrKind("date", v)
}

// AsDateTime converts to a date and time. Date values gain a midnight
// time-of-day.
func (v Value) AsDateTime() (time.Time, error) {
	switch v.kind {
	case KindDateTime:
		return v.timeVal, nil
	case KindDate:
		t := v.timeVal
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()), nil
	}
	return time.Time{}, convErrKind("datetime", v)
}

// AsTime converts to a wall-clock time-of-day offset from midnight.
func (v Value) AsTime() (time.Duration, error) {
	switch v.kind {
	case KindTime:
		return v.durVal, nil
	case KindDateTime:
		t := v.timeVal
		return time.Duration(t.Hour())*time.Hour +
			time.Duration(t.Minute())*time.Minute +
			time.Duration(t.Second())*time.Second +
			time.Duration(t.Nanosecond()), nil
	}
	return 0, convErrKind("time", v)
}

// AsDecimal converts to an exact decimal. Integer and string sources are
// accepted; malformed strings fail.
func (v Value) AsDecimal() (decimal.Decimal, error) {
	switch {
	case v.kind == KindDecimal:
		return v.decVal, nil
	case v.isSignedInt():
		return decimal.NewFromInt(v.intVal), nil
	case v.isUnsignedInt():
		return decimal.NewFromUint64(v.uintVal), nil
	case v.kind == KindString:
		d, err := decimal.NewFromString(v.strVal)
		if err != nil {
			return decimal.Decimal{}, convErr("decimal", fmt.Sprintf("invalid decimal string: %s", v.strVal))
		}
		return d, nil
	}
	return decimal.Decimal{}, convErrKind("decimal", v)
}

// AsJSON converts to a raw JSON document. String sources must hold valid
// JSON.
func (v Value) AsJSON() (json.RawMessage, error) {
	switch v.kind {
	case KindJSON:
		return v.jsonVal, nil
	case KindString:
		if !json.Valid([]byte(v.strVal)) {
			return nil, convErr("json", fmt.Sprintf("invalid json: %s", v.strVal))
		}
		return json.RawMessage(v.strVal), nil
	}
	return nil, convErrKind("json", v)
}
