package godbi

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Row is a database row queried by column name.
type Row interface {
	// GetValue returns the value of the named column, or a
	// ColumnNotFoundError if the result set has no such column.
	GetValue(column string) (Value, error)
}

// RowScanner is implemented by entity types that decode themselves from a
// row. Generated entities implement it; the fetch helpers rely on it.
type RowScanner interface {
	ScanRow(Row) error
}

// mapRow materializes a result row once into a name-keyed map so repeated
// column lookups avoid further driver calls. The ordered values are kept for
// positional (scalar) access.
type mapRow struct {
	columns []string
	byName  map[string]Value
	ordered []Value
}

// NewRow builds a Row from parallel column-name and value slices. It is the
// backing type for pool results and is exported for tests and custom
// executors.
func NewRow(columns []string, values []Value) Row {
	byName := make(map[string]Value, len(columns))
	for i, c := range columns {
		byName[c] = values[i]
	}
	return &mapRow{columns: columns, byName: byName, ordered: values}
}

func (r *mapRow) GetValue(column string) (Value, error) {
	v, ok := r.byName[column]
	if !ok {
		return Value{}, &ColumnNotFoundError{Column: column}
	}
	return v, nil
}

func (r *mapRow) valueAt(i int) (Value, bool) {
	if i < 0 || i >= len(r.ordered) {
		return Value{}, false
	}
	return r.ordered[i], true
}

// get fetches a column value and rejects NULL for non-optional targets.
func get(r Row, column string) (Value, error) {
	v, err := r.GetValue(column)
	if err != nil {
		return Value{}, err
	}
	if v.IsNull() {
		return Value{}, &UnexpectedNullError{Column: column}
	}
	return v, nil
}

// getNull fetches a column value for an optional target; the bool reports
// whether the value was NULL.
func getNull(r Row, column string) (Value, bool, error) {
	v, err := r.GetValue(column)
	if err != nil {
		return Value{}, false, err
	}
	return v, v.IsNull(), nil
}

// Typed column accessors. The non-Null variants fail with
// UnexpectedNullError when the column holds NULL; the Null variants return
// nil instead.

func GetBool(r Row, column string) (bool, error) {
	v, err := get(r, column)
	if err != nil {
		return false, err
	}
	return v.AsBool()
}

func GetInt8(r Row, column string) (int8, error) {
	v, err := get(r, column)
	if err != nil {
		return 0, err
	}
	return v.AsInt8()
}

func GetInt16(r Row, column string) (int16, error) {
	v, err := get(r, column)
	if err != nil {
		return 0, err
	}
	return v.AsInt16()
}

func GetInt32(r Row, column string) (int32, error) {
	v, err := get(r, column)
	if err != nil {
		return 0, err
	}
	return v.AsInt32()
}

func GetInt64(r Row, column string) (int64, error) {
	v, err := get(r, column)
	if err != nil {
		return 0, err
	}
	return v.AsInt64()
}

func GetUint8(r Row, column string) (uint8, error) {
	v, err := get(r, column)
	if err != nil {
		return 0, err
	}
	return v.AsUint8()
}

func GetUint16(r Row, column string) (uint16, error) {
	v, err := get(r, column)
	if err != nil {
		return 0, err
	}
	return v.AsUint16()
}

func GetUint32(r Row, column string) (uint32, error) {
	v, err := get(r, column)
	if err != nil {
		return 0, err
	}
	return v.AsUint32()
}

func GetUint64(r Row, column string) (uint64, error) {
	v, err := get(r, column)
	if err != nil {
		return 0, err
	}
	return v.AsUint64()
}

func GetFloat32(r Row, column string) (float32, error) {
	v, err := get(r, column)
	if err != nil {
		return 0, err
	}
	return v.AsFloat32()
}

func GetFloat64(r Row, column string) (float64, error) {
	v, err := get(r, column)
	if err != nil {
		return 0, err
	}
	return v.AsFloat64()
}

func GetString(r Row, column string) (string, error) {
	v, err := get(r, column)
	if err != nil {
		return "", err
	}
	return v.AsString()
}

func GetBytes(r Row, column string) ([]byte, error) {
	v, err := get(r, column)
	if err != nil {
		return nil, err
	}
	return v.AsBytes()
}

func GetDate(r Row, column string) (time.Time, error) {
	v, err := get(r, column)
	if err != nil {
		return time.Time{}, err
	}
	return v.AsDate()
}

func GetDateTime(r Row, column string) (time.Time, error) {
	v, err := get(r, column)
	if err != nil {
		return time.Time{}, err
	}
	return v.AsDateTime()
}

func GetTime(r Row, column string) (time.Duration, error) {
	v, err := get(r, column)
	if err != nil {
		return 0, err
	}
	return v.AsTime()
}

func GetDecimal(r Row, column string) (decimal.Decimal, error) {
	v, err := get(r, column)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return v.AsDecimal()
}

func GetJSON(r Row, column string) (json.RawMessage, error) {
	v, err := get(r, column)
	if err != nil {
		return nil, err
	}
	return v.AsJSON()
}

func getNullAs[T any](r Row, column string, conv func(Value) (T, error)) (*T, error) {
	v, isNull, err := getNull(r, column)
	if err != nil {
		return nil, err
	}
	if isNull {
		return nil, nil
	}
	out, err := conv(v)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func GetNullBool(r Row, column string) (*bool, error) {
	return getNullAs(r, column, Value.AsBool)
}

func GetNullInt8(r Row, column string) (*int8, error) {
	return getNullAs(r, column, Value.AsInt8)
}

func GetNullInt16(r Row, column string) (*int16, error) {
	return getNullAs(r, column, Value.AsInt16)
}

func GetNullInt32(r Row, column string) (*int32, error) {
	return getNullAs(r, column, Value.AsInt32)
}

func GetNullInt64(r Row, column string) (*int64, error) {
	return getNullAs(r, column, Value.AsInt64)
}

func GetNullUint8(r Row, column string) (*uint8, error) {
	return getNullAs(r, column, Value.AsUint8)
}

func GetNullUint16(r Row, column string) (*uint16, error) {
	return getNullAs(r, column, Value.AsUint16)
}

func GetNullUint32(r Row, column string) (*uint32, error) {
	return getNullAs(r, column, Value.AsUint32)
}

func GetNullUint64(r Row, column string) (*uint64, error) {
	return getNullAs(r, column, Value.AsUint64)
}

func GetNullFloat32(r Row, column string) (*float32, error) {
	return getNullAs(r, column, Value.AsFloat32)
}

func GetNullFloat64(r Row, column string) (*float64, error) {
	return getNullAs(r, column, Value.AsFloat64)
}

func GetNullString(r Row, column string) (*string, error) {
	return getNullAs(r, column, Value.AsString)
}

func GetNullBytes(r Row, column string) ([]byte, error) {
	v, isNull, err := getNull(r, column)
	if err != nil || isNull {
		return nil, err
	}
	return v.AsBytes()
}

func GetNullDate(r Row, column string) (*time.Time, error) {
	return getNullAs(r, column, Value.AsDate)
}

func GetNullDateTime(r Row, column string) (*time.Time, error) {
	return getNullAs(r, column, Value.AsDateTime)
}

func GetNullTime(r Row, column string) (*time.Duration, error) {
	return getNullAs(r, column, Value.AsTime)
}

func GetNullDecimal(r Row, column string) (*decimal.Decimal, error) {
	return getNullAs(r, column, Value.AsDecimal)
}

func GetNullJSON(r Row, column string) (json.RawMessage, error) {
	v, isNull, err := getNull(r, column)
	if err != nil || isNull {
		return nil, err
	}
	return v.AsJSON()
}
