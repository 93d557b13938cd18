package godbi

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// RowScannerPtr constrains PT to a pointer to T implementing RowScanner,
// letting the fetch helpers decode into value-typed slices.
type RowScannerPtr[T any] interface {
	*T
	RowScanner
}

// FetchAll runs the query and decodes every row into a T. A single row's
// decode failure fails the whole call.
func FetchAll[T any, PT RowScannerPtr[T]](ctx context.Context, ex Executor, q *Query) ([]T, error) {
	rows, err := ex.QueryRows(ctx, q.sql, q.params)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		var item T
		if err := PT(&item).ScanRow(r); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// FetchOptional runs the query and decodes at most one row, returning nil
// when the result is empty.
func FetchOptional[T any, PT RowScannerPtr[T]](ctx context.Context, ex Executor, q *Query) (*T, error) {
	rows, err := ex.QueryRows(ctx, q.sql, q.params)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	var item T
	if err := PT(&item).ScanRow(rows[0]); err != nil {
		return nil, err
	}
	return &item, nil
}

// FetchOne runs the query and decodes exactly one row, failing with a
// QueryError when the result is empty.
func FetchOne[T any, PT RowScannerPtr[T]](ctx context.Context, ex Executor, q *Query) (T, error) {
	var zero T
	item, err := FetchOptional[T, PT](ctx, ex, q)
	if err != nil {
		return zero, err
	}
	if item == nil {
		return zero, queryErr("expected one row, found none")
	}
	return *item, nil
}

// FetchScalar runs the query and decodes the first column of the first row
// into T. Supported targets are the native types of the Value model.
func FetchScalar[T any](ctx context.Context, ex Executor, q *Query) (T, error) {
	var zero T
	v, err := ex.QueryScalar(ctx, q.sql, q.params)
	if err != nil {
		return zero, err
	}
	return scalarInto[T](v)
}

// scalarInto converts a Value into a concrete scalar type.
func scalarInto[T any](v Value) (T, error) {
	var out T
	var err error
	switch p := any(&out).(type) {
	case *bool:
		*p, err = v.AsBool()
	case *int8:
		*p, err = v.AsInt8()
	case *int16:
		*p, err = v.AsInt16()
	case *int32:
		*p, err = v.AsInt32()
	case *int64:
		*p, err = v.AsInt64()
	case *uint8:
		*p, err = v.AsUint8()
	case *uint16:
		*p, err = v.AsUint16()
	case *uint32:
		*p, err = v.AsUint32()
	case *uint64:
		*p, err = v.AsUint64()
	case *float32:
		*p, err = v.AsFloat32()
	case *float64:
		*p, err = v.AsFloat64()
	case *string:
		*p, err = v.AsString()
	case *[]byte:
		*p, err = v.AsBytes()
	case *time.Time:
		*p, err = v.AsDateTime()
	case *time.Duration:
		*p, err = v.AsTime()
	case *decimal.Decimal:
		*p, err = v.AsDecimal()
	case *json.RawMessage:
		*p, err = v.AsJSON()
	case *Value:
		*p = v
	default:
		err = convErr("scalar", "unsupported target type")
	}
	return out, err
}
