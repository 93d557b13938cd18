package godbi

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Conversion between driver result values and the Value model. database/sql
// erases MySQL type tags, so the column type metadata drives disambiguation
// of unsigned integers, decimals, JSON documents, and temporal columns.

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05.999999"
)

// collectRows drains a result set into materialized rows.
func collectRows(rows *sql.Rows) ([]Row, error) {
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, &RowDecodeError{Message: err.Error()}
	}
	columnTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, &RowDecodeError{Message: err.Error()}
	}
	typeNames := make([]string, len(columnTypes))
	for i, ct := range columnTypes {
		typeNames[i] = ct.DatabaseTypeName()
	}

	var out []Row
	for rows.Next() {
		raw := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range raw {
			dest[i] = &raw[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, &RowDecodeError{Message: err.Error()}
		}

		values := make([]Value, len(columns))
		for i := range raw {
			v, err := wireValue(raw[i], typeNames[i])
			if err != nil {
				return nil, err
			}
			values[i] = v
		}
		out = append(out, NewRow(columns, values))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("mysql: %w", err)
	}
	return out, nil
}

// wireValue converts one driver value into a Value. typeName is the
// driver-reported database type, e.g. "UNSIGNED BIGINT" or "DECIMAL".
func wireValue(raw any, typeName string) (Value, error) {
	switch v := raw.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(v), nil
	case int64:
		if isUnsignedColumn(typeName) {
			return U64(uint64(v)), nil
		}
		return I64(v), nil
	case uint64:
		return U64(v), nil
	case float32:
		return F32(v), nil
	case float64:
		return F64(v), nil
	case time.Time:
		if baseColumnType(typeName) == "DATE" {
			return Date(v), nil
		}
		return DateTime(v), nil
	case []byte:
		// Copy: the driver may reuse the backing array on the next row.
		b := make([]byte, len(v))
		copy(b, v)
		return textValue(b, typeName)
	case string:
		return textValue([]byte(v), typeName)
	}
	return Value{}, &RowDecodeError{Message: fmt.Sprintf("unsupported driver value of type %T", raw)}
}

// textValue interprets a byte-form column value by its declared type.
func textValue(b []byte, typeName string) (Value, error) {
	switch baseColumnType(typeName) {
	case "DECIMAL", "NEWDECIMAL":
		d, err := decimal.NewFromString(string(b))
		if err != nil {
			return Value{}, convErr("decimal", fmt.Sprintf("invalid decimal string: %s", b))
		}
		return Decimal(d), nil
	case "JSON":
		return JSON(json.RawMessage(b)), nil
	case "TIME":
		return parseWallClockTime(string(b))
	case "DATE":
		t, err := time.Parse(dateLayout, string(b))
		if err != nil {
			return Value{}, convErr("date", string(b))
		}
		return Date(t), nil
	case "DATETIME", "TIMESTAMP":
		t, err := time.Parse(dateTimeLayout, string(b))
		if err != nil {
			return Value{}, convErr("datetime", string(b))
		}
		return DateTime(t), nil
	case "BIT":
		return Bytes(b), nil
	}
	// Text columns may arrive as raw bytes; keep them as a string whenever
	// the payload is valid UTF-8.
	s := string(b)
	if strings.ToValidUTF8(s, "") == s {
		return String(s), nil
	}
	return Bytes(b), nil
}

// parseWallClockTime parses a MySQL TIME text value. MySQL TIME spans
// -838:59:59 to 838:59:59; only wall-clock values in [00:00:00, 24:00:00)
// are representable here, anything else is a conversion error rather than a
// truncation.
func parseWallClockTime(s string) (Value, error) {
	orig := s
	if strings.HasPrefix(s, "-") {
		return Value{}, convErr("time (00:00:00 to 23:59:59)", orig)
	}

	var frac time.Duration
	if i := strings.IndexByte(s, '.'); i >= 0 {
		fracStr := s[i+1:]
		s = s[:i]
		// Fractional seconds come with up to 6 digits.
		for len(fracStr) < 6 {
			fracStr += "0"
		}
		micros, err := strconv.Atoi(fracStr[:6])
		if err != nil {
			return Value{}, convErr("time", orig)
		}
		frac = time.Duration(micros) * time.Microsecond
	}

	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return Value{}, convErr("time", orig)
	}
	hours, err1 := strconv.Atoi(parts[0])
	mins, err2 := strconv.Atoi(parts[1])
	secs, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return Value{}, convErr("time", orig)
	}
	if hours >= 24 {
		return Value{}, convErr("time (00:00:00 to 23:59:59)", orig)
	}
	if mins > 59 || secs > 59 {
		return Value{}, convErr("time", orig)
	}

	d := time.Duration(hours)*time.Hour +
		time.Duration(mins)*time.Minute +
		time.Duration(secs)*time.Second + frac
	return TimeOfDay(d), nil
}

func baseColumnType(typeName string) string {
	return strings.TrimPrefix(strings.ToUpper(typeName), "UNSIGNED ")
}

func isUnsignedColumn(typeName string) bool {
	return strings.HasPrefix(strings.ToUpper(typeName), "UNSIGNED ")
}

// driverArgs renders bound Values into driver-native arguments.
func driverArgs(params []Value) []any {
	args := make([]any, len(params))
	for i, p := range params {
		args[i] = driverArg(p)
	}
	return args
}

func driverArg(v Value) any {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.boolVal
	case KindI8, KindI16, KindI32, KindI64:
		return v.intVal
	case KindU8, KindU16, KindU32, KindU64:
		return v.uintVal
	case KindF32:
		return v.f32Val
	case KindF64:
		return v.f64Val
	case KindString:
		return v.strVal
	case KindBytes:
		return v.byteVal
	case KindDate:
		return v.timeVal.Format(dateLayout)
	case KindDateTime:
		return v.timeVal
	case KindTime:
		return formatWallClockTime(v.durVal)
	case KindDecimal:
		// Decimals travel in their exact string form.
		return v.decVal.String()
	case KindJSON:
		return string(v.jsonVal)
	}
	return nil
}

func formatWallClockTime(d time.Duration) string {
	hours := d / time.Hour
	d -= hours * time.Hour
	mins := d / time.Minute
	d -= mins * time.Minute
	secs := d / time.Second
	d -= secs * time.Second
	micros := d / time.Microsecond
	return fmt.Sprintf("%02d:%02d:%02d.%06d", hours, mins, secs, micros)
}
