package codegen

import (
	"strings"

	"godbi/schema"
)

// TypeKind enumerates the native types a column can map to.
type TypeKind int

const (
	TypeBool TypeKind = iota
	TypeI8
	TypeI16
	TypeI32
	TypeI64
	TypeU8
	TypeU16
	TypeU32
	TypeU64
	TypeF32
	TypeF64
	TypeString
	TypeBytes
	TypeDate
	TypeDateTime
	TypeTime
	TypeDecimal
	TypeJSON
	TypeEnum
)

// NativeType is the generator's view of a column's Go type. Optional
// represents SQL nullability and never nests.
type NativeType struct {
	Kind     TypeKind
	EnumName string
	Optional bool
}

// resolveType maps a column's declared MySQL type to its native type.
// The mapping is total: unrecognized types fall back to string.
func resolveType(col schema.Column, tableName string) NativeType {
	t := resolveBaseType(col, tableName)
	t.Optional = col.Nullable
	return t
}

func resolveBaseType(col schema.Column, tableName string) NativeType {
	// An explicit enum-values list always wins, whatever the raw type
	// string looks like.
	if col.IsEnum() {
		return NativeType{Kind: TypeEnum, EnumName: enumName(tableName, col.Name)}
	}

	dt := strings.ToLower(strings.TrimSpace(col.DataType))

	if isBooleanType(dt) {
		return NativeType{Kind: TypeBool}
	}

	switch {
	case strings.HasPrefix(dt, "tinyint"):
		return unsignedOr(col, TypeU8, TypeI8)
	case strings.HasPrefix(dt, "smallint"):
		return unsignedOr(col, TypeU16, TypeI16)
	case strings.HasPrefix(dt, "mediumint"), strings.HasPrefix(dt, "int"):
		return unsignedOr(col, TypeU32, TypeI32)
	case strings.HasPrefix(dt, "bigint"):
		return unsignedOr(col, TypeU64, TypeI64)
	case strings.HasPrefix(dt, "float"):
		return NativeType{Kind: TypeF32}
	case strings.HasPrefix(dt, "double"), strings.HasPrefix(dt, "real"):
		return NativeType{Kind: TypeF64}
	case strings.HasPrefix(dt, "decimal"), strings.HasPrefix(dt, "numeric"):
		return NativeType{Kind: TypeDecimal}
	case strings.HasPrefix(dt, "char"), strings.HasPrefix(dt, "varchar"),
		strings.Contains(dt, "text"), strings.HasPrefix(dt, "enum"),
		strings.HasPrefix(dt, "set"):
		return NativeType{Kind: TypeString}
	case strings.HasPrefix(dt, "binary"), strings.HasPrefix(dt, "varbinary"),
		strings.Contains(dt, "blob"):
		return NativeType{Kind: TypeBytes}
	case strings.HasPrefix(dt, "bit"):
		// bit(1) was handled as boolean above.
		return NativeType{Kind: TypeBytes}
	case dt == "date":
		return NativeType{Kind: TypeDate}
	case strings.HasPrefix(dt, "datetime"), strings.HasPrefix(dt, "timestamp"):
		return NativeType{Kind: TypeDateTime}
	case dt == "time" || strings.HasPrefix(dt, "time("):
		return NativeType{Kind: TypeTime}
	case dt == "json":
		return NativeType{Kind: TypeJSON}
	case strings.HasPrefix(dt, "geometrycollection"), strings.HasPrefix(dt, "geometry"),
		strings.HasPrefix(dt, "point"), strings.HasPrefix(dt, "linestring"),
		strings.HasPrefix(dt, "polygon"), strings.HasPrefix(dt, "multi"):
		return NativeType{Kind: TypeBytes}
	}

	return NativeType{Kind: TypeString}
}

func unsignedOr(col schema.Column, unsigned, signed TypeKind) NativeType {
	if col.Unsigned {
		return NativeType{Kind: unsigned}
	}
	return NativeType{Kind: signed}
}

func isBooleanType(dt string) bool {
	if dt == "bool" || dt == "boolean" {
		return true
	}
	// TINYINT(1) and BIT(1) carry boolean intent in MySQL.
	if strings.HasPrefix(dt, "tinyint") && strings.Contains(dt, "(1)") {
		return true
	}
	if strings.HasPrefix(dt, "bit") && strings.Contains(dt, "(1)") {
		return true
	}
	return false
}

// Inner returns the type without the Optional wrapper.
func (t NativeType) Inner() NativeType {
	t.Optional = false
	return t
}

// GoType renders the field/parameter type. Nullable columns use pointer
// types, except byte slices and JSON documents which are already nilable.
func (t NativeType) GoType() string {
	base := t.baseGoType()
	if t.Optional && t.Kind != TypeBytes && t.Kind != TypeJSON {
		return "*" + base
	}
	return base
}

func (t NativeType) baseGoType() string {
	switch t.Kind {
	case TypeBool:
		return "bool"
	case TypeI8:
		return "int8"
	case TypeI16:
		return "int16"
	case TypeI32:
		return "int32"
	case TypeI64:
		return "int64"
	case TypeU8:
		return "uint8"
	case TypeU16:
		return "uint16"
	case TypeU32:
		return "uint32"
	case TypeU64:
		return "uint64"
	case TypeF32:
		return "float32"
	case TypeF64:
		return "float64"
	case TypeString:
		return "string"
	case TypeBytes:
		return "[]byte"
	case TypeDate, TypeDateTime:
		return "time.Time"
	case TypeTime:
		return "time.Duration"
	case TypeDecimal:
		return "decimal.Decimal"
	case TypeJSON:
		return "json.RawMessage"
	case TypeEnum:
		return t.EnumName
	}
	return "string"
}

// NeedsTime reports whether the rendered type references the time package.
func (t NativeType) NeedsTime() bool {
	return t.Kind == TypeDate || t.Kind == TypeDateTime || t.Kind == TypeTime
}

// NeedsDecimal reports whether the rendered type references the decimal
// package.
func (t NativeType) NeedsDecimal() bool {
	return t.Kind == TypeDecimal
}

// NeedsJSON reports whether the rendered type references encoding/json.
func (t NativeType) NeedsJSON() bool {
	return t.Kind == TypeJSON
}

// getterSuffix names the typed row accessor for this type, e.g. "Int64" for
// godbi.GetInt64 / godbi.GetNullInt64. Enums decode through their string
// form and are handled by the generator directly.
func (t NativeType) getterSuffix() string {
	switch t.Kind {
	case TypeBool:
		return "Bool"
	case TypeI8:
		return "Int8"
	case TypeI16:
		return "Int16"
	case TypeI32:
		return "Int32"
	case TypeI64:
		return "Int64"
	case TypeU8:
		return "Uint8"
	case TypeU16:
		return "Uint16"
	case TypeU32:
		return "Uint32"
	case TypeU64:
		return "Uint64"
	case TypeF32:
		return "Float32"
	case TypeF64:
		return "Float64"
	case TypeString:
		return "String"
	case TypeBytes:
		return "Bytes"
	case TypeDate:
		return "Date"
	case TypeDateTime:
		return "DateTime"
	case TypeTime:
		return "Time"
	case TypeDecimal:
		return "Decimal"
	case TypeJSON:
		return "JSON"
	}
	return "String"
}

// valueCtor names the godbi Value constructor for this type's non-optional
// form. Enums are handled by the generator (they carry their own ToValue).
func (t NativeType) valueCtor() string {
	switch t.Kind {
	case TypeBool:
		return "godbi.Bool"
	case TypeI8:
		return "godbi.I8"
	case TypeI16:
		return "godbi.I16"
	case TypeI32:
		return "godbi.I32"
	case TypeI64:
		return "godbi.I64"
	case TypeU8:
		return "godbi.U8"
	case TypeU16:
		return "godbi.U16"
	case TypeU32:
		return "godbi.U32"
	case TypeU64:
		return "godbi.U64"
	case TypeF32:
		return "godbi.F32"
	case TypeF64:
		return "godbi.F64"
	case TypeString:
		return "godbi.String"
	case TypeBytes:
		return "godbi.Bytes"
	case TypeDate:
		return "godbi.Date"
	case TypeDateTime:
		return "godbi.DateTime"
	case TypeTime:
		return "godbi.TimeOfDay"
	case TypeDecimal:
		return "godbi.Decimal"
	case TypeJSON:
		return "godbi.JSON"
	}
	return "godbi.String"
}
