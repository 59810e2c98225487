package types

import "github.com/apache/arrow-go/v18/arrow"

// DataType represents a column data type as seen by the operators.
type DataType uint8

const (
	TypeNull DataType = iota
	TypeUInt8
	TypeUInt16
	TypeUInt32
	TypeUInt64
	TypeInt8
	TypeInt16
	TypeInt32
	TypeInt64
	TypeFloat16
	TypeFloat32
	TypeFloat64
	TypeBool
	TypeString
	TypeBinary
	TypeOther // any Arrow type without a dedicated tag (timestamps, lists, ...)
)

// TypeInfo holds metadata about a data type.
type TypeInfo struct {
	Type      DataType
	Name      string
	FixedSize int // bytes per value; 0 for variable-length or non-primitive
}

var typeInfoList = []TypeInfo{
	{TypeNull, "Null", 0},
	{TypeUInt8, "UInt8", 1},
	{TypeUInt16, "UInt16", 2},
	{TypeUInt32, "UInt32", 4},
	{TypeUInt64, "UInt64", 8},
	{TypeInt8, "Int8", 1},
	{TypeInt16, "Int16", 2},
	{TypeInt32, "Int32", 4},
	{TypeInt64, "Int64", 8},
	{TypeFloat16, "Float16", 2},
	{TypeFloat32, "Float32", 4},
	{TypeFloat64, "Float64", 8},
	{TypeBool, "Bool", 0},
	{TypeString, "String", 0},
	{TypeBinary, "Binary", 0},
	{TypeOther, "Other", 0},
}

// TypeInfoMap maps DataType to its TypeInfo.
var TypeInfoMap map[DataType]TypeInfo

func init() {
	TypeInfoMap = make(map[DataType]TypeInfo, len(typeInfoList))
	for _, ti := range typeInfoList {
		TypeInfoMap[ti.Type] = ti
	}
}

// FromArrow maps an Arrow data type onto the operator type tags.
func FromArrow(dt arrow.DataType) DataType {
	if dt == nil {
		return TypeNull
	}
	switch dt.ID() {
	case arrow.NULL:
		return TypeNull
	case arrow.UINT8:
		return TypeUInt8
	case arrow.UINT16:
		return TypeUInt16
	case arrow.UINT32:
		return TypeUInt32
	case arrow.UINT64:
		return TypeUInt64
	case arrow.INT8:
		return TypeInt8
	case arrow.INT16:
		return TypeInt16
	case arrow.INT32:
		return TypeInt32
	case arrow.INT64:
		return TypeInt64
	case arrow.FLOAT16:
		return TypeFloat16
	case arrow.FLOAT32:
		return TypeFloat32
	case arrow.FLOAT64:
		return TypeFloat64
	case arrow.BOOL:
		return TypeBool
	case arrow.STRING, arrow.LARGE_STRING:
		return TypeString
	case arrow.BINARY, arrow.LARGE_BINARY:
		return TypeBinary
	default:
		return TypeOther
	}
}

// Name returns the string name of the DataType.
func (dt DataType) Name() string {
	if ti, ok := TypeInfoMap[dt]; ok {
		return ti.Name
	}
	return "Unknown"
}

func (dt DataType) String() string { return dt.Name() }

// FixedSize returns the byte size for fixed-size types, 0 otherwise.
func (dt DataType) FixedSize() int {
	if ti, ok := TypeInfoMap[dt]; ok {
		return ti.FixedSize
	}
	return 0
}

// IsNumeric returns true for the integer and float types aggregators accept.
func (dt DataType) IsNumeric() bool {
	return dt.IsInteger() || dt.IsFloat()
}

// IsInteger returns true for signed and unsigned integer types.
func (dt DataType) IsInteger() bool {
	switch dt {
	case TypeUInt8, TypeUInt16, TypeUInt32, TypeUInt64,
		TypeInt8, TypeInt16, TypeInt32, TypeInt64:
		return true
	}
	return false
}

// IsUnsigned returns true for unsigned integer types.
func (dt DataType) IsUnsigned() bool {
	switch dt {
	case TypeUInt8, TypeUInt16, TypeUInt32, TypeUInt64:
		return true
	}
	return false
}

// IsFloat returns true for floating point types.
func (dt DataType) IsFloat() bool {
	switch dt {
	case TypeFloat16, TypeFloat32, TypeFloat64:
		return true
	}
	return false
}
