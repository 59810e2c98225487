package types

import (
	"errors"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow/float16"
)

var (
	// ErrTypeMismatch is returned when two scalars with different tags are combined.
	ErrTypeMismatch = errors.New("scalar type mismatch")
	// ErrDivideByZero is returned by integer division with a zero divisor.
	ErrDivideByZero = errors.New("scalar division by zero")
)

// Scalar is a single typed value or null. The tag is one of the numeric
// DataTypes or TypeNull; exactly one payload field is meaningful per tag.
// The zero value is null.
type Scalar struct {
	typ DataType
	i   int64
	u   uint64
	f   float64
}

func Null() Scalar { return Scalar{typ: TypeNull} }

func Int8(v int8) Scalar       { return Scalar{typ: TypeInt8, i: int64(v)} }
func Int16(v int16) Scalar     { return Scalar{typ: TypeInt16, i: int64(v)} }
func Int32(v int32) Scalar     { return Scalar{typ: TypeInt32, i: int64(v)} }
func Int64(v int64) Scalar     { return Scalar{typ: TypeInt64, i: v} }
func UInt8(v uint8) Scalar     { return Scalar{typ: TypeUInt8, u: uint64(v)} }
func UInt16(v uint16) Scalar   { return Scalar{typ: TypeUInt16, u: uint64(v)} }
func UInt32(v uint32) Scalar   { return Scalar{typ: TypeUInt32, u: uint64(v)} }
func UInt64(v uint64) Scalar   { return Scalar{typ: TypeUInt64, u: v} }
func Float32(v float32) Scalar { return Scalar{typ: TypeFloat32, f: float64(v)} }
func Float64(v float64) Scalar { return Scalar{typ: TypeFloat64, f: v} }

// Float16 rounds v to half precision.
func Float16(v float32) Scalar {
	return Scalar{typ: TypeFloat16, f: float64(float16.New(v).Float32())}
}

// Type returns the scalar's tag.
func (s Scalar) Type() DataType { return s.typ }

// IsNull reports whether s is the null (unknown) scalar.
func (s Scalar) IsNull() bool { return s.typ == TypeNull }

// Value returns the payload as its native Go type (float16.Num for Float16),
// or nil for null.
func (s Scalar) Value() any {
	switch s.typ {
	case TypeInt8:
		return int8(s.i)
	case TypeInt16:
		return int16(s.i)
	case TypeInt32:
		return int32(s.i)
	case TypeInt64:
		return s.i
	case TypeUInt8:
		return uint8(s.u)
	case TypeUInt16:
		return uint16(s.u)
	case TypeUInt32:
		return uint32(s.u)
	case TypeUInt64:
		return s.u
	case TypeFloat16:
		return float16.New(float32(s.f))
	case TypeFloat32:
		return float32(s.f)
	case TypeFloat64:
		return s.f
	default:
		return nil
	}
}

// Float64 converts a numeric scalar to float64 for arithmetic.
func (s Scalar) Float64() (float64, error) {
	switch {
	case s.typ.IsFloat():
		return s.f, nil
	case s.typ.IsUnsigned():
		return float64(s.u), nil
	case s.typ.IsInteger():
		return float64(s.i), nil
	default:
		return 0, fmt.Errorf("cannot convert %s to float64", s.typ.Name())
	}
}

// CastFloat64 promotes a numeric scalar to Float64. Null stays null.
func (s Scalar) CastFloat64() (Scalar, error) {
	if s.IsNull() {
		return s, nil
	}
	f, err := s.Float64()
	if err != nil {
		return Null(), err
	}
	return Float64(f), nil
}

// Add returns s + o. Null is the neutral element. Integer addition wraps
// at the tag's width.
func (s Scalar) Add(o Scalar) (Scalar, error) {
	if s.IsNull() {
		return o, nil
	}
	if o.IsNull() {
		return s, nil
	}
	if s.typ != o.typ {
		return Null(), fmt.Errorf("add %s and %s: %w", s.typ.Name(), o.typ.Name(), ErrTypeMismatch)
	}
	switch s.typ {
	case TypeInt8:
		return Int8(int8(s.i + o.i)), nil
	case TypeInt16:
		return Int16(int16(s.i + o.i)), nil
	case TypeInt32:
		return Int32(int32(s.i + o.i)), nil
	case TypeInt64:
		return Int64(s.i + o.i), nil
	case TypeUInt8:
		return UInt8(uint8(s.u + o.u)), nil
	case TypeUInt16:
		return UInt16(uint16(s.u + o.u)), nil
	case TypeUInt32:
		return UInt32(uint32(s.u + o.u)), nil
	case TypeUInt64:
		return UInt64(s.u + o.u), nil
	case TypeFloat16:
		return Float16(float32(s.f) + float32(o.f)), nil
	case TypeFloat32:
		return Float32(float32(s.f) + float32(o.f)), nil
	case TypeFloat64:
		return Float64(s.f + o.f), nil
	default:
		return Null(), fmt.Errorf("add %s: %w", s.typ.Name(), ErrTypeMismatch)
	}
}

// Div returns s / o for matching tags. Integer division truncates.
func (s Scalar) Div(o Scalar) (Scalar, error) {
	if s.IsNull() || o.IsNull() {
		return Null(), nil
	}
	if s.typ != o.typ {
		return Null(), fmt.Errorf("divide %s by %s: %w", s.typ.Name(), o.typ.Name(), ErrTypeMismatch)
	}
	if s.typ.IsInteger() && o.i == 0 && o.u == 0 {
		return Null(), ErrDivideByZero
	}
	switch s.typ {
	case TypeInt8:
		return Int8(int8(s.i / o.i)), nil
	case TypeInt16:
		return Int16(int16(s.i / o.i)), nil
	case TypeInt32:
		return Int32(int32(s.i / o.i)), nil
	case TypeInt64:
		return Int64(s.i / o.i), nil
	case TypeUInt8:
		return UInt8(uint8(s.u / o.u)), nil
	case TypeUInt16:
		return UInt16(uint16(s.u / o.u)), nil
	case TypeUInt32:
		return UInt32(uint32(s.u / o.u)), nil
	case TypeUInt64:
		return UInt64(s.u / o.u), nil
	case TypeFloat16:
		return Float16(float32(s.f) / float32(o.f)), nil
	case TypeFloat32:
		return Float32(float32(s.f) / float32(o.f)), nil
	case TypeFloat64:
		return Float64(s.f / o.f), nil
	default:
		return Null(), fmt.Errorf("divide %s: %w", s.typ.Name(), ErrTypeMismatch)
	}
}

// Compare compares two non-null scalars of the same tag.
// Returns -1 if s < o, 0 if s == o, 1 if s > o.
func (s Scalar) Compare(o Scalar) (int, error) {
	if s.typ != o.typ || s.IsNull() {
		return 0, fmt.Errorf("compare %s and %s: %w", s.typ.Name(), o.typ.Name(), ErrTypeMismatch)
	}
	switch {
	case s.typ.IsFloat():
		return cmpOrdered(s.f, o.f), nil
	case s.typ.IsUnsigned():
		return cmpOrdered(s.u, o.u), nil
	default:
		return cmpOrdered(s.i, o.i), nil
	}
}

// Min returns the smaller of s and o; a null side yields the other.
func (s Scalar) Min(o Scalar) (Scalar, error) {
	return s.pick(o, -1)
}

// Max returns the larger of s and o; a null side yields the other.
func (s Scalar) Max(o Scalar) (Scalar, error) {
	return s.pick(o, 1)
}

func (s Scalar) pick(o Scalar, want int) (Scalar, error) {
	if s.IsNull() {
		return o, nil
	}
	if o.IsNull() {
		return s, nil
	}
	c, err := s.Compare(o)
	if err != nil {
		return Null(), err
	}
	if c == want || c == 0 {
		return s, nil
	}
	return o, nil
}

func (s Scalar) String() string {
	if s.IsNull() {
		return "NULL"
	}
	return fmt.Sprintf("%s(%v)", s.typ.Name(), s.Value())
}

type ordered interface {
	~uint64 | ~int64 | ~float64
}

func cmpOrdered[T ordered](a, b T) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}
