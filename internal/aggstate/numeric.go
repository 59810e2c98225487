package aggstate

import "github.com/apache/arrow-go/v18/arrow/array"

type number interface {
	~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// values is the read side shared by the typed Arrow arrays.
type values[T number] interface {
	Len() int
	IsNull(i int) bool
	Value(i int) T
}

func reduce[T number](a values[T], op Op) (T, int64) {
	var acc T
	var n int64
	for i := 0; i < a.Len(); i++ {
		if a.IsNull(i) {
			continue
		}
		v := a.Value(i)
		switch {
		case n == 0:
			acc = v
		case op == OpSum:
			acc += v
		case op == OpMin && v < acc:
			acc = v
		case op == OpMax && v > acc:
			acc = v
		}
		n++
	}
	return acc, n
}

func sumFloat[T number](a values[T]) (float64, int64) {
	var sum float64
	var n int64
	for i := 0; i < a.Len(); i++ {
		if a.IsNull(i) {
			continue
		}
		sum += float64(a.Value(i))
		n++
	}
	return sum, n
}

// float16Values widens half-precision values to float32.
type float16Values struct{ a *array.Float16 }

func (f float16Values) Len() int            { return f.a.Len() }
func (f float16Values) IsNull(i int) bool   { return f.a.IsNull(i) }
func (f float16Values) Value(i int) float32 { return f.a.Value(i).Float32() }
