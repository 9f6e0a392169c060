// runtime checked numeric conversion for dynamically typed input

package as

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"

	"github.com/trim21/errgo"
	"golang.org/x/exp/constraints"
)

var ErrNotNumber = errors.New("value is not a number")
var ErrOverflow = errors.New("value does not fit in target type")

// Number converts v to T.
// v may be any Go integer or float kind, or a json.Number.
// NaN is rejected since it has no place in a total order.
func Number[T constraints.Integer | constraints.Float](v any) (T, error) {
	var zero T

	if n, ok := v.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			return fromInt[T](i)
		}

		f, err := n.Float64()
		if err != nil {
			return zero, errgo.Wrap(ErrNotNumber, fmt.Sprintf("%q", n.String()))
		}

		return fromFloat[T](f)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() { //nolint:exhaustive
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Int:
		return fromInt[T](rv.Int())
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint, reflect.Uintptr:
		return fromUint[T](rv.Uint())
	case reflect.Float32, reflect.Float64:
		return fromFloat[T](rv.Float())
	default:
		return zero, errgo.Wrap(ErrNotNumber, fmt.Sprintf("%T", v))
	}
}

func isFloat[T constraints.Integer | constraints.Float]() bool {
	var half T = 1
	half /= 2

	return half > 0
}

func fromInt[T constraints.Integer | constraints.Float](i int64) (T, error) {
	out := T(i)
	if isFloat[T]() {
		return out, nil
	}

	if int64(out) != i || (out < 0) != (i < 0) {
		return 0, errgo.Wrap(ErrOverflow, fmt.Sprintf("%d overflow %T", i, out))
	}

	return out, nil
}

func fromUint[T constraints.Integer | constraints.Float](u uint64) (T, error) {
	out := T(u)
	if isFloat[T]() {
		return out, nil
	}

	if uint64(out) != u || out < 0 {
		return 0, errgo.Wrap(ErrOverflow, fmt.Sprintf("%d overflow %T", u, out))
	}

	return out, nil
}

func fromFloat[T constraints.Integer | constraints.Float](f float64) (T, error) {
	if math.IsNaN(f) {
		return 0, errgo.Wrap(ErrNotNumber, "NaN")
	}

	if isFloat[T]() {
		out := T(f)
		if !math.IsInf(f, 0) && math.IsInf(float64(out), 0) {
			return 0, errgo.Wrap(ErrOverflow, fmt.Sprintf("%g overflow %T", f, out))
		}

		return out, nil
	}

	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, errgo.Wrap(ErrOverflow, fmt.Sprintf("%g is not an integer", f))
	}

	if f >= 0 {
		if f >= 1<<64 {
			return 0, errgo.Wrap(ErrOverflow, fmt.Sprintf("%g overflow uint64", f))
		}

		return fromUint[T](uint64(f))
	}

	if f < -(1 << 63) {
		return 0, errgo.Wrap(ErrOverflow, fmt.Sprintf("%g overflow int64", f))
	}

	return fromInt[T](int64(f))
}
