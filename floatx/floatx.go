// Package floatx provides small helpers for slices of float64 used by the
// model packages. Shape violations are programmer errors and panic.
package floatx

import (
	"math"
)

type Error string

func (err Error) Error() string { return string(err) }

const (
	ErrZeroLength = Error("floatx: zero length in slice definition")
	ErrLength     = Error("floatx: length mismatch")
)

var Log = func(r int, v float64) float64 { return math.Log(v) }
var Exp = func(r int, v float64) float64 { return math.Exp(v) }
var Sq = func(r int, v float64) float64 { return v * v }
var Sqrt = func(r int, v float64) float64 { return math.Sqrt(v) }
var Inv = func(r int, v float64) float64 { return 1.0 / v }

func ScaleFunc(f float64) ApplyFunc {
	return func(r int, v float64) float64 { return v * f }
}
func SetValueFunc(f float64) ApplyFunc {
	return func(r int, v float64) float64 { return f }
}

type ApplyFunc func(n int, v float64) float64

// Apply function to 1D slice. If out slice is empty, the function is applied in place.
func Apply(fn ApplyFunc, in, out []float64) []float64 {

	n := len(in)
	if n == 0 {
		panic(ErrZeroLength)
	}
	if len(out) == 0 {
		out = in
	}
	if len(out) != n {
		panic(ErrLength)
	}
	for i := 0; i < n; i++ {
		out[i] = fn(i, in[i])
	}

	return out
}

func MakeFloat2D(n1, n2 int) [][]float64 {

	s := make([][]float64, n1)
	for i := 0; i < n1; i++ {
		s[i] = make([]float64, n2)
	}

	return s
}

func MakeFloat3D(n1, n2, n3 int) [][][]float64 {

	s := make([][][]float64, n1)
	for i := 0; i < n1; i++ {
		s[i] = MakeFloat2D(n2, n3)
	}

	return s
}

// Check2D returns the dimensions of a rectangular 2D slice.
func Check2D(s [][]float64) (n1, n2 int) {

	n1 = len(s)
	if n1 == 0 {
		panic(ErrZeroLength)
	}

	n2 = len(s[0])
	if n2 == 0 {
		panic(ErrZeroLength)
	}
	for _, row := range s {
		if len(row) != n2 {
			panic(ErrLength)
		}
	}

	return n1, n2
}

// Set all values to zero.
func Clear(s []float64) {

	Apply(SetValueFunc(0), s, nil)
}

// Set all values to zero.
func Clear2D(s [][]float64) {

	for _, slice := range s {
		Clear(slice)
	}
}
