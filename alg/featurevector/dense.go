// Package featurevector implements the score vectors accumulated by hypotheses.
//
// A Dense vector has a fixed layout decided once at startup: every feature
// function owns a contiguous range of slots. Vectors are owned by a single
// hypothesis; Copy must be used before branching.
package featurevector

import (
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

type Dense []float64

func NewDense(size int) Dense {
	return make(Dense, size)
}

func (v Dense) Copy() Dense {
	copied := make(Dense, len(v))
	copy(copied, v)
	return copied
}

// PlusEquals adds values component-wise into [offset, offset+len(values))
func (v Dense) PlusEquals(offset int, values []float64) {
	if offset < 0 || offset+len(values) > len(v) {
		panic(fmt.Sprintf("slot range [%d,%d) outside of vector of length %d", offset, offset+len(values), len(v)))
	}
	floats.Add(v[offset:offset+len(values)], values)
}

func (v Dense) PlusEqualsVector(other Dense) {
	if len(other) != len(v) {
		panic(fmt.Sprintf("can't add vectors of different lengths (%d vs %d)", len(v), len(other)))
	}
	floats.Add(v, other)
}

// InnerProduct is the weighted sum of the vector; weights must share its layout
func (v Dense) InnerProduct(weights Dense) float64 {
	if len(weights) != len(v) {
		panic(fmt.Sprintf("weights of length %d do not match vector of length %d", len(weights), len(v)))
	}
	if len(v) == 0 {
		return 0
	}
	return floats.Dot(v, weights)
}

func (v Dense) Slice(offset, size int) []float64 {
	return v[offset : offset+size]
}

func (v Dense) Equal(other Dense) bool {
	return floats.Equal(v, other)
}

func (v Dense) String() string {
	strs := make([]string, len(v))
	for i, val := range v {
		strs[i] = strconv.FormatFloat(val, 'g', -1, 64)
	}
	return strings.Join(strs, " ")
}
