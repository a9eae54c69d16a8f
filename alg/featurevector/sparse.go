package featurevector

import (
	"fmt"
	"sort"
	"strings"
)

// Sparse holds named score components that have no slot in the dense layout
type Sparse map[string]float64

func (v Sparse) Copy() Sparse {
	copied := make(Sparse, len(v))
	for k, val := range v {
		copied[k] = val
	}
	return copied
}

func (v Sparse) Add(other Sparse) Sparse {
	return v.Copy().UpdateAdd(other)
}

// UpdateAdd adds other into v in place; components that cancel out are removed
func (v Sparse) UpdateAdd(other Sparse) Sparse {
	if other == nil {
		return v
	}
	var val float64
	for key, otherVal := range other {
		// v[key] == 0 if v[key] does not exist
		val = v[key] + otherVal
		if val != 0.0 {
			v[key] = val
		} else {
			delete(v, key)
		}
	}
	return v
}

func (v Sparse) DotProduct(other Sparse) float64 {
	var result float64
	for key, val := range other {
		result += v[key] * val
	}
	return result
}

func (v Sparse) Equal(other Sparse) bool {
	if len(v) != len(other) {
		return false
	}
	for key, val := range v {
		if otherVal, exists := other[key]; !exists || otherVal != val {
			return false
		}
	}
	return true
}

func (v Sparse) Keys() []string {
	keys := make([]string, 0, len(v))
	for key := range v {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (v Sparse) String() string {
	keys := v.Keys()
	strs := make([]string, len(keys))
	for i, key := range keys {
		strs[i] = fmt.Sprintf("%s=%v", key, v[key])
	}
	return strings.Join(strs, " ")
}

func NewSparse() Sparse {
	return make(Sparse)
}
