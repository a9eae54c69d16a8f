package featurevector

import "testing"

func TestSparseUpdateAdd(t *testing.T) {
	v := Sparse{"a": 1, "b": 2}
	v.UpdateAdd(Sparse{"a": -1, "c": 3})
	if _, exists := v["a"]; exists {
		t.Error("Expected cancelled component to be removed")
	}
	if v["b"] != 2 || v["c"] != 3 {
		t.Error("Got", v)
	}
	if v.UpdateAdd(nil).String() != "b=2 c=3" {
		t.Error("Adding nil changed vector", v)
	}
}

func TestSparseAddDoesNotMutate(t *testing.T) {
	v := Sparse{"a": 1}
	sum := v.Add(Sparse{"a": 1})
	if v["a"] != 1 || sum["a"] != 2 {
		t.Error("Got", v, sum)
	}
}

func TestSparseDotProduct(t *testing.T) {
	v := Sparse{"a": 2, "b": 3}
	w := Sparse{"a": 0.5, "z": 10}
	if result := v.DotProduct(w); result != 1 {
		t.Error("Got", result, "expected", 1)
	}
}
