package model

import "testing"

func TestBaseEstimatorLifecycle(t *testing.T) {
	var e BaseEstimator

	if e.IsFitted() {
		t.Fatal("zero value should not be fitted")
	}

	e.SetFitted(10, 3)
	if !e.IsFitted() {
		t.Fatal("expected fitted after SetFitted")
	}
	if e.NSamples() != 10 || e.NFeatures() != 3 {
		t.Errorf("shape = (%d, %d), want (10, 3)", e.NSamples(), e.NFeatures())
	}

	e.Reset()
	if e.IsFitted() || e.NSamples() != 0 || e.NFeatures() != 0 {
		t.Error("Reset should clear state and shape")
	}
}
