package diagnostics

import (
	"testing"

	"github.com/shedskin-go/funxyc/internal/span"
)

func TestBag_FatalKindsSetFlag(t *testing.T) {
	b := NewBag()
	b.Add(span.None, TypeConflict, "int vs string")
	if b.IsFatal() {
		t.Fatal("non-fatal kind must not set the fatal flag")
	}
	b.Fatal(span.None, UnsupportedConstruct, "decorators are not supported")
	if !b.IsFatal() {
		t.Fatal("expected Fatal to set the fatal flag")
	}
	if b.Count() != 2 {
		t.Errorf("Count() = %d, want 2", b.Count())
	}
}

func TestKind_String(t *testing.T) {
	if InferenceFailure.String() != "cannot infer type" {
		t.Errorf("unexpected string for InferenceFailure: %s", InferenceFailure.String())
	}
}
