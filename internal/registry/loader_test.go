package registry

import "testing"

func TestLoad_DefinesScalarClasses(t *testing.T) {
	table, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, name := range []string{"Bool", "Int", "Float", "Object", "NoneType", "Str", "Bytes"} {
		if _, ok := table.Lookup(name); !ok {
			t.Errorf("expected class %q to be defined", name)
		}
	}
}

func TestLoad_ContainerArityFromTypeParams(t *testing.T) {
	table, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	list, ok := table.Lookup("List")
	if !ok {
		t.Fatal("expected List to be defined")
	}
	if list.Arity != 1 {
		t.Errorf("List arity = %d, want 1", list.Arity)
	}
	dict, ok := table.Lookup("Dict")
	if !ok {
		t.Fatal("expected Dict to be defined")
	}
	if dict.Arity != 2 {
		t.Errorf("Dict arity = %d, want 2", dict.Arity)
	}
}

func TestLoad_ResolvesBasesAndMRO(t *testing.T) {
	table, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	valueError, ok := table.Lookup("ValueError")
	if !ok {
		t.Fatal("expected ValueError to be defined")
	}
	object, ok := table.Lookup("Object")
	if !ok {
		t.Fatal("expected Object to be defined")
	}
	if !table.IsSubclass(valueError, object) {
		t.Error("expected ValueError to be a subclass of Object via Exception/BaseException")
	}
}

func TestLoad_ResolvesMethods(t *testing.T) {
	table, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	intClass, ok := table.Lookup("Int")
	if !ok {
		t.Fatal("expected Int to be defined")
	}
	sig, owner, ok := table.ResolveMethod(intClass, "+")
	if !ok {
		t.Fatal("expected Int to resolve method +")
	}
	if owner != intClass {
		t.Errorf("expected + to be defined directly on Int, got %s", owner.Name)
	}
	if len(sig.ParamKinds) != 1 {
		t.Errorf("+ param count = %d, want 1", len(sig.ParamKinds))
	}
}
