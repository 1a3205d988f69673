package emitrpc

import (
	"testing"

	"github.com/shedskin-go/funxyc/internal/lattice"
)

func TestLoadSchema_FindsExpectedMessagesAndService(t *testing.T) {
	d, err := LoadSchema()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.instantiation == nil {
		t.Error("expected Instantiation message descriptor")
	}
	if d.classInfo == nil {
		t.Error("expected ClassInfo message descriptor")
	}
	if d.chunk == nil {
		t.Error("expected TypedGraphChunk message descriptor")
	}
	if d.typeRef == nil {
		t.Error("expected TypeRef message descriptor")
	}
	if d.empty == nil {
		t.Error("expected Empty message descriptor")
	}
	if d.service == nil {
		t.Fatal("expected TypedGraphService descriptor")
	}
	if d.service.GetName() != "TypedGraphService" {
		t.Errorf("service name = %q, want TypedGraphService", d.service.GetName())
	}
	methods := d.service.GetMethods()
	if len(methods) != 1 || methods[0].GetName() != "FetchTypedGraph" {
		t.Errorf("expected a single FetchTypedGraph method, got %v", methods)
	}
}

func TestTypeRefOf_ScalarAndContainer(t *testing.T) {
	d, err := LoadSchema()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	intClass := &lattice.Class{Name: "Int"}
	scalar := TypeRefOf(d, lattice.Type{Class: intClass})
	name, err := scalar.TryGetFieldByName("class_name")
	if err != nil {
		t.Fatalf("reading class_name: %v", err)
	}
	if name != "Int" {
		t.Errorf("class_name = %v, want Int", name)
	}

	list := &lattice.Class{Name: "List", Arity: 1}
	site := lattice.NewAllocSite(1, list)
	site.AddElement(0, lattice.Type{Class: intClass}, 0)

	ref := TypeRefOf(d, lattice.Type{Class: list, Site: site})
	elements, err := ref.TryGetFieldByName("elements")
	if err != nil {
		t.Fatalf("reading elements: %v", err)
	}
	asSlice, ok := elements.([]any)
	if !ok || len(asSlice) != 1 {
		t.Fatalf("expected exactly one nested element ref, got %#v", elements)
	}
}

func TestTypeRefOf_Bottom(t *testing.T) {
	d, err := LoadSchema()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ref := TypeRefOf(d, lattice.Bottom)
	name, err := ref.TryGetFieldByName("class_name")
	if err != nil {
		t.Fatalf("reading class_name: %v", err)
	}
	if name != "<bottom>" {
		t.Errorf("class_name = %v, want <bottom>", name)
	}
}
