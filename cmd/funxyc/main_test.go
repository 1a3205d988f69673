package main

import (
	"errors"
	"testing"

	"github.com/shedskin-go/funxyc/internal/ast"
)

func TestRun_NoEntryArgument(t *testing.T) {
	if code := run(nil); code != 2 {
		t.Errorf("run with no entry module = %d, want 2", code)
	}
}

func TestRun_UnknownFlag(t *testing.T) {
	if code := run([]string{"--bogus-flag", "entry.py"}); code != 2 {
		t.Errorf("run with an unknown flag = %d, want 2", code)
	}
}

func TestRun_NoFrontendRegistered(t *testing.T) {
	if frontend != nil {
		t.Fatal("expected no frontend registered in this build")
	}
	if code := run([]string{"entry.py"}); code != 1 {
		t.Errorf("run with a valid entry but no frontend = %d, want 1", code)
	}
}

func TestRun_FrontendErrorPropagates(t *testing.T) {
	prev := frontend
	defer func() { frontend = prev }()

	frontend = func(path string) (*ast.Program, error) { return nil, errors.New("boom") }
	if code := run([]string{"entry.py"}); code != 1 {
		t.Errorf("run with a failing frontend = %d, want 1", code)
	}
}

func TestRun_EmptyProgramCompilesCleanly(t *testing.T) {
	prev := frontend
	defer func() { frontend = prev }()

	frontend = func(path string) (*ast.Program, error) {
		return &ast.Program{File: path}, nil
	}
	if code := run([]string{"--silent", "entry.py"}); code != 0 {
		t.Errorf("run on an empty program = %d, want 0", code)
	}
}
