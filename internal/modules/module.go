// Package modules discovers the entry module and resolves its import
// list transitively into the ordered module set the builder walks
// (spec.md §3 "Module"; SPEC_FULL.md §4.8).
package modules

import "github.com/shedskin-go/funxyc/internal/ast"

// Module is one resolved source file's worth of program plus its
// position in the import graph. Unlike the teacher's funxy, this
// compiler's "one module" is "one Python-style source file" — there is
// no package-group or re-export machinery, only straight-line imports.
type Module struct {
	Path    string
	Program *ast.Program
	Imports []*Module

	// Lifecycle flags for a headers-then-bodies pass. Neither the
	// loader nor the builder reads or sets them; the loader guards
	// against import cycles with its own path cache instead.
	HeadersAnalyzed  bool
	HeadersAnalyzing bool
	BodiesAnalyzed   bool
	BodiesAnalyzing  bool
}

func (m *Module) IsHeadersAnalyzed() bool  { return m.HeadersAnalyzed }
func (m *Module) SetHeadersAnalyzed(v bool) { m.HeadersAnalyzed = v }
func (m *Module) IsHeadersAnalyzing() bool  { return m.HeadersAnalyzing }
func (m *Module) SetHeadersAnalyzing(v bool) { m.HeadersAnalyzing = v }
func (m *Module) IsBodiesAnalyzed() bool  { return m.BodiesAnalyzed }
func (m *Module) SetBodiesAnalyzed(v bool) { m.BodiesAnalyzed = v }
func (m *Module) IsBodiesAnalyzing() bool  { return m.BodiesAnalyzing }
func (m *Module) SetBodiesAnalyzing(v bool) { m.BodiesAnalyzing = v }
