// Package inspector writes a finished typed graph into a SQLite fact
// table (SPEC_FULL.md §4.12) for ad-hoc post-hoc querying, gated by the
// CLI's --graph-db flag. It runs strictly after the driver returns and
// is never consulted by the driver itself.
package inspector

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/shedskin-go/funxyc/internal/graph"
	"github.com/shedskin-go/funxyc/internal/lattice"
)

const schema = `
CREATE TABLE nodes (id INTEGER PRIMARY KEY, kind TEXT, type_set TEXT, span TEXT);
CREATE TABLE edges (src INTEGER, dst INTEGER, transform TEXT);
CREATE TABLE alloc_sites (id INTEGER PRIMARY KEY, class TEXT, element_types TEXT);
CREATE TABLE instantiations (id TEXT PRIMARY KEY, function TEXT, signature TEXT);
`

// Dump writes g's nodes, edges, and allocation sites into a fresh
// SQLite database at path (overwritten if it already exists).
// instantiations is keyed the same way internal/specialize keys its
// own instantiation cache, passed in by the caller rather than
// recomputed here since inspector has no reason to depend on
// internal/specialize's cache layout.
func Dump(g *graph.Graph, instantiations map[string]string, path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("inspector: opening %s: %w", path, err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("inspector: creating schema: %w", err)
	}

	for _, id := range g.AllNodeIDs() {
		n := g.Node(id)
		if _, err := db.Exec(`INSERT INTO nodes (id, kind, type_set, span) VALUES (?, ?, ?, ?)`,
			int(n.ID), n.Kind.String(), n.Types.String(), n.Span.String()); err != nil {
			return fmt.Errorf("inspector: inserting node %d: %w", n.ID, err)
		}
		for _, e := range n.Out {
			if e.Kind != graph.NodeEdge {
				continue
			}
			if _, err := db.Exec(`INSERT INTO edges (src, dst, transform) VALUES (?, ?, ?)`,
				int(n.ID), int(e.Dst), transformName(e.Transform)); err != nil {
				return fmt.Errorf("inspector: inserting edge %d->%d: %w", n.ID, e.Dst, err)
			}
		}
	}

	for _, s := range g.AllAllocSites() {
		if _, err := db.Exec(`INSERT INTO alloc_sites (id, class, element_types) VALUES (?, ?, ?)`,
			int(s.ID), s.Class.Name, elementTypesString(s)); err != nil {
			return fmt.Errorf("inspector: inserting alloc site %d: %w", s.ID, err)
		}
	}

	for id, sig := range instantiations {
		if _, err := db.Exec(`INSERT INTO instantiations (id, function, signature) VALUES (?, ?, ?)`,
			id, id, sig); err != nil {
			return fmt.Errorf("inspector: inserting instantiation %s: %w", id, err)
		}
	}

	return nil
}

func transformName(t graph.TransformKind) string {
	switch t {
	case graph.TransformIdentity:
		return "identity"
	case graph.TransformElementAt:
		return "element_at"
	default:
		return "unknown"
	}
}

func elementTypesString(s *lattice.AllocSite) string {
	out := ""
	for i, slot := range s.Elements {
		if i > 0 {
			out += "; "
		}
		out += slot.String()
	}
	return out
}
