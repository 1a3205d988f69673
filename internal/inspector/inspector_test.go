package inspector

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/shedskin-go/funxyc/internal/graph"
	"github.com/shedskin-go/funxyc/internal/lattice"
	"github.com/shedskin-go/funxyc/internal/span"
)

func TestDump_WritesNodesEdgesSitesAndInstantiations(t *testing.T) {
	classes := lattice.NewClassTable()
	intClass := &lattice.Class{Name: "Int", Methods: map[string]*lattice.MethodSig{}}
	list := &lattice.Class{Name: "List", Arity: 1, Methods: map[string]*lattice.MethodSig{}}
	classes.Define(intClass)
	classes.Define(list)

	g := graph.New(classes)
	src := g.NewNode(graph.KindExpr, span.None)
	g.Node(src).Seed(lattice.Type{Class: intClass})
	dst := g.NewNode(graph.KindLocal, span.None)
	g.AddEdge(src, dst, graph.TransformIdentity, 0)

	site := g.NewAllocSite(list)
	site.AddElement(0, lattice.Type{Class: intClass}, 0)

	path := filepath.Join(t.TempDir(), "graph.db")
	instantiations := map[string]string{"identity#Int": "Int"}
	if err := Dump(g, instantiations, path); err != nil {
		t.Fatalf("Dump returned error: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("opening dumped db: %v", err)
	}
	defer db.Close()

	var nodeCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM nodes").Scan(&nodeCount); err != nil {
		t.Fatalf("counting nodes: %v", err)
	}
	if nodeCount != g.NumNodes() {
		t.Errorf("node count = %d, want %d", nodeCount, g.NumNodes())
	}

	var edgeCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM edges").Scan(&edgeCount); err != nil {
		t.Fatalf("counting edges: %v", err)
	}
	if edgeCount != 1 {
		t.Errorf("edge count = %d, want 1", edgeCount)
	}

	var siteCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM alloc_sites").Scan(&siteCount); err != nil {
		t.Fatalf("counting alloc sites: %v", err)
	}
	if siteCount != 1 {
		t.Errorf("alloc site count = %d, want 1", siteCount)
	}

	var sig string
	if err := db.QueryRow("SELECT signature FROM instantiations WHERE id = ?", "identity#Int").Scan(&sig); err != nil {
		t.Fatalf("reading instantiation row: %v", err)
	}
	if sig != "Int" {
		t.Errorf("signature = %q, want Int", sig)
	}
}
