// Command funxyc drives the type-inference core end to end: resolve
// configuration, build and solve the constraint graph for an already-
// parsed entry module, render diagnostics, and hand the finished typed
// graph to an emitter (in-process, over gRPC, or dumped to a SQLite
// inspector database).
//
// Lexing and parsing are explicitly out of scope for this tool (spec.md
// §1 "a syntax tree is assumed available") — funxyc expects a Frontend
// to have already turned source text into an *ast.Program. Wiring a
// concrete front end (the original shedskin tool's own Python lexer/
// parser, translated or otherwise) is left to the embedding program;
// the package-level frontend variable (of type Frontend) is funxyc's
// integration seam for it.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/shedskin-go/funxyc/internal/ast"
	"github.com/shedskin-go/funxyc/internal/config"
	"github.com/shedskin-go/funxyc/internal/driver"
)

// Frontend turns source text at path into a parsed module. funxyc
// ships no implementation — see the package doc comment.
type Frontend func(path string) (*ast.Program, error)

var frontend Frontend

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("funxyc", flag.ContinueOnError)
	debug := fs.Int("d", 0, "debug level 0-3 (alias --debug)")
	fs.IntVar(debug, "debug", 0, "debug level 0-3")
	width := fs.Int("w", 64, "integer width, 32 or 64 (alias --width)")
	fs.IntVar(width, "width", 64, "integer width, 32 or 64")
	nobounds := fs.Bool("b", false, "assume bounds already checked (alias --nobounds)")
	fs.BoolVar(nobounds, "nobounds", false, "assume bounds already checked")
	noassert := fs.Bool("n", false, "disable assertions (alias --noassert)")
	fs.BoolVar(noassert, "noassert", false, "disable assertions")
	silent := fs.Bool("s", false, "suppress the summary line (alias --silent)")
	fs.BoolVar(silent, "silent", false, "suppress the summary line")
	graphDB := fs.String("graph-db", "", "dump the finished typed graph to this SQLite file")
	emitRPC := fs.String("emit-rpc", "", "serve the finished typed graph over gRPC at this address")
	cfgPath := fs.String("config", "funxyc.yaml", "project configuration file")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: funxyc [flags] <entry-module>")
		return 2
	}
	entry := fs.Arg(0)

	iw := config.IntegerWidth(*width)
	assertions := !*noassert
	bounds := *nobounds
	passed := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { passed[f.Name] = true })
	flags := config.Flags{
		GraphDB: *graphDB,
		EmitRPC: *emitRPC,
		Silent:  *silent,
	}
	if passed["w"] || passed["width"] {
		flags.IntegerWidth = &iw
	}
	if passed["b"] || passed["nobounds"] {
		flags.AssumeBoundsChecked = &bounds
	}
	if passed["n"] || passed["noassert"] {
		flags.AssertionsEnabled = &assertions
	}
	if passed["d"] || passed["debug"] {
		flags.DebugLevel = debug
	}
	cfg, err := config.Resolve(*cfgPath, flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "funxyc: %v\n", err)
		return 1
	}

	if frontend == nil {
		fmt.Fprintln(os.Stderr, "funxyc: no front end registered — this build only exercises the inference core")
		return 1
	}

	prog, err := frontend(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "funxyc: %v\n", err)
		return 1
	}

	res, err := driver.Run(prog, cfg)
	if res != nil && !res.Diags.Empty() {
		res.Diags.Render(os.Stderr)
	}
	if err != nil {
		return 1
	}

	if !cfg.Silent {
		fmt.Printf("funxyc: %s nodes, %s propagation visits, %d iteration(s)\n",
			humanize.Comma(int64(res.Graph.NumNodes())),
			humanize.Comma(int64(res.PropVisits)),
			res.Iterations)
	}

	if cfg.GraphDB != "" {
		if err := dumpInspector(res, cfg.GraphDB); err != nil {
			fmt.Fprintf(os.Stderr, "funxyc: graph-db: %v\n", err)
			return 1
		}
	}
	if cfg.EmitRPC != "" {
		if err := serveEmitRPC(res, cfg.EmitRPC); err != nil {
			fmt.Fprintf(os.Stderr, "funxyc: emit-rpc: %v\n", err)
			return 1
		}
	}

	return 0
}
