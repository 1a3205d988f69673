package main

import (
	"github.com/shedskin-go/funxyc/internal/driver"
	"github.com/shedskin-go/funxyc/internal/emitrpc"
	"github.com/shedskin-go/funxyc/internal/inspector"
)

func dumpInspector(res *driver.Result, path string) error {
	return inspector.Dump(res.Graph, res.Specializer.Signatures(), path)
}

func serveEmitRPC(res *driver.Result, addr string) error {
	tg := &emitrpc.TypedGraph{
		Graph:   res.Graph,
		Classes: res.Classes,
		Funcs:   res.Builder.Functions,
	}
	return emitrpc.Serve(tg, addr)
}
