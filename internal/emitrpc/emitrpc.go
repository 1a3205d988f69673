// Package emitrpc exposes a finished typed graph to an out-of-process
// emitter over gRPC (SPEC_FULL.md §4.11), built the same way the
// teacher's lib/grpc built-ins build messages at runtime: parse a
// .proto schema with protoparse, and construct dynamic.Message values
// against the resulting descriptor instead of generated .pb.go code.
// The difference is the direction of travel — the teacher's grpc
// built-ins are an embedded client/server for the language runtime;
// here the same technique serves one fixed, compiler-owned schema.
package emitrpc

import (
	_ "embed"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"

	"github.com/shedskin-go/funxyc/internal/graph"
	"github.com/shedskin-go/funxyc/internal/graphbuild"
	"github.com/shedskin-go/funxyc/internal/lattice"
)

//go:embed schema.proto
var schemaSource string

const schemaFile = "schema.proto"

// Descriptors holds the parsed message/service shapes used to build
// dynamic messages for one server lifetime.
type Descriptors struct {
	file          *desc.FileDescriptor
	instantiation *desc.MessageDescriptor
	classInfo     *desc.MessageDescriptor
	chunk         *desc.MessageDescriptor
	typeRef       *desc.MessageDescriptor
	empty         *desc.MessageDescriptor
	service       *desc.ServiceDescriptor
}

// LoadSchema parses the embedded .proto schema with protoparse, the
// same parser type the teacher's grpcLoadProto built-in uses, fed from
// an in-memory accessor instead of the filesystem.
func LoadSchema() (*Descriptors, error) {
	parser := protoparse.Parser{
		Accessor: protoparse.FileContentsFromMap(map[string]string{schemaFile: schemaSource}),
	}
	fds, err := parser.ParseFiles(schemaFile)
	if err != nil {
		return nil, fmt.Errorf("emitrpc: parsing schema: %w", err)
	}
	fd := fds[0]

	d := &Descriptors{file: fd}
	for _, m := range fd.GetMessageTypes() {
		switch m.GetName() {
		case "Instantiation":
			d.instantiation = m
		case "ClassInfo":
			d.classInfo = m
		case "TypedGraphChunk":
			d.chunk = m
		case "TypeRef":
			d.typeRef = m
		case "Empty":
			d.empty = m
		}
	}
	for _, s := range fd.GetServices() {
		if s.GetName() == "TypedGraphService" {
			d.service = s
		}
	}
	if d.instantiation == nil || d.classInfo == nil || d.chunk == nil || d.service == nil {
		return nil, fmt.Errorf("emitrpc: schema missing expected message or service types")
	}
	return d, nil
}

// TypedGraph is the minimal view emitrpc needs of a finished compile —
// decoupled from internal/driver.Result so this package does not
// depend on the driver's iteration bookkeeping.
type TypedGraph struct {
	Graph   *graph.Graph
	Classes *lattice.ClassTable
	Funcs   map[string]*graphbuild.FunctionTemplate
}

// Serve starts a gRPC server at addr exposing FetchTypedGraph, and
// blocks until the listener errors or the server is stopped.
func Serve(tg *TypedGraph, addr string) error {
	d, err := LoadSchema()
	if err != nil {
		return err
	}

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("emitrpc: listening on %s: %w", addr, err)
	}

	srv := grpc.NewServer()
	srv.RegisterService(&grpc.ServiceDesc{
		ServiceName: "funxyc.TypedGraphService",
		HandlerType: (*any)(nil),
		Streams: []grpc.StreamDesc{{
			StreamName: "FetchTypedGraph",
			Handler: func(_ any, stream grpc.ServerStream) error {
				return streamTypedGraph(d, tg, stream)
			},
			ServerStreams: true,
		}},
	}, nil)

	return srv.Serve(lis)
}

func streamTypedGraph(d *Descriptors, tg *TypedGraph, stream grpc.ServerStream) error {
	// Drain the client's Empty request; FetchTypedGraph takes no
	// parameters beyond it.
	discard := dynamic.NewMessage(d.empty)
	if err := stream.RecvMsg(discard); err != nil && err != io.EOF {
		return err
	}

	for name, tmpl := range tg.Funcs {
		chunk := dynamic.NewMessage(d.chunk)
		inst := dynamic.NewMessage(d.instantiation)
		inst.SetFieldByName("id", name)
		inst.SetFieldByName("function", tmpl.Name)
		inst.SetFieldByName("signature", strings.Join(tmpl.Params, ","))
		chunk.SetFieldByName("instantiation", inst)
		if err := stream.SendMsg(chunk); err != nil {
			return err
		}
	}

	for _, c := range tg.Classes.All() {
		chunk := dynamic.NewMessage(d.chunk)
		info := dynamic.NewMessage(d.classInfo)
		info.SetFieldByName("name", c.Name)
		bases := make([]any, len(c.Bases))
		for i, b := range c.Bases {
			bases[i] = b.Name
		}
		info.SetFieldByName("bases", bases)
		info.SetFieldByName("arity", int32(c.Arity))
		chunk.SetFieldByName("class_info", info)
		if err := stream.SendMsg(chunk); err != nil {
			return err
		}
	}
	return nil
}

// TypeRefOf builds a dynamic TypeRef message from a concrete lattice
// type, recursing into its allocation site's element slots, with every
// slot's element refs flattened into one elements list.
func TypeRefOf(d *Descriptors, t lattice.Type) *dynamic.Message {
	ref := dynamic.NewMessage(d.typeRef)
	if t.Class == nil {
		ref.SetFieldByName("class_name", "<bottom>")
		return ref
	}
	ref.SetFieldByName("class_name", t.Class.Name)
	if t.Site == nil {
		return ref
	}
	var elements []any
	for _, slot := range t.Site.Elements {
		for _, et := range slot.Slice() {
			elements = append(elements, TypeRefOf(d, et))
		}
	}
	ref.SetFieldByName("elements", elements)
	return ref
}
