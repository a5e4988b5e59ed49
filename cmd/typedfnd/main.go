// Command typedfnd is a gRPC daemon exposing the dispatch engine's
// hosted callables over the network: ListSignatures, SignaturesOf,
// and Invoke. It builds its grpc.ServiceDesc by hand from descriptors
// parsed out of internal/rpcproto/typedfn.proto at startup, wiring a
// dynamically described service without protoc-generated stubs.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"

	"github.com/google/uuid"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"

	"github.com/funvibe/typedfn"
	"github.com/funvibe/typedfn/internal/demolib"
	"github.com/funvibe/typedfn/internal/dispatchcfg"
	"github.com/funvibe/typedfn/internal/registry"
	"github.com/funvibe/typedfn/internal/rpcproto"
	"github.com/funvibe/typedfn/internal/sigcache"
)

func main() {
	configPath := flag.String("config", "typedfn.yaml", "path to typedfn.yaml")
	listen := flag.String("listen", "", "override the configured listen address")
	flag.Parse()

	cfg, err := dispatchcfg.Load(*configPath)
	if err != nil {
		log.Fatalf("loading %s: %s", *configPath, err)
	}
	for _, name := range cfg.Ignore {
		registry.Default.AddIgnore(name)
	}

	addr := cfg.Listen
	if *listen != "" {
		addr = *listen
	}
	if addr == "" {
		addr = ":50051"
	}

	descs, err := rpcproto.Load()
	if err != nil {
		log.Fatalf("loading rpc descriptors: %s", err)
	}

	var cache *sigcache.Store
	if cfg.Cache.Path != "" {
		cache, err = sigcache.Open(cfg.Cache.Path)
		if err != nil {
			log.Fatalf("opening signature cache %s: %s", cfg.Cache.Path, err)
		}
		defer cache.Close()
	}

	srv := newServer(descs, demolib.Build(), cache)

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatalf("listening on %s: %s", addr, err)
	}

	grpcServer := grpc.NewServer()
	grpcServer.RegisterService(srv.serviceDesc(), srv)

	log.Printf("typedfnd listening on %s (%d callables hosted)", addr, len(srv.lib))
	if err := grpcServer.Serve(lis); err != nil {
		log.Fatalf("serve: %s", err)
	}
}

// server implements the TypedFn RPC methods against a fixed library of
// hosted callables: a server object plus a name-keyed directory of
// implementations it dispatches to.
type server struct {
	descs *rpcproto.Descriptors
	lib   map[string]*typedfn.Callable
	cache *sigcache.Store
}

func newServer(descs *rpcproto.Descriptors, lib map[string]*typedfn.Callable, cache *sigcache.Store) *server {
	return &server{descs: descs, lib: lib, cache: cache}
}

// serviceDesc builds the grpc.ServiceDesc by hand, one grpc.MethodDesc
// per RPC declared in typedfn.proto (method names written out here,
// metadata taken from the parsed file descriptor), each delegating to
// this server's matching handler.
func (s *server) serviceDesc() *grpc.ServiceDesc {
	return &grpc.ServiceDesc{
		ServiceName: "typedfn.TypedFn",
		HandlerType: (*interface{})(nil),
		Methods: []grpc.MethodDesc{
			{MethodName: "ListSignatures", Handler: s.handleListSignatures},
			{MethodName: "SignaturesOf", Handler: s.handleSignaturesOf},
			{MethodName: "Invoke", Handler: s.handleInvoke},
		},
		Metadata: s.descs.File.GetName(),
	}
}

func (s *server) handleListSignatures(_ interface{}, ctx context.Context, dec func(interface{}) error, _ grpc.UnaryServerInterceptor) (interface{}, error) {
	req := dynamic.NewMessage(s.descs.ListSigsReq)
	if err := dec(req); err != nil {
		return nil, err
	}

	resp := dynamic.NewMessage(s.descs.ListSigsResp)
	for name := range s.lib {
		if err := resp.TryAddRepeatedFieldByName("names", name); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

func (s *server) handleSignaturesOf(_ interface{}, ctx context.Context, dec func(interface{}) error, _ grpc.UnaryServerInterceptor) (interface{}, error) {
	req := dynamic.NewMessage(s.descs.SigsOfReq)
	if err := dec(req); err != nil {
		return nil, err
	}
	name, _ := req.TryGetFieldByName("name")

	c, ok := s.lib[name.(string)]
	if !ok {
		return nil, fmt.Errorf("no callable named %q", name)
	}

	resp := dynamic.NewMessage(s.descs.SigsOfResp)
	for sig := range c.Signatures() {
		if err := resp.TryAddRepeatedFieldByName("signatures", sig); err != nil {
			return nil, err
		}
	}

	if s.cache != nil {
		sigs := make([]string, 0, len(c.Signatures()))
		for sig := range c.Signatures() {
			sigs = append(sigs, sig)
		}
		if err := s.cache.Record(ctx, c.Name(), sigs); err != nil {
			log.Printf("sigcache record %s: %s", c.Name(), err)
		}
	}

	return resp, nil
}

func (s *server) handleInvoke(_ interface{}, ctx context.Context, dec func(interface{}) error, _ grpc.UnaryServerInterceptor) (interface{}, error) {
	req := dynamic.NewMessage(s.descs.InvokeReqType)
	if err := dec(req); err != nil {
		return nil, err
	}

	nameVal, _ := req.TryGetFieldByName("name")
	name, _ := nameVal.(string)
	reqIDVal, _ := req.TryGetFieldByName("request_id")
	reqID, _ := reqIDVal.(string)
	if reqID == "" {
		reqID = uuid.NewString()
	}

	resp := dynamic.NewMessage(s.descs.InvokeRespType)
	if err := resp.TrySetFieldByName("request_id", reqID); err != nil {
		return nil, err
	}

	c, ok := s.lib[name]
	if !ok {
		if err := resp.TrySetFieldByName("error", fmt.Sprintf("no callable named %q", name)); err != nil {
			return nil, err
		}
		return resp, nil
	}

	rawArgs, _ := req.TryGetFieldByName("args")
	argMsgs, _ := rawArgs.([]interface{})
	args := make([]any, 0, len(argMsgs))
	for _, a := range argMsgs {
		argMsg, ok := a.(*dynamic.Message)
		if !ok {
			continue
		}
		v, err := rpcproto.ValueToAny(argMsg)
		if err != nil {
			if err := resp.TrySetFieldByName("error", err.Error()); err != nil {
				return nil, err
			}
			return resp, nil
		}
		args = append(args, v)
	}

	log.Printf("[%s] invoke %s(%d args)", reqID, name, len(args))

	result, callErr := c.Call(args...)
	if callErr != nil {
		if err := resp.TrySetFieldByName("error", callErr.Error()); err != nil {
			return nil, err
		}
		return resp, nil
	}

	resultMsg, err := s.descs.NewValue(result)
	if err != nil {
		if err := resp.TrySetFieldByName("error", err.Error()); err != nil {
			return nil, err
		}
		return resp, nil
	}
	if err := resp.TrySetFieldByName("result", resultMsg); err != nil {
		return nil, err
	}
	return resp, nil
}
