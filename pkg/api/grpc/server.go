// Package grpcapi implements the gRPC interface of the Lox playground server.
package grpcapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lemonberrylabs/golox/pkg/store"
)

// Server implements the golox.v1.Interpreter service.
type Server struct {
	store *store.Store
	grpc  *grpc.Server
}

// New creates a new gRPC server wrapping the given store.
func New(s *store.Store) *Server {
	srv := &Server{store: s}

	gs := grpc.NewServer()
	RegisterInterpreterServer(gs, srv)
	srv.grpc = gs

	return srv
}

// Serve starts listening on the given address and serves gRPC requests.
func (s *Server) Serve(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("grpc listen: %w", err)
	}
	return s.grpc.Serve(lis)
}

// GracefulStop gracefully stops the gRPC server.
func (s *Server) GracefulStop() {
	s.grpc.GracefulStop()
}

func (s *Server) Run(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	source, err := requireString(req, "source")
	if err != nil {
		return nil, err
	}
	return toStruct(entryToMap(s.store.Run(ctx, source)))
}

func (s *Server) CreateSession(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return toStruct(sessionToMap(s.store.CreateSession(), false))
}

func (s *Server) GetSession(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sess, err := s.lookup(req)
	if err != nil {
		return nil, err
	}
	return toStruct(sessionToMap(sess, true))
}

func (s *Server) ListSessions(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sessions := s.store.ListSessions()
	items := make([]any, len(sessions))
	for i, sess := range sessions {
		items[i] = sessionToMap(sess, false)
	}
	return toStruct(map[string]any{"sessions": items})
}

func (s *Server) Eval(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sess, err := s.lookup(req)
	if err != nil {
		return nil, err
	}
	source, err := requireString(req, "source")
	if err != nil {
		return nil, err
	}
	return toStruct(entryToMap(sess.Eval(ctx, source)))
}

func (s *Server) DeleteSession(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	name, err := requireString(req, "name")
	if err != nil {
		return nil, err
	}
	if err := s.store.DeleteSession(name); err != nil {
		return nil, storeError(err)
	}
	return toStruct(map[string]any{"name": name, "done": true})
}

func (s *Server) lookup(req *structpb.Struct) (*store.Session, error) {
	name, err := requireString(req, "name")
	if err != nil {
		return nil, err
	}
	sess, err := s.store.GetSession(name)
	if err != nil {
		return nil, storeError(err)
	}
	return sess, nil
}

func requireString(req *structpb.Struct, field string) (string, error) {
	v, ok := req.GetFields()[field]
	if !ok {
		return "", status.Errorf(codes.InvalidArgument, "%s is required", field)
	}
	str, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", status.Errorf(codes.InvalidArgument, "%s must be a string", field)
	}
	return str.StringValue, nil
}

func storeError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return status.Error(codes.NotFound, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

func toStruct(m map[string]any) (*structpb.Struct, error) {
	st, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return st, nil
}

func sessionToMap(sess *store.Session, withTranscript bool) map[string]any {
	result := map[string]any{
		"name":       sess.Name,
		"createTime": sess.CreateTime.Format(time.RFC3339Nano),
		"runCount":   sess.RunCount(),
	}
	if withTranscript {
		entries := sess.Transcript()
		items := make([]any, len(entries))
		for i, e := range entries {
			items[i] = entryToMap(e)
		}
		result["entries"] = items

		globals := sess.Globals()
		names := make([]any, len(globals))
		for i, g := range globals {
			names[i] = g
		}
		result["globals"] = names
	}
	return result
}

func entryToMap(e store.Entry) map[string]any {
	diagnostics := make([]any, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		diagnostics[i] = map[string]any{
			"line":    d.Line,
			"kind":    d.Kind,
			"message": d.Message,
		}
	}
	return map[string]any{
		"source":      e.Source,
		"status":      e.Status,
		"output":      e.Output,
		"diagnostics": diagnostics,
		"value":       e.Value,
		"time":        e.Time.Format(time.RFC3339Nano),
	}
}
