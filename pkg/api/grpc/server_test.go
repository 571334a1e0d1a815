package grpcapi

import (
	"context"
	"net"
	"strings"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/lemonberrylabs/golox/pkg/lox"
	"github.com/lemonberrylabs/golox/pkg/store"
)

func startTestServer(t *testing.T) (string, func()) {
	t.Helper()
	s := store.New(lox.WithMaxSteps(10_000))
	srv := New(s)

	lis, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	go srv.grpc.Serve(lis)

	return lis.Addr().String(), func() {
		srv.grpc.Stop()
	}
}

func dial(t *testing.T, addr string) *grpc.ClientConn {
	t.Helper()
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	return conn
}

func TestRun(t *testing.T) {
	addr, cleanup := startTestServer(t)
	defer cleanup()

	conn := dial(t, addr)
	defer conn.Close()

	client := NewClient(conn)
	ctx := context.Background()

	tests := []struct {
		name    string
		source  string
		status  string
		output  string
		message string
	}{
		{"ok", "print \"hello\";\nprint 2 * 21;", "ok", "hello\n42\n", ""},
		{"syntax", "print ;", "static_error", "", "Expect expression."},
		{"runtime", "print \"a\";\nprint 1 < nil;", "runtime_error", "a\n", "Operands must be numbers."},
		{"step limit", "for (;;) {}", "runtime_error", "", "Execution step limit exceeded."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := client.Run(ctx, tt.source)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			fields := resp.GetFields()
			if got := fields["status"].GetStringValue(); got != tt.status {
				t.Errorf("got status %q, want %q", got, tt.status)
			}
			if got := fields["output"].GetStringValue(); got != tt.output {
				t.Errorf("got output %q, want %q", got, tt.output)
			}
			ds := fields["diagnostics"].GetListValue().GetValues()
			if tt.message == "" {
				if len(ds) != 0 {
					t.Errorf("got %d diagnostics, want none", len(ds))
				}
				return
			}
			if len(ds) != 1 {
				t.Fatalf("got %d diagnostics, want 1", len(ds))
			}
			if got := ds[0].GetStructValue().GetFields()["message"].GetStringValue(); got != tt.message {
				t.Errorf("got message %q, want %q", got, tt.message)
			}
		})
	}
}

func TestSessionLifecycle(t *testing.T) {
	addr, cleanup := startTestServer(t)
	defer cleanup()

	conn := dial(t, addr)
	defer conn.Close()

	client := NewClient(conn)
	ctx := context.Background()

	created, err := client.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	name := created.GetFields()["name"].GetStringValue()
	if !strings.HasPrefix(name, store.NamePrefix) {
		t.Fatalf("got name %q, want prefix %q", name, store.NamePrefix)
	}

	if _, err := client.Eval(ctx, name, "fun sq(n) { return n * n; }"); err != nil {
		t.Fatalf("Eval: %v", err)
	}
	resp, err := client.Eval(ctx, name, "sq(12)")
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if got := resp.GetFields()["output"].GetStringValue(); got != "144\n" {
		t.Errorf("got output %q, want %q", got, "144\n")
	}
	if got := resp.GetFields()["value"].GetNumberValue(); got != 144 {
		t.Errorf("got value %v, want 144", got)
	}

	got, err := client.GetSession(ctx, name)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if n := got.GetFields()["runCount"].GetNumberValue(); n != 2 {
		t.Errorf("got runCount %v, want 2", n)
	}
	if entries := got.GetFields()["entries"].GetListValue().GetValues(); len(entries) != 2 {
		t.Errorf("got %d entries, want 2", len(entries))
	}
	hasSq := false
	for _, v := range got.GetFields()["globals"].GetListValue().GetValues() {
		if v.GetStringValue() == "sq" {
			hasSq = true
		}
	}
	if !hasSq {
		t.Errorf("got globals %v, want sq", got.GetFields()["globals"])
	}

	list, err := client.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if sessions := list.GetFields()["sessions"].GetListValue().GetValues(); len(sessions) != 1 {
		t.Errorf("got %d sessions, want 1", len(sessions))
	}

	if _, err := client.DeleteSession(ctx, name); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	_, err = client.GetSession(ctx, name)
	if status.Code(err) != codes.NotFound {
		t.Errorf("got %v, want NotFound", err)
	}
}

func TestErrorCodes(t *testing.T) {
	addr, cleanup := startTestServer(t)
	defer cleanup()

	conn := dial(t, addr)
	defer conn.Close()

	client := NewClient(conn)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
		want codes.Code
	}{
		{"run without source", func() error {
			_, err := client.invoke(ctx, "Run", map[string]any{})
			return err
		}, codes.InvalidArgument},
		{"run with number source", func() error {
			_, err := client.invoke(ctx, "Run", map[string]any{"source": 1.0})
			return err
		}, codes.InvalidArgument},
		{"eval missing session", func() error {
			_, err := client.Eval(ctx, "sessions/missing", "1")
			return err
		}, codes.NotFound},
		{"delete missing session", func() error {
			_, err := client.DeleteSession(ctx, "missing")
			return err
		}, codes.NotFound},
		{"get without name", func() error {
			_, err := client.invoke(ctx, "GetSession", map[string]any{})
			return err
		}, codes.InvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := status.Code(tt.call()); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
