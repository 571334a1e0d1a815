package store

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/lemonberrylabs/golox/pkg/lox"
)

func TestSessionLifecycle(t *testing.T) {
	s := New()

	sess := s.CreateSession()
	if !strings.HasPrefix(sess.Name, NamePrefix) {
		t.Fatalf("got name %q, want prefix %q", sess.Name, NamePrefix)
	}

	got, err := s.GetSession(sess.Name)
	if err != nil || got != sess {
		t.Fatalf("GetSession by name: got %v, %v", got, err)
	}
	got, err = s.GetSession(sess.ID())
	if err != nil || got != sess {
		t.Fatalf("GetSession by id: got %v, %v", got, err)
	}

	if err := s.DeleteSession(sess.ID()); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if _, err := s.GetSession(sess.Name); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
	if err := s.DeleteSession(sess.Name); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestListSessions(t *testing.T) {
	s := New()
	a := s.CreateSession()
	b := s.CreateSession()

	list := s.ListSessions()
	if len(list) != 2 {
		t.Fatalf("got %d sessions, want 2", len(list))
	}
	names := map[string]bool{list[0].Name: true, list[1].Name: true}
	if !names[a.Name] || !names[b.Name] {
		t.Errorf("got %v, want %s and %s", names, a.Name, b.Name)
	}
}

func TestSessionEvalKeepsGlobals(t *testing.T) {
	s := New()
	sess := s.CreateSession()
	ctx := context.Background()

	if e := sess.Eval(ctx, "var greeting = \"hi\";"); e.Status != "ok" || e.Output != "" {
		t.Fatalf("got %+v, want ok with no output", e)
	}
	e := sess.Eval(ctx, "greeting + \" there\"")
	if e.Status != "ok" || e.Output != "hi there\n" {
		t.Errorf("got %+v, want echo of the expression", e)
	}
	if e.Value != "hi there" {
		t.Errorf("got value %v, want %q", e.Value, "hi there")
	}
	if e := sess.Eval(ctx, "1 + 41"); e.Value != 42.0 {
		t.Errorf("got value %v, want 42", e.Value)
	}
	if e := sess.Eval(ctx, "print 1;"); e.Value != nil {
		t.Errorf("got value %v, want nil for a statement", e.Value)
	}

	e = sess.Eval(ctx, "print missing;")
	if e.Status != "runtime_error" {
		t.Errorf("got status %s, want runtime_error", e.Status)
	}
	if len(e.Diagnostics) != 1 || e.Diagnostics[0].Message != "Undefined variable 'missing'." {
		t.Errorf("got %+v, want one undefined variable diagnostic", e.Diagnostics)
	}
	if e.Diagnostics[0].Text != "Undefined variable 'missing'.\n[line 1]" {
		t.Errorf("got text %q", e.Diagnostics[0].Text)
	}

	if sess.RunCount() != 5 {
		t.Errorf("got run count %d, want 5", sess.RunCount())
	}
	transcript := sess.Transcript()
	if len(transcript) != 5 || transcript[1].Source != "greeting + \" there\"" {
		t.Errorf("got transcript %+v", transcript)
	}

	found := false
	for _, name := range sess.Globals() {
		if name == "greeting" {
			found = true
		}
	}
	if !found {
		t.Errorf("got globals %v, want greeting", sess.Globals())
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	s := New()
	a := s.CreateSession()
	b := s.CreateSession()
	ctx := context.Background()

	a.Eval(ctx, "var x = 1;")
	if e := b.Eval(ctx, "x"); e.Status != "runtime_error" {
		t.Errorf("got %s, want runtime_error", e.Status)
	}
}

func TestRun(t *testing.T) {
	s := New()

	e := s.Run(context.Background(), "print 1 + 2;\nprint ;")
	if e.Status != "static_error" {
		t.Errorf("got status %s, want static_error", e.Status)
	}
	if e.Output != "" {
		t.Errorf("got output %q, want none", e.Output)
	}
	if len(e.Diagnostics) != 1 || e.Diagnostics[0].Kind != "syntax" || e.Diagnostics[0].Line != 2 {
		t.Errorf("got %+v, want one syntax diagnostic on line 2", e.Diagnostics)
	}

	e = s.Run(context.Background(), "print 1 + 2;")
	if e.Status != "ok" || e.Output != "3\n" || len(e.Diagnostics) != 0 {
		t.Errorf("got %+v, want ok with output 3", e)
	}
}

func TestRunStepLimit(t *testing.T) {
	s := New(lox.WithMaxSteps(100))
	e := s.Run(context.Background(), "while (true) {}")
	if e.Status != "runtime_error" {
		t.Fatalf("got status %s, want runtime_error", e.Status)
	}
	if e.Diagnostics[0].Message != "Execution step limit exceeded." {
		t.Errorf("got %q", e.Diagnostics[0].Message)
	}
}

func TestConcurrentEvals(t *testing.T) {
	s := New()
	sess := s.CreateSession()
	sess.Eval(context.Background(), "var n = 0;")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess.Eval(context.Background(), "n = n + 1;")
		}()
	}
	wg.Wait()

	if e := sess.Eval(context.Background(), "n"); e.Output != "20\n" {
		t.Errorf("got %q, want %q", e.Output, "20\n")
	}
}
