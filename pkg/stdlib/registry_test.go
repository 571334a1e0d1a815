package stdlib

import (
	"errors"
	"testing"
	"time"

	"github.com/lemonberrylabs/golox/pkg/types"
)

func TestClock(t *testing.T) {
	saved := now
	defer func() { now = saved }()
	now = func() time.Time { return time.Unix(1700000000, 500_000_000) }

	fn, arity, ok := NewRegistry().Lookup("clock")
	if !ok {
		t.Fatal("clock not registered")
	}
	if arity != 0 {
		t.Errorf("got arity %d, want 0", arity)
	}
	v, err := fn(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Type() != types.TypeNumber || v.AsNumber() != 1700000000.5 {
		t.Errorf("got %v, want 1700000000.5", v)
	}
}

func TestRegisterAndEach(t *testing.T) {
	r := NewRegistry()
	errBoom := errors.New("boom")
	r.Register("fail", 0, func([]types.Value) (types.Value, error) { return types.Nil, errBoom })
	r.Register("add", 2, func(args []types.Value) (types.Value, error) {
		return types.NewNumber(args[0].AsNumber() + args[1].AsNumber()), nil
	})

	var names []string
	arities := map[string]int{}
	r.Each(func(name string, arity int, _ types.NativeFunc) {
		names = append(names, name)
		arities[name] = arity
	})

	want := []string{"add", "clock", "fail"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("got %v, want %v", names, want)
			break
		}
	}
	if arities["add"] != 2 {
		t.Errorf("got arity %d, want 2", arities["add"])
	}

	fn, _, _ := r.Lookup("fail")
	if _, err := fn(nil); !errors.Is(err, errBoom) {
		t.Errorf("got %v, want %v", err, errBoom)
	}
}

func TestRegisterReplaces(t *testing.T) {
	r := NewRegistry()
	r.Register("clock", 1, func([]types.Value) (types.Value, error) { return types.NewNumber(7), nil })

	fn, arity, _ := r.Lookup("clock")
	if arity != 1 {
		t.Errorf("got arity %d, want 1", arity)
	}
	if v, _ := fn([]types.Value{types.Nil}); v.AsNumber() != 7 {
		t.Errorf("got %v, want 7", v)
	}
}
