package types

import (
	"math"
	"testing"
)

type fakeObject struct{ name string }

func (o *fakeObject) Type() ValueType { return TypeInstance }
func (o *fakeObject) String() string  { return o.name + " instance" }

func TestTruthy(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want bool
	}{
		{"nil", Nil, false},
		{"false", NewBool(false), false},
		{"true", NewBool(true), true},
		{"zero", NewNumber(0), true},
		{"empty string", NewString(""), true},
		{"object", NewObject(&fakeObject{"A"}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Truthy(); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	a := &fakeObject{"A"}
	b := &fakeObject{"A"}

	tests := []struct {
		name string
		x, y Value
		want bool
	}{
		{"nil nil", Nil, Nil, true},
		{"nil false", Nil, NewBool(false), false},
		{"numbers", NewNumber(1), NewNumber(1), true},
		{"number string", NewNumber(1), NewString("1"), false},
		{"strings", NewString("a"), NewString("a"), true},
		{"different strings", NewString("a"), NewString("b"), false},
		{"same object", NewObject(a), NewObject(a), true},
		{"distinct objects", NewObject(a), NewObject(b), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.x.Equal(tt.y); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Nil, "nil"},
		{NewBool(true), "true"},
		{NewNumber(1), "1"},
		{NewNumber(-2.5), "-2.5"},
		{NewNumber(1e21), "1000000000000000000000"},
		{NewNumber(math.Inf(1)), "Infinity"},
		{NewNumber(math.NaN()), "NaN"},
		{NewString("hi"), "hi"},
		{NewObject(&fakeObject{"Point"}), "Point instance"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.v.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFromLiteral(t *testing.T) {
	if v := FromLiteral(3.0); v.Type() != TypeNumber || v.AsNumber() != 3 {
		t.Errorf("got %v, want number 3", v)
	}
	if v := FromLiteral("s"); v.Type() != TypeString || v.AsString() != "s" {
		t.Errorf("got %v, want string s", v)
	}
	if v := FromLiteral(nil); !v.IsNil() {
		t.Errorf("got %v, want nil", v)
	}
}

func TestToGoValue(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want any
	}{
		{"nil", Nil, nil},
		{"bool", NewBool(true), true},
		{"number", NewNumber(2.5), 2.5},
		{"infinity", NewNumber(math.Inf(1)), "Infinity"},
		{"string", NewString("hi"), "hi"},
		{"object", NewObject(&fakeObject{"A"}), "A instance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.ToGoValue(); got != tt.want {
				t.Errorf("got %v (%T), want %v (%T)", got, got, tt.want, tt.want)
			}
		})
	}
}
