// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package evsim_test

import (
	"strings"
	"testing"

	"github.com/db47h/evsim"
	"github.com/pkg/errors"
)

func TestBuilder_errors(t *testing.T) {
	c := evsim.NewCircuit(evsim.DefaultConfig())
	b := evsim.NewBuilder(c)
	b.Input("a")
	s := evsim.Strong
	td := []struct {
		label string
		err   error
		msg   string
	}{
		{"bad_type", b.Functor("bad_type", "FOO", 1, nil, s, s, "a"), "invalid functor type"},
		{"too_many", b.Functor("too_many", "OR", 1, nil, s, s, "a", "a", "a", "a", "a"), "too many inputs"},
		{"arity", b.Functor("arity", "NOT", 1, nil, s, s, "a", "a"), "at most 1 inputs"},
		{"strength", b.Functor("strength", "BUF", 1, nil, evsim.Strength(8), s, "a"), "invalid drive strengths"},
		{"width", b.Functor("width", "BUF", 0, nil, s, s, "a"), "invalid width"},
		{"resolver", b.Resolve("resolver", s, s), "resolver needs"},
	}
	size := c.Size()
	for _, d := range td {
		if d.err == nil {
			t.Fatalf("%s: element accepted", d.label)
		}
		if !strings.Contains(d.err.Error(), d.msg) {
			t.Errorf("%s: unexpected error %v", d.label, d.err)
		}
	}
	if c.Size() != size {
		t.Errorf("rejected elements allocated %d nets", c.Size()-size)
	}
	for _, d := range td {
		if _, ok := b.Lookup(d.label); ok {
			t.Errorf("rejected element %s was published", d.label)
		}
	}

	// valid elements still build, the errors are reported by Build
	must(t, b.Functor("ok", "XOR", 1, nil, s, s, "a", "missing"))
	must(t, b.Functor("const", "OR", 1, nil, s, s, "C4<01q>"))
	must(t, b.Functor("real", "MUXR", 0, nil, s, s, "Cr<one>"))
	_, err := b.Build()
	if err == nil {
		t.Fatal("Build succeeded")
	}
	l, ok := err.(evsim.ErrorList)
	if !ok {
		t.Fatalf("unexpected error type %T", err)
	}
	if len(l) != len(td)+3 {
		t.Fatalf("expected %d errors, got %d:\n%v", len(td)+3, len(l), l)
	}
	for i, label := range []string{"ok", "const", "real"} {
		e, ok := l[len(td)+i].(*evsim.ElementError)
		if !ok || e.Label != label {
			t.Errorf("error %d: unexpected error %v", len(td)+i, l[len(td)+i])
		}
	}
	if e := l[len(td)].(*evsim.ElementError); !strings.Contains(errors.Cause(e).Error(), `unresolved reference "missing"`) {
		t.Errorf("unexpected cause %v", errors.Cause(e))
	}
	if len(strings.Split(l.Error(), "\n")) != len(l) {
		t.Errorf("ErrorList message:\n%s", l)
	}
}

func TestBuilder_labels(t *testing.T) {
	_, b := build(t, evsim.DefaultConfig(), func(b *evsim.Builder) {
		b.Input("z")
		must(t, b.Functor("a", "NOT", 1, nil, evsim.Strong, evsim.Strong, "z"))
		must(t, b.Functor("m", "AND", 1, nil, evsim.Strong, evsim.Strong, "z", "a"))
		must(t, b.Functor("a", "BUF", 1, nil, evsim.Strong, evsim.Strong, "m"))
	})
	if got := strings.Join(b.Labels(), ","); got != "z,a,m" {
		t.Errorf("unexpected labels %s", got)
	}
	if _, ok := b.Lookup("nope"); ok {
		t.Error("unknown label found")
	}
	if len(b.Errors()) != 0 {
		t.Errorf("unexpected errors %v", b.Errors())
	}
}

// Ports left empty are tied like the ports past the last argument.
func TestBuilder_unconnectedPorts(t *testing.T) {
	for _, typ := range []string{"AND", "NAND", "OR", "NOR", "XOR", "XNOR"} {
		c, b := build(t, evsim.DefaultConfig(), func(b *evsim.Builder) {
			b.Input("a")
			must(t, b.Functor("short", typ, 1, nil, evsim.Strong, evsim.Strong, "a"))
			must(t, b.Functor("mid", typ, 1, nil, evsim.Strong, evsim.Strong, "a", ""))
			must(t, b.Functor("first", typ, 1, nil, evsim.Strong, evsim.Strong, "", "a"))
		})
		short, mid, first := watch(t, b, "short"), watch(t, b, "mid"), watch(t, b, "first")
		for _, v := range []string{"0", "1", "x", "z"} {
			inject(t, b, c.Now(), "a", v)
			c.Settle()
			want := last(t, short)
			if got := last(t, mid); got != want {
				t.Errorf("%s(a, \"\") with a=%s: expected %s, got %s", typ, v, want, got)
			}
			if got := last(t, first); got != want {
				t.Errorf("%s(\"\", a) with a=%s: expected %s, got %s", typ, v, want, got)
			}
		}
	}
}

func TestBuilder_constants(t *testing.T) {
	c, b := build(t, evsim.DefaultConfig(), func(b *evsim.Builder) {
		must(t, b.Functor("and", "AND", 4, nil, evsim.Strong, evsim.Strong, "C4<1100>", "C4<1_0_1_0>"))
		must(t, b.Functor("eeq", "EEQ", 1, nil, evsim.Strong, evsim.Strong, "C4<z>", "C4<Z>"))
	})
	and, eeq := watch(t, b, "and"), watch(t, b, "eeq")
	c.Run(evsim.NoLimits())
	if got := last(t, and); got != "1000" {
		t.Errorf("AND: expected 1000, got %s", got)
	}
	if got := last(t, eeq); got != "1" {
		t.Errorf("EEQ: expected 1, got %s", got)
	}
}

func TestParseGateType(t *testing.T) {
	for _, typ := range evsim.GateTypes() {
		for _, s := range []string{typ.String(), strings.ToLower(typ.String())} {
			if got, ok := evsim.ParseGateType(s); !ok || got != typ {
				t.Errorf("%s: got %v, %v", s, got, ok)
			}
		}
	}
	if _, ok := evsim.ParseGateType("LATCH"); ok {
		t.Error("LATCH parsed")
	}
	if evsim.GateMUXX.Table() != evsim.TableMUXX || evsim.GateAND.Table() != nil {
		t.Error("unexpected truth tables")
	}
	if !evsim.GateNMOS.StrengthAware() || evsim.GateBUF.StrengthAware() {
		t.Error("unexpected strength awareness")
	}
}
