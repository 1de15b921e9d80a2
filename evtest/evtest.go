// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package evtest provides utility functions for testing circuits.
//
package evtest

import (
	"strconv"
	"strings"
	"testing"

	"github.com/db47h/evsim"
	"github.com/db47h/evsim/evlib"
)

func inputString(in []evsim.Bit4) string {
	var b strings.Builder
	for i, v := range in {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("in")
		b.WriteString(strconv.Itoa(i))
		b.WriteRune('=')
		b.WriteString(v.String())
	}
	return b.String()
}

// CheckGate builds a single 1 bit gate of type typ and checks its output
// against want for every combination of 4-state values on its inputs.
// Strength-aware outputs are compared without their strength.
//
func CheckGate(t testing.TB, typ evsim.GateType, want func(in []evsim.Bit4) evsim.Bit4) {
	t.Helper()

	c := evsim.NewCircuit(evsim.DefaultConfig())
	b := evsim.NewBuilder(c)
	n := typ.Arity()
	args := make([]string, n)
	ins := make([]evsim.NetID, n)
	for i := range args {
		args[i] = "in" + strconv.Itoa(i)
		ins[i] = b.Input(args[i])
	}
	if err := b.Functor("out", typ.String(), 1, nil, evsim.Strong, evsim.Strong, args...); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Build(); err != nil {
		t.Fatal(err)
	}
	out, _ := b.Lookup("out")
	var got evsim.Vector4
	c.Observe(out, evlib.Probe4(func(_ evsim.Time, v evsim.Vector4) { got = v }))

	in := make([]evsim.Bit4, n)
	tot := 1 << uint(2*n)
	for i := 0; i < tot; i++ {
		for p := range in {
			in[p] = evsim.Bit4(i >> uint(2*p) & 3)
			if err := c.InjectVec4(c.Now(), ins[p], evsim.NewVector4(1, in[p])); err != nil {
				t.Fatal(err)
			}
		}
		c.Settle()
		exp := want(in)
		if got.Size() != 1 || got.Value(0) != exp {
			t.Errorf("%s %s: expected %v, got %v", typ, inputString(in), exp, got)
		}
	}
}

// CompareTrace checks that the samples recorded by r match want. Each
// expected sample is written as "time:value".
//
func CompareTrace(t testing.TB, r *evlib.Recorder, want ...string) {
	t.Helper()
	got := make([]string, len(r.Samples))
	for i, s := range r.Samples {
		got[i] = s.String()
	}
	if len(got) != len(want) {
		t.Fatalf("expected trace %v, got %v", want, got)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("sample #%d: expected %s, got %s (trace %v)", i, want[i], got[i], got)
		}
	}
}
