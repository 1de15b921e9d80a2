// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package evsim_test

import (
	"strings"
	"testing"

	"github.com/db47h/evsim"
	"github.com/db47h/evsim/evlib"
)

func Test_and(t *testing.T) {
	td := []struct {
		width int
		a, b  string
		out   string
	}{
		{1, "1", "x", "x"},
		{1, "0", "x", "0"},
		{1, "1", "z", "x"},
		{1, "1", "1", "1"},
		{2, "1", "11", "x1"},
		{2, "0", "00", "00"},
		{4, "1100", "1010", "1000"},
	}
	for _, d := range td {
		c, b := build(t, evsim.DefaultConfig(), func(b *evsim.Builder) {
			b.Input("a")
			b.Input("b")
			must(t, b.Functor("g", "AND", d.width, nil, evsim.Strong, evsim.Strong, "a", "b"))
		})
		r := watch(t, b, "g")
		inject(t, b, 0, "a", d.a)
		inject(t, b, 0, "b", d.b)
		c.Run(evsim.NoLimits())
		if got := last(t, r); got != d.out {
			t.Errorf("AND(%s, %s) width %d: expected %s, got %s", d.a, d.b, d.width, d.out, got)
		}
	}
}

// The AND inputs start unknown, so X on b changes nothing and a single
// value is seen.
func Test_and_settle(t *testing.T) {
	c, b := build(t, evsim.DefaultConfig(), func(b *evsim.Builder) {
		b.Input("a")
		b.Input("b")
		must(t, b.Functor("g", "AND", 1, nil, evsim.Strong, evsim.Strong, "a", "b"))
	})
	r := watch(t, b, "g")
	inject(t, b, 0, "a", "1")
	inject(t, b, 0, "b", "x")
	c.Run(evsim.NoLimits())
	evtestTrace(t, r, "0:x")
}

func Test_and_deferred(t *testing.T) {
	for _, deferred := range []bool{true, false} {
		cfg := evsim.DefaultConfig()
		cfg.DeferAND = deferred
		var order []string
		c, b := build(t, cfg, func(b *evsim.Builder) {
			b.Input("a")
			must(t, b.Functor("and", "AND", 1, nil, evsim.Strong, evsim.Strong, "a"))
			must(t, b.Functor("or", "OR", 1, nil, evsim.Strong, evsim.Strong, "a"))
		})
		for _, l := range []string{"and", "or"} {
			l := l
			c.Observe(lookup(t, b, l), evlib.Probe4(func(_ evsim.Time, v evsim.Vector4) {
				order = append(order, l+"="+v.String())
			}))
		}
		inject(t, b, 0, "a", "1")
		c.Settle()
		want := "and=1,or=1"
		if deferred {
			want = "or=1,and=1"
		}
		if got := strings.Join(order, ","); got != want {
			t.Errorf("DeferAND=%v: expected %s, got %s", deferred, want, got)
		}
	}
}

func Test_tableWidth(t *testing.T) {
	c, b := build(t, evsim.DefaultConfig(), func(b *evsim.Builder) {
		b.Input("a")
		b.Input("b")
		must(t, b.Functor("x", "XOR", 4, nil, evsim.Strong, evsim.Strong, "a", "b"))
		must(t, b.Functor("n", "NOT", 4, nil, evsim.Strong, evsim.Strong, "a"))
		must(t, b.Functor("o", "OR", 4, nil, evsim.Strong, evsim.Strong, "a"))
	})
	x, n, o := watch(t, b, "x"), watch(t, b, "n"), watch(t, b, "o")
	inject(t, b, 0, "a", "01xz")
	inject(t, b, 0, "b", "0110")
	c.Run(evsim.NoLimits())
	// b is not known when a arrives
	evtestTrace(t, x, "0:xxxx", "0:00xx")
	evtestTrace(t, n, "0:10xx")
	evtestTrace(t, o, "0:01xx")
}

func Test_buf(t *testing.T) {
	c, b := build(t, evsim.DefaultConfig(), func(b *evsim.Builder) {
		b.Input("a")
		must(t, b.Functor("buf", "BUF", 4, nil, evsim.Strong, evsim.Strong, "a"))
		must(t, b.Functor("bufz", "BUFZ", 4, nil, evsim.Strong, evsim.Strong, "a"))
	})
	buf, bufz := watch(t, b, "buf"), watch(t, b, "bufz")
	inject(t, b, 0, "a", "01xz")
	inject(t, b, 1, "a", "01xx")
	inject(t, b, 2, "a", "01xx")
	c.Run(evsim.NoLimits())
	evtestTrace(t, buf, "0:01xx")
	evtestTrace(t, bufz, "0:01xz", "1:01xx")
}

func Test_portCheck(t *testing.T) {
	c, b := build(t, evsim.DefaultConfig(), func(b *evsim.Builder) {
		b.Input("a")
		must(t, b.Functor("n", "NOT", 1, nil, evsim.Strong, evsim.Strong, "a"))
	})
	a, n := lookup(t, b, "a"), lookup(t, b, "n")
	c.Connect(a, n, 1)
	defer func() {
		if recover() == nil {
			t.Fatal("NOT accepted a value on port 1")
		}
	}()
	c.SendVec4(a, evsim.MustVector4("1"))
}

// An SR latch built from cross-coupled NAND gates: q refers to qn before
// qn is defined.
func Test_feedback(t *testing.T) {
	c, b := build(t, evsim.DefaultConfig(), func(b *evsim.Builder) {
		b.Input("s_n")
		b.Input("r_n")
		must(t, b.Functor("q", "NAND", 1, nil, evsim.Strong, evsim.Strong, "s_n", "qn"))
		must(t, b.Functor("qn", "NAND", 1, nil, evsim.Strong, evsim.Strong, "r_n", "q"))
	})
	q, qn := watch(t, b, "q"), watch(t, b, "qn")
	inject(t, b, 0, "s_n", "0")
	inject(t, b, 0, "r_n", "1")
	inject(t, b, 10, "s_n", "1")
	inject(t, b, 20, "r_n", "0")
	inject(t, b, 30, "r_n", "1")
	if r := c.Run(evsim.NoLimits()); r != evsim.Drained {
		t.Fatalf("unexpected stop reason %v", r)
	}
	evtestTrace(t, q, "0:1", "20:0")
	evtestTrace(t, qn, "0:x", "0:0", "20:1")
}
