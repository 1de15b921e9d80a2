// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package evsim_test

import (
	"testing"

	"github.com/db47h/evsim"
)

func Test_muxz(t *testing.T) {
	c, b := build(t, evsim.DefaultConfig(), func(b *evsim.Builder) {
		b.Input("a")
		b.Input("b")
		b.Input("s")
		must(t, b.Functor("m", "MUXZ", 3, nil, evsim.Strong, evsim.Strong, "a", "b", "s"))
	})
	r := watch(t, b, "m")
	inject(t, b, 0, "a", "101")
	inject(t, b, 0, "b", "111")
	inject(t, b, 0, "s", "x")
	inject(t, b, 10, "s", "0")
	inject(t, b, 20, "s", "1")
	inject(t, b, 30, "b", "z1")
	inject(t, b, 40, "s", "z")
	c.Run(evsim.NoLimits())
	evtestTrace(t, r,
		"0:xxx", // b not set yet
		"0:1x1",
		"10:101",
		"20:111",
		"30:z1",
		"40:xx1")
}

func Test_muxz_select(t *testing.T) {
	c, b := build(t, evsim.DefaultConfig(), func(b *evsim.Builder) {
		b.Input("s")
		must(t, b.Functor("m", "MUXZ", 1, nil, evsim.Strong, evsim.Strong, "C4<0>", "C4<1>", "s"))
	})
	inject(t, b, 0, "s", "01")
	defer func() {
		if recover() == nil {
			t.Fatal("2 bit select accepted")
		}
	}()
	c.Run(evsim.NoLimits())
}

func Test_muxr(t *testing.T) {
	c, b := build(t, evsim.DefaultConfig(), func(b *evsim.Builder) {
		b.Input("s")
		must(t, b.Functor("m", "MUXR", 0, nil, evsim.Strong, evsim.Strong, "Cr<1.5>", "Cr<-2.5e3>", "s"))
		must(t, b.Functor("same", "MUXR", 0, nil, evsim.Strong, evsim.Strong, "Cr<4>", "Cr<4>", "s"))
	})
	m, same := watch(t, b, "m"), watch(t, b, "same")
	inject(t, b, 10, "s", "0")
	inject(t, b, 20, "s", "1")
	inject(t, b, 30, "s", "x")
	c.Run(evsim.NoLimits())
	evtestTrace(t, m, "0:0", "10:1.5", "20:-2500", "30:0")
	evtestTrace(t, same, "0:0", "0:4")
}

func Test_muxr_port(t *testing.T) {
	c, b := build(t, evsim.DefaultConfig(), func(b *evsim.Builder) {
		b.Input("a")
		must(t, b.Functor("m", "MUXR", 0, nil, evsim.Strong, evsim.Strong, "a"))
	})
	inject(t, b, 0, "a", "1")
	defer func() {
		if recover() == nil {
			t.Fatal("4-state value accepted on a real port")
		}
	}()
	c.Run(evsim.NoLimits())
}
