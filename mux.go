// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package evsim

import "github.com/pkg/errors"

// Multiplexer ports.
//
const (
	PortA   = 0
	PortB   = 1
	PortSel = 2
)

// selectValue decodes a select vector. It panics if sel is not exactly one
// bit wide.
//
func selectValue(n NetID, sel Vector4) Bit4 {
	if sel.Size() != 1 {
		panic(errors.Errorf("net %d: multiplexer select must be 1 bit wide, got %d", n, sel.Size()))
	}
	return z2x(sel.bits[0])
}

// muxzFun selects between two 4-state vectors. With an unknown select,
// the bits where both inputs agree are still known.
//
type muxzFun struct {
	a, b Vector4
	sel  Bit4
	out4
}

func newMuxzFun(width int) *muxzFun {
	return &muxzFun{
		a:   NewVector4(width, BitX),
		b:   NewVector4(width, BitX),
		sel: BitX,
	}
}

func (f *muxzFun) RecvVec4(c *Circuit, e Edge, v Vector4) {
	checkPort("MUXZ", e, 3)
	switch e.Port {
	case PortA:
		f.a = v
	case PortB:
		f.b = v
	case PortSel:
		f.sel = selectValue(e.To, v)
	}

	switch f.sel {
	case Bit0:
		f.send(c, e.To, f.a)
	case Bit1:
		f.send(c, e.To, f.b)
	default:
		f.send(c, e.To, muxMerge(f.a, f.b))
	}
}

// muxMerge returns a where a and b agree and x elsewhere. The result has
// the width of the widest vector.
//
func muxMerge(a, b Vector4) Vector4 {
	lo, hi := a.Size(), b.Size()
	if lo > hi {
		lo, hi = hi, lo
	}
	r := NewVector4(hi, BitX)
	for i := 0; i < lo; i++ {
		if a.bits[i] == b.bits[i] {
			r.bits[i] = a.bits[i]
		}
	}
	return r
}

// muxrFun selects between two real values.
//
type muxrFun struct {
	a, b float64
	sel  Bit4
	outReal
}

func newMuxrFun() *muxrFun {
	return &muxrFun{sel: BitX}
}

func (f *muxrFun) RecvVec4(c *Circuit, e Edge, v Vector4) {
	checkPort("MUXR", e, 3)
	if e.Port != PortSel {
		panic(errors.Errorf("net %d: MUXR data port %d only accepts real values", e.To, e.Port))
	}
	f.sel = selectValue(e.To, v)
	f.update(c, e.To)
}

func (f *muxrFun) RecvReal(c *Circuit, e Edge, v float64) {
	checkPort("MUXR", e, 2)
	if e.Port == PortA {
		f.a = v
	} else {
		f.b = v
	}
	f.update(c, e.To)
}

func (f *muxrFun) update(c *Circuit, n NetID) {
	switch {
	case f.sel == Bit0:
		f.send(c, n, f.a)
	case f.sel == Bit1:
		f.send(c, n, f.b)
	case f.a == f.b:
		f.send(c, n, f.a)
	default:
		f.send(c, n, 0)
	}
}
