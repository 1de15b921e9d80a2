// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package evsim

import "github.com/pkg/errors"

// checkPort panics if e addresses a port beyond the arity of the functor.
//
func checkPort(name string, e Edge, arity int) {
	if e.Port < 0 || e.Port >= arity {
		panic(errors.Errorf("net %d: %s has no input port %d", e.To, name, e.Port))
	}
}

// out4 remembers the last vector sent by a functor and drops values that
// would not change its output.
//
type out4 struct {
	last Vector4
	sent bool
}

func (o *out4) send(c *Circuit, n NetID, v Vector4) {
	if o.sent && o.last.Eeq(v) {
		return
	}
	o.last, o.sent = v, true
	c.SendVec4(n, v)
}

type out8 struct {
	last Vector8
	sent bool
}

func (o *out8) send(c *Circuit, n NetID, v Vector8) {
	if o.sent && o.last.Eeq(v) {
		return
	}
	o.last, o.sent = v, true
	c.SendVec8(n, v)
}

type outReal struct {
	last float64
	sent bool
}

func (o *outReal) send(c *Circuit, n NetID, v float64) {
	if o.sent && o.last == v {
		return
	}
	o.last, o.sent = v, true
	c.SendReal(n, v)
}

// tableFun is a gate of up to four inputs whose function is given by a
// truth table.
//
type tableFun struct {
	name  string
	table *TruthTable
	arity int
	in    [MaxPorts]Vector4
	out4
}

func newTableFun(name string, t *TruthTable, arity int) *tableFun {
	return &tableFun{name: name, table: t, arity: arity}
}

func (f *tableFun) RecvVec4(c *Circuit, e Edge, v Vector4) {
	checkPort(f.name, e, f.arity)
	f.in[e.Port] = v

	r := NewVector4(v.Size(), Bit0)
	for i := range r.bits {
		var idx uint8
		for p := MaxPorts - 1; p >= 0; p-- {
			idx <<= 2
			if in := f.in[p]; i < in.Size() {
				idx |= uint8(in.bits[i])
			} else {
				idx |= uint8(BitX)
			}
		}
		r.bits[i] = f.table.Lookup(idx)
	}
	f.send(c, e.To, r)
}

// andFun is a 4-input AND gate. When deferred, its output is computed in an
// immediate event instead of during the call to RecvVec4.
//
type andFun struct {
	in       [MaxPorts]Vector4
	width    int
	deferred bool
	pending  bool
	net      NetID
	out4
}

func newAndFun(width int, deferred bool) *andFun {
	f := &andFun{width: width, deferred: deferred}
	for i := range f.in {
		f.in[i] = NewVector4(width, BitX)
	}
	return f
}

func (f *andFun) RecvVec4(c *Circuit, e Edge, v Vector4) {
	checkPort("AND", e, MaxPorts)
	if f.in[e.Port].Eeq(v) {
		return
	}
	f.in[e.Port] = v
	f.net = e.To
	if !f.deferred {
		f.run(c)
		return
	}
	if f.pending {
		return
	}
	f.pending = true
	c.Defer(f.run)
}

func (f *andFun) run(c *Circuit) {
	f.pending = false
	r := NewVector4(f.width, Bit1)
	for i := range r.bits {
		b := Bit1
		for _, in := range f.in {
			if i >= in.Size() {
				b = b.And(BitX)
				continue
			}
			b = b.And(in.bits[i])
		}
		r.bits[i] = b
	}
	f.send(c, f.net, r)
}

// bufFun passes its input through, turning z into x.
//
type bufFun struct {
	out4
}

func (f *bufFun) RecvVec4(c *Circuit, e Edge, v Vector4) {
	checkPort("BUF", e, 1)
	f.send(c, e.To, v.ChangeZ2X())
}

// bufzFun passes 4-state and real values through unchanged.
//
type bufzFun struct {
	out4
	real outReal
}

func (f *bufzFun) RecvVec4(c *Circuit, e Edge, v Vector4) {
	checkPort("BUFZ", e, 1)
	f.send(c, e.To, v)
}

func (f *bufzFun) RecvReal(c *Circuit, e Edge, v float64) {
	checkPort("BUFZ", e, 1)
	f.real.send(c, e.To, v)
}
