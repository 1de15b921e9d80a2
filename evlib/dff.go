// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package evlib provides reusable stimulus and observer parts for evsim
// circuits.
//
package evlib

import (
	"github.com/db47h/evsim"
	"github.com/pkg/errors"
)

// DFF ports.
//
const (
	DFFIn  = 0
	DFFClk = 1
)

// DFF is a rising edge triggered data flip flop.
//
//	Inputs: in, clk
//	Outputs: out
//	Function: out = in on the rising edge of clk.
//
// The output starts unknown and only changes on a 0 to 1 transition of
// clk; x to 1 is not an edge. A rising edge before any data has been
// received latches a single x bit.
//
type DFF struct {
	in  evsim.Vector4
	clk evsim.Bit4
	out evsim.Vector4
}

// NewDFF returns a new DFF functor.
//
func NewDFF() *DFF {
	return &DFF{in: evsim.NewVector4(1, evsim.BitX), clk: evsim.BitX}
}

// RecvVec4 implements evsim.Functor.
//
func (d *DFF) RecvVec4(c *evsim.Circuit, e evsim.Edge, v evsim.Vector4) {
	switch e.Port {
	case DFFIn:
		d.in = v
	case DFFClk:
		if v.Size() != 1 {
			panic(errors.Errorf("net %d: DFF clock must be 1 bit wide", e.To))
		}
		prev := d.clk
		d.clk = v.Value(0)
		if prev != evsim.Bit0 || d.clk != evsim.Bit1 {
			return
		}
		if d.out.Size() != 0 && d.out.Eeq(d.in) {
			return
		}
		d.out = d.in
		c.SendVec4(e.To, d.out)
	default:
		panic(errors.Errorf("net %d: DFF has no input port %d", e.To, e.Port))
	}
}
