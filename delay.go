// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package evsim

// Delay is a propagation delay. The delay applied to a transition depends
// on the new value: Rise for 1, Fall for 0, Decay for z and the smallest of
// the three for x.
//
type Delay struct {
	Rise  Time
	Fall  Time
	Decay Time
}

// UniformDelay returns a Delay that applies d to every transition.
//
func UniformDelay(d Time) *Delay {
	return &Delay{d, d, d}
}

// Min returns the smallest of the three delays.
//
func (d Delay) Min() Time {
	m := d.Rise
	if d.Fall < m {
		m = d.Fall
	}
	if d.Decay < m {
		m = d.Decay
	}
	return m
}

// To returns the delay of a transition to b.
//
func (d Delay) To(b Bit4) Time {
	switch b {
	case Bit0:
		return d.Fall
	case Bit1:
		return d.Rise
	case BitZ:
		return d.Decay
	}
	return d.Min()
}

// vector returns the delay of the transition from prev to next: the
// smallest delay over the bits that change.
//
func (d Delay) vector(prev, next Vector4) Time {
	m, changed := Forever, false
	for i, b := range next.bits {
		if i < prev.Size() && prev.bits[i] == b {
			continue
		}
		changed = true
		if t := d.To(b); t < m {
			m = t
		}
	}
	if !changed {
		return d.Min()
	}
	return m
}

// delayFun forwards the values it receives after a delay. It is inertial:
// a new value cancels the one still pending, so that at most one event
// per delay element is queued at any time.
//
type delayFun struct {
	d       Delay
	pending *event
	out4
	v8   out8
	real outReal
}

func newDelayFun(d Delay) *delayFun {
	return &delayFun{d: d}
}

// replace cancels the pending event and schedules act after t. A zero
// delay runs act synchronously.
//
func (f *delayFun) replace(c *Circuit, t Time, act Action) {
	if t == 0 {
		act(c)
		return
	}
	var e *event
	e = c.after(t, func(c *Circuit) {
		if f.pending == e {
			f.pending = nil
		}
		act(c)
	})
	f.pending = e
}

func (f *delayFun) RecvVec4(c *Circuit, e Edge, v Vector4) {
	checkPort("delay", e, 1)
	c.cancel(f.pending)
	f.pending = nil
	if f.out4.sent && f.out4.last.Eeq(v) {
		return
	}
	n := e.To
	f.replace(c, f.d.vector(f.out4.last, v), func(c *Circuit) { f.out4.send(c, n, v) })
}

func (f *delayFun) RecvVec8(c *Circuit, e Edge, v Vector8) {
	checkPort("delay", e, 1)
	c.cancel(f.pending)
	f.pending = nil
	if f.v8.sent && f.v8.last.Eeq(v) {
		return
	}
	n := e.To
	f.replace(c, f.d.vector(f.v8.last.Reduce4(), v.Reduce4()), func(c *Circuit) { f.v8.send(c, n, v) })
}

func (f *delayFun) RecvReal(c *Circuit, e Edge, v float64) {
	checkPort("delay", e, 1)
	c.cancel(f.pending)
	f.pending = nil
	if f.real.sent && f.real.last == v {
		return
	}
	n := e.To
	f.replace(c, f.d.Min(), func(c *Circuit) { f.real.send(c, n, v) })
}
