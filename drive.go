// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package evsim

// resolverFun computes the value of a net driven by up to four
// contributors. 4-state contributions are driven with strengths s0 and s1.
//
// Per bit, floating contributors are ignored, the strongest contributor
// wins and contributors of equal strength that disagree yield x.
//
type resolverFun struct {
	arity  int
	s0, s1 Strength
	in     [MaxPorts]Vector8
	out8
}

func newResolverFun(arity int, s0, s1 Strength) *resolverFun {
	return &resolverFun{arity: arity, s0: s0, s1: s1}
}

func (f *resolverFun) RecvVec4(c *Circuit, e Edge, v Vector4) {
	checkPort("resolver", e, f.arity)
	f.in[e.Port] = Vector8From(v, f.s0, f.s1)
	f.update(c, e.To)
}

func (f *resolverFun) RecvVec8(c *Circuit, e Edge, v Vector8) {
	checkPort("resolver", e, f.arity)
	f.in[e.Port] = v
	f.update(c, e.To)
}

func (f *resolverFun) update(c *Circuit, n NetID) {
	w := 0
	for _, in := range f.in {
		if in.Size() > w {
			w = in.Size()
		}
	}
	r := NewVector8(w, Scalar{BitZ, HiZ})
	for _, in := range f.in {
		for i, s := range in.bits {
			r.bits[i] = r.bits[i].Resolve(s)
		}
	}
	f.send(c, n, r)
}
