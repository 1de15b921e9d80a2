// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package evsim

// Port numbers of conditional drivers.
//
const (
	PortData    = 0
	PortControl = 1
)

// controlBit returns the control value that applies to bit i. Single bit
// controls apply to every bit.
//
func controlBit(ctl Vector4, i int) Bit4 {
	switch {
	case ctl.Size() == 1:
		return ctl.bits[0]
	case i < ctl.Size():
		return ctl.bits[i]
	}
	return BitX
}

// bufifFun is a tristate buffer (BUFIF0/1) or inverter (NOTIF0/1). When
// enabled it drives its data input with strengths s0 and s1, otherwise its
// output floats.
//
type bufifFun struct {
	name      string
	invert    bool
	activeLow bool
	s0, s1    Strength
	data, en  Vector4
	out8
}

func newBufifFun(name string, width int, activeLow, invert bool, s0, s1 Strength) *bufifFun {
	return &bufifFun{
		name:      name,
		invert:    invert,
		activeLow: activeLow,
		s0:        s0,
		s1:        s1,
		data:      NewVector4(width, BitX),
		en:        NewVector4(1, BitX),
	}
}

func (f *bufifFun) RecvVec4(c *Circuit, e Edge, v Vector4) {
	checkPort(f.name, e, 2)
	if e.Port == PortData {
		f.data = v
	} else {
		f.en = v
	}

	sx := f.s0
	if f.s1 > sx {
		sx = f.s1
	}
	r := NewVector8(f.data.Size(), Scalar{BitZ, HiZ})
	for i, d := range f.data.bits {
		if f.invert {
			d = d.Not()
		} else {
			d = z2x(d)
		}
		en := controlBit(f.en, i)
		if f.activeLow {
			en = en.Not()
		}
		switch en {
		case Bit0:
			continue
		case Bit1:
			switch d {
			case Bit0:
				r.bits[i] = MakeScalar(Bit0, f.s0)
			case Bit1:
				r.bits[i] = MakeScalar(Bit1, f.s1)
			default:
				r.bits[i] = MakeScalar(BitX, sx)
			}
		default:
			r.bits[i] = MakeScalar(BitX, sx)
		}
	}
	f.send(c, e.To, r)
}

// mosFun is a MOS switch. It passes its source through when its gate is 1
// (NMOS) or 0 (PMOS). Resistive switches reduce the strength of the value
// they pass.
//
type mosFun struct {
	name      string
	pmos      bool
	resistive bool
	data      Vector8
	gate      Vector4
	out8
}

func newMosFun(name string, width int, pmos, resistive bool) *mosFun {
	return &mosFun{
		name:      name,
		pmos:      pmos,
		resistive: resistive,
		data:      NewVector8(width, Scalar{BitX, Strong}),
		gate:      NewVector4(1, BitX),
	}
}

func (f *mosFun) RecvVec4(c *Circuit, e Edge, v Vector4) {
	checkPort(f.name, e, 2)
	if e.Port == PortData {
		f.data = Vector8From(v, Strong, Strong)
	} else {
		f.gate = v
	}
	f.update(c, e.To)
}

func (f *mosFun) RecvVec8(c *Circuit, e Edge, v Vector8) {
	checkPort(f.name, e, 2)
	if e.Port == PortData {
		f.data = v
	} else {
		f.gate = v.Reduce4()
	}
	f.update(c, e.To)
}

func (f *mosFun) update(c *Circuit, n NetID) {
	r := NewVector8(f.data.Size(), Scalar{BitZ, HiZ})
	for i, s := range f.data.bits {
		if f.resistive {
			s = MakeScalar(s.Value, s.Strength.resistive())
		}
		g := controlBit(f.gate, i)
		if f.pmos {
			g = g.Not()
		}
		switch g {
		case Bit0:
			continue
		case Bit1:
			r.bits[i] = s
		default:
			r.bits[i] = MakeScalar(BitX, s.Strength)
		}
	}
	f.send(c, n, r)
}
