// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package evsim

// A TruthTable maps the values of four input ports to a result. Entries
// are indexed by p3<<6 | p2<<4 | p1<<2 | p0, where pN is the Bit4 code of
// port N, and four 2-bit results are packed per byte.
//
// Truth tables are built once and shared by every gate of the same type.
//
type TruthTable [64]byte

// Lookup returns the result for the packed input index idx.
//
func (t *TruthTable) Lookup(idx uint8) Bit4 {
	return Bit4(t[idx>>2]>>((idx&3)*2)) & 3
}

// Eval returns the result for the given port values.
//
func (t *TruthTable) Eval(p0, p1, p2, p3 Bit4) Bit4 {
	return t.Lookup(uint8(p3&3)<<6 | uint8(p2&3)<<4 | uint8(p1&3)<<2 | uint8(p0&3))
}

// NewTruthTable builds a table from a 4-input function.
//
func NewTruthTable(fn func(p0, p1, p2, p3 Bit4) Bit4) *TruthTable {
	t := new(TruthTable)
	for i := 0; i < 256; i++ {
		r := fn(Bit4(i&3), Bit4(i>>2&3), Bit4(i>>4&3), Bit4(i>>6&3))
		t[i>>2] |= byte(r&3) << (uint(i&3) * 2)
	}
	return t
}

func z2x(b Bit4) Bit4 {
	if b == BitZ {
		return BitX
	}
	return b
}

func or4(a, b, c, d Bit4) Bit4  { return a.Or(b).Or(c).Or(d) }
func and4(a, b, c, d Bit4) Bit4 { return a.And(b).And(c).And(d) }
func xor4(a, b, c, d Bit4) Bit4 { return a.Xor(b).Xor(c).Xor(d) }

// Shared truth tables.
//
var (
	TableOR   = NewTruthTable(or4)
	TableNOR  = NewTruthTable(func(a, b, c, d Bit4) Bit4 { return or4(a, b, c, d).Not() })
	TableNAND = NewTruthTable(func(a, b, c, d Bit4) Bit4 { return and4(a, b, c, d).Not() })
	TableXOR  = NewTruthTable(xor4)
	TableXNOR = NewTruthTable(func(a, b, c, d Bit4) Bit4 { return xor4(a, b, c, d).Not() })
	TableNOT  = NewTruthTable(func(a, _, _, _ Bit4) Bit4 { return a.Not() })

	// TableEEQ compares ports 0 and 1 for identity, x and z included.
	TableEEQ = NewTruthTable(func(a, b, _, _ Bit4) Bit4 {
		if a == b {
			return Bit1
		}
		return Bit0
	})

	// TableMUXX selects port 0 or 1 with port 2. It never outputs z.
	TableMUXX = NewTruthTable(func(a, b, sel, _ Bit4) Bit4 {
		switch sel {
		case Bit0:
			return z2x(a)
		case Bit1:
			return z2x(b)
		}
		if a == b && a.IsKnown() {
			return a
		}
		return BitX
	})
)
