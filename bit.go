// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package evsim

import (
	"strings"

	"github.com/pkg/errors"
)

// Bit4 is a single 4-state logic value.
//
// The numeric values are the 2-bit codes used to index truth tables.
//
type Bit4 uint8

// Bit4 values.
//
const (
	Bit0 Bit4 = iota // logic 0
	Bit1             // logic 1
	BitX             // unknown
	BitZ             // floating
)

var bitChars = [4]byte{'0', '1', 'x', 'z'}

func (b Bit4) String() string {
	return string(bitChars[b&3])
}

// IsKnown returns true if b is either 0 or 1.
//
func (b Bit4) IsKnown() bool { return b <= Bit1 }

// Not returns the logical negation of b. Unknown and floating inputs yield
// BitX.
//
func (b Bit4) Not() Bit4 {
	switch b {
	case Bit0:
		return Bit1
	case Bit1:
		return Bit0
	}
	return BitX
}

// And returns b & o where 0 dominates unknown values.
//
func (b Bit4) And(o Bit4) Bit4 {
	switch {
	case b == Bit0 || o == Bit0:
		return Bit0
	case b == Bit1 && o == Bit1:
		return Bit1
	}
	return BitX
}

// Or returns b | o where 1 dominates unknown values.
//
func (b Bit4) Or(o Bit4) Bit4 {
	switch {
	case b == Bit1 || o == Bit1:
		return Bit1
	case b == Bit0 && o == Bit0:
		return Bit0
	}
	return BitX
}

// Xor returns b ^ o. Any unknown input yields BitX.
//
func (b Bit4) Xor(o Bit4) Bit4 {
	if !b.IsKnown() || !o.IsKnown() {
		return BitX
	}
	return b ^ o
}

func parseBit(r rune) (Bit4, bool) {
	switch r {
	case '0':
		return Bit0, true
	case '1':
		return Bit1, true
	case 'x', 'X':
		return BitX, true
	case 'z', 'Z':
		return BitZ, true
	}
	return BitX, false
}

// Vector4 is a fixed width vector of 4-state values. Bit 0 is the least
// significant bit.
//
// A Vector4 handed to SendVec4 or to a functor must not be modified
// afterwards: receivers are allowed to keep a reference to it.
//
type Vector4 struct {
	bits []Bit4
}

// NewVector4 returns a new vector of the given width with all bits set to
// fill.
//
func NewVector4(width int, fill Bit4) Vector4 {
	v := Vector4{bits: make([]Bit4, width)}
	if fill != Bit0 {
		for i := range v.bits {
			v.bits[i] = fill
		}
	}
	return v
}

// Vector4FromUint returns a vector of the given width holding the low
// bits of u.
//
func Vector4FromUint(width int, u uint64) Vector4 {
	v := NewVector4(width, Bit0)
	for i := 0; i < width && i < 64; i++ {
		v.bits[i] = Bit4(u >> uint(i) & 1)
	}
	return v
}

// ParseVector4 parses a string of 0, 1, x and z characters, most
// significant bit first. Underscores are ignored.
//
func ParseVector4(s string) (Vector4, error) {
	s = strings.Replace(s, "_", "", -1)
	v := NewVector4(len(s), Bit0)
	for i, r := range s {
		b, ok := parseBit(r)
		if !ok {
			return Vector4{}, errors.Errorf("invalid character %q in vector %q", r, s)
		}
		v.bits[len(s)-i-1] = b
	}
	return v, nil
}

// MustVector4 is like ParseVector4 but panics on error.
//
func MustVector4(s string) Vector4 {
	v, err := ParseVector4(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Size returns the width of v.
//
func (v Vector4) Size() int { return len(v.bits) }

// Value returns the value of bit i.
//
func (v Vector4) Value(i int) Bit4 { return v.bits[i] }

// SetBit sets bit i to b.
//
func (v Vector4) SetBit(i int, b Bit4) { v.bits[i] = b }

// Eeq returns true if v and o have the same width and the same value in
// every bit position, x and z included.
//
func (v Vector4) Eeq(o Vector4) bool {
	if len(v.bits) != len(o.bits) {
		return false
	}
	for i, b := range v.bits {
		if o.bits[i] != b {
			return false
		}
	}
	return true
}

// ChangeZ2X returns a copy of v where every floating bit is turned into an
// unknown.
//
func (v Vector4) ChangeZ2X() Vector4 {
	r := v.Copy()
	for i, b := range r.bits {
		if b == BitZ {
			r.bits[i] = BitX
		}
	}
	return r
}

// Copy returns a copy of v.
//
func (v Vector4) Copy() Vector4 {
	r := Vector4{bits: make([]Bit4, len(v.bits))}
	copy(r.bits, v.bits)
	return r
}

// Uint returns the value of v as an unsigned integer. ok is false if any
// bit is not 0 or 1.
//
func (v Vector4) Uint() (u uint64, ok bool) {
	for i := len(v.bits) - 1; i >= 0; i-- {
		b := v.bits[i]
		if !b.IsKnown() {
			return 0, false
		}
		u = u<<1 | uint64(b)
	}
	return u, true
}

// String returns v as a string of 0, 1, x and z, most significant bit
// first.
//
func (v Vector4) String() string {
	var b strings.Builder
	b.Grow(len(v.bits))
	for i := len(v.bits) - 1; i >= 0; i-- {
		b.WriteByte(bitChars[v.bits[i]&3])
	}
	return b.String()
}
