// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package evsim

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Strength is a drive strength on an ordinal scale from 0 to 7.
//
type Strength uint8

// Drive strengths.
//
const (
	HiZ Strength = iota
	Small
	Medium
	Weak
	Large
	Pull
	Strong
	Supply
)

var strengthNames = [...]string{"hiz", "small", "medium", "weak", "large", "pull", "strong", "supply"}

func (s Strength) String() string {
	if int(s) < len(strengthNames) {
		return strengthNames[s]
	}
	return "strength(" + strconv.Itoa(int(s)) + ")"
}

// Valid returns true if s is in the [HiZ, Supply] range.
//
func (s Strength) Valid() bool { return s <= Supply }

// ParseStrength parses a strength name or its numeric code.
//
func ParseStrength(s string) (Strength, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range strengthNames {
		if n == s {
			return Strength(i), nil
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > int(Supply) {
		return HiZ, errors.Errorf("invalid drive strength %q", s)
	}
	return Strength(n), nil
}

// resistive returns the strength of a value after it passed through a
// resistive switch.
//
func (s Strength) resistive() Strength {
	switch s {
	case Supply, Strong:
		return Pull
	case Pull:
		return Weak
	case Large, Weak:
		return Medium
	case Medium, Small:
		return Small
	}
	return HiZ
}

// Scalar is a 4-state value together with the strength it is driven with.
// A floating value always has strength HiZ and vice versa.
//
type Scalar struct {
	Value    Bit4
	Strength Strength
}

// MakeScalar returns a normalized Scalar.
//
func MakeScalar(b Bit4, s Strength) Scalar {
	if b == BitZ || s == HiZ {
		return Scalar{BitZ, HiZ}
	}
	return Scalar{b, s}
}

// Resolve returns the value seen on a wire driven by both s and o.
//
func (s Scalar) Resolve(o Scalar) Scalar {
	switch {
	case s.Value == BitZ:
		return o
	case o.Value == BitZ:
		return s
	case s.Strength > o.Strength:
		return s
	case s.Strength < o.Strength:
		return o
	case s.Value == o.Value:
		return s
	}
	return Scalar{BitX, s.Strength}
}

func (s Scalar) String() string {
	if s.Value == BitZ {
		return "z"
	}
	return s.Value.String() + "(" + s.Strength.String() + ")"
}

// Vector8 is a fixed width vector of strength-aware values.
//
// The same immutability rules as for Vector4 apply.
//
type Vector8 struct {
	bits []Scalar
}

// NewVector8 returns a new vector of the given width with all bits set to
// fill.
//
func NewVector8(width int, fill Scalar) Vector8 {
	v := Vector8{bits: make([]Scalar, width)}
	for i := range v.bits {
		v.bits[i] = fill
	}
	return v
}

// Vector8From returns a Vector8 where every 0 bit of v is driven with
// strength s0 and every 1 bit with strength s1. Unknown bits are driven
// with the strongest of the two.
//
func Vector8From(v Vector4, s0, s1 Strength) Vector8 {
	r := Vector8{bits: make([]Scalar, v.Size())}
	sx := s0
	if s1 > sx {
		sx = s1
	}
	for i, b := range v.bits {
		switch b {
		case Bit0:
			r.bits[i] = MakeScalar(b, s0)
		case Bit1:
			r.bits[i] = MakeScalar(b, s1)
		default:
			r.bits[i] = MakeScalar(b, sx)
		}
	}
	return r
}

// Size returns the width of v.
//
func (v Vector8) Size() int { return len(v.bits) }

// Value returns the value of bit i.
//
func (v Vector8) Value(i int) Scalar { return v.bits[i] }

// SetBit sets bit i to s.
//
func (v Vector8) SetBit(i int, s Scalar) { v.bits[i] = MakeScalar(s.Value, s.Strength) }

// Eeq returns true if v and o have the same width and identical values and
// strengths.
//
func (v Vector8) Eeq(o Vector8) bool {
	if len(v.bits) != len(o.bits) {
		return false
	}
	for i, s := range v.bits {
		if o.bits[i] != s {
			return false
		}
	}
	return true
}

// Copy returns a copy of v.
//
func (v Vector8) Copy() Vector8 {
	r := Vector8{bits: make([]Scalar, len(v.bits))}
	copy(r.bits, v.bits)
	return r
}

// Reduce4 strips strength information from v.
//
func (v Vector8) Reduce4() Vector4 {
	r := Vector4{bits: make([]Bit4, len(v.bits))}
	for i, s := range v.bits {
		r.bits[i] = s.Value
	}
	return r
}

// String returns the bits of v, most significant first.
//
func (v Vector8) String() string {
	var b strings.Builder
	for i := len(v.bits) - 1; i >= 0; i-- {
		if i != len(v.bits)-1 {
			b.WriteByte(' ')
		}
		b.WriteString(v.bits[i].String())
	}
	return b.String()
}
