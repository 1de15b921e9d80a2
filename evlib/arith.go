// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package evlib

import (
	"strconv"

	"github.com/db47h/evsim"
)

// Bus returns the labels name[0] to name[bits-1].
//
func Bus(name string, bits int) []string {
	ls := make([]string, bits)
	for i := range ls {
		ls[i] = name + "[" + strconv.Itoa(i) + "]"
	}
	return ls
}

func first(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func gate(bld *evsim.Builder, label, typ string, args ...string) error {
	return bld.Functor(label, typ, 1, nil, evsim.Strong, evsim.Strong, args...)
}

// HalfAdder adds a half adder built from zero delay gates.
//
//	Inputs: a, b
//	Outputs: s, c
//	Function: s = lsb(a + b)
//	          c = msb(a + b)
//
func HalfAdder(bld *evsim.Builder, s, c, a, b string) error {
	return first(
		gate(bld, s, "XOR", a, b),
		gate(bld, c, "AND", a, b),
	)
}

// FullAdder adds a full adder. Internal nets are published under labels
// prefixed with s + "/".
//
//	Inputs: a, b, cin
//	Outputs: s, cout
//	Function: s = lsb(a + b + cin)
//	          cout = msb(a + b + cin)
//
func FullAdder(bld *evsim.Builder, s, cout, a, b, cin string) error {
	ab, c0, c1 := s+"/ab", s+"/c0", s+"/c1"
	return first(
		HalfAdder(bld, ab, c0, a, b),
		HalfAdder(bld, s, c1, ab, cin),
		gate(bld, cout, "OR", c0, c1),
	)
}

// Adder adds a ripple carry adder of the given width. The bits of the
// operands and of the result are the nets in Bus(a, bits), Bus(b, bits) and
// Bus(out, bits).
//
//	Inputs: a[bits], b[bits]
//	Outputs: out[bits], c
//
func Adder(bld *evsim.Builder, out, c, a, b string, bits int) error {
	as, bs, os := Bus(a, bits), Bus(b, bits), Bus(out, bits)
	carry := ""
	for i := range os {
		cout := out + "/c" + strconv.Itoa(i)
		if i == bits-1 {
			cout = c
		}
		var err error
		if i == 0 {
			err = HalfAdder(bld, os[i], cout, as[i], bs[i])
		} else {
			err = FullAdder(bld, os[i], cout, as[i], bs[i], carry)
		}
		if err != nil {
			return err
		}
		carry = cout
	}
	return nil
}
