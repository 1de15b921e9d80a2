// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package evlib

import (
	"github.com/db47h/evsim"
	"github.com/pkg/errors"
)

var (
	low  = evsim.NewVector4(1, evsim.Bit0)
	high = evsim.NewVector4(1, evsim.Bit1)
)

// Clock drives net n with a clock signal for the given number of cycles.
// The clock starts low at time start and toggles every half ticks, so that
// rising edges happen at start + half + k*2*half.
//
func Clock(c *evsim.Circuit, n evsim.NetID, start, half evsim.Time, cycles int) error {
	if half == 0 {
		return errors.New("clock half period must not be 0")
	}
	t := start
	for i := 0; i < cycles; i++ {
		if err := c.InjectVec4(t, n, low); err != nil {
			return errors.Wrap(err, "clock")
		}
		t += half
		if err := c.InjectVec4(t, n, high); err != nil {
			return errors.Wrap(err, "clock")
		}
		t += half
	}
	return nil
}

// Drive injects a sequence of values into net n, the first one at time at
// and the following ones every step ticks. Values are parsed with
// evsim.ParseVector4.
//
func Drive(c *evsim.Circuit, n evsim.NetID, at, step evsim.Time, values ...string) error {
	for i, s := range values {
		v, err := evsim.ParseVector4(s)
		if err != nil {
			return errors.Wrapf(err, "value #%d", i)
		}
		if err = c.InjectVec4(at+evsim.Time(i)*step, n, v); err != nil {
			return err
		}
	}
	return nil
}
