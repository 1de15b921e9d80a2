// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package evlib_test

import (
	"testing"

	"github.com/db47h/evsim"
	"github.com/db47h/evsim/evlib"
	"github.com/db47h/evsim/evtest"
)

func newInputs(t *testing.T, labels ...string) (*evsim.Circuit, []evsim.NetID) {
	t.Helper()
	c := evsim.NewCircuit(evsim.DefaultConfig())
	b := evsim.NewBuilder(c)
	ns := make([]evsim.NetID, len(labels))
	for i, l := range labels {
		ns[i] = b.Input(l)
	}
	if _, err := b.Build(); err != nil {
		t.Fatal(err)
	}
	return c, ns
}

func TestDFF(t *testing.T) {
	c, ns := newInputs(t, "d", "clk")
	d, clk := ns[0], ns[1]
	dff := c.NewNet(evlib.NewDFF())
	c.Connect(d, dff, evlib.DFFIn)
	c.Connect(clk, dff, evlib.DFFClk)
	out := evlib.Watch(c, dff)

	if err := evlib.Clock(c, clk, 0, 5, 3); err != nil {
		t.Fatal(err)
	}
	if err := evlib.Drive(c, d, 0, 12, "1", "0"); err != nil {
		t.Fatal(err)
	}
	c.Run(evsim.NoLimits())
	evtest.CompareTrace(t, out, "5:1", "15:0")
	if c.Now() != 25 {
		t.Errorf("clock stopped at %d", c.Now())
	}
}

func TestDFF_edges(t *testing.T) {
	c, ns := newInputs(t, "d", "clk")
	d, clk := ns[0], ns[1]
	dff := c.NewNet(evlib.NewDFF())
	c.Connect(d, dff, evlib.DFFIn)
	c.Connect(clk, dff, evlib.DFFClk)
	out := evlib.Watch(c, dff)

	// first edge before any data
	if err := evlib.Clock(c, clk, 0, 5, 2); err != nil {
		t.Fatal(err)
	}
	if err := evlib.Drive(c, d, 7, 14, "1", "0"); err != nil {
		t.Fatal(err)
	}
	// x to 1 does not latch
	if err := evlib.Drive(c, clk, 20, 4, "x", "1"); err != nil {
		t.Fatal(err)
	}
	c.Run(evsim.NoLimits())
	evtest.CompareTrace(t, out, "5:x", "15:1")
}

func TestClock(t *testing.T) {
	c, ns := newInputs(t, "clk")
	r := evlib.Watch(c, ns[0])
	if err := evlib.Clock(c, ns[0], 10, 0, 1); err == nil {
		t.Fatal("zero half period accepted")
	}
	if err := evlib.Clock(c, ns[0], 10, 2, 2); err != nil {
		t.Fatal(err)
	}
	c.Run(evsim.NoLimits())
	evtest.CompareTrace(t, r, "10:0", "12:1", "14:0", "16:1")

	if err := evlib.Clock(c, ns[0], 0, 1, 1); err == nil {
		t.Fatal("clock in the past accepted")
	}
}

func TestDrive(t *testing.T) {
	c, ns := newInputs(t, "bus")
	r := evlib.Watch(c, ns[0])
	if err := evlib.Drive(c, ns[0], 1, 1, "0000", "1010", "zzzz"); err != nil {
		t.Fatal(err)
	}
	if err := evlib.Drive(c, ns[0], 5, 1, "12"); err == nil {
		t.Fatal("invalid value accepted")
	}
	c.Run(evsim.NoLimits())
	evtest.CompareTrace(t, r, "1:0000", "2:1010", "3:zzzz")
	if got := r.Values(); len(got) != 3 || got[1] != "1010" {
		t.Errorf("unexpected values %v", got)
	}
	r.Reset()
	if _, ok := r.Last(); ok {
		t.Error("Reset left samples")
	}
}

func TestProbes(t *testing.T) {
	c, ns := newInputs(t, "a", "r")
	var (
		v4 []string
		v8 []string
		vr []float64
	)
	c.Observe(ns[0], evlib.Probe4(func(_ evsim.Time, v evsim.Vector4) { v4 = append(v4, v.String()) }))
	c.Observe(ns[0], evlib.Probe8(func(_ evsim.Time, v evsim.Vector8) { v8 = append(v8, v.String()) }))
	c.Observe(ns[1], evlib.ProbeReal(func(_ evsim.Time, v float64) { vr = append(vr, v) }))
	rec := evlib.Watch(c, ns[1])

	if err := c.InjectVec4(0, ns[0], evsim.MustVector4("1z")); err != nil {
		t.Fatal(err)
	}
	if err := c.InjectVec8(1, ns[0], evsim.Vector8From(evsim.MustVector4("01"), evsim.Pull, evsim.Weak)); err != nil {
		t.Fatal(err)
	}
	if err := c.InjectReal(2, ns[1], -0.5); err != nil {
		t.Fatal(err)
	}
	c.Run(evsim.NoLimits())

	if len(v4) != 2 || v4[0] != "1z" || v4[1] != "01" {
		t.Errorf("Probe4: %v", v4)
	}
	if len(v8) != 2 || v8[0] != "1(strong) z" || v8[1] != "0(pull) 1(weak)" {
		t.Errorf("Probe8: %v", v8)
	}
	if len(vr) != 1 || vr[0] != -0.5 {
		t.Errorf("ProbeReal: %v", vr)
	}
	evtest.CompareTrace(t, rec, "2:-0.5")
}
