// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package evlib

import (
	"strconv"

	"github.com/db47h/evsim"
	"github.com/pkg/errors"
)

// Probe4 is an observer functor. The function is called with every 4-state
// value sent on the observed net. Strength-aware values are reduced.
//
//	Inputs: in
//	Function: f(now, in)
//
type Probe4 func(t evsim.Time, v evsim.Vector4)

// RecvVec4 implements evsim.Functor.
//
func (p Probe4) RecvVec4(c *evsim.Circuit, _ evsim.Edge, v evsim.Vector4) { p(c.Now(), v) }

// Probe8 is an observer functor for strength-aware values. 4-state values
// are seen as strong.
//
type Probe8 func(t evsim.Time, v evsim.Vector8)

// RecvVec4 implements evsim.Functor.
//
func (p Probe8) RecvVec4(c *evsim.Circuit, _ evsim.Edge, v evsim.Vector4) {
	p(c.Now(), evsim.Vector8From(v, evsim.Strong, evsim.Strong))
}

// RecvVec8 implements evsim.Vec8Receiver.
//
func (p Probe8) RecvVec8(c *evsim.Circuit, _ evsim.Edge, v evsim.Vector8) { p(c.Now(), v) }

// ProbeReal is an observer functor for real values.
//
type ProbeReal func(t evsim.Time, v float64)

// RecvVec4 implements evsim.Functor. Real probes only accept reals.
//
func (p ProbeReal) RecvVec4(_ *evsim.Circuit, e evsim.Edge, _ evsim.Vector4) {
	panic(errors.Errorf("net %d: real probe received a 4-state value", e.To))
}

// RecvReal implements evsim.RealReceiver.
//
func (p ProbeReal) RecvReal(c *evsim.Circuit, _ evsim.Edge, v float64) { p(c.Now(), v) }

// Sample is a value seen by a Recorder.
//
type Sample struct {
	Time  evsim.Time
	Value string
}

func (s Sample) String() string {
	return strconv.FormatUint(uint64(s.Time), 10) + ":" + s.Value
}

// Recorder records every value sent on the nets it observes, in the format
// of the value's String method. Reals are formatted with the %g verb.
//
type Recorder struct {
	Samples []Sample
}

func (r *Recorder) add(c *evsim.Circuit, s string) {
	r.Samples = append(r.Samples, Sample{c.Now(), s})
}

// RecvVec4 implements evsim.Functor.
//
func (r *Recorder) RecvVec4(c *evsim.Circuit, _ evsim.Edge, v evsim.Vector4) { r.add(c, v.String()) }

// RecvVec8 implements evsim.Vec8Receiver.
//
func (r *Recorder) RecvVec8(c *evsim.Circuit, _ evsim.Edge, v evsim.Vector8) { r.add(c, v.String()) }

// RecvReal implements evsim.RealReceiver.
//
func (r *Recorder) RecvReal(c *evsim.Circuit, _ evsim.Edge, v float64) {
	r.add(c, strconv.FormatFloat(v, 'g', -1, 64))
}

// Last returns the last recorded sample.
//
func (r *Recorder) Last() (Sample, bool) {
	if len(r.Samples) == 0 {
		return Sample{}, false
	}
	return r.Samples[len(r.Samples)-1], true
}

// Values returns the recorded values without their time stamps.
//
func (r *Recorder) Values() []string {
	vs := make([]string, len(r.Samples))
	for i, s := range r.Samples {
		vs[i] = s.Value
	}
	return vs
}

// Reset clears the recorded samples.
//
func (r *Recorder) Reset() { r.Samples = r.Samples[:0] }

// Watch attaches a new Recorder to net n.
//
func Watch(c *evsim.Circuit, n evsim.NetID) *Recorder {
	r := new(Recorder)
	c.Observe(n, r)
	return r
}
