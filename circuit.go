// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package evsim

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// MaxPorts is the number of input ports of a net.
//
const MaxPorts = 4

// NetID identifies a net in a Circuit.
//
type NetID int

// Edge is a fan-out edge: it addresses input port Port of net To.
//
type Edge struct {
	To   NetID
	Port int
}

// A Functor is the computation unit attached to a net. It receives values
// on the input ports of its net and may send new values from it, either
// synchronously by calling one of the Circuit.Send methods, or later
// through the scheduler.
//
// RecvVec4 is called with the edge that was used to reach the functor, so
// e.To is the functor's own net.
//
type Functor interface {
	RecvVec4(c *Circuit, e Edge, v Vector4)
}

// Vec8Receiver is implemented by strength-aware functors. Strength-aware
// values sent to functors that do not implement it are reduced to 4-state
// values and delivered with RecvVec4.
//
type Vec8Receiver interface {
	RecvVec8(c *Circuit, e Edge, v Vector8)
}

// RealReceiver is implemented by functors that accept real values.
//
type RealReceiver interface {
	RecvReal(c *Circuit, e Edge, v float64)
}

type net struct {
	fun Functor
	out []Edge
}

// Config holds the kernel settings for a Circuit.
//
type Config struct {
	// DeferAND makes AND gates propagate their output through the scheduler
	// instead of synchronously. Keeps event ordering identical to existing
	// netlists that rely on it.
	DeferAND bool
	// MaxDepth is the maximum nesting of synchronous sends. Deeper sends are
	// turned into immediate events.
	MaxDepth int
	// Logger receives kernel diagnostics.
	Logger zerolog.Logger
	// Registerer is where kernel statistics are registered. If nil, a
	// private registry is used, see Circuit.Gatherer.
	Registerer prometheus.Registerer
}

// DefaultConfig returns the default kernel configuration.
//
func DefaultConfig() Config {
	return Config{
		DeferAND: true,
		MaxDepth: 1000,
		Logger:   zerolog.Nop(),
	}
}

// Circuit is a runnable event driven simulation. It owns every net and
// functor; there is no way to remove them individually.
//
type Circuit struct {
	nets []net
	cfg  Config
	log  zerolog.Logger

	queue
	depth int

	gatherer prometheus.Gatherer
	stats    *stats
}

// NewCircuit returns a new empty circuit.
//
func NewCircuit(cfg Config) *Circuit {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultConfig().MaxDepth
	}
	c := &Circuit{cfg: cfg, log: cfg.Logger}
	reg := cfg.Registerer
	if reg == nil {
		r := prometheus.NewRegistry()
		reg = r
		c.gatherer = r
	} else if g, ok := reg.(prometheus.Gatherer); ok {
		c.gatherer = g
	}
	c.stats = newStats(reg)
	return c
}

// Gatherer returns the registry holding the circuit statistics, or nil if
// the configured Registerer is not a Gatherer.
//
func (c *Circuit) Gatherer() prometheus.Gatherer { return c.gatherer }

// Logger returns the circuit logger.
//
func (c *Circuit) Logger() *zerolog.Logger { return &c.log }

// NewNet allocates a new net for f and returns its id.
//
func (c *Circuit) NewNet(f Functor) NetID {
	if f == nil {
		panic("nil functor")
	}
	c.nets = append(c.nets, net{fun: f})
	return NetID(len(c.nets) - 1)
}

// Size returns the net count in the circuit.
//
func (c *Circuit) Size() int { return len(c.nets) }

// Functor returns the functor of net n.
//
func (c *Circuit) Functor(n NetID) Functor { return c.nets[n].fun }

// Connect appends the edge {to, port} to the fan-out of net from.
//
func (c *Circuit) Connect(from NetID, to NetID, port int) {
	if port < 0 || port >= MaxPorts {
		panic(errors.Errorf("port %d out of range", port))
	}
	if int(from) >= len(c.nets) || int(to) >= len(c.nets) || from < 0 || to < 0 {
		panic(errors.Errorf("invalid net in connection %d -> %d", from, to))
	}
	c.nets[from].out = append(c.nets[from].out, Edge{To: to, Port: port})
}

// Fanout returns the fan-out edges of net n.
//
func (c *Circuit) Fanout(n NetID) []Edge {
	return c.nets[n].out
}

// Observe attaches f as a new fan-out of net n. It returns the net
// allocated for f.
//
func (c *Circuit) Observe(n NetID, f Functor) NetID {
	id := c.NewNet(f)
	c.Connect(n, id, 0)
	return id
}

// enter returns false if the current send must be deferred.
//
func (c *Circuit) enter() bool {
	if c.depth >= c.cfg.MaxDepth {
		return false
	}
	c.depth++
	return true
}

// SendVec4 propagates v to every fan-out of net from.
//
func (c *Circuit) SendVec4(from NetID, v Vector4) {
	if !c.enter() {
		c.Defer(func(c *Circuit) { c.SendVec4(from, v) })
		return
	}
	c.stats.sent4.Inc()
	for _, e := range c.nets[from].out {
		c.nets[e.To].fun.RecvVec4(c, e, v)
	}
	c.depth--
}

// SendVec8 propagates v to every fan-out of net from.
//
func (c *Circuit) SendVec8(from NetID, v Vector8) {
	if !c.enter() {
		c.Defer(func(c *Circuit) { c.SendVec8(from, v) })
		return
	}
	c.stats.sent8.Inc()
	var v4 Vector4
	for _, e := range c.nets[from].out {
		f := c.nets[e.To].fun
		if r, ok := f.(Vec8Receiver); ok {
			r.RecvVec8(c, e, v)
			continue
		}
		if v4.bits == nil {
			v4 = v.Reduce4()
		}
		f.RecvVec4(c, e, v4)
	}
	c.depth--
}

// SendReal propagates v to every fan-out of net from.
//
// It panics if one of the target functors cannot receive reals.
//
func (c *Circuit) SendReal(from NetID, v float64) {
	if !c.enter() {
		c.Defer(func(c *Circuit) { c.SendReal(from, v) })
		return
	}
	c.stats.sentReal.Inc()
	for _, e := range c.nets[from].out {
		r, ok := c.nets[e.To].fun.(RealReceiver)
		if !ok {
			panic(errors.Errorf("net %d: functor %T does not accept real values", e.To, c.nets[e.To].fun))
		}
		r.RecvReal(c, e, v)
	}
	c.depth--
}

// InjectVec4 schedules v to be sent from net n at time at.
//
func (c *Circuit) InjectVec4(at Time, n NetID, v Vector4) error {
	if err := c.checkInject(at, n); err != nil {
		return err
	}
	v = v.Copy()
	c.schedule(at, Timed, func(c *Circuit) { c.SendVec4(n, v) })
	return nil
}

// InjectVec8 schedules v to be sent from net n at time at.
//
func (c *Circuit) InjectVec8(at Time, n NetID, v Vector8) error {
	if err := c.checkInject(at, n); err != nil {
		return err
	}
	v = v.Copy()
	c.schedule(at, Timed, func(c *Circuit) { c.SendVec8(n, v) })
	return nil
}

// InjectReal schedules v to be sent from net n at time at.
//
func (c *Circuit) InjectReal(at Time, n NetID, v float64) error {
	if err := c.checkInject(at, n); err != nil {
		return err
	}
	c.schedule(at, Timed, func(c *Circuit) { c.SendReal(n, v) })
	return nil
}

func (c *Circuit) checkInject(at Time, n NetID) error {
	if n < 0 || int(n) >= len(c.nets) {
		return errors.Errorf("invalid net %d", n)
	}
	if at < c.now {
		return errors.Errorf("cannot inject at time %d: current time is %d", at, c.now)
	}
	return nil
}
