// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package evsim

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// ElementError is an error that caused a single element to be rejected
// during construction.
//
type ElementError struct {
	Label string
	Err   error
}

func (e *ElementError) Error() string { return e.Label + ": " + e.Err.Error() }

// Cause returns the underlying error.
//
func (e *ElementError) Cause() error { return e.Err }

// ErrorList is a list of construction errors.
//
type ErrorList []error

func (l ErrorList) Error() string {
	var b strings.Builder
	for i, err := range l {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(err.Error())
	}
	return b.String()
}

// A ref is a named input of an element, resolved when the circuit is built.
//
type ref struct {
	elem   string
	label  string
	target NetID
	port   int
}

// A Builder builds the graph of a Circuit from gate descriptions. It holds
// the symbol table used to resolve references by label; it should be
// discarded once Build has been called.
//
// References are resolved in Build, so elements may refer to labels that
// are defined later, which is the only way to describe feedback loops.
//
// Publishing the same label more than once makes it a net with several
// drivers: Build then inserts a resolver that computes the net value from
// every driver.
//
type Builder struct {
	c     *Circuit
	log   zerolog.Logger
	syms  map[string][]NetID
	order []string
	refs  []ref
	errs  ErrorList
}

// NewBuilder returns a new Builder adding elements to c.
//
func NewBuilder(c *Circuit) *Builder {
	return &Builder{
		c:    c,
		log:  c.log.With().Str("component", "builder").Logger(),
		syms: make(map[string][]NetID),
	}
}

// Circuit returns the circuit being built.
//
func (b *Builder) Circuit() *Circuit { return b.c }

func (b *Builder) fail(label string, err error) error {
	e := &ElementError{Label: label, Err: err}
	b.errs = append(b.errs, e)
	b.log.Warn().Err(err).Str("label", label).Msg("element rejected")
	return e
}

func (b *Builder) publish(label string, n NetID) {
	ds, ok := b.syms[label]
	if !ok {
		b.order = append(b.order, label)
	} else {
		b.log.Debug().Str("label", label).Int("drivers", len(ds)+1).Msg("additional driver")
	}
	b.syms[label] = append(ds, n)
}

func (b *Builder) count(kind string) {
	b.c.stats.functors.WithLabelValues(kind).Inc()
}

func (b *Builder) connect(elem string, n NetID, args []string) {
	for p, a := range args {
		if a == "" {
			continue
		}
		b.refs = append(b.refs, ref{elem: elem, label: a, target: n, port: p})
	}
}

// Functor adds a logic gate of type typ to the circuit and publishes its
// output under label.
//
// args are the labels of the nets connected to the gate inputs, in port
// order. An empty label leaves the port unconnected. A label of the form
// C4<bits> (e.g. C4<01xz>, most significant bit first) or Cr<value>
// connects a constant.
//
// If delay is not nil, a delay element is inserted after the gate. If str0
// or str1 is not Strong and the gate is not strength-aware, the output
// goes through a drive element that applies these strengths.
//
// Errors reject the element only; they are also returned by Build.
//
func (b *Builder) Functor(label, typ string, width int, delay *Delay, str0, str1 Strength, args ...string) error {
	t, ok := ParseGateType(typ)
	switch {
	case !ok:
		return b.fail(label, errors.Errorf("invalid functor type %q", typ))
	case len(args) > MaxPorts:
		return b.fail(label, errors.Errorf("too many inputs: %d", len(args)))
	case len(args) > t.Arity():
		return b.fail(label, errors.Errorf("%s takes at most %d inputs, got %d", t, t.Arity(), len(args)))
	case !str0.Valid() || !str1.Valid():
		return b.fail(label, errors.Errorf("invalid drive strengths %d, %d", str0, str1))
	case width <= 0 && t != GateMUXR:
		return b.fail(label, errors.Errorf("invalid width %d", width))
	}

	n := b.c.NewNet(b.newGate(t, width, str0, str1, args))
	b.count(t.String())
	b.connect(label, n, args)

	out := n
	if delay != nil {
		d := b.c.NewNet(newDelayFun(*delay))
		b.count("delay")
		b.c.Connect(out, d, 0)
		out = d
	}
	if !t.StrengthAware() && (str0 != Strong || str1 != Strong) {
		r := b.c.NewNet(newResolverFun(1, str0, str1))
		b.count("drive")
		b.c.Connect(out, r, 0)
		out = r
	}
	b.publish(label, out)
	return nil
}

// unconnected reports whether port p is left unconnected by args.
//
func unconnected(args []string, p int) bool {
	return p >= len(args) || args[p] == ""
}

// newGate returns the functor of a gate. The unconnected inputs of gates
// with an identity value are tied to it.
//
func (b *Builder) newGate(t GateType, width int, s0, s1 Strength, args []string) Functor {
	g := &gates[t]
	switch t {
	case GateAND:
		f := newAndFun(width, b.c.cfg.DeferAND)
		for p := 0; p < MaxPorts; p++ {
			if unconnected(args, p) {
				f.in[p] = NewVector4(width, g.tie)
			}
		}
		return f
	case GateBUF:
		return &bufFun{}
	case GateBUFZ:
		return &bufzFun{}
	case GateBUFIF0:
		return newBufifFun(g.name, width, true, false, s0, s1)
	case GateBUFIF1:
		return newBufifFun(g.name, width, false, false, s0, s1)
	case GateNOTIF0:
		return newBufifFun(g.name, width, true, true, s0, s1)
	case GateNOTIF1:
		return newBufifFun(g.name, width, false, true, s0, s1)
	case GateMUXR:
		return newMuxrFun()
	case GateMUXZ:
		return newMuxzFun(width)
	case GateNMOS:
		return newMosFun(g.name, width, false, false)
	case GatePMOS:
		return newMosFun(g.name, width, true, false)
	case GateRNMOS:
		return newMosFun(g.name, width, false, true)
	case GateRPMOS:
		return newMosFun(g.name, width, true, true)
	}
	f := newTableFun(g.name, g.table, g.arity)
	if g.tied {
		for p := 0; p < g.arity; p++ {
			if unconnected(args, p) {
				f.in[p] = NewVector4(width, g.tie)
			}
		}
	}
	return f
}

// Input adds a net that forwards the values injected into it, and
// publishes it under label.
//
func (b *Builder) Input(label string) NetID {
	n := b.c.NewNet(&bufzFun{})
	b.count("input")
	b.publish(label, n)
	return n
}

// Resolve adds a resolver for up to four drivers. 4-state drivers are
// driven with strengths str0 and str1.
//
func (b *Builder) Resolve(label string, str0, str1 Strength, args ...string) error {
	switch {
	case len(args) == 0 || len(args) > MaxPorts:
		return b.fail(label, errors.Errorf("resolver needs 1 to %d inputs, got %d", MaxPorts, len(args)))
	case !str0.Valid() || !str1.Valid():
		return b.fail(label, errors.Errorf("invalid drive strengths %d, %d", str0, str1))
	}
	n := b.c.NewNet(newResolverFun(len(args), str0, str1))
	b.count("resolver")
	b.connect(label, n, args)
	b.publish(label, n)
	return nil
}

// Lookup returns the net published under label. After Build, nets with
// several drivers return their resolver.
//
func (b *Builder) Lookup(label string) (NetID, bool) {
	ds := b.syms[label]
	if len(ds) == 0 {
		return -1, false
	}
	return ds[len(ds)-1], true
}

// Labels returns the published labels in the order they were first
// defined.
//
func (b *Builder) Labels() []string {
	return append([]string(nil), b.order...)
}

// Errors returns the errors reported so far.
//
func (b *Builder) Errors() ErrorList { return b.errs }

// resolveDrivers inserts resolvers in front of a net with several drivers
// and returns the net that carries the resolved value.
//
func (b *Builder) resolveDrivers(label string, ds []NetID) NetID {
	for len(ds) > 1 {
		var next []NetID
		for i := 0; i < len(ds); i += MaxPorts {
			grp := ds[i:]
			if len(grp) > MaxPorts {
				grp = grp[:MaxPorts]
			}
			if len(grp) == 1 {
				next = append(next, grp[0])
				continue
			}
			r := b.c.NewNet(newResolverFun(len(grp), Strong, Strong))
			b.count("resolver")
			for p, d := range grp {
				b.c.Connect(d, r, p)
			}
			next = append(next, r)
		}
		ds = next
	}
	b.log.Debug().Str("label", label).Msg("resolver inserted")
	return ds[0]
}

// constant returns a net that carries the constant described by s. ok is
// false if s is not a constant.
//
func (b *Builder) constant(s string) (n NetID, ok bool, err error) {
	switch {
	case strings.HasPrefix(s, "C4<") && strings.HasSuffix(s, ">"):
		v, err := ParseVector4(s[3 : len(s)-1])
		if err != nil {
			return -1, true, err
		}
		n = b.c.NewNet(&bufzFun{})
		b.count("const")
		return n, true, b.c.InjectVec4(b.c.Now(), n, v)
	case strings.HasPrefix(s, "Cr<") && strings.HasSuffix(s, ">"):
		r, err := strconv.ParseFloat(s[3:len(s)-1], 64)
		if err != nil {
			return -1, true, errors.Wrapf(err, "invalid real constant %q", s)
		}
		n = b.c.NewNet(&bufzFun{})
		b.count("const")
		return n, true, b.c.InjectReal(b.c.Now(), n, r)
	}
	return -1, false, nil
}

// Build resolves all references and returns the finished circuit. If any
// element was rejected, Build returns all errors as an ErrorList.
//
func (b *Builder) Build() (*Circuit, error) {
	for _, l := range b.order {
		if ds := b.syms[l]; len(ds) > 1 {
			b.syms[l] = []NetID{b.resolveDrivers(l, ds)}
		}
	}
	for _, r := range b.refs {
		n, isConst, err := b.constant(r.label)
		if err != nil {
			b.fail(r.elem, err)
			continue
		}
		if !isConst {
			var ok bool
			if n, ok = b.Lookup(r.label); !ok {
				b.fail(r.elem, errors.Errorf("unresolved reference %q", r.label))
				continue
			}
		}
		b.c.Connect(n, r.target, r.port)
	}
	b.refs = nil
	if len(b.errs) > 0 {
		return nil, b.errs
	}
	b.log.Debug().Int("nets", b.c.Size()).Int("labels", len(b.order)).Msg("circuit built")
	return b.c, nil
}
