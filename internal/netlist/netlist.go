// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package netlist loads circuit descriptions and run settings from TOML
// files and builds them with an evsim.Builder.
//
// A netlist file looks like:
//
//	[run]
//	time_limit = 100
//	step_limit = 100000
//	defer_and = true
//	log_level = "info"
//
//	[[input]]
//	label = "a"
//
//	[[gate]]
//	label = "y"
//	type = "NAND"
//	width = 1
//	delay = 2
//	inputs = ["a", "y"]
//
//	[[stimulus]]
//	at = 0
//	net = "a"
//	value = "1"
//
//	[[probe]]
//	net = "y"
//
package netlist

import (
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/db47h/evsim"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Run holds the simulation settings.
//
type Run struct {
	StepLimit uint64 `toml:"step_limit"`
	TimeLimit uint64 `toml:"time_limit"`
	DeferAND  bool   `toml:"defer_and"`
	MaxDepth  int    `toml:"max_depth"`
	LogLevel  string `toml:"log_level"`

	timeLimited bool
}

// Input declares a stimulus entry net.
//
type Input struct {
	Label string `toml:"label"`
}

// Gate declares a logic functor.
//
type Gate struct {
	Label  string   `toml:"label"`
	Type   string   `toml:"type"`
	Width  int      `toml:"width"`
	Delay  *uint64  `toml:"delay"`
	Rise   *uint64  `toml:"rise"`
	Fall   *uint64  `toml:"fall"`
	Decay  *uint64  `toml:"decay"`
	Str0   string   `toml:"str0"`
	Str1   string   `toml:"str1"`
	Inputs []string `toml:"inputs"`
}

// Resolver declares an explicit resolver.
//
type Resolver struct {
	Label  string   `toml:"label"`
	Str0   string   `toml:"str0"`
	Str1   string   `toml:"str1"`
	Inputs []string `toml:"inputs"`
}

// Stimulus is a value injected into a net at a given time. Exactly one of
// Value and Real must be set.
//
type Stimulus struct {
	At    uint64   `toml:"at"`
	Net   string   `toml:"net"`
	Value string   `toml:"value"`
	Real  *float64 `toml:"real"`
}

// Probe requests that the values of a net be reported.
//
type Probe struct {
	Net string `toml:"net"`
}

// File is a decoded netlist file.
//
type File struct {
	Run       Run        `toml:"run"`
	Inputs    []Input    `toml:"input"`
	Gates     []Gate     `toml:"gate"`
	Resolvers []Resolver `toml:"resolve"`
	Stimuli   []Stimulus `toml:"stimulus"`
	Probes    []Probe    `toml:"probe"`
}

func (f *File) setDefaults(meta toml.MetaData) {
	if !meta.IsDefined("run", "defer_and") {
		f.Run.DeferAND = evsim.DefaultConfig().DeferAND
	}
	if !meta.IsDefined("run", "max_depth") {
		f.Run.MaxDepth = evsim.DefaultConfig().MaxDepth
	}
	if !meta.IsDefined("run", "log_level") {
		f.Run.LogLevel = zerolog.InfoLevel.String()
	}
	f.Run.timeLimited = meta.IsDefined("run", "time_limit")
}

// Decode decodes a netlist from r.
//
func Decode(r io.Reader) (*File, error) {
	var f File
	meta, err := toml.NewDecoder(r).Decode(&f)
	if err != nil {
		return nil, errors.Wrap(err, "decode netlist")
	}
	f.setDefaults(meta)
	return &f, nil
}

// Load decodes the netlist file at path.
//
func Load(path string) (*File, error) {
	var f File
	meta, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, errors.Wrap(err, "load netlist")
	}
	f.setDefaults(meta)
	return &f, nil
}

// Level returns the configured log level.
//
func (f *File) Level() (zerolog.Level, error) {
	l, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(f.Run.LogLevel)))
	if err != nil {
		return zerolog.InfoLevel, errors.Wrapf(err, "invalid log level %q", f.Run.LogLevel)
	}
	return l, nil
}

// Config returns the kernel configuration for the file.
//
func (f *File) Config(log zerolog.Logger) evsim.Config {
	cfg := evsim.DefaultConfig()
	cfg.DeferAND = f.Run.DeferAND
	cfg.MaxDepth = f.Run.MaxDepth
	cfg.Logger = log
	return cfg
}

// Limits returns the run limits for the file.
//
func (f *File) Limits() evsim.Limits {
	l := evsim.NoLimits()
	l.Steps = f.Run.StepLimit
	if f.Run.timeLimited {
		l.Until = evsim.Time(f.Run.TimeLimit)
	}
	return l
}

func strength(s string) (evsim.Strength, error) {
	if s == "" {
		return evsim.Strong, nil
	}
	return evsim.ParseStrength(s)
}

func (g *Gate) delay() *evsim.Delay {
	if g.Delay == nil && g.Rise == nil && g.Fall == nil && g.Decay == nil {
		return nil
	}
	var d evsim.Delay
	if g.Delay != nil {
		d = *evsim.UniformDelay(evsim.Time(*g.Delay))
	}
	for _, p := range []struct {
		v *uint64
		d *evsim.Time
	}{{g.Rise, &d.Rise}, {g.Fall, &d.Fall}, {g.Decay, &d.Decay}} {
		if p.v != nil {
			*p.d = evsim.Time(*p.v)
		}
	}
	return &d
}

// Design is a built netlist.
//
type Design struct {
	Circuit *evsim.Circuit
	// Nets maps every published label to its net.
	Nets map[string]evsim.NetID
}

// Build builds the netlist into a new circuit, schedules its stimuli and
// attaches the functor returned by probe to every probed net. Element
// errors do not stop the build; they are all returned together.
//
func (f *File) Build(cfg evsim.Config, probe func(label string) evsim.Functor) (*Design, error) {
	c := evsim.NewCircuit(cfg)
	b := evsim.NewBuilder(c)
	var errs evsim.ErrorList

	for _, in := range f.Inputs {
		b.Input(in.Label)
	}
	for i := range f.Gates {
		g := &f.Gates[i]
		s0, err := strength(g.Str0)
		if err != nil {
			errs = append(errs, &evsim.ElementError{Label: g.Label, Err: err})
			continue
		}
		s1, err := strength(g.Str1)
		if err != nil {
			errs = append(errs, &evsim.ElementError{Label: g.Label, Err: err})
			continue
		}
		// errors are collected by the builder.
		_ = b.Functor(g.Label, g.Type, g.Width, g.delay(), s0, s1, g.Inputs...)
	}
	for _, r := range f.Resolvers {
		s0, err := strength(r.Str0)
		if err == nil {
			var s1 evsim.Strength
			if s1, err = strength(r.Str1); err == nil {
				_ = b.Resolve(r.Label, s0, s1, r.Inputs...)
				continue
			}
		}
		errs = append(errs, &evsim.ElementError{Label: r.Label, Err: err})
	}

	if _, err := b.Build(); err != nil {
		if l, ok := err.(evsim.ErrorList); ok {
			errs = append(errs, l...)
		} else {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	d := &Design{Circuit: c, Nets: make(map[string]evsim.NetID)}
	for _, l := range b.Labels() {
		d.Nets[l], _ = b.Lookup(l)
	}
	for i, s := range f.Stimuli {
		if err := d.inject(s); err != nil {
			errs = append(errs, errors.Wrapf(err, "stimulus #%d", i))
		}
	}
	if probe != nil {
		for _, p := range f.Probes {
			n, ok := d.Nets[p.Net]
			if !ok {
				errs = append(errs, errors.Errorf("probe: unknown net %q", p.Net))
				continue
			}
			c.Observe(n, probe(p.Net))
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return d, nil
}

func (d *Design) inject(s Stimulus) error {
	n, ok := d.Nets[s.Net]
	if !ok {
		return errors.Errorf("unknown net %q", s.Net)
	}
	switch {
	case s.Real != nil && s.Value != "":
		return errors.New("both value and real are set")
	case s.Real != nil:
		return d.Circuit.InjectReal(evsim.Time(s.At), n, *s.Real)
	}
	v, err := evsim.ParseVector4(s.Value)
	if err != nil {
		return err
	}
	if v.Size() == 0 {
		return errors.New("empty value")
	}
	return d.Circuit.InjectVec4(evsim.Time(s.At), n, v)
}
