// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command evsim runs netlist simulations.
//
// Usage:
//
//	evsim run [--steps N] [--until T] [--log-level L] [--stats] netlist.toml
//	evsim tables [GATE...]
//
package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/db47h/evsim"
	"github.com/db47h/evsim/internal/netlist"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newLogger(w io.Writer, lvl zerolog.Level) zerolog.Logger {
	out := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(out).With().Timestamp().Str("app", "evsim").Logger().Level(lvl)
}

// printer is a probe that prints every value sent on a net.
type printer struct {
	w     io.Writer
	label string
}

func (p *printer) print(c *evsim.Circuit, v string) {
	fmt.Fprintf(p.w, "%d %s %s\n", c.Now(), p.label, v)
}

func (p *printer) RecvVec4(c *evsim.Circuit, _ evsim.Edge, v evsim.Vector4) { p.print(c, v.String()) }

func (p *printer) RecvVec8(c *evsim.Circuit, _ evsim.Edge, v evsim.Vector8) { p.print(c, v.String()) }

func (p *printer) RecvReal(c *evsim.Circuit, _ evsim.Edge, v float64) {
	p.print(c, strconv.FormatFloat(v, 'g', -1, 64))
}

func newRunCmd() *cobra.Command {
	var (
		steps uint64
		until uint64
		level string
		stats bool
	)
	cmd := &cobra.Command{
		Use:   "run NETLIST",
		Short: "Build a netlist and run its stimuli",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := netlist.Load(args[0])
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("log-level") {
				f.Run.LogLevel = level
			}
			if flags.Changed("steps") {
				f.Run.StepLimit = steps
			}
			lvl, err := f.Level()
			if err != nil {
				return err
			}
			log := newLogger(cmd.ErrOrStderr(), lvl)
			out := cmd.OutOrStdout()

			d, err := f.Build(f.Config(log), func(label string) evsim.Functor {
				return &printer{w: out, label: label}
			})
			if err != nil {
				if l, ok := err.(evsim.ErrorList); ok {
					for _, e := range l {
						log.Error().Err(e).Msg("netlist")
					}
					return errors.Errorf("%s: %d errors", args[0], len(l))
				}
				return err
			}
			lim := f.Limits()
			if flags.Changed("until") {
				lim.Until = evsim.Time(until)
			}
			c := d.Circuit
			start := time.Now()
			r := c.Run(lim)
			log.Info().
				Stringer("reason", r).
				Uint64("time", uint64(c.Now())).
				Uint64("events", c.Fired()).
				Dur("elapsed", time.Since(start)).
				Msg("simulation stopped")
			fmt.Fprintf(out, "stopped: %s at %d\n", r, c.Now())
			if stats {
				return printStats(out, c.Gatherer())
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.Uint64Var(&steps, "steps", 0, "maximum number of events to fire (0: no limit)")
	flags.Uint64Var(&until, "until", 0, "last simulation time")
	flags.StringVar(&level, "log-level", "info", "log level")
	flags.BoolVar(&stats, "stats", false, "print kernel statistics")
	return cmd
}

func printStats(w io.Writer, g prometheus.Gatherer) error {
	mfs, err := g.Gather()
	if err != nil {
		return errors.Wrap(err, "gather statistics")
	}
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			var ls []string
			for _, lp := range m.GetLabel() {
				ls = append(ls, lp.GetName()+"="+lp.GetValue())
			}
			name := mf.GetName()
			if len(ls) > 0 {
				name += "{" + strings.Join(ls, ",") + "}"
			}
			fmt.Fprintf(w, "%s %g\n", name, m.GetCounter().GetValue())
		}
	}
	return nil
}

var bitValues = []evsim.Bit4{evsim.Bit0, evsim.Bit1, evsim.BitX, evsim.BitZ}

// printTable prints the output of a table gate for every value of its first
// two inputs. The other inputs are tied the way the Builder ties them;
// multiplexers get one grid per select value.
func printTable(w io.Writer, g evsim.GateType) {
	t := g.Table()
	grid := func(p2, p3 evsim.Bit4) {
		fmt.Fprint(w, "   ")
		for _, p0 := range bitValues {
			fmt.Fprintf(w, " %v", p0)
		}
		fmt.Fprintln(w)
		rows := bitValues
		if g.Arity() < 2 {
			rows = rows[:1]
		}
		for _, p1 := range rows {
			if g.Arity() < 2 {
				fmt.Fprint(w, "   ")
			} else {
				fmt.Fprintf(w, "%v  ", p1)
			}
			for _, p0 := range bitValues {
				fmt.Fprintf(w, " %v", t.Eval(p0, p1, p2, p3))
			}
			fmt.Fprintln(w)
		}
	}

	fmt.Fprintln(w, g)
	if tie, ok := g.Tie(); ok {
		grid(tie, tie)
		return
	}
	if g.Arity() < 3 {
		grid(evsim.BitX, evsim.BitX)
		return
	}
	for _, sel := range bitValues {
		fmt.Fprintf(w, "sel=%v\n", sel)
		grid(sel, evsim.BitX)
	}
}

func newTablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tables [GATE...]",
		Short: "Print the truth tables of table driven gates",
		RunE: func(cmd *cobra.Command, args []string) error {
			var ts []evsim.GateType
			for _, a := range args {
				g, ok := evsim.ParseGateType(a)
				if !ok || g.Table() == nil {
					return errors.Errorf("%q is not a table driven gate", a)
				}
				ts = append(ts, g)
			}
			if len(ts) == 0 {
				for _, g := range evsim.GateTypes() {
					if g.Table() != nil {
						ts = append(ts, g)
					}
				}
				sort.Slice(ts, func(i, j int) bool { return ts[i].String() < ts[j].String() })
			}
			out := cmd.OutOrStdout()
			for i, g := range ts {
				if i > 0 {
					fmt.Fprintln(out)
				}
				printTable(out, g)
			}
			return nil
		},
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "evsim",
		Short:         "Event driven 4-state logic simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newTablesCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "evsim:", err)
		os.Exit(1)
	}
}
