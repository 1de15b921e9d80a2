/*
Package evsim provides the runtime kernel of an event driven logic simulator.

A Circuit is an arena of nets. Each net holds one Functor, the computation unit
that receives values on up to four input ports, and a fan-out list of edges to
the input ports of other nets. Values are 4-state vectors (0, 1, x and z),
strength-aware vectors or reals.

Circuits are built with a Builder from gate descriptions that refer to each
other by label:

	c := evsim.NewCircuit(evsim.DefaultConfig())
	b := evsim.NewBuilder(c)
	b.Input("s")
	b.Input("r")
	b.Functor("q", "NAND", 1, nil, evsim.Strong, evsim.Strong, "s", "qn")
	b.Functor("qn", "NAND", 1, evsim.UniformDelay(2), evsim.Strong, evsim.Strong, "r", "q")
	if _, err := b.Build(); err != nil {
		// handle construction errors
	}

Stimuli are injected into nets at a given time and the circuit is then run:

	s, _ := b.Lookup("s")
	c.InjectVec4(0, s, evsim.MustVector4("0"))
	c.Run(evsim.NoLimits())

Zero delay gates propagate synchronously. Delay elements and stimuli go
through the scheduler, which fires events in time order and, within a given
time, in the order they were scheduled.

*/
package evsim
