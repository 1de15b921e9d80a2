// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package evsim

import (
	"container/heap"
	"math"
	"strconv"
)

// Time is the logical simulation time.
//
type Time uint64

// Forever is a time limit that is never reached.
//
const Forever Time = math.MaxUint64

// EventClass tells how an event was scheduled.
//
type EventClass uint8

// Event classes.
//
const (
	// Immediate events run at the current time, after every event already
	// due at that time.
	Immediate EventClass = iota
	// Timed events run at a future time.
	Timed
)

func (c EventClass) String() string {
	if c == Immediate {
		return "immediate"
	}
	return "timed"
}

// An Action is the work carried by a scheduled event.
//
type Action func(c *Circuit)

type event struct {
	at    Time
	seq   uint64
	class EventClass
	index int // position in the timed heap, -1 when not in it
	done  bool
	act   Action
}

type eventHeap []*event

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].at != h[j].at {
		return h[i].at < h[j].at
	}
	return h[i].seq < h[j].seq
}

func (h eventHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *eventHeap) Push(x interface{}) {
	e := x.(*event)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *eventHeap) Pop() interface{} {
	old := *h
	n := len(old) - 1
	e := old[n]
	old[n] = nil
	e.index = -1
	*h = old[:n]
	return e
}

// queue holds the scheduler state. Events due at the current time live in
// active, in firing order; the others wait in timed.
//
type queue struct {
	now    Time
	seq    uint64
	active []*event
	head   int
	timed  eventHeap
	dead   int // cancelled events still in active
	fired  uint64
}

// StopReason tells why Run returned.
//
type StopReason int

// Stop reasons.
//
const (
	Drained   StopReason = iota // no more events
	StepLimit                   // activation budget exhausted
	TimeLimit                   // next event is past the time limit
)

var stopNames = [...]string{"drained", "step limit", "time limit"}

func (r StopReason) String() string {
	if int(r) < len(stopNames) {
		return stopNames[r]
	}
	return "stop(" + strconv.Itoa(int(r)) + ")"
}

// Limits bounds a call to Run.
//
type Limits struct {
	// Steps is the maximum number of event activations. 0 means no limit.
	Steps uint64
	// Until is the last time at which events are fired. Use Forever for no
	// limit.
	Until Time
}

// NoLimits returns Limits that let Run go until the queue is empty.
//
func NoLimits() Limits { return Limits{Until: Forever} }

func (c *Circuit) schedule(at Time, class EventClass, act Action) *event {
	e := &event{at: at, seq: c.seq, class: class, index: -1, act: act}
	c.seq++
	if class == Immediate {
		e.at = c.now
		c.active = append(c.active, e)
		c.stats.scheduledImm.Inc()
	} else {
		heap.Push(&c.timed, e)
		c.stats.scheduledTimed.Inc()
	}
	return e
}

// Defer schedules fn to run at the current time, once every event already
// due at that time has run.
//
func (c *Circuit) Defer(fn Action) {
	c.schedule(c.now, Immediate, fn)
}

// after schedules fn to run d ticks from now. A zero delay is the same as
// Defer.
//
func (c *Circuit) after(d Time, fn Action) *event {
	if d == 0 {
		return c.schedule(c.now, Immediate, fn)
	}
	return c.schedule(c.now+d, Timed, fn)
}

// cancel removes a pending event, whether it still waits in the timed heap
// or has already been moved to the active list. It returns false if the
// event has already fired or been cancelled.
//
func (c *Circuit) cancel(e *event) bool {
	if e == nil || e.done {
		return false
	}
	e.done = true
	if e.index >= 0 {
		heap.Remove(&c.timed, e.index)
	} else {
		c.dead++
	}
	c.stats.cancelled.Inc()
	return true
}

func (c *Circuit) fire(e *event) {
	e.done = true
	c.fired++
	if e.class == Immediate {
		c.stats.firedImm.Inc()
	} else {
		c.stats.firedTimed.Inc()
	}
	e.act(c)
}

// drain runs every event due at the current time, including those
// scheduled while draining. It returns false if it stopped because *n
// reached limit.
//
func (c *Circuit) drain(limit uint64, n *uint64) bool {
	for {
		if c.head < len(c.active) {
			e := c.active[c.head]
			if !e.done && limit > 0 && *n >= limit {
				return false
			}
			c.active[c.head] = nil
			c.head++
			if e.done {
				c.dead--
				continue
			}
			*n++
			c.fire(e)
			continue
		}
		c.active = c.active[:0]
		c.head = 0
		if len(c.timed) == 0 || c.timed[0].at > c.now {
			return true
		}
		for len(c.timed) > 0 && c.timed[0].at <= c.now {
			c.active = append(c.active, heap.Pop(&c.timed).(*event))
		}
	}
}

func (c *Circuit) advance(t Time) {
	c.now = t
	c.log.Trace().Uint64("time", uint64(t)).Msg("advance")
}

// Now returns the current simulation time.
//
func (c *Circuit) Now() Time { return c.now }

// Fired returns the total number of events fired so far.
//
func (c *Circuit) Fired() uint64 { return c.fired }

// Pending returns the number of events waiting in the queue.
//
func (c *Circuit) Pending() int { return len(c.active) - c.head - c.dead + len(c.timed) }

// Settle runs every event due at the current time. Events may schedule
// other events at the same time, which will run as well.
//
func (c *Circuit) Settle() {
	var n uint64
	c.drain(0, &n)
}

// Step settles the current time, then advances to the next time with
// pending events and settles it. It returns false if there was nothing left
// to advance to.
//
func (c *Circuit) Step() bool {
	c.Settle()
	if len(c.timed) == 0 {
		return false
	}
	c.advance(c.timed[0].at)
	c.Settle()
	return true
}

// Run runs the simulation until the queue is empty or one of the limits is
// reached. Reaching a limit leaves the remaining events queued; Run may be
// called again to resume.
//
func (c *Circuit) Run(l Limits) StopReason {
	var n uint64
	r := Drained
	for {
		if !c.drain(l.Steps, &n) {
			r = StepLimit
			break
		}
		if len(c.timed) == 0 {
			break
		}
		next := c.timed[0].at
		if next > l.Until {
			r = TimeLimit
			break
		}
		c.advance(next)
	}
	c.log.Debug().
		Stringer("reason", r).
		Uint64("time", uint64(c.now)).
		Uint64("events", n).
		Msg("run stopped")
	return r
}

// RunUntil runs the simulation up to and including time t.
//
func (c *Circuit) RunUntil(t Time) StopReason {
	return c.Run(Limits{Until: t})
}
