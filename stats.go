// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package evsim

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// stats holds the kernel counters. Label values are resolved once so that
// the hot paths only do an atomic add.
//
type stats struct {
	functors *prometheus.CounterVec

	scheduledImm   prometheus.Counter
	scheduledTimed prometheus.Counter
	firedImm       prometheus.Counter
	firedTimed     prometheus.Counter
	cancelled      prometheus.Counter

	sent4    prometheus.Counter
	sent8    prometheus.Counter
	sentReal prometheus.Counter
}

func newStats(r prometheus.Registerer) *stats {
	f := promauto.With(r)
	scheduled := f.NewCounterVec(prometheus.CounterOpts{
		Name: "evsim_events_scheduled_total",
		Help: "Events scheduled by class",
	}, []string{"class"})
	fired := f.NewCounterVec(prometheus.CounterOpts{
		Name: "evsim_events_fired_total",
		Help: "Events fired by class",
	}, []string{"class"})
	sent := f.NewCounterVec(prometheus.CounterOpts{
		Name: "evsim_propagations_total",
		Help: "Values sent from a net to its fan-out, by channel",
	}, []string{"channel"})
	return &stats{
		functors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "evsim_functors_total",
			Help: "Functors created by gate type",
		}, []string{"type"}),
		scheduledImm:   scheduled.WithLabelValues(Immediate.String()),
		scheduledTimed: scheduled.WithLabelValues(Timed.String()),
		firedImm:       fired.WithLabelValues(Immediate.String()),
		firedTimed:     fired.WithLabelValues(Timed.String()),
		cancelled: f.NewCounter(prometheus.CounterOpts{
			Name: "evsim_events_cancelled_total",
			Help: "Pending events replaced by inertial delays",
		}),
		sent4:    sent.WithLabelValues("vec4"),
		sent8:    sent.WithLabelValues("vec8"),
		sentReal: sent.WithLabelValues("real"),
	}
}
