// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package evsim

import (
	"strconv"
	"strings"
)

// GateType is the type tag of a logic functor.
//
type GateType int

// Gate types.
//
const (
	GateOR GateType = iota
	GateAND
	GateBUF
	GateBUFIF0
	GateBUFIF1
	GateNOTIF0
	GateNOTIF1
	GateBUFZ
	GateMUXR
	GateMUXX
	GateMUXZ
	GateNMOS
	GatePMOS
	GateRNMOS
	GateRPMOS
	GateEEQ
	GateNAND
	GateNOR
	GateNOT
	GateXNOR
	GateXOR
	gateCount
)

type gateInfo struct {
	name  string
	arity int
	// aware gates produce strength-aware values on their own.
	aware bool
	table *TruthTable
	// value tied to unconnected inputs of n-input gates.
	tie  Bit4
	tied bool
}

var gates = [gateCount]gateInfo{
	GateOR:     {name: "OR", arity: 4, table: TableOR, tie: Bit0, tied: true},
	GateAND:    {name: "AND", arity: 4, tie: Bit1, tied: true},
	GateBUF:    {name: "BUF", arity: 1},
	GateBUFIF0: {name: "BUFIF0", arity: 2, aware: true},
	GateBUFIF1: {name: "BUFIF1", arity: 2, aware: true},
	GateNOTIF0: {name: "NOTIF0", arity: 2, aware: true},
	GateNOTIF1: {name: "NOTIF1", arity: 2, aware: true},
	GateBUFZ:   {name: "BUFZ", arity: 1},
	GateMUXR:   {name: "MUXR", arity: 3},
	GateMUXX:   {name: "MUXX", arity: 3, table: TableMUXX},
	GateMUXZ:   {name: "MUXZ", arity: 3},
	GateNMOS:   {name: "NMOS", arity: 2, aware: true},
	GatePMOS:   {name: "PMOS", arity: 2, aware: true},
	GateRNMOS:  {name: "RNMOS", arity: 2, aware: true},
	GateRPMOS:  {name: "RPMOS", arity: 2, aware: true},
	GateEEQ:    {name: "EEQ", arity: 2, table: TableEEQ},
	GateNAND:   {name: "NAND", arity: 4, table: TableNAND, tie: Bit1, tied: true},
	GateNOR:    {name: "NOR", arity: 4, table: TableNOR, tie: Bit0, tied: true},
	GateNOT:    {name: "NOT", arity: 1, table: TableNOT},
	GateXNOR:   {name: "XNOR", arity: 4, table: TableXNOR, tie: Bit0, tied: true},
	GateXOR:    {name: "XOR", arity: 4, table: TableXOR, tie: Bit0, tied: true},
}

// ParseGateType returns the gate type for the given tag. Tags are case
// insensitive.
//
func ParseGateType(s string) (GateType, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i := range gates {
		if gates[i].name == s {
			return GateType(i), true
		}
	}
	return -1, false
}

// GateTypes returns all gate types.
//
func GateTypes() []GateType {
	ts := make([]GateType, gateCount)
	for i := range ts {
		ts[i] = GateType(i)
	}
	return ts
}

func (t GateType) valid() bool { return t >= 0 && t < gateCount }

func (t GateType) String() string {
	if !t.valid() {
		return "GateType(" + strconv.Itoa(int(t)) + ")"
	}
	return gates[t].name
}

// Arity returns the number of inputs of gates of type t.
//
func (t GateType) Arity() int { return gates[t].arity }

// StrengthAware returns true if gates of type t drive their output with
// their own strengths.
//
func (t GateType) StrengthAware() bool { return gates[t].aware }

// Table returns the truth table used by gates of type t, or nil if t is not
// implemented with a truth table.
//
func (t GateType) Table() *TruthTable { return gates[t].table }

// Tie returns the value that a Builder latches on the unconnected inputs of
// gates of type t. ok is false for gates whose inputs are not tied.
//
func (t GateType) Tie() (b Bit4, ok bool) { return gates[t].tie, gates[t].tied }
