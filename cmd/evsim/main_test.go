// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ringOsc = `
[run]
time_limit = 30
log_level = "warn"

[[input]]
label = "en"

[[gate]]
label = "osc"
type = "NOR"
width = 1
delay = 5
inputs = ["en", "osc"]

[[stimulus]]
at = 0
net = "en"
value = "1"

[[stimulus]]
at = 10
net = "en"
value = "0"

[[probe]]
net = "osc"
`

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeNetlist(t *testing.T, src string) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), "netlist.toml")
	require.NoError(t, os.WriteFile(fn, []byte(src), 0o644))
	return fn
}

func TestRun(t *testing.T) {
	fn := writeNetlist(t, ringOsc)
	out, _, err := execute(t, "run", fn)
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"5 osc 0",
		"15 osc 1",
		"20 osc 0",
		"25 osc 1",
		"30 osc 0",
		"stopped: time limit at 30",
		"",
	}, "\n"), out)

	out, _, err = execute(t, "run", "--until", "16", "--stats", fn)
	require.NoError(t, err)
	assert.Contains(t, out, "stopped: time limit at 15\n")
	assert.Contains(t, out, "evsim_functors_total{type=NOR} 1\n")
	assert.Contains(t, out, "evsim_events_cancelled_total 0\n")

	out, _, err = execute(t, "run", "--steps", "3", fn)
	require.NoError(t, err)
	assert.Contains(t, out, "stopped: step limit")
}

func TestRun_errors(t *testing.T) {
	_, _, err := execute(t, "run")
	assert.Error(t, err)

	_, _, err = execute(t, "run", filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	fn := writeNetlist(t, "[[gate]]\nlabel = \"g\"\ntype = \"FOO\"\nwidth = 1\n")
	_, logs, err := execute(t, "run", fn)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 errors")
	assert.Contains(t, logs, "invalid functor type")

	_, _, err = execute(t, "run", "--log-level", "chatty", writeNetlist(t, ringOsc))
	assert.Error(t, err)
}

func TestTables(t *testing.T) {
	out, _, err := execute(t, "tables", "nand")
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"NAND",
		"    0 1 x z",
		"0   1 1 1 1",
		"1   1 0 x x",
		"x   1 x x x",
		"z   1 x x x",
		"",
	}, "\n"), out)

	out, _, err = execute(t, "tables", "NOT")
	require.NoError(t, err)
	assert.Equal(t, "NOT\n    0 1 x z\n    1 0 x x\n", out)

	out, _, err = execute(t, "tables")
	require.NoError(t, err)
	for _, g := range []string{"EEQ", "MUXX", "OR", "XNOR"} {
		assert.Contains(t, out, g+"\n")
	}
	assert.Contains(t, out, "sel=z\n")

	_, _, err = execute(t, "tables", "NMOS")
	assert.Error(t, err)
}
