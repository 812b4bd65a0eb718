// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package experiment

import (
	"path/filepath"
	"testing"

	"github.com/consensys/go-fractran/pkg/fractran"
	"github.com/consensys/go-fractran/pkg/fractran/machine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const EXPERIMENTS = "../../../testdata/experiments"

func Test_Experiment_Addition(t *testing.T) {
	checkExperiment(t, "addition.yaml", 5)
}

func Test_Experiment_Multiplication(t *testing.T) {
	checkExperiment(t, "multiplication.yaml", 5)
}

func Test_Experiment_Division(t *testing.T) {
	checkExperiment(t, "division.yaml", 5)
}

func Test_Experiment_Hamming(t *testing.T) {
	checkExperiment(t, "hamming.yaml", 6)
}

func Test_Load_00(t *testing.T) {
	experiment, err := Load(filepath.Join(EXPERIMENTS, "multiplication.yaml"))
	//
	require.NoError(t, err)
	assert.Equal(t, "multiplication", experiment.Name)
	assert.Equal(t, filepath.Join(EXPERIMENTS, "../mult.frac"), experiment.File)
	assert.Equal(t, uint(100000), experiment.Steps())
	assert.Equal(t, []uint64{12, 34}, experiment.Runs[4].Input)
}

func Test_Load_01(t *testing.T) {
	_, err := Load(filepath.Join(EXPERIMENTS, "missing.yaml"))
	//
	assert.ErrorContains(t, err, "failed to read experiment file")
}

func Test_Parse_00(t *testing.T) {
	experiment := checkParse(t, "name: add\nprogram: \"3/2\"\nruns:\n  - input: [1]\n    expect: [0, 1]\n")
	//
	assert.Equal(t, DEFAULT_MAX_STEPS, experiment.Steps())
	assert.Equal(t, "", experiment.File)
}

func Test_Parse_Invalid_00(t *testing.T) {
	// Unknown field
	checkParseError(t, "name: add\nprogram: \"3/2\"\nrun:\n  - input: [1]\n    expect: [0, 1]\n",
		"failed to parse YAML")
}

func Test_Parse_Invalid_01(t *testing.T) {
	checkParseError(t, "program: \"3/2\"\nruns:\n  - input: [1]\n    expect: [0, 1]\n", "name is required")
}

func Test_Parse_Invalid_02(t *testing.T) {
	checkParseError(t, "name: add\nruns:\n  - input: [1]\n    expect: [0, 1]\n", "one of program or file")
}

func Test_Parse_Invalid_03(t *testing.T) {
	checkParseError(t, "name: add\nprogram: \"3/2\"\nfile: add.frac\nruns:\n  - input: [1]\n    expect: [0, 1]\n",
		"mutually exclusive")
}

func Test_Parse_Invalid_04(t *testing.T) {
	checkParseError(t, "name: add\nprogram: \"3/2\"\n", "runs list is required")
}

func Test_Parse_Invalid_05(t *testing.T) {
	checkParseError(t, "name: add\nprogram: \"3/2\"\nruns:\n  - input: [1]\n", "runs[0]: expect is required")
}

func Test_Parse_Invalid_06(t *testing.T) {
	// Registers cannot be negative
	checkParseError(t, "name: add\nprogram: \"3/2\"\nruns:\n  - input: [-1]\n    expect: [0]\n",
		"failed to parse YAML")
}

func Test_Compile_00(t *testing.T) {
	experiment := checkParse(t, "name: bad\nprogram: \"3/2, 3-1\"\nruns:\n  - input: [1]\n    expect: [0, 1]\n")
	//
	_, errs, err := experiment.Compile()
	//
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "bad", errs[0].SourceFile().Filename())
}

func Test_Compile_01(t *testing.T) {
	experiment := checkParse(t, "name: add\nprogram: \"3/2, 101\"\nruns:\n  - input: [1]\n    expect: [0, 1]\n")
	//
	_, errs, err := experiment.Compile(fractran.WithSieveLimit(100))
	//
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message(), "factorization overflow")
}

func Test_Execute_00(t *testing.T) {
	// Wrong expectation
	outcomes := checkExecute(t, "3/2", Run{[]uint64{1, 1}, []uint64{0, 3}})
	//
	assert.False(t, outcomes[0].Passed())
	assert.True(t, outcomes[0].Halted)
	assert.Equal(t, "run 0: [1 1] -> [0 2] (expected [0 3])", outcomes[0].String())
}

func Test_Execute_01(t *testing.T) {
	// Too many registers
	outcomes := checkExecute(t, "3/2", Run{[]uint64{1, 1, 1}, []uint64{0, 2}})
	//
	assert.False(t, outcomes[0].Passed())
	assert.ErrorIs(t, outcomes[0].Err, machine.ErrInitialStateTooLong)
}

func Test_Execute_02(t *testing.T) {
	// Never halts
	outcomes := checkExecute(t, "3/2, 2/3", Run{[]uint64{1}, []uint64{1}})
	//
	assert.False(t, outcomes[0].Passed())
	assert.False(t, outcomes[0].Halted)
	assert.Equal(t, uint(100), outcomes[0].Steps)
	assert.Equal(t, "run 0: [1] -> no halt after 100 steps", outcomes[0].String())
}

func Test_Execute_03(t *testing.T) {
	// Outcomes keep the order of runs
	var runs []Run
	//
	for i := range uint64(32) {
		runs = append(runs, Run{[]uint64{i, i}, []uint64{0, 2 * i}})
	}
	//
	outcomes := checkExecute(t, "3/2", runs...)
	//
	for i, outcome := range outcomes {
		assert.Equal(t, uint(i), outcome.Index)
		assert.True(t, outcome.Passed(), outcome.String())
		assert.Equal(t, uint(i), outcome.Steps)
	}
}

func Test_Matches_00(t *testing.T) {
	assert.True(t, Matches([]uint64{0, 46}, []uint64{0, 46}))
	assert.True(t, Matches([]uint64{0, 0, 408}, []uint64{0, 0, 408, 0, 0, 0}))
	assert.True(t, Matches(nil, []uint64{0, 0}))
	assert.True(t, Matches([]uint64{0, 1, 0, 0}, []uint64{0, 1}))
	assert.False(t, Matches([]uint64{0, 1}, []uint64{0, 1, 1}))
	assert.False(t, Matches([]uint64{0, 1, 2}, []uint64{0, 1}))
	assert.False(t, Matches([]uint64{1}, []uint64{0}))
}

// ============================================================================
// Helpers
// ============================================================================

func checkExperiment(t *testing.T, filename string, runs int) {
	t.Helper()
	//
	experiment, err := Load(filepath.Join(EXPERIMENTS, filename))
	require.NoError(t, err)
	//
	prog, errs, err := experiment.Compile()
	require.NoError(t, err)
	require.Empty(t, errs)
	//
	outcomes := Execute(prog, experiment.Runs, experiment.Steps())
	require.Len(t, outcomes, runs)
	//
	for _, outcome := range outcomes {
		assert.True(t, outcome.Passed(), outcome.String())
	}
}

func checkExecute(t *testing.T, text string, runs ...Run) []Outcome {
	t.Helper()
	//
	prog, errs := fractran.CompileString("test.frac", text)
	require.Empty(t, errs)
	//
	return Execute(prog, runs, 100)
}

func checkParse(t *testing.T, text string) *Experiment {
	t.Helper()
	//
	experiment, err := Parse([]byte(text), "")
	require.NoError(t, err)
	//
	return experiment
}

func checkParseError(t *testing.T, text string, expected string) {
	t.Helper()
	//
	_, err := Parse([]byte(text), "")
	//
	assert.ErrorContains(t, err, expected)
}
