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
package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const TESTDATA = "../../testdata"

func Test_Root_00(t *testing.T) {
	cmd := NewRootCommand()
	//
	assert.Equal(t, "fractran", cmd.Use)
	//
	for _, name := range []string{"compile", "run", "check", "repl"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, "command %s should exist", name)
		assert.Equal(t, name, sub.Name())
	}
}

func Test_Root_01(t *testing.T) {
	cmd := NewRootCommand()
	//
	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)
	//
	limit := cmd.PersistentFlags().Lookup("sieve-limit")
	require.NotNil(t, limit)
	assert.Equal(t, "268435456", limit.DefValue)
}

func Test_Root_02(t *testing.T) {
	stdout, _, code := executeCommand(t, "--version")
	//
	assert.Equal(t, EXIT_OK, code)
	assert.Contains(t, stdout, "fractran ")
}

func Test_Root_03(t *testing.T) {
	t.Setenv("FRACTRAN_MAX_STEPS", "1234")
	t.Setenv("FRACTRAN_SIEVE_LIMIT", "5000")
	//
	cmd := NewRootCommand()
	run, _, err := cmd.Find([]string{"run"})
	require.NoError(t, err)
	//
	assert.Equal(t, "1234", run.Flags().Lookup("max-steps").DefValue)
	assert.Equal(t, "5000", cmd.PersistentFlags().Lookup("sieve-limit").DefValue)
}

func Test_Compile_00(t *testing.T) {
	stdout, _, code := executeCommand(t, "compile", filepath.Join(TESTDATA, "add.frac"))
	//
	assert.Equal(t, EXIT_OK, code)
	assert.Equal(t, "registers 2: r0(2) r1(3)\n[0] 3/2: r0(2) → r1(3)\n", stdout)
}

func Test_Compile_01(t *testing.T) {
	stdout, _, code := executeCommand(t, "compile", "--quiet", filepath.Join(TESTDATA, "add.frac"),
		filepath.Join(TESTDATA, "interpreter.frac"))
	//
	assert.Equal(t, EXIT_OK, code)
	assert.Empty(t, stdout)
}

func Test_Compile_02(t *testing.T) {
	filename := writeFile(t, "bad.frac", "3/2, 7 - 1")
	//
	_, stderr, code := executeCommand(t, "compile", filename)
	//
	assert.Equal(t, EXIT_SYNTAX, code)
	assert.Contains(t, stderr, ":1:6-11 expected literal, +, *, / or ^ (unsupported expression)")
	assert.Contains(t, stderr, "3/2, 7 - 1\n     ^^^^^\n")
}

func Test_Compile_03(t *testing.T) {
	_, _, code := executeCommand(t, "compile", filepath.Join(TESTDATA, "missing.frac"))
	//
	assert.Equal(t, EXIT_FILE, code)
}

func Test_Compile_04(t *testing.T) {
	_, stderr, code := executeCommand(t, "--sieve-limit", "100", "compile", filepath.Join(TESTDATA, "div.frac"))
	//
	assert.Equal(t, EXIT_SYNTAX, code)
	assert.Contains(t, stderr, "factorization overflow")
}

func Test_Run_00(t *testing.T) {
	stdout, stderr, code := executeCommand(t, "run", "--input", "12,34", filepath.Join(TESTDATA, "add.frac"))
	//
	assert.Equal(t, EXIT_OK, code)
	assert.Equal(t, "0,46\n", stdout)
	assert.Equal(t, "halted after 12 steps\n", stderr)
}

func Test_Run_01(t *testing.T) {
	stdout, stderr, code := executeCommand(t, "run", "-i", "12, 34", filepath.Join(TESTDATA, "mult.frac"))
	//
	assert.Equal(t, EXIT_OK, code)
	assert.Equal(t, "0,0,408,0,0,0\n", stdout)
	assert.Equal(t, "halted after 1,282 steps\n", stderr)
}

func Test_Run_02(t *testing.T) {
	_, stderr, code := executeCommand(t, "run", "--input", "1", "--max-steps", "100", filepath.Join(TESTDATA, "primes.frac"))
	//
	assert.Equal(t, EXIT_STEP_LIMIT, code)
	assert.Equal(t, "step limit reached after 100 steps\n", stderr)
}

func Test_Run_03(t *testing.T) {
	_, _, code := executeCommand(t, "run", "--input", "1,x", filepath.Join(TESTDATA, "add.frac"))
	//
	assert.Equal(t, EXIT_INPUT, code)
}

func Test_Run_04(t *testing.T) {
	_, stderr, code := executeCommand(t, "run", "--input", "1,2,3", filepath.Join(TESTDATA, "add.frac"))
	//
	assert.Equal(t, EXIT_INPUT, code)
	assert.Contains(t, stderr, "initial state too long")
}

func Test_Run_05(t *testing.T) {
	stdout, _, code := executeCommand(t, "run", "--input", "2", "--watch", "1", filepath.Join(TESTDATA, "add.frac"))
	//
	assert.Equal(t, EXIT_OK, code)
	assert.Equal(t, "1: 1,1\n2: 0,2\n0,2\n", stdout)
}

func Test_Run_06(t *testing.T) {
	stdout, _, code := executeCommand(t, "run", "--input", "2,1", "--number", filepath.Join(TESTDATA, "add.frac"))
	//
	assert.Equal(t, EXIT_OK, code)
	assert.Equal(t, "0,3\n27\n", stdout)
}

func Test_Run_07(t *testing.T) {
	_, _, code := executeCommand(t, "run", "--watch", "2", filepath.Join(TESTDATA, "add.frac"))
	//
	assert.Equal(t, EXIT_INPUT, code)
}

func Test_Run_08(t *testing.T) {
	filename := writeFile(t, "overflow.frac", "2^100/3")
	//
	_, stderr, code := executeCommand(t, "run", "--input", "18446744073709551600,1", filename)
	//
	assert.Equal(t, EXIT_RUNTIME, code)
	assert.Contains(t, stderr, "register overflow")
}

func Test_Run_09(t *testing.T) {
	// Unbounded, with a trace
	stdout, _, code := executeCommand(t, "run", "--input", "1", "--max-steps", "0", "--watch", "5",
		filepath.Join(TESTDATA, "hamming.frac"))
	//
	assert.Equal(t, EXIT_OK, code)
	assert.Equal(t, "3: 0,0,0,0,0,1\n0,0,0,0,0,1\n", stdout)
}

func Test_Check_00(t *testing.T) {
	stdout, _, code := executeCommand(t, "check", filepath.Join(TESTDATA, "experiments", "addition.yaml"),
		filepath.Join(TESTDATA, "experiments", "multiplication.yaml"))
	//
	assert.Equal(t, EXIT_OK, code)
	assert.Equal(t, "     experiment | runs | passed | status |\n"+
		"       addition |    5 |      5 |   PASS |\n"+
		" multiplication |    5 |      5 |   PASS |\n", stdout)
}

func Test_Check_01(t *testing.T) {
	filename := writeFile(t, "wrong.yaml", "name: wrong\nprogram: \"3/2\"\nruns:\n"+
		"  - input: [1, 1]\n    expect: [0, 2]\n  - input: [1, 1]\n    expect: [0, 3]\n")
	//
	stdout, _, code := executeCommand(t, "check", filename)
	//
	assert.Equal(t, EXIT_CHECK, code)
	assert.Contains(t, stdout, "wrong: run 1: [1 1] -> [0 2] (expected [0 3])\n")
	assert.Contains(t, stdout, " wrong |    2 |      1 |   FAIL |\n")
}

func Test_Check_02(t *testing.T) {
	filename := writeFile(t, "loop.yaml", "name: loop\nprogram: \"3/2, 2/3\"\nruns:\n"+
		"  - input: [1]\n    expect: [0, 1]\n")
	//
	stdout, _, code := executeCommand(t, "check", "--max-steps", "10", "--report=false", filename)
	//
	assert.Equal(t, EXIT_CHECK, code)
	assert.Equal(t, "loop: run 0: [1] -> no halt after 10 steps\n", stdout)
}

func Test_Check_03(t *testing.T) {
	_, stderr, code := executeCommand(t, "check", "--report=false", filepath.Join(TESTDATA, "missing.yaml"))
	//
	assert.Equal(t, EXIT_CHECK, code)
	assert.Contains(t, stderr, "failed to read experiment file")
}

func Test_ParseState_00(t *testing.T) {
	checkParseState(t, "", nil)
	checkParseState(t, "12", []uint64{12})
	checkParseState(t, "12,34", []uint64{12, 34})
	checkParseState(t, " 0 , 0,408 ", []uint64{0, 0, 408})
	checkParseState(t, "18446744073709551615", []uint64{18446744073709551615})
}

func Test_ParseState_01(t *testing.T) {
	for _, text := range []string{"a", "1,,2", "-1", "1.5", "18446744073709551616"} {
		_, err := ParseState(text)
		assert.Error(t, err, text)
	}
}

func Test_FormatState_00(t *testing.T) {
	assert.Equal(t, "", FormatState(nil))
	assert.Equal(t, "0,0,408", FormatState([]uint64{0, 0, 408}))
}

// ============================================================================
// Helpers
// ============================================================================

// executeCommand runs the root command with the given arguments, returning its
// standard output, standard error and exit code.
func executeCommand(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	//
	var (
		stdout, stderr bytes.Buffer
		exitErr        *ExitError
		cmd            = NewRootCommand()
	)
	//
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	//
	err := cmd.Execute()
	//
	if errors.As(err, &exitErr) {
		return stdout.String(), stderr.String(), exitErr.Code
	}
	//
	require.NoError(t, err)
	//
	return stdout.String(), stderr.String(), EXIT_OK
}

func writeFile(t *testing.T, name string, contents string) string {
	t.Helper()
	//
	filename := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(filename, []byte(contents), 0o600))
	//
	return filename
}

func checkParseState(t *testing.T, text string, expected []uint64) {
	t.Helper()
	//
	state, err := ParseState(text)
	//
	require.NoError(t, err)
	assert.Equal(t, expected, state)
}
