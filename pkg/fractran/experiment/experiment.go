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
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/consensys/go-fractran/pkg/fractran"
	"github.com/consensys/go-fractran/pkg/fractran/program"
	"github.com/consensys/go-fractran/pkg/util/source"
	"gopkg.in/yaml.v3"
)

// DEFAULT_MAX_STEPS bounds each run of an experiment which does not specify
// its own limit.
const DEFAULT_MAX_STEPS uint = 1_000_000

// Experiment describes a program together with a number of runs, each of which
// gives an initial state and the expected final state.
type Experiment struct {
	// Name identifies this experiment in reports.
	Name string `yaml:"name"`
	// Description is optional explanatory text.
	Description string `yaml:"description,omitempty"`
	// Program gives the program text inline.
	Program string `yaml:"program,omitempty"`
	// File names a source file holding the program, relative to the
	// experiment file.  Exactly one of Program and File must be given.
	File string `yaml:"file,omitempty"`
	// MaxSteps bounds each run.  A run which reaches this bound without
	// halting fails.
	MaxSteps uint `yaml:"max_steps,omitempty"`
	// Runs lists the inputs and their expected outputs.
	Runs []Run `yaml:"runs"`
}

// Run is a single execution of an experiment's program.
type Run struct {
	// Input is the initial state, zero-padded as necessary.
	Input []uint64 `yaml:"input"`
	// Expect is a prefix of the expected final state.  Registers beyond the
	// prefix are expected to be zero.
	Expect []uint64 `yaml:"expect"`
}

// Load reads and parses an experiment file.  Unknown fields are rejected, and
// any program file is resolved relative to the experiment file.
func Load(path string) (*Experiment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read experiment file: %w", err)
	}
	//
	return Parse(data, filepath.Dir(path))
}

// Parse an experiment from its YAML encoding, resolving any program file
// against a given directory.
func Parse(data []byte, dir string) (*Experiment, error) {
	var (
		experiment Experiment
		decoder    = yaml.NewDecoder(bytes.NewReader(data))
	)
	//
	decoder.KnownFields(true)
	//
	if err := decoder.Decode(&experiment); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	//
	if experiment.File != "" && !filepath.IsAbs(experiment.File) && dir != "" {
		experiment.File = filepath.Join(dir, experiment.File)
	}
	//
	if err := experiment.validate(); err != nil {
		return nil, fmt.Errorf("invalid experiment: %w", err)
	}
	//
	return &experiment, nil
}

func (p *Experiment) validate() error {
	switch {
	case p.Name == "":
		return errors.New("name is required")
	case p.Program == "" && p.File == "":
		return errors.New("one of program or file is required")
	case p.Program != "" && p.File != "":
		return errors.New("program and file are mutually exclusive")
	case len(p.Runs) == 0:
		return errors.New("runs list is required and must be non-empty")
	}
	//
	for i, run := range p.Runs {
		if run.Expect == nil {
			return fmt.Errorf("runs[%d]: expect is required", i)
		}
	}
	//
	return nil
}

// Steps returns the step bound for each run of this experiment.
func (p *Experiment) Steps() uint {
	if p.MaxSteps == 0 {
		return DEFAULT_MAX_STEPS
	}
	//
	return p.MaxSteps
}

// Source returns the program of this experiment as a source file.
func (p *Experiment) Source() (*source.File, error) {
	if p.File != "" {
		return source.ReadFile(p.File)
	}
	//
	return source.NewSourceFile(p.Name, []byte(p.Program)), nil
}

// Compile the program of this experiment.
func (p *Experiment) Compile(options ...fractran.Option) (*program.Program, []source.SyntaxError, error) {
	srcfile, err := p.Source()
	if err != nil {
		return nil, nil, err
	}
	//
	prog, errs := fractran.CompileSource(srcfile, options...)
	//
	return prog, errs, nil
}
