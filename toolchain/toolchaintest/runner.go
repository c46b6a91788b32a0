// Copyright (c) 2024 - for information on the respective copyright owner
// see the NOTICE file and/or the repository at
// https://github.com/conditional-tokens/ctdeploy
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package toolchaintest provides a recording toolchain.Runner for tests.
package toolchaintest

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/conditional-tokens/ctdeploy"
	"github.com/conditional-tokens/ctdeploy/toolchain"
)

// Runner records every invocation instead of running it.
//
// Invocations are matched by their command line (see toolchain.Invocation.String).
type Runner struct {
	Calls []toolchain.Invocation

	exitCodes map[string]int
	outputs   map[string]string
	missing   map[string]bool
}

// NewRunner returns a Runner for which every invocation succeeds and every
// executable is found.
func NewRunner() *Runner {
	return &Runner{
		exitCodes: make(map[string]int),
		outputs:   make(map[string]string),
		missing:   make(map[string]bool),
	}
}

// FailOn makes the invocation with the given command line exit with code.
func (r *Runner) FailOn(cmdline string, code int) *Runner {
	r.exitCodes[cmdline] = code
	return r
}

// WriteOn makes the invocation with the given command line write output to
// its stdout.
func (r *Runner) WriteOn(cmdline, output string) *Runner {
	r.outputs[cmdline] = output
	return r
}

// SetMissing makes LookPath fail for the given executable.
func (r *Runner) SetMissing(name string) *Runner {
	r.missing[name] = true
	return r
}

// Run implements toolchain.Runner.
func (r *Runner) Run(_ context.Context, inv toolchain.Invocation) error {
	r.Calls = append(r.Calls, inv)
	cmdline := inv.String()
	if out, ok := r.outputs[cmdline]; ok && inv.Stdout != nil {
		if _, err := io.WriteString(inv.Stdout, out); err != nil {
			return errors.WithStack(err)
		}
	}
	if code, ok := r.exitCodes[cmdline]; ok {
		return ctdeploy.NewToolError(errors.Errorf("exit status %d", code), cmdline, code)
	}
	return nil
}

// LookPath implements toolchain.Runner.
func (r *Runner) LookPath(name string) (string, error) {
	if r.missing[name] {
		return "", errors.Errorf("executable file not found in $PATH: %s", name)
	}
	return "/usr/local/bin/" + name, nil
}

// Commands returns the command lines of the recorded invocations, in order.
func (r *Runner) Commands() []string {
	cmds := make([]string, len(r.Calls))
	for i := range r.Calls {
		cmds[i] = r.Calls[i].String()
	}
	return cmds
}
