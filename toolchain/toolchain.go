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

// Package toolchain runs the external tools that ctdeploy delegates to.
//
// Each invocation is a blocking call that streams the tool's output to the
// terminal and reports a non-zero exit as a ctdeploy ToolError carrying the
// tool's exit status.
package toolchain

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/pkg/errors"

	"github.com/conditional-tokens/ctdeploy"
	"github.com/conditional-tokens/ctdeploy/log"
)

// Invocation describes a single call to an external tool.
type Invocation struct {
	Name string
	Args []string

	// Env holds KEY=VALUE entries added to the environment inherited from the
	// current process. Values are never logged.
	Env []string

	// Dir is the working directory of the tool. Empty means the current one.
	Dir string

	// Stdout receives the standard output of the tool, when not nil.
	// Otherwise the output is streamed to the runner's stdout.
	Stdout io.Writer
}

// String returns the command line of the invocation.
func (inv Invocation) String() string {
	return strings.Join(append([]string{inv.Name}, inv.Args...), " ")
}

// Runner runs external tools.
type Runner interface {
	// Run blocks until the tool exits. It returns a ctdeploy ToolError if
	// the tool could not be started or exited with a non-zero status.
	Run(ctx context.Context, inv Invocation) error

	// LookPath reports the path of the named executable, or an error if it
	// cannot be found.
	LookPath(name string) (string, error)
}

// ExecRunner is a Runner that starts the tools as child processes.
type ExecRunner struct {
	Stdin          io.Reader
	Stdout, Stderr io.Writer

	log log.Logger
}

// NewExecRunner returns a Runner that connects the child processes to the
// standard streams of the current process.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		log:    log.NewLoggerWithField("component", "toolchain"),
	}
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, inv Invocation) error {
	logger := r.log.WithFields(log.Fields{"tool": inv.Name, "dir": inv.Dir})
	logger.Debugf("running %s", inv)

	cmd := exec.CommandContext(ctx, inv.Name, inv.Args...) // nolint: gosec	// tools are named by the user's config.
	cmd.Dir = inv.Dir
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	if inv.Stdout != nil {
		cmd.Stdout = inv.Stdout
	}
	cmd.Stderr = r.Stderr
	if len(inv.Env) > 0 {
		cmd.Env = append(os.Environ(), inv.Env...)
	}

	err := cmd.Run()
	if err == nil {
		logger.WithField("exit", 0).Debug("tool finished")
		return nil
	}
	code := 1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	}
	logger.WithError(err).WithField("exit", code).Debug("tool failed")
	return ctdeploy.NewToolError(err, inv.String(), code)
}

// LookPath implements Runner.
func (r *ExecRunner) LookPath(name string) (string, error) {
	path, err := exec.LookPath(name)
	return path, errors.WithStack(err)
}
