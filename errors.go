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

package ctdeploy

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// ErrorCategory classifies the errors returned by the dispatcher.
type ErrorCategory int

// Enumeration of error categories.
const (
	// UsageError indicates a missing or invalid argument, an unknown command
	// or an unknown network.
	UsageError ErrorCategory = iota + 1
	// PreconditionError indicates a missing file, an unset environment
	// variable or a network without a deployment.
	PreconditionError
	// ToolError indicates that a delegated tool could not be started or
	// exited with a non-zero status.
	ToolError
)

// String implements the stringer interface for ErrorCategory.
func (c ErrorCategory) String() string {
	return [...]string{"", "Usage", "Precondition", "Tool"}[c]
}

// Error represents an error returned by the dispatcher.
//
// It implements Cause() and Unwrap() methods that return the underlying
// error, and a custom Formatter, so that the stack trace of the underlying
// error is printed when using "%+v" verb.
type Error struct {
	category ErrorCategory
	exitCode int
	err      error
}

// Category returns the category of the error.
func (e Error) Category() ErrorCategory { return e.category }

// ExitCode returns the process exit status that should be used when the
// program terminates with this error.
func (e Error) ExitCode() int { return e.exitCode }

// Error implements the error interface.
func (e Error) Error() string { return e.err.Error() }

// Format prints the stack trace of the underlying error for "%+v".
func (e Error) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			fmt.Fprintf(s, "%s error: %+v", e.category, e.err)
			return
		}
		fallthrough
	case 's':
		//nolint: errcheck,gosec	// Error of ioString need not be checked.
		io.WriteString(s, e.Error())
	case 'q':
		fmt.Fprintf(s, "%q", e.Error())
	}
}

// Cause returns the underlying error.
func (e Error) Cause() error { return e.err }

// Unwrap returns the underlying error.
func (e Error) Unwrap() error { return e.err }

// NewUsageError returns a UsageError with the given message.
func NewUsageError(format string, args ...interface{}) error {
	return Error{category: UsageError, exitCode: 1, err: errors.Errorf(format, args...)}
}

// NewPreconditionError returns a PreconditionError with the given message.
func NewPreconditionError(format string, args ...interface{}) error {
	return Error{category: PreconditionError, exitCode: 1, err: errors.Errorf(format, args...)}
}

// NewToolError returns a ToolError for the given tool. Exit codes less than
// one (the tool could not be started or was killed by a signal) are
// reported as 1.
func NewToolError(err error, tool string, exitCode int) error {
	if exitCode < 1 {
		exitCode = 1
	}
	if err == nil {
		err = errors.Errorf("exit status %d", exitCode)
	}
	return Error{
		category: ToolError,
		exitCode: exitCode,
		err:      errors.WithMessage(err, fmt.Sprintf("running %s", tool)),
	}
}

// ExitCode returns the process exit status for err: 0 for nil, the exit code
// carried by an Error and 1 for any other error.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var e Error
	if errors.As(err, &e) {
		return e.exitCode
	}
	return 1
}

// IsCategory reports whether err is an Error of the given category.
func IsCategory(err error, category ErrorCategory) bool {
	var e Error
	return errors.As(err, &e) && e.category == category
}
