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

package ctdeploy_test

import (
	"fmt"
	"os/exec"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conditional-tokens/ctdeploy"
)

var errTest = fmt.Errorf("const error for test")

func Test_NewUsageError(t *testing.T) {
	err := ctdeploy.NewUsageError("unknown command: %s", "foo")
	require.Error(t, err)

	assert.Equal(t, "unknown command: foo", err.Error())
	assert.Equal(t, "unknown command: foo", fmt.Sprintf("%v", err))
	assert.Equal(t, `"unknown command: foo"`, fmt.Sprintf("%q", err))
	assert.Contains(t, fmt.Sprintf("%+v", err), "Usage error: unknown command: foo")
	assert.True(t, ctdeploy.IsCategory(err, ctdeploy.UsageError))
	assert.False(t, ctdeploy.IsCategory(err, ctdeploy.PreconditionError))
	assert.Equal(t, 1, ctdeploy.ExitCode(err))
}

func Test_NewPreconditionError(t *testing.T) {
	err := ctdeploy.NewPreconditionError("%s environment variable not set", "PRIVATE_KEY")
	assert.EqualError(t, err, "PRIVATE_KEY environment variable not set")
	assert.True(t, ctdeploy.IsCategory(err, ctdeploy.PreconditionError))
	assert.Equal(t, 1, ctdeploy.ExitCode(err))
}

func Test_NewToolError(t *testing.T) {
	t.Run("happy_exit_code", func(t *testing.T) {
		err := ctdeploy.NewToolError(errTest, "npm", 3)
		assert.EqualError(t, err, "running npm: const error for test")
		assert.True(t, ctdeploy.IsCategory(err, ctdeploy.ToolError))
		assert.Equal(t, 3, ctdeploy.ExitCode(err))
		assert.True(t, errors.Is(err, errTest))
	})
	t.Run("happy_not_started", func(t *testing.T) {
		err := ctdeploy.NewToolError(exec.ErrNotFound, "truffle-flattener", -1)
		assert.Equal(t, 1, ctdeploy.ExitCode(err))
		assert.True(t, errors.Is(err, exec.ErrNotFound))
	})
	t.Run("happy_nil_cause", func(t *testing.T) {
		err := ctdeploy.NewToolError(nil, "npx", 2)
		assert.EqualError(t, err, "running npx: exit status 2")
	})
}

func Test_ExitCode(t *testing.T) {
	assert.Equal(t, 0, ctdeploy.ExitCode(nil))
	assert.Equal(t, 1, ctdeploy.ExitCode(errTest))

	wrapped := errors.WithMessage(ctdeploy.NewToolError(errTest, "npm", 7), "compiling")
	assert.Equal(t, 7, ctdeploy.ExitCode(wrapped))
	assert.True(t, ctdeploy.IsCategory(wrapped, ctdeploy.ToolError))
}

func Test_ErrorCategory_String(t *testing.T) {
	assert.Equal(t, "Usage", ctdeploy.UsageError.String())
	assert.Equal(t, "Precondition", ctdeploy.PreconditionError.String())
	assert.Equal(t, "Tool", ctdeploy.ToolError.String())
}
