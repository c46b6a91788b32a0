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

package toolchain_test

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conditional-tokens/ctdeploy"
	"github.com/conditional-tokens/ctdeploy/toolchain"
)

const missingTool = "ctdeploy-test-missing-tool"

func newTestRunner(t *testing.T) (r *toolchain.ExecRunner, stdout, stderr *bytes.Buffer) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	stdout, stderr = &bytes.Buffer{}, &bytes.Buffer{}
	r = toolchain.NewExecRunner()
	r.Stdin = &bytes.Buffer{}
	r.Stdout = stdout
	r.Stderr = stderr
	return r, stdout, stderr
}

func Test_ExecRunner_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("happy_stdout", func(t *testing.T) {
		r, stdout, stderr := newTestRunner(t)
		err := r.Run(ctx, toolchain.Invocation{Name: "sh", Args: []string{"-c", "printf out; printf err >&2"}})
		require.NoError(t, err)
		assert.Equal(t, "out", stdout.String())
		assert.Equal(t, "err", stderr.String())
	})

	t.Run("happy_stdout_override", func(t *testing.T) {
		r, stdout, _ := newTestRunner(t)
		captured := &bytes.Buffer{}
		err := r.Run(ctx, toolchain.Invocation{
			Name:   "sh",
			Args:   []string{"-c", "printf 'pragma solidity ^0.5.1;'"},
			Stdout: captured,
		})
		require.NoError(t, err)
		assert.Equal(t, "pragma solidity ^0.5.1;", captured.String())
		assert.Empty(t, stdout.String())
	})

	t.Run("happy_env_forwarded", func(t *testing.T) {
		r, stdout, _ := newTestRunner(t)
		err := r.Run(ctx, toolchain.Invocation{
			Name: "sh",
			Args: []string{"-c", `printf %s "$CTDEPLOY_TEST_SECRET"`},
			Env:  []string{"CTDEPLOY_TEST_SECRET=0xdeadbeef"},
		})
		require.NoError(t, err)
		assert.Equal(t, "0xdeadbeef", stdout.String())
	})

	t.Run("happy_dir", func(t *testing.T) {
		r, stdout, _ := newTestRunner(t)
		dir := t.TempDir()
		err := r.Run(ctx, toolchain.Invocation{Name: "sh", Args: []string{"-c", "pwd"}, Dir: dir})
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), filepath.Base(dir))
	})

	t.Run("err_exit_code", func(t *testing.T) {
		r, _, _ := newTestRunner(t)
		err := r.Run(ctx, toolchain.Invocation{Name: "sh", Args: []string{"-c", "exit 3"}})
		require.Error(t, err)
		t.Log(err)
		assert.True(t, ctdeploy.IsCategory(err, ctdeploy.ToolError))
		assert.Equal(t, 3, ctdeploy.ExitCode(err))
		assert.Contains(t, err.Error(), "running sh -c exit 3")
	})

	t.Run("err_not_found", func(t *testing.T) {
		r, _, _ := newTestRunner(t)
		err := r.Run(ctx, toolchain.Invocation{Name: missingTool})
		require.Error(t, err)
		assert.True(t, ctdeploy.IsCategory(err, ctdeploy.ToolError))
		assert.Equal(t, 1, ctdeploy.ExitCode(err))
		assert.True(t, errors.Is(err, exec.ErrNotFound))
	})

	t.Run("err_context_cancelled", func(t *testing.T) {
		r, _, _ := newTestRunner(t)
		cancelledCtx, cancel := context.WithCancel(ctx)
		cancel()
		err := r.Run(cancelledCtx, toolchain.Invocation{Name: "sh", Args: []string{"-c", "sleep 5"}})
		require.Error(t, err)
		assert.True(t, ctdeploy.IsCategory(err, ctdeploy.ToolError))
		assert.Equal(t, 1, ctdeploy.ExitCode(err))
	})
}

func Test_ExecRunner_LookPath(t *testing.T) {
	r, _, _ := newTestRunner(t)

	path, err := r.LookPath("sh")
	require.NoError(t, err)
	assert.NotEmpty(t, path)

	_, err = r.LookPath(missingTool)
	require.Error(t, err)
}

func Test_Invocation_String(t *testing.T) {
	inv := toolchain.Invocation{
		Name: "npx",
		Args: []string{"truffle", "migrate", "--network", "base_sepolia"},
		Env:  []string{"PRIVATE_KEY=0x01"},
	}
	assert.Equal(t, "npx truffle migrate --network base_sepolia", inv.String())
	assert.NotContains(t, inv.String(), "PRIVATE_KEY")
}
