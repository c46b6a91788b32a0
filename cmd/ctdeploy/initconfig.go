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

package main

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conditional-tokens/ctdeploy/config"
)

var greenf = color.New(color.FgGreen).SprintfFunc()

func newInitConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init-config",
		Short: "Generate a config file with the default values",
		Long: `
Generate a config file holding the default values, that describe the
ConditionalTokens deployment, as a starting point for customization.

The file is written to the path given in --config, or else to ctdeploy.yaml
in the project directory. An existing file is never overwritten.`,
		Args: cobra.NoArgs,
		// Must work when the existing config file cannot be parsed.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(c *cobra.Command, _ []string) error {
			flags := c.Root().PersistentFlags()
			cfgFile, err := flags.GetString(configF)
			if err != nil {
				panic("unknown flag " + configF + "\n")
			}
			if cfgFile == "" {
				projectDir, err := flags.GetString(projectDirF)
				if err != nil {
					panic("unknown flag " + projectDirF + "\n")
				}
				cfgFile = filepath.Join(projectDir, config.DefaultFile)
			}

			if err := config.WriteFile(cfgFile, config.Default()); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s\n", greenf("Generated config file: %s", cfgFile)) // nolint: errcheck
			return nil
		},
	}
}
