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
	"sort"

	"github.com/abiosoft/ishell"
	"github.com/spf13/cobra"

	"github.com/conditional-tokens/ctdeploy/dispatcher"
)

// File that stores history of commands used in the console.
// This will be preserved across the multiple runs and located in the home directory.
const historyFile = ".ctdeploy_history"

func newConsoleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Start an interactive console",
		Long: `
Start an interactive console for running the commands one after the other,
without reloading the configuration. A failing command is reported and the
console keeps running. Use 'exit' to quit.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			sh := newConsole(a, c)
			sh.Printf("ctdeploy console for %s in %s.\n", a.cfg.Contract.Name, a.dir)
			sh.Printf("%s\n\n", greenf("Type 'help' to list the commands."))
			sh.Run()
			return nil
		},
	}
}

func newConsole(a *app, c *cobra.Command) *ishell.Shell {
	// New shell includes help, clear, exit commands by default.
	sh := ishell.New()
	sh.SetHomeHistoryPath(historyFile)

	networks := networkNames(a)
	cmds := []struct {
		name, help string
		completer  func([]string) []string
	}{
		{"compile", "Compile the contracts. Usage: compile", nil},
		{"deploy", "Deploy the contracts to a network. Usage: deploy [network]", completeNetwork(networks)},
		{"flatten", "Flatten the contract source. Usage: flatten", nil},
		{"verify", "Show verification info for a network. Usage: verify [network]", completeNetwork(networks)},
		{"info", "Show the compiler version and deployed networks. Usage: info", nil},
	}
	for i := range cmds {
		name := cmds[i].name
		sh.AddCmd(&ishell.Cmd{
			Name:      name,
			Help:      cmds[i].help,
			Completer: cmds[i].completer,
			Func: func(ic *ishell.Context) {
				// Errors are reported by the dispatcher and do not end the console.
				a.d.Dispatch(c.Context(), dispatcher.ParseCommand(append([]string{name}, ic.Args...))) // nolint: errcheck, gosec
				ic.Println()
			},
		})
	}
	return sh
}

func networkNames(a *app) []string {
	names := make([]string, 0, len(a.cfg.Networks))
	for name := range a.cfg.Networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// completeNetwork completes the first argument with the known network names.
func completeNetwork(networks []string) func([]string) []string {
	return func(args []string) []string {
		if len(args) > 0 {
			return nil
		}
		return networks
	}
}
