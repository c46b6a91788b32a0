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
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conditional-tokens/ctdeploy"
	"github.com/conditional-tokens/ctdeploy/config"
	"github.com/conditional-tokens/ctdeploy/dispatcher"
	"github.com/conditional-tokens/ctdeploy/log"
	"github.com/conditional-tokens/ctdeploy/toolchain"
)

const (
	// flag names for the root command, inherited by all sub commands.
	configF     = "config"
	projectDirF = "project-dir"
	loglevelF   = "loglevel"
	logfileF    = "logfile"
)

// cfgFlags are the flags that can also be specified in the config file.
// Values in the flags (when specified) take precedence over those in the file.
var cfgFlags = []string{loglevelF, logfileF}

var redf = color.New(color.FgRed).SprintfFunc()

// app holds the dependencies shared by the commands of one execution.
type app struct {
	runner     toolchain.Runner
	out        io.Writer
	lookupEnv  func(string) (string, bool)
	initLogger func(level, file string) error

	viper *viper.Viper
	cfg   ctdeploy.Config
	dir   string
	d     *dispatcher.Dispatcher

	// helpErr is set when the help could not be printed, as cobra help
	// functions do not return errors.
	helpErr error
}

func newApp() *app {
	return &app{
		runner:     toolchain.NewExecRunner(),
		out:        os.Stdout,
		lookupEnv:  os.LookupEnv,
		initLogger: log.InitLogger,
	}
}

// handledError marks errors that were already reported to the user.
type handledError struct {
	error
}

func (e handledError) Unwrap() error { return e.error }

// execute runs the command line and returns the exit status of the program.
func execute(ctx context.Context, a *app, args []string) int {
	a.viper = viper.New()
	rootCmd := newRootCmd(a)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(a.out)
	rootCmd.SetErr(a.out)

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		err = a.helpErr
	}
	if err != nil {
		var handled handledError
		if !errors.As(err, &handled) {
			a.fail(err)
		}
	}
	return ctdeploy.ExitCode(err)
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ctdeploy [command] [network]",
		Short: "Build, deploy and verify the ConditionalTokens contract.",
		Long: `
Build, deploy and verify the ConditionalTokens contract. Each command delegates
to the project's JavaScript toolchain (npm, truffle and truffle-flattener) and
stops at the first failing step.

Configuration is read from ctdeploy.yaml in the project directory, when
present. Values in the flags override those in the config file.`,
		Args:              cobra.ArbitraryArgs,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: func(c *cobra.Command, _ []string) error { return a.setup(c) },
		RunE: func(c *cobra.Command, args []string) error {
			return a.dispatch(c.Context(), args)
		},
	}
	defineRootFlags(rootCmd)
	for i := range cfgFlags {
		if err := a.viper.BindPFlag(cfgFlags[i], rootCmd.PersistentFlags().Lookup(cfgFlags[i])); err != nil {
			panic(err)
		}
	}

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return ctdeploy.NewUsageError("%v", err)
	})
	rootCmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		if err := a.setup(c); err != nil {
			a.fail(err)
			a.helpErr = handledError{err}
			return
		}
		a.d.Help()
	})

	rootCmd.AddCommand(newDispatchCmds(a)...)
	rootCmd.AddCommand(newVersionCmd(a), newInitConfigCmd(a), newConsoleCmd(a))
	return rootCmd
}

func defineRootFlags(rootCmd *cobra.Command) {
	defaults := config.Default()
	rootCmd.PersistentFlags().String(configF, "",
		"Config file. Defaults to "+config.DefaultFile+" in the project directory, if present")
	rootCmd.PersistentFlags().String(projectDirF, ".", "Directory of the contract project")
	rootCmd.PersistentFlags().String(loglevelF, defaults.LogLevel,
		"Log level. Supported levels: debug, info, warn, error")
	rootCmd.PersistentFlags().String(logfileF, defaults.LogFile, "Log file path. Use empty string for stderr")
}

// newDispatchCmds returns a sub command for each dispatcher command. Arguments
// after the network are ignored, as are the networks of other commands.
func newDispatchCmds(a *app) []*cobra.Command {
	cmds := []struct {
		use, short string
	}{
		{"compile", "Compile the contracts"},
		{"deploy <network>", "Deploy the contracts to a network"},
		{"flatten", "Flatten the contract source for verification"},
		{"verify <network>", "Show block explorer verification info for a network"},
		{"info", "Show the compiler version and the deployed networks"},
	}
	cobraCmds := make([]*cobra.Command, len(cmds))
	for i := range cmds {
		cobraCmds[i] = &cobra.Command{
			Use:   cmds[i].use,
			Short: cmds[i].short,
			Args:  cobra.ArbitraryArgs,
			RunE: func(c *cobra.Command, args []string) error {
				return a.dispatch(c.Context(), append([]string{c.Name()}, args...))
			},
		}
	}
	return cobraCmds
}

// setup loads the configuration, initializes the logger and the dispatcher.
// It does nothing if the dispatcher is already initialized.
func (a *app) setup(c *cobra.Command) error {
	if a.d != nil {
		return nil
	}
	// Read from the root flag set, as help may run before the flags are merged into c.
	flags := c.Root().PersistentFlags()
	projectDir, err := flags.GetString(projectDirF)
	if err != nil {
		panic("unknown flag " + projectDirF + "\n")
	}
	cfgFile, err := flags.GetString(configF)
	if err != nil {
		panic("unknown flag " + configF + "\n")
	}
	if cfgFile == "" {
		if defaultFile := filepath.Join(projectDir, config.DefaultFile); fileExists(defaultFile) {
			cfgFile = defaultFile
		}
	}

	cfg, err := config.ParseConfig(a.viper, cfgFile)
	if err != nil {
		return errors.WithMessage(err, "loading config")
	}
	if err = a.initLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		return errors.WithMessage(err, "initializing logger")
	}
	logger := log.NewLoggerWithField("component", "cli")
	if cfgFile != "" {
		logger.Debugf("using config file %s", cfgFile)
	}
	logger.Debugf("resolved config:\n%s", prettify(cfg))

	d, err := dispatcher.New(cfg, projectDir, a.runner, a.out, dispatcher.WithLookupEnv(a.lookupEnv))
	if err != nil {
		return err
	}
	a.cfg, a.dir, a.d = cfg, projectDir, d
	return nil
}

// dispatch parses the arguments into a dispatcher command and runs it.
func (a *app) dispatch(ctx context.Context, args []string) error {
	if err := a.d.Dispatch(ctx, dispatcher.ParseCommand(args)); err != nil {
		return handledError{err}
	}
	return nil
}

// fail reports an error that did not originate in the dispatcher. Usage
// errors are followed by the usage, printed with the default configuration
// if the configured one could not be loaded.
func (a *app) fail(err error) {
	if a.d == nil && ctdeploy.IsCategory(err, ctdeploy.UsageError) {
		a.d, _ = dispatcher.New(config.Default(), ".", a.runner, a.out) // nolint: errcheck	// defaults are valid.
	}
	if a.d != nil {
		a.d.Fail(err) // nolint: errcheck
		return
	}
	fmt.Fprintf(a.out, "%s\n", redf("Error: %v", err)) // nolint: errcheck
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
