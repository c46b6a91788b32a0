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

// Package dispatcher implements the commands of ctdeploy.
//
// Each command validates its preconditions and then delegates to the
// external toolchain, one blocking invocation at a time. The first failure
// is reported to the user and returned; nothing is retried or rolled back.
package dispatcher

import (
	"bytes"
	"context"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/conditional-tokens/ctdeploy"
	"github.com/conditional-tokens/ctdeploy/artifact"
	"github.com/conditional-tokens/ctdeploy/config"
	"github.com/conditional-tokens/ctdeploy/log"
	"github.com/conditional-tokens/ctdeploy/network"
	"github.com/conditional-tokens/ctdeploy/toolchain"
)

// ProgramName is used when referring to ctdeploy commands in messages.
const ProgramName = "ctdeploy"

// Dispatcher runs the commands against one contract project.
type Dispatcher struct {
	cfg       ctdeploy.Config
	dir       string
	runner    toolchain.Runner
	registry  *network.Registry
	lookupEnv func(string) (string, bool)

	out printer
	log log.Logger
}

// Option configures optional parameters of a Dispatcher.
type Option func(*Dispatcher)

// WithLookupEnv sets the function used to read environment variables.
// Defaults to os.LookupEnv.
func WithLookupEnv(lookupEnv func(string) (string, bool)) Option {
	return func(d *Dispatcher) {
		d.lookupEnv = lookupEnv
	}
}

// New returns a dispatcher for the project in dir. Tools are run through
// runner and status messages are written to out.
func New(cfg ctdeploy.Config, dir string, runner toolchain.Runner, out io.Writer, opts ...Option) (
	*Dispatcher, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	registry, err := network.NewRegistry(cfg.Networks)
	if err != nil {
		return nil, errors.WithMessage(err, "initializing network registry")
	}
	d := &Dispatcher{
		cfg:       cfg,
		dir:       dir,
		runner:    runner,
		registry:  registry,
		lookupEnv: os.LookupEnv,
		out:       printer{w: out},
		log:       log.NewLoggerWithField("component", "dispatcher"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Dispatch runs the given command. Errors are reported to the user before
// being returned; use ctdeploy.ExitCode to map them to an exit status.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd Command) error {
	logger := log.NewDerivedLoggerWithField(d.log, "command", cmd.Kind)
	logger.WithFields(log.Fields{"network": cmd.Network, "dir": d.dir}).Debug("dispatching")
	switch cmd.Kind {
	case Compile:
		return d.Compile(ctx)
	case Deploy:
		return d.Deploy(ctx, cmd.Network)
	case Flatten:
		return d.Flatten(ctx)
	case Verify:
		return d.Verify(ctx, cmd.Network)
	case Info:
		return d.Info(ctx)
	case Help:
		d.Help()
		return nil
	case Unknown:
		return d.Fail(ctdeploy.NewUsageError("unknown command: %s", cmd.Name))
	}
	return d.Fail(errors.Errorf("unhandled command kind %d", cmd.Kind))
}

// Compile builds the contracts with the compile package script.
func (d *Dispatcher) Compile(ctx context.Context) error {
	d.out.headingf("Compiling contracts...")
	if err := d.runScript(ctx, d.cfg.Toolchain.Scripts.Compile); err != nil {
		return err
	}
	d.out.successf("Compilation successful")
	return nil
}

// Deploy migrates the contracts to the given network, forwarding the secret
// to the migration tool, and then refreshes and prints the network info.
func (d *Dispatcher) Deploy(ctx context.Context, networkName string) error {
	if networkName == "" {
		return d.Fail(ctdeploy.NewUsageError("network not specified"))
	}
	secret, ok := d.lookupEnv(d.cfg.SecretEnv)
	if !ok || secret == "" {
		return d.fail(ctdeploy.NewPreconditionError("%s environment variable not set", d.cfg.SecretEnv),
			"Set it with: export "+d.cfg.SecretEnv+"=<your private key>")
	}

	d.out.headingf("Deploying %s to %s...", d.cfg.Contract.Name, networkName)
	migrate := d.cfg.Toolchain.Migrate
	args := append(append([]string{}, migrate[1:]...), "--network", networkName)
	err := d.run(ctx, toolchain.Invocation{
		Name: migrate[0],
		Args: args,
		Env:  []string{d.cfg.SecretEnv + "=" + secret},
	})
	if err != nil {
		return err
	}
	d.out.successf("Deployment to %s complete", networkName)

	d.out.headingf("Updating network info...")
	if err := d.runScript(ctx, d.cfg.Toolchain.Scripts.InjectNetInfo); err != nil {
		return err
	}
	d.out.headingf("Deployed networks:")
	return d.runScript(ctx, d.cfg.Toolchain.Scripts.Networks)
}

// Flatten concatenates the contract source and its imports into the
// flattened source file, installing the flattener if it is not available.
//
// The file is written only if the flattener succeeds.
func (d *Dispatcher) Flatten(ctx context.Context) error {
	tc := d.cfg.Toolchain
	if _, err := d.runner.LookPath(tc.Flattener); err != nil {
		d.log.WithError(err).Debug("flattener not found")
		d.out.warnf("%s not found, installing %s...", tc.Flattener, tc.FlattenerPackage)
		err = d.run(ctx, toolchain.Invocation{
			Name: tc.PackageRunner,
			Args: []string{"install", "-g", tc.FlattenerPackage},
		})
		if err != nil {
			return err
		}
	}

	d.out.headingf("Flattening %s...", d.cfg.Contract.Source)
	flattened := &bytes.Buffer{}
	err := d.run(ctx, toolchain.Invocation{
		Name:   tc.Flattener,
		Args:   []string{d.cfg.Contract.Source},
		Stdout: flattened,
	})
	if err != nil {
		return err
	}
	outFile := d.path(d.cfg.Contract.Flattened)
	if err := ioutil.WriteFile(outFile, flattened.Bytes(), 0o644); err != nil { // nolint: gosec	// source file.
		return d.fail(errors.Wrap(err, "writing flattened source"))
	}

	stats, err := artifact.FileStats(outFile)
	if err != nil {
		return d.fail(err)
	}
	d.out.successf("Flattened contract written to %s", d.cfg.Contract.Flattened)
	d.out.field("Size", stats.HumanSize())
	d.out.field("Lines", stats.Lines)
	return nil
}

// Verify prints the data and the steps required for verifying the source
// of the contract deployed on the given network on its block explorer.
// The flattened source is generated first if it does not exist.
func (d *Dispatcher) Verify(ctx context.Context, networkName string) error {
	if networkName == "" {
		return d.Fail(ctdeploy.NewUsageError("network not specified"))
	}
	deployment, err := d.registry.Lookup(networkName)
	switch {
	case errors.Is(err, network.ErrUnknownNetwork):
		return d.fail(ctdeploy.NewUsageError("unknown network: %s", networkName),
			"Known networks: "+strings.Join(d.registry.Names(), ", "))
	case errors.Is(err, network.ErrNotDeployed):
		return d.fail(ctdeploy.NewPreconditionError("contract not deployed yet on %s", networkName),
			"Deploy it first with: "+ProgramName+" deploy "+networkName,
			"Then set its address under networks."+networkName+".address in the config file")
	case err != nil:
		return d.fail(err)
	}

	compiler := d.cfg.Compiler
	d.out.headingf("Verification info for %s on %s", d.cfg.Contract.Name, networkName)
	d.out.field("Contract address", deployment.AddressHex())
	d.out.field("Checksum address", deployment.Address.Hex())
	d.out.field("Chain ID", deployment.ChainID)
	d.out.field("Compiler version", compiler.Version)
	d.out.field("Optimization", enabledString(compiler.Optimization))
	d.out.field("Runs", compiler.Runs)
	d.out.field("License", compiler.License)
	d.out.printf("\n")

	if !artifact.Exists(d.path(d.cfg.Contract.Flattened)) {
		d.out.warnf("%s not found, flattening first...", d.cfg.Contract.Flattened)
		if err := d.Flatten(ctx); err != nil {
			return err
		}
		d.out.printf("\n")
	}

	d.out.headingf("Manual verification steps:")
	for i, step := range d.verificationSteps(deployment) {
		d.out.printf("  %d. %s\n", i+1, step)
	}
	return nil
}

func (d *Dispatcher) verificationSteps(deployment network.Deployment) []string {
	compiler := d.cfg.Compiler
	optimization := "No"
	if compiler.Optimization {
		optimization = "Yes, with " + strconv.Itoa(compiler.Runs) + " runs"
	}
	return []string{
		"Open " + deployment.ContractURL(),
		`Click "Verify and Publish"`,
		`Select compiler type "Solidity (Single file)"`,
		"Select compiler version " + compiler.Version + " and license " + compiler.License,
		"Set optimization to " + optimization,
		"Paste the contents of " + d.cfg.Contract.Flattened,
		"Submit and wait for the explorer to confirm the verification",
	}
}

// Info prints the compiler version recorded in the build artifact and the
// networks the contract is deployed on.
func (d *Dispatcher) Info(ctx context.Context) error {
	artifactFile := d.path(d.cfg.Contract.Artifact)
	if !artifact.Exists(artifactFile) {
		return d.fail(ctdeploy.NewPreconditionError("build artifact %s not found", d.cfg.Contract.Artifact),
			"Compile the contracts first with: "+ProgramName+" compile")
	}
	version, err := artifact.CompilerVersion(artifactFile)
	if err != nil {
		return d.fail(ctdeploy.NewPreconditionError("%s: %v", d.cfg.Contract.Artifact, err))
	}

	d.out.headingf("Contract info")
	d.out.field("Contract", d.cfg.Contract.Name)
	d.out.field("Compiler version", version)
	d.out.printf("\n")

	d.out.headingf("Deployed networks:")
	return d.runScript(ctx, d.cfg.Toolchain.Scripts.Networks)
}

// Fail reports err to the user, followed by the usage if err is a usage
// error, and returns it.
func (d *Dispatcher) Fail(err error) error {
	d.fail(err) // nolint: errcheck
	if ctdeploy.IsCategory(err, ctdeploy.UsageError) {
		d.out.printf("\n")
		d.Help()
	}
	return err
}

// fail reports err and the hints to the user and returns err.
func (d *Dispatcher) fail(err error, hints ...string) error {
	d.log.Debugf("%+v", err)
	d.out.errorf("%v", err)
	for _, hint := range hints {
		d.out.warnf("%s", hint)
	}
	return err
}

// run invokes the tool in the project directory and reports its failure.
func (d *Dispatcher) run(ctx context.Context, inv toolchain.Invocation) error {
	inv.Dir = d.dir
	if err := d.runner.Run(ctx, inv); err != nil {
		return d.fail(err)
	}
	return nil
}

func (d *Dispatcher) runScript(ctx context.Context, script string) error {
	return d.run(ctx, toolchain.Invocation{
		Name: d.cfg.Toolchain.PackageRunner,
		Args: []string{"run", script},
	})
}

// path resolves a project relative path.
func (d *Dispatcher) path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(d.dir, rel)
}

func enabledString(enabled bool) string {
	if enabled {
		return "Enabled"
	}
	return "Disabled"
}
