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

// Config defines the parameters of the contract project that ctdeploy drives.
//
// Every value has a default (see config.Default) that reproduces the single
// fixed deployment of the ConditionalTokens contract, so a config file is
// only needed to change them.
type Config struct {
	LogLevel string // Log level. Supported levels: debug, info, warn, error.
	LogFile  string // Log file path. Empty string logs to stderr.

	// Name of the environment variable holding the deployer's private key.
	SecretEnv string

	Contract  ContractConfig
	Toolchain ToolchainConfig
	Compiler  CompilerConfig

	// Networks maps network names, as passed to the migration tool, to their
	// deployment details.
	Networks map[string]NetworkConfig
}

// ContractConfig holds the project relative paths of the contract files.
type ContractConfig struct {
	Name      string
	Source    string // Input to the flattener.
	Artifact  string // Build output JSON written by the compile step.
	Flattened string // Output of the flattener.
}

// ToolchainConfig names the external commands the dispatcher delegates to.
type ToolchainConfig struct {
	PackageRunner string   // Runs named package scripts, "npm".
	Migrate       []string // Migration tool invocation without the network flag.
	Flattener     string   // Source flattening binary.
	// Package installed globally through the package runner when the
	// flattener binary is not found.
	FlattenerPackage string

	Scripts ScriptsConfig
}

// ScriptsConfig holds the names of package scripts used by the dispatcher.
type ScriptsConfig struct {
	Compile       string
	InjectNetInfo string
	Networks      string
}

// CompilerConfig holds the metadata required for verifying the deployed
// source on a block explorer.
type CompilerConfig struct {
	Version      string
	Optimization bool
	Runs         int
	License      string
}

// NetworkConfig holds the deployment details of the contract on one network.
// An empty address means the network is known but the contract was not
// deployed there yet.
type NetworkConfig struct {
	Address  string
	Explorer string // Base URL of the block explorer.
	ChainID  int
}
