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

// Package config parses the configuration of ctdeploy from an optional YAML
// file layered over built-in defaults, and writes the defaults out as a file.
package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/conditional-tokens/ctdeploy"
	"github.com/conditional-tokens/ctdeploy/log"
)

// DefaultFile is the name of the config file looked up in the project directory.
const DefaultFile = "ctdeploy.yaml"

// Default returns the configuration of the ConditionalTokens project as it
// is deployed: the contract on base_sepolia and no deployment on base_mainnet.
func Default() ctdeploy.Config {
	return ctdeploy.Config{
		LogLevel:  log.DefaultLevel,
		LogFile:   "",
		SecretEnv: "PRIVATE_KEY",
		Contract: ctdeploy.ContractConfig{
			Name:      "ConditionalTokens",
			Source:    "contracts/ConditionalTokens.sol",
			Artifact:  "build/contracts/ConditionalTokens.json",
			Flattened: "ConditionalTokens_flattened.sol",
		},
		Toolchain: ctdeploy.ToolchainConfig{
			PackageRunner:    "npm",
			Migrate:          []string{"npx", "truffle", "migrate"},
			Flattener:        "truffle-flattener",
			FlattenerPackage: "truffle-flattener",
			Scripts: ctdeploy.ScriptsConfig{
				Compile:       "compile",
				InjectNetInfo: "injectnetinfo",
				Networks:      "networks",
			},
		},
		Compiler: ctdeploy.CompilerConfig{
			Version:      "v0.5.10+commit.5a6ea5b1",
			Optimization: true,
			Runs:         200,
			License:      "LGPL-3.0",
		},
		Networks: map[string]ctdeploy.NetworkConfig{
			"base_sepolia": {
				Address:  "0xb29d3bb7c57bc2e8f72a516cd16e998ac0a05b1d",
				Explorer: "https://sepolia.basescan.org",
				ChainID:  84532,
			},
			"base_mainnet": {
				Address:  "",
				Explorer: "https://basescan.org",
				ChainID:  8453,
			},
		},
	}
}

// ParseConfig returns the configuration held in the viper instance, with the
// values from Default for every key that is not set. If configFile is not
// empty, it is read into the instance first.
//
// Values of flags bound to the viper instance take precedence over those in
// the file. Lists in the file replace the default ones, while networks in the
// file are merged with the default networks, key by key.
func ParseConfig(v *viper.Viper, configFile string) (ctdeploy.Config, error) {
	if err := setDefaults(v, Default()); err != nil {
		return ctdeploy.Config{}, err
	}
	if configFile != "" {
		v.SetConfigFile(filepath.Clean(configFile))
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return ctdeploy.Config{}, errors.Wrap(err, "reading config file")
		}
	}

	var cfg ctdeploy.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return ctdeploy.Config{}, errors.Wrap(err, "unmarshalling")
	}
	return cfg, Validate(cfg)
}

// setDefaults registers each leaf value of cfg as a viper default, under the
// same keys that are used in the config file.
func setDefaults(v *viper.Viper, cfg ctdeploy.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "encoding defaults")
	}
	var values map[string]interface{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return errors.Wrap(err, "decoding defaults")
	}
	setDefaultValues(v, "", values)
	return nil
}

func setDefaultValues(v *viper.Viper, prefix string, values map[string]interface{}) {
	for key, value := range values {
		if nested, ok := value.(map[string]interface{}); ok && len(nested) > 0 {
			setDefaultValues(v, prefix+key+".", nested)
			continue
		}
		v.SetDefault(prefix+key, value)
	}
}

// Validate checks that the values required by the dispatcher are set.
// Network entries are validated when building the network registry.
func Validate(cfg ctdeploy.Config) error {
	required := []struct {
		key, value string
	}{
		{"secretenv", cfg.SecretEnv},
		{"contract.source", cfg.Contract.Source},
		{"contract.artifact", cfg.Contract.Artifact},
		{"contract.flattened", cfg.Contract.Flattened},
		{"toolchain.packagerunner", cfg.Toolchain.PackageRunner},
		{"toolchain.flattener", cfg.Toolchain.Flattener},
	}
	for _, r := range required {
		if r.value == "" {
			return errors.Errorf("config: %s must not be empty", r.key)
		}
	}
	if len(cfg.Toolchain.Migrate) == 0 || cfg.Toolchain.Migrate[0] == "" {
		return errors.New("config: toolchain.migrate must name a command")
	}
	if cfg.Compiler.Runs < 0 {
		return errors.Errorf("config: compiler.runs must not be negative, got %d", cfg.Compiler.Runs)
	}
	return nil
}

// WriteFile encodes the given configuration as YAML into a new file.
// It returns an error if the file already exists.
func WriteFile(path string, cfg ctdeploy.Config) error {
	f, err := os.OpenFile(filepath.Clean(path), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return errors.New("file exists - " + path)
		}
		return errors.Wrap(err, "creating config file")
	}
	encoder := yaml.NewEncoder(f)
	encoder.SetIndent(2)
	if err := encoder.Encode(cfg); err != nil {
		f.Close()       // nolint: errcheck
		os.Remove(path) // nolint: errcheck
		return errors.Wrap(err, "encoding config")
	}
	if err := encoder.Close(); err != nil {
		f.Close()       // nolint: errcheck
		os.Remove(path) // nolint: errcheck
		return errors.Wrap(err, "closing encoder")
	}
	return errors.Wrap(f.Close(), "closing config file")
}
