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

package dispatcher

import (
	"github.com/pkg/errors"

	"github.com/conditional-tokens/ctdeploy/network"
)

// Help prints the usage of the commands and the known networks.
func (d *Dispatcher) Help() {
	p := d.out
	p.headingf("%s: build, deploy and verify the %s contract", ProgramName, d.cfg.Contract.Name)
	p.printf("\nUsage: %s <command> [network]\n\n", ProgramName)
	p.printf("Commands:\n")
	p.printf("  compile            Compile the contracts\n")
	p.printf("  deploy <network>   Deploy the contracts to a network (requires %s)\n", d.cfg.SecretEnv)
	p.printf("  flatten            Flatten %s for verification\n", d.cfg.Contract.Source)
	p.printf("  verify <network>   Show block explorer verification info for a network\n")
	p.printf("  info               Show the compiler version and deployed networks\n")
	p.printf("  help               Show this help\n")

	p.printf("\nNetworks:\n")
	for _, name := range d.registry.Names() {
		p.printf("  %-18s %s\n", name, d.networkStatus(name))
	}

	p.printf("\nExamples:\n")
	p.printf("  %s compile\n", ProgramName)
	p.printf("  %s=<your private key> %s deploy base_sepolia\n", d.cfg.SecretEnv, ProgramName)
	p.printf("  %s verify base_sepolia\n", ProgramName)
}

func (d *Dispatcher) networkStatus(name string) string {
	deployment, err := d.registry.Lookup(name)
	if errors.Is(err, network.ErrNotDeployed) {
		return "not deployed"
	}
	if err != nil {
		return "unknown"
	}
	return "deployed at " + deployment.AddressHex()
}
