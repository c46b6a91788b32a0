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

// Package network resolves network names to the deployment details of the
// contract on that network.
package network

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/conditional-tokens/ctdeploy"
)

// Sentinel errors returned by Lookup.
var (
	ErrUnknownNetwork = errors.New("unknown network")
	ErrNotDeployed    = errors.New("not deployed yet")
)

// Deployment is the contract deployment on one network.
type Deployment struct {
	Network  string
	Address  common.Address
	Explorer string
	ChainID  int
}

// AddressHex returns the contract address as lowercase hex string with 0x prefix.
func (d Deployment) AddressHex() string {
	return strings.ToLower(d.Address.Hex())
}

// ContractURL returns the page of the contract code on the block explorer.
func (d Deployment) ContractURL() string {
	return fmt.Sprintf("%s/address/%s#code", strings.TrimSuffix(d.Explorer, "/"), d.AddressHex())
}

// Registry holds the known networks.
type Registry struct {
	networks map[string]ctdeploy.NetworkConfig
}

// NewRegistry validates the given networks and returns a registry for them.
// An empty address marks a network on which the contract is not deployed.
func NewRegistry(networks map[string]ctdeploy.NetworkConfig) (*Registry, error) {
	r := &Registry{networks: make(map[string]ctdeploy.NetworkConfig, len(networks))}
	for name, cfg := range networks {
		if cfg.Address != "" && !common.IsHexAddress(cfg.Address) {
			return nil, errors.Errorf("network %s: invalid contract address %q", name, cfg.Address)
		}
		r.networks[name] = cfg
	}
	return r, nil
}

// Lookup returns the deployment on the network with exactly the given name.
//
// It returns an error wrapping ErrUnknownNetwork if the network is not
// known and ErrNotDeployed if it is known but has no contract address.
func (r *Registry) Lookup(name string) (Deployment, error) {
	cfg, ok := r.networks[name]
	if !ok {
		return Deployment{}, errors.WithMessage(ErrUnknownNetwork, name)
	}
	if cfg.Address == "" {
		return Deployment{}, errors.WithMessage(ErrNotDeployed, name)
	}
	return Deployment{
		Network:  name,
		Address:  common.HexToAddress(cfg.Address),
		Explorer: cfg.Explorer,
		ChainID:  cfg.ChainID,
	}, nil
}

// Names returns the names of the known networks in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.networks))
	for name := range r.networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
