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

package network_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conditional-tokens/ctdeploy"
	"github.com/conditional-tokens/ctdeploy/config"
	"github.com/conditional-tokens/ctdeploy/network"
)

func Test_NewRegistry(t *testing.T) {
	t.Run("happy_defaults", func(t *testing.T) {
		r, err := network.NewRegistry(config.Default().Networks)
		require.NoError(t, err)
		assert.Equal(t, []string{"base_mainnet", "base_sepolia"}, r.Names())
	})
	t.Run("err_invalid_address", func(t *testing.T) {
		_, err := network.NewRegistry(map[string]ctdeploy.NetworkConfig{
			"base_sepolia": {Address: "0xb29d3bb7"},
		})
		require.Error(t, err)
		t.Log(err)
	})
}

func Test_Registry_Lookup(t *testing.T) {
	r, err := network.NewRegistry(config.Default().Networks)
	require.NoError(t, err)

	t.Run("happy", func(t *testing.T) {
		d, err := r.Lookup("base_sepolia")
		require.NoError(t, err)
		assert.Equal(t, "base_sepolia", d.Network)
		assert.Equal(t, "0xb29d3bb7c57bc2e8f72a516cd16e998ac0a05b1d", d.AddressHex())
		assert.Equal(t, 84532, d.ChainID)
		assert.Equal(t,
			"https://sepolia.basescan.org/address/0xb29d3bb7c57bc2e8f72a516cd16e998ac0a05b1d#code",
			d.ContractURL())
	})
	t.Run("err_not_deployed", func(t *testing.T) {
		_, err := r.Lookup("base_mainnet")
		require.Error(t, err)
		assert.True(t, errors.Is(err, network.ErrNotDeployed))
	})
	t.Run("err_unknown", func(t *testing.T) {
		_, err := r.Lookup("unknownnet")
		require.Error(t, err)
		assert.True(t, errors.Is(err, network.ErrUnknownNetwork))
	})
	t.Run("err_exact_match_only", func(t *testing.T) {
		_, err := r.Lookup("BASE_SEPOLIA")
		assert.True(t, errors.Is(err, network.ErrUnknownNetwork))
		_, err = r.Lookup("base_sepolia ")
		assert.True(t, errors.Is(err, network.ErrUnknownNetwork))
	})
}

func Test_Deployment_ContractURL(t *testing.T) {
	r, err := network.NewRegistry(map[string]ctdeploy.NetworkConfig{
		"local": {Address: "0x5FbDB2315678afecb367f032d93F642f64180aa3", Explorer: "http://localhost:4000/"},
	})
	require.NoError(t, err)

	d, err := r.Lookup("local")
	require.NoError(t, err)
	assert.Equal(t, "0x5FbDB2315678afecb367f032d93F642f64180aa3", d.Address.Hex())
	assert.Equal(t, "http://localhost:4000/address/0x5fbdb2315678afecb367f032d93f642f64180aa3#code", d.ContractURL())
}
