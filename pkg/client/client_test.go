// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package client

import (
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	azfake "github.com/Azure/azure-sdk-for-go/sdk/azcore/fake"
	"github.com/platform-engineering-labs/azvm/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientWithCredential(t *testing.T) {
	cfg := config.Default()
	cfg.SubscriptionId = "a7ef3688-af58-4835-953c-e51f219fbd0f"

	c, err := NewClientWithCredential(cfg, &azfake.TokenCredential{}, &arm.ClientOptions{})
	require.NoError(t, err)

	assert.Same(t, cfg, c.Config)
	assert.NotNil(t, c.ResourceGroupsClient)
	assert.NotNil(t, c.VirtualNetworksClient)
	assert.NotNil(t, c.SubnetsClient)
	assert.NotNil(t, c.InterfacesClient)
	assert.NotNil(t, c.VirtualMachinesClient)
	assert.NotNil(t, c.UserAssignedIdentitiesClient)
	assert.NotNil(t, c.VaultsClient)

	secrets, err := c.NewSecretsClient("https://myvault.vault.azure.net/")
	require.NoError(t, err)
	assert.NotNil(t, secrets)
}
