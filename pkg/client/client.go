// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package client

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute/v5"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/keyvault/armkeyvault"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/msi/armmsi"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork/v4"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
	"github.com/platform-engineering-labs/azvm/pkg/config"
)

// Client wraps the Azure SDK clients used by the provisioning pipeline.
//
// One typed client per resource type, all sharing a credential and client
// options. Tests build the typed clients directly against SDK fake transports
// and assign only the fields they need.
type Client struct {
	Config                       *config.Config
	ResourceGroupsClient         *armresources.ResourceGroupsClient
	VirtualNetworksClient        *armnetwork.VirtualNetworksClient
	SubnetsClient                *armnetwork.SubnetsClient
	InterfacesClient             *armnetwork.InterfacesClient
	VirtualMachinesClient        *armcompute.VirtualMachinesClient
	UserAssignedIdentitiesClient *armmsi.UserAssignedIdentitiesClient
	VaultsClient                 *armkeyvault.VaultsClient
	credential                   azcore.TokenCredential
	clientOptions                *arm.ClientOptions
}

// NewClient creates a new Azure client wrapper using the default credential chain.
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	cred, err := cfg.ToAzureCredential(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure credential: %w", err)
	}
	return NewClientWithCredential(cfg, cred, &arm.ClientOptions{})
}

// NewClientWithCredential creates the typed clients from an explicit credential
// and options.
func NewClientWithCredential(cfg *config.Config, cred azcore.TokenCredential, clientOptions *arm.ClientOptions) (*Client, error) {
	rgClient, err := armresources.NewResourceGroupsClient(cfg.SubscriptionId, cred, clientOptions)
	if err != nil {
		return nil, err
	}

	vnetClient, err := armnetwork.NewVirtualNetworksClient(cfg.SubscriptionId, cred, clientOptions)
	if err != nil {
		return nil, err
	}

	subnetClient, err := armnetwork.NewSubnetsClient(cfg.SubscriptionId, cred, clientOptions)
	if err != nil {
		return nil, err
	}

	interfacesClient, err := armnetwork.NewInterfacesClient(cfg.SubscriptionId, cred, clientOptions)
	if err != nil {
		return nil, err
	}

	virtualMachinesClient, err := armcompute.NewVirtualMachinesClient(cfg.SubscriptionId, cred, clientOptions)
	if err != nil {
		return nil, err
	}

	userAssignedIdentitiesClient, err := armmsi.NewUserAssignedIdentitiesClient(cfg.SubscriptionId, cred, clientOptions)
	if err != nil {
		return nil, err
	}

	vaultsClient, err := armkeyvault.NewVaultsClient(cfg.SubscriptionId, cred, clientOptions)
	if err != nil {
		return nil, err
	}

	return &Client{
		Config:                       cfg,
		ResourceGroupsClient:         rgClient,
		VirtualNetworksClient:        vnetClient,
		SubnetsClient:                subnetClient,
		InterfacesClient:             interfacesClient,
		VirtualMachinesClient:        virtualMachinesClient,
		UserAssignedIdentitiesClient: userAssignedIdentitiesClient,
		VaultsClient:                 vaultsClient,
		credential:                   cred,
		clientOptions:                clientOptions,
	}, nil
}

// NewSecretsClient creates a Key Vault data-plane client for vaultURL sharing
// this client's credential.
func (c *Client) NewSecretsClient(vaultURL string) (*azsecrets.Client, error) {
	var opts *azsecrets.ClientOptions
	if c.clientOptions != nil {
		opts = &azsecrets.ClientOptions{ClientOptions: c.clientOptions.ClientOptions}
	}
	return azsecrets.NewClient(vaultURL, c.credential, opts)
}
