// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package resources

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork/v4"
	"github.com/platform-engineering-labs/azvm/pkg/client"
	"github.com/platform-engineering-labs/azvm/pkg/config"
	"github.com/platform-engineering-labs/azvm/pkg/prov"
)

var _ prov.VirtualNetworks = (*VirtualNetwork)(nil)

// VirtualNetwork manages Azure Virtual Networks and their subnets.
type VirtualNetwork struct {
	Client *client.Client
	Config *config.Config
}

// CreateOrUpdate creates the VNet together with its single subnet and blocks
// until the operation completes.
func (v *VirtualNetwork) CreateOrUpdate(ctx context.Context, spec prov.VirtualNetworkSpec) (*prov.VirtualNetwork, error) {
	addressPrefixes := make([]*string, len(spec.AddressPrefixes))
	for i, prefix := range spec.AddressPrefixes {
		addressPrefixes[i] = stringPtr(prefix)
	}

	params := armnetwork.VirtualNetwork{
		Location: stringPtr(spec.Location),
		Properties: &armnetwork.VirtualNetworkPropertiesFormat{
			AddressSpace: &armnetwork.AddressSpace{
				AddressPrefixes: addressPrefixes,
			},
			Subnets: []*armnetwork.Subnet{
				{
					Name: stringPtr(spec.SubnetName),
					Properties: &armnetwork.SubnetPropertiesFormat{
						AddressPrefix: stringPtr(spec.SubnetPrefix),
					},
				},
			},
		},
		Tags: toAzureTags(spec.Tags),
	}

	poller, err := v.Client.VirtualNetworksClient.BeginCreateOrUpdate(ctx, spec.ResourceGroup, spec.Name, params, nil)
	if err != nil {
		return nil, prov.NewOperationError(prov.OpCreate, prov.ResourceTypeVirtualNetwork, spec.Name, err)
	}

	result, err := poller.PollUntilDone(ctx, pollOptions(v.Config))
	if err != nil {
		return nil, prov.NewOperationError(prov.OpCreate, prov.ResourceTypeVirtualNetwork, spec.Name, err)
	}

	vnet := &prov.VirtualNetwork{
		ID:   deref(result.ID),
		Name: orDefault(result.Name, spec.Name),
	}
	if result.Properties != nil && result.Properties.AddressSpace != nil {
		for _, p := range result.Properties.AddressSpace.AddressPrefixes {
			if p != nil {
				vnet.AddressPrefixes = append(vnet.AddressPrefixes, *p)
			}
		}
	}
	return vnet, nil
}

// Delete deletes the VNet (and with it, its subnets) and waits for completion.
func (v *VirtualNetwork) Delete(ctx context.Context, resourceGroup, name string) error {
	poller, err := v.Client.VirtualNetworksClient.BeginDelete(ctx, resourceGroup, name, nil)
	if err != nil {
		return prov.NewOperationError(prov.OpDelete, prov.ResourceTypeVirtualNetwork, name, err)
	}
	if _, err := poller.PollUntilDone(ctx, pollOptions(v.Config)); err != nil {
		return prov.NewOperationError(prov.OpDelete, prov.ResourceTypeVirtualNetwork, name, err)
	}
	return nil
}
