// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package resources

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork/v4"
	"github.com/platform-engineering-labs/azvm/pkg/client"
	"github.com/platform-engineering-labs/azvm/pkg/config"
	"github.com/platform-engineering-labs/azvm/pkg/prov"
)

var _ prov.NetworkInterfaces = (*NetworkInterface)(nil)

// NetworkInterface manages Azure Network Interfaces.
type NetworkInterface struct {
	Client *client.Client
	Config *config.Config
}

// CreateOrUpdate creates a NIC with one dynamic IP configuration on spec.SubnetID.
func (nic *NetworkInterface) CreateOrUpdate(ctx context.Context, spec prov.NetworkInterfaceSpec) (*prov.NetworkInterface, error) {
	params := armnetwork.Interface{
		Location: stringPtr(spec.Location),
		Properties: &armnetwork.InterfacePropertiesFormat{
			IPConfigurations: []*armnetwork.InterfaceIPConfiguration{
				{
					Name: stringPtr(spec.IPConfigName),
					Properties: &armnetwork.InterfaceIPConfigurationPropertiesFormat{
						Subnet: &armnetwork.Subnet{
							ID: stringPtr(spec.SubnetID),
						},
						PrivateIPAllocationMethod: to.Ptr(armnetwork.IPAllocationMethodDynamic),
						Primary:                   to.Ptr(true),
					},
				},
			},
		},
		Tags: toAzureTags(spec.Tags),
	}

	poller, err := nic.Client.InterfacesClient.BeginCreateOrUpdate(ctx, spec.ResourceGroup, spec.Name, params, nil)
	if err != nil {
		return nil, prov.NewOperationError(prov.OpCreate, prov.ResourceTypeNetworkInterface, spec.Name, err)
	}

	result, err := poller.PollUntilDone(ctx, pollOptions(nic.Config))
	if err != nil {
		return nil, prov.NewOperationError(prov.OpCreate, prov.ResourceTypeNetworkInterface, spec.Name, err)
	}

	out := &prov.NetworkInterface{
		ID:   deref(result.ID),
		Name: orDefault(result.Name, spec.Name),
	}
	if result.Properties != nil {
		for _, ipConfig := range result.Properties.IPConfigurations {
			if ipConfig != nil && ipConfig.Properties != nil && ipConfig.Properties.PrivateIPAddress != nil {
				out.PrivateIP = *ipConfig.Properties.PrivateIPAddress
				break
			}
		}
	}
	return out, nil
}

// Delete deletes the NIC and waits for completion.
func (nic *NetworkInterface) Delete(ctx context.Context, resourceGroup, name string) error {
	poller, err := nic.Client.InterfacesClient.BeginDelete(ctx, resourceGroup, name, nil)
	if err != nil {
		return prov.NewOperationError(prov.OpDelete, prov.ResourceTypeNetworkInterface, name, err)
	}
	if _, err := poller.PollUntilDone(ctx, pollOptions(nic.Config)); err != nil {
		return prov.NewOperationError(prov.OpDelete, prov.ResourceTypeNetworkInterface, name, err)
	}
	return nil
}
