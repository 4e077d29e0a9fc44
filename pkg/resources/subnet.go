// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package resources

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork/v4"
	"github.com/platform-engineering-labs/azvm/pkg/logging"
	"github.com/platform-engineering-labs/azvm/pkg/prov"
)

// GetSubnet reads a subnet of an existing VNet. The pipeline binds the NIC to
// this result rather than to the subnet list in the VNet create response.
func (v *VirtualNetwork) GetSubnet(ctx context.Context, resourceGroup, vnetName, subnetName string) (*prov.Subnet, error) {
	result, err := v.Client.SubnetsClient.Get(ctx, resourceGroup, vnetName, subnetName, nil)
	if err != nil {
		return nil, prov.NewOperationError(prov.OpGet, prov.ResourceTypeSubnet, subnetName, err)
	}

	subnet := toSubnet(&result.Subnet, subnetName)
	logging.FromContext(ctx).Debugw("Subnet.Get completed", "vnet", vnetName, "subnet", subnetName, "id", subnet.ID)
	return subnet, nil
}

// toSubnet converts an SDK subnet to a handle. fallbackName is used when the
// response omits the name.
func toSubnet(s *armnetwork.Subnet, fallbackName string) *prov.Subnet {
	subnet := &prov.Subnet{
		ID:   deref(s.ID),
		Name: orDefault(s.Name, fallbackName),
	}
	if s.Properties == nil {
		return subnet
	}
	subnet.AddressPrefix = deref(s.Properties.AddressPrefix)
	if subnet.AddressPrefix == "" && len(s.Properties.AddressPrefixes) > 0 {
		subnet.AddressPrefix = deref(s.Properties.AddressPrefixes[0])
	}
	return subnet
}
