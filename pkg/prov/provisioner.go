// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

// Package prov defines the resource handles passed between pipeline stages and
// the narrow interfaces each stage needs from Azure.
package prov

import "context"

// ResourceGroups manages resource groups.
type ResourceGroups interface {
	CreateOrUpdate(ctx context.Context, spec ResourceGroupSpec) (*ResourceGroup, error)
	Delete(ctx context.Context, name string) error
}

// VirtualNetworks manages virtual networks and looks up their subnets.
type VirtualNetworks interface {
	CreateOrUpdate(ctx context.Context, spec VirtualNetworkSpec) (*VirtualNetwork, error)
	GetSubnet(ctx context.Context, resourceGroup, vnetName, subnetName string) (*Subnet, error)
	Delete(ctx context.Context, resourceGroup, name string) error
}

// NetworkInterfaces manages network interfaces.
type NetworkInterfaces interface {
	CreateOrUpdate(ctx context.Context, spec NetworkInterfaceSpec) (*NetworkInterface, error)
	Delete(ctx context.Context, resourceGroup, name string) error
}

// VirtualMachines manages virtual machines.
type VirtualMachines interface {
	CreateOrUpdate(ctx context.Context, spec VirtualMachineSpec) (*VirtualMachine, error)
	Delete(ctx context.Context, resourceGroup, name string) error
}

// Identities manages user-assigned managed identities.
type Identities interface {
	CreateOrUpdate(ctx context.Context, spec IdentitySpec) (*Identity, error)
	Delete(ctx context.Context, resourceGroup, name string) error
}
