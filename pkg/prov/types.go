// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package prov

// Resource type names as they appear in ARM resource IDs.
const (
	ResourceTypeResourceGroup    = "Microsoft.Resources/resourceGroups"
	ResourceTypeVirtualNetwork   = "Microsoft.Network/virtualNetworks"
	ResourceTypeSubnet           = "Microsoft.Network/virtualNetworks/subnets"
	ResourceTypeNetworkInterface = "Microsoft.Network/networkInterfaces"
	ResourceTypeVirtualMachine   = "Microsoft.Compute/virtualMachines"
	ResourceTypeIdentity         = "Microsoft.ManagedIdentity/userAssignedIdentities"
)

type ResourceGroupSpec struct {
	Name     string
	Location string
	Tags     map[string]string
}

type ResourceGroup struct {
	ID       string
	Name     string
	Location string
}

type VirtualNetworkSpec struct {
	ResourceGroup   string
	Name            string
	Location        string
	AddressPrefixes []string
	SubnetName      string
	SubnetPrefix    string
	Tags            map[string]string
}

type VirtualNetwork struct {
	ID              string
	Name            string
	AddressPrefixes []string
}

// Subnet is the handle the interface stage binds to. ID must be non-empty.
type Subnet struct {
	ID            string
	Name          string
	AddressPrefix string
}

type NetworkInterfaceSpec struct {
	ResourceGroup string
	Name          string
	Location      string
	IPConfigName  string
	SubnetID      string
	Tags          map[string]string
}

type NetworkInterface struct {
	ID        string
	Name      string
	PrivateIP string
}

type ImageReference struct {
	Publisher string
	Offer     string
	SKU       string
	Version   string
}

type VirtualMachineSpec struct {
	ResourceGroup string
	Name          string
	Location      string
	Size          string
	ComputerName  string
	AdminUsername string
	AdminPassword string
	Image         ImageReference

	OSDiskStorageAccountType string
	OSDiskCaching            string

	// NetworkInterfaceIDs is the network profile; the pipeline always sets
	// exactly one entry.
	NetworkInterfaceIDs []string

	// IdentityID attaches a user-assigned identity when non-empty.
	IdentityID string

	Tags map[string]string
}

type VirtualMachine struct {
	ID                string
	Name              string
	VMID              string
	ProvisioningState string
}

type IdentitySpec struct {
	ResourceGroup string
	Name          string
	Location      string
	Tags          map[string]string
}

type Identity struct {
	ID          string
	Name        string
	PrincipalID string
	ClientID    string
}
