// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/platform-engineering-labs/azvm/pkg/config"
	"github.com/platform-engineering-labs/azvm/pkg/logging"
	"github.com/platform-engineering-labs/azvm/pkg/nativeid"
	"github.com/platform-engineering-labs/azvm/pkg/prov"
)

// SecretResolver turns a secret reference into its value.
type SecretResolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

// ResourceGroupEnsurer creates the resource group or updates it in place.
type ResourceGroupEnsurer struct {
	Groups prov.ResourceGroups
	Tags   map[string]string
}

// Ensure is idempotent: calling it again with the same arguments updates the
// existing group.
func (e *ResourceGroupEnsurer) Ensure(ctx context.Context, name, location string) (*prov.ResourceGroup, error) {
	if name == "" || location == "" {
		return nil, errors.New("resource group name and location are required")
	}

	rg, err := e.Groups.CreateOrUpdate(ctx, prov.ResourceGroupSpec{
		Name:     name,
		Location: location,
		Tags:     e.Tags,
	})
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Infow("Created resource group", "name", rg.Name, "location", rg.Location, "id", rg.ID)
	return rg, nil
}

// NetworkProvisioner creates the virtual network with its single subnet and
// then reads the subnet back.
type NetworkProvisioner struct {
	Networks prov.VirtualNetworks
	Tags     map[string]string
}

// Provision returns the network and the subnet the interface binds to. The
// subnet comes from a separate lookup, not from the create response.
func (n *NetworkProvisioner) Provision(ctx context.Context, group, location string, cfg config.NetworkConfig) (*prov.VirtualNetwork, *prov.Subnet, error) {
	vnet, err := n.Networks.CreateOrUpdate(ctx, prov.VirtualNetworkSpec{
		ResourceGroup:   group,
		Name:            cfg.Name,
		Location:        location,
		AddressPrefixes: cfg.AddressSpace,
		SubnetName:      cfg.SubnetName,
		SubnetPrefix:    cfg.SubnetPrefix,
		Tags:            n.Tags,
	})
	if err != nil {
		return nil, nil, err
	}
	logging.FromContext(ctx).Infow("Created virtual network", "name", vnet.Name, "id", vnet.ID)

	subnet, err := n.Networks.GetSubnet(ctx, group, cfg.Name, cfg.SubnetName)
	if err != nil {
		return vnet, nil, err
	}
	if subnet == nil || subnet.ID == "" {
		return vnet, nil, fmt.Errorf("subnet %s lookup returned no id", cfg.SubnetName)
	}

	logging.FromContext(ctx).Infow("Found subnet", "name", subnet.Name, "id", subnet.ID)
	return vnet, subnet, nil
}

// IdentityProvisioner creates the optional user-assigned identity for the VM.
type IdentityProvisioner struct {
	Identities prov.Identities
	Tags       map[string]string
}

func (p *IdentityProvisioner) Provision(ctx context.Context, group, location, name string) (*prov.Identity, error) {
	identity, err := p.Identities.CreateOrUpdate(ctx, prov.IdentitySpec{
		ResourceGroup: group,
		Name:          name,
		Location:      location,
		Tags:          p.Tags,
	})
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Infow("Created managed identity", "name", identity.Name, "principalId", identity.PrincipalID, "id", identity.ID)
	return identity, nil
}

// InterfaceProvisioner creates the network interface on the subnet.
type InterfaceProvisioner struct {
	Interfaces prov.NetworkInterfaces
	Tags       map[string]string
}

// Provision rejects a missing or malformed subnet id without calling Azure.
func (p *InterfaceProvisioner) Provision(ctx context.Context, group, location string, subnet *prov.Subnet, cfg config.InterfaceConfig) (*prov.NetworkInterface, error) {
	if subnet == nil {
		return nil, errors.New("no subnet to attach the network interface to")
	}
	if err := nativeid.Validate(subnet.ID, prov.ResourceTypeSubnet); err != nil {
		return nil, fmt.Errorf("subnet id: %w", err)
	}

	nic, err := p.Interfaces.CreateOrUpdate(ctx, prov.NetworkInterfaceSpec{
		ResourceGroup: group,
		Name:          cfg.Name,
		Location:      location,
		IPConfigName:  cfg.IPConfigName,
		SubnetID:      subnet.ID,
		Tags:          p.Tags,
	})
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Infow("Created network interface", "name", nic.Name, "privateIp", nic.PrivateIP, "id", nic.ID)
	return nic, nil
}

// MachineProvisioner creates the virtual machine on the network interface.
type MachineProvisioner struct {
	Machines prov.VirtualMachines
	Secrets  SecretResolver
	Tags     map[string]string
}

// Provision rejects a missing or malformed interface id without calling Azure.
// The admin password is resolved from cfg.AdminPasswordRef; identity may be nil.
func (p *MachineProvisioner) Provision(ctx context.Context, group, location string, nic *prov.NetworkInterface, identity *prov.Identity, cfg config.MachineConfig) (*prov.VirtualMachine, error) {
	if nic == nil {
		return nil, errors.New("no network interface to attach the virtual machine to")
	}
	if err := nativeid.Validate(nic.ID, prov.ResourceTypeNetworkInterface); err != nil {
		return nil, fmt.Errorf("network interface id: %w", err)
	}
	if p.Secrets == nil {
		return nil, errors.New("no secret resolver for the admin password")
	}

	password, err := p.Secrets.Resolve(ctx, cfg.AdminPasswordRef)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve admin password: %w", err)
	}

	spec := prov.VirtualMachineSpec{
		ResourceGroup: group,
		Name:          cfg.Name,
		Location:      location,
		Size:          cfg.Size,
		ComputerName:  cfg.ComputerName,
		AdminUsername: cfg.AdminUsername,
		AdminPassword: password,
		Image: prov.ImageReference{
			Publisher: cfg.Image.Publisher,
			Offer:     cfg.Image.Offer,
			SKU:       cfg.Image.SKU,
			Version:   cfg.Image.Version,
		},
		OSDiskStorageAccountType: cfg.OSDisk.StorageAccountType,
		OSDiskCaching:            cfg.OSDisk.Caching,
		NetworkInterfaceIDs:      []string{nic.ID},
		Tags:                     p.Tags,
	}
	if identity != nil {
		spec.IdentityID = identity.ID
	}

	vm, err := p.Machines.CreateOrUpdate(ctx, spec)
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Infow("Created virtual machine", "name", vm.Name, "vmId", vm.VMID, "id", vm.ID)
	return vm, nil
}
