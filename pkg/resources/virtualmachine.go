// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package resources

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute/v5"
	"github.com/platform-engineering-labs/azvm/pkg/client"
	"github.com/platform-engineering-labs/azvm/pkg/config"
	"github.com/platform-engineering-labs/azvm/pkg/logging"
	"github.com/platform-engineering-labs/azvm/pkg/prov"
)

var _ prov.VirtualMachines = (*VirtualMachine)(nil)

// VirtualMachine manages Azure Virtual Machines.
type VirtualMachine struct {
	Client *client.Client
	Config *config.Config
}

// buildVirtualMachineParams converts a spec into the ARM request body.
func buildVirtualMachineParams(spec prov.VirtualMachineSpec) armcompute.VirtualMachine {
	networkInterfaces := make([]*armcompute.NetworkInterfaceReference, 0, len(spec.NetworkInterfaceIDs))
	for i, id := range spec.NetworkInterfaceIDs {
		networkInterfaces = append(networkInterfaces, &armcompute.NetworkInterfaceReference{
			ID: stringPtr(id),
			Properties: &armcompute.NetworkInterfaceReferenceProperties{
				Primary: to.Ptr(i == 0),
			},
		})
	}

	osDisk := &armcompute.OSDisk{
		CreateOption: to.Ptr(armcompute.DiskCreateOptionTypesFromImage),
	}
	if spec.OSDiskCaching != "" {
		osDisk.Caching = to.Ptr(armcompute.CachingTypes(spec.OSDiskCaching))
	}
	if spec.OSDiskStorageAccountType != "" {
		osDisk.ManagedDisk = &armcompute.ManagedDiskParameters{
			StorageAccountType: to.Ptr(armcompute.StorageAccountTypes(spec.OSDiskStorageAccountType)),
		}
	}

	params := armcompute.VirtualMachine{
		Location: stringPtr(spec.Location),
		Properties: &armcompute.VirtualMachineProperties{
			HardwareProfile: &armcompute.HardwareProfile{
				VMSize: to.Ptr(armcompute.VirtualMachineSizeTypes(spec.Size)),
			},
			NetworkProfile: &armcompute.NetworkProfile{
				NetworkInterfaces: networkInterfaces,
			},
			StorageProfile: &armcompute.StorageProfile{
				ImageReference: &armcompute.ImageReference{
					Publisher: stringPtr(spec.Image.Publisher),
					Offer:     stringPtr(spec.Image.Offer),
					SKU:       stringPtr(spec.Image.SKU),
					Version:   stringPtr(spec.Image.Version),
				},
				OSDisk: osDisk,
			},
			OSProfile: &armcompute.OSProfile{
				ComputerName:  stringPtr(spec.ComputerName),
				AdminUsername: stringPtr(spec.AdminUsername),
				AdminPassword: stringPtr(spec.AdminPassword),
				LinuxConfiguration: &armcompute.LinuxConfiguration{
					DisablePasswordAuthentication: to.Ptr(false),
				},
			},
		},
		Tags: toAzureTags(spec.Tags),
	}

	if spec.IdentityID != "" {
		params.Identity = &armcompute.VirtualMachineIdentity{
			Type: to.Ptr(armcompute.ResourceIdentityTypeUserAssigned),
			UserAssignedIdentities: map[string]*armcompute.UserAssignedIdentitiesValue{
				spec.IdentityID: {},
			},
		}
	}

	return params
}

// CreateOrUpdate creates the VM and blocks until provisioning completes.
func (vm *VirtualMachine) CreateOrUpdate(ctx context.Context, spec prov.VirtualMachineSpec) (*prov.VirtualMachine, error) {
	params := buildVirtualMachineParams(spec)

	poller, err := vm.Client.VirtualMachinesClient.BeginCreateOrUpdate(ctx, spec.ResourceGroup, spec.Name, params, nil)
	if err != nil {
		return nil, prov.NewOperationError(prov.OpCreate, prov.ResourceTypeVirtualMachine, spec.Name, err)
	}

	result, err := poller.PollUntilDone(ctx, pollOptions(vm.Config))
	if err != nil {
		return nil, prov.NewOperationError(prov.OpCreate, prov.ResourceTypeVirtualMachine, spec.Name, err)
	}

	out := &prov.VirtualMachine{
		ID:   deref(result.ID),
		Name: orDefault(result.Name, spec.Name),
	}
	if result.Properties != nil {
		out.VMID = deref(result.Properties.VMID)
		out.ProvisioningState = deref(result.Properties.ProvisioningState)
	}

	logging.FromContext(ctx).Debugw("VirtualMachine.CreateOrUpdate completed",
		"name", out.Name,
		"vmId", out.VMID,
		"provisioningState", out.ProvisioningState,
	)
	return out, nil
}

// Delete deletes the VM and waits for completion. The OS disk is left to the
// resource group deletion.
func (vm *VirtualMachine) Delete(ctx context.Context, resourceGroup, name string) error {
	poller, err := vm.Client.VirtualMachinesClient.BeginDelete(ctx, resourceGroup, name, nil)
	if err != nil {
		return prov.NewOperationError(prov.OpDelete, prov.ResourceTypeVirtualMachine, name, err)
	}
	if _, err := poller.PollUntilDone(ctx, pollOptions(vm.Config)); err != nil {
		return prov.NewOperationError(prov.OpDelete, prov.ResourceTypeVirtualMachine, name, err)
	}
	return nil
}
