// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/platform-engineering-labs/azvm/pkg/prov"
)

const testSubscriptionID = "a7ef3688-af58-4835-953c-e51f219fbd0f"

// recorder logs every call made through the fakes and fails the ones listed
// in failures.
type recorder struct {
	calls    []string
	failures map[string]error

	groupSpecs []prov.ResourceGroupSpec
	vnetSpecs  []prov.VirtualNetworkSpec
	nicSpecs   []prov.NetworkInterfaceSpec
	vmSpecs    []prov.VirtualMachineSpec
	idSpecs    []prov.IdentitySpec

	groups map[string]bool

	// emptySubnetID makes GetSubnet return a handle without an id.
	emptySubnetID bool

	// nicHeldByMachine leaves a VM behind even when its create fails, and
	// refuses to delete the interface while that VM exists.
	nicHeldByMachine bool
	machineExists    bool
}

func newRecorder() *recorder {
	return &recorder{failures: map[string]error{}, groups: map[string]bool{}}
}

func (r *recorder) record(call string) error {
	r.calls = append(r.calls, call)
	return r.failures[call]
}

// callsWithPrefix returns the recorded calls starting with prefix, e.g. "Delete".
func (r *recorder) callsWithPrefix(prefix string) []string {
	var out []string
	for _, c := range r.calls {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

func (r *recorder) deps() Deps {
	return Deps{
		ResourceGroups:    &fakeGroups{r},
		VirtualNetworks:   &fakeNetworks{r},
		NetworkInterfaces: &fakeInterfaces{r},
		VirtualMachines:   &fakeMachines{r},
		Identities:        &fakeIdentities{r},
		Secrets:           staticSecrets{"env:AZVM_ADMIN_PASSWORD": "from-env"},
	}
}

func fakeID(group, resourceType, name string) string {
	return fmt.Sprintf("/subscriptions/%s/resourceGroups/%s/providers/%s/%s", testSubscriptionID, group, resourceType, name)
}

type fakeGroups struct{ r *recorder }

func (f *fakeGroups) CreateOrUpdate(_ context.Context, spec prov.ResourceGroupSpec) (*prov.ResourceGroup, error) {
	if err := f.r.record("CreateResourceGroup"); err != nil {
		return nil, err
	}
	f.r.groupSpecs = append(f.r.groupSpecs, spec)
	f.r.groups[spec.Name] = true
	return &prov.ResourceGroup{
		ID:       "/subscriptions/" + testSubscriptionID + "/resourceGroups/" + spec.Name,
		Name:     spec.Name,
		Location: spec.Location,
	}, nil
}

func (f *fakeGroups) Delete(_ context.Context, name string) error {
	if err := f.r.record("DeleteResourceGroup"); err != nil {
		return err
	}
	delete(f.r.groups, name)
	return nil
}

type fakeNetworks struct{ r *recorder }

func (f *fakeNetworks) CreateOrUpdate(_ context.Context, spec prov.VirtualNetworkSpec) (*prov.VirtualNetwork, error) {
	if err := f.r.record("CreateVirtualNetwork"); err != nil {
		return nil, err
	}
	f.r.vnetSpecs = append(f.r.vnetSpecs, spec)
	return &prov.VirtualNetwork{
		ID:              fakeID(spec.ResourceGroup, prov.ResourceTypeVirtualNetwork, spec.Name),
		Name:            spec.Name,
		AddressPrefixes: spec.AddressPrefixes,
	}, nil
}

func (f *fakeNetworks) GetSubnet(_ context.Context, group, vnet, subnet string) (*prov.Subnet, error) {
	if err := f.r.record("GetSubnet"); err != nil {
		return nil, err
	}
	if f.r.emptySubnetID {
		return &prov.Subnet{Name: subnet}, nil
	}
	return &prov.Subnet{
		ID:   fakeID(group, prov.ResourceTypeVirtualNetwork, vnet) + "/subnets/" + subnet,
		Name: subnet,
	}, nil
}

func (f *fakeNetworks) Delete(context.Context, string, string) error {
	return f.r.record("DeleteVirtualNetwork")
}

type fakeInterfaces struct{ r *recorder }

func (f *fakeInterfaces) CreateOrUpdate(_ context.Context, spec prov.NetworkInterfaceSpec) (*prov.NetworkInterface, error) {
	if err := f.r.record("CreateNetworkInterface"); err != nil {
		return nil, err
	}
	f.r.nicSpecs = append(f.r.nicSpecs, spec)
	return &prov.NetworkInterface{
		ID:        fakeID(spec.ResourceGroup, prov.ResourceTypeNetworkInterface, spec.Name),
		Name:      spec.Name,
		PrivateIP: "10.0.0.4",
	}, nil
}

func (f *fakeInterfaces) Delete(_ context.Context, _ string, name string) error {
	if err := f.r.record("DeleteNetworkInterface"); err != nil {
		return err
	}
	if f.r.machineExists {
		return &prov.OperationError{
			Op:           prov.OpDelete,
			ResourceType: prov.ResourceTypeNetworkInterface,
			Name:         name,
			Code:         prov.ErrorCodeConflict,
			Err:          errors.New("NicInUse"),
		}
	}
	return nil
}

type fakeMachines struct{ r *recorder }

func (f *fakeMachines) CreateOrUpdate(_ context.Context, spec prov.VirtualMachineSpec) (*prov.VirtualMachine, error) {
	if f.r.nicHeldByMachine {
		f.r.machineExists = true
	}
	if err := f.r.record("CreateVirtualMachine"); err != nil {
		return nil, err
	}
	f.r.vmSpecs = append(f.r.vmSpecs, spec)
	return &prov.VirtualMachine{
		ID:                fakeID(spec.ResourceGroup, prov.ResourceTypeVirtualMachine, spec.Name),
		Name:              spec.Name,
		VMID:              "0f8fad5b-d9cb-469f-a165-70867728950e",
		ProvisioningState: "Succeeded",
	}, nil
}

func (f *fakeMachines) Delete(context.Context, string, string) error {
	if err := f.r.record("DeleteVirtualMachine"); err != nil {
		return err
	}
	f.r.machineExists = false
	return nil
}

type fakeIdentities struct{ r *recorder }

func (f *fakeIdentities) CreateOrUpdate(_ context.Context, spec prov.IdentitySpec) (*prov.Identity, error) {
	if err := f.r.record("CreateIdentity"); err != nil {
		return nil, err
	}
	f.r.idSpecs = append(f.r.idSpecs, spec)
	return &prov.Identity{
		ID:          fakeID(spec.ResourceGroup, prov.ResourceTypeIdentity, spec.Name),
		Name:        spec.Name,
		PrincipalID: "principal-1",
	}, nil
}

func (f *fakeIdentities) Delete(context.Context, string, string) error {
	return f.r.record("DeleteIdentity")
}

type staticSecrets map[string]string

func (s staticSecrets) Resolve(_ context.Context, ref string) (string, error) {
	v, ok := s[ref]
	if !ok {
		return "", fmt.Errorf("unknown secret %s", ref)
	}
	return v, nil
}
