// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package nativeid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sub = "a7ef3688-af58-4835-953c-e51f219fbd0f"

func TestParse(t *testing.T) {
	subnetID := "/subscriptions/" + sub + "/resourceGroups/g1/providers/Microsoft.Network/virtualNetworks/myvnet/subnets/mysubnet"

	rid, err := Parse(subnetID, "Microsoft.Network/virtualNetworks/subnets")
	require.NoError(t, err)
	assert.Equal(t, "mysubnet", rid.Name)
	assert.Equal(t, "g1", rid.ResourceGroupName)
	assert.Equal(t, sub, rid.SubscriptionID)
	require.NotNil(t, rid.Parent)
	assert.Equal(t, "myvnet", rid.Parent.Name)
}

func TestParse_CaseInsensitiveType(t *testing.T) {
	nicID := "/subscriptions/" + sub + "/resourcegroups/g1/providers/microsoft.network/networkinterfaces/mynic"
	assert.NoError(t, Validate(nicID, "Microsoft.Network/networkInterfaces"))
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name          string
		id            string
		wantType      string
		errorContains string
	}{
		{"empty", "", "Microsoft.Network/virtualNetworks/subnets", "resource id is empty"},
		{"blank", "   ", "Microsoft.Network/virtualNetworks/subnets", "resource id is empty"},
		{"not an arm id", "mysubnet", "Microsoft.Network/virtualNetworks/subnets", "invalid resource id"},
		{
			"wrong type",
			"/subscriptions/" + sub + "/resourceGroups/g1/providers/Microsoft.Network/virtualNetworks/myvnet",
			"Microsoft.Network/virtualNetworks/subnets",
			"want Microsoft.Network/virtualNetworks/subnets",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.id, tt.wantType)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func TestValidate_TopLevelResource(t *testing.T) {
	vmID := "/subscriptions/" + sub + "/resourceGroups/g1/providers/Microsoft.Compute/virtualMachines/myvm"
	assert.NoError(t, Validate(vmID, "Microsoft.Compute/virtualMachines"))
	assert.Error(t, Validate(vmID, "Microsoft.Network/networkInterfaces"))
}
