// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package resources

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
	"github.com/platform-engineering-labs/azvm/pkg/client"
	"github.com/platform-engineering-labs/azvm/pkg/config"
	"github.com/platform-engineering-labs/azvm/pkg/logging"
	"github.com/platform-engineering-labs/azvm/pkg/prov"
)

var _ prov.ResourceGroups = (*ResourceGroup)(nil)

type ResourceGroup struct {
	Client *client.Client
	Config *config.Config
}

// CreateOrUpdate creates the resource group or updates it in place.
// Resource Groups are synchronous operations (no LRO polling needed).
func (rg *ResourceGroup) CreateOrUpdate(ctx context.Context, spec prov.ResourceGroupSpec) (*prov.ResourceGroup, error) {
	params := armresources.ResourceGroup{
		Location: stringPtr(spec.Location),
		Tags:     toAzureTags(spec.Tags),
	}

	result, err := rg.Client.ResourceGroupsClient.CreateOrUpdate(ctx, spec.Name, params, nil)
	if err != nil {
		return nil, prov.NewOperationError(prov.OpCreate, prov.ResourceTypeResourceGroup, spec.Name, err)
	}

	logging.FromContext(ctx).Debugw("ResourceGroup.CreateOrUpdate completed",
		"name", spec.Name,
		"provisioningState", provisioningState(result.Properties),
	)

	return &prov.ResourceGroup{
		ID:       deref(result.ID),
		Name:     orDefault(result.Name, spec.Name),
		Location: orDefault(result.Location, spec.Location),
	}, nil
}

// Delete deletes the resource group and waits for the deletion to finish.
func (rg *ResourceGroup) Delete(ctx context.Context, name string) error {
	poller, err := rg.Client.ResourceGroupsClient.BeginDelete(ctx, name, nil)
	if err != nil {
		return prov.NewOperationError(prov.OpDelete, prov.ResourceTypeResourceGroup, name, err)
	}
	if _, err := poller.PollUntilDone(ctx, pollOptions(rg.Config)); err != nil {
		return prov.NewOperationError(prov.OpDelete, prov.ResourceTypeResourceGroup, name, err)
	}
	return nil
}

func provisioningState(props *armresources.ResourceGroupProperties) string {
	if props == nil {
		return ""
	}
	return deref(props.ProvisioningState)
}
