// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package resources

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/msi/armmsi"
	"github.com/platform-engineering-labs/azvm/pkg/client"
	"github.com/platform-engineering-labs/azvm/pkg/config"
	"github.com/platform-engineering-labs/azvm/pkg/prov"
)

var _ prov.Identities = (*UserAssignedIdentity)(nil)

// UserAssignedIdentity manages user-assigned managed identities.
// Both create and delete are synchronous ARM calls.
type UserAssignedIdentity struct {
	Client *client.Client
	Config *config.Config
}

func (u *UserAssignedIdentity) CreateOrUpdate(ctx context.Context, spec prov.IdentitySpec) (*prov.Identity, error) {
	params := armmsi.Identity{
		Location: stringPtr(spec.Location),
		Tags:     toAzureTags(spec.Tags),
	}

	result, err := u.Client.UserAssignedIdentitiesClient.CreateOrUpdate(ctx, spec.ResourceGroup, spec.Name, params, nil)
	if err != nil {
		return nil, prov.NewOperationError(prov.OpCreate, prov.ResourceTypeIdentity, spec.Name, err)
	}

	out := &prov.Identity{
		ID:   deref(result.ID),
		Name: orDefault(result.Name, spec.Name),
	}
	if result.Properties != nil {
		out.PrincipalID = deref(result.Properties.PrincipalID)
		out.ClientID = deref(result.Properties.ClientID)
	}
	return out, nil
}

func (u *UserAssignedIdentity) Delete(ctx context.Context, resourceGroup, name string) error {
	if _, err := u.Client.UserAssignedIdentitiesClient.Delete(ctx, resourceGroup, name, nil); err != nil {
		return prov.NewOperationError(prov.OpDelete, prov.ResourceTypeIdentity, name, err)
	}
	return nil
}
