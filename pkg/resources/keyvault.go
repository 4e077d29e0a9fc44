// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package resources

import (
	"context"
	"fmt"

	"github.com/platform-engineering-labs/azvm/pkg/client"
)

// KeyVault looks up existing vaults. azvm never creates vaults; it only reads
// secrets from them.
type KeyVault struct {
	Client *client.Client
}

// VaultURI returns the data-plane URI of a vault, e.g. https://myvault.vault.azure.net/.
func (kv *KeyVault) VaultURI(ctx context.Context, resourceGroup, vaultName string) (string, error) {
	result, err := kv.Client.VaultsClient.Get(ctx, resourceGroup, vaultName, nil)
	if err != nil {
		return "", fmt.Errorf("failed to read key vault %s: %w", vaultName, err)
	}
	if result.Properties == nil || deref(result.Properties.VaultURI) == "" {
		return "", fmt.Errorf("key vault %s has no vault URI", vaultName)
	}
	return *result.Properties.VaultURI, nil
}
