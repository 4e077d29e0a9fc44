// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

// Package nativeid checks Azure ARM resource identifiers before they are handed
// from one pipeline stage to the next.
//
// Format: /subscriptions/{sub}/resourceGroups/{rg}/providers/{namespace}/{type}/{name}[/{childType}/{childName}]
package nativeid

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
)

// ErrEmpty is returned for an empty identifier.
var ErrEmpty = errors.New("resource id is empty")

// Parse parses an ARM ID and checks it names a resource of wantType, e.g.
// "Microsoft.Network/virtualNetworks/subnets". The comparison ignores case
// since Azure returns inconsistent casing.
func Parse(id, wantType string) (*arm.ResourceID, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrEmpty
	}

	rid, err := arm.ParseResourceID(id)
	if err != nil {
		return nil, fmt.Errorf("invalid resource id %q: %w", id, err)
	}

	if got := rid.ResourceType.String(); !strings.EqualFold(got, wantType) {
		return nil, fmt.Errorf("resource id %q is a %s, want %s", id, got, wantType)
	}
	return rid, nil
}

// Validate is Parse without the parsed result.
func Validate(id, wantType string) error {
	_, err := Parse(id, wantType)
	return err
}
