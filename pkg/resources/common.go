// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

// Package resources implements the prov interfaces on top of the Azure SDK.
// Every create and delete blocks until the long-running operation finishes.
package resources

import (
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/platform-engineering-labs/azvm/pkg/config"
)

// toAzureTags converts plain tags to the Azure SDK format.
// Returns nil if no tags are present.
func toAzureTags(tags map[string]string) map[string]*string {
	if len(tags) == 0 {
		return nil
	}
	azureTags := make(map[string]*string, len(tags))
	for k, v := range tags {
		azureTags[k] = stringPtr(v)
	}
	return azureTags
}

// stringPtr returns a pointer to a string. Useful for Azure SDK calls.
func stringPtr(s string) *string {
	return &s
}

// deref returns the pointed-to string or "".
func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// orDefault returns *s, or fallback when s is nil or empty.
func orDefault(s *string, fallback string) string {
	if v := deref(s); v != "" {
		return v
	}
	return fallback
}

// pollOptions returns the PollUntilDone options for cfg. A nil config or zero
// frequency keeps the SDK default.
func pollOptions(cfg *config.Config) *runtime.PollUntilDoneOptions {
	if cfg == nil || cfg.PollFrequency <= 0 {
		return nil
	}
	return &runtime.PollUntilDoneOptions{Frequency: cfg.PollFrequency}
}
