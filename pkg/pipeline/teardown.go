// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/platform-engineering-labs/azvm/pkg/config"
	"github.com/platform-engineering-labs/azvm/pkg/logging"
	"github.com/platform-engineering-labs/azvm/pkg/prov"
)

// TeardownSequencer deletes the provisioned resources in reverse creation
// order: VM, identity, network interface, virtual network, resource group.
type TeardownSequencer struct {
	Groups     prov.ResourceGroups
	Networks   prov.VirtualNetworks
	Interfaces prov.NetworkInterfaces
	Machines   prov.VirtualMachines
	Identities prov.Identities
}

type deleteStep struct {
	label string
	name  string
	del   func(ctx context.Context) error
}

func (t *TeardownSequencer) steps(cfg *config.Config) []deleteStep {
	group := cfg.ResourceGroupName

	steps := []deleteStep{
		{"VM", cfg.Machine.Name, func(ctx context.Context) error {
			return t.Machines.Delete(ctx, group, cfg.Machine.Name)
		}},
	}
	if cfg.Identity.Enabled() {
		steps = append(steps, deleteStep{"managed identity", cfg.Identity.Name, func(ctx context.Context) error {
			return t.Identities.Delete(ctx, group, cfg.Identity.Name)
		}})
	}
	return append(steps,
		deleteStep{"network interface", cfg.Interface.Name, func(ctx context.Context) error {
			return t.Interfaces.Delete(ctx, group, cfg.Interface.Name)
		}},
		deleteStep{"virtual network", cfg.Network.Name, func(ctx context.Context) error {
			return t.Networks.Delete(ctx, group, cfg.Network.Name)
		}},
		deleteStep{"resource group", group, func(ctx context.Context) error {
			return t.Groups.Delete(ctx, group)
		}},
	)
}

// Teardown runs every delete to completion before starting the next. There is
// no existence check; the first failure stops the sequence.
func (t *TeardownSequencer) Teardown(ctx context.Context, cfg *config.Config) error {
	logger := logging.FromContext(ctx)

	for _, step := range t.steps(cfg) {
		start := time.Now()
		logger.Infow("Deleting "+step.label, "name", step.name)

		if err := step.del(ctx); err != nil {
			logger.Errorw("Failed to delete "+step.label, "name", step.name, "error", err)
			return fmt.Errorf("teardown halted deleting %s %s: %w", step.label, step.name, err)
		}

		logger.Infow("Deleted "+step.label, "name", step.name, "elapsed", time.Since(start).Round(time.Millisecond))
	}
	return nil
}
