// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package commands

import (
	"github.com/spf13/cobra"

	"github.com/platform-engineering-labs/azvm/cmd/azvm/handlers"
)

// handleUp is the handler used by the up command - can be replaced in tests.
var handleUp = handlers.Up

// Up returns the up command.
func Up(global *handlers.GlobalOptions) *cobra.Command {
	opts := handlers.RunOptions{}

	cmd := &cobra.Command{
		Use:   "up",
		Short: "Create the resource group, network, interface and virtual machine",
		Long: `Up creates, in order and each awaited before the next:
  - the resource group
  - the virtual network and its subnet
  - the user-assigned identity, when identity.name is set
  - the network interface
  - the virtual machine

The admin password is read from machine.adminPasswordRef
(default env:AZVM_ADMIN_PASSWORD).

Example:
  AZVM_ADMIN_PASSWORD=... azvm up -c azvm.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.GlobalOptions = *global
			return handleUp(cmd.Context(), opts)
		},
	}

	addRunFlags(cmd, &opts, true)
	return cmd
}

func addRunFlags(cmd *cobra.Command, opts *handlers.RunOptions, rollback bool) {
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "Give up after this long (0 waits indefinitely)")
	if rollback {
		cmd.Flags().BoolVar(&opts.RollbackOnFailure, "rollback-on-failure", false, "Delete already-created resources when a later stage fails")
	}
}
