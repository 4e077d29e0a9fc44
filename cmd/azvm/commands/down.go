// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package commands

import (
	"github.com/spf13/cobra"

	"github.com/platform-engineering-labs/azvm/cmd/azvm/handlers"
)

var handleDown = handlers.Down

// Down returns the down command.
func Down(global *handlers.GlobalOptions) *cobra.Command {
	opts := handlers.RunOptions{}

	cmd := &cobra.Command{
		Use:   "down",
		Short: "Delete the virtual machine and everything it depends on",
		Long: `Down deletes the configured resources in reverse creation order:
virtual machine, identity, network interface, virtual network, resource group.

Each delete finishes before the next begins. The first failure stops the
teardown; nothing after it is attempted.

WARNING: This operation is irreversible.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.GlobalOptions = *global
			return handleDown(cmd.Context(), opts)
		},
	}

	addRunFlags(cmd, &opts, false)
	return cmd
}
