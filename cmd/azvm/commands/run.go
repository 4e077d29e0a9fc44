// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package commands

import (
	"github.com/spf13/cobra"

	"github.com/platform-engineering-labs/azvm/cmd/azvm/handlers"
)

var handleRun = handlers.Run

// Run returns the run command.
func Run(global *handlers.GlobalOptions) *cobra.Command {
	opts := handlers.RunOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Create everything, then tear it all down again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.GlobalOptions = *global
			return handleRun(cmd.Context(), opts)
		},
	}

	addRunFlags(cmd, &opts, true)
	return cmd
}
