// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

// Package commands defines the azvm command tree and flag bindings. Command
// execution is delegated to the handlers package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/platform-engineering-labs/azvm/cmd/azvm/handlers"
)

// Root returns the root command for the azvm CLI.
func Root() *cobra.Command {
	opts := &handlers.GlobalOptions{}

	cmd := &cobra.Command{
		Use:           "azvm",
		Short:         "Provision and tear down a single Azure virtual machine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.ConfigPath, "config", "c", "", "Path to the azvm configuration file")
	flags.StringVar(&opts.SubscriptionID, "subscription-id", "", "Azure subscription ID (overrides the config file and AZURE_SUBSCRIPTION_ID)")
	flags.StringVar(&opts.LogLevel, "log-level", "info", "Log level: debug, info, warn or error")
	flags.StringVar(&opts.LogFormat, "log-format", "console", "Log format: console or json")

	cmd.AddCommand(Up(opts))
	cmd.AddCommand(Down(opts))
	cmd.AddCommand(Run(opts))
	cmd.AddCommand(Version())

	return cmd
}
