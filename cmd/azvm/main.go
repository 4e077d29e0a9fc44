// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

// Package main is the entry point for the azvm CLI.
//
// azvm creates a resource group, virtual network, network interface and
// Linux virtual machine on Azure, and deletes them again in reverse order.
//
//	azvm up -c azvm.yaml
//	azvm down -c azvm.yaml
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/platform-engineering-labs/azvm/cmd/azvm/commands"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	commands.SetVersionInfo(version, commit, date)
	err := commands.Root().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
