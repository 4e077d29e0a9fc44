// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package commands

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platform-engineering-labs/azvm/cmd/azvm/handlers"
)

func TestRoot(t *testing.T) {
	cmd := Root()

	require.NotNil(t, cmd)
	assert.Equal(t, "azvm", cmd.Use)
	assert.Equal(t, "Provision and tear down a single Azure virtual machine", cmd.Short)
}

func TestRoot_HasSubcommands(t *testing.T) {
	cmd := Root()

	subcommands := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		subcommands[sub.Name()] = true
	}

	for _, expected := range []string{"up", "down", "run", "version"} {
		assert.True(t, subcommands[expected], "Expected subcommand %s not found", expected)
	}
	assert.Len(t, cmd.Commands(), 4)
}

// captureHandlers swaps the command handlers for recorders.
func captureHandlers(t *testing.T) map[string]handlers.RunOptions {
	t.Helper()
	origUp, origDown, origRun := handleUp, handleDown, handleRun
	t.Cleanup(func() {
		handleUp, handleDown, handleRun = origUp, origDown, origRun
	})

	got := map[string]handlers.RunOptions{}
	capture := func(name string) func(context.Context, handlers.RunOptions) error {
		return func(_ context.Context, opts handlers.RunOptions) error {
			got[name] = opts
			return nil
		}
	}
	handleUp = capture("up")
	handleDown = capture("down")
	handleRun = capture("run")
	return got
}

func TestUp_Flags(t *testing.T) {
	got := captureHandlers(t)

	cmd := Root()
	cmd.SetArgs([]string{
		"--config", "azvm.yaml",
		"--subscription-id", "a7ef3688-af58-4835-953c-e51f219fbd0f",
		"--log-format", "json",
		"up", "--rollback-on-failure", "--timeout", "30m",
	})
	require.NoError(t, cmd.Execute())

	opts, ok := got["up"]
	require.True(t, ok)
	assert.Equal(t, "azvm.yaml", opts.ConfigPath)
	assert.Equal(t, "a7ef3688-af58-4835-953c-e51f219fbd0f", opts.SubscriptionID)
	assert.Equal(t, "info", opts.LogLevel)
	assert.Equal(t, "json", opts.LogFormat)
	assert.True(t, opts.RollbackOnFailure)
	assert.Equal(t, 30*time.Minute, opts.Timeout)
}

func TestDown_Flags(t *testing.T) {
	got := captureHandlers(t)

	cmd := Root()
	cmd.SetArgs([]string{"down", "-c", "azvm.yaml"})
	require.NoError(t, cmd.Execute())

	opts, ok := got["down"]
	require.True(t, ok)
	assert.Equal(t, "azvm.yaml", opts.ConfigPath)
	assert.False(t, opts.RollbackOnFailure)
	assert.Zero(t, opts.Timeout)
}

func TestDown_RejectsRollbackFlag(t *testing.T) {
	captureHandlers(t)

	cmd := Root()
	cmd.SetArgs([]string{"down", "--rollback-on-failure"})
	assert.Error(t, cmd.Execute())
}

func TestRun_Flags(t *testing.T) {
	got := captureHandlers(t)

	cmd := Root()
	cmd.SetArgs([]string{"run", "--log-level", "debug"})
	require.NoError(t, cmd.Execute())

	opts, ok := got["run"]
	require.True(t, ok)
	assert.Equal(t, "debug", opts.LogLevel)
}

func TestUp_RejectsArgs(t *testing.T) {
	captureHandlers(t)

	cmd := Root()
	cmd.SetArgs([]string{"up", "extra"})
	assert.Error(t, cmd.Execute())
}
