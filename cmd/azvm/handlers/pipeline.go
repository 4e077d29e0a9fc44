// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

// Package handlers implements the azvm commands. Each handler loads the
// configuration, wires the Azure-backed pipeline and runs it.
package handlers

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/platform-engineering-labs/azvm/pkg/client"
	"github.com/platform-engineering-labs/azvm/pkg/config"
	"github.com/platform-engineering-labs/azvm/pkg/logging"
	"github.com/platform-engineering-labs/azvm/pkg/pipeline"
	"github.com/platform-engineering-labs/azvm/pkg/resources"
	"github.com/platform-engineering-labs/azvm/pkg/secret"
)

// GlobalOptions are the flags shared by every command.
type GlobalOptions struct {
	ConfigPath     string
	SubscriptionID string
	LogLevel       string
	LogFormat      string
}

// RunOptions are the flags of up, down and run.
type RunOptions struct {
	GlobalOptions
	RollbackOnFailure bool
	// Timeout bounds the whole command. Zero waits indefinitely.
	Timeout time.Duration
}

// Factory function variables - can be replaced in tests.
var (
	loadConfig = config.Load
	newLogger  = logging.New
	newDeps    = azureDeps
)

// azureDeps wires the pipeline to the Azure SDK.
func azureDeps(ctx context.Context, cfg *config.Config) (pipeline.Deps, error) {
	c, err := client.NewClient(ctx, cfg)
	if err != nil {
		return pipeline.Deps{}, err
	}

	resolver := &secret.Resolver{
		Locator:            &resources.KeyVault{Client: c},
		VaultResourceGroup: cfg.KeyVault.ResourceGroup,
		NewGetter: func(vaultURI string) (secret.Getter, error) {
			sc, err := c.NewSecretsClient(vaultURI)
			if err != nil {
				return nil, err
			}
			return sc, nil
		},
	}

	return pipeline.Deps{
		ResourceGroups:    &resources.ResourceGroup{Client: c, Config: cfg},
		VirtualNetworks:   &resources.VirtualNetwork{Client: c, Config: cfg},
		NetworkInterfaces: &resources.NetworkInterface{Client: c, Config: cfg},
		VirtualMachines:   &resources.VirtualMachine{Client: c, Config: cfg},
		Identities:        &resources.UserAssignedIdentity{Client: c, Config: cfg},
		Secrets:           resolver,
	}, nil
}

// session is everything a command needs once flags are resolved.
type session struct {
	ctx      context.Context
	cancel   context.CancelFunc
	logger   *zap.Logger
	cfg      *config.Config
	pipeline *pipeline.Pipeline
}

func (s *session) close() {
	s.cancel()
	_ = s.logger.Sync()
}

func newSession(ctx context.Context, opts RunOptions) (*session, error) {
	logger, err := newLogger(opts.LogLevel, opts.LogFormat)
	if err != nil {
		return nil, err
	}

	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	if opts.SubscriptionID != "" {
		cfg.SubscriptionId = opts.SubscriptionID
	}
	if err := cfg.Validate(); err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	var cancel context.CancelFunc
	if opts.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	ctx = logging.WithLogger(ctx, logger.Sugar())

	deps, err := newDeps(ctx, cfg)
	if err != nil {
		cancel()
		_ = logger.Sync()
		return nil, fmt.Errorf("failed to create Azure clients: %w", err)
	}

	p, err := pipeline.New(cfg, deps, pipeline.Options{RollbackOnFailure: opts.RollbackOnFailure})
	if err != nil {
		cancel()
		_ = logger.Sync()
		return nil, err
	}

	return &session{ctx: ctx, cancel: cancel, logger: logger, cfg: cfg, pipeline: p}, nil
}

// Up provisions the resource group, network, interface and virtual machine.
func Up(ctx context.Context, opts RunOptions) error {
	s, err := newSession(ctx, opts)
	if err != nil {
		return err
	}
	defer s.close()

	log := logging.FromContext(s.ctx)
	log.Infow("Provisioning", "resourceGroup", s.cfg.ResourceGroupName, "location", s.cfg.Location, "run", s.pipeline.RunID().String())

	state, err := s.pipeline.Create(s.ctx)
	if err != nil {
		return fmt.Errorf("provisioning failed: %w", err)
	}

	log.Infow("Virtual machine ready",
		"name", state.VirtualMachine.Name,
		"id", state.VirtualMachine.ID,
		"privateIp", state.NetworkInterface.PrivateIP,
	)
	return nil
}

// Down deletes the configured resources in reverse creation order.
func Down(ctx context.Context, opts RunOptions) error {
	s, err := newSession(ctx, opts)
	if err != nil {
		return err
	}
	defer s.close()

	logging.FromContext(s.ctx).Infow("Tearing down", "resourceGroup", s.cfg.ResourceGroupName)

	if err := s.pipeline.Teardown(s.ctx); err != nil {
		return fmt.Errorf("teardown failed: %w", err)
	}

	logging.FromContext(s.ctx).Infow("Teardown complete", "resourceGroup", s.cfg.ResourceGroupName)
	return nil
}

// Run provisions everything and tears it down again.
func Run(ctx context.Context, opts RunOptions) error {
	s, err := newSession(ctx, opts)
	if err != nil {
		return err
	}
	defer s.close()

	if err := s.pipeline.Run(s.ctx); err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	logging.FromContext(s.ctx).Infow("Run complete", "resourceGroup", s.cfg.ResourceGroupName)
	return nil
}
