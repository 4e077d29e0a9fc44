// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

// Package pipeline provisions a resource group, virtual network, network
// interface and virtual machine in dependency order, and tears them down in
// reverse. Every stage blocks until Azure reports completion and hands its
// resource id to the next stage.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/platform-engineering-labs/azvm/pkg/config"
	"github.com/platform-engineering-labs/azvm/pkg/logging"
	"github.com/platform-engineering-labs/azvm/pkg/prov"
	"github.com/platform-engineering-labs/azvm/pkg/runid"
)

// Deps are the Azure operations the pipeline drives. Identities may be nil
// when no identity is configured.
type Deps struct {
	ResourceGroups    prov.ResourceGroups
	VirtualNetworks   prov.VirtualNetworks
	NetworkInterfaces prov.NetworkInterfaces
	VirtualMachines   prov.VirtualMachines
	Identities        prov.Identities
	Secrets           SecretResolver
}

// Options tune a pipeline run.
type Options struct {
	// RunID tags every created resource. New generates one when empty and
	// rejects one that is not a KSUID.
	RunID runid.RunID
	// RollbackOnFailure deletes what a failed Create already created.
	RollbackOnFailure bool
}

// State holds the handles returned by each completed stage.
type State struct {
	ResourceGroup    *prov.ResourceGroup
	VirtualNetwork   *prov.VirtualNetwork
	Subnet           *prov.Subnet
	Identity         *prov.Identity
	NetworkInterface *prov.NetworkInterface
	VirtualMachine   *prov.VirtualMachine
}

// Stage is one step of Create.
type Stage interface {
	Name() string
	Run(ctx context.Context, state *State) error
}

type stage struct {
	name string
	run  func(ctx context.Context, state *State) error
	// undo deletes what run created. Used only for rollback.
	undo func(ctx context.Context) error
}

func (s *stage) Name() string { return s.name }

func (s *stage) Run(ctx context.Context, state *State) error { return s.run(ctx, state) }

type Pipeline struct {
	cfg  *config.Config
	deps Deps
	opts Options
}

// New validates deps against cfg and returns a Pipeline.
func New(cfg *config.Config, deps Deps, opts Options) (*Pipeline, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	var missing []error
	if deps.ResourceGroups == nil {
		missing = append(missing, errors.New("resource groups client is required"))
	}
	if deps.VirtualNetworks == nil {
		missing = append(missing, errors.New("virtual networks client is required"))
	}
	if deps.NetworkInterfaces == nil {
		missing = append(missing, errors.New("network interfaces client is required"))
	}
	if deps.VirtualMachines == nil {
		missing = append(missing, errors.New("virtual machines client is required"))
	}
	if cfg.Identity.Enabled() && deps.Identities == nil {
		missing = append(missing, errors.New("identities client is required when identity.name is set"))
	}
	if err := errors.Join(missing...); err != nil {
		return nil, err
	}

	if opts.RunID == "" {
		opts.RunID = runid.New()
	} else {
		id, err := runid.Parse(opts.RunID.String())
		if err != nil {
			return nil, fmt.Errorf("invalid run id %q: %w", opts.RunID, err)
		}
		opts.RunID = id
	}
	return &Pipeline{cfg: cfg, deps: deps, opts: opts}, nil
}

// RunID returns the identifier tagged onto every resource this pipeline creates.
func (p *Pipeline) RunID() runid.RunID {
	return p.opts.RunID
}

func (p *Pipeline) stages() []Stage {
	cfg := p.cfg
	group := cfg.ResourceGroupName
	tags := p.opts.RunID.Tags(cfg.Tags)

	ensurer := &ResourceGroupEnsurer{Groups: p.deps.ResourceGroups, Tags: tags}
	network := &NetworkProvisioner{Networks: p.deps.VirtualNetworks, Tags: tags}
	nic := &InterfaceProvisioner{Interfaces: p.deps.NetworkInterfaces, Tags: tags}
	machine := &MachineProvisioner{Machines: p.deps.VirtualMachines, Secrets: p.deps.Secrets, Tags: tags}

	stages := []Stage{
		&stage{
			name: "resource group",
			run: func(ctx context.Context, s *State) (err error) {
				s.ResourceGroup, err = ensurer.Ensure(ctx, group, cfg.Location)
				return err
			},
			undo: func(ctx context.Context) error {
				return p.deps.ResourceGroups.Delete(ctx, group)
			},
		},
		&stage{
			name: "network",
			run: func(ctx context.Context, s *State) (err error) {
				s.VirtualNetwork, s.Subnet, err = network.Provision(ctx, group, cfg.Location, cfg.Network)
				return err
			},
			undo: func(ctx context.Context) error {
				return p.deps.VirtualNetworks.Delete(ctx, group, cfg.Network.Name)
			},
		},
	}

	if cfg.Identity.Enabled() {
		identity := &IdentityProvisioner{Identities: p.deps.Identities, Tags: tags}
		stages = append(stages, &stage{
			name: "identity",
			run: func(ctx context.Context, s *State) (err error) {
				s.Identity, err = identity.Provision(ctx, group, cfg.Location, cfg.Identity.Name)
				return err
			},
			undo: func(ctx context.Context) error {
				return p.deps.Identities.Delete(ctx, group, cfg.Identity.Name)
			},
		})
	}

	return append(stages,
		&stage{
			name: "interface",
			run: func(ctx context.Context, s *State) (err error) {
				s.NetworkInterface, err = nic.Provision(ctx, group, cfg.Location, s.Subnet, cfg.Interface)
				return err
			},
			undo: func(ctx context.Context) error {
				return p.deps.NetworkInterfaces.Delete(ctx, group, cfg.Interface.Name)
			},
		},
		&stage{
			name: "machine",
			run: func(ctx context.Context, s *State) (err error) {
				s.VirtualMachine, err = machine.Provision(ctx, group, cfg.Location, s.NetworkInterface, s.Identity, cfg.Machine)
				return err
			},
			undo: func(ctx context.Context) error {
				return p.deps.VirtualMachines.Delete(ctx, group, cfg.Machine.Name)
			},
		},
	)
}

// RunStages runs stages in order and stops at the first failure. It returns
// the number of stages that completed.
func RunStages(ctx context.Context, stages []Stage, state *State) (int, error) {
	logger := logging.FromContext(ctx)
	start := time.Now()

	for i, s := range stages {
		stageStart := time.Now()
		name := fmt.Sprintf("%s (%d/%d)", s.Name(), i+1, len(stages))

		logger.Debugw("Stage starting", "stage", name)

		if err := s.Run(ctx, state); err != nil {
			logger.Errorw("Stage failed", "stage", name, "error", err)
			return i, fmt.Errorf("%s stage failed: %w", s.Name(), err)
		}

		logger.Debugw("Stage completed", "stage", name, "elapsed", time.Since(stageStart).Round(time.Millisecond))
	}

	logger.Infow("Provisioning completed", "stages", len(stages), "elapsed", time.Since(start).Round(time.Millisecond))
	return len(stages), nil
}

// Create provisions every resource and returns their handles. On failure the
// partial state is returned alongside the error.
func (p *Pipeline) Create(ctx context.Context) (*State, error) {
	ctx = logging.WithLogger(ctx, logging.FromContext(ctx).With("run", p.opts.RunID.String()))

	stages := p.stages()
	state := &State{}

	completed, err := RunStages(ctx, stages, state)
	if err == nil {
		return state, nil
	}

	if p.opts.RollbackOnFailure {
		// A failed stage can still leave its resource behind.
		if rbErr := p.rollback(ctx, stages[:completed+1]); rbErr != nil {
			return state, errors.Join(err, rbErr)
		}
	}
	return state, err
}

// rollback undoes the given stages newest first. A resource that is already
// gone counts as deleted; any other failure stops the rollback.
func (p *Pipeline) rollback(ctx context.Context, stages []Stage) error {
	logger := logging.FromContext(ctx)

	for i := len(stages) - 1; i >= 0; i-- {
		s, ok := stages[i].(*stage)
		if !ok || s.undo == nil {
			continue
		}

		logger.Warnw("Rolling back stage", "stage", s.name)
		if err := s.undo(ctx); err != nil && !prov.IsNotFound(err) {
			return fmt.Errorf("rollback of %s stage failed: %w", s.name, err)
		}
	}
	return nil
}

// Teardown deletes every resource in reverse creation order.
func (p *Pipeline) Teardown(ctx context.Context) error {
	ctx = logging.WithLogger(ctx, logging.FromContext(ctx).With("run", p.opts.RunID.String()))

	seq := &TeardownSequencer{
		Groups:     p.deps.ResourceGroups,
		Networks:   p.deps.VirtualNetworks,
		Interfaces: p.deps.NetworkInterfaces,
		Machines:   p.deps.VirtualMachines,
		Identities: p.deps.Identities,
	}
	return seq.Teardown(ctx, p.cfg)
}

// Run creates everything and then tears it down again.
func (p *Pipeline) Run(ctx context.Context) error {
	if _, err := p.Create(ctx); err != nil {
		return err
	}
	return p.Teardown(ctx)
}
