// Package server runs the hub's long-lived components under one errgroup.
package server

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/guardian-io/guardian/pkg/log"
)

// Runner is one long-lived component: it blocks in Run until the context
// is done or it fails.
type Runner interface {
	Name() string
	Run(ctx context.Context) error
}

// Manager starts all runners and stops every one when any fails.
type Manager struct {
	runners []Runner
	log     log.Logger
}

func NewManager(logger log.Logger) *Manager {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Manager{log: logger}
}

func (m *Manager) Add(runners ...Runner) {
	m.runners = append(m.runners, runners...)
}

// Run blocks until every runner has returned. The first failure cancels
// the shared context.
func (m *Manager) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, r := range m.runners {
		m.log.Info("starting component", "name", r.Name())
		g.Go(func() error {
			defer m.log.Info("component stopped", "name", r.Name())
			return r.Run(ctx)
		})
	}
	return g.Wait()
}
