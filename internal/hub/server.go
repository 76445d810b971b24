package hub

import (
	"context"
	"fmt"

	"github.com/guardian-io/guardian/internal/hub/core/service"
	"github.com/guardian-io/guardian/internal/hub/server"
	httpserver "github.com/guardian-io/guardian/internal/hub/server/http"
	mqttserver "github.com/guardian-io/guardian/internal/hub/server/mqtt"
	"github.com/guardian-io/guardian/internal/hub/storage"
	"github.com/guardian-io/guardian/internal/hub/store"
	"github.com/guardian-io/guardian/pkg/log"
	"github.com/guardian-io/guardian/pkg/mqtt"
)

// HubServer owns the hub's runtime: the MQTT connection, the HTTP and
// telemetry servers and the optional data-directory watcher.
type HubServer struct {
	store      *store.Store
	svc        *service.Service
	mqttClient mqtt.Client
	reports    *storage.MinIOStore
	watchData  bool

	httpServer *httpserver.Server
	mqttServer *mqttserver.Server
}

// Run prepares the domain state and blocks serving until ctx is done.
func (s *HubServer) Run(ctx context.Context) error {
	if err := s.svc.TrainModels(ctx); err != nil {
		return fmt.Errorf("train models: %w", err)
	}
	if err := s.svc.EnsureSlotPool(ctx); err != nil {
		return fmt.Errorf("initialize slot pool: %w", err)
	}

	if err := s.mqttClient.Start(ctx); err != nil {
		return fmt.Errorf("start mqtt client: %w", err)
	}
	defer s.mqttClient.Disconnect(context.Background())

	if err := s.reports.EnsureBucket(ctx); err != nil {
		// Reports are a secondary flow; keep serving without them.
		log.Warn("report bucket unavailable, uploads will fail", "err", err)
	}

	mgr := server.NewManager(log.WithName("manager"))
	mgr.Add(s.httpServer, s.mqttServer)
	if s.watchData {
		mgr.Add(watcherRunner{s.store})
	}

	log.Info("guardian hub started")
	err := mgr.Run(ctx)
	log.Info("guardian hub stopped")
	return err
}

// watcherRunner adapts the store watcher to the manager's Runner shape.
type watcherRunner struct {
	store *store.Store
}

func (watcherRunner) Name() string { return "data-watcher" }

func (w watcherRunner) Run(ctx context.Context) error {
	return w.store.Watch(ctx)
}
