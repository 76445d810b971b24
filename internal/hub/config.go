// Package hub wires the guardian hub together: store, services, workflow
// router, servers and external collaborators.
package hub

import (
	"fmt"

	"github.com/guardian-io/guardian/internal/hub/core"
	"github.com/guardian-io/guardian/internal/hub/core/service"
	"github.com/guardian-io/guardian/internal/hub/notifier"
	httpserver "github.com/guardian-io/guardian/internal/hub/server/http"
	mqttserver "github.com/guardian-io/guardian/internal/hub/server/mqtt"
	"github.com/guardian-io/guardian/internal/hub/storage"
	"github.com/guardian-io/guardian/internal/hub/store"
	"github.com/guardian-io/guardian/internal/hub/textgen"
	"github.com/guardian-io/guardian/internal/hub/workflow"
	"github.com/guardian-io/guardian/internal/pkg/geo"
	"github.com/guardian-io/guardian/pkg/log"
	"github.com/guardian-io/guardian/pkg/mqtt"
	mqtttopic "github.com/guardian-io/guardian/pkg/mqtt/topic"
	"github.com/guardian-io/guardian/pkg/options"
)

// Config aggregates everything the hub server needs to start.
type Config struct {
	HttpOptions   *options.HttpOptions
	MqttOptions   *options.MqttOptions
	S3Options     *options.S3Options
	OpenAIOptions *options.OpenAIOptions
	DataOptions   *options.DataOptions
	RegionOptions *options.RegionOptions
}

// NewHubServer builds the fully wired hub from the configuration.
func (cfg *Config) NewHubServer() (*HubServer, error) {
	st, err := store.Open(cfg.DataOptions.Dir, log.WithName("store"))
	if err != nil {
		return nil, fmt.Errorf("open data store: %w", err)
	}

	mqttClient, err := mqtt.NewClient(cfg.MqttOptions.ToClientConfig())
	if err != nil {
		return nil, fmt.Errorf("create mqtt client: %w", err)
	}
	topics := mqtttopic.NewBuilder(cfg.MqttOptions.TopicRoot)

	reports, err := storage.NewMinIOStore(cfg.S3Options)
	if err != nil {
		return nil, fmt.Errorf("create report store: %w", err)
	}

	// nil when no API key is configured; templates take over everywhere.
	var generator core.TextGenerator
	if g := textgen.New(cfg.OpenAIOptions); g != nil {
		generator = g
	}

	voice := notifier.NewVoiceNotifier(mqttClient, topics, log.WithName("notifier"))

	svc := service.New(service.Deps{
		Vehicles:     st.Vehicles(),
		Telemetry:    st.Telemetry(),
		Defects:      st.Defects(),
		Slots:        st.Slots(),
		Centers:      st.Centers(),
		Feedback:     st.Feedback(),
		RCA:          st.RCA(),
		Interactions: st.Interactions(),
		Events:       st.Events(),
		SecurityLog:  st.SecurityLog(),
		TextGen:      generator,
		Voice:        voice,
		Reports:      reports,
	}, log.WithName("service"))

	location := geo.Point{Lat: cfg.RegionOptions.Lat, Lon: cfg.RegionOptions.Lon}
	router := workflow.New(svc, nil, location, log.WithName("workflow"))

	return &HubServer{
		store:      st,
		svc:        svc,
		mqttClient: mqttClient,
		reports:    reports,
		watchData:  cfg.DataOptions.Watch,
		httpServer: httpserver.New(cfg.HttpOptions, svc, router, location, log.WithName("http")),
		mqttServer: mqttserver.New(mqttClient, topics, svc, log.WithName("mqtt")),
	}, nil
}
