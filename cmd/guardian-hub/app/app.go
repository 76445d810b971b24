// Package app assembles the guardian-hub command line application.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/guardian-io/guardian/cmd/guardian-hub/app/options"
	"github.com/guardian-io/guardian/pkg/log"
)

const (
	commandName = "guardian-hub"
	commandDesc = `The Guardian Hub is the control plane of the predictive maintenance
service. It ingests vehicle telemetry over MQTT, evaluates breakdown risk,
schedules service visits, collects customer feedback and audits the
interactions between its own agents.`

	envPrefix = "GUARDIAN"
)

// NewHubCommand creates the guardian-hub root command with all subcommands
// attached.
func NewHubCommand() *cobra.Command {
	opts := options.NewHubOptions()
	var configFile string

	cmd := &cobra.Command{
		Use:          commandName,
		Short:        "Launch the guardian predictive maintenance hub",
		Long:         commandDesc,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadOptions(cmd, configFile, opts); err != nil {
				return err
			}

			log.Init(opts.Log)

			return run(opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "",
		"Path to the configuration file (YAML). Flags override file values.")
	opts.AddFlags(cmd.PersistentFlags())

	cmd.AddCommand(newDashboardCommand(opts, &configFile))

	return cmd
}

// loadOptions merges configuration sources into opts. Precedence, highest
// first: command-line flags, environment, config file, defaults.
func loadOptions(cmd *cobra.Command, configFile string, opts *options.HubOptions) error {
	v := viper.New()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file %q: %w", configFile, err)
		}
	}

	if err := v.Unmarshal(opts); err != nil {
		return fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := opts.Complete(); err != nil {
		return fmt.Errorf("complete options: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func run(opts *options.HubOptions) error {
	ctx := setupSignalContext()

	cfg, err := opts.Config()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	server, err := cfg.NewHubServer()
	if err != nil {
		return fmt.Errorf("failed to create hub server: %w", err)
	}

	return server.Run(ctx)
}

// setupSignalContext returns a context cancelled on SIGINT or SIGTERM. A
// second signal terminates the process immediately.
func setupSignalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
		<-ch
		os.Exit(1)
	}()

	return ctx
}
