// Package options aggregates every configurable surface of the guardian
// hub into one flag- and file-bindable structure.
package options

import (
	"errors"

	"github.com/spf13/pflag"

	"github.com/guardian-io/guardian/internal/hub"
	"github.com/guardian-io/guardian/pkg/log"
	genericoptions "github.com/guardian-io/guardian/pkg/options"
)

// HubOptions contains the configuration for the guardian hub server.
type HubOptions struct {
	HttpOptions   *genericoptions.HttpOptions   `json:"http" mapstructure:"http"`
	MqttOptions   *genericoptions.MqttOptions   `json:"mqtt" mapstructure:"mqtt"`
	S3Options     *genericoptions.S3Options     `json:"s3" mapstructure:"s3"`
	OpenAIOptions *genericoptions.OpenAIOptions `json:"openai" mapstructure:"openai"`
	DataOptions   *genericoptions.DataOptions   `json:"data" mapstructure:"data"`
	RegionOptions *genericoptions.RegionOptions `json:"region" mapstructure:"region"`
	Log           *log.Options                  `json:"log" mapstructure:"log"`
}

// NewHubOptions creates HubOptions with default parameters.
func NewHubOptions() *HubOptions {
	return &HubOptions{
		HttpOptions:   genericoptions.NewHttpOptions(),
		MqttOptions:   genericoptions.NewMqttOptions(),
		S3Options:     genericoptions.NewS3Options(),
		OpenAIOptions: genericoptions.NewOpenAIOptions(),
		DataOptions:   genericoptions.NewDataOptions(),
		RegionOptions: genericoptions.NewRegionOptions(),
		Log:           log.NewOptions(),
	}
}

// AddFlags binds all option groups to the given flag set.
func (o *HubOptions) AddFlags(fs *pflag.FlagSet) {
	o.HttpOptions.AddFlags(fs)
	o.MqttOptions.AddFlags(fs)
	o.S3Options.AddFlags(fs)
	o.OpenAIOptions.AddFlags(fs)
	o.DataOptions.AddFlags(fs)
	o.RegionOptions.AddFlags(fs)
	o.Log.AddFlags(fs)
}

// Complete fills in any fields not set that are required to have valid data.
func (o *HubOptions) Complete() error {
	return nil
}

// Validate checks all option groups and returns the combined error.
func (o *HubOptions) Validate() error {
	errs := []error{}
	errs = append(errs, o.HttpOptions.Validate()...)
	errs = append(errs, o.MqttOptions.Validate()...)
	errs = append(errs, o.S3Options.Validate()...)
	errs = append(errs, o.OpenAIOptions.Validate()...)
	errs = append(errs, o.DataOptions.Validate()...)
	errs = append(errs, o.RegionOptions.Validate()...)
	errs = append(errs, o.Log.Validate()...)
	return errors.Join(errs...)
}

// Config builds the hub runtime configuration from the options.
func (o *HubOptions) Config() (*hub.Config, error) {
	return &hub.Config{
		HttpOptions:   o.HttpOptions,
		MqttOptions:   o.MqttOptions,
		S3Options:     o.S3Options,
		OpenAIOptions: o.OpenAIOptions,
		DataOptions:   o.DataOptions,
		RegionOptions: o.RegionOptions,
	}, nil
}
