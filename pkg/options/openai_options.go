package options

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

var _ IOptions = (*OpenAIOptions)(nil)

// OpenAIOptions configures the text-generation collaborator.
// The service degrades to deterministic template text when the API key is
// empty or a call fails, so none of these fields are strictly required.
type OpenAIOptions struct {
	APIKey  string `json:"api-key" mapstructure:"api-key"`
	BaseURL string `json:"base-url" mapstructure:"base-url"`
	Model   string `json:"model" mapstructure:"model"`

	// Timeout bounds every generation call. There is no retry; a timeout
	// falls back to template text immediately.
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`

	Temperature float32 `json:"temperature" mapstructure:"temperature"`
}

// NewOpenAIOptions creates OpenAIOptions with default parameters.
func NewOpenAIOptions() *OpenAIOptions {
	return &OpenAIOptions{
		Model:       "gpt-4o-mini",
		Timeout:     15 * time.Second,
		Temperature: 0.7,
	}
}

func (o *OpenAIOptions) Validate() []error {
	if o == nil {
		return nil
	}

	errors := []error{}

	if o.Timeout <= 0 {
		errors = append(errors, fmt.Errorf("openai.timeout must be positive, got %s", o.Timeout))
	}

	return errors
}

func (o *OpenAIOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.APIKey, "openai.api-key", o.APIKey, "API key for the text-generation service. Empty disables remote generation.")
	fs.StringVar(&o.BaseURL, "openai.base-url", o.BaseURL, "Override the API base URL (for proxies or compatible servers).")
	fs.StringVar(&o.Model, "openai.model", o.Model, "Model used for customer messages and insight sentences.")
	fs.DurationVar(&o.Timeout, "openai.timeout", o.Timeout, "Per-call timeout for text generation.")
	fs.Float32Var(&o.Temperature, "openai.temperature", o.Temperature, "Sampling temperature for generated text.")
}
