package options

import (
	"fmt"

	"github.com/spf13/pflag"
)

var _ IOptions = (*DataOptions)(nil)

// DataOptions locates the CSV-backed tables the hub reads and writes.
type DataOptions struct {
	// Dir is the directory holding vehicles.csv, telemetry.csv,
	// defect_history.csv, slots.csv, service_centers.csv, feedback.csv,
	// rca_capa.csv, logs.csv, interactions.csv and security_logs.csv.
	Dir string `json:"dir" mapstructure:"dir"`

	// Watch enables reloading of externally edited reference tables
	// (vehicles, defects) via filesystem notifications.
	Watch bool `json:"watch" mapstructure:"watch"`
}

// NewDataOptions creates DataOptions with default parameters.
func NewDataOptions() *DataOptions {
	return &DataOptions{
		Dir:   "data",
		Watch: true,
	}
}

func (o *DataOptions) Validate() []error {
	if o == nil {
		return nil
	}

	errors := []error{}

	if o.Dir == "" {
		errors = append(errors, fmt.Errorf("data.dir must not be empty"))
	}

	return errors
}

func (o *DataOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Dir, "data.dir", o.Dir, "Directory holding the CSV-backed tables.")
	fs.BoolVar(&o.Watch, "data.watch", o.Watch, "Reload reference tables when they change on disk.")
}
