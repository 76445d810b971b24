package options

import (
	"fmt"

	"github.com/spf13/pflag"
)

var _ IOptions = (*RegionOptions)(nil)

// RegionOptions anchors the hub's service region. Slot listings rank
// service centers by distance from this point.
type RegionOptions struct {
	Lat float64 `json:"lat" mapstructure:"lat"`
	Lon float64 `json:"lon" mapstructure:"lon"`
}

// NewRegionOptions creates RegionOptions with default parameters.
func NewRegionOptions() *RegionOptions {
	return &RegionOptions{
		Lat: 19.0760,
		Lon: 72.8777,
	}
}

func (o *RegionOptions) Validate() []error {
	if o == nil {
		return nil
	}

	errors := []error{}

	if o.Lat < -90 || o.Lat > 90 {
		errors = append(errors, fmt.Errorf("region.lat must be in [-90, 90], got %v", o.Lat))
	}
	if o.Lon < -180 || o.Lon > 180 {
		errors = append(errors, fmt.Errorf("region.lon must be in [-180, 180], got %v", o.Lon))
	}

	return errors
}

func (o *RegionOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.Float64Var(&o.Lat, "region.lat", o.Lat, "Latitude of the hub's service region.")
	fs.Float64Var(&o.Lon, "region.lon", o.Lon, "Longitude of the hub's service region.")
}
