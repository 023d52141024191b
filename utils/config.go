package utils

import (
	"fmt"
	"io/ioutil"

	"gopkg.in/yaml.v2"
)

const (
	DefaultCSVMaxFilesize = 10 * 1024 * 1024
	DefaultPoolSize       = 4
)

// DriverExtensions maps driver names reported by the I/O layer onto
// canonical file extensions. Unknown drivers fall back to the file's
// actual extension.
var DriverExtensions = map[string]string{
	"ESRI Shapefile": ".shp",
	"GeoJSON":        ".geojson",
	"CSV":            ".csv",
	"KML":            ".kml",
	"GPX":            ".gpx",
	"VRT":            ".vrt",
	"GTiff":          ".tif",
}

// Config carries the tunable settings of the digester. Zero values are
// replaced by defaults so a partial YAML file is enough.
type Config struct {
	CSVMaxFilesize   int64             `yaml:"csv_max_filesize"`
	PoolSize         int               `yaml:"pool_size"`
	DriverExtensions map[string]string `yaml:"driver_extensions"`
	MetricsLogDir    string            `yaml:"metrics_log_dir"`
	Verbose          bool              `yaml:"verbose"`
}

func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig reads a YAML config file and fills in defaults for any
// setting the file leaves out.
func LoadConfig(path string) (*Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error while reading config file: %v", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error while parsing config file %s: %v", path, err)
	}
	cfg.applyDefaults()

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.CSVMaxFilesize <= 0 {
		c.CSVMaxFilesize = DefaultCSVMaxFilesize
	}
	if c.PoolSize <= 0 {
		c.PoolSize = DefaultPoolSize
	}
	if c.DriverExtensions == nil {
		c.DriverExtensions = make(map[string]string)
	}
	for driver, ext := range DriverExtensions {
		if _, found := c.DriverExtensions[driver]; !found {
			c.DriverExtensions[driver] = ext
		}
	}
}

// Extension resolves a driver name to its canonical file extension.
func (c *Config) Extension(driver string) (string, bool) {
	ext, found := c.DriverExtensions[driver]
	return ext, found
}
