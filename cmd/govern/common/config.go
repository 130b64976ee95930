package common

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"boscoin.io/govern/lib/common"
)

const (
	EnvPrefix            = "GOVERN"
	DefaultConfigFile    = "govern.yml"
	DefaultLogLevel      = "info"
	DefaultOutputFormat  = "prettyjson"
	DefaultStorageScheme = "file"
)

// Config is layered; defaults, the yaml config file, `GOVERN_*` environment
// variables and then the command line flags.
type Config struct {
	Storage     string `yaml:"storage" envconfig:"STORAGE"`
	LogLevel    string `yaml:"log-level" envconfig:"LOG_LEVEL"`
	LogOutput   string `yaml:"log-output" envconfig:"LOG_OUTPUT"`
	Format      string `yaml:"format" envconfig:"FORMAT"`
	MetricsFile string `yaml:"metrics-file" envconfig:"METRICS_FILE"`
	Sender      string `yaml:"sender" envconfig:"SENDER"`
}

func DefaultConfig() Config {
	c := Config{
		LogLevel: DefaultLogLevel,
		Format:   DefaultOutputFormat,
	}

	if currentDirectory, err := os.Getwd(); err == nil {
		if currentDirectory, err = filepath.Abs(currentDirectory); err == nil {
			c.Storage = DefaultStorageScheme + "://" + filepath.Join(currentDirectory, "db")
		}
	}

	return c
}

// LoadConfig reads `configFile` over the defaults; a missing default config
// file is not an error.
func LoadConfig(configFile string) (Config, error) {
	c := DefaultConfig()

	explicit := len(configFile) > 0
	if !explicit {
		configFile = common.GetENVValue(EnvPrefix+"_CONFIG", DefaultConfigFile)
	}

	if b, err := ioutil.ReadFile(configFile); err != nil {
		if explicit || !os.IsNotExist(err) {
			return c, errors.Wrapf(err, "failed to read config file, %q", configFile)
		}
	} else if err = yaml.UnmarshalStrict(b, &c); err != nil {
		return c, errors.Wrapf(err, "failed to parse config file, %q", configFile)
	}

	if err := envconfig.Process(EnvPrefix, &c); err != nil {
		return c, errors.Wrap(err, "failed to load config from environment")
	}

	return c, nil
}
