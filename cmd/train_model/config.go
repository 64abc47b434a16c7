package main

import (
	"io"
	"os"

	"fwmodel/export"
	"fwmodel/logging"
	"fwmodel/pipeline"
	"fwmodel/training"
	"github.com/juju/errors"
	"gopkg.in/yaml.v2"
)

const defaultConfigPath = "train_model.yaml"

type Config struct {
	Data struct {
		Path      string `yaml:"path"`
		Encoding  string `yaml:"encoding"`
		Synthetic struct {
			Samples int    `yaml:"samples"`
			Seed    uint64 `yaml:"seed"`
		} `yaml:"synthetic"`
	} `yaml:"data"`
	Training training.Config `yaml:"training"`
	Export   struct {
		HeaderPath string `yaml:"header_path"`
		Guard      string `yaml:"guard"`
		ModelPath  string `yaml:"model_path"`
	} `yaml:"export"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Log logging.FileOptions `yaml:"log"`
}

func defaultConfig() *Config {
	var config Config
	config.Data.Path = pipeline.DefaultDataPath
	config.Data.Encoding = pipeline.DefaultEncoding
	config.Data.Synthetic.Samples = pipeline.DefaultSamples
	config.Data.Synthetic.Seed = pipeline.DefaultSyntheticSeed
	config.Training = training.DefaultConfig()
	config.Export.Guard = export.DefaultGuard
	return &config
}

// loadConfig reads path over the defaults. A missing file is only an error
// when the caller asked for it explicitly.
func loadConfig(path string, explicit bool) (*Config, error) {
	config := defaultConfig()
	file, err := os.Open(path)
	if os.IsNotExist(err) && !explicit {
		return config, nil
	} else if err != nil {
		return nil, errors.Trace(err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.SetStrict(true)
	if err := decoder.Decode(config); err != nil && err != io.EOF {
		return nil, errors.Annotatef(err, "parse %s", path)
	}
	if err := config.Validate(); err != nil {
		return nil, errors.Annotatef(err, "invalid config %s", path)
	}
	return config, nil
}

func (c *Config) Validate() error {
	if c.Data.Synthetic.Samples <= 0 {
		return errors.NotValidf("data.synthetic.samples %d", c.Data.Synthetic.Samples)
	}
	return c.Training.Validate()
}

func (c *Config) DataOptions() pipeline.Options {
	return pipeline.Options{
		Path:     c.Data.Path,
		Encoding: c.Data.Encoding,
		Samples:  c.Data.Synthetic.Samples,
		Seed:     c.Data.Synthetic.Seed,
	}
}
