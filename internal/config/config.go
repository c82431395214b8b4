// Package config loads application settings from a YAML file, with optional
// overrides from the environment.
package config

import (
	"io"
	"io/fs"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPath = "vkdevice.yaml"

	// PathVariable names the environment variable that overrides DefaultPath.
	PathVariable = "VKDEVICE_CONFIG"
)

type Validation string

const (
	// ValidationAuto enables validation in debug builds only.
	ValidationAuto Validation = "auto"
	ValidationOn   Validation = "on"
	ValidationOff  Validation = "off"
)

type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type Config struct {
	Window     Window     `yaml:"window"`
	Validation Validation `yaml:"validation"`
	// RequiredFeatures are device feature names such as tessellationShader.
	RequiredFeatures []string `yaml:"required_features"`
	DeviceExtensions []string `yaml:"device_extensions"`
	Log              Log      `yaml:"log"`
}

func Default() *Config {
	return &Config{
		Window: Window{
			Width:  800,
			Height: 600,
			Title:  "Vulkan",
		},
		Validation:       ValidationAuto,
		RequiredFeatures: []string{"tessellationShader"},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the config file at path over the defaults. A missing file is not
// an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to open config file")
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrapf(err, "failed to parse config file %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config file %s", path)
	}
	return cfg, nil
}

// FromEnvironment loads a .env file from the working directory if there is
// one, then loads the config file named by PathVariable or DefaultPath.
func FromEnvironment() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(err, "failed to load .env")
	}

	path := os.Getenv(PathVariable)
	if path == "" {
		path = DefaultPath
	}
	return Load(path)
}

func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return errors.Newf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}

	switch c.Validation {
	case ValidationAuto, ValidationOn, ValidationOff:
	default:
		return errors.Newf("validation must be auto, on or off, got %q", c.Validation)
	}

	for _, feature := range c.RequiredFeatures {
		if feature == "" {
			return errors.New("required_features contains an empty name")
		}
	}
	for _, extension := range c.DeviceExtensions {
		if extension == "" {
			return errors.New("device_extensions contains an empty name")
		}
	}

	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	if _, err := formatter(c.Log.Format); err != nil {
		return err
	}
	return nil
}

// WantValidation resolves ValidationAuto against the build flavor.
func (c *Config) WantValidation() bool {
	switch c.Validation {
	case ValidationOn:
		return true
	case ValidationOff:
		return false
	default:
		return buildWantsValidation
	}
}
