package autograph

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/esimov/autograph/utils"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ConfigFile is the name of the configuration file looked up in the home directory.
const ConfigFile = ".autograph.yaml"

// Config holds the persistent settings of the drawing pad and the CLI.
type Config struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Tool       Tool    `yaml:"tool"`
	Color      string  `yaml:"color"`
	BaseWidth  float64 `yaml:"base_width"`
	Guide      bool    `yaml:"guide"`
	Background string  `yaml:"background"`
	Trim       bool    `yaml:"trim"`

	RecentLimit int    `yaml:"recent_limit"`
	RecentPath  string `yaml:"recent_path"`
	Workers     int    `yaml:"workers"`
}

// DefaultConfig returns the settings used when no configuration file exists.
func DefaultConfig() Config {
	st := DefaultStyle()
	return Config{
		Width:       600,
		Height:      240,
		Tool:        st.Tool,
		Color:       st.Color,
		BaseWidth:   st.BaseWidth,
		Guide:       st.Guide,
		Background:  st.Background,
		Trim:        st.Trim,
		RecentLimit: DefaultRecentLimit,
		Workers:     4,
	}
}

// DefaultConfigPath returns ~/.autograph.yaml.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ConfigFile), nil
}

// LoadConfig reads the configuration file over the defaults.
// A missing file yields the default configuration.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrap(err, "could not read the config file")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(err, "could not parse the config file")
	}
	return cfg, cfg.Validate()
}

// Save writes the configuration as YAML.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return errors.Wrap(os.WriteFile(path, data, 0o644), "could not write the config file")
}

// Validate checks the settings ranges.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return ErrInvalidSurface
	}
	if c.Tool != Pen && c.Tool != Eraser {
		return fmt.Errorf("unknown tool %q", c.Tool)
	}
	if c.BaseWidth < 1 || c.BaseWidth > 10 {
		return fmt.Errorf("base width should be between 1 and 10, got %v", c.BaseWidth)
	}
	if _, err := utils.HexToRGBA(c.Color); err != nil {
		return err
	}
	if c.Background != "" && c.Background != Transparent {
		if _, err := utils.HexToRGBA(c.Background); err != nil {
			return err
		}
	}
	if c.Workers <= 0 {
		return fmt.Errorf("the number of workers should be positive, got %d", c.Workers)
	}
	return nil
}

// Style returns the stroke and export style described by the configuration.
// Colors are normalized to the #rrggbb[aa] form.
func (c Config) Style() Style {
	bg := c.Background
	if bg != "" && bg != Transparent {
		bg = normalizeHex(bg)
	}
	return Style{
		Tool:       c.Tool,
		Color:      normalizeHex(c.Color),
		BaseWidth:  c.BaseWidth,
		Guide:      c.Guide,
		Background: bg,
		Trim:       c.Trim,
	}
}

// normalizeHex expands short hex colors. Malformed values are returned as is.
func normalizeHex(hex string) string {
	c, err := utils.HexToRGBA(hex)
	if err != nil {
		return hex
	}
	return utils.RGBAToHex(c)
}
