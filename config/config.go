package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// ControllerType identifies the kind of controller
type ControllerType string

const (
	ControllerLaunchpadX ControllerType = "launchpad-x"
	ControllerKeyboard   ControllerType = "keyboard"
)

// ControllerConfig defines a saved controller configuration
type ControllerConfig struct {
	PortName    string         `json:"portName"`
	Type        ControllerType `json:"type"`
	AutoConnect bool           `json:"autoConnect"`
}

// OutputConfig defines the drum machine MIDI output
type OutputConfig struct {
	PortName string `json:"portName,omitempty"` // substring match; empty = first port
	Channel  int    `json:"channel"`            // 1-16
	Kit      string `json:"kit"`
	PerVoice bool   `json:"perVoice,omitempty"` // voice v on channel+v, timbre as CCs
}

// Config is the main configuration structure
type Config struct {
	Tempo          float64 `json:"tempo"`
	SwingLevel     int     `json:"swingLevel"`
	SampleRate     float64 `json:"sampleRate"`
	Seed           uint64  `json:"seed"`
	FillInterval   int     `json:"fillInterval"`
	TransitionBars int     `json:"transitionBars"`
	PhraseLength   int     `json:"phraseLength"`
	FilterSweep    bool    `json:"filterSweep"`
	SweepBars      int     `json:"sweepBars"`
	SongCount      int     `json:"songCount"`
	SongBars       int     `json:"songBars,omitempty"` // 0 = random per song
	ManualTrigger  bool    `json:"manualTrigger,omitempty"`
	AutoDJ         bool    `json:"autoDJ"`
	BuildupBars    int     `json:"buildupBars"`
	Palette        string  `json:"palette,omitempty"` // GIMP palette path; empty = built-in

	Output      OutputConfig       `json:"output"`
	Controllers []ControllerConfig `json:"controllers,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Tempo:          128,
		SampleRate:     48000,
		Seed:           1,
		FillInterval:   4,
		TransitionBars: 8,
		PhraseLength:   8,
		FilterSweep:    true,
		SweepBars:      4,
		SongCount:      8,
		AutoDJ:         true,
		BuildupBars:    8,
		Output: OutputConfig{
			Channel: 10,
			Kit:     "gm",
		},
		Controllers: []ControllerConfig{
			{
				PortName:    "Launchpad X LPX MIDI",
				Type:        ControllerLaunchpadX,
				AutoConnect: true,
			},
		},
	}
}

// Validate checks ranges the runtime cannot clamp sensibly on its own.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}
	check(c.Tempo >= 20 && c.Tempo <= 300, "tempo %.1f outside 20..300", c.Tempo)
	check(c.SwingLevel >= 0 && c.SwingLevel <= 3, "swing level %d outside 0..3", c.SwingLevel)
	check(c.SampleRate > 0, "sample rate %.0f", c.SampleRate)
	check(c.FillInterval >= 1, "fill interval %d", c.FillInterval)
	check(c.TransitionBars >= 1, "transition bars %d", c.TransitionBars)
	check(c.PhraseLength >= 1, "phrase length %d", c.PhraseLength)
	check(c.SweepBars >= 1, "sweep bars %d", c.SweepBars)
	check(c.SongCount >= 1, "song count %d", c.SongCount)
	check(c.SongBars >= 0, "song bars %d", c.SongBars)
	check(c.BuildupBars >= 1, "buildup bars %d", c.BuildupBars)
	check(c.Output.Channel >= 1 && c.Output.Channel <= 16, "output channel %d outside 1..16", c.Output.Channel)
	return errors.Join(errs...)
}

// KeyboardPorts returns the port names of auto-connecting keyboards.
func (c *Config) KeyboardPorts() []string {
	var names []string
	for _, ctrl := range c.AutoConnectControllers() {
		if ctrl.Type == ControllerKeyboard {
			names = append(names, ctrl.PortName)
		}
	}
	return names
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	return filepath.Join(home, ".config", "techno-machine"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from the default path, or returns defaults if not
// found.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads a config file. Fields missing from the file keep their
// defaults; a missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to the default path
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the config to path, creating its directory.
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// FindController finds a controller config by port name
func (c *Config) FindController(portName string) *ControllerConfig {
	for i := range c.Controllers {
		if c.Controllers[i].PortName == portName {
			return &c.Controllers[i]
		}
	}
	return nil
}

// AddController adds or updates a controller config
func (c *Config) AddController(ctrl ControllerConfig) {
	for i := range c.Controllers {
		if c.Controllers[i].PortName == ctrl.PortName {
			c.Controllers[i] = ctrl
			return
		}
	}
	c.Controllers = append(c.Controllers, ctrl)
}

// AutoConnectControllers returns controllers with autoConnect enabled
func (c *Config) AutoConnectControllers() []ControllerConfig {
	var result []ControllerConfig
	for _, ctrl := range c.Controllers {
		if ctrl.AutoConnect {
			result = append(result, ctrl)
		}
	}
	return result
}
