package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/loopforge/internal/events"
	"github.com/danielpatrickdp/loopforge/internal/perception"
)

// #region types

// AgentSeed describes one configured robot. Traits are an overlay on the
// role defaults; unknown keys are ignored.
type AgentSeed struct {
	Name     string             `yaml:"name"`
	Role     string             `yaml:"role"`
	Location string             `yaml:"location"`
	Traits   map[string]float64 `yaml:"traits,omitempty"`
}

// Config is the whole run configuration.
type Config struct {
	StepsPerDay int   `yaml:"steps_per_day"`
	NumDays     int   `yaml:"num_days"`
	Episodes    int   `yaml:"episodes"`
	Seed        int64 `yaml:"seed"`

	PerceptionMode string `yaml:"perception_mode"`
	LogDir         string `yaml:"log_dir"`
	DBPath         string `yaml:"db_path"`

	PolicyURL       string `yaml:"policy_url,omitempty"`
	PolicyTimeoutMS int    `yaml:"policy_timeout_ms"`

	Events events.Config `yaml:"events"`
	Agents []AgentSeed   `yaml:"agents,omitempty"`
}

// #endregion types

// #region defaults

// Default returns a runnable configuration: a short deterministic run into
// ./logs with no external policy service.
func Default() Config {
	return Config{
		StepsPerDay:     12,
		NumDays:         3,
		Episodes:        1,
		Seed:            42,
		PerceptionMode:  string(perception.ModeAccurate),
		LogDir:          "logs",
		DBPath:          "loopforge.db",
		PolicyTimeoutMS: 2000,
		Events:          events.DefaultConfig(),
	}
}

// #endregion defaults

// #region load

// Load reads a YAML config file over the defaults and validates the
// result. An empty path yields the validated defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	cfg.PerceptionMode = string(perception.NormalizeMode(cfg.PerceptionMode))
	return cfg, nil
}

// applyEnv lets the environment override the external policy wiring
// without editing the file. Useful as a kill switch in scripted runs.
func (c *Config) applyEnv() {
	if v := os.Getenv("LOOPFORGE_POLICY_URL"); v != "" {
		c.PolicyURL = v
	}
	if v := os.Getenv("LOOPFORGE_POLICY_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.PolicyTimeoutMS = n
		}
	}
	if v := os.Getenv("LOOPFORGE_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = n
		}
	}
}

// Validate fails fast on sizing that would make a run meaningless.
func (c *Config) Validate() error {
	if c.StepsPerDay <= 0 {
		return fmt.Errorf("steps_per_day must be positive, got %d", c.StepsPerDay)
	}
	if c.NumDays <= 0 {
		return fmt.Errorf("num_days must be positive, got %d", c.NumDays)
	}
	if c.Episodes <= 0 {
		return fmt.Errorf("episodes must be positive, got %d", c.Episodes)
	}
	if c.LogDir == "" {
		return fmt.Errorf("log_dir must be set")
	}
	if c.PolicyTimeoutMS <= 0 {
		return fmt.Errorf("policy_timeout_ms must be positive, got %d", c.PolicyTimeoutMS)
	}
	if c.Events.RecentWindow <= 0 {
		return fmt.Errorf("events.recent_window must be positive, got %d", c.Events.RecentWindow)
	}
	for _, p := range []struct {
		name string
		v    float64
	}{
		{"events.stress_threshold", c.Events.StressThreshold},
		{"events.incident_chance", c.Events.IncidentChance},
		{"events.minor_error_chance", c.Events.MinorErrorChance},
	} {
		if p.v < 0 || p.v > 1 {
			return fmt.Errorf("%s must be in [0,1], got %v", p.name, p.v)
		}
	}
	for i, a := range c.Agents {
		if a.Name == "" {
			return fmt.Errorf("agents[%d]: name must be set", i)
		}
		if a.Role == "" {
			return fmt.Errorf("agent %s: role must be set", a.Name)
		}
	}
	return nil
}

// #endregion load
