// Package config loads flowattack settings from YAML with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/flowattack/pkg/graph"
	"github.com/dd0wney/flowattack/pkg/validation"
)

// Config is the full settings tree.
type Config struct {
	Graph  GraphConfig  `yaml:"graph"`
	Focus  FocusConfig  `yaml:"focus"`
	Attack AttackConfig `yaml:"attack"`
	Server ServerConfig `yaml:"server"`
	Events EventsConfig `yaml:"events"`
	Export ExportConfig `yaml:"export"`
	Log    LogConfig    `yaml:"log"`
}

type GraphConfig struct {
	Path string `yaml:"path"`
}

// FocusConfig names the flow endpoints. Target -1 means the highest node id
// of the loaded graph.
type FocusConfig struct {
	Source int `yaml:"source"`
	Target int `yaml:"target"`
}

type AttackConfig struct {
	Budget         int64  `yaml:"budget"`
	Steps          int    `yaml:"steps"`
	EdgesPerStep   int    `yaml:"edges_per_step"`
	MaxPaths       int    `yaml:"max_paths"`
	AttackableFlag int    `yaml:"attackable_flag"` // -1 accepts every flag
	BudgetedSelect string `yaml:"budgeted_select"`
	MultiSelect    string `yaml:"multi_step_select"`
}

type ServerConfig struct {
	Port  int  `yaml:"port"`
	Watch bool `yaml:"watch"`
}

// EventsConfig enables the publish socket when Addr is set, e.g.
// "tcp://127.0.0.1:40899".
type EventsConfig struct {
	Addr string `yaml:"addr"`
}

type ExportConfig struct {
	Dir      string `yaml:"dir"`
	S3Bucket string `yaml:"s3_bucket"`
	S3Prefix string `yaml:"s3_prefix"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the settings of the interactive tool: budget 300, three
// steps of ten edges, N1 to the highest node.
func Default() Config {
	return Config{
		Focus: FocusConfig{Source: 0, Target: -1},
		Attack: AttackConfig{
			Budget:         300,
			Steps:          3,
			EdgesPerStep:   10,
			MaxPaths:       16,
			AttackableFlag: -1,
			BudgetedSelect: validation.SelectFlow,
			MultiSelect:    validation.SelectCapacity,
		},
		Server: ServerConfig{Port: 8080},
		Log:    LogConfig{Level: "info"},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyEnv overrides settings from FLOWATTACK_GRAPH, FLOWATTACK_PORT and
// LOG_LEVEL.
func (c *Config) ApplyEnv() {
	c.Graph.Path = getEnvOrDefault("FLOWATTACK_GRAPH", c.Graph.Path)
	c.Server.Port = getEnvInt("FLOWATTACK_PORT", c.Server.Port)
	c.Log.Level = getEnvOrDefault("LOG_LEVEL", c.Log.Level)
}

var selections = []string{
	validation.SelectFlow,
	validation.SelectPaths,
	validation.SelectCapacity,
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	return errors.Join(
		validation.NewConfigValidator("focus").
			NonNegative("source", c.Focus.Source).
			MinInt("target", c.Focus.Target, -1).
			Custom("target", func() error {
				if c.Focus.Target == c.Focus.Source {
					return errors.New("must differ from source")
				}
				return nil
			}).
			Validate(),
		validation.NewConfigValidator("attack").
			NonNegativeInt64("budget", c.Attack.Budget).
			RangeInt("steps", c.Attack.Steps, 0, validation.MaxSteps).
			RangeInt("edges_per_step", c.Attack.EdgesPerStep, 1, validation.MaxEdgesPerStep).
			Positive("max_paths", c.Attack.MaxPaths).
			MinInt("attackable_flag", c.Attack.AttackableFlag, -1).
			OneOf("budgeted_select", c.Attack.BudgetedSelect, selections).
			OneOf("multi_step_select", c.Attack.MultiSelect, selections).
			Validate(),
		validation.NewConfigValidator("server").
			RangeInt("port", c.Server.Port, 1, 65535).
			When(c.Server.Watch, func(cv *validation.ConfigValidator) {
				cv.Required("watch (graph.path)", c.Graph.Path)
			}).
			Validate(),
		validation.NewConfigValidator("export").
			When(c.Export.S3Prefix != "", func(cv *validation.ConfigValidator) {
				cv.Required("s3_bucket", c.Export.S3Bucket)
			}).
			Validate(),
		validation.NewConfigValidator("log").
			OneOf("level", c.Log.Level, []string{"debug", "info", "warn", "warning", "error",
				"DEBUG", "INFO", "WARN", "WARNING", "ERROR"}).
			Validate(),
	)
}

// ResolveFocus returns the focus endpoints for g, mapping target -1 to the
// highest node id.
func (c *Config) ResolveFocus(g *graph.Graph) (source, target graph.NodeID) {
	source = graph.NodeID(c.Focus.Source)
	target = graph.NodeID(c.Focus.Target)
	if c.Focus.Target < 0 {
		target = g.MaxNodeID()
	}
	return source, target
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an integer environment variable with a default value
func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
