// Package config provides Viper-based configuration loading for hexfront.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// Manual damage stats accepted by RulesConfig.ManualDamageStat.
const (
	DamageStatDamage  = "damage"
	DamageStatAttacks = "attacks"
)

// RulesConfig holds the tunable rules of a match.
type RulesConfig struct {
	// PlacementQuota is the number of placements each faction must make before combat.
	PlacementQuota int `mapstructure:"placement_quota"`
	// DeckSize is the number of character cards dealt into each faction's deck.
	DeckSize int `mapstructure:"deck_size"`
	// HandSize is the maximum number of cards moved into the hand per draw.
	HandSize int `mapstructure:"hand_size"`
	// SkipTokens is the number of event skips each faction starts with.
	SkipTokens int `mapstructure:"skip_tokens"`
	// ManualDamageStat selects the derived stat used as damage in manual combat:
	// "damage" (default, matching the automatic battle) or "attacks", which
	// uses the attack count as damage.
	ManualDamageStat string `mapstructure:"manual_damage_stat"`
}

// BoardConfig holds board generation settings.
type BoardConfig struct {
	// Radius is the hex radius of the board around the origin.
	Radius int `mapstructure:"radius"`
	// ValueRadius is the radius inside which hexes carry a scoring value.
	ValueRadius int `mapstructure:"value_radius"`
	// MaxHexValue is the highest scoring value a hex may receive.
	MaxHexValue int `mapstructure:"max_hex_value"`
	// Mountains is the number of valued hexes converted into mountains.
	Mountains int `mapstructure:"mountains"`
	Water     int `mapstructure:"water"`
	Forest    int `mapstructure:"forest"`
	Toxic     int `mapstructure:"toxic"`
}

// ContentConfig holds content file locations.
type ContentConfig struct {
	// CardsDir is the directory of character card pool YAML files.
	CardsDir string `mapstructure:"cards_dir"`
	// EventsFile is the event deck definition YAML file.
	EventsFile string `mapstructure:"events_file"`
	// ScriptsDir is the directory of Lua ability scripts; empty disables scripting.
	ScriptsDir string `mapstructure:"scripts_dir"`
	// InstructionLimit bounds the Lua opcodes executed per hook call; 0 uses the default.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// SimulationConfig holds batch simulation settings.
type SimulationConfig struct {
	// Games is the number of automatic matches to run.
	Games int `mapstructure:"games"`
	// Workers is the maximum number of matches run concurrently.
	Workers int `mapstructure:"workers"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging"`
	Rules      RulesConfig      `mapstructure:"rules"`
	Board      BoardConfig      `mapstructure:"board"`
	Content    ContentConfig    `mapstructure:"content"`
	Simulation SimulationConfig `mapstructure:"simulation"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateRules(c.Rules); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateBoard(c.Board); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateContent(c.Content); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateSimulation(c.Simulation); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateRules(r RulesConfig) error {
	var errs []string
	if r.PlacementQuota < 1 {
		errs = append(errs, fmt.Sprintf("rules.placement_quota must be >= 1, got %d", r.PlacementQuota))
	}
	if r.DeckSize < 1 {
		errs = append(errs, fmt.Sprintf("rules.deck_size must be >= 1, got %d", r.DeckSize))
	}
	if r.HandSize < 1 {
		errs = append(errs, fmt.Sprintf("rules.hand_size must be >= 1, got %d", r.HandSize))
	}
	if r.SkipTokens < 0 {
		errs = append(errs, fmt.Sprintf("rules.skip_tokens must be >= 0, got %d", r.SkipTokens))
	}
	if r.ManualDamageStat != DamageStatDamage && r.ManualDamageStat != DamageStatAttacks {
		errs = append(errs, fmt.Sprintf("rules.manual_damage_stat must be one of [damage, attacks], got %q", r.ManualDamageStat))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateBoard(b BoardConfig) error {
	var errs []string
	if b.Radius < 1 {
		errs = append(errs, fmt.Sprintf("board.radius must be >= 1, got %d", b.Radius))
	}
	if b.ValueRadius < 0 || b.ValueRadius > b.Radius {
		errs = append(errs, fmt.Sprintf("board.value_radius must be within [0, radius], got %d", b.ValueRadius))
	}
	if b.MaxHexValue < 1 {
		errs = append(errs, fmt.Sprintf("board.max_hex_value must be >= 1, got %d", b.MaxHexValue))
	}
	if b.Mountains < 0 || b.Water < 0 || b.Forest < 0 || b.Toxic < 0 {
		errs = append(errs, "board terrain counts must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateContent(c ContentConfig) error {
	var errs []string
	if c.CardsDir == "" {
		errs = append(errs, "content.cards_dir must not be empty")
	}
	if c.EventsFile == "" {
		errs = append(errs, "content.events_file must not be empty")
	}
	if c.InstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("content.instruction_limit must be >= 0, got %d", c.InstructionLimit))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateSimulation(s SimulationConfig) error {
	if s.Games < 1 {
		return fmt.Errorf("simulation.games must be >= 1, got %d", s.Games)
	}
	if s.Workers < 1 {
		return fmt.Errorf("simulation.workers must be >= 1, got %d", s.Workers)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with HEXFRONT_ prefix
	v.SetEnvPrefix("HEXFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the configuration produced by the built-in defaults alone.
//
// Postcondition: Returns a Config that passes Validate.
func Default() Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := LoadFromViper(v)
	if err != nil {
		panic(fmt.Sprintf("config: built-in defaults are invalid: %v", err))
	}
	return cfg
}

// SetDefaults registers every built-in default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("rules.placement_quota", 15)
	v.SetDefault("rules.deck_size", 20)
	v.SetDefault("rules.hand_size", 3)
	v.SetDefault("rules.skip_tokens", 3)
	v.SetDefault("rules.manual_damage_stat", DamageStatDamage)

	v.SetDefault("board.radius", 3)
	v.SetDefault("board.value_radius", 2)
	v.SetDefault("board.max_hex_value", 5)
	v.SetDefault("board.mountains", 3)
	v.SetDefault("board.water", 2)
	v.SetDefault("board.forest", 2)
	v.SetDefault("board.toxic", 2)

	v.SetDefault("content.cards_dir", "content/cards")
	v.SetDefault("content.events_file", "content/events.yaml")
	v.SetDefault("content.scripts_dir", "content/scripts/abilities")
	v.SetDefault("content.instruction_limit", 0)

	v.SetDefault("simulation.games", 100)
	v.SetDefault("simulation.workers", 4)
}
