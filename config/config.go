// Package config loads the YAML configuration of the pathreflect command.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"pathreflect/access"
	"pathreflect/primitive"
	"pathreflect/reflector"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("category", validateCategory)
}

func validateCategory(fl validator.FieldLevel) bool {
	_, err := primitive.ParseCategory(fl.Field().String())
	return err == nil
}

// Config is the file format:
//
//	collection_suffix: "[]"
//	cache:
//	  lifespan: 60m
//	  sweep_interval: 15m
//	conversions: [safe_number, text_number]
//	log_level: debug
type Config struct {
	CollectionSuffix string        `yaml:"collection_suffix,omitempty" validate:"max=8"`
	Cache            CacheConfig   `yaml:"cache"`
	Conversions      StringOrArray `yaml:"conversions,omitempty" validate:"dive,category"`
	LogLevel         string        `yaml:"log_level,omitempty" validate:"oneof=debug info warn error"`
}

type CacheConfig struct {
	Lifespan      time.Duration `yaml:"lifespan" validate:"gt=0"`
	SweepInterval time.Duration `yaml:"sweep_interval" validate:"gt=0"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()

	return cfg
}

// LoadFile reads and validates the configuration at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes data, fills unset values with defaults and validates the
// result. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Marshal encodes cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(cfg); err != nil {
		return nil, err
	}

	if err := enc.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (c *Config) applyDefaults() {
	if c.Cache.Lifespan == 0 {
		c.Cache.Lifespan = reflector.DefaultLifespan
	}

	if c.Cache.SweepInterval == 0 {
		c.Cache.SweepInterval = reflector.DefaultSweepInterval
	}

	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	c.LogLevel = strings.ToLower(c.LogLevel)
}

// Validate checks the struct tags of c.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return nil
}

// Categories is the union of the configured conversion categories,
// every category when none is configured.
func (c *Config) Categories() (primitive.CategoryEnum, error) {
	if c.Conversions.IsEmpty() {
		return primitive.CategoryAll, nil
	}

	var mask primitive.CategoryEnum

	for _, name := range c.Conversions {
		category, err := primitive.ParseCategory(name)
		if err != nil {
			return primitive.CategoryNone, err
		}

		mask |= category
	}

	return mask, nil
}

// Level is the slog level named by LogLevel.
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}

	return level
}

// ReflectorOptions maps the configuration onto reflector options.
func (c *Config) ReflectorOptions() ([]reflector.Option, error) {
	categories, err := c.Categories()
	if err != nil {
		return nil, err
	}

	return []reflector.Option{
		reflector.WithCollectionSuffix(c.CollectionSuffix),
		reflector.WithCache(c.Cache.Lifespan, c.Cache.SweepInterval),
		reflector.WithAccessorOptions(access.WithCategories(categories)),
	}, nil
}
