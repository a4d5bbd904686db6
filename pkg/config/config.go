package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/globaltrack/globaltrack/pkg/animator"
	"github.com/globaltrack/globaltrack/pkg/util"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	TrackingAPI TrackingAPIConfig `yaml:"tracking_api"`
	Redis       RedisConfig       `yaml:"redis"`
	Animation   AnimationConfig   `yaml:"animation"`
}

type ServerConfig struct {
	Listen string `yaml:"listen" validate:"required"`
}

type TrackingAPIConfig struct {
	// Tracking codes are appended to this URL, followed by a slash
	BaseURL    string        `yaml:"base_url" validate:"required,url"`
	Timeout    time.Duration `yaml:"timeout" validate:"gt=0"`
	MaxRetries uint64        `yaml:"max_retries" validate:"lte=10"`
	CacheTTL   time.Duration `yaml:"cache_ttl" validate:"gte=0"`
}

// RedisConfig is optional, an empty address disables caching and events
type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	Database int    `yaml:"database" validate:"gte=0"`
}

type AnimationConfig struct {
	Step          float64       `yaml:"step" validate:"gt=0,lte=1"`
	Dwell         time.Duration `yaml:"dwell" validate:"gte=0"`
	FrameInterval time.Duration `yaml:"frame_interval" validate:"gt=0"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Listen: ":8080",
		},
		TrackingAPI: TrackingAPIConfig{
			BaseURL:    "http://localhost:8000/api/tracking/",
			Timeout:    10 * time.Second,
			MaxRetries: 3,
			CacheTTL:   5 * time.Minute,
		},
		Animation: AnimationConfig{
			Step:          animator.DefaultStep,
			Dwell:         animator.DefaultDwell,
			FrameInterval: animator.DefaultFrameInterval,
		},
	}
}

// Load applies the optional YAML file then GLOBALTRACK_* environment overrides on top of the defaults
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnvironment(util.PrefixedEnvironment()); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnvironment(env map[string]string) error {
	if value, ok := env["LISTEN"]; ok {
		c.Server.Listen = value
	}
	if value, ok := env["TRACKING_API_URL"]; ok {
		c.TrackingAPI.BaseURL = value
	}
	if value, ok := env["REDIS_ADDRESS"]; ok {
		c.Redis.Address = value
	}
	if value, ok := env["REDIS_PASSWORD"]; ok {
		c.Redis.Password = value
	}

	durations := map[string]*time.Duration{
		"TRACKING_API_TIMEOUT": &c.TrackingAPI.Timeout,
		"CACHE_TTL":            &c.TrackingAPI.CacheTTL,
		"ANIMATION_DWELL":      &c.Animation.Dwell,
		"ANIMATION_FRAME":      &c.Animation.FrameInterval,
	}
	for key, target := range durations {
		value, ok := env[key]
		if !ok {
			continue
		}
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%s%s: %w", util.EnvironmentPrefix, key, err)
		}
		*target = parsed
	}

	if value, ok := env["TRACKING_API_MAX_RETRIES"]; ok {
		parsed, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("%sTRACKING_API_MAX_RETRIES: %w", util.EnvironmentPrefix, err)
		}
		c.TrackingAPI.MaxRetries = parsed
	}
	if value, ok := env["REDIS_DATABASE"]; ok {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%sREDIS_DATABASE: %w", util.EnvironmentPrefix, err)
		}
		c.Redis.Database = parsed
	}
	if value, ok := env["ANIMATION_STEP"]; ok {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%sANIMATION_STEP: %w", util.EnvironmentPrefix, err)
		}
		c.Animation.Step = parsed
	}

	return nil
}

func (a AnimationConfig) AnimatorConfig() animator.Config {
	return animator.Config{
		Step:          a.Step,
		Dwell:         a.Dwell,
		FrameInterval: a.FrameInterval,
	}
}
