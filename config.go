package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"

	"wire-router/routing"
)

const (
	configFileName = "config.yaml"
	envPrefix      = "ROUTER_"
)

// Config holds the service configuration, loaded from config.yaml with
// ROUTER_-prefixed environment overrides (e.g. ROUTER_HTTP_PORT=9090,
// ROUTER_LOG_LEVEL=debug).
type Config struct {
	HTTP struct {
		Port int `json:"port" yaml:"port"`
	} `json:"http" yaml:"http"`

	Log struct {
		Level  string `json:"level" yaml:"level"`
		Pretty bool   `json:"pretty" yaml:"pretty"`
	} `json:"log" yaml:"log"`

	Routing struct {
		Padding       float64 `json:"padding" yaml:"padding"`
		Spacing       float64 `json:"spacing" yaml:"spacing"`
		MaxGraphNodes int     `json:"maxGraphNodes" yaml:"maxGraphNodes"`
	} `json:"routing" yaml:"routing"`
}

// loadConfig loads config.yaml through koanf, searching the given paths
// (current directory when none given). A missing file is not an error: the
// defaults plus environment overrides then apply.
func loadConfig(searchPaths ...string) (*Config, error) {
	cfg := defaultConfig()
	k := koanf.New(".")

	if len(searchPaths) == 0 {
		searchPaths = []string{"."}
	}
	for _, path := range searchPaths {
		candidate := filepath.Join(path, configFileName)
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		if err := k.Load(file.Provider(candidate), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "read %s failed", candidate)
		}
		break
	}

	// Environment overrides: ROUTER_ROUTING_PADDING=12 -> routing.padding
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.TrimPrefix(key, envPrefix)
			key = strings.ReplaceAll(strings.ToLower(key), "_", ".")
			return key, value
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrap(err, "unmarshal config failed")
	}

	return cfg, nil
}

func defaultConfig() *Config {
	cfg := &Config{}
	cfg.HTTP.Port = 8080
	cfg.Log.Level = "info"
	cfg.Routing.Padding = routing.DefaultPadding
	cfg.Routing.Spacing = routing.DefaultSpacing
	return cfg
}
