// Package config loads the linter configuration from file, environment and
// command line flags, in ascending precedence.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	dsflint "github.com/datasharingframework/dsf-linter-sub005"
)

// DefaultFile is the configuration file looked up when none is given.
const DefaultFile = "dsflint.yaml"

// envPrefix is the prefix of configuration environment variables, e.g.
// DSFLINT_LOG_LEVEL.
const envPrefix = "DSFLINT_"

// Config is the complete linter configuration.
type Config struct {
	APIVersion     string `koanf:"api-version"`
	Workers        int    `koanf:"workers"`
	ResolverCache  int    `koanf:"resolver-cache"`
	TypeCache      int    `koanf:"type-cache"`
	Questionnaires bool   `koanf:"questionnaires"`
	Codings        bool   `koanf:"codings"`

	Catalog string `koanf:"catalog"`

	LogLevel  string `koanf:"log-level"`
	LogFormat string `koanf:"log-format"`

	Output string `koanf:"output"`
	Format string `koanf:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	o := dsflint.DefaultOptions()
	return Config{
		APIVersion:     string(o.APIVersion),
		Workers:        o.WorkerCount,
		ResolverCache:  o.ResolverCacheSize,
		TypeCache:      o.TypeCacheSize,
		Questionnaires: o.ValidateQuestionnaires,
		Codings:        o.ValidateCodings,
		LogLevel:       "info",
		LogFormat:      "console",
		Format:         "text",
	}
}

// Load builds the configuration: built-in defaults, then the configuration
// file, then DSFLINT_ environment variables, then flags.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	cfg := Default()
	k := koanf.New(".")

	explicit := path != ""
	if path == "" {
		path = DefaultFile
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if explicit || !os.IsNotExist(err) {
			return cfg, fmt.Errorf("loading config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return cfg, fmt.Errorf("loading environment: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return cfg, fmt.Errorf("loading flags: %w", err)
		}
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, cfg.validate()
}

// envKey maps DSFLINT_LOG_LEVEL to log-level.
func envKey(s string) string {
	s = strings.TrimPrefix(s, envPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "_", "-")
}

// validate rejects values no component can work with.
func (c Config) validate() error {
	if _, err := dsflint.ParseAPIVersion(c.APIVersion); err != nil {
		return err
	}
	switch c.Format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unknown report format %q", c.Format)
	}
	return nil
}

// Options converts the configuration into engine options.
func (c Config) Options() ([]dsflint.Option, error) {
	version, err := dsflint.ParseAPIVersion(c.APIVersion)
	if err != nil {
		return nil, err
	}
	return []dsflint.Option{
		dsflint.WithAPIVersion(version),
		dsflint.WithWorkerCount(c.Workers),
		dsflint.WithResolverCache(c.ResolverCache),
		dsflint.WithTypeCache(c.TypeCache),
		dsflint.WithQuestionnaires(c.Questionnaires),
		dsflint.WithCodings(c.Codings),
	}, nil
}
