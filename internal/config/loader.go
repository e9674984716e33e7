// Package config builds the single immutable Config used by the API. Layers,
// lowest precedence first:
//
//  1. built-in Defaults()
//  2. an optional .env file, loaded into the process environment
//  3. an optional YAML file (BOOSTER_CONFIG or the path passed to Load)
//  4. the plain variables the service has always read: DATABASE_URL, PORT,
//     CLERK_SECRET_KEY, METRICS_USER, METRICS_PASS, PPROF_SECRET
//  5. BOOSTER_-prefixed variables, where "__" separates sections, e.g.
//     BOOSTER_DATABASE__AUTO_MIGRATE=true sets database.auto_migrate
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
)

const EnvPrefix = "BOOSTER_"

var ErrConfiguration = errors.New("invalid configuration")

var legacyEnv = map[string]string{
	"DATABASE_URL":     "database.url",
	"PORT":             "http.port",
	"CLERK_SECRET_KEY": "auth.clerk_secret_key",
	"METRICS_USER":     "metrics.user",
	"METRICS_PASS":     "metrics.pass",
	"PPROF_SECRET":     "http.pprof_secret",
}

type Options struct {
	// ConfigFile is required to exist when set. When empty, BOOSTER_CONFIG
	// is consulted and a missing file there is also an error.
	ConfigFile string
	// EnvFile defaults to ".env"; a missing file is ignored.
	EnvFile string
}

func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: read %s: %v", ErrConfiguration, envFile, err)
	}

	k := koanf.New(".")

	path := opts.ConfigFile
	if path == "" {
		path = os.Getenv(EnvPrefix + "CONFIG")
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: load %s: %v", ErrConfiguration, path, err)
		}
	}

	for name, key := range legacyEnv {
		if val, ok := os.LookupEnv(name); ok && val != "" {
			if err := k.Set(key, val); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrConfiguration, name, err)
			}
		}
	}

	// BOOSTER_HTTP__PORT -> http.port
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(s, EnvPrefix), "__", "."))
	}), nil); err != nil {
		return nil, fmt.Errorf("%w: env overlay: %v", ErrConfiguration, err)
	}

	cfg := Defaults()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	cfg.Auth.AdminSubjects = splitList(cfg.Auth.AdminSubjects)

	if err := validateStruct(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	return &cfg, nil
}

// splitList accepts both YAML lists and a comma separated env value.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
