// Package config provides the configuration loader for facet.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"go.trai.ch/facet/internal/core/domain"
	"go.trai.ch/facet/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "FACET_"

// Loader implements ports.ConfigLoader using facet.yaml or facet.toml.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load discovers the configuration file from cwd upwards and applies environment overrides.
// Variables from a .env file next to the configuration (or in cwd) apply when the process
// environment does not set them. Without a configuration file the defaults are used.
func (l *Loader) Load(cwd string) (*domain.Config, error) {
	configPath, err := l.findConfiguration(cwd)
	if err != nil {
		return nil, err
	}

	cfg := domain.DefaultConfig(filepath.Clean(cwd))
	envDir := cwd
	if configPath != "" {
		var file Facetfile
		if err := readConfigFile(configPath, &file); err != nil {
			return nil, err
		}
		if err := applyFile(cfg, configPath, &file); err != nil {
			return nil, zerr.With(err, "file", configPath)
		}
		envDir = filepath.Dir(configPath)
	}

	env, err := readDotEnv(filepath.Join(envDir, ".env"))
	if err != nil {
		return nil, err
	}
	if err := applyEnv(cfg, env); err != nil {
		return nil, err
	}

	return cfg, nil
}

// findConfiguration returns the nearest configuration file, or "" when there is none.
func (l *Loader) findConfiguration(cwd string) (string, error) {
	currentDir := cwd
	for {
		yamlPath := filepath.Join(currentDir, domain.ConfigFileName)
		tomlPath := filepath.Join(currentDir, domain.ConfigTOMLFileName)

		yamlFound, err := exists(yamlPath)
		if err != nil {
			return "", err
		}
		tomlFound, err := exists(tomlPath)
		if err != nil {
			return "", err
		}

		switch {
		case yamlFound && tomlFound:
			l.Logger.Warn(fmt.Sprintf("both %s and %s found in %s, using %s",
				domain.ConfigFileName, domain.ConfigTOMLFileName, currentDir, domain.ConfigFileName))
			return yamlPath, nil
		case yamlFound:
			return yamlPath, nil
		case tomlFound:
			return tomlPath, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", nil
		}
		currentDir = parentDir
	}
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, zerr.With(fmt.Errorf("%w: %w", domain.ErrConfigReadFailed, err), "file", path)
	}
}

// readConfigFile reads a YAML or TOML file, chosen by extension, into target.
func readConfigFile[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath comes from discovery
	data, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrConfigReadFailed, err), "file", configPath)
	}

	if filepath.Ext(configPath) == ".toml" {
		err = toml.Unmarshal(data, target)
	} else {
		err = yaml.Unmarshal(data, target)
	}
	if err != nil {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrConfigParseFailed, err), "file", configPath)
	}
	return nil
}

func readDotEnv(path string) (map[string]string, error) {
	found, err := exists(path)
	if err != nil || !found {
		return nil, err
	}
	env, err := godotenv.Read(path)
	if err != nil {
		return nil, zerr.With(fmt.Errorf("%w: %w", domain.ErrConfigParseFailed, err), "file", path)
	}
	return env, nil
}

func applyFile(cfg *domain.Config, configPath string, file *Facetfile) error {
	cfg.Root = resolveRoot(configPath, file.Root)
	setString(&cfg.DefaultScope, file.DefaultScope)
	setString(&cfg.BindingPrefix, file.BindingPrefix)

	setString(&cfg.Store.Backend, file.Store.Backend)
	setString(&cfg.Store.Path, file.Store.Path)
	setString(&cfg.Store.S3.Endpoint, file.Store.S3.Endpoint)
	setString(&cfg.Store.S3.Bucket, file.Store.S3.Bucket)
	setString(&cfg.Store.S3.Region, file.Store.S3.Region)
	setString(&cfg.Store.S3.AccessKey, file.Store.S3.AccessKey)
	setString(&cfg.Store.S3.SecretKey, file.Store.S3.SecretKey)
	setString(&cfg.Store.S3.Prefix, file.Store.S3.Prefix)
	if file.Store.S3.Secure != nil {
		cfg.Store.S3.Secure = *file.Store.S3.Secure
	}
	setString(&cfg.Store.Postgres.DSN, file.Store.Postgres.DSN)
	setString(&cfg.Store.Postgres.Table, file.Store.Postgres.Table)

	if file.Cache.Size != nil {
		cfg.CacheSize = *file.Cache.Size
	}
	if file.Resolve.Concurrency != nil {
		cfg.Concurrency = *file.Resolve.Concurrency
	}
	if file.Log.JSON != nil {
		cfg.LogJSON = *file.Log.JSON
	}
	if file.Log.Level != "" {
		cfg.LogLevel = domain.ParseLogLevel(file.Log.Level)
	}

	return validate(cfg)
}

// applyEnv applies FACET_* overrides. The process environment wins over dotenv.
func applyEnv(cfg *domain.Config, dotenv map[string]string) error {
	lookup := func(key string) string {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			return strings.TrimSpace(v)
		}
		return strings.TrimSpace(dotenv[EnvPrefix+key])
	}

	setString(&cfg.Store.Backend, lookup("STORE_BACKEND"))
	setString(&cfg.Store.Path, lookup("STORE_PATH"))
	setString(&cfg.Store.S3.Endpoint, lookup("S3_ENDPOINT"))
	setString(&cfg.Store.S3.Bucket, lookup("S3_BUCKET"))
	setString(&cfg.Store.S3.Region, lookup("S3_REGION"))
	setString(&cfg.Store.S3.AccessKey, lookup("S3_ACCESS_KEY"))
	setString(&cfg.Store.S3.SecretKey, lookup("S3_SECRET_KEY"))
	setString(&cfg.Store.S3.Prefix, lookup("S3_PREFIX"))
	setString(&cfg.Store.Postgres.DSN, lookup("POSTGRES_DSN"))
	setString(&cfg.Store.Postgres.Table, lookup("POSTGRES_TABLE"))
	setString(&cfg.DefaultScope, lookup("DEFAULT_SCOPE"))
	setString(&cfg.BindingPrefix, lookup("BINDING_PREFIX"))

	if v := lookup("LOG_LEVEL"); v != "" {
		cfg.LogLevel = domain.ParseLogLevel(v)
	}
	if err := setBool(&cfg.Store.S3.Secure, "S3_SECURE", lookup("S3_SECURE")); err != nil {
		return err
	}
	if err := setBool(&cfg.LogJSON, "LOG_JSON", lookup("LOG_JSON")); err != nil {
		return err
	}
	if err := setInt(&cfg.CacheSize, "CACHE_SIZE", lookup("CACHE_SIZE")); err != nil {
		return err
	}
	if err := setInt(&cfg.Concurrency, "CONCURRENCY", lookup("CONCURRENCY")); err != nil {
		return err
	}

	return validate(cfg)
}

func validate(cfg *domain.Config) error {
	switch cfg.Store.Backend {
	case domain.StoreBackendFS, domain.StoreBackendMemory, domain.StoreBackendS3, domain.StoreBackendPostgres:
	default:
		err := zerr.Wrap(domain.ErrUnsupportedStoreBackend, "unknown store backend")
		return zerr.With(err, "backend", cfg.Store.Backend)
	}
	if cfg.CacheSize < 0 {
		return zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, "cache size must not be negative"), "size", cfg.CacheSize)
	}
	return nil
}

func resolveRoot(configPath, configuredRoot string) string {
	configDir := filepath.Dir(configPath)
	if configuredRoot == "" {
		return filepath.Clean(configDir)
	}
	if filepath.IsAbs(configuredRoot) {
		return filepath.Clean(configuredRoot)
	}
	return filepath.Clean(filepath.Join(configDir, configuredRoot))
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key, v string) error {
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrConfigParseFailed, err), "env", EnvPrefix+key)
	}
	*dst = b
	return nil
}

func setInt(dst *int, key, v string) error {
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrConfigParseFailed, err), "env", EnvPrefix+key)
	}
	*dst = n
	return nil
}
