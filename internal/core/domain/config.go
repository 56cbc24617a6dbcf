package domain

import "runtime"

// Store backends.
const (
	StoreBackendFS       = "fs"
	StoreBackendMemory   = "memory"
	StoreBackendS3       = "s3"
	StoreBackendPostgres = "postgres"
)

// DefaultCacheSize is the number of entries kept by the read caches.
const DefaultCacheSize = 1024

// Config is the resolved runtime configuration.
type Config struct {
	// Root is the directory the configuration was discovered in, or the working directory.
	Root          string
	Store         StoreConfig
	CacheSize     int
	Concurrency   int
	LogJSON       bool
	LogLevel      LogLevel
	DefaultScope  string
	BindingPrefix string
}

// StoreConfig selects and parameterizes the object store backend.
type StoreConfig struct {
	Backend  string
	Path     string
	S3       S3Config
	Postgres PostgresConfig
}

// S3Config configures the S3-compatible object store.
type S3Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	Prefix    string
	Secure    bool
}

// PostgresConfig configures the Postgres object store.
type PostgresConfig struct {
	DSN   string
	Table string
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig(root string) *Config {
	return &Config{
		Root: root,
		Store: StoreConfig{
			Backend:  StoreBackendFS,
			Path:     DefaultObjectsPath(),
			Postgres: PostgresConfig{Table: "facet_objects"},
		},
		CacheSize:     DefaultCacheSize,
		Concurrency:   runtime.NumCPU(),
		LogLevel:      LogLevelInfo,
		BindingPrefix: DefaultBindingPrefix,
	}
}
