package config

// Facetfile is the structure of facet.yaml and facet.toml.
type Facetfile struct {
	Root          string     `yaml:"root" toml:"root"`
	DefaultScope  string     `yaml:"defaultScope" toml:"defaultScope"`
	BindingPrefix string     `yaml:"bindingPrefix" toml:"bindingPrefix"`
	Store         StoreDTO   `yaml:"store" toml:"store"`
	Cache         CacheDTO   `yaml:"cache" toml:"cache"`
	Resolve       ResolveDTO `yaml:"resolve" toml:"resolve"`
	Log           LogDTO     `yaml:"log" toml:"log"`
}

// StoreDTO selects the object store backend.
type StoreDTO struct {
	Backend  string      `yaml:"backend" toml:"backend"`
	Path     string      `yaml:"path" toml:"path"`
	S3       S3DTO       `yaml:"s3" toml:"s3"`
	Postgres PostgresDTO `yaml:"postgres" toml:"postgres"`
}

// S3DTO configures the S3 backend.
type S3DTO struct {
	Endpoint  string `yaml:"endpoint" toml:"endpoint"`
	Bucket    string `yaml:"bucket" toml:"bucket"`
	Region    string `yaml:"region" toml:"region"`
	AccessKey string `yaml:"accessKey" toml:"accessKey"`
	SecretKey string `yaml:"secretKey" toml:"secretKey"`
	Prefix    string `yaml:"prefix" toml:"prefix"`
	Secure    *bool  `yaml:"secure" toml:"secure"`
}

// PostgresDTO configures the Postgres backend.
type PostgresDTO struct {
	DSN   string `yaml:"dsn" toml:"dsn"`
	Table string `yaml:"table" toml:"table"`
}

// CacheDTO configures the read caches.
type CacheDTO struct {
	Size *int `yaml:"size" toml:"size"`
}

// ResolveDTO configures dependency resolution.
type ResolveDTO struct {
	Concurrency *int `yaml:"concurrency" toml:"concurrency"`
}

// LogDTO configures logging.
type LogDTO struct {
	JSON  *bool  `yaml:"json" toml:"json"`
	Level string `yaml:"level" toml:"level"`
}
