// Package config handles loading and parsing application configuration.
// It supports two sources for the file path (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//
// An optional .env file in the working directory is loaded first, so any
// value in the YAML file can also be supplied through the environment.
//
// The parsed values are returned as a *Config pointer so the struct is
// shared by reference rather than copied everywhere.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// Blob drivers.
const (
	BlobFilesystem = "fs"
	BlobS3         = "s3"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file AND can be overridden
// by the corresponding environment variable (env:"...").
//
// env-required:"true" means the app refuses to start if that value is
// missing; everything else has a working default.
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-required:"true"`

	// HTTPServer is embedded (not a pointer) so its fields are accessible
	// directly on Config:  cfg.HTTPServer.Addr  or after promotion cfg.Addr
	HTTPServer `yaml:"http_server"`

	Storage Storage `yaml:"storage"`
	Blob    Blob    `yaml:"blob"`
	Upload  Upload  `yaml:"upload"`
	CORS    CORS    `yaml:"cors"`
	Cache   Cache   `yaml:"cache"`
}

// HTTPServer holds settings specific to the HTTP server.
// Nested under http_server: in the YAML file.
type HTTPServer struct {
	// Addr is the TCP address the server listens on, e.g. "localhost:8082".
	Addr            string        `yaml:"address"          env:"HTTP_SERVER_ADDR" env-required:"true"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"HTTP_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"HTTP_WRITE_TIMEOUT"    env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"HTTP_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// Storage selects and configures the database backend.
type Storage struct {
	Driver        string `yaml:"driver"         env:"STORAGE_DRIVER" env-default:"sqlite"`
	SQLitePath    string `yaml:"sqlite_path"    env:"STORAGE_PATH"   env-default:"storage/storage.db"`
	PostgresDSN   string `yaml:"postgres_dsn"   env:"POSTGRES_DSN"`
	MongoURI      string `yaml:"mongo_uri"      env:"MONGO_URI"`
	MongoDatabase string `yaml:"mongo_database" env:"MONGO_DB_NAME"  env-default:"admin_panel"`
}

// Blob selects where uploaded images are kept.
type Blob struct {
	Driver string `yaml:"driver" env:"BLOB_DRIVER" env-default:"fs"`
	// Root is the directory used by the filesystem driver.
	Root string `yaml:"root" env:"BLOB_ROOT" env-default:"uploads"`
	S3   S3     `yaml:"s3"`
}

// S3 configures the S3 / MinIO blob driver. Credentials fall back to the
// default AWS chain when the keys are empty.
type S3 struct {
	Bucket          string `yaml:"bucket"            env:"BLOB_S3_BUCKET"`
	Region          string `yaml:"region"            env:"BLOB_S3_REGION" env-default:"us-east-1"`
	Endpoint        string `yaml:"endpoint"          env:"BLOB_S3_ENDPOINT"`
	PathStyle       bool   `yaml:"path_style"        env:"BLOB_S3_PATH_STYLE"`
	AccessKeyID     string `yaml:"access_key_id"     env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" env:"AWS_SECRET_ACCESS_KEY"`
}

type Upload struct {
	// MaxBytes caps a multipart request body.
	MaxBytes int64 `yaml:"max_bytes" env:"UPLOAD_MAX_BYTES" env-default:"5242880"`
}

type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:3000,http://localhost:5173"`
}

type Cache struct {
	// TTL bounds how long the location list is served from memory.
	TTL time.Duration `yaml:"ttl" env:"CACHE_TTL" env-default:"5m"`
}

// Load reads the YAML file at path, applies environment overrides and
// validates the result.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	// cleanenv.ReadConfig reads the YAML file and populates the struct.
	// It also reads any env:"..." tagged fields from the environment,
	// and validates env-required:"true" constraints.
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case DriverSQLite, DriverPostgres:
	case DriverMongo:
		if c.Storage.MongoURI == "" {
			return errors.New("storage.mongo_uri is required when storage.driver is mongo")
		}
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}
	switch c.Blob.Driver {
	case BlobFilesystem:
	case BlobS3:
		if c.Blob.S3.Bucket == "" {
			return errors.New("blob.s3.bucket is required when blob.driver is s3")
		}
	default:
		return fmt.Errorf("unknown blob.driver %q", c.Blob.Driver)
	}
	if c.Upload.MaxBytes <= 0 {
		return errors.New("upload.max_bytes must be positive")
	}
	return nil
}

// MustLoad reads, validates, and returns the application config.
//
// The name "MustLoad" follows a Go convention: functions prefixed with
// "Must" are allowed to panic/fatal on failure. Callers do not need to
// check a returned error — if this function returns, the config is valid.
func MustLoad() *Config {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("cannot load .env: %s", err.Error())
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	if configPath == "" {
		log.Fatal("config path is not set: use --config flag or CONFIG_PATH env var")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err.Error())
	}
	return cfg
}
