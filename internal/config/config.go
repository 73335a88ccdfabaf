// Package config resolves connection settings and application options from explicit values,
// the process environment and optional .env files. Explicit values always win.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"gremlinbridge/internal/errs"
)

const (
	EnvDev  = "development"
	EnvProd = "production"
)

const (
	BackendGremlin = "gremlin"
	BackendCosmos  = "cosmos"
	BackendNeo4j   = "neo4j"
)

// DefaultBatchSize is the node enrichment batch size used when none is configured.
const DefaultBatchSize = 1000

// App contains the application-level options.
// Use DefaultApp() or LoadApp() to get defaults, then override as needed.
type App struct {
	Environment string `envconfig:"GREMLINBRIDGE_ENVIRONMENT" default:"development"` // development or production
	LogLevel    string `envconfig:"GREMLINBRIDGE_LOG_LEVEL" default:"info"`
	Backend     string `envconfig:"GREMLINBRIDGE_BACKEND" default:"gremlin"` // gremlin, cosmos or neo4j
	DuckDBPath  string `envconfig:"GREMLINBRIDGE_DUCKDB_PATH"`                // empty means in-memory
	BatchSize   int    `envconfig:"GREMLINBRIDGE_BATCH_SIZE" default:"1000"`  // node enrichment batch size
	Strict      bool   `envconfig:"GREMLINBRIDGE_STRICT" default:"false"`     // abort uploads on the first failure
}

// DefaultApp returns an App with the defaults applied.
func DefaultApp() App {
	return App{
		Environment: EnvDev,
		LogLevel:    "info",
		Backend:     BackendGremlin,
		BatchSize:   DefaultBatchSize,
	}
}

// LoadApp reads GREMLINBRIDGE_* variables.
func LoadApp() (App, error) {
	var a App
	if err := envconfig.Process("", &a); err != nil {
		return App{}, fmt.Errorf("load app config: %w", err)
	}
	return a, nil
}

// WithBackend returns a copy of the config with the backend replaced.
func (a App) WithBackend(backend string) App {
	a.Backend = backend
	return a
}

// WithBatchSize returns a copy of the config with the enrichment batch size replaced.
func (a App) WithBatchSize(n int) App {
	a.BatchSize = n
	return a
}

// WithDuckDBPath returns a copy of the config with the DuckDB path replaced.
func (a App) WithDuckDBPath(path string) App {
	a.DuckDBPath = path
	return a
}

// WithStrict returns a copy of the config with strict mode enabled/disabled.
func (a App) WithStrict(strict bool) App {
	a.Strict = strict
	return a
}

// Validate checks if the configuration is valid and returns an error if not.
func (a App) Validate() error {
	if a.Environment != EnvDev && a.Environment != EnvProd {
		return errs.Config("Environment", "must be %q or %q, got %q", EnvDev, EnvProd, a.Environment)
	}
	if !slices.Contains([]string{BackendGremlin, BackendCosmos, BackendNeo4j}, a.Backend) {
		return errs.Config("Backend", "unknown backend %q", a.Backend)
	}
	if a.BatchSize <= 0 {
		return errs.Config("BatchSize", "must be positive")
	}
	return nil
}

// LoadDotEnv loads each .env file into the process environment. Missing files are skipped
// and variables already set are left untouched.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}
