// Package config handles configuration for the files manager server and
// worker, layering defaults, environment variables and command-line flags.
package config

import (
	"fmt"
	"time"
)

// Config holds runtime settings shared by the API server and the thumbnail
// worker.
//
// Fields:
//   - EndpointAddr: bind address for the HTTP API.
//   - DBHost / DBPort / DBDatabase: MongoDB connection settings.
//   - RedisHost / RedisPort: Redis settings, used for both the session
//     key-value store and the job queue.
//   - FolderPath: root directory for uploaded content and thumbnails.
//   - TokenTTL: session token lifetime enforced by the key-value store.
//   - WorkerConcurrency: number of concurrent thumbnail jobs per worker
//     process.
type Config struct {
	EndpointAddr      string
	DBHost            string
	DBPort            string
	DBDatabase        string
	RedisHost         string
	RedisPort         string
	FolderPath        string
	TokenTTL          time.Duration
	WorkerConcurrency int
}

// LoadDefaults populates Config with local development defaults. Override
// via environment or flags in production.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":5000"
	c.DBHost = "localhost"
	c.DBPort = "27017"
	c.DBDatabase = "files_manager"
	c.RedisHost = "localhost"
	c.RedisPort = "6379"
	c.FolderPath = "/tmp/files_manager"
	c.TokenTTL = 24 * time.Hour
	c.WorkerConcurrency = 4
}

// LoadConfig builds a Config by applying defaults, then overlaying
// environment variables and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

// MongoURI returns the connection string for the document store.
func (c *Config) MongoURI() string {
	return fmt.Sprintf("mongodb://%s:%s", c.DBHost, c.DBPort)
}

// RedisAddr returns the host:port address of the key-value store.
func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}
