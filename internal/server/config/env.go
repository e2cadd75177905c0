package config

import (
	"os"
	"strconv"
	"time"
)

// parseEnv overlays Config fields from environment variables. Unset or
// malformed values leave the existing value untouched.
//
// Recognized variables:
//
//	PORT                 HTTP port (":"+PORT becomes the bind address)
//	DB_HOST, DB_PORT     MongoDB host and port
//	DB_DATABASE          MongoDB database name
//	REDIS_HOST, REDIS_PORT
//	FOLDER_PATH          content root directory
//	TOKEN_TTL            session lifetime in seconds
//	WORKER_CONCURRENCY   thumbnail jobs processed in parallel
func parseEnv(config *Config) {
	if v, ok := os.LookupEnv("PORT"); ok && v != "" {
		config.EndpointAddr = ":" + v
	}
	if v, ok := os.LookupEnv("DB_HOST"); ok && v != "" {
		config.DBHost = v
	}
	if v, ok := os.LookupEnv("DB_PORT"); ok && v != "" {
		config.DBPort = v
	}
	if v, ok := os.LookupEnv("DB_DATABASE"); ok && v != "" {
		config.DBDatabase = v
	}
	if v, ok := os.LookupEnv("REDIS_HOST"); ok && v != "" {
		config.RedisHost = v
	}
	if v, ok := os.LookupEnv("REDIS_PORT"); ok && v != "" {
		config.RedisPort = v
	}
	if v, ok := os.LookupEnv("FOLDER_PATH"); ok && v != "" {
		config.FolderPath = v
	}
	if v, ok := os.LookupEnv("TOKEN_TTL"); ok && v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			config.TokenTTL = time.Duration(secs) * time.Second
		}
	}
	if v, ok := os.LookupEnv("WORKER_CONCURRENCY"); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.WorkerConcurrency = n
		}
	}
}
