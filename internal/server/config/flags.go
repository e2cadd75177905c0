package config

import (
	"flag"
	"os"
	"time"

	"github.com/okoshkin/filesmanager/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   HTTP bind address (e.g. ":5000")
//	-d string   MongoDB database name
//	-f string   content root directory
//	-t int      session token TTL, seconds
//	-w int      worker concurrency
//
// Args are filtered through flagx.FilterArgs first so flags owned by other
// components do not break parsing.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-f", "-t", "-w"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DBDatabase, "d", config.DBDatabase, "document store database name")
	fs.StringVar(&config.FolderPath, "f", config.FolderPath, "content root directory")

	tokenTTL := fs.Int("t", int(config.TokenTTL.Seconds()), "session token ttl (in seconds)")
	fs.IntVar(&config.WorkerConcurrency, "w", config.WorkerConcurrency, "worker concurrency")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenTTL = time.Duration(*tokenTTL) * time.Second
}
