// Package cmd implements the txp command line application.
package cmd

import (
	"errors"
	"flag"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/etnz/payments/logger"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Environment variables read by txp. A flag, when set, takes precedence.
const (
	EnvFormat       = "TXP_FORMAT"
	EnvLogJSON      = "TXP_LOG_JSON"
	EnvVerbose      = "TXP_VERBOSE"
	EnvKafkaBrokers = "TXP_KAFKA_BROKERS"
	EnvKafkaTopic   = "TXP_KAFKA_TOPIC"
	EnvPostgresDSN  = "TXP_POSTGRES_DSN"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	logJSON = flag.Bool("log-json", false, "log diagnostics as JSON lines. Defaults to "+EnvLogJSON+".")
	verbose = flag.Bool("v", false, "log every applied record. Defaults to "+EnvVerbose+".")
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, g := range groups() {
		for _, cmd := range g.commands {
			c.Register(cmd, g.name)
		}
	}
}

type group struct {
	name     string
	commands []subcommands.Command
}

func groups() []group {
	return []group{
		{"ledger", []subcommands.Command{&processCmd{}, &auditCmd{}}},
		{"records", []subcommands.Command{&convertCmd{}}},
		{"help", []subcommands.Command{&topicCmd{}}},
	}
}

// LoadDotEnv loads the variables of the .env files into the environment,
// without overriding the ones already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// envBool reads a boolean environment variable, false when unset or invalid.
func envBool(key string) bool {
	v, _ := strconv.ParseBool(os.Getenv(key))
	return v
}

// envOr returns flagValue if set, the environment variable key otherwise.
func envOr(flagValue, key string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(key)
}

// splitList splits a comma separated list, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// newLogger creates the diagnostics logger from the global flags.
func newLogger() zerolog.Logger {
	return logger.New(logger.Options{
		JSON:    *logJSON || envBool(EnvLogJSON),
		Verbose: *verbose || envBool(EnvVerbose),
	})
}
