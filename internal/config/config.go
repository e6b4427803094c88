// Package config provides functionality for managing configuration options
// for the server using command-line flags, a JSON file and environment
// variables, and for the client using a TOML file.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Options holds the configuration values for the server.
type Options struct {
	// Address defines the server's listening address (ip:port).
	Address string `json:"address" envconfig:"SERVER_ADDRESS"`

	// DatabaseDSN holds the PostgreSQL connection string.
	DatabaseDSN string `json:"database_dsn" envconfig:"DATABASE_DSN"`

	// JWTSecret signs bearer tokens.
	JWTSecret string `json:"jwt_secret" envconfig:"JWT_SECRET"`

	// TokenTTL is the lifetime of a bearer token.
	TokenTTL time.Duration `json:"-" envconfig:"TOKEN_TTL"`

	// ResetTTL is the lifetime of a password reset token.
	ResetTTL time.Duration `json:"-" envconfig:"RESET_TTL"`

	// CleanInterval is the period of the expired token cleaner.
	CleanInterval time.Duration `json:"-" envconfig:"CLEAN_INTERVAL"`

	// AMQPURL enables publishing password reset events when set.
	AMQPURL string `json:"amqp_url" envconfig:"AMQP_URL"`

	// AMQPExchange is the topic exchange for reset events.
	AMQPExchange string `json:"amqp_exchange" envconfig:"AMQP_EXCHANGE"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level" envconfig:"LOG_LEVEL"`

	// TLSCert and TLSKey switch the server to HTTPS when both are set.
	TLSCert string `json:"tls_cert" envconfig:"TLS_CERT"`
	TLSKey  string `json:"tls_key" envconfig:"TLS_KEY"`

	// Config is the path to the Config file.
	Config string `json:"-" ignored:"true"`
}

// durations mirrors the duration options in the JSON file, where they are
// written as Go duration strings ("1h", "15m").
type durations struct {
	TokenTTL      string `json:"token_ttl"`
	ResetTTL      string `json:"reset_ttl"`
	CleanInterval string `json:"clean_interval"`
}

// Parse reads the command-line arguments, then the JSON config file, then the
// environment, each layer overriding the previous one.
func Parse(args []string) (*Options, error) {
	options := &Options{}

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&options.Address, "a", "localhost:8080", "run on ip:port server")
	fs.StringVar(&options.DatabaseDSN, "d", "", "db address")
	fs.StringVar(&options.JWTSecret, "s", "", "token signing secret")
	fs.DurationVar(&options.TokenTTL, "token-ttl", 24*time.Hour, "bearer token lifetime")
	fs.DurationVar(&options.ResetTTL, "reset-ttl", time.Hour, "password reset token lifetime")
	fs.DurationVar(&options.CleanInterval, "clean-interval", time.Hour, "expired token cleanup interval")
	fs.StringVar(&options.AMQPURL, "amqp", "", "amqp url for reset events")
	fs.StringVar(&options.AMQPExchange, "amqp-exchange", "todokeeper.auth", "amqp exchange for reset events")
	fs.StringVar(&options.LogLevel, "log-level", "info", "log level")
	fs.StringVar(&options.TLSCert, "tls-cert", "", "path to server TLS certificate")
	fs.StringVar(&options.TLSKey, "tls-key", "", "path to server TLS key")
	fs.StringVar(&options.Config, "config", "config.json", "path to config file")
	fs.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if err := readFile(options.Config, options); err != nil {
			return nil, err
		}
	}

	if err := envconfig.Process("", options); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	if options.JWTSecret == "" {
		return nil, errors.New("token signing secret is required")
	}
	return options, nil
}

func readFile(path string, options *Options) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error while reading config file: %w", err)
	}
	if err := json.Unmarshal(data, options); err != nil {
		return fmt.Errorf("error while parsing config file: %w", err)
	}

	var d durations
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("error while parsing config file: %w", err)
	}
	for _, f := range []struct {
		raw string
		dst *time.Duration
	}{
		{d.TokenTTL, &options.TokenTTL},
		{d.ResetTTL, &options.ResetTTL},
		{d.CleanInterval, &options.CleanInterval},
	} {
		if f.raw == "" {
			continue
		}
		v, err := time.ParseDuration(f.raw)
		if err != nil {
			return fmt.Errorf("error while parsing config file: %w", err)
		}
		*f.dst = v
	}
	return nil
}
