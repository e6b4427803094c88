package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Storage backends understood by the client.
const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
)

// Client holds the configuration of the terminal client.
type Client struct {
	// ServerURL is the base URL of the authentication provider.
	ServerURL string `toml:"server_url"`
	// Storage selects the device storage backend: "file" or "sqlite".
	Storage string `toml:"storage"`
	// StoragePath is the file or database path of the device storage.
	StoragePath string `toml:"storage_path"`
	// Language is the BCP 47 tag used for provider messages.
	Language string `toml:"language"`
	// LogFile receives the client log.
	LogFile string `toml:"log_file"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`
	// Timeout bounds every request to the provider.
	Timeout time.Duration `toml:"timeout"`
}

// DefaultClient returns the configuration used when no file is present.
func DefaultClient() *Client {
	return &Client{
		ServerURL:   "http://localhost:8080",
		Storage:     StorageFile,
		StoragePath: "storage.json",
		Language:    "en",
		LogFile:     "todokeeper.log",
		LogLevel:    "info",
		Timeout:     10 * time.Second,
	}
}

// LoadClient reads the TOML file at path over the defaults. A missing file is
// not an error.
func LoadClient(path string) (*Client, error) {
	cfg := DefaultClient()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("parse client config: %w", err)
	}

	switch cfg.Storage {
	case StorageFile, StorageSQLite:
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
	return cfg, nil
}
