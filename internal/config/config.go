// Package config loads the runtime configuration for the otaverify
// command-line demonstration harness from the process environment.
package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// Config holds everything the otaverify binary needs beyond its
// command-line flags. Trust anchors themselves are not modeled here: they
// are compiled-in data (see cmd/otaverify's embedded trust bundle), not
// environment-driven configuration.
type Config struct {
	// LogLevel controls the otaverify logger's minimum level: "debug",
	// "info", "warn", or "error".
	LogLevel string `env:"OTAVERIFY_LOG_LEVEL,default=info"`

	// RootKeyIDOverride, if set, restricts verification to a single root
	// key id from the compiled-in trust bundle instead of accepting any
	// of them. Used in operational testing to simulate key rotation.
	RootKeyIDOverride string `env:"OTAVERIFY_ROOT_KEY_ID"`
}

// Load populates a Config from the process environment.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
