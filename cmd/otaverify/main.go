// Command otaverify is a demonstration harness around the manifest
// package: it reads an outer JWS and a manifest payload from disk, runs
// the two-level verification, and reports the verdict. It is the only
// place in this module that performs I/O, parses flags, or logs; the
// manifest package itself stays pure.
package main

import (
	"context"
	"embed"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/halimath/otajws/internal/config"
	"github.com/halimath/otajws/jwk"
	"github.com/halimath/otajws/manifest"
)

//go:embed trustbundle/*.json
var embeddedTrustBundle embed.FS

func main() {
	os.Exit(run())
}

func run() int {
	var (
		outerPath    = flag.String("outer", "", "path to the outer JWS compact token")
		manifestPath = flag.String("manifest", "", "path to the exact manifest bytes the signer committed to")
	)
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		basic, _ := zap.NewProduction()
		basic.Fatal("failed to load configuration", zap.Error(err))
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		basic, _ := zap.NewProduction()
		basic.Fatal("failed to initialize logger", zap.Error(err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	if *outerPath == "" || *manifestPath == "" {
		logger.Fatal("both -outer and -manifest are required")
	}

	roots, err := loadTrustBundle(cfg.RootKeyIDOverride)
	if err != nil {
		logger.Fatal("failed to load trust bundle", zap.Error(err))
	}

	outerJWS, err := os.ReadFile(*outerPath)
	if err != nil {
		logger.Fatal("failed to read outer JWS", zap.String("path", *outerPath), zap.Error(err))
	}

	manifestPayload, err := os.ReadFile(*manifestPath)
	if err != nil {
		logger.Fatal("failed to read manifest payload", zap.String("path", *manifestPath), zap.Error(err))
	}

	verdict := manifest.VerifyManifest(outerJWS, manifestPayload, roots)

	if verdict.Accept {
		logger.Info("manifest accepted")
		return 0
	}

	logger.Warn("manifest rejected", zap.String("reason", string(verdict.Reason)))
	return 1
}

// newLogger builds a zap.Logger whose minimum level is controlled by cfg.
func newLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)

	return zapConfig.Build()
}

// loadTrustBundle reads every JWK set under the embedded trustbundle
// directory and merges them into one jwk.Set. If rootKeyID is non-empty,
// the bundle is filtered down to that single key, simulating a device
// pinned to one root during a rotation window.
func loadTrustBundle(rootKeyID string) (jwk.Set, error) {
	entries, err := embeddedTrustBundle.ReadDir("trustbundle")
	if err != nil {
		return nil, fmt.Errorf("reading trust bundle directory: %w", err)
	}

	var merged jwk.Set
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		data, err := embeddedTrustBundle.ReadFile(filepath.Join("trustbundle", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", entry.Name(), err)
		}

		var set jwk.Set
		if err := json.Unmarshal(data, &set); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", entry.Name(), err)
		}

		merged = append(merged, set...)
	}

	if rootKeyID == "" {
		return merged, nil
	}

	if k := merged.First(jwk.WithID(rootKeyID)); k != nil {
		return jwk.Set{k}, nil
	}

	return nil, fmt.Errorf("root key id %q not found in trust bundle", rootKeyID)
}
