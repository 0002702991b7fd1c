package main

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestLoadTrustBundle_embeddedPrimaryIsWellFormed(t *testing.T) {
	roots, err := loadTrustBundle("")
	if err != nil {
		t.Fatal(err)
	}
	if len(roots) == 0 {
		t.Fatal("expected at least one embedded root key")
	}
}

func TestLoadTrustBundle_filtersByOverride(t *testing.T) {
	roots, err := loadTrustBundle("device-root-2026")
	if err != nil {
		t.Fatal(err)
	}
	if len(roots) != 1 {
		t.Fatalf("got %d keys, want 1", len(roots))
	}
}

func TestLoadTrustBundle_unknownOverrideRejected(t *testing.T) {
	if _, err := loadTrustBundle("no-such-key"); err == nil {
		t.Error("expected an error for an unknown root key id override")
	}
}

func TestNewLogger_unknownLevelFallsBackToInfo(t *testing.T) {
	logger, err := newLogger("not-a-real-level")
	if err != nil {
		t.Fatal(err)
	}
	if logger == nil {
		t.Fatal("expected a non-nil logger")
	}
	if !logger.Core().Enabled(zapcore.InfoLevel) || logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("expected the logger's minimum level to be info")
	}
}
