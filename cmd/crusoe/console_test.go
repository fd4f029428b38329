package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/crusoe/game/internal/config"
	"go.uber.org/zap/zapcore"
)

func TestConsoleWithoutColor(t *testing.T) {
	var buf bytes.Buffer
	c := console{w: &buf}

	c.section("world")
	c.stat("walls", 12)
	c.ok("listening on %s", "127.0.0.1:7070")

	out := buf.String()
	if strings.Contains(out, "\033[") {
		t.Errorf("escape codes in plain output: %q", out)
	}
	for _, want := range []string{"── world ", "walls ·", " 12\n", "✓ listening on 127.0.0.1:7070"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q lacks %q", out, want)
		}
	}
}

func TestConsoleStatKeepsMinimumDots(t *testing.T) {
	var buf bytes.Buffer
	console{w: &buf}.stat(strings.Repeat("x", 60), 1)
	if !strings.Contains(buf.String(), " ··· 1") {
		t.Errorf("got %q", buf.String())
	}
}

func TestNewLoggerFallsBackToInfo(t *testing.T) {
	log, err := newLogger(config.LoggingConfig{Level: "nonsense", Format: "json"})
	if err != nil {
		t.Fatal(err)
	}
	if log.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug enabled for an unknown level")
	}
	if !log.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info disabled")
	}
}
