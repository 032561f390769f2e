package logger

import (
	"log/slog"
	"testing"
)

func TestNew_DefaultsToInfoLevel(t *testing.T) {
	log := New()

	if log == nil {
		t.Fatal("expected logger to be created")
	}
	if log.logger == nil {
		t.Error("expected slog.Logger to be set")
	}
}

func TestNewWithLevel_SetsLevel(t *testing.T) {
	tests := []struct {
		level slog.Level
		name  string
	}{
		{slog.LevelDebug, "debug"},
		{slog.LevelInfo, "info"},
		{slog.LevelWarn, "warn"},
		{slog.LevelError, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := NewWithLevel(tt.level)
			if log == nil {
				t.Fatal("expected logger to be created")
			}
			if got := log.level.Level(); got != tt.level {
				t.Errorf("expected level %v, got %v", tt.level, got)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"unknown", slog.LevelInfo}, // Default
		{"", slog.LevelInfo},        // Default
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSetLevel_ChangesLevelDynamically(t *testing.T) {
	log := New()

	log.SetLevel(slog.LevelDebug)
	if got := log.level.Level(); got != slog.LevelDebug {
		t.Errorf("expected debug level, got %v", got)
	}

	log.SetLevel(slog.LevelError)
	if got := log.level.Level(); got != slog.LevelError {
		t.Errorf("expected error level, got %v", got)
	}
}

func TestHTTPLoggingToggle(t *testing.T) {
	log := New()

	if log.IsHTTPLoggingEnabled() {
		t.Error("expected HTTP logging to start disabled")
	}

	log.SetHTTPLogging(true)
	if !log.IsHTTPLoggingEnabled() {
		t.Error("expected HTTP logging to be enabled")
	}

	log.SetHTTPLogging(false)
	if log.IsHTTPLoggingEnabled() {
		t.Error("expected HTTP logging to be disabled")
	}
}
