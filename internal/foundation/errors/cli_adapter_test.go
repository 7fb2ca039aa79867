package errors

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "argument error", err: ArgumentError("stray token").Build(), expected: 1},
		{name: "config error", err: ConfigError("channel missing").Build(), expected: 1},
		{name: "wrapped hook error", err: fmt.Errorf("stage: %w", HookError("boom").Build()), expected: 1},
		{name: "unclassified error", err: errors.New("unknown error"), expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := adapter.ExitCodeFor(tt.err); got != tt.expected {
				t.Errorf("ExitCodeFor() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	quiet := NewCLIErrorAdapter(false, slog.Default())
	verbose := NewCLIErrorAdapter(true, slog.Default())

	cfg := ConfigError("channel \"ios\" targets ios, active platform is android").Build()
	if got := quiet.FormatError(cfg); got != "Error: channel \"ios\" targets ios, active platform is android" {
		t.Errorf("unexpected config message: %q", got)
	}

	internal := InternalError("nil pipeline").Build()
	if got := quiet.FormatError(internal); !strings.Contains(got, "use -v") {
		t.Errorf("expected hint for internal error, got %q", got)
	}
	if got := verbose.FormatError(internal); got != internal.Error() {
		t.Errorf("expected full error in verbose mode, got %q", got)
	}
	if got := quiet.FormatError(nil); got != "" {
		t.Errorf("expected empty string for nil, got %q", got)
	}
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var out bytes.Buffer
	code := -1
	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))).
		WithOutput(&out).
		WithExit(func(c int) { code = c })

	adapter.HandleError(nil)
	if code != -1 {
		t.Fatalf("expected no exit for nil error, got %d", code)
	}

	adapter.HandleError(BuildError("export failed").Build())
	if code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(out.String(), "export failed") {
		t.Errorf("expected message on stderr, got %q", out.String())
	}
}
