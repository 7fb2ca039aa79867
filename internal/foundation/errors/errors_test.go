package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "channel file missing").
			WithSeverity(SeverityFatal).
			WithContext("channel", "googleplay").
			Build()

		if err.Category() != CategoryConfig {
			t.Errorf("expected category %s, got %s", CategoryConfig, err.Category())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}
		if err.Message() != "channel file missing" {
			t.Errorf("expected message 'channel file missing', got %s", err.Message())
		}

		channel, exists := err.Context().GetString("channel")
		if !exists || channel != "googleplay" {
			t.Errorf("expected context channel=googleplay, got %v", channel)
		}
	})

	t.Run("Error detection", func(t *testing.T) {
		err := ConfigError("test error").Build()

		if !IsClassified(err) {
			t.Error("expected error to be classified")
		}
		if !HasCategory(err, CategoryConfig) {
			t.Error("expected error to have config category")
		}
		if !HasSeverity(err, SeverityFatal) {
			t.Error("expected error to have fatal severity")
		}
		if err.CanRetry() {
			t.Error("expected config error to not be retryable")
		}
		if !err.IsFatal() {
			t.Error("expected config error to be fatal")
		}
	})

	t.Run("Classification survives wrapping", func(t *testing.T) {
		inner := MergeConflictError("attribute values differ").Build()
		wrapped := fmt.Errorf("stage ModifyProject: %w", inner)

		if !IsClassified(wrapped) {
			t.Fatal("expected wrapped error to be classified")
		}
		if GetCategory(wrapped) != CategoryMerge {
			t.Errorf("expected merge category, got %s", GetCategory(wrapped))
		}
		if !errors.Is(wrapped, inner) {
			t.Error("expected errors.Is to find the classified error")
		}
	})

	t.Run("Unclassified falls back to internal", func(t *testing.T) {
		if GetCategory(errors.New("plain")) != CategoryInternal {
			t.Error("expected internal category for plain errors")
		}
	})
}

func TestErrorBuilder(t *testing.T) {
	t.Run("Fluent API", func(t *testing.T) {
		originalErr := errors.New("permission denied")
		err := WrapError(originalErr, CategoryFileSystem, "cannot write build result").
			Warning().
			WithRetry(RetryBackoff).
			WithContext("path", "/tmp/Build").
			WithContext("attempt", 1).
			Build()

		if err.Category() != CategoryFileSystem {
			t.Errorf("expected category %s, got %s", CategoryFileSystem, err.Category())
		}
		if err.Severity() != SeverityWarning {
			t.Errorf("expected severity %s, got %s", SeverityWarning, err.Severity())
		}
		if err.RetryStrategy() != RetryBackoff {
			t.Errorf("expected retry strategy %s, got %s", RetryBackoff, err.RetryStrategy())
		}
		if !errors.Is(err, originalErr) {
			t.Error("expected error to wrap original error")
		}
		if !err.CanRetry() {
			t.Error("expected backoff error to be retryable")
		}

		path, _ := err.Context().GetString("path")
		if path != "/tmp/Build" {
			t.Errorf("expected path context '/tmp/Build', got %s", path)
		}
	})

	t.Run("Convenience constructors", func(t *testing.T) {
		cases := []struct {
			name     string
			err      *ClassifiedError
			category ErrorCategory
		}{
			{"argument", ArgumentError("stray token").Build(), CategoryValidation},
			{"merge", MergeConflictError("conflict").Build(), CategoryMerge},
			{"structural", StructuralError("kind mismatch").Build(), CategoryStructural},
			{"hook", HookError("handler failed").Build(), CategoryHook},
			{"build", BuildError("export failed").Build(), CategoryBuild},
			{"filesystem", FileSystemError("copy failed").Build(), CategoryFileSystem},
			{"storage", StorageError("save failed").Build(), CategoryStorage},
			{"internal", InternalError("unexpected").Build(), CategoryInternal},
		}
		for _, tc := range cases {
			if tc.err.Category() != tc.category {
				t.Errorf("%s: expected category %s, got %s", tc.name, tc.category, tc.err.Category())
			}
		}
	})

	t.Run("WithContext copies", func(t *testing.T) {
		base := BuildError("export failed").Build()
		derived := base.WithContext("platform", "android")

		if _, ok := base.Context().Get("platform"); ok {
			t.Error("expected base context to be unchanged")
		}
		if v, _ := derived.Context().GetString("platform"); v != "android" {
			t.Errorf("expected derived platform=android, got %q", v)
		}
	})
}

func TestErrorContextMerge(t *testing.T) {
	a := ErrorContext{"x": 1, "y": 2}
	b := ErrorContext{"y": 3}
	m := a.Merge(b)

	if m["x"] != 1 || m["y"] != 3 {
		t.Errorf("unexpected merge result: %v", m)
	}
	if a["y"] != 2 {
		t.Error("expected receiver to be untouched")
	}
}
