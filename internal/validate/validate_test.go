// SPDX-License-Identifier: MIT
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"
)

func TestValidator_NotEmpty(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"non-empty", "hello", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"tab only", "\t", true},
		{"newline only", "\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.NotEmpty("testField", tt.value)

			if tt.wantErr && v.IsValid() {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && !v.IsValid() {
				t.Errorf("unexpected error: %v", v.Err())
			}
		})
	}
}

func TestValidator_OneOf(t *testing.T) {
	allowed := []string{"red", "green", "blue"}

	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"valid red", "red", false},
		{"valid green", "green", false},
		{"valid blue", "blue", false},
		{"invalid yellow", "yellow", true},
		{"invalid empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.OneOf("testField", tt.value, allowed)

			if tt.wantErr && v.IsValid() {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && !v.IsValid() {
				t.Errorf("unexpected error: %v", v.Err())
			}
		})
	}
}

func TestValidator_Positive(t *testing.T) {
	tests := []struct {
		name    string
		value   int
		wantErr bool
	}{
		{"positive 1", 1, false},
		{"positive 100", 100, false},
		{"zero", 0, true},
		{"negative", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.Positive("testField", tt.value)

			if tt.wantErr && v.IsValid() {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && !v.IsValid() {
				t.Errorf("unexpected error: %v", v.Err())
			}
		})
	}
}

func TestValidator_NonNegative(t *testing.T) {
	tests := []struct {
		name    string
		value   int
		wantErr bool
	}{
		{"positive 1", 1, false},
		{"zero", 0, false},
		{"negative", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.NonNegative("testField", tt.value)

			if tt.wantErr && v.IsValid() {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && !v.IsValid() {
				t.Errorf("unexpected error: %v", v.Err())
			}
		})
	}
}

func TestLogLevel_IsValid(t *testing.T) {
	tests := []struct {
		level LogLevel
		want  bool
	}{
		{LogLevelDebug, true},
		{LogLevelInfo, true},
		{LogLevelWarn, true},
		{LogLevelError, true},
		{LogLevel("invalid"), false},
		{LogLevel(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			if got := tt.level.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLogLevels_AllValid(t *testing.T) {
	for _, l := range LogLevels() {
		if !l.IsValid() {
			t.Errorf("LogLevels() contains invalid level %q", l)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    LogLevel
		wantErr bool
	}{
		{"debug", LogLevelDebug, false},
		{"info", LogLevelInfo, false},
		{"warn", LogLevelWarn, false},
		{"error", LogLevelError, false},
		{"DEBUG", LogLevelDebug, false},
		{" warn ", LogLevelWarn, false},
		{"invalid", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLogLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseLogLevel() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("ParseLogLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidator_Pattern(t *testing.T) {
	re := regexp.MustCompile(`^-Xmx[1-9][0-9]*[kKmMgGtT]$`)

	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"gigabytes", "-Xmx110g", false},
		{"megabytes upper", "-Xmx512M", false},
		{"missing unit", "-Xmx110", true},
		{"missing prefix", "110g", true},
		{"leading zero", "-Xmx0g", true},
		{"trailing junk", "-Xmx4g ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.Pattern("javaMemory", tt.value, re)

			if tt.wantErr && v.IsValid() {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && !v.IsValid() {
				t.Errorf("unexpected error: %v", v.Err())
			}
		})
	}
}

func TestValidator_PathSyntax(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"absolute file", "/data/u/genome.fa", false},
		{"directory with slash", "/data/u/proj/fastq/", false},
		{"bare command", "perl", false},
		{"empty", "", true},
		{"nul byte", "/data/\x00/x", true},
		{"leading space", " /data", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.PathSyntax("path", tt.path)

			if tt.wantErr && v.IsValid() {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && !v.IsValid() {
				t.Errorf("unexpected error: %v", v.Err())
			}
		})
	}
}

func TestValidator_MultipleErrors(t *testing.T) {
	v := New()

	v.Positive("threads", 0)                    // Invalid
	v.OneOf("aligner", "bwa", []string{"star"}) // Invalid
	v.NotEmpty("name", "")                      // Invalid

	if v.IsValid() {
		t.Fatal("expected errors, got none")
	}

	errs := v.Errors()
	if len(errs) != 3 {
		t.Errorf("expected 3 errors, got %d", len(errs))
	}

	err := v.Err()
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	errorMsg := err.Error()
	for _, field := range []string{"threads", "aligner", "name"} {
		if !strings.Contains(errorMsg, field) {
			t.Errorf("error message should mention %q", field)
		}
	}
}

func TestValidator_Chaining(t *testing.T) {
	v := New()

	v.Positive("threads", 12)
	v.NotEmpty("project", "jones_pancreatic_cancer")
	v.OneOf("aligner", "star", []string{"star", "bismark"})

	if !v.IsValid() {
		t.Errorf("unexpected errors: %v", v.Err())
	}
	if v.Err() != nil {
		t.Errorf("Err() should be nil for a valid validator")
	}
}

func TestValidator_ReasonIsMatchable(t *testing.T) {
	errThreads := errors.New("bad thread count")
	errMemory := errors.New("malformed memory")

	v := New()
	v.Reason(errThreads).Positive("threads", -1)
	v.Reason(errMemory).NotEmpty("javaMemory", "")
	v.NotEmpty("untagged", "")

	if len(v.Errors()) != 3 {
		t.Fatalf("expected reason views to share the error list, got %d errors", len(v.Errors()))
	}

	err := v.Err()
	if !errors.Is(err, errThreads) {
		t.Errorf("expected errors.Is(err, errThreads)")
	}
	if !errors.Is(err, errMemory) {
		t.Errorf("expected errors.Is(err, errMemory)")
	}

	var ve ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if got := ve.Errors()[2].Reason; got != nil {
		t.Errorf("expected untagged error to have no reason, got %v", got)
	}
}

func TestValidationError_Fields(t *testing.T) {
	v := New()
	v.Positive("threads", 0)
	v.NonNegative("threads", -1)
	v.NotEmpty("project", "")

	var ve ValidationError
	if !errors.As(v.Err(), &ve) {
		t.Fatalf("expected ValidationError")
	}
	got := strings.Join(ve.Fields(), ",")
	if got != "threads,project" {
		t.Errorf("Fields() = %q, want threads,project", got)
	}
}

func TestIsFieldError(t *testing.T) {
	v := New()
	v.Positive("threads", 0)
	wrapped := fmt.Errorf("validate: %w", v.Err())

	if !IsFieldError(wrapped, "threads") {
		t.Errorf("expected threads field error through wrapping")
	}
	if IsFieldError(wrapped, "project") {
		t.Errorf("did not expect project field error")
	}
	if IsFieldError(errors.New("plain"), "threads") {
		t.Errorf("plain errors carry no field")
	}
}
