package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestRead(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{
			name:     "read all (0)",
			maxLines: 0,
			expected: expectedAll,
		},
		{
			name:     "read all (negative)",
			maxLines: -1,
			expected: expectedAll,
		},
		{
			name:     "read partial (5)",
			maxLines: 5,
			expected: expectedAll[5:],
		},
		{
			name:     "read exactly all (10)",
			maxLines: 10,
			expected: expectedAll,
		},
		{
			name:     "read more than exists (20)",
			maxLines: 20,
			expected: expectedAll,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "nope.log"), 10)
	if err != nil {
		t.Fatalf("Read() error = %v, want nil", err)
	}
	if got != nil {
		t.Fatalf("Read() = %v, want nil", got)
	}
}

func TestParseLine(t *testing.T) {
	line := `time=2026-01-02T15:04:05.123Z level=WARN msg="fetch failed" key=characters?page=1 error="api character returned status 500: \"oops\""`

	entry, ok := ParseLine(line)
	if !ok {
		t.Fatalf("ParseLine(%q) ok = false", line)
	}
	want := time.Date(2026, 1, 2, 15, 4, 5, 123000000, time.UTC)
	if !entry.Time.Equal(want) {
		t.Fatalf("Time = %v, want %v", entry.Time, want)
	}
	if entry.Level != "WARN" {
		t.Fatalf("Level = %q, want WARN", entry.Level)
	}
	if entry.Message != "fetch failed" {
		t.Fatalf("Message = %q, want %q", entry.Message, "fetch failed")
	}
	wantAttrs := []Attr{
		{Key: "key", Value: "characters?page=1"},
		{Key: "error", Value: `api character returned status 500: "oops"`},
	}
	if !reflect.DeepEqual(entry.Attrs, wantAttrs) {
		t.Fatalf("Attrs = %#v, want %#v", entry.Attrs, wantAttrs)
	}
	if v, ok := entry.Attr("key"); !ok || v != "characters?page=1" {
		t.Fatalf("Attr(key) = %q,%v", v, ok)
	}
	if entry.Raw != line {
		t.Fatalf("Raw = %q, want original line", entry.Raw)
	}
}

func TestParseLine_NotSlog(t *testing.T) {
	tests := []string{
		"",
		"plain text line",
		"level=INFO no message",
		`msg="unterminated`,
	}
	for _, line := range tests {
		t.Run(line, func(t *testing.T) {
			entry, ok := ParseLine(line)
			if ok {
				t.Fatalf("ParseLine(%q) ok = true", line)
			}
			if entry.Message != line {
				t.Fatalf("Message = %q, want raw line", entry.Message)
			}
		})
	}
}

func TestParseLines(t *testing.T) {
	entries := ParseLines([]string{
		"level=INFO msg=started",
		"garbage",
	})
	if len(entries) != 2 {
		t.Fatalf("ParseLines returned %d entries, want 2", len(entries))
	}
	if entries[0].Level != "INFO" || entries[0].Message != "started" {
		t.Fatalf("entries[0] = %#v", entries[0])
	}
	if entries[1].Level != "" || entries[1].Message != "garbage" {
		t.Fatalf("entries[1] = %#v", entries[1])
	}
}
