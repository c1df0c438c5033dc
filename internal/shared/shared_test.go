package shared

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestSlugify(t *testing.T) {
	tc := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain title", input: "Test Playlist", want: "test-playlist"},
		{name: "johnny decimal prefix", input: "01.01 Beard Growing", want: "01-01-beard-growing"},
		{name: "punctuation", input: "Banda Indie Canta Hey!", want: "banda-indie-canta-hey"},
		{name: "accents", input: "Canção Número 1", want: "cancao-numero-1"},
		{name: "quotes removed", input: `Don't "Stop"`, want: "dont-stop"},
		{name: "surrounding separators", input: "  --Hello,   World--  ", want: "hello-world"},
		{name: "empty", input: "", want: ""},
		{name: "japanese", input: "日本語のノート", want: "42b686c9"},
		{name: "cyrillic", input: "Привет мир", want: "90aac635"},
		{name: "emoji only", input: "🔥", want: "98e9d955"},
		{name: "emoji pair", input: "🔥🔥", want: "acb5f754"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLock(t *testing.T) {
	t.Run("second acquisition fails while held", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "site.lock")

		first, err := AcquireLock(path)
		if err != nil {
			t.Fatalf("failed to acquire lock: %v", err)
		}

		if _, err := AcquireLock(path); !errors.Is(err, ErrLocked) {
			t.Errorf("expected ErrLocked, got %v", err)
		}

		if err := first.Release(); err != nil {
			t.Fatalf("failed to release lock: %v", err)
		}

		again, err := AcquireLock(path)
		if err != nil {
			t.Fatalf("expected lock to be free after release, got %v", err)
		}
		again.Release()
	})

	t.Run("empty path is a no-op", func(t *testing.T) {
		l, err := AcquireLock("")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if l.Path() != "" {
			t.Errorf("expected empty path, got %s", l.Path())
		}
		if err := l.Release(); err != nil {
			t.Errorf("expected no error on release, got %v", err)
		}
	})
}

func TestSetupLogging(t *testing.T) {
	t.Run("writes to debug.log when dir is set", func(t *testing.T) {
		dir := t.TempDir()
		var buf bytes.Buffer

		logger, closer, err := SetupLogging(LogConfig{Dir: dir, Level: "debug"}, &buf)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		logger.Debug("hello", "key", "value")
		closer.Close()

		data, err := os.ReadFile(filepath.Join(dir, "debug.log"))
		if err != nil {
			t.Fatalf("failed to read debug.log: %v", err)
		}
		if !strings.Contains(string(data), "hello") {
			t.Errorf("expected debug.log to contain message, got %q", string(data))
		}
		if !strings.Contains(buf.String(), "hello") {
			t.Errorf("expected writer to contain message, got %q", buf.String())
		}
	})

	t.Run("level filters messages", func(t *testing.T) {
		var buf bytes.Buffer

		logger, _, err := SetupLogging(LogConfig{Level: "WARN"}, &buf)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if logger.GetLevel() != log.WarnLevel {
			t.Errorf("expected warn level, got %v", logger.GetLevel())
		}

		logger.Info("hidden")
		if buf.Len() != 0 {
			t.Errorf("expected info to be filtered, got %q", buf.String())
		}
	})

	t.Run("invalid level", func(t *testing.T) {
		if _, _, err := SetupLogging(LogConfig{Level: "loud"}, &bytes.Buffer{}); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestMarshalJSON(t *testing.T) {
	compact, err := MarshalJSON(map[string]int{"a": 1}, false)
	if err != nil || string(compact) != `{"a":1}` {
		t.Errorf("MarshalJSON(compact) = %s, %v", compact, err)
	}

	pretty, err := MarshalJSON(map[string]int{"a": 1}, true)
	if err != nil || string(pretty) != "{\n  \"a\": 1\n}" {
		t.Errorf("MarshalJSON(pretty) = %s, %v", pretty, err)
	}
}
