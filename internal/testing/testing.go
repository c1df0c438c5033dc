// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"iter"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/guhcampos/guhcampos/internal/models"
	"github.com/guhcampos/guhcampos/internal/services"
)

// MockCatalog is a test double for [services.Catalog]
type MockCatalog struct {
	AuthErr    error
	Playlists  []models.Playlist
	ListResult *services.Result[models.Playlist]          // overrides Playlists in AllPlaylists when set
	Tracks     map[string]services.Result[models.Track] // keyed by playlist ID

	Authenticated bool
	TrackCalls    []string
}

func (m *MockCatalog) Authenticate(ctx context.Context) error {
	if m.AuthErr != nil {
		return m.AuthErr
	}
	m.Authenticated = true
	return nil
}

func (m *MockCatalog) FetchPlaylists(ctx context.Context, userID string) iter.Seq[models.Playlist] {
	return func(yield func(models.Playlist) bool) {
		for _, p := range m.Playlists {
			if !yield(p) {
				return
			}
		}
	}
}

func (m *MockCatalog) AllPlaylists(ctx context.Context, userID string) services.Result[models.Playlist] {
	if m.ListResult != nil {
		return *m.ListResult
	}
	return services.OKResult(m.Playlists)
}

func (m *MockCatalog) PlaylistTracks(ctx context.Context, playlistID string) services.Result[models.Track] {
	m.TrackCalls = append(m.TrackCalls, playlistID)
	if r, ok := m.Tracks[playlistID]; ok {
		return r
	}
	return services.OKResult([]models.Track{})
}

func (m *MockCatalog) Name() string { return "mock" }

// MockRecorder is an in-memory run history.
type MockRecorder struct {
	Runs []models.Run
	Err  error
}

func (m *MockRecorder) Create(ctx context.Context, run *models.Run) error {
	if m.Err != nil {
		return m.Err
	}
	m.Runs = append(m.Runs, *run)
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

var _ io.ReadCloser = &FCloser{}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

// MustWriteFile writes content to path, creating parent directories.
func MustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}

// MustWriteScript writes an executable shell script, used to fake external binaries.
func MustWriteScript(t *testing.T, path, body string) {
	t.Helper()
	MustWriteFile(t, path, "#!/bin/sh\n"+body+"\n")
	if err := os.Chmod(path, 0755); err != nil {
		t.Fatalf("Failed to chmod %s: %v", path, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertNoFile(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("File should not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
