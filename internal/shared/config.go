package shared

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable read by [LoadConfig].
const EnvPrefix = "GUHCAMPOS_"

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration, built once at startup and passed to every command.
type Config struct {
	LockFile string         `toml:"lock_file"`
	Hugo     HugoConfig     `toml:"hugo"`
	Log      LogConfig      `toml:"log"`
	Obsidian ObsidianConfig `toml:"obsidian"`
	Spotify  SpotifyConfig  `toml:"spotify"`
	Database DatabaseConfig `toml:"database"`
}

// HugoConfig locates the site generator and its source and destination trees.
type HugoConfig struct {
	Binary string `toml:"binary"`
	SrcDir string `toml:"src_dir"`
	DstDir string `toml:"dst_dir"`
}

// LogConfig controls log verbosity and the optional debug.log directory.
type LogConfig struct {
	Dir   string `toml:"dir"`
	Level string `toml:"level"`
}

// ObsidianConfig locates the note vault and where generated posts go.
type ObsidianConfig struct {
	VaultRoot        string `toml:"vault_root"`
	ContentOutputDir string `toml:"content_output_dir"`
	PostsDir         string `toml:"posts_dir"`
}

// PostsRoot is the vault sub-tree scanned for publishable notes.
func (c ObsidianConfig) PostsRoot() string {
	if c.PostsDir == "" {
		return c.VaultRoot
	}
	return filepath.Join(c.VaultRoot, c.PostsDir)
}

// SpotifyConfig contains Spotify API credentials and the playlist allow-list.
type SpotifyConfig struct {
	ClientID           string   `toml:"client_id"`
	ClientSecret       string   `toml:"client_secret"`
	UserID             string   `toml:"user_id"`
	Playlists          []string `toml:"playlists"`
	PlaylistsOutputDir string   `toml:"playlists_output_dir"`
	RequestsPerSecond  float64  `toml:"requests_per_second"`
}

// Validate reports missing credentials. Spotify commands call it before doing any work.
func (c SpotifyConfig) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.ClientID, validation.Required),
		validation.Field(&c.ClientSecret, validation.Required),
		validation.Field(&c.UserID, validation.Required),
		validation.Field(&c.RequestsPerSecond, validation.Min(0.0)),
	)
	if err != nil {
		return fmt.Errorf("%w: spotify: %v", ErrMissingCredentials, err)
	}
	return nil
}

// DatabaseConfig contains the run history database location. An empty path disables the history.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// LoadConfig builds a [Config] from the embedded defaults, the TOML file at path (when it exists),
// a .env file in the working directory and finally GUHCAMPOS_* environment variables.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := config.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

type lookupFunc func(key string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	strs := map[string]*string{
		"LOCK_FILE":                    &c.LockFile,
		"HUGO_BINARY":                  &c.Hugo.Binary,
		"HUGO_SRC_DIR":                 &c.Hugo.SrcDir,
		"HUGO_DST_DIR":                 &c.Hugo.DstDir,
		"LOG_DIR":                      &c.Log.Dir,
		"LOG_LEVEL":                    &c.Log.Level,
		"OBSIDIAN_VAULT_ROOT":          &c.Obsidian.VaultRoot,
		"OBSIDIAN_CONTENT_OUTPUT_DIR":  &c.Obsidian.ContentOutputDir,
		"OBSIDIAN_CONTENT_POSTS_DIR":   &c.Obsidian.PostsDir,
		"SPOTIFY_CLIENT_ID":            &c.Spotify.ClientID,
		"SPOTIFY_CLIENT_SECRET":        &c.Spotify.ClientSecret,
		"SPOTIFY_USER_ID":              &c.Spotify.UserID,
		"SPOTIFY_PLAYLISTS_OUTPUT_DIR": &c.Spotify.PlaylistsOutputDir,
		"DATABASE_PATH":                &c.Database.Path,
	}
	for key, dst := range strs {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}

	if v, ok := lookup(EnvPrefix + "SPOTIFY_PLAYLISTS"); ok {
		c.Spotify.Playlists = parseList(v)
	}

	if v, ok := lookup(EnvPrefix + "SPOTIFY_REQUESTS_PER_SECOND"); ok {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %sSPOTIFY_REQUESTS_PER_SECOND=%q", ErrInvalidConfig, EnvPrefix, v)
		}
		c.Spotify.RequestsPerSecond = rps
	}

	return nil
}

// parseList accepts a JSON array or a comma separated list.
func parseList(v string) []string {
	var list []string
	if err := json.Unmarshal([]byte(v), &list); err == nil {
		return list
	}

	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}
