// submodule cmd contains command definitions
package main

import (
	"github.com/guhcampos/guhcampos/internal/shared"
	"github.com/urfave/cli/v3"
)

const version = "0.3.0"

// newApp builds the root command. Configuration is loaded once, before any subcommand runs.
func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "guhcampos",
		Usage:   "Build the guhcampos.com site from Hugo, Obsidian notes and Spotify playlists",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
				Sources: cli.EnvVars(shared.EnvPrefix + "CONFIG"),
			},
		},
		Before:   r.Before,
		Commands: r.register(),
	}
}

// buildCommand runs the Hugo build
func buildCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "build",
		Usage: "Build the Hugo site into the destination directory",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "drafts",
				Usage: "Include content marked as draft",
			},
			&cli.BoolFlag{
				Name:  "future",
				Usage: "Include content with a publish date in the future",
			},
			&cli.BoolFlag{
				Name:  "no-minify",
				Usage: "Skip minification of the rendered output",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Print Hugo output after a successful build",
			},
		},
		Action: r.Build,
	}
}

// obsidianCommand handles note ingestion
func obsidianCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "obsidian",
		Aliases: []string{"notes"},
		Usage:   "Obsidian vault operations",
		Commands: []*cli.Command{
			{
				Name:  "pull",
				Usage: "Convert published notes into Hugo posts",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "watch",
						Aliases: []string{"w"},
						Usage:   "Keep running and pull again whenever a note changes",
					},
				},
				Action: r.ObsidianPull,
			},
		},
	}
}

// spotifyCommand handles Spotify operations
func spotifyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "spotify",
		Aliases: []string{"spot"},
		Usage:   "Spotify playlist operations",
		Commands: []*cli.Command{
			{
				Name:  "fetch",
				Usage: "Write the configured playlists as .m3u and .json files",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:    "playlist",
						Aliases: []string{"p"},
						Usage:   "Playlist name to fetch, repeatable (default: spotify.playlists from config)",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory (default: spotify.playlists_output_dir from config)",
					},
				},
				Action: r.SpotifyFetch,
			},
			{
				Name:  "list",
				Usage: "List every playlist of the configured user",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.SpotifyList,
			},
		},
	}
}

// historyCommand shows recorded pipeline runs
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show recent pipeline runs",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of runs to show",
				Value:   20,
			},
			&cli.StringFlag{
				Name:  "kind",
				Usage: "Only show runs of this kind (build, notes, playlists.fetch, playlists.list)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.History,
	}
}

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write an example configuration file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "path",
						Usage: "Where to write the file (default: the --config path)",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize the run history database and run migrations",
				Action: r.SetupDatabase,
			},
		},
	}
}
