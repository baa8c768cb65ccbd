// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand runs the credential wizard and browser authorization.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Configure Apple Developer credentials and authorize your account",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "team-id",
				Usage: "Apple Developer Team ID (skips the wizard when all credential flags are set)",
			},
			&cli.StringFlag{
				Name:  "key-id",
				Usage: "MusicKit Key ID",
			},
			&cli.StringFlag{
				Name:  "key",
				Usage: "Path to the .p8 private key file",
			},
			&cli.StringFlag{
				Name:  "storefront",
				Usage: "Storefront country code",
				Value: "us",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "How long to wait for browser authorization",
				Value: defaultAuthorizeTimeout,
			},
		},
		Action: r.Setup,
		Commands: []*cli.Command{
			{
				Name:    "authorize",
				Aliases: []string{"auth"},
				Usage:   "Re-run browser authorization with saved credentials",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "How long to wait for browser authorization",
						Value: defaultAuthorizeTimeout,
					},
				},
				Action: r.Authorize,
			},
		},
	}
}

// serveCommand starts the assistant tool server on stdio.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve Apple Music tools over stdio for an assistant host",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Log file path (stdout carries protocol traffic)",
				Value: "~/.amp/amp.log",
			},
		},
		Action: r.Serve,
	}
}

// tokenCommand prints the current developer token.
func tokenCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Mint and print a developer token",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Token,
	}
}

// catalogCommand handles catalog operations.
func catalogCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "catalog",
		Aliases: []string{"cat"},
		Usage:   "Apple Music catalog operations",
		Commands: []*cli.Command{
			{
				Name:  "search",
				Usage: "Search the catalog",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "term"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "types",
						Usage: "Comma-separated result types (songs,albums,artists,playlists)",
						Value: "songs,albums,artists",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum results per type",
						Value: 5,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.CatalogSearch,
			},
		},
	}
}

// libraryCommand handles personal library operations.
func libraryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "library",
		Aliases: []string{"lib"},
		Usage:   "Personal library operations",
		Commands: []*cli.Command{
			{
				Name:  "search",
				Usage: "Search your library",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "term"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "types",
						Usage: "Comma-separated result types",
						Value: "library-songs,library-albums,library-artists,library-playlists",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum results per type",
						Value: 10,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.LibrarySearch,
			},
			{
				Name:   "songs",
				Usage:  "List library songs",
				Flags:  pageFlags(),
				Action: r.LibrarySongs,
			},
			{
				Name:   "albums",
				Usage:  "List library albums",
				Flags:  pageFlags(),
				Action: r.LibraryAlbums,
			},
			{
				Name:   "artists",
				Usage:  "List library artists",
				Flags:  pageFlags(),
				Action: r.LibraryArtists,
			},
			{
				Name:  "playlists",
				Usage: "List library playlists",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum playlists to return",
						Value: 25,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.LibraryPlaylists,
			},
			{
				Name:  "tracks",
				Usage: "List the tracks of a library playlist",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Library playlist ID",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum tracks to return",
						Value: 100,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.PlaylistTracks,
			},
		},
	}
}

// playlistCommand handles playlist mutations.
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"pl"},
		Usage:   "Create playlists and add tracks",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a new library playlist",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Playlist name",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "description",
						Usage: "Playlist description",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.PlaylistCreate,
			},
			{
				Name:  "add",
				Usage: "Add tracks to a library playlist",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Library playlist ID",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:     "track",
						Aliases:  []string{"t"},
						Usage:    "Track ID to add (repeatable)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "type",
						Usage: "Track type (library-songs or songs)",
						Value: "library-songs",
					},
				},
				Action: r.PlaylistAdd,
			},
		},
	}
}

// recentCommand lists recently played items.
func recentCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "recent",
		Usage: "Show recently played items",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum items to return",
				Value: 10,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Recent,
	}
}

// recommendationsCommand lists personal recommendations.
func recommendationsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "recommendations",
		Aliases: []string{"recs"},
		Usage:   "Show personal recommendations",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum recommendation groups",
				Value: 5,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Recommendations,
	}
}

func pageFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "limit",
			Usage: "Maximum items to return",
			Value: 25,
		},
		&cli.IntFlag{
			Name:  "offset",
			Usage: "Number of items to skip",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
	}
}
