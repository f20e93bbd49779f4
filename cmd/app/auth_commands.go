package main

import (
	"context"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/allisson/barter/cmd/app/commands"
	"github.com/allisson/barter/internal/app"
	"github.com/allisson/barter/internal/config"
)

func getAuthCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "issue-token",
			Usage: "Sign a bearer token for a user (development and operations)",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "user-id",
					Aliases:  []string{"u"},
					Required: true,
					Usage:    "User ID (UUID) the token authenticates",
				},
				&cli.DurationFlag{
					Name:    "ttl",
					Aliases: []string{"t"},
					Value:   time.Hour,
					Usage:   "Token lifetime",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunIssueToken(
					container.JWTService(),
					container.Logger(),
					cmd.String("user-id"),
					cmd.Duration("ttl"),
					cmd.String("format"),
					commands.DefaultIO(),
				)
			},
		},
	}
}
