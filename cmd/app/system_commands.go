package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/barter/cmd/app/commands"
	"github.com/allisson/barter/internal/app"
	"github.com/allisson/barter/internal/config"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the HTTP API server",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "with-worker",
					Value: false,
					Usage: "Also run the notification consumer in this process",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version, cmd.Bool("with-worker"))
			},
		},
		{
			Name:  "worker",
			Usage: "Start the notification worker that delivers trade offer emails",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunWorker(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Run database migrations",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
			},
		},
	}
}
