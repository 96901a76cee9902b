package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/RobertRosca/zulip-write-only-proxy/cmd/app/commands"
	"github.com/RobertRosca/zulip-write-only-proxy/internal/app"
	"github.com/RobertRosca/zulip-write-only-proxy/internal/config"
)

func getClientCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-admin",
			Usage: "Provision the admin client used to create regular clients",
			Flags: []cli.Flag{
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

				repo, err := container.ClientRepository()
				if err != nil {
					return err
				}

				return commands.RunCreateAdmin(
					ctx,
					repo,
					container.TokenService(),
					container.Logger(),
					commands.DefaultIO(),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "create-client",
			Usage: "Provision a regular client bound to a proposal and stream",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:     "proposal",
					Aliases:  []string{"p"},
					Required: true,
					Usage:    "Owning proposal number",
				},
				&cli.StringFlag{
					Name:     "stream",
					Aliases:  []string{"s"},
					Required: true,
					Usage:    "Zulip stream the client may post into",
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

				clientUseCase, err := container.ClientUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateClient(
					ctx,
					clientUseCase,
					container.Logger(),
					commands.DefaultIO(),
					int64(cmd.Int("proposal")),
					cmd.String("stream"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "list-clients",
			Usage: "List provisioned clients without their tokens",
			Flags: []cli.Flag{
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

				clientUseCase, err := container.ClientUseCase()
				if err != nil {
					return err
				}

				return commands.RunListClients(
					ctx,
					clientUseCase,
					container.Logger(),
					commands.DefaultIO(),
					cmd.String("format"),
				)
			},
		},
	}
}
