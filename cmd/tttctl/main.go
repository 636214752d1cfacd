package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newApp(os.Stdin, os.Stdout).Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "tttctl: %v\n", err)
		os.Exit(1)
	}
}

func newApp(in io.Reader, out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "tttctl",
		Usage: "inspect and play tic-tac-toe areas",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api",
				Value:   "http://localhost:9090",
				Usage:   "REST API base URL",
				Sources: cli.EnvVars("TTT_API_URL"),
			},
			&cli.StringFlag{
				Name:    "ws",
				Value:   "ws://localhost:9091/ws",
				Usage:   "websocket URL",
				Sources: cli.EnvVars("TTT_WS_URL"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "areas",
				Usage: "list known areas",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runAreas(ctx, newAPIClient(cmd.String("api")), out)
				},
			},
			{
				Name:      "history",
				Usage:     "print the finished games of an area",
				ArgsUsage: "<area-id>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runHistory(ctx, newAPIClient(cmd.String("api")), cmd.Args().First(), out)
				},
			},
			{
				Name:      "state",
				Usage:     "print the current game of an area",
				ArgsUsage: "<area-id>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runState(ctx, newAPIClient(cmd.String("api")), cmd.Args().First(), out)
				},
			},
			{
				Name:  "play",
				Usage: "join an area and play from the terminal",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "area", Value: "lobby", Usage: "area to enter"},
					&cli.StringFlag{Name: "id", Usage: "player id, generated when empty", Sources: cli.EnvVars("TTT_PLAYER_ID")},
					&cli.StringFlag{Name: "name", Usage: "player name", Sources: cli.EnvVars("TTT_PLAYER_NAME")},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runPlay(ctx, playOptions{
						url:    cmd.String("ws"),
						areaID: cmd.String("area"),
						id:     cmd.String("id"),
						name:   cmd.String("name"),
					}, in, out)
				},
			},
		},
	}
}
