package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/kbastani/pinot/cmd/pinotql/api"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP compile service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Value: ":8099",
				Usage: "listen address",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: "info",
				Usage: "log level: debug, info, warn, error",
			},
		},
		Action: runServe,
	}
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	level, err := logrus.ParseLevel(cmd.String("log-level"))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cmd.String("log-level"), err)
	}
	logger := logrus.New()
	logger.SetLevel(level)

	server, err := api.NewServer(api.Config{
		Addr:   cmd.String("addr"),
		Logger: logger,
	})
	if err != nil {
		return err
	}
	return server.Run(ctx)
}
