// Command pinotql compiles SQL into the engine's structured query form.
// It offers a one-shot compile command, an HTTP compile service, and an
// interactive shell.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/kbastani/pinot/cmd/pinotql/shell"
)

func main() {
	cmd := &cli.Command{
		Name:  "pinotql",
		Usage: "compile SQL into structured queries",
		Commands: []*cli.Command{
			compileCommand(),
			serveCommand(),
			{
				Name:  "shell",
				Usage: "interactive compile shell",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return shell.Run()
				},
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
