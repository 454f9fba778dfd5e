package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/kbastani/pinot/compiler"
	"github.com/kbastani/pinot/output"
	"github.com/kbastani/pinot/rewriter"
)

func compileCommand() *cli.Command {
	return &cli.Command{
		Name:      "compile",
		Usage:     "compile one SQL statement and print the structured query",
		ArgsUsage: "[sql]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "query",
				Aliases: []string{"q"},
				Usage:   "SQL to compile (also accepted as the positional argument or on stdin)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   "json",
				Usage:   "output format: json, table",
			},
			&cli.BoolFlag{
				Name:  "indent",
				Usage: "indent JSON output",
			},
			&cli.BoolFlag{
				Name:  "no-rewrite",
				Usage: "skip the rewrite passes (validation still runs)",
			},
		},
		Action: runCompile,
	}
}

func runCompile(ctx context.Context, cmd *cli.Command) error {
	sql, err := querySource(cmd)
	if err != nil {
		return err
	}

	config := compiler.Config{}
	if cmd.Bool("no-rewrite") {
		config.Rewriters = []rewriter.Rewriter{}
	}
	query, err := compiler.New(config).Compile(sql)
	if err != nil {
		return err
	}

	var formatter output.Formatter
	switch cmd.String("output") {
	case "json":
		jsonFormatter := output.NewJSONFormatter(os.Stdout)
		if cmd.Bool("indent") {
			jsonFormatter.SetIndent("  ")
		}
		formatter = jsonFormatter
	case "table":
		formatter = output.NewTableFormatter(os.Stdout)
	default:
		return fmt.Errorf("unsupported output format %q (supported: json, table)", cmd.String("output"))
	}
	return formatter.Format(query)
}

// querySource picks the SQL text: -q flag first, then the positional
// argument, then stdin.
func querySource(cmd *cli.Command) (string, error) {
	if sql := cmd.String("query"); sql != "" {
		return sql, nil
	}
	if sql := cmd.Args().First(); sql != "" {
		return sql, nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading query from stdin: %w", err)
	}
	sql := strings.TrimSpace(string(data))
	if sql == "" {
		return "", fmt.Errorf("no query given: pass it as an argument, with -q, or on stdin")
	}
	return sql, nil
}
