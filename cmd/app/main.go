package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/raido/internal"
	pkgconfig "github.com/starford/raido/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}
}

func main() {
	cmd := &cli.Command{
		Name:  "raido",
		Usage: "Splits converted course documents into a navigable section tree with resolved cross-references",
		Commands: []*cli.Command{
			{
				Name:  "build",
				Usage: "Run the pipeline once: section tree, id maps, link resolution, section files",
				Flags: []cli.Flag{configFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, err := loadConfig(cmd)
					if err != nil {
						return err
					}
					if err := internal.Build(ctx, internal.WithConfig(cfg)); err != nil {
						return fmt.Errorf("build error: %w", err)
					}
					return nil
				},
			},
			{
				Name:  "serve",
				Usage: "Serve the built course over HTTP; with course.watch, rebuild on artifact changes",
				Flags: []cli.Flag{configFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, err := loadConfig(cmd)
					if err != nil {
						return err
					}
					if err := internal.Serve(ctx, internal.WithConfig(cfg)); err != nil {
						return fmt.Errorf("serve error: %w", err)
					}
					return nil
				},
			},
			{
				Name:  "mcp",
				Usage: "Expose the built course over stdio MCP",
				Flags: []cli.Flag{configFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, err := loadConfig(cmd)
					if err != nil {
						return err
					}
					if err := internal.ServeMCP(ctx, internal.WithConfig(cfg)); err != nil {
						return fmt.Errorf("mcp error: %w", err)
					}
					return nil
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
