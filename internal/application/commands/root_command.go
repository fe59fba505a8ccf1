package commands

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/provat/codetriage/internal/config"
	"github.com/provat/codetriage/internal/infrastructure/database"
	"github.com/provat/codetriage/internal/injectable"
)

type CommandRegistry struct {
}

func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{}
}

func (*CommandRegistry) RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:                  "codetriage",
		Usage:                 "Management CLI for the issue digest service",
		Suggest:               true,
		EnableShellCompletion: true,
		Action:                RootCommand(),
		Commands: []*cli.Command{
			RepoCommands(),
			MigrateCommand(),
			DigestCommand(),
		},
	}
}

func RootCommand() cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cmd.Writer.Write([]byte("CodeTriage management CLI\n"))
		cmd.Writer.Write([]byte("Use 'codetriage --help' to see available commands.\n"))
		return nil
	}
}

// bootstrap loads configuration and opens a database connection for
// command actions. The caller owns the returned database handle.
func bootstrap() (*config.Config, *database.Database, injectable.Dependencies, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, injectable.Dependencies{}, err
	}

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return nil, nil, injectable.Dependencies{}, err
	}

	deps := injectable.LoadDependencies(cfg, db)
	return cfg, db, deps, nil
}
