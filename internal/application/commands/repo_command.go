package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func RepoCommands() *cli.Command {
	return &cli.Command{
		Name:  "repo",
		Usage: "Manage tracked repositories",
		Commands: []*cli.Command{
			addRepoCommand(),
			syncRepoCommand(),
		},
	}
}

func addRepoCommand() *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Add a GitHub repository to the catalog and sync its issues",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "owner",
				Aliases:  []string{"o"},
				Usage:    "Repository owner",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "name",
				Aliases:  []string{"n"},
				Usage:    "Repository name",
				Required: true,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			_, db, deps, err := bootstrap()
			if err != nil {
				return err
			}
			defer db.Close()

			repo, err := deps.RepoService.AddRepository(ctx, cmd.String("owner"), cmd.String("name"))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.Writer, "repository added: %s\n", repo.FullName)
			return nil
		},
	}
}

func syncRepoCommand() *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Resync an already tracked repository from GitHub",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "owner",
				Aliases:  []string{"o"},
				Usage:    "Repository owner",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "name",
				Aliases:  []string{"n"},
				Usage:    "Repository name",
				Required: true,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			_, db, deps, err := bootstrap()
			if err != nil {
				return err
			}
			defer db.Close()

			repo, err := deps.SyncService.SyncRepository(ctx, cmd.String("owner"), cmd.String("name"))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.Writer, "repository synced: %s\n", repo.FullName)
			return nil
		},
	}
}
