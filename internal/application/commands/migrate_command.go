package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func MigrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply database schema migrations",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			_, db, _, err := bootstrap()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.RunMigrations(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.Writer, "migrations applied")
			return nil
		},
	}
}
