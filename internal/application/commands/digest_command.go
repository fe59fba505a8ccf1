package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func DigestCommand() *cli.Command {
	return &cli.Command{
		Name:  "digest",
		Usage: "Run a single digest pass over all due subscriptions",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			_, db, deps, err := bootstrap()
			if err != nil {
				return err
			}
			defer db.Close()

			stats, err := deps.DigestService.RunDigest(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.Writer, "digest complete: subscriptions=%d due=%d sent=%d skipped=%d failed=%d\n",
				stats.Subscriptions, stats.Due, stats.Sent, stats.Skipped, stats.Failed)
			return nil
		},
	}
}
