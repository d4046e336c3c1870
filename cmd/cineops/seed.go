package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSeedCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Replace the genre and movie catalog",
		Long: `Truncate favorites, list items, reviews, lists, movies and genres, then load the
processed genre and movie exports in a single transaction.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(app *Application) error {
				summary, err := app.Loader().Load(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), summary)
				return nil
			})
		},
	}
}
