package main

import (
	"context"
	"fmt"

	"cineops/proj/internal/storage/migrations"

	"github.com/spf13/cobra"
)

func newMigrateCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Apply, revert and inspect the schema migrations.`,
	}
	cmd.AddCommand(
		c.migrateSubcommand("up", "Run all pending migrations", (*migrations.Migrator).Up),
		c.migrateSubcommand("down", "Revert the latest migration", (*migrations.Migrator).Down),
		c.migrateSubcommand("reset", "Revert every migration", (*migrations.Migrator).Reset),
		c.migrateStatusCommand(),
		c.migrateVersionCommand(),
	)
	return cmd
}

func (c *cli) withMigrator(cmd *cobra.Command, fn func(m *migrations.Migrator) error) error {
	return c.withApp(cmd, func(app *Application) error {
		m, err := app.Migrator()
		if err != nil {
			return err
		}
		defer m.Close()
		return fn(m)
	})
}

func (c *cli) migrateSubcommand(use, short string, run func(*migrations.Migrator, context.Context) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withMigrator(cmd, func(m *migrations.Migrator) error {
				return run(m, cmd.Context())
			})
		},
	}
}

func (c *cli) migrateStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withMigrator(cmd, func(m *migrations.Migrator) error {
				statuses, err := m.Status(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, s := range statuses {
					state := "pending"
					if s.Applied {
						state = "applied"
					}
					fmt.Fprintf(out, "%5d  %-8s %s\n", s.Version, state, s.Name)
				}
				return nil
			})
		},
	}
}

func (c *cli) migrateVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withMigrator(cmd, func(m *migrations.Migrator) error {
				v, err := m.Version(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), v)
				return nil
			})
		},
	}
}
