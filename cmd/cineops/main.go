package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"cineops/proj/internal/config"
	"cineops/proj/internal/lib/logger"

	"github.com/spf13/cobra"
)

type cli struct {
	configPath string
	cfg        *config.Config
	log        *slog.Logger
}

func newRootCommand() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "cineops",
		Short:         "CineOps catalog database tools",
		Long:          `Manage the CineOps database schema and reload the movie catalog from the processed TMDB exports.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			c.log = logger.SetupLogger(cfg.Debug)
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "Path to a yaml config file (default: environment only)")

	root.AddCommand(
		newSeedCommand(c),
		newMigrateCommand(c),
	)
	return root
}

// withApp connects to the database for the duration of fn.
func (c *cli) withApp(cmd *cobra.Command, fn func(app *Application) error) error {
	app, err := NewApplication(cmd.Context(), c.cfg, c.log)
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(app)
}

// execute runs the command line and returns the process exit code. A failure is reported
// once on stderr; the structured logger only carries progress.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
