// Package main is the TodoKeeper terminal client.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"

	// Add CA certificates to the default trust store
	_ "github.com/BrandonKowalski/certifiable"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/atinyakov/TodoKeeper/internal/client/api"
	"github.com/atinyakov/TodoKeeper/internal/client/kvstore"
	"github.com/atinyakov/TodoKeeper/internal/client/profile"
	"github.com/atinyakov/TodoKeeper/internal/client/session"
	"github.com/atinyakov/TodoKeeper/internal/client/shell"
	"github.com/atinyakov/TodoKeeper/internal/client/todo"
	"github.com/atinyakov/TodoKeeper/internal/config"
	"github.com/atinyakov/TodoKeeper/internal/logger"
)

var (
	version   string
	buildDate string
)

// app is everything a command needs.
type app struct {
	log      *zap.Logger
	api      *api.Client
	session  *session.Session
	todos    *todo.Collection
	profiles *profile.Repository
	close    func()
}

func setup(ctx context.Context, path string) (*app, error) {
	cfg, err := config.LoadClient(path)
	if err != nil {
		return nil, err
	}

	l := logger.New()
	if err := l.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		return nil, err
	}
	log := l.Log

	var backend kvstore.Backend
	closeBackend := func() {}
	switch cfg.Storage {
	case config.StorageSQLite:
		b, err := kvstore.OpenSQLite(ctx, cfg.StoragePath)
		if err != nil {
			return nil, err
		}
		backend = b
		closeBackend = func() { _ = b.Close() }
	default:
		backend = kvstore.NewFileBackend(cfg.StoragePath)
	}
	store := kvstore.New(backend, log)

	msgs, err := session.NewMessages(cfg.Language)
	if err != nil {
		closeBackend()
		return nil, err
	}

	client := api.New(cfg.ServerURL, &http.Client{Timeout: cfg.Timeout}, log)
	sess := session.New(client, log, msgs)

	return &app{
		log:      log,
		api:      client,
		session:  sess,
		todos:    todo.New(store, client, log),
		profiles: profile.New(store),
		close: func() {
			sess.Close()
			closeBackend()
			_ = log.Sync()
		},
	}, nil
}

func newRootCmd() *cobra.Command {
	var configPath string

	withApp := func(run func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd.Context(), configPath)
			if err != nil {
				return err
			}
			defer a.close()
			return run(cmd, a, args)
		}
	}

	root := &cobra.Command{
		Use:           "todokeeper",
		Short:         "Todos and profile in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			sh := shell.New(cmd.InOrStdin(), cmd.OutOrStdout(), a.session, a.todos, a.profiles, a.log)
			return sh.Run(cmd.Context())
		}),
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "client.toml", "path to client config")

	root.AddCommand(
		newTodoCmd(withApp),
		newProfileCmd(withApp),
		newResetCmd(withApp),
		&cobra.Command{
			Use:   "version",
			Short: "Show build version and date",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "TodoKeeper Client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
			},
		},
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
