package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/example/work-note/client"
	"github.com/example/work-note/domain/task"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configFile string
	rootCmd    *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "worknote",
		Short: "Work-Note - personal task manager",
		Long: `worknote talks to a Work-Note server to manage your personal tasks.

Sign in once; the session is kept in ~/.worknote/credentials.yaml and
refreshed on every command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", ConfigPath(), "Config file")
	rootCmd.PersistentFlags().String("server", "", "Server base URL (overrides config)")
	rootCmd.PersistentFlags().String("credentials", "", "Credentials file (overrides config)")
}

// Execute runs the root command.
func Execute(version string) error {
	rootCmd.AddCommand(signUpCmd)
	rootCmd.AddCommand(signInCmd)
	rootCmd.AddCommand(signOutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(tasksCmd)

	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// app holds what a command needs to talk to the server.
type app struct {
	session *client.Session
	store   *client.Store
	logger  *slog.Logger
	out     io.Writer
}

// newLogger writes to stderr so command output on stdout stays clean.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// setup loads the configuration, builds the client and restores any stored
// session.
func setup(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfg, err := LoadConfig(cmd, configFile)
	if err != nil {
		return nil, err
	}
	logger := newLogger()

	opts := []client.Option{
		client.WithLogger(logger),
		client.WithNotifier(client.NewSlogNotifier(logger)),
	}
	switch cfg.DefaultPriority {
	case "", "none":
		opts = append(opts, client.WithoutPriority())
	default:
		p, err := task.ParsePriority(cfg.DefaultPriority)
		if err != nil {
			return nil, fmt.Errorf("default_priority: %w", err)
		}
		opts = append(opts, client.WithDefaultPriority(p))
	}

	backend := client.NewHTTPBackend(cfg.ServerURL, cfg.Timeout)
	session := client.NewSession(backend, client.NewFileCredentials(cfg.CredentialsPath), opts...)
	if _, err := session.Restore(ctx); err != nil {
		logger.Debug("Stored session could not be restored", "error", err)
	}

	logger.Debug("Client ready", "server", cfg.ServerURL, "credentials", cfg.CredentialsPath)
	return &app{
		session: session,
		store:   client.NewStore(session, backend, opts...),
		logger:  logger,
		out:     cmd.OutOrStdout(),
	}, nil
}

// run wraps a command body with setup and teardown.
func run(fn func(ctx context.Context, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		a, err := setup(ctx, cmd)
		if err != nil {
			return err
		}
		defer a.store.Close()
		return fn(ctx, a, args)
	}
}

// requireIdentity fails when nobody is signed in.
func (a *app) requireIdentity() error {
	if a.session.Current() == nil {
		return fmt.Errorf("%w: run `worknote signin` first", client.ErrNoIdentity)
	}
	return nil
}

// loadTasks refreshes the store for a signed-in user.
func (a *app) loadTasks(ctx context.Context) error {
	if err := a.requireIdentity(); err != nil {
		return err
	}
	return a.store.Refresh(ctx)
}

var errAmbiguousID = errors.New("task id is ambiguous")

// resolveID accepts a full task id or a unique prefix of one.
func resolveID(tasks []task.Task, ref string) (string, error) {
	var match string
	for _, t := range tasks {
		if t.ID == ref {
			return ref, nil
		}
		if len(ref) >= 4 && strings.HasPrefix(t.ID, ref) {
			if match != "" {
				return "", fmt.Errorf("%w: %q", errAmbiguousID, ref)
			}
			match = t.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %q", client.ErrNotFound, ref)
	}
	return match, nil
}
