package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/yakir1992/todoapp/client"
	"github.com/yakir1992/todoapp/planner"
)

var Version = "dev"

// backend is the server as seen by the CLI.
type backend interface {
	planner.RemoteStore
	planner.IdentityProvider
}

type backendFactory func(cfg Config, tokenPath string, logger *slog.Logger) (backend, error)

func httpBackend(cfg Config, tokenPath string, logger *slog.Logger) (backend, error) {
	c, err := client.New(client.Config{
		BaseURL:   cfg.ServerURL,
		Timeout:   cfg.RequestTimeout(),
		TokenPath: tokenPath,
		UserAgent: AppName + "/" + Version,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCmd(httpBackend, os.Stdout, os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// cli carries what every command needs once the root pre-run has built it.
type cli struct {
	newBackend backendFactory
	out        io.Writer
	errOut     io.Writer
	now        func() time.Time

	configDir  string
	configPath string
	serverURL  string
	days       int
	debug      bool

	cfg     Config
	logger  *slog.Logger
	backend backend
	store   *planner.Store
}

func newRootCmd(newBackend backendFactory, out, errOut io.Writer) *cobra.Command {
	return newCLI(newBackend, out, errOut).rootCmd()
}

func newCLI(newBackend backendFactory, out, errOut io.Writer) *cli {
	return &cli{
		newBackend: newBackend,
		out:        out,
		errOut:     errOut,
		now:        time.Now,
	}
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:               AppName,
		Short:             "A weekly to-do planner",
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		RunE:              c.runWeek,
	}
	root.SetOut(c.out)
	root.SetErr(c.errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&c.configDir, "config-dir", DefaultConfigDir(), "Directory holding config.toml and the session")
	flags.StringVar(&c.serverURL, "server", "", "API base URL (overrides server_url)")
	flags.IntVarP(&c.days, "days", "d", 0, "Days to show: 1, 3, 5 or 7 (overrides day_count)")
	flags.BoolVar(&c.debug, "debug", false, "Log requests and store activity to stderr")

	root.AddCommand(
		c.weekCmd(),
		c.nextCmd(),
		c.prevCmd(),
		c.todayCmd(),
		c.gotoCmd(),
		c.addCmd(),
		c.toggleCmd(),
		c.rmCmd(),
		c.moveCmd(),
		c.colorCmd(),
		c.recurCmd(),
		c.statsCmd(),
		c.loginCmd(),
		c.registerCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.healthCmd(),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	c.configPath = filepath.Join(c.configDir, DefaultConfigFileName)
	cfg, err := LoadOrCreate(c.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if c.serverURL != "" {
		cfg.ServerURL = c.serverURL
	}
	if c.days != 0 {
		cfg.DayCount = c.days
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%s: %w", c.configPath, err)
	}
	c.cfg = cfg

	c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	if c.debug {
		c.logger = slog.New(slog.NewTextHandler(c.errOut, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	b, err := c.newBackend(cfg, filepath.Join(c.configDir, client.TokenFileName), c.logger)
	if err != nil {
		return err
	}
	c.backend = b
	c.store = planner.NewStore(b,
		planner.WithStorage(planner.NewFileStorage(cfg.StatePath)),
		planner.WithClock(c.now),
		planner.WithLogger(c.logger),
	)
	c.logger.Debug("cli ready", "config", c.configPath, "server", cfg.ServerURL, "state", cfg.StatePath)
	return nil
}
