package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"todocal/internal/config"
	"todocal/internal/logging"
	"todocal/internal/recurrence"
	"todocal/internal/storage"
	"todocal/internal/task"
	"todocal/internal/ui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// globals holds the persistent flags shared by every command.
type globals struct {
	configPath string
	today      string
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:   "todocal",
		Short: "A to-do list with recurring tasks and a calendar",
		Long: `todocal keeps a local to-do list. Tasks may be due once or repeat
daily, weekly or monthly until an end date.

Run without arguments for the interactive view.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), g)
		},
	}
	root.PersistentFlags().StringVar(&g.configPath, "config", "", "config file (default $TODOCAL_CONFIG or the user config dir)")
	root.PersistentFlags().StringVar(&g.today, "today", "", "treat this YYYY-MM-DD as the current day")

	root.AddCommand(
		newListCmd(g),
		newAddCmd(g),
		newDoneCmd(g),
		newClearCmd(g),
		newExportCmd(g),
	)
	return root
}

// env is what a command needs after startup.
type env struct {
	cfg    config.Config
	repo   storage.Repository
	logger *log.Logger
	now    func() time.Time
}

func (e *env) today() recurrence.Date {
	return recurrence.FromTime(e.now())
}

func (e *env) Close() error {
	return e.repo.Close()
}

func loadConfig(g *globals) (config.Config, error) {
	path := g.configPath
	if path == "" {
		path = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// bootstrap opens the configured store and fixes the clock.
func bootstrap(g *globals, cfg config.Config, logger *log.Logger) (*env, error) {
	now, err := clock(g.today)
	if err != nil {
		return nil, err
	}
	repo, err := storage.Open(cfg.StorageOptions(), logger)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	logger.Debug("storage opened", "kind", cfg.Storage)
	return &env{cfg: cfg, repo: repo, logger: logger, now: now}, nil
}

// clock returns time.Now, or a fixed noon on override when one is given.
func clock(override string) (func() time.Time, error) {
	if override == "" {
		return time.Now, nil
	}
	d, err := recurrence.ParseDate(override)
	if err != nil {
		return nil, fmt.Errorf("--today: %w", err)
	}
	fixed := time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.Local)
	return func() time.Time { return fixed }, nil
}

func runTUI(ctx context.Context, g *globals) error {
	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}
	logger, closer, err := logging.OpenFile(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closer.Close()

	e, err := bootstrap(g, cfg, logger)
	if err != nil {
		return err
	}
	defer e.Close()
	logger.Info("starting interactive session", "storage", cfg.Storage)

	return ui.Run(ctx, ui.Options{
		Repo:   e.repo,
		Config: e.cfg,
		Logger: logger,
		Now:    e.now,
	})
}

// mutate loads the state, applies fn and saves the result.
func (e *env) mutate(ctx context.Context, fn func(st *task.State) error) error {
	st, err := e.repo.Load(ctx)
	if err != nil {
		return err
	}
	if err := fn(&st); err != nil {
		return err
	}
	return e.repo.Save(ctx, st)
}
