package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/diffx-dev/diffx/internal/adapter/cli"
	"github.com/diffx-dev/diffx/internal/adapter/git"
	"github.com/diffx-dev/diffx/internal/config"
	"github.com/diffx-dev/diffx/internal/logging"
	"github.com/diffx-dev/diffx/internal/rangeparse"
	"github.com/diffx-dev/diffx/internal/resolve"
	"github.com/diffx-dev/diffx/internal/tmpref"
	"github.com/diffx-dev/diffx/internal/usecase/target"
	"github.com/diffx-dev/diffx/internal/version"
)

func main() {
	err := run()
	if err != nil && !errors.Is(err, cli.ErrVersionRequested) {
		fmt.Fprintln(os.Stderr, "diffx:", err)
	}
	os.Exit(cli.ExitCode(err))
}

func run() error {
	// Cancellable context with signal handling so fetches abort cleanly
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(config.LoaderOptions{
		ConfigPaths: defaultConfigPaths(),
		FileName:    "diffx",
		EnvPrefix:   "DIFFX",
	})
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	logger, closeLog, err := logging.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return fmt.Errorf("logging setup failed: %w", err)
	}
	defer closeLog()

	repoDir := cfg.Git.RepositoryDir
	if repoDir == "" {
		repoDir = "."
	}

	plumbing := git.NewClient(repoDir)
	engine := git.NewEngine(repoDir)
	resolver := resolve.New(plumbing, tmpref.New(), resolve.Options{
		Logger:      &logger,
		FetchDepth:  cfg.Fetch.Depth,
		DeepenDepth: cfg.Fetch.DeepenDepth,
	})
	service := target.NewService(rangeparse.Parse, resolver, engine, plumbing, logger)

	root := cli.NewRootCommand(cli.Dependencies{
		Shower:       service,
		DefaultColor: cfg.Output.Color,
		Version:      version.Version(),
	})

	return root.ExecuteContext(ctx)
}

func defaultConfigPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "diffx"))
	}
	return paths
}
