// Spirecore plays deterministic deck-building roguelike runs from Lua
// content packs.
// Usage: spirecore [play|bot|validate|version] [flags]
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/nathoo/spirecore/config"
	"github.com/nathoo/spirecore/engine"
	"github.com/nathoo/spirecore/loader"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// rootOptions holds the flags shared by every command.
type rootOptions struct {
	Config  string
	Content string
	Seed    int64
	Verbose bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "spirecore",
		Short:         "Deterministic deck-building roguelike engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.Config, "config", "c", "", "run configuration file (default: built-in run)")
	cmd.PersistentFlags().StringVar(&opts.Content, "content", "", "content pack directory (overrides the config)")
	cmd.PersistentFlags().Int64Var(&opts.Seed, "seed", 0, "run seed (overrides the config)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging on stderr")

	cmd.AddCommand(newPlayCommand(opts))
	cmd.AddCommand(newBotCommand(opts))
	cmd.AddCommand(newValidateCommand())
	cmd.AddCommand(newVersionCommand())

	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "spirecore %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}

// session is a loaded configuration and content pack, ready to start runs.
type session struct {
	cfg     *config.Config
	content *engine.Content
	log     *log.Logger
	runID   string
}

// load resolves the configuration, applies flag overrides, sets up
// logging and loads the content pack.
func load(opts *rootOptions, cmd *cobra.Command) (*session, error) {
	cfg := config.Default()
	if opts.Config != "" {
		var err error
		if cfg, err = config.Load(opts.Config); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = opts.Seed
	}
	if cmd.Flags().Changed("content") {
		cfg.Content = opts.Content
	}

	runID := uuid.NewString()
	logger := newLogger(cmd.ErrOrStderr(), cfg.Level(), opts.Verbose).With("run", runID)
	log.SetDefault(logger)

	content, err := loader.Load(cfg.Content)
	if err != nil {
		return nil, err
	}
	if err := cfg.Check(content); err != nil {
		return nil, err
	}
	logger.Debug("content loaded", "dir", cfg.Content, "cards", len(content.Cards), "monsters", len(content.Monsters))
	return &session{cfg: cfg, content: content, log: logger, runID: runID}, nil
}

func newLogger(w io.Writer, level log.Level, verbose bool) *log.Logger {
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "spirecore",
	})
}

// options returns engine options for a run with the given seed.
func (s *session) options(seed int64) engine.Options {
	opts := s.cfg.Options()
	opts.Seed = seed
	opts.Logger = s.log
	return opts
}
