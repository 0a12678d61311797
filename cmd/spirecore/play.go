package main

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/nathoo/spirecore/cli"
	"github.com/nathoo/spirecore/engine"
	"github.com/nathoo/spirecore/engine/replay"
	"github.com/nathoo/spirecore/tui"
)

type playOptions struct {
	Plain  bool
	Script string
	Replay string
	Trace  bool
}

func newPlayCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &playOptions{}

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a run interactively",
		Long: `Play a run interactively.

The run uses the built-in configuration unless --config names a YAML
file. --replay resumes a saved run by replaying its choices first.
--script reads commands from a file and echoes them, for scripted
playthroughs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Plain, "plain", false, "plain line-oriented interface instead of the TUI")
	cmd.Flags().StringVar(&opts.Script, "script", "", "read commands from a file (implies --plain)")
	cmd.Flags().StringVar(&opts.Replay, "replay", "", "replay a saved run before taking input")
	cmd.Flags().BoolVar(&opts.Trace, "trace", false, "show trace entries after each command")

	return cmd
}

func runPlay(rootOpts *rootOptions, opts *playOptions, cmd *cobra.Command) error {
	var rec *replay.Record
	if opts.Replay != "" {
		data, err := os.ReadFile(opts.Replay)
		if err != nil {
			return fmt.Errorf("reading replay: %w", err)
		}
		if rec, err = replay.Load(data); err != nil {
			return err
		}
	}

	s, err := load(rootOpts, cmd)
	if err != nil {
		return err
	}

	seed := s.cfg.Seed
	runID := s.runID
	if rec != nil {
		seed, runID = rec.Seed, rec.RunID
	}
	engOpts := s.options(seed)
	engOpts.Trace = true
	g := engine.New(s.content, engOpts)

	session := cli.NewSession(g, runID)
	session.Trace = opts.Trace
	if rec != nil {
		if err := replay.Replay(g, rec); err != nil {
			return err
		}
		session.Rec.Record.Choices = slices.Clone(rec.Choices)
		s.log.Info("replayed run", "file", opts.Replay, "choices", len(rec.Choices))
	}
	s.log.Info("run start", "seed", seed, "nodes", len(engOpts.Path))

	// Script mode: read the file, force plain, echo commands.
	if opts.Script != "" {
		f, err := os.Open(opts.Script)
		if err != nil {
			return fmt.Errorf("opening script: %w", err)
		}
		defer f.Close()
		c := cli.New(session)
		c.In = f
		c.Out = cmd.OutOrStdout()
		c.EchoInput = true
		c.Run()
		return nil
	}

	// Use the plain CLI if --plain is set or stdout is not a terminal.
	if opts.Plain || !isTerminal() {
		c := cli.New(session)
		c.In = cmd.InOrStdin()
		c.Out = cmd.OutOrStdout()
		c.Run()
		return nil
	}

	// The TUI owns the screen; keep stderr quiet unless asked.
	if !rootOpts.Verbose {
		s.log.SetOutput(io.Discard)
	}
	return tui.Run(session)
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
