package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nathoo/spirecore/bot"
	"github.com/nathoo/spirecore/engine"
	"github.com/nathoo/spirecore/engine/replay"
)

type botOptions struct {
	Runs     int
	MaxSteps int
	Record   string
}

func newBotCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &botOptions{}

	cmd := &cobra.Command{
		Use:   "bot",
		Short: "Play runs with a random bot",
		Long: `Play runs with a bot that picks uniformly among the legal steps.

Run i uses seed+i for both the game and the bot, so every run is
reproducible. A run that hits the step limit or trips an engine check
is reported and makes the command fail.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBot(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Runs, "runs", "n", 1, "number of runs")
	cmd.Flags().IntVar(&opts.MaxSteps, "max-steps", 20000, "step limit per run")
	cmd.Flags().StringVar(&opts.Record, "record", "", "write the replay of the last run to this file")

	return cmd
}

func runBot(rootOpts *rootOptions, opts *botOptions, cmd *cobra.Command) error {
	if opts.Runs < 1 {
		return fmt.Errorf("--runs must be at least 1")
	}
	s, err := load(rootOpts, cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var (
		wins, failures int
		last           *replay.Recorder
	)
	for i := 0; i < opts.Runs; i++ {
		seed := s.cfg.Seed + int64(i)
		g := engine.New(s.content, s.options(seed))
		rec := replay.NewRecorder(g, fmt.Sprintf("%s-%d", s.runID, i))
		outcome, n, err := bot.New(seed).Play(rec, opts.MaxSteps)
		last = rec
		if err != nil {
			failures++
			s.log.Error("bot run failed", "seed", seed, "err", err)
			fmt.Fprintf(out, "run %d (seed %d): error after %d steps: %v\n", i+1, seed, n, err)
			continue
		}
		if outcome == engine.Victory {
			wins++
		}
		fmt.Fprintf(out, "run %d (seed %d): %s on floor %d after %d steps\n", i+1, seed, outcome, g.Floor, n)
	}
	fmt.Fprintf(out, "%d/%d victories\n", wins, opts.Runs)

	if opts.Record != "" && last != nil {
		data, err := replay.Save(&last.Record)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.Record, data, 0o644); err != nil {
			return fmt.Errorf("writing replay: %w", err)
		}
	}
	if failures > 0 {
		return fmt.Errorf("bot: %d of %d runs failed", failures, opts.Runs)
	}
	return nil
}
