package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nathoo/spirecore/loader"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <content-dir>",
		Short: "Check a content pack without playing it",
		Long: `Load a content pack, check its references and parameters, and print
any warnings. The command fails if the pack has errors.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args[0], cmd)
		},
	}
}

func runValidate(dir string, cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	defs, err := loader.LoadDefs(dir)
	if err != nil {
		return err
	}
	warnings, err := loader.Validate(defs)
	for _, w := range warnings {
		fmt.Fprintf(out, "warning: %s\n", w)
	}
	if err != nil {
		return err
	}
	content, err := loader.Build(defs)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s v%s: %d cards, %d monsters, %d encounters, %d relics, %d potions, %d events\n",
		content.Game.Title, content.Game.Version, len(content.Cards), len(content.Monsters),
		len(content.Encounters), len(content.Relics), len(content.Potions), len(content.Events))
	return nil
}
