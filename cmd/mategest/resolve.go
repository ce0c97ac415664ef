package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/mategest/internal/assessment"
)

func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve LABEL...",
		Short: "Show which competency a printed label maps to",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			label := strings.Join(args, " ")
			id, tier, ok := assessment.Resolve(label)
			if !ok {
				return fmt.Errorf("no competency matches %q", label)
			}
			info, _ := assessment.Lookup(id)
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", id, tier, info.DisplayName)
			return nil
		},
	}
}
