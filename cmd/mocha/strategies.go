package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List the supported strategies and their default parameters",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-8s %-20s %s\n", "KIND", "NAME", "DEFAULTS")
		for _, kind := range e.engine.Kinds() {
			s, err := e.engine.Build(kind, e.engine.Defaults(kind))
			if err != nil {
				return err
			}
			req := s.RequiredData()
			fmt.Fprintf(out, "%-8s %-20s %s (min %d bars, columns %v)\n",
				kind, s.Name(), s.Params(), req.PriceHistory, req.Columns)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(strategiesCmd)
}
