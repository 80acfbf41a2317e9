package main

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/rushteam/barkeep/core"
)

// NewContextCommand 输出某个时间点的情境（时段、星期、季节）。
func NewContextCommand(root *RootOptions) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "context",
		Short: "Show the situational context used for scoring",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			loc, err := cfg.Location()
			if err != nil {
				return err
			}
			t, err := parseAt(at, loc)
			if err != nil {
				return err
			}
			sit := core.ResolveSituation(t)

			out := cmd.OutOrStdout()
			if root.Format == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(sit)
			}
			_, err = fmt.Fprintf(out, "time of day: %s\nday of week: %s\nseason:      %s\n",
				sit.TimeOfDay, sit.DayOfWeek, sit.Season)
			return err
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "RFC3339 timestamp (default: now)")
	return cmd
}
