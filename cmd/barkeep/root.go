package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rushteam/barkeep/config"
)

// RootOptions 是全局参数。
type RootOptions struct {
	ConfigFile string
	Format     string // text | json
}

// ValidFormats 是支持的输出格式。
var ValidFormats = []string{"text", "json"}

// NewRootCommand 创建根命令。
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "barkeep",
		Short:         "Cocktail recommendations from your cabinet and history",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			for _, f := range ValidFormats {
				if f == opts.Format {
					return nil
				}
			}
			return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "engine config file (yaml)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewRecommendCommand(opts))
	cmd.AddCommand(NewContextCommand(opts))
	return cmd
}

func (o *RootOptions) loadConfig() (*config.EngineConfig, error) {
	return config.LoadEngineConfig(o.ConfigFile)
}

func parseAt(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Now().In(loc), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --at %q: %w", s, err)
	}
	return t.In(loc), nil
}
