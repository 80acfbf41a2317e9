package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/rushteam/barkeep/core"
	"github.com/rushteam/barkeep/engine"
	"github.com/rushteam/barkeep/pkg/logging"
	"github.com/rushteam/barkeep/recall"
	"github.com/rushteam/barkeep/store"
)

// RecommendOptions 是 recommend 子命令的参数。
type RecommendOptions struct {
	Catalogs  []string
	Inventory string
	History   string
	Modes     []string
	At        string
	Force     bool
}

// NewRecommendCommand 计算并输出推荐列表。
func NewRecommendCommand(root *RootOptions) *cobra.Command {
	opts := &RecommendOptions{}

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Compute ranked recommendations for every mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecommend(cmd, root, opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Catalogs, "catalog", nil, "catalog JSON file(s), merged in order")
	cmd.Flags().StringVar(&opts.Inventory, "inventory", "", "inventory JSON file (array of ingredient names)")
	cmd.Flags().StringVar(&opts.History, "history", "", "history JSON file")
	cmd.Flags().StringSliceVar(&opts.Modes, "mode", nil, "modes to print (default: all)")
	cmd.Flags().StringVar(&opts.At, "at", "", "RFC3339 timestamp to recommend for (default: now)")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "recompute even if refreshed today")
	_ = cmd.MarkFlagRequired("catalog")
	return cmd
}

func runRecommend(cmd *cobra.Command, root *RootOptions, opts *RecommendOptions) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	at, err := parseAt(opts.At, loc)
	if err != nil {
		return err
	}

	modes := core.AllModes()
	if len(opts.Modes) > 0 {
		modes = modes[:0]
		for _, s := range opts.Modes {
			m, err := core.ParseMode(s)
			if err != nil {
				return fmt.Errorf("--mode %q: %w", s, err)
			}
			modes = append(modes, m)
		}
	}

	s, err := store.Open(store.Backend(cfg.Store.Backend), cfg.Store.RedisAddr, cfg.Store.RedisDB)
	if err != nil {
		return err
	}
	if s != nil {
		defer s.Close()
	}

	engineOpts, err := engine.OptionsFromConfig(cfg, s)
	if err != nil {
		return err
	}

	sources := make([]recall.Source, 0, len(opts.Catalogs))
	for _, path := range opts.Catalogs {
		sources = append(sources, recall.NewFileCatalog(path))
	}
	engineOpts = append(engineOpts,
		engine.WithLogger(logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: os.Stderr})),
		engine.WithClock(func() time.Time { return at }),
		engine.WithCatalog(&recall.Fanout{Sources: sources, Timeout: 10 * time.Second}),
	)
	if opts.Inventory != "" {
		engineOpts = append(engineOpts, engine.WithInventory(recall.FileInventory{Path: opts.Inventory}))
	}
	if opts.History != "" {
		engineOpts = append(engineOpts, engine.WithHistory(recall.FileHistory{Path: opts.History}))
	}

	e, err := engine.New(engineOpts...)
	if err != nil {
		return err
	}
	snap, err := e.Generate(cmd.Context(), opts.Force)
	if err != nil {
		return err
	}
	return printSnapshot(cmd, root.Format, snap, modes)
}

func printSnapshot(cmd *cobra.Command, format string, snap *core.Snapshot, modes []core.Mode) error {
	out := cmd.OutOrStdout()
	if format == "json" {
		lists := make(map[core.Mode][]core.Recommendation, len(modes))
		for _, m := range modes {
			lists[m] = snap.Get(m)
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(&core.Snapshot{
			RunID:       snap.RunID,
			RefreshedAt: snap.RefreshedAt,
			Situation:   snap.Situation,
			Lists:       lists,
		})
	}

	fmt.Fprintf(out, "%s %s, %s (refreshed %s)\n",
		snap.Situation.DayOfWeek, snap.Situation.TimeOfDay, snap.Situation.Season,
		snap.RefreshedAt.Format(time.RFC3339))
	for _, m := range modes {
		fmt.Fprintf(out, "\n[%s]\n", m)
		list := snap.Get(m)
		if len(list) == 0 {
			fmt.Fprintln(out, "  (none)")
			continue
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		for i, rec := range list {
			fmt.Fprintf(tw, "  %d.\t%s\t%.1f\t%s\n", i+1, rec.Name, rec.Score, rec.Reason)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}
