package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-cluster/internal/cluster"
	"github.com/litescript/ls-cluster/internal/scene"
)

func newBatchesCmd(root *rootOptions) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "batches",
		Short: "List the particle containers the snapshot is split into",
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter *cluster.Category
			if category != "" {
				c, ok := cluster.ParseCategory(category)
				if !ok {
					return fmt.Errorf("unknown category %q (want MainSequence, WhiteDwarf, NeutronStar or BlackHole)", category)
				}
				filter = &c
			}

			a := newApp(root)
			if err := a.reload(cmd.Context()); err != nil {
				return err
			}

			plan := a.state.Snapshot().Plan
			if filter != nil {
				plan = planFor(plan, *filter)
			}
			scene.WritePlan(cmd.OutOrStdout(), plan, a.cfg.MaxBatchSize)
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "only list containers of one category (e.g. WhiteDwarf)")

	return cmd
}

// planFor narrows a plan to one category.
func planFor(p scene.Plan, c cluster.Category) scene.Plan {
	out := scene.Plan{Containers: p.ByCategory(c)}
	for _, cp := range out.Containers {
		out.Particles += cp.Count
	}
	return out
}
