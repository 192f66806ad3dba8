package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/litescript/ls-cluster/internal/cluster"
	"github.com/litescript/ls-cluster/internal/state"
)

type summaryOptions struct {
	unrecognized int
	events       int
	watch        bool
}

func newSummaryCmd(root *rootOptions) *cobra.Command {
	opts := summaryOptions{}

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print per-category star counts, mass and batches",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(cmd, root, opts)
		},
	}

	cmd.Flags().IntVar(&opts.unrecognized, "unrecognized", 10, "list up to N rows with unrecognized type codes")
	cmd.Flags().IntVar(&opts.events, "events", 0, "print the last N load events")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-print whenever the data file changes")

	return cmd
}

func runSummary(cmd *cobra.Command, root *rootOptions, opts summaryOptions) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	a := newApp(root)

	err := a.reload(ctx)
	if !opts.watch {
		if err != nil {
			return err
		}
		printSummary(out, a.state.Snapshot(), opts, a.state.RecentEvents(opts.events))
		return nil
	}

	// A failed load does not stop the watch.
	if err != nil {
		fmt.Fprintf(out, "Load failed: %v\n", err)
	} else {
		printSummary(out, a.state.Snapshot(), opts, a.state.RecentEvents(opts.events))
	}

	w, err := a.startWatcher()
	if err != nil {
		return err
	}
	defer w.Stop()

	fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", w.File)
	a.watchLoop(ctx, w, func(snap state.Snapshot, err error) {
		fmt.Fprintln(out)
		if err != nil {
			fmt.Fprintf(out, "Load failed: %v\n", err)
			return
		}
		printSummary(out, snap, opts, a.state.RecentEvents(opts.events))
	})
	return nil
}

func printSummary(w io.Writer, snap state.Snapshot, opts summaryOptions, events []state.Event) {
	fmt.Fprintf(w, "Source: %s (%s stars, loaded in %v)\n\n",
		snap.Cluster.Source,
		humanize.Comma(int64(len(snap.Cluster.Stars))),
		snap.LoadDuration.Round(time.Microsecond))

	cluster.WriteSummaryTable(w, snap.Summary)

	if opts.unrecognized > 0 && snap.Buckets.UnrecognizedCount() > 0 {
		fmt.Fprintln(w)
		cluster.WriteUnrecognized(w, snap.Cluster, snap.Buckets, opts.unrecognized)
	}

	if opts.events > 0 {
		fmt.Fprintln(w)
		state.WriteEvents(w, events, opts.events)
	}
}
