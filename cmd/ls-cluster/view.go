package main

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/litescript/ls-cluster/internal/state"
	"github.com/litescript/ls-cluster/internal/ui"
)

type viewOptions struct {
	watch   bool
	spin    bool
	cluster bool
}

func newViewCmd(root *rootOptions) *cobra.Command {
	opts := viewOptions{}

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Open the interactive dashboard and 3D cluster view",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd, root, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "reload when the data file changes")
	cmd.Flags().BoolVar(&opts.spin, "spin", false, "start the cluster view rotating")
	cmd.Flags().BoolVar(&opts.cluster, "cluster", false, "open on the cluster view")

	return cmd
}

func runView(cmd *cobra.Command, root *rootOptions, opts viewOptions) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	a := newApp(root)

	// Log lines would tear the alternate screen.
	a.logger.SetOutput(io.Discard)
	defer a.logger.SetOutput(cmd.ErrOrStderr())

	// A failed first load still opens the UI; the footer shows the error
	// and r retries.
	loadErr := a.reload(ctx)

	watching := opts.watch || a.cfg.Watch.Enabled
	uiOpts := []ui.Option{
		ui.WithReload(func() error { return a.reload(ctx) }),
		ui.WithWatching(watching),
		ui.WithCamera(a.cfg.View.Azimuth, a.cfg.View.Elevation),
		ui.WithSpin(opts.spin || a.cfg.View.Spin),
	}
	if opts.cluster {
		uiOpts = append(uiOpts, ui.WithView(ui.ViewCluster))
	}

	p := tea.NewProgram(ui.New(a.state, uiOpts...), tea.WithAltScreen(), tea.WithContext(ctx))

	if loadErr != nil {
		go p.Send(ui.ErrorMsg{Error: loadErr})
	}

	if watching {
		w, err := a.startWatcher()
		if err != nil {
			return err
		}
		defer w.Stop()

		go a.watchLoop(ctx, w, func(snap state.Snapshot, err error) {
			if err != nil {
				p.Send(ui.ErrorMsg{Error: err})
				return
			}
			p.Send(ui.DataUpdateMsg{Snapshot: snap})
		})
	}

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("run UI: %w", err)
	}
	return nil
}
