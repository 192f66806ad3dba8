package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-cluster/internal/scene"
)

type exportOptions struct {
	format      string
	out         string
	noPositions bool
}

func newExportCmd(root *rootOptions) *cobra.Command {
	opts := exportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the built particle scene as JSON or TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "json", "output format (json, toml)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "-", "output file, - for stdout")
	cmd.Flags().BoolVar(&opts.noPositions, "no-positions", false, "omit per-particle positions")

	return cmd
}

func runExport(cmd *cobra.Command, root *rootOptions, opts exportOptions) error {
	format, err := scene.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	a := newApp(root)
	if err := a.reload(cmd.Context()); err != nil {
		return err
	}
	snap := a.state.Snapshot()

	export := scene.Export(snap.Scene,
		scene.WithSource(snap.Cluster.Source),
		scene.WithPositions(!opts.noPositions),
	)

	var w io.Writer = cmd.OutOrStdout()
	if opts.out != "-" && opts.out != "" {
		f, err := os.Create(opts.out)
		if err != nil {
			return fmt.Errorf("create %s: %w", opts.out, err)
		}
		defer f.Close()
		w = f
	}

	if err := export.Write(w, format); err != nil {
		return fmt.Errorf("write %s export: %w", format, err)
	}
	if opts.out != "-" && opts.out != "" {
		a.logger.Info("Wrote %d containers to %s", len(export.Containers), opts.out)
	}
	return nil
}
