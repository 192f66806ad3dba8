package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/litescript/ls-cluster/internal/config"
	"github.com/litescript/ls-cluster/internal/logging"
	"github.com/litescript/ls-cluster/internal/version"
)

// rootOptions holds what the persistent pre-run resolves for subcommands.
type rootOptions struct {
	cfgFile string
	cfg     config.Config
	logger  *logging.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:     "ls-cluster",
		Short:   "Star cluster snapshot to particle layout",
		Long:    "ls-cluster reads a star cluster CSV snapshot, sorts stars into main sequence, white dwarf, neutron star and black hole particle systems, and splits each into containers of at most one million particles.",
		Version: version.Version,

		SilenceUsage: true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},

		// Interactive terminals get the viewer, pipes get the summary table.
		RunE: func(cmd *cobra.Command, args []string) error {
			if term.IsTerminal(int(os.Stdout.Fd())) {
				return runView(cmd, opts, viewOptions{})
			}
			return runSummary(cmd, opts, summaryOptions{unrecognized: 10})
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.cfgFile, "config", "", "config file (default .ls-cluster.toml)")
	pf.String("data", "", "cluster snapshot CSV (default \""+config.DefaultDataPath+"\")")
	pf.Int("max-batch", 0, "maximum particles per container (1..1000000)")
	pf.String("log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		newSummaryCmd(opts),
		newExportCmd(opts),
		newBatchesCmd(opts),
		newViewCmd(opts),
	)

	return root
}

// init loads configuration with flags taking precedence over the config
// file and environment.
func (o *rootOptions) init(cmd *cobra.Command) error {
	flags := cmd.Flags()
	bindings := map[string]string{
		"data_path":      "data",
		"max_batch_size": "max-batch",
		"log_level":      "log-level",
	}
	for key, name := range bindings {
		if f := flags.Lookup(name); f != nil && f.Changed {
			if err := viper.BindPFlag(key, f); err != nil {
				return fmt.Errorf("bind --%s: %w", name, err)
			}
		}
	}

	if err := config.Init(o.cfgFile); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	o.cfg = cfg

	o.logger = logging.NewWithWriter(cfg.Level(), cmd.ErrOrStderr())
	o.logger.Debug("Config: data=%s max_batch=%d", cfg.DataPath, cfg.MaxBatchSize)
	return nil
}
