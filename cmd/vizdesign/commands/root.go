package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iafilius/DataVizDesign/src/config"
	"github.com/iafilius/DataVizDesign/src/pipeline"
	"github.com/iafilius/DataVizDesign/src/vizlog"
)

type app struct {
	configPath string
	logLevel   string
	cfg        *config.Config
	runner     *pipeline.Runner
}

// NewRootCmd builds the command tree. Each call has its own state.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "vizdesign",
		Short:         "Render styled time-series charts from CSV/XLSX data",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "job file (default: built-in charts)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error (overrides config)")

	root.AddCommand(renderCmd(a), dumpCmd(a), listCmd(a))
	return root
}

// Execute runs the CLI with os.Args. Cancelling ctx aborts pending fetches.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

func (a *app) init() error {
	cfg, err := config.LoadAndValidate(a.configPath)
	if err != nil {
		return err
	}
	level := cfg.Runtime.LogLevel
	if a.logLevel != "" {
		level = a.logLevel
	}
	if !vizlog.SetLogLevel(level) {
		return fmt.Errorf("invalid log level %q", level)
	}
	a.cfg = cfg
	a.runner = pipeline.New(cfg)
	vizlog.Debugf("[vizdesign] config %q: %d charts", a.configPath, len(cfg.Charts))
	return nil
}
