package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/opdss/eventbus/process"
)

type logging struct {
	Log process.LogConfig
}

var (
	rootCmd = &cobra.Command{
		Use:           "eventbus",
		Short:         "in-process publish/subscribe dispatcher",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	runCmd = &cobra.Command{
		Use:   "run [scenario.yaml]",
		Short: "run a scenario file, or the built-in demo, through a bus",
		Args:  cobra.MaximumNArgs(1),
		RunE:  cmdRun,
	}
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "serve a bus over an admin http api",
		Args:  cobra.NoArgs,
		RunE:  cmdServe,
	}

	logCfg logging
)

func init() {
	rootCmd.AddCommand(runCmd, serveCmd)
	for _, cmd := range []*cobra.Command{runCmd, serveCmd} {
		cmd.Flags().String("config-dir", "", "directory holding "+process.DefaultCfgFilename)
		process.Bind(cmd, &logCfg)
	}
	process.Bind(runCmd, &runCfg)
	process.Bind(serveCmd, &serveCfg)
}

func main() {
	process.ExecWithOptions(rootCmd, process.ExecOptions{
		LoadConfig: process.LoadConfig,
		NewLogger: func() (*zap.Logger, error) {
			return process.NewLogger(logCfg.Log)
		},
	})
}
