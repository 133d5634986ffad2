package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/opdss/eventbus/eventbus"
	"github.com/opdss/eventbus/scenario"
)

type runConfig struct {
	Policy string `help:"失败策略[fail-fast|skip-topic|skip-event], 场景文件中的policy优先" default:"fail-fast"`
}

var runCfg runConfig

func cmdRun(cmd *cobra.Command, args []string) error {
	s := scenario.Demo()
	if len(args) == 1 {
		var err error
		if s, err = scenario.Load(args[0]); err != nil {
			return err
		}
	}

	policyName := runCfg.Policy
	if s.Policy != "" {
		policyName = s.Policy
	}
	policy, err := eventbus.ParsePolicy(policyName)
	if err != nil {
		return err
	}

	bus := eventbus.New(eventbus.WithPolicy(policy), eventbus.WithLogger(zap.L()))
	report, err := s.Run(bus, cmd.OutOrStdout())
	printReport(cmd, report)
	return err
}

func printReport(cmd *cobra.Command, report eventbus.Report) {
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "delivered: %d, dropped: %d, failures: %d\n",
		report.Delivered, report.DroppedCount(), len(report.Failures))
	for _, f := range report.Failures {
		_, _ = fmt.Fprintf(out, "  %s %s %s: %v (skipped %d)\n", f.Topic, f.Stage, f.Listener, f.Err, f.Skipped)
	}
}
