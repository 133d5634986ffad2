package main

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/opdss/eventbus/eventbus"
	"github.com/opdss/eventbus/process"
	"github.com/opdss/eventbus/server/http"
)

type serveConfig struct {
	Policy string `help:"失败策略[fail-fast|skip-topic|skip-event]" default:"fail-fast"`
	Server http.Config
}

var serveCfg serveConfig

func cmdServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := process.Ctx(cmd)
	defer cancel()

	policy, err := eventbus.ParsePolicy(serveCfg.Policy)
	if err != nil {
		return err
	}
	logger := zap.L()
	bus := eventbus.New(eventbus.WithPolicy(policy), eventbus.WithLogger(logger.Named("bus")))

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	http.NewBusHandler(bus, cmd.OutOrStdout(), logger).Routes(engine)

	return http.NewServer(engine, logger.Named("http"), serveCfg.Server).Start(ctx)
}
