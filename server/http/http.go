package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Config struct {
	Address         string        `help:"监听地址" default:"127.0.0.1:8989"`
	ShutdownTimeout time.Duration `help:"优雅关闭等待时间" default:"5s"`
}

type Server struct {
	*gin.Engine
	httpSrv *http.Server
	logger  *zap.Logger
	config  Config
}

func NewServer(engine *gin.Engine, logger *zap.Logger, conf Config) *Server {
	return &Server{
		Engine: engine,
		logger: logger,
		config: conf,
	}
}

// Start 监听并阻塞直到ctx结束或服务出错, ctx结束时优雅关闭
func (s *Server) Start(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, lis)
}

// Serve 在给定的listener上提供服务
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	s.httpSrv = &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("http server start", zap.Stringer("address", lis.Addr()))

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpSrv.Serve(lis)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		return s.Stop(context.Background())
	}
}

func (s *Server) Stop(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	s.logger.Info("Shutting down server...")

	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := s.httpSrv.Shutdown(ctx); err != nil {
		s.logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	s.logger.Info("Server exiting")
	return nil
}
