package server

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	kratoslog "github.com/go-kratos/kratos/v2/log"

	"famnest/pkg/config"
)

// ServerManager 服务器管理器，目前只承载HTTP服务器
type ServerManager struct {
	config     *config.Config
	logger     kratoslog.Logger
	httpServer HTTPServer
}

// NewServerManager 创建服务器管理器
func NewServerManager(cfg *config.Config, logger kratoslog.Logger) *ServerManager {
	return &ServerManager{
		config: cfg,
		logger: logger,
	}
}

// EnableHTTP 启用HTTP服务器
func (sm *ServerManager) EnableHTTP() HTTPServer {
	if sm.httpServer == nil {
		sm.httpServer = NewHTTPServerWrapper(sm.config, sm.logger)
	}
	return sm.httpServer
}

// RegisterHTTPRoutes 注册HTTP路由
func (sm *ServerManager) RegisterHTTPRoutes(registerFunc func(*gin.Engine)) error {
	if sm.httpServer == nil {
		return fmt.Errorf("HTTP server not enabled")
	}
	sm.httpServer.RegisterRoutes(registerFunc)
	return nil
}

// StartAll 启动已启用的服务器
func (sm *ServerManager) StartAll(ctx context.Context) error {
	if sm.httpServer == nil {
		return fmt.Errorf("no server enabled")
	}
	go func() {
		if err := sm.httpServer.Start(ctx); err != nil {
			sm.logger.Log(kratoslog.LevelError, "msg", "HTTP server start failed", "error", err)
		}
	}()
	return nil
}

// StopAll 停止已启用的服务器
func (sm *ServerManager) StopAll(ctx context.Context) error {
	if sm.httpServer == nil {
		return nil
	}
	return sm.httpServer.Stop(ctx)
}
