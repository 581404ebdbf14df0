package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/ailtstruongson-maker/reportbi/internal/api/v1"
	"github.com/ailtstruongson-maker/reportbi/internal/config"
	"github.com/ailtstruongson-maker/reportbi/internal/service/backup"
	"github.com/ailtstruongson-maker/reportbi/internal/service/board"
	"github.com/ailtstruongson-maker/reportbi/internal/store"
)

// Server HTTP服务器
type Server struct {
	cfg    *config.AppConfig
	log    *zap.Logger
	router *gin.Engine
	store  *store.Store
	board  *board.Service
	backup *backup.Manager

	mu   sync.Mutex
	http *http.Server
}

// BoardOptions 由配置构造看板服务参数
func BoardOptions(cfg *config.AppConfig) board.Options {
	opts := board.DefaultOptions()
	opts.Labels = cfg.Parsing.Labels()
	opts.Defaults = board.Defaults{
		MultiplierPercent:  cfg.Targets.MultiplierPercent,
		InstallmentPercent: cfg.Targets.InstallmentPercent,
		ConversionPercent:  cfg.Targets.ConversionPercent,
	}
	opts.TrendThreshold = cfg.Trend.ThresholdPercent
	if cfg.Trend.Workers > 0 {
		opts.SnapshotWorkers = cfg.Trend.Workers
	}
	return opts
}

// NewServer 创建服务器
func NewServer(cfg *config.AppConfig, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		return nil, fmt.Errorf("prepare data dir: %w", err)
	}

	sqliteStore, err := store.New(filepath.Join(dataDir, "reportbi.db"))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Server{
		cfg:    cfg,
		log:    log,
		router: gin.New(),
		store:  sqliteStore,
		board:  board.New(sqliteStore, log.Named("board"), BoardOptions(cfg)),
		backup: backup.NewManager(sqliteStore, filepath.Join(dataDir, "backups"), log.Named("backup")),
	}
	s.setupRoutes()

	return s, nil
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	s.router.Use(gin.Recovery(), s.requestLogger())

	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.router.Group("/api")
	if s.cfg.Data.AutoBackup {
		api.Use(s.autoBackup())
	}
	v1.NewHandler(v1.Deps{
		Board:  s.board,
		Backup: s.backup,
		Logs:   s.store,
		Log:    s.log.Named("api"),
	}).RegisterRoutes(api)

	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
}

// requestLogger 访问日志
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// autoBackup 写操作成功后延迟保存一次备份文件
func (s *Server) autoBackup() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if c.Request.Method == http.MethodGet || c.Writer.Status() >= 400 {
			return
		}
		if strings.HasPrefix(c.Request.URL.Path, "/api/backup") {
			return
		}
		s.backup.ScheduleSave()
	}
}

// Handler 路由（测试用）
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run 启动服务器，直到 Shutdown 被调用
func (s *Server) Run(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	s.http = srv
	s.mu.Unlock()

	s.log.Info("server listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown 停止接收请求，补存尚未执行的自动备份后关闭数据库
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.http
	s.mu.Unlock()

	var errs []error
	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
	}
	if s.backup.Close() {
		if _, err := s.backup.SaveFile(ctx); err != nil {
			errs = append(errs, fmt.Errorf("final backup: %w", err))
		}
	}
	if err := s.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close database: %w", err))
	}
	return errors.Join(errs...)
}
