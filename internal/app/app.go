package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kjanat/nutricore/internal/rpc"
)

// App wires the Container to an operational HTTP surface (health/status) and
// the stdio RPC transport that serves the Operation Surface.
type App struct {
	container *Container
	server    *http.Server
}

// New creates a new application instance. A configuration panic raised
// while building the container is returned as an error.
func New() (a *App, err error) {
	defer func() {
		if r := recover(); r != nil {
			a, err = nil, fmt.Errorf("create container: %v", r)
		}
	}()
	container, err := NewContainer()
	if err != nil {
		return nil, fmt.Errorf("create container: %w", err)
	}
	return &App{container: container}, nil
}

// Run starts the health/status HTTP server and the stdio RPC loop, blocking
// until SIGINT/SIGTERM, then shuts down gracefully.
func (a *App) Run() error {
	router := a.setupRouter()
	a.server = &http.Server{
		Addr:         ":8080",
		Handler:      router,
		WriteTimeout: a.container.Config.WriteTimeout,
	}

	log := a.container.Logger

	go func() {
		log.Info("health server starting", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("health server failed", zap.Error(err))
		}
	}()

	rpcDone := make(chan error, 1)
	go func() {
		log.Info("rpc transport serving stdio")
		rpcDone <- rpc.Serve(os.Stdin, os.Stdout, a.container.Dispatcher, log)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Info("shutdown signal received")
	case err := <-rpcDone:
		if err != nil {
			log.Warn("rpc transport exited with error", zap.Error(err))
		} else {
			log.Info("rpc transport exited (stdin closed)")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("health server forced to shutdown: %w", err)
	}

	if err := a.container.Cleanup(); err != nil {
		return fmt.Errorf("cleanup resources: %w", err)
	}

	log.Info("process exited")
	return nil
}

// setupRouter configures the thin gin surface: /health and /api/v1/status.
func (a *App) setupRouter() *gin.Engine {
	if a.container.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := a.container.Store.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().Unix()})
	})

	api := router.Group("/api/v1")
	{
		api.GET("/status", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"message":     "nutricore is running",
				"environment": a.container.Config.Environment,
			})
		})
	}

	return router
}
