// Package httpapi exposes the SARK services over HTTP/JSON using gin.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sarkie/sarkie-backend/internal/logging"
	"github.com/sarkie/sarkie-backend/internal/server/config"
	"github.com/sarkie/sarkie-backend/internal/server/metrics"
)

const shutdownTimeout = 10 * time.Second

type HTTPServer struct {
	address string
	cfg     *config.Config
	svc     Services
	metrics *metrics.Metrics
	limiter *keyedLimiter
	logger  logging.Logger
	router  *gin.Engine
}

func NewHTTPServer(cfg *config.Config, l logging.Logger, svc Services, m *metrics.Metrics) *HTTPServer {
	s := &HTTPServer{
		address: cfg.EndpointAddrHTTP,
		cfg:     cfg,
		svc:     svc,
		metrics: m,
		limiter: newKeyedLimiter(cfg.ChatRateLimit, cfg.ChatRateBurst),
		logger:  l.With("module", "http_server"),
	}
	s.router = s.newRouter()
	return s
}

// Handler returns the configured router.
func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

func (s *HTTPServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown", "error", err)
		}
	}()

	go s.limiter.runJanitor(ctx)

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
