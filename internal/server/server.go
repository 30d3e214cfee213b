// Package server exposes indicator snapshots and company data over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"StockLens/internal/collector"
	"StockLens/internal/edgar"
	"StockLens/internal/metrics"
)

// Server wires the HTTP routes to the collector and the EDGAR client.
type Server struct {
	Collector  *collector.Collector
	Edgar      *edgar.Client // optional
	CacheName  string
	CORSOrigin string

	log     *logrus.Logger
	metrics *metrics.Metrics
	engine  *gin.Engine
	http    *http.Server
}

// New builds the gin engine and registers all routes.
func New(col *collector.Collector, ed *edgar.Client, cacheName, corsOrigin string, log *logrus.Logger, m *metrics.Metrics) *Server {
	if !log.IsLevelEnabled(logrus.DebugLevel) {
		gin.SetMode(gin.ReleaseMode)
	}
	if m == nil {
		m = metrics.New()
	}

	s := &Server{
		Collector:  col,
		Edgar:      ed,
		CacheName:  cacheName,
		CORSOrigin: corsOrigin,
		log:        log,
		metrics:    m,
		engine:     gin.New(),
	}

	s.engine.Use(gin.Recovery(), requestID(), s.accessLog(), cors(corsOrigin))
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.engine.GET("/api/health", s.getHealth)
	s.engine.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	stocks := s.engine.Group("/api/stocks/:symbol")
	stocks.GET("/indicators", s.getIndicators)
	stocks.GET("/series", s.getSeries)
	stocks.GET("/overview", s.getOverview)
	stocks.GET("/news", s.getNews)
	stocks.GET("/filings", s.getFilings)
}

// Handler returns the root handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Start listens on addr and blocks until the server stops. It returns nil
// after a graceful Shutdown.
func (s *Server) Start(addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.WithFields(logrus.Fields{"component": "server", "addr": addr}).Info("starting HTTP server")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	s.log.WithField("component", "server").Info("shutting down HTTP server")
	return s.http.Shutdown(ctx)
}
