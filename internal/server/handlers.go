package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"StockLens/internal/collector"
	"StockLens/internal/edgar"
	"StockLens/internal/model"
)

const defaultNewsLimit = 20

func (s *Server) getHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"cache":  s.CacheName,
		"source": s.Collector.Source(),
	})
}

// getIndicators returns the latest indicator snapshot. An empty history is a
// 404 so the dashboard can show "no data" instead of zeros.
func (s *Server) getIndicators(c *gin.Context) {
	snap, err := s.Collector.Snapshot(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

type seriesResponse struct {
	Indicators *model.IndicatorSeries `json:"indicators"`
	Bars       []model.PriceBar       `json:"bars"`
	Source     string                 `json:"source"`
}

func (s *Server) getSeries(c *gin.Context) {
	ind, bars, err := s.Collector.Series(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, seriesResponse{Indicators: ind, Bars: bars.Bars, Source: bars.Source})
}

func (s *Server) getOverview(c *gin.Context) {
	o, err := s.Collector.Overview(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (s *Server) getNews(c *gin.Context) {
	limit := defaultNewsLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 200 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 200"})
			return
		}
		limit = n
	}
	items, err := s.Collector.News(c.Request.Context(), c.Param("symbol"), limit)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	if items == nil {
		items = []model.NewsItem{}
	}
	c.JSON(http.StatusOK, items)
}

type filingsResponse struct {
	*edgar.Submissions
	Financials *edgar.Financials `json:"financials,omitempty"`
}

func (s *Server) getFilings(c *gin.Context) {
	if s.Edgar == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "filings are not configured"})
		return
	}
	sym, err := collector.NormalizeSymbol(c.Param("symbol"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	cik, err := s.Edgar.LookupCIK(ctx, sym)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	sub, err := s.Edgar.Filings(ctx, cik)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	resp := filingsResponse{Submissions: sub}
	if fin, err := s.Edgar.Facts(ctx, cik); err == nil {
		resp.Financials = fin
	} else {
		s.log.WithField("component", "server").WithField("cik", cik).WithError(err).Warn("company facts unavailable")
	}
	c.JSON(http.StatusOK, resp)
}

// upstreamErrorMessage is the body sent for failures of the data source.
// The wrapped error can carry provider details and stays in the log.
const upstreamErrorMessage = "data source unavailable"

// abortWithError maps domain errors to HTTP status codes.
func (s *Server) abortWithError(c *gin.Context, err error) {
	status, msg := http.StatusBadGateway, upstreamErrorMessage
	switch {
	case errors.Is(err, collector.ErrInvalidSymbol):
		status, msg = http.StatusBadRequest, collector.ErrInvalidSymbol.Error()
	case errors.Is(err, collector.ErrNoData):
		status, msg = http.StatusNotFound, "no data"
	case errors.Is(err, edgar.ErrUnknownTicker):
		status, msg = http.StatusNotFound, edgar.ErrUnknownTicker.Error()
	case errors.Is(err, collector.ErrUnsupported):
		status, msg = http.StatusNotImplemented, collector.ErrUnsupported.Error()
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status, msg = http.StatusGatewayTimeout, "data source timed out"
	}
	if status >= 500 {
		s.log.WithFields(logrus.Fields{
			"component":  "server",
			"request_id": c.GetString("request_id"),
			"path":       c.Request.URL.Path,
		}).WithError(err).Warn("upstream request failed")
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
