package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/agri365/agri365/internal/bootstrap"
	"github.com/agri365/agri365/internal/config"
	"github.com/agri365/agri365/internal/core"
	"github.com/agri365/agri365/internal/core/model"
	"github.com/agri365/agri365/internal/logging"
	"github.com/agri365/agri365/internal/market"
)

const version = "1.0.0"

type Server struct {
	Matcher *core.Matcher
	Market  *market.Service
	Config  *config.Config
	log     *zap.Logger
}

// NewServer loads the catalog and builds every component from cfg.
func NewServer(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Server, error) {
	c, err := bootstrap.OpenCatalog(ctx, cfg, logging.Component(log, "catalog"))
	if err != nil {
		return nil, err
	}
	return New(
		bootstrap.NewMatcher(c, cfg, logging.Component(log, "search")),
		bootstrap.NewMarketService(cfg, logging.Component(log, "market")),
		cfg, log), nil
}

func New(m *core.Matcher, ms *market.Service, cfg *config.Config, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg == nil {
		cfg = config.Default()
	}
	return &Server{Matcher: m, Market: ms, Config: cfg, log: log}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(
		RequestID(),
		AccessLog(s.log),
		Recovery(s.log),
		CORS(),
	)
	if s.Config.Server.RateLimit > 0 {
		r.Use(RateLimit(s.Config.Server.RateLimit, s.Config.Server.RateBurst))
	}

	r.GET("/", s.Info)
	r.GET("/healthz", s.Health)

	api := r.Group("/api")
	api.POST("/search", s.Search)
	api.GET("/catalog", s.ListCatalog)
	api.GET("/pests", s.ListPests)
	api.GET("/pests/:name", s.GetPest)
	api.GET("/market-prices", s.MarketPrices)
	api.GET("/market-prices/commodity/:name", s.CommodityPrices)

	r.NoRoute(func(c *gin.Context) {
		fail(c, http.StatusNotFound, "Endpoint not found")
	})

	return r
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

func (s *Server) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to Agri365 API Server",
		"version": version,
		"endpoints": gin.H{
			"search":       "/api/search",
			"catalog":      "/api/catalog",
			"pests":        "/api/pests",
			"pestByName":   "/api/pests/:name",
			"marketPrices": "/api/market-prices",
			"commodity":    "/api/market-prices/commodity/:name",
		},
	})
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "entries": s.Matcher.Catalog.Len()})
}

type SearchRequest struct {
	Query string `json:"query"`
}

type SearchResponse struct {
	Success   bool                `json:"success"`
	Data      []model.ScoredEntry `json:"data"`
	Algorithm string              `json:"algorithm"`
}

func (s *Server) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Query required")
		return
	}

	results, err := s.Matcher.Search(c.Request.Context(), req.Query)
	if err != nil {
		if errors.Is(err, core.ErrInvalidRequest) {
			fail(c, http.StatusBadRequest, "Query required")
			return
		}
		s.log.Error("search failed", zap.String(logging.FieldQuery, req.Query), zap.Error(err))
		fail(c, http.StatusInternalServerError, "Search failed")
		return
	}

	c.JSON(http.StatusOK, SearchResponse{Success: true, Data: results, Algorithm: core.Algorithm})
}

func (s *Server) ListCatalog(c *gin.Context) {
	raw := c.Query("type")
	if raw == "" {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": s.Matcher.Catalog.Entries()})
		return
	}
	t, ok := model.ParseEntryType(raw)
	if !ok {
		fail(c, http.StatusBadRequest, "Unknown entry type")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": nonNil(s.Matcher.Catalog.ByType(t))})
}

func (s *Server) ListPests(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": nonNil(s.Matcher.Catalog.ByType(model.TypePest))})
}

func (s *Server) GetPest(c *gin.Context) {
	e, ok := s.Matcher.Catalog.FindType(model.TypePest, c.Param("name"))
	if !ok {
		fail(c, http.StatusNotFound, "Pest not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": e})
}

type PriceResponse struct {
	Success bool `json:"success"`
	model.PriceReport
}

func (s *Server) MarketPrices(c *gin.Context) {
	filter := model.PriceFilter{
		State:  strings.TrimSpace(c.Query("state")),
		Market: strings.TrimSpace(c.Query("market")),
	}
	report := s.Market.Prices(c.Request.Context(), filter)
	c.JSON(http.StatusOK, PriceResponse{Success: true, PriceReport: report})
}

func (s *Server) CommodityPrices(c *gin.Context) {
	name := c.Param("name")
	state := strings.TrimSpace(c.Query("state"))

	report, err := s.Market.ByCommodity(c.Request.Context(), name, state)
	if err != nil {
		s.log.Error("error fetching commodity prices", zap.String("commodity", name), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to fetch commodity prices",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"data":      report.Data,
		"source":    report.Source,
		"timestamp": report.Timestamp,
		"commodity": name,
		"state":     report.Filters.State,
	})
}

func nonNil(entries []model.CatalogEntry) []model.CatalogEntry {
	if entries == nil {
		return []model.CatalogEntry{}
	}
	return entries
}
