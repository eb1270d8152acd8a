// Package server exposes the pricer over HTTP/JSON for the heatmap front end.
package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MOHTADI05/Black-Scholes-Pricing-Model/internal/data"
	"github.com/MOHTADI05/Black-Scholes-Pricing-Model/internal/logger"
	"github.com/MOHTADI05/Black-Scholes-Pricing-Model/internal/pricing"
)

// MaxGridPoints caps the per-axis resolution a single request may ask for.
const MaxGridPoints = 500

// Handler serves pricing requests.
type Handler struct {
	spots data.SpotProvider
}

// NewHandler returns a handler; spots may be nil, which disables the spot endpoint.
func NewHandler(spots data.SpotProvider) *Handler {
	return &Handler{spots: spots}
}

// NewEngine builds a gin engine with every route registered.
func NewEngine(h *Handler) *gin.Engine {
	e := gin.New()
	e.Use(gin.Recovery(), requestLog())
	e.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
		})
	})
	h.RegisterRoutes(e.Group(""))
	return e
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api/v1")
	{
		api.POST("/pricing/option/price", h.Price)
		api.POST("/pricing/grid", h.Grid)
		api.POST("/pricing/payoff", h.Payoff)
		api.GET("/spot/:ticker", h.Spot)
	}
}

// PriceResponse is the body returned by the price endpoint.
type PriceResponse struct {
	Price     float64 `json:"price"`
	Intrinsic float64 `json:"intrinsic"`
}

// GridRequest sweeps Params over Grid.
type GridRequest struct {
	Params pricing.Params   `json:"params"`
	Grid   pricing.GridSpec `json:"grid"`
}

// PayoffRequest asks for Points samples of the expiry payoff.
type PayoffRequest struct {
	Params pricing.Params `json:"params"`
	Points int            `json:"points"`
}

func (h *Handler) Price(c *gin.Context) {
	var p pricing.Params
	if err := c.ShouldBindJSON(&p); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	price, err := pricing.Price(p)
	if err != nil {
		abortPricing(c, err)
		return
	}
	c.JSON(http.StatusOK, PriceResponse{Price: price, Intrinsic: pricing.Intrinsic(p)})
}

func (h *Handler) Grid(c *gin.Context) {
	var req GridRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	if req.Grid.Points > MaxGridPoints {
		abort(c, http.StatusBadRequest, errors.New("grid points exceed limit"))
		return
	}
	start := time.Now()
	g, err := pricing.EvaluateGrid(req.Params, req.Grid)
	if err != nil {
		abortPricing(c, err)
		return
	}
	logger.Debugf("grid %dx%d evaluated in %v", req.Grid.Points, req.Grid.Points, time.Since(start))
	c.JSON(http.StatusOK, g)
}

func (h *Handler) Payoff(c *gin.Context) {
	var req PayoffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	if req.Points > MaxGridPoints*10 {
		abort(c, http.StatusBadRequest, errors.New("payoff points exceed limit"))
		return
	}
	d, err := pricing.PayoffCurve(req.Params, req.Points)
	if err != nil {
		abortPricing(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) Spot(c *gin.Context) {
	if h.spots == nil {
		abort(c, http.StatusServiceUnavailable, errors.New("no spot provider configured"))
		return
	}
	ticker := data.NormalizeTicker(c.Param("ticker"))
	spot, err := h.spots.Spot(c.Request.Context(), ticker)
	if err != nil {
		logger.Errorf("spot %s: %v", ticker, err)
		abort(c, http.StatusBadGateway, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ticker":   ticker,
		"spot":     spot,
		"provider": h.spots.Name(),
	})
}

// abortPricing maps validation failures to 400 and anything else to 500.
func abortPricing(c *gin.Context, err error) {
	if errors.Is(err, pricing.ErrInvalidParameter) || errors.Is(err, pricing.ErrInvalidGridSpec) {
		abort(c, http.StatusBadRequest, err)
		return
	}
	logger.Errorf("pricing failed: %v", err)
	abort(c, http.StatusInternalServerError, err)
}

func abort(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Slog().Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}
