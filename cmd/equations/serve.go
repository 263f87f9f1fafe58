package main

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/zephyrtronium/equations"
)

type evalRequest struct {
	Equation  string             `json:"equation" binding:"required"`
	Variables map[string]float64 `json:"variables"`
}

type evalResponse struct {
	Equation string `json:"equation"`
	// Result is a number, or a string for infinities and NaN.
	Result any `json:"result"`
}

type evalHandler struct {
	grammar   *equations.Grammar
	maxLength int
}

// limitDepth applies the server's depth limit to g unless the grammar
// config sets its own.
func (c *Config) limitDepth(g *equations.Grammar) {
	if c.Grammar.MaxDepth <= 0 && c.Server.MaxDepth > 0 {
		g.MaxDepth(c.Server.MaxDepth)
	}
}

// newRouter creates the HTTP handler for -serve. With no allowed origins,
// every origin is allowed. A MaxLength of zero or less means no limit.
func newRouter(g *equations.Grammar, c ServerConfig) *gin.Engine {
	origins := c.AllowOrigins
	router := gin.Default()
	cc := cors.Config{
		AllowMethods: []string{"POST", "GET"},
		AllowHeaders: []string{"Origin", "Content-Type", "Content-Length"},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = origins
	}
	router.Use(cors.New(cc))

	h := &evalHandler{grammar: g, maxLength: c.MaxLength}
	router.GET("/", healthCheck)
	v1 := router.Group("/v1")
	v1.POST("/evaluate", h.evaluate)
	return router
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *evalHandler) evaluate(c *gin.Context) {
	var req evalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if h.maxLength > 0 && len(req.Equation) > h.maxLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "equation longer than " + strconv.Itoa(h.maxLength) + " bytes"})
		return
	}
	g := h.grammar.Clone()
	for k, v := range req.Variables {
		if strings.TrimSpace(k) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "empty variable name"})
			return
		}
		g.Variable(k, v)
	}
	e, err := g.Compile(req.Equation)
	if err != nil {
		slog.Debug("rejected equation", slog.String("equation", req.Equation), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	r := e.Eval()
	resp := evalResponse{Equation: e.Source(), Result: r}
	if math.IsInf(r, 0) || math.IsNaN(r) {
		resp.Result = strconv.FormatFloat(r, 'g', -1, 64)
	}
	c.JSON(http.StatusOK, resp)
}
