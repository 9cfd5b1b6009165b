// Package httpapi exposes practice interviews over HTTP: history and stats
// endpoints, Prometheus metrics and a WebSocket channel through which a
// browser supplies speech synthesis and recognition for a live session.
package httpapi

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"practice-interview/internal/config"
	"practice-interview/internal/interview"
	"practice-interview/internal/metrics"
	"practice-interview/internal/session"
	"practice-interview/internal/storage"
)

// Deps зависимости маршрутов
type Deps struct {
	Questioner  session.Questioner
	Store       storage.Store
	Metrics     *metrics.Metrics
	Practice    *config.Config
	JWTSecret   string
	CORSOrigins []string
}

type handler struct {
	deps    Deps
	limiter *RateLimiter
}

// NewRouter собирает gin движок со всеми маршрутами
func NewRouter(deps Deps) *gin.Engine {
	if deps.Practice == nil {
		deps.Practice = config.Default()
	}
	h := &handler{
		deps:    deps,
		limiter: NewRateLimiter(deps.Practice.Limits.StartsPerWindow, deps.Practice.StartWindow()),
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	// cors.New паникует на пустом списке источников
	if len(deps.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     deps.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Student-ID", "X-Student-Name", "X-Role"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
		}))
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if deps.Metrics != nil {
		registry := prometheus.NewRegistry()
		registry.MustRegister(deps.Metrics)
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	api := router.Group("/api")
	api.Use(Identify(deps.JWTSecret))
	{
		api.GET("/practice/rounds", h.rounds)
		api.GET("/practice/history", h.history)

		admin := api.Group("/admin")
		admin.Use(RequireRole(RoleAdmin))
		admin.GET("/practice/:studentId", h.adminHistory)
	}

	ws := router.Group("/ws")
	ws.Use(Identify(deps.JWTSecret))
	ws.GET("/practice", h.practiceSocket)

	return router
}

type roundInfo struct {
	Round interview.Round `json:"round"`
	Title string          `json:"title"`
}

func (h *handler) rounds(c *gin.Context) {
	out := []roundInfo{}
	for _, r := range interview.Rounds() {
		out = append(out, roundInfo{Round: r, Title: r.Title()})
	}
	c.JSON(http.StatusOK, gin.H{"rounds": out, "questionCount": h.deps.Practice.GetQuestionCount()})
}

func (h *handler) history(c *gin.Context) {
	h.writeHistory(c, identityFrom(c).StudentID)
}

func (h *handler) adminHistory(c *gin.Context) {
	h.writeHistory(c, c.Param("studentId"))
}

func (h *handler) writeHistory(c *gin.Context, studentID string) {
	if h.deps.Store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Storage is not configured"})
		return
	}
	records, err := h.deps.Store.ListSessions(c.Request.Context(), studentID)
	if err != nil {
		log.Printf("История %s: %v", studentID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load practice history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"records": records,
		"stats":   interview.ComputeStats(records),
	})
}
