package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	gincors "github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/teemow/inboxai/internal/command"
	"github.com/teemow/inboxai/internal/instrumentation"
	"github.com/teemow/inboxai/internal/logging"
)

// StatusMessage is the body of GET /.
const StatusMessage = "InboxAI backend running"

// maxBodyBytes caps request bodies; /summarize/email carries whole messages.
const maxBodyBytes = 1 << 20

// Responder answers free-text instructions.
type Responder interface {
	Respond(ctx context.Context, text string) command.Outcome
}

// Summarizer summarizes a message supplied by the caller.
type Summarizer interface {
	SummarizeText(ctx context.Context, sender, subject, body string) (string, error)
}

// RouterDependencies are the collaborators of the HTTP surface.
type RouterDependencies struct {
	Commands    Responder
	Summarizer  Summarizer
	Health      *HealthChecker
	CORSOrigins []string
	Logger      *slog.Logger
	Metrics     *instrumentation.Metrics
}

type commandRequest struct {
	Command string `json:"command" binding:"required"`
}

type summarizeRequest struct {
	Sender  string `json:"sender" binding:"required"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type summarizeResponse struct {
	Summary string `json:"summary"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type handler struct {
	commands   Responder
	summarizer Summarizer
	logger     *slog.Logger
}

// NewRouter creates the gin engine.
func NewRouter(deps RouterDependencies) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestObserver(deps.Logger, deps.Metrics))
	router.Use(gincors.New(corsConfig(deps.CORSOrigins)))

	h := &handler{
		commands:   deps.Commands,
		summarizer: deps.Summarizer,
		logger:     deps.Logger,
	}

	router.GET("/", h.status)
	router.POST("/command", h.command)
	router.POST("/summarize/email", h.summarizeEmail)

	if deps.Health != nil {
		deps.Health.RegisterHealthEndpoints(router)
	}
	return router
}

func corsConfig(origins []string) gincors.Config {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	cfg := gincors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	// Credentials cannot be combined with a wildcard origin.
	for _, origin := range origins {
		if origin == "*" {
			cfg.AllowOrigins = nil
			cfg.AllowAllOrigins = true
			cfg.AllowCredentials = false
			break
		}
	}
	return cfg
}

func (h *handler) status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": StatusMessage})
}

func (h *handler) command(c *gin.Context) {
	var req commandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "request body must be JSON with a non-empty \"command\""})
		return
	}

	c.JSON(http.StatusOK, h.commands.Respond(c.Request.Context(), req.Command))
}

func (h *handler) summarizeEmail(c *gin.Context) {
	var req summarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "request body must be JSON with a non-empty \"sender\""})
		return
	}

	summary, err := h.summarizer.SummarizeText(c.Request.Context(), req.Sender, req.Subject, req.Body)
	if err != nil {
		h.logger.Error("failed to summarize email",
			logging.Sender(req.Sender), logging.Err(err))
		c.JSON(http.StatusBadGateway, errorResponse{Error: "failed to summarize email"})
		return
	}

	c.JSON(http.StatusOK, summarizeResponse{Summary: summary})
}

// requestObserver limits the body size, then logs and records every request.
func requestObserver(logger *slog.Logger, metrics *instrumentation.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		duration := time.Since(start)
		status := c.Writer.Status()

		metrics.RecordHTTPRequest(c.Request.Context(), c.Request.Method, path, status, duration)
		logger.Debug("http request",
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.Int("status", status),
			slog.Duration("duration", duration))
	}
}
