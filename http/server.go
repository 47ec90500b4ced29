package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pagemark/pagemark"
	"github.com/pagemark/pagemark/pipeline"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SessionHeader carries the caller's session identifier for saved items.
// Sessions are transient; items disappear when the process restarts.
const SessionHeader = "X-Session-ID"

// Server exposes the conversion pipeline, the chat agent, and saved items
// as a JSON API.
type Server struct {
	Pipeline *pipeline.Pipeline
	Chat     pagemark.ChatAgent
	Items    pagemark.ItemService
	Logger   *slog.Logger
	Metrics  *Metrics

	router *gin.Engine
	srv    *http.Server
}

// NewServer wires the routes and returns a server ready to Start.
func NewServer(p *pipeline.Pipeline, chat pagemark.ChatAgent, items pagemark.ItemService, logger *slog.Logger, metrics *Metrics) *Server {
	s := &Server{
		Pipeline: p,
		Chat:     chat,
		Items:    items,
		Logger:   logger,
		Metrics:  metrics,
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	router.GET("/healthz", s.handleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	api.POST("/convert", s.handleConvert)
	api.POST("/chat", s.handleChat)
	api.POST("/items", s.handleCreateItem)
	api.GET("/items", s.handleListItems)
	api.DELETE("/items/:id", s.handleDeleteItem)

	s.router = router
	return s
}

// Handler returns the server's HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves the API on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

type convertRequest struct {
	URL  string `json:"url" binding:"required"`
	Mode string `json:"mode" binding:"required"`
}

func (s *Server) handleConvert(c *gin.Context) {
	var req convertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.Metrics.IncConversion("unknown", "bad_request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "request must include url and mode"})
		return
	}

	mode, err := pagemark.ParseMode(req.Mode)
	if err != nil {
		s.Metrics.IncConversion(req.Mode, "bad_request")
		c.JSON(http.StatusBadRequest, gin.H{"error": pagemark.ErrorMessage(err)})
		return
	}

	begin := time.Now()
	result, err := s.Pipeline.Convert(c.Request.Context(), req.URL, mode)
	s.Metrics.ObserveConvert(time.Since(begin).Seconds())
	if err != nil {
		s.Metrics.IncConversion(string(mode), "error")
		s.logger().Error("conversion failed", "url", req.URL, "mode", mode, "error", err)
		c.JSON(statusForError(err), gin.H{"error": pagemark.ErrorMessage(err)})
		return
	}

	s.Metrics.IncConversion(string(mode), "ok")
	if result.EmptyNormalization {
		s.logger().Warn("forwarded empty normalization result", "url", req.URL, "mode", mode)
	}
	c.JSON(http.StatusOK, result)
}

type chatRequest struct {
	Messages   []pagemark.Message `json:"messages" binding:"required"`
	ContextURL string             `json:"contextUrl"`
}

type chatResponse struct {
	Reply        string `json:"reply"`
	ContextTitle string `json:"contextTitle,omitempty"`
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.Metrics.IncChat("bad_request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "request must include messages"})
		return
	}
	if err := pagemark.ValidateTranscript(req.Messages); err != nil {
		s.Metrics.IncChat("bad_request")
		c.JSON(http.StatusBadRequest, gin.H{"error": pagemark.ErrorMessage(err)})
		return
	}
	if s.Chat == nil {
		s.Metrics.IncChat("unavailable")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "chat agent not configured"})
		return
	}

	var contextTitle, contextDoc string
	if req.ContextURL != "" {
		title, doc, err := s.Pipeline.ChatContext(c.Request.Context(), req.ContextURL)
		if err != nil {
			s.Metrics.IncChat("context_error")
			s.logger().Error("chat context fetch failed", "url", req.ContextURL, "error", err)
			c.JSON(statusForError(err), gin.H{"error": pagemark.ErrorMessage(err)})
			return
		}
		contextTitle, contextDoc = title, doc
	}

	reply, err := s.Chat.Reply(c.Request.Context(), req.Messages, contextDoc)
	if err != nil {
		s.Metrics.IncChat("error")
		s.logger().Error("chat reply failed", "error", err)
		c.JSON(statusForError(err), gin.H{"error": pagemark.ErrorMessage(err)})
		return
	}

	s.Metrics.IncChat("ok")
	c.JSON(http.StatusOK, chatResponse{Reply: reply, ContextTitle: contextTitle})
}

type createItemRequest struct {
	URL      string `json:"url" binding:"required"`
	Title    string `json:"title"`
	Mode     string `json:"mode" binding:"required"`
	Markdown string `json:"markdown"`
}

func (s *Server) handleCreateItem(c *gin.Context) {
	session := c.GetHeader(SessionHeader)
	if session == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-Session-ID header required"})
		return
	}

	var req createItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request must include url and mode"})
		return
	}

	mode, err := pagemark.ParseMode(req.Mode)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": pagemark.ErrorMessage(err)})
		return
	}

	item := &pagemark.SavedItem{
		SessionID: session,
		SourceURL: req.URL,
		Title:     req.Title,
		Mode:      mode,
		Markdown:  req.Markdown,
	}
	if err := s.Items.CreateItem(c.Request.Context(), item); err != nil {
		c.JSON(statusForError(err), gin.H{"error": pagemark.ErrorMessage(err)})
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (s *Server) handleListItems(c *gin.Context) {
	session := c.GetHeader(SessionHeader)
	if session == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-Session-ID header required"})
		return
	}

	items, err := s.Items.FindItemsBySession(c.Request.Context(), session)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": pagemark.ErrorMessage(err)})
		return
	}
	if items == nil {
		items = []*pagemark.SavedItem{}
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (s *Server) handleDeleteItem(c *gin.Context) {
	session := c.GetHeader(SessionHeader)
	if session == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-Session-ID header required"})
		return
	}

	if err := s.Items.DeleteItem(c.Request.Context(), session, c.Param("id")); err != nil {
		c.JSON(statusForError(err), gin.H{"error": pagemark.ErrorMessage(err)})
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		begin := time.Now()
		c.Next()
		s.logger().Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(begin),
		)
	}
}

func (s *Server) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// statusForError maps application error codes onto HTTP status codes.
func statusForError(err error) int {
	switch pagemark.ErrorCode(err) {
	case pagemark.EINVALID:
		return http.StatusBadRequest
	case pagemark.ENOTFOUND:
		return http.StatusNotFound
	case pagemark.ETOOLARGE:
		return http.StatusRequestEntityTooLarge
	case pagemark.EUNAVAILABLE:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
