// Package admin exposes the operational HTTP surface: health, metrics and the
// JWT-protected moderation endpoints. It is thin on purpose: every mutation
// goes through the same domain services the command layer uses.
package admin

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/domain/errs"
	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/service"
	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/session"
)

// Server bundles the admin surface's dependencies.
type Server struct {
	registry *session.Registry
	accounts *service.AccountService
	logger   *zap.Logger
}

// NewServer creates the admin Server.
func NewServer(registry *session.Registry, accounts *service.AccountService, logger *zap.Logger) *Server {
	return &Server{registry: registry, accounts: accounts, logger: logger}
}

// Router builds the gin engine. jwtSecret guards everything under /admin.
func (s *Server) Router(jwtSecret []byte) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	protected := router.Group("/admin", JWTAuth(jwtSecret), RequireRole("admin"))
	{
		protected.GET("/sessions", s.listSessions)
		protected.GET("/sessions/:conn_id", s.getSession)
		protected.POST("/accounts/:id/activate", s.accountTransition(func(c *gin.Context, id uuid.UUID) (bool, error) {
			return s.accounts.Activate(c.Request.Context(), id)
		}))
		protected.POST("/accounts/:id/lock", s.accountTransition(func(c *gin.Context, id uuid.UUID) (bool, error) {
			return s.accounts.Lock(c.Request.Context(), id)
		}))
		protected.POST("/accounts/:id/ban", s.accountTransition(func(c *gin.Context, id uuid.UUID) (bool, error) {
			var body banRequest
			if err := c.ShouldBindJSON(&body); err != nil {
				return false, errs.NewValidation("reason is required")
			}
			return s.accounts.Ban(c.Request.Context(), id, body.Reason)
		}))
		protected.POST("/accounts/:id/suspend", s.accountTransition(func(c *gin.Context, id uuid.UUID) (bool, error) {
			var body suspendRequest
			if err := c.ShouldBindJSON(&body); err != nil {
				return false, errs.NewValidation("reason and duration are required")
			}
			duration, err := time.ParseDuration(body.Duration)
			if err != nil || duration <= 0 {
				return false, errs.NewValidation("duration must be a positive Go duration string")
			}
			return s.accounts.Suspend(c.Request.Context(), id, duration, body.Reason)
		}))
	}
	return router
}

type banRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type suspendRequest struct {
	Reason   string `json:"reason" binding:"required"`
	Duration string `json:"duration" binding:"required"`
}

// sessionView is the read model returned by the session endpoints.
type sessionView struct {
	ConnectionID   uint64    `json:"connection_id"`
	Username       string    `json:"username"`
	ConnectedAt    time.Time `json:"connected_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
	LatencyMS      int64     `json:"latency_ms"`
	Character      string    `json:"character,omitempty"`
}

func viewOf(p *session.Player) sessionView {
	view := sessionView{
		ConnectionID:   p.ConnectionID,
		Username:       p.Username(),
		ConnectedAt:    p.ConnectedAt,
		LastActivityAt: p.LastActivityAt(),
		LatencyMS:      p.Latency().Milliseconds(),
	}
	if selected := p.SelectedCharacter(); selected != nil {
		view.Character = selected.Name
	}
	return view
}

func (s *Server) listSessions(c *gin.Context) {
	players := s.registry.GetAll()
	views := make([]sessionView, 0, len(players))
	for _, p := range players {
		views = append(views, viewOf(p))
	}
	c.JSON(http.StatusOK, gin.H{
		"count":    len(views),
		"sessions": views,
	})
}

func (s *Server) getSession(c *gin.Context) {
	connectionID, err := strconv.ParseUint(c.Param("conn_id"), 10, 64)
	if err != nil {
		s.respondError(c, errs.NewValidation("conn_id must be an unsigned integer"))
		return
	}
	player, ok := s.registry.GetByConnectionID(connectionID)
	if !ok {
		s.respondError(c, errs.ErrSessionNotFound)
		return
	}
	c.JSON(http.StatusOK, viewOf(player))
}

// accountTransition adapts one lifecycle operation into a handler. A policy
// rejection is a 409: the request was well-formed but the state machine
// refused it (and already published the rejection event).
func (s *Server) accountTransition(apply func(*gin.Context, uuid.UUID) (bool, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			s.respondError(c, errs.NewValidation("id must be a UUID"))
			return
		}
		ok, err := apply(c, accountID)
		if err != nil {
			s.respondError(c, err)
			return
		}
		if !ok {
			c.JSON(http.StatusConflict, gin.H{
				"status": "error",
				"error":  gin.H{"message": "transition rejected by account state"},
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func (s *Server) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch errs.CodeOf(err) {
	case errs.CodeValidation:
		status = http.StatusBadRequest
	case errs.CodeNotFound:
		status = http.StatusNotFound
	case errs.CodeConflict:
		status = http.StatusConflict
	case errs.CodeUnauthorized:
		status = http.StatusUnauthorized
	case errs.CodeForbidden:
		status = http.StatusForbidden
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("admin request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{
		"status": "error",
		"error":  gin.H{"message": err.Error()},
	})
}
