package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ottoverify/otto/internal/model"
	"github.com/ottoverify/otto/internal/pipeline"
	"github.com/ottoverify/otto/internal/quota"
)

// Server is the thin HTTP boundary over the verification pipeline. It
// only maps refusal statuses to HTTP codes; all verification logic
// stays in the pipeline.
type Server struct {
	engine   *gin.Engine
	pipeline *pipeline.Pipeline
	logger   *zap.Logger
}

// New creates a server and registers its routes
func New(p *pipeline.Pipeline, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		engine:   engine,
		pipeline: p,
		logger:   logger,
	}

	engine.GET("/healthz", s.health)
	api := engine.Group("/api")
	{
		api.POST("/verify", s.verify)
		api.GET("/quota/:account", s.quota)
	}
	return s
}

// Run blocks serving HTTP on the given address
func (s *Server) Run(addr string) error {
	s.logger.Info("http server listening", zap.String("addr", addr))
	return s.engine.Run(addr)
}

// Handler exposes the router, for tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// verify handles POST /api/verify
func (s *Server) verify(c *gin.Context) {
	var req model.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Request body must be JSON with account_id and text",
			},
		})
		return
	}
	if req.AccountID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_ACCOUNT",
				"message": "account_id is required",
			},
		})
		return
	}

	resp, err := s.pipeline.Verify(c.Request.Context(), req)
	if err != nil {
		s.logger.Error("verification failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Verification could not be completed",
			},
		})
		return
	}

	switch resp.Status {
	case model.StatusInvalidInput:
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_INPUT",
				"message": "Text is empty or below the minimum length",
			},
			"data": resp,
		})
	case model.StatusLimitReached:
		c.JSON(http.StatusTooManyRequests, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "LIMIT_REACHED",
				"message": "Daily verification limit reached",
			},
			"data": resp,
		})
	default:
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    resp,
		})
	}
}

// quota handles GET /api/quota/:account
func (s *Server) quota(c *gin.Context) {
	accountID := c.Param("account")

	snapshot, err := s.pipeline.Quota(c.Request.Context(), accountID)
	if errors.Is(err, quota.ErrAccountNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ACCOUNT_NOT_FOUND",
				"message": "No quota record for this account",
			},
		})
		return
	}
	if err != nil {
		s.logger.Error("quota lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Quota could not be read",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    snapshot,
	})
}
