package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jaxxstorm/netdiag/internal/model"
	"go.uber.org/zap"
)

func now() time.Time {
	return time.Now().UTC()
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   s.cfg.Identity.Name,
		"timestamp": now(),
	})
}

func (s *Server) info(c *gin.Context) {
	body := gin.H{
		"message":   "Hello from " + s.cfg.Identity.Name + " service!",
		"service":   s.cfg.Identity.Name,
		"type":      s.cfg.Role.Type(),
		"rack":      s.cfg.Identity.Rack,
		"app":       s.cfg.Identity.App,
		"timestamp": now(),
		"endpoints": endpoints[s.cfg.Role],
	}
	if s.cfg.Role.External() {
		body["namespace"] = s.resolver.Namespace()
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) report(c *gin.Context, requests []model.ProbeRequest, details gin.H) {
	report, err := s.diagnostics.BuildReport(c.Request.Context(), s.cfg.Identity.Name, s.resolver.Namespace(), requests)
	if err != nil {
		s.fail(c, err, details)
		return
	}
	report.Context = details
	c.JSON(http.StatusOK, report)
}

func (s *Server) runOne(c *gin.Context, req model.ProbeRequest, details gin.H) {
	result, err := s.diagnostics.RunOne(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err, details)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) fail(c *gin.Context, err error, details gin.H) {
	s.logger.Warn("diagnostics request rejected",
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	body := gin.H{}
	for k, v := range details {
		body[k] = v
	}
	body["service"] = s.cfg.Identity.Name
	body["error"] = err.Error()
	body["timestamp"] = now()
	c.JSON(http.StatusInternalServerError, body)
}
