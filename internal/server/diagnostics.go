package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jaxxstorm/netdiag/internal/model"
	"github.com/jaxxstorm/netdiag/internal/probe"
)

func (s *Server) testInternal(c *gin.Context) {
	s.report(c, []model.ProbeRequest{
		{Kind: model.ProbeHTTP, Target: "api", Argument: "/"},
		{Kind: model.ProbeHTTP, Target: "database", Argument: "/"},
	}, gin.H{
		"rack": s.cfg.Identity.Rack,
		"app":  s.cfg.Identity.App,
		"urls_tested": gin.H{
			"api":      s.resolver.Resolve("api"),
			"database": s.resolver.Resolve("database"),
		},
	})
}

func (s *Server) nslookup(c *gin.Context) {
	hostname := c.Param("hostname")
	s.runOne(c, model.ProbeRequest{Kind: model.ProbeDNS, Target: hostname}, gin.H{"hostname": hostname})
}

func (s *Server) curl(c *gin.Context) {
	service := c.Param("service")
	details := gin.H{"target_service": service}
	if probe.ValidateServiceName(service) == nil {
		details["url"] = s.resolver.Resolve(service)
	}
	s.runOne(c, model.ProbeRequest{Kind: model.ProbeCommand, Target: service, Argument: probe.ToolCurl}, details)
}

func (s *Server) debugEnv(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": s.cfg.Identity.Name,
		"convox_vars": gin.H{
			"RACK":    s.env["RACK"],
			"APP":     s.env["APP"],
			"SERVICE": s.env["SERVICE"],
			"RELEASE": s.env["RELEASE"],
			"BUILD":   s.env["BUILD"],
		},
		"all_env":   s.env,
		"timestamp": now(),
	})
}

func (s *Server) testDatabase(c *gin.Context) {
	s.report(c, []model.ProbeRequest{
		{Kind: model.ProbeHTTP, Target: "database", Argument: "/status"},
	}, gin.H{
		"database_url": s.resolver.Resolve("database"),
	})
}

func (s *Server) networkInfo(c *gin.Context) {
	uptime := 0.0
	if s.host.Uptime != nil {
		uptime = s.host.Uptime()
	}
	s.report(c, []model.ProbeRequest{
		{Kind: model.ProbeCommand, Argument: probe.ToolInterfaces},
		{Kind: model.ProbeDNS, Target: s.resolver.Host("database")},
	}, gin.H{
		"hostname":     s.host.Hostname,
		"platform":     s.host.Platform,
		"architecture": s.host.Architecture,
		"uptime":       uptime,
		"rack":         s.cfg.Identity.Rack,
		"app":          s.cfg.Identity.App,
	})
}

func (s *Server) networkDebug(c *gin.Context) {
	s.report(c, []model.ProbeRequest{
		{Kind: model.ProbeCommand, Target: s.resolver.Host("api"), Argument: probe.ToolPing},
		{Kind: model.ProbeCommand, Argument: probe.ToolPorts},
	}, gin.H{
		"hostname":     s.host.Hostname,
		"memory_usage": currentMemoryUsage(),
		"rack":         s.cfg.Identity.Rack,
		"app":          s.cfg.Identity.App,
		"environment":  s.environmentSummary(),
	})
}

func (s *Server) environmentSummary() gin.H {
	environment := s.env["ENVIRONMENT"]
	if environment == "" {
		environment = "development"
	}
	return gin.H{
		"ENVIRONMENT":  environment,
		"PORT":         s.env["PORT"],
		"SERVICE_NAME": s.env["SERVICE_NAME"],
		"RACK":         s.env["RACK"],
		"APP":          s.env["APP"],
	}
}
