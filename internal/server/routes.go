package server

import (
	"github.com/gin-gonic/gin"
	"github.com/jaxxstorm/netdiag/internal/config"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(router *gin.Engine, s *Server) {
	router.GET("/health", s.health)
	router.GET("/", s.info)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	switch s.cfg.Role {
	case config.RoleFrontend:
		router.GET("/test-internal", s.testInternal)
		router.GET("/nslookup/:hostname", s.nslookup)
		router.GET("/curl/:service", s.curl)
		router.GET("/debug-env", s.debugEnv)
	case config.RoleAPI:
		router.GET("/data", s.listData)
		router.POST("/data", s.createData)
		router.GET("/test-database", s.testDatabase)
		router.GET("/network-info", s.networkInfo)
	case config.RoleDatabase:
		router.GET("/status", s.status)
		router.GET("/users", s.listUsers)
		router.POST("/users", s.createUser)
		router.GET("/stats", s.stats)
		router.GET("/network-debug", s.networkDebug)
	}
}

var endpoints = map[config.Role][]string{
	config.RoleFrontend: {
		"GET / - This page",
		"GET /health - Health check",
		"GET /test-internal - Test internal service calls",
		"GET /nslookup/:hostname - DNS lookup",
		"GET /curl/:service - HTTP test to internal services",
		"GET /debug-env - Show all environment variables",
		"GET /metrics - Prometheus metrics",
	},
	config.RoleAPI: {
		"GET / - This page",
		"GET /health - Health check",
		"GET /data - Get mock data",
		"POST /data - Create mock data",
		"GET /test-database - Test database connectivity",
		"GET /network-info - Network debugging info",
		"GET /metrics - Prometheus metrics",
	},
	config.RoleDatabase: {
		"GET / - This page",
		"GET /health - Health check",
		"GET /status - Database status",
		"GET /users - Get mock users",
		"POST /users - Create mock user",
		"GET /stats - Database statistics",
		"GET /network-debug - Network debugging",
		"GET /metrics - Prometheus metrics",
	},
}
