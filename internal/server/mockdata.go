package server

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type Item struct {
	ID      int       `json:"id"`
	Name    string    `json:"name"`
	Created time.Time `json:"created"`
}

type User struct {
	ID       int       `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Created  time.Time `json:"created"`
}

func seedItems(ts time.Time) []Item {
	return []Item{
		{ID: 1, Name: "Sample Item 1", Created: ts},
		{ID: 2, Name: "Sample Item 2", Created: ts},
	}
}

func seedUsers(ts time.Time) []User {
	return []User{
		{ID: 1, Username: "john_doe", Email: "john@example.com", Created: ts},
		{ID: 2, Username: "jane_smith", Email: "jane@example.com", Created: ts},
		{ID: 3, Username: "bob_wilson", Email: "bob@example.com", Created: ts},
	}
}

func (s *Server) bindOptionalJSON(c *gin.Context, dst any) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{
			"service":   s.cfg.Identity.Name,
			"error":     "invalid JSON body: " + err.Error(),
			"timestamp": now(),
		})
		return false
	}
	return true
}

func (s *Server) listData(c *gin.Context) {
	items := s.items.List()
	c.JSON(http.StatusOK, gin.H{
		"service":   s.cfg.Identity.Name,
		"data":      items,
		"count":     len(items),
		"timestamp": now(),
	})
}

func (s *Server) createData(c *gin.Context) {
	var body struct {
		Name string `json:"name"`
	}
	if !s.bindOptionalJSON(c, &body) {
		return
	}
	item := s.items.Append(func(next int) Item {
		name := body.Name
		if name == "" {
			name = fmt.Sprintf("New Item %d", next)
		}
		return Item{ID: next, Name: name, Created: now()}
	})
	c.JSON(http.StatusCreated, gin.H{
		"service":   s.cfg.Identity.Name,
		"message":   "Item created",
		"item":      item,
		"timestamp": now(),
	})
}

func (s *Server) listUsers(c *gin.Context) {
	users := s.users.List()
	c.JSON(http.StatusOK, gin.H{
		"service":     s.cfg.Identity.Name,
		"users":       users,
		"total_users": len(users),
		"timestamp":   now(),
	})
}

func (s *Server) createUser(c *gin.Context) {
	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if !s.bindOptionalJSON(c, &body) {
		return
	}
	user := s.users.Append(func(next int) User {
		u := User{ID: next, Username: body.Username, Email: body.Email, Created: now()}
		if u.Username == "" {
			u.Username = fmt.Sprintf("user_%d", next)
		}
		if u.Email == "" {
			u.Email = fmt.Sprintf("user%d@example.com", next)
		}
		return u
	})
	c.JSON(http.StatusCreated, gin.H{
		"service":   s.cfg.Identity.Name,
		"message":   "User created successfully",
		"user":      user,
		"timestamp": now(),
	})
}

func (s *Server) status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": s.cfg.Identity.Name,
		"database": gin.H{
			"status":      "online",
			"type":        "mock-database",
			"version":     "1.0.0",
			"uptime":      time.Since(s.started).Seconds(),
			"connections": rand.IntN(20) + 5,
			"last_backup": now().Add(-time.Duration(rand.Int64N(int64(24 * time.Hour)))),
		},
		"rack":      s.cfg.Identity.Rack,
		"app":       s.cfg.Identity.App,
		"timestamp": now(),
	})
}

func (s *Server) stats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": s.cfg.Identity.Name,
		"statistics": gin.H{
			"total_users":        s.users.Len(),
			"database_size_mb":   rand.IntN(1000) + 100,
			"queries_per_second": rand.IntN(500) + 50,
			"cache_hit_ratio":    fmt.Sprintf("%.2f", rand.Float64()*0.3+0.7),
			"active_connections": rand.IntN(20) + 5,
			"slow_queries":       rand.IntN(10),
			"last_updated":       now(),
		},
		"timestamp": now(),
	})
}
