package site

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"

	"github.com/vgandi/cyber-portfolio/internal/visitors"
	"github.com/vgandi/cyber-portfolio/pkg/logger"
)

const (
	adminCookie    = "admin_token"
	adminCookieTTL = 24 * time.Hour
)

// adminStats is the dashboard and export payload.
type adminStats struct {
	*visitors.Stats
	ActiveSessions int       `json:"active_sessions"`
	GeneratedAt    time.Time `json:"generated_at"`
}

func (s *Server) adminStats(c *gin.Context) (*adminStats, error) {
	st, err := s.visitors.Stats(c.Request.Context())
	if err != nil {
		return nil, err
	}
	return &adminStats{Stats: st, ActiveSessions: s.sessions.Len(), GeneratedAt: time.Now().UTC()}, nil
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// adminAuth lets through requests carrying the process admin token.
func (s *Server) adminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || !equal(token, s.adminToken) {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (s *Server) adminRoutes(r *gin.Engine) {
	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{})
	})
	r.POST("/admin/login", s.handleLogin)
	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", false, true)
		s.log.Info(c.Request.Context(), "admin logout", logger.String("client", s.visitors.HashIP(c.ClientIP())))
		c.Redirect(http.StatusFound, "/admin/login")
	})

	admin := r.Group("/admin")
	admin.Use(s.adminAuth())

	admin.GET("/dashboard", func(c *gin.Context) {
		stats, err := s.adminStats(c)
		if err != nil {
			s.log.Error(c.Request.Context(), "error loading admin stats", logger.Error(err))
			c.HTML(http.StatusInternalServerError, "error.html", gin.H{"error": "Failed to load statistics"})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"stats":  stats,
			"uptime": humanize.RelTime(s.started, time.Now(), "", ""),
		})
	})

	admin.GET("/api/stats", func(c *gin.Context) {
		stats, err := s.adminStats(c)
		if err != nil {
			writeError(c, http.StatusInternalServerError, "internal", err)
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	admin.GET("/export/stats", func(c *gin.Context) {
		stats, err := s.adminStats(c)
		if err != nil {
			writeError(c, http.StatusInternalServerError, "internal", err)
			return
		}
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		s.log.Info(c.Request.Context(), "admin stats exported", logger.String("client", s.visitors.HashIP(c.ClientIP())))
		c.JSON(http.StatusOK, stats)
	})

	admin.POST("/privacy/cleanup", func(c *gin.Context) {
		n, err := s.visitors.Cleanup(c.Request.Context(), s.cfg.VisitorRetention)
		if err != nil {
			writeError(c, http.StatusInternalServerError, "internal", err)
			return
		}
		s.log.Info(c.Request.Context(), "privacy cleanup requested by admin", logger.Int64("rows", n))
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup complete", "removed": n})
	})
}

func (s *Server) handleLogin(c *gin.Context) {
	ctx := c.Request.Context()
	client := s.visitors.HashIP(c.ClientIP())

	if s.cfg.AdminPassword == "" {
		s.log.Warn(ctx, "admin login attempted while disabled", logger.String("client", client))
		c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{"error": ErrAdminDisabled.Error()})
		return
	}

	user, pass := c.PostForm("username"), c.PostForm("password")
	okUser := equal(user, s.cfg.AdminUsername)
	okPass := equal(pass, s.cfg.AdminPassword)
	if !okUser || !okPass {
		s.log.Warn(ctx, "failed admin login attempt", logger.String("client", client))
		c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{"error": "Invalid credentials"})
		return
	}

	c.SetCookie(adminCookie, s.adminToken, int(adminCookieTTL.Seconds()), "/admin", "", false, true)
	s.log.Info(ctx, "admin login successful", logger.String("client", client))
	c.Redirect(http.StatusFound, "/admin/dashboard")
}
