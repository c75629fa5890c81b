package site

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"

	"github.com/vgandi/cyber-portfolio/internal/content"
	"github.com/vgandi/cyber-portfolio/internal/motion"
	"github.com/vgandi/cyber-portfolio/internal/page"
	"github.com/vgandi/cyber-portfolio/pkg/logger"
)

// skillsPanel is the data of the skills-panel template.
type skillsPanel struct {
	Key       content.CategoryKey
	Category  content.Category
	BarReveal motion.Reveal
}

func (s *Server) panel(key content.CategoryKey) (skillsPanel, error) {
	cat, err := s.portfolio.Skills.Select(key)
	if err != nil {
		return skillsPanel{}, err
	}
	return skillsPanel{Key: key, Category: cat, BarReveal: page.SkillBarReveal()}, nil
}

// handleIndex mounts a new page session and renders the page around it.
func (s *Server) handleIndex(c *gin.Context) {
	sess := s.sessions.Open(c.Request.Context())

	skills, err := s.panel(s.portfolio.Skills.Default)
	if err != nil {
		s.log.Error(c.Request.Context(), "default skill category", logger.Error(err))
	}
	c.Header("Cache-Control", "no-store")
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Portfolio":   s.portfolio,
		"SessionID":   sess.ID(),
		"Tabs":        s.portfolio.Skills.Tabs(s.portfolio.Skills.Default),
		"Skills":      skills,
		"ExtraReveal": page.ExtraTagReveal(),
		"Year":        time.Now().Year(),
	})
}

// handleSkills renders the panel of one skill tab.
func (s *Server) handleSkills(c *gin.Context) {
	p, err := s.panel(content.CategoryKey(c.Param("category")))
	if errors.Is(err, content.ErrUnknownCategory) {
		c.HTML(http.StatusNotFound, "error.html", gin.H{"error": "Unknown skill category"})
		return
	}
	c.HTML(http.StatusOK, "skills-panel.html", p)
}

func (s *Server) handlePrivacy(c *gin.Context) {
	now := time.Now()
	retention := strings.TrimSpace(humanize.RelTime(now.Add(-s.cfg.VisitorRetention), now, "", ""))
	c.HTML(http.StatusOK, "privacy.html", gin.H{
		"title":     "Privacy Policy",
		"retention": retention,
	})
}
