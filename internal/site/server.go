// Package site serves the portfolio over HTTP: the page itself, its HTMX
// fragments, the session event streams and the admin area.
package site

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"

	"github.com/vgandi/cyber-portfolio/internal/config"
	"github.com/vgandi/cyber-portfolio/internal/content"
	"github.com/vgandi/cyber-portfolio/internal/motion"
	"github.com/vgandi/cyber-portfolio/internal/page"
	"github.com/vgandi/cyber-portfolio/internal/visitors"
	"github.com/vgandi/cyber-portfolio/pkg/logger"
	"github.com/vgandi/cyber-portfolio/pkg/metrics"
)

//go:embed templates static
var assets embed.FS

// Deps are the collaborators of the HTTP layer.
type Deps struct {
	Config    *config.Config
	Portfolio *content.Portfolio
	Sessions  *page.Store
	Visitors  *visitors.Store
	Tracker   *visitors.Tracker
	Metrics   *metrics.Manager
	Logger    logger.Logger
}

// Server wires the routes.
type Server struct {
	cfg        *config.Config
	portfolio  *content.Portfolio
	sessions   *page.Store
	visitors   *visitors.Store
	tracker    *visitors.Tracker
	metrics    *metrics.Manager
	log        logger.Logger
	adminToken string
	started    time.Time
	engine     *gin.Engine
}

// New builds the router. Tracker is optional.
func New(d Deps) (*Server, error) {
	switch {
	case d.Config == nil:
		return nil, fmt.Errorf("%w: config", ErrMissingDeps)
	case d.Portfolio == nil:
		return nil, fmt.Errorf("%w: portfolio", ErrMissingDeps)
	case d.Sessions == nil:
		return nil, fmt.Errorf("%w: sessions", ErrMissingDeps)
	case d.Visitors == nil:
		return nil, fmt.Errorf("%w: visitors", ErrMissingDeps)
	case d.Metrics == nil:
		return nil, fmt.Errorf("%w: metrics", ErrMissingDeps)
	}
	if d.Logger == nil {
		d.Logger = logger.Nop()
	}

	token, err := visitors.RandomToken()
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:        d.Config,
		portfolio:  d.Portfolio,
		sessions:   d.Sessions,
		visitors:   d.Visitors,
		tracker:    d.Tracker,
		metrics:    d.Metrics,
		log:        d.Logger,
		adminToken: token,
		started:    time.Now(),
	}
	if err := s.routes(); err != nil {
		return nil, err
	}
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"add":   func(a, b int) int { return a + b },
		"comma": humanize.Comma,
		"ago":   humanize.Time,
		// Portfolio links come from the operator's content file.
		"safeURL": func(u string) template.URL { return template.URL(u) },
		"revealDelay": func(r motion.Reveal, i int) int64 {
			return r.Delay(i).Milliseconds()
		},
	}
}

func (s *Server) routes() error {
	tmpl, err := template.New("").Funcs(templateFuncs()).ParseFS(assets, "templates/*.html")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTemplates, err)
	}
	static, err := fs.Sub(assets, "static")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTemplates, err)
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(gin.Recovery(), s.observe(), s.trackVisitors())

	r.StaticFS("/static", http.FS(static))
	r.GET("/healthz", s.handleHealth)
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	r.GET("/", s.handleIndex)
	r.GET("/skills/:category", s.handleSkills)
	r.POST("/contact", s.handleContact)
	r.GET("/privacy", s.handlePrivacy)

	sessions := r.Group("/sessions/:id")
	sessions.GET("/events", s.handleEvents)
	sessions.POST("/viewport", s.handleViewport)

	s.adminRoutes(r)

	s.engine = r
	return nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.sessions.Len()})
}
