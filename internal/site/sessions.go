package site

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vgandi/cyber-portfolio/internal/motion"
	"github.com/vgandi/cyber-portfolio/internal/page"
	"github.com/vgandi/cyber-portfolio/pkg/logger"
)

type viewportRequest struct {
	ScrollY        float64                          `json:"scrollY"`
	DocumentHeight float64                          `json:"documentHeight" binding:"gte=0"`
	ViewportHeight float64                          `json:"viewportHeight" binding:"gt=0"`
	Regions        map[page.SectionID]motion.Region `json:"regions" binding:"max=32"`
}

func sessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, page.ErrSessionNotFound):
		writeError(c, http.StatusNotFound, "session_not_found", err)
	case errors.Is(err, page.ErrSessionClosed):
		writeError(c, http.StatusGone, "session_closed", err)
	default:
		writeError(c, http.StatusInternalServerError, "internal", err)
	}
}

// handleEvents streams a session's state as server-sent events. Each stream
// starts with the full state, so a reconnecting browser catches up. The
// session outlives the stream until the store evicts it.
func (s *Server) handleEvents(c *gin.Context) {
	sess, err := s.sessions.Get(c.Param("id"))
	if err != nil {
		sessionError(c, err)
		return
	}
	detach, err := sess.Attach()
	if err != nil {
		sessionError(c, err)
		return
	}
	ctx := c.Request.Context()
	defer func() {
		detach()
		s.log.Debug(ctx, "stream detached", logger.String("session", sess.ID()), logger.Int("streams", sess.Streams()))
	}()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	sess.Replay()
	for {
		select {
		case <-ctx.Done():
			return
		case <-sess.Done():
			return
		case <-sess.Notify():
			for _, ev := range sess.Drain() {
				c.SSEvent(ev.Name, ev.Data)
			}
			c.Writer.Flush()
		}
	}
}

// handleViewport feeds a viewport measurement to a session.
func (s *Server) handleViewport(c *gin.Context) {
	sess, err := s.sessions.Get(c.Param("id"))
	if err != nil {
		sessionError(c, err)
		return
	}

	var req viewportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	res, err := sess.Viewport(page.ViewportUpdate{
		Viewport: motion.Viewport{
			ScrollY:        req.ScrollY,
			DocumentHeight: req.DocumentHeight,
			ViewportHeight: req.ViewportHeight,
		},
		Regions: req.Regions,
	})
	if err != nil {
		sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
