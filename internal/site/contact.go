package site

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vgandi/cyber-portfolio/pkg/logger"
)

// Contact outcomes as recorded in metrics.
const (
	contactSent      = "sent"
	contactInvalid   = "invalid"
	contactCancelled = "cancelled"
)

type contactForm struct {
	Name    string `form:"name" binding:"required,max=100"`
	Email   string `form:"email" binding:"required,email,max=254"`
	Subject string `form:"subject" binding:"required,max=200"`
	Message string `form:"message" binding:"required,max=5000"`
}

// handleContact accepts the contact form. Sending is simulated: the request
// is held for the configured delay and then acknowledged.
func (s *Server) handleContact(c *gin.Context) {
	ctx := c.Request.Context()

	var form contactForm
	if err := c.ShouldBind(&form); err != nil {
		s.metrics.ContactSubmitted(contactInvalid)
		c.HTML(http.StatusUnprocessableEntity, "contact-error.html", gin.H{
			"error": "Please fill in every field with a valid email address.",
		})
		return
	}

	timer := time.NewTimer(s.cfg.ContactDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		s.metrics.ContactSubmitted(contactCancelled)
		s.log.Warn(ctx, "contact submission abandoned", logger.Error(ctx.Err()))
		return
	case <-timer.C:
	}

	s.metrics.ContactSubmitted(contactSent)
	s.log.Info(ctx, "contact message received",
		logger.String("name", form.Name),
		logger.String("email", form.Email),
		logger.String("subject", form.Subject),
		logger.Int("length", len(form.Message)),
	)
	c.HTML(http.StatusOK, "contact-success.html", gin.H{
		"success": "Thank you for your message! I'll get back to you soon.",
	})
}
