package site

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// Sentinel kinds for site errors.
var (
	ErrTemplates     = errors.New("parse templates failed")
	ErrMissingDeps   = errors.New("missing dependency")
	ErrAdminDisabled = errors.New("admin login is disabled")
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(c *gin.Context, status int, code string, err error) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, errorResponse{Code: code, Message: msg})
}
