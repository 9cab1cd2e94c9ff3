package api

import (
	"errors"
	
	"github.com/gin-gonic/gin"
)

var (
	ErrInsufficientPermission = errors.New("requires warden or admin role")
	ErrNotificationNotFound   = errors.New("notification not found")
)

func errorResponse(err error) gin.H {
	return gin.H{"error": err.Error()}
}
