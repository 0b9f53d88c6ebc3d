package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/pushp314/devconnect-chat/internal/handlers"
)

func RegisterUploadRoutes(r gin.IRouter) {
	r.POST("/upload", handlers.UploadFiles)
}
