package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/pushp314/devconnect-chat/internal/handlers"
)

func RegisterFriendRoutes(r gin.IRouter) {
	friends := r.Group("/friends")
	{
		friends.GET("", handlers.ListFriends)
		friends.DELETE("", handlers.RemoveFriend) // ?friendId=

		friends.GET("/requests", handlers.ListFriendRequests)
		friends.POST("/requests", handlers.SendFriendRequest)
		friends.POST("/requests/:id/accept", handlers.AcceptFriendRequest)
		friends.POST("/requests/:id/reject", handlers.RejectFriendRequest)
	}
}
