package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/pushp314/devconnect-chat/internal/handlers"
)

func RegisterConversationRoutes(r gin.IRouter) {
	conversations := r.Group("/conversations")
	{
		conversations.GET("", handlers.ListConversations)
		conversations.POST("", handlers.CreateConversation)
		conversations.GET("/:id/messages", handlers.GetConversationMessages)
		conversations.POST("/:id/messages", handlers.SendConversationMessage)
	}
}

func RegisterGroupChatRoutes(r gin.IRouter) {
	groups := r.Group("/groupchats")
	{
		groups.GET("", handlers.ListGroupChats)
		groups.POST("", handlers.CreateGroupChat)
		groups.GET("/:id", handlers.GetGroupChat)
		groups.DELETE("/:id", handlers.DeleteGroupChat)

		groups.GET("/:id/messages", handlers.GetGroupMessages)
		groups.POST("/:id/messages", handlers.SendGroupMessage)

		groups.POST("/:id/members", handlers.AddGroupMember)
		groups.PATCH("/:id/members/:userId", handlers.UpdateGroupMemberRole)
		groups.DELETE("/:id/members/:userId", handlers.RemoveGroupMember)
	}
}

func RegisterMessageRoutes(r gin.IRouter) {
	messages := r.Group("/messages")
	{
		messages.POST("/mark-read", handlers.MarkRead)
		messages.POST("/:id/reactions", handlers.AddReaction)
		messages.DELETE("/:id/reactions", handlers.RemoveReaction) // ?emoji=
	}

	r.POST("/typing", handlers.Typing)
}
