package router

import (
	"github.com/ifradhos55/Markain/internal/db"
	"github.com/ifradhos55/Markain/internal/handlers"
	"github.com/ifradhos55/Markain/internal/middleware"
	"github.com/ifradhos55/Markain/internal/realtime"
	"github.com/ifradhos55/Markain/internal/services"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, hub *realtime.Hub) {
	// Services
	notifier := services.NewNotifier(db.DB)
	voteService := services.NewVoteService(db.DB, notifier, hub)
	commentService := services.NewCommentService(db.DB, notifier, hub)
	postService := services.NewPostService(db.DB, hub)
	groupService := services.NewGroupService(db.DB, notifier, hub)
	chatService := services.NewChatService(db.DB, notifier, hub)

	// Handlers
	authHandler := handlers.NewAuthHandler()
	feedHandler := handlers.NewFeedHandler(postService, groupService, chatService)
	voteHandler := handlers.NewVoteHandler(voteService)
	commentHandler := handlers.NewCommentHandler(commentService)
	groupHandler := handlers.NewGroupHandler(groupService, chatService)
	privateHandler := handlers.NewPrivateChatHandler(chatService)
	notificationHandler := handlers.NewNotificationHandler()
	wsHandler := handlers.NewWSHandler(hub)

	// Public routes
	r.GET("/login", authHandler.ShowLogin)
	r.POST("/login", authHandler.Login)
	r.GET("/register", authHandler.ShowRegister)
	r.POST("/register", authHandler.Register)
	r.GET("/logout", authHandler.Logout)

	// Protected routes
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/", feedHandler.Show)
		authorized.GET("/ws", wsHandler.Connect)

		collab := authorized.Group("/collaboration")
		{
			collab.GET("", feedHandler.Show)
			collab.POST("/posts", feedHandler.CreatePost)
			collab.POST("/posts/:id/edit", feedHandler.EditPost)
			collab.POST("/posts/:id/delete", feedHandler.DeletePost)
			collab.POST("/posts/:id/vote", voteHandler.VotePost)
			collab.POST("/posts/:id/comments", commentHandler.Add)

			collab.POST("/comments/:id/vote", voteHandler.VoteComment)
			collab.POST("/comments/:id/edit", commentHandler.Edit)
			collab.POST("/comments/:id/delete", commentHandler.Delete)

			collab.POST("/groups", groupHandler.Create)
			collab.GET("/groups/:id", groupHandler.Details)
			collab.POST("/groups/:id/members", groupHandler.AddMember)
			collab.POST("/groups/:id/members/:memberId/remove", groupHandler.RemoveMember)
			collab.POST("/groups/:id/leave", groupHandler.Leave)
			collab.POST("/groups/:id/delete", groupHandler.Delete)
			collab.POST("/groups/:id/photo", groupHandler.UpdatePhoto)
			collab.POST("/groups/:id/view-mode", groupHandler.SetViewMode)
			collab.POST("/groups/:id/messages", groupHandler.PostMessage)
			collab.POST("/messages/:id/edit", groupHandler.EditMessage)
			collab.POST("/messages/:id/delete", groupHandler.DeleteMessage)

			collab.POST("/private", privateHandler.Start)
			collab.GET("/private/:id", privateHandler.Details)
			collab.POST("/private/:id/messages", privateHandler.PostMessage)
			collab.POST("/private/messages/:id/edit", privateHandler.EditMessage)
			collab.POST("/private/messages/:id/delete", privateHandler.DeleteMessage)
		}

		authorized.GET("/notifications", notificationHandler.List)
		authorized.GET("/notifications/:id/read", notificationHandler.Read)
		authorized.POST("/notifications/read-all", notificationHandler.ReadAll)
		authorized.DELETE("/notifications/:id", notificationHandler.Delete)
	}
}
