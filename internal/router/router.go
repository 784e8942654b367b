package router

import (
	"Lin_BookClub/internal/config"
	"Lin_BookClub/internal/handler"
	"Lin_BookClub/internal/middleware"
	"Lin_BookClub/internal/pkg"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// InitRouter 装配所有路由。/api 下为公开接口，/api/auth 下需要登录态。
func InitRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	r := gin.Default()

	userHandler := handler.NewUserHandler(db)
	bookHandler := handler.NewBookHandler(db)
	postHandler := handler.NewPostHandler(db)
	commentHandler := handler.NewCommentHandler(db)
	likeHandler := handler.NewPostLikeHandler(db)
	followHandler := handler.NewFollowHandler(db)
	notifyHandler := handler.NewNotificationHandler(db)
	emailHandler := handler.NewEmailHandler(pkg.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})

	api := r.Group("/api")
	{
		api.POST("/email/:scope/code", emailHandler.SendCode)

		api.POST("/user/register", userHandler.Register)
		api.POST("/user/login", userHandler.Login)
		api.POST("/user/reset", userHandler.ResetPassword)
		api.POST("/token/refresh", userHandler.TokenRefresh)

		api.GET("/author/list", bookHandler.ListAuthors)
		api.GET("/author/:id", bookHandler.GetAuthor)
		api.GET("/book/list", bookHandler.ListBooks)
		api.GET("/book/:id", bookHandler.GetBook)

		api.GET("/post/list", postHandler.List)
		api.GET("/post/:id", postHandler.Get)
		api.GET("/post/:id/comments", commentHandler.ListByPost)
	}

	auth := r.Group("/api/auth")
	auth.Use(middleware.AuthMiddleware())
	{
		auth.POST("/logout", userHandler.Logout)
		auth.POST("/change-password", userHandler.ChangePassword)
		auth.GET("/profile", userHandler.Profile)
		auth.PUT("/profile", userHandler.UpdateProfile)
		auth.DELETE("/user/:id", userHandler.DeleteUser)

		auth.POST("/author", bookHandler.CreateAuthor)
		auth.POST("/book", bookHandler.CreateBook)
		auth.PUT("/book/:id", bookHandler.UpdateBook)
		auth.DELETE("/book/:id", bookHandler.DeleteBook)

		auth.POST("/post", postHandler.Create)
		auth.PUT("/post/:id", postHandler.Update)
		auth.DELETE("/post/:id", postHandler.Delete)
		auth.GET("/feed", postHandler.Feed)

		auth.POST("/post/:id/comment", commentHandler.Create)
		auth.PUT("/comment/:id", commentHandler.Update)
		auth.DELETE("/comment/:id", commentHandler.Delete)

		auth.POST("/post/:id/like", likeHandler.Like)
		auth.DELETE("/post/:id/like", likeHandler.Unlike)
		auth.GET("/post/:id/like", likeHandler.IsLiked)
		auth.GET("/post/:id/like/count", likeHandler.Count)

		auth.POST("/follow", followHandler.Action)
		auth.GET("/follow/followings", followHandler.ListFollowings)
		auth.GET("/follow/followers", followHandler.ListFollowers)
		auth.GET("/follow/relation", followHandler.Relation)

		auth.GET("/notifications", notifyHandler.List)
		auth.PUT("/notifications/:id/read", notifyHandler.MarkRead)
		auth.PUT("/notifications/read-all", notifyHandler.MarkAllRead)
	}

	return r
}
