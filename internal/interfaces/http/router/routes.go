package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(v1 *gin.RouterGroup, h *Handlers) {
	// 认证管理
	auth := v1.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
	}

	// 候选选题
	ideas := v1.Group("/ideas")
	{
		ideas.GET("", h.Idea.List)
		ideas.POST("/generate", h.Idea.Generate)
		ideas.POST("/:iid/select", h.Idea.Select)
		ideas.DELETE("/:iid", h.Idea.Delete)
	}

	// 书籍管理
	books := v1.Group("/books")
	{
		books.GET("", h.Book.List)
		books.POST("", h.Book.Create)
		books.GET("/:bid", h.Book.Get)
		books.PUT("/:bid", h.Book.Update)
		books.DELETE("/:bid", h.Book.Delete)

		// 书籍大纲
		books.GET("/:bid/outline", h.Outline.Get)
		books.POST("/:bid/outline", h.Outline.Save)
		books.PUT("/:bid/outline", h.Outline.Update)
		books.POST("/:bid/outline/generate", h.Outline.Generate)
		books.POST("/:bid/outline/approve", h.Outline.Approve)

		// 书籍章节
		books.GET("/:bid/chapters", h.Chapter.List)
		books.POST("/:bid/chapters", h.Chapter.Create)
		books.POST("/:bid/chapters/generate", h.Chapter.Generate)

		// 手稿导出
		books.GET("/:bid/export", h.Export.Export)
	}

	// 章节管理
	chapters := v1.Group("/chapters")
	{
		chapters.GET("/:cid", h.Chapter.Get)
		chapters.PUT("/:cid", h.Chapter.Update)
		chapters.DELETE("/:cid", h.Chapter.Delete)
	}

	// 用户设置
	settings := v1.Group("/settings")
	{
		settings.GET("", h.Settings.Get)
		settings.PUT("", h.Settings.Update)
	}
}
