// Package router 管理路由配置，将路径绑定到 pkg/internal/handle 提供的处理器.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/muzicc/pkg/internal/handle"
)

// RegisterSongsRoutes 注册歌曲相关路由.
func RegisterSongsRoutes(g *gin.RouterGroup) {
	songsRoutes := g.Group("/songs")
	{
		// 上传三部曲：查重 -> 预签名 URL -> 确认落库
		songsRoutes.POST("/check-file", handle.CheckFile)
		songsRoutes.POST("/upload-url", handle.RequestUploadURL)
		songsRoutes.POST("/confirm-upload", handle.ConfirmUpload)

		// 档案 CRUD
		songsRoutes.POST("", handle.CreateSong)
		songsRoutes.GET("", handle.ListSongs)
		songsRoutes.GET("/me", handle.ListMySongs)

		singleGroup := songsRoutes.Group("/:id")
		{
			singleGroup.GET("", handle.GetSong)
			singleGroup.PUT("", handle.UpdateSong)
			singleGroup.DELETE("", handle.DeleteSong)
		}
	}
}
