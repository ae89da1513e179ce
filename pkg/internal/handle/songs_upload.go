package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/muzicc/pkg/internal/service"
	"github.com/yeisme/muzicc/pkg/internal/types"
	"github.com/yeisme/muzicc/pkg/log"
)

// CheckFile 按内容指纹查询是否已存在同内容的歌曲对象.
//
//	@Summary		按内容指纹查重
//	@Tags			歌曲上传
//	@Accept			json
//	@Produce		json
//	@Param			body	body		types.CheckFileRequest	true	"内容指纹"
//	@Success		200		{object}	types.CheckFileResponse
//	@Failure		400		{object}	map[string]string
//	@Router			/api/v1/songs/check-file [post]
func CheckFile(c *gin.Context) {
	var req types.CheckFileRequest
	if err := c.ShouldBind(&req); err != nil {
		log.Logger().Warn().Err(err).Msg("invalid check-file request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	svc := service.NewSongService(c.Request.Context())

	resp, err := svc.CheckFile(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RequestUploadURL 签发预签名上传 URL，指纹命中时返回既有对象.
//
//	@Summary		获取预签名上传URL
//	@Tags			歌曲上传
//	@Accept			json
//	@Produce		json
//	@Param			body	body		types.UploadURLRequest	true	"上传请求"
//	@Success		200		{object}	types.UploadURLResponse
//	@Failure		400		{object}	map[string]string
//	@Router			/api/v1/songs/upload-url [post]
func RequestUploadURL(c *gin.Context) {
	var req types.UploadURLRequest
	if err := c.ShouldBind(&req); err != nil {
		log.Logger().Warn().Err(err).Msg("invalid upload-url request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	svc := service.NewSongService(c.Request.Context())

	resp, err := svc.RequestUploadURL(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ConfirmUpload 客户端完成 PUT 后确认上传并落库.
//
//	@Summary		确认上传
//	@Tags			歌曲上传
//	@Accept			json
//	@Produce		json
//	@Param			body	body		types.ConfirmUploadRequest	true	"确认请求"
//	@Success		201		{object}	types.SongResponse
//	@Failure		400		{object}	map[string]string
//	@Failure		401		{object}	map[string]string
//	@Router			/api/v1/songs/confirm-upload [post]
func ConfirmUpload(c *gin.Context) {
	userID, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	var req types.ConfirmUploadRequest
	if err := c.ShouldBind(&req); err != nil {
		log.Logger().Warn().Err(err).Msg("invalid confirm-upload request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	svc := service.NewSongService(c.Request.Context())

	song, err := svc.ConfirmUpload(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, types.NewSongResponse(song))
}
