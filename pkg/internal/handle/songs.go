package handle

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/muzicc/pkg/internal/service"
	"github.com/yeisme/muzicc/pkg/internal/types"
	"github.com/yeisme/muzicc/pkg/log"
)

// songID 解析路径参数中的歌曲 ID.
func songID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid song id"})
		return 0, false
	}

	return uint(id), true
}

// CreateSong 直接建档：调用方已持有对象键或完整存储 URL.
//
//	@Summary		直接建档
//	@Tags			歌曲
//	@Accept			json
//	@Produce		json
//	@Param			body	body		types.CreateSongRequest	true	"建档请求"
//	@Success		201		{object}	types.SongResponse
//	@Failure		400		{object}	map[string]string
//	@Router			/api/v1/songs [post]
func CreateSong(c *gin.Context) {
	userID, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	var req types.CreateSongRequest
	if err := c.ShouldBind(&req); err != nil {
		log.Logger().Warn().Err(err).Msg("invalid create-song request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	svc := service.NewSongService(c.Request.Context())

	song, err := svc.CreateSong(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, types.NewSongResponse(song))
}

// ListSongs 公开歌曲列表.
//
//	@Summary		公开歌曲列表
//	@Tags			歌曲
//	@Produce		json
//	@Param			limit	query		int		false	"页大小，默认20，最大100"
//	@Param			offset	query		int		false	"偏移量"
//	@Param			q		query		string	false	"标题子串，忽略大小写"
//	@Param			artist	query		string	false	"歌手精确匹配"
//	@Success		200		{object}	types.PaginatedResponse[types.SongResponse]
//	@Router			/api/v1/songs [get]
func ListSongs(c *gin.Context) {
	var q types.ListSongsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := service.NewSongService(c.Request.Context())

	page, err := svc.ListPublic(c.Request.Context(), &q)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// ListMySongs 当前用户的歌曲列表，含未公开记录.
//
//	@Summary		我的歌曲列表
//	@Tags			歌曲
//	@Produce		json
//	@Success		200	{object}	types.PaginatedResponse[types.SongResponse]
//	@Router			/api/v1/songs/me [get]
func ListMySongs(c *gin.Context) {
	userID, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	var q types.ListSongsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := service.NewSongService(c.Request.Context())

	page, err := svc.ListByOwner(c.Request.Context(), userID, &q)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetSong 按 ID 查询单条记录.
//
//	@Summary		歌曲详情
//	@Tags			歌曲
//	@Produce		json
//	@Param			id	path		int	true	"歌曲ID"
//	@Success		200	{object}	types.SongResponse
//	@Failure		404	{object}	map[string]string
//	@Router			/api/v1/songs/{id} [get]
func GetSong(c *gin.Context) {
	id, ok := songID(c)
	if !ok {
		return
	}

	svc := service.NewSongService(c.Request.Context())

	song, err := svc.GetSong(c.Request.Context(), optionalCurrentUser(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.NewSongResponse(song))
}

// UpdateSong 应用更新补丁，仅属主可操作.
//
//	@Summary		更新歌曲
//	@Tags			歌曲
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int				true	"歌曲ID"
//	@Param			body	body		types.SongPatch	true	"更新补丁"
//	@Success		200		{object}	types.SongResponse
//	@Failure		403		{object}	map[string]string
//	@Failure		404		{object}	map[string]string
//	@Router			/api/v1/songs/{id} [put]
func UpdateSong(c *gin.Context) {
	userID, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	id, ok := songID(c)
	if !ok {
		return
	}

	var patch types.SongPatch
	if err := c.ShouldBind(&patch); err != nil {
		log.Logger().Warn().Err(err).Msg("invalid song patch")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	svc := service.NewSongService(c.Request.Context())

	song, err := svc.UpdateSong(c.Request.Context(), userID, id, &patch)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.NewSongResponse(song))
}

// DeleteSong 软删除，仅属主可操作.
//
//	@Summary		删除歌曲
//	@Tags			歌曲
//	@Produce		json
//	@Param			id	path	int	true	"歌曲ID"
//	@Success		204
//	@Failure		403	{object}	map[string]string
//	@Failure		404	{object}	map[string]string
//	@Router			/api/v1/songs/{id} [delete]
func DeleteSong(c *gin.Context) {
	userID, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	id, ok := songID(c)
	if !ok {
		return
	}

	svc := service.NewSongService(c.Request.Context())

	if err := svc.DeleteSong(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
