package handler

import (
	"net/http"

	"Lin_BookClub/internal/middleware"
	"Lin_BookClub/internal/pkg"
	"Lin_BookClub/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PostLikeHandler struct {
	svc *service.PostLikeService
}

func NewPostLikeHandler(db *gorm.DB) *PostLikeHandler {
	return &PostLikeHandler{
		svc: service.NewPostLikeService(db),
	}
}

// Like 点赞，重复点赞返回400
func (h *PostLikeHandler) Like(c *gin.Context) {
	postID, err := parseID(c)
	if err != nil {
		pkg.WriteError(c, err)
		return
	}

	changed, err := h.svc.Like(c.Request.Context(), middleware.UserID(c), postID)
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	if !changed {
		c.JSON(http.StatusBadRequest, gin.H{"kind": pkg.KindConflict, "msg": "already liked"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "post liked"})
}

func (h *PostLikeHandler) Unlike(c *gin.Context) {
	postID, err := parseID(c)
	if err != nil {
		pkg.WriteError(c, err)
		return
	}

	changed, err := h.svc.Unlike(c.Request.Context(), middleware.UserID(c), postID)
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	if !changed {
		c.JSON(http.StatusBadRequest, gin.H{"kind": pkg.KindConflict, "msg": "not liked yet"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "post unliked"})
}

func (h *PostLikeHandler) IsLiked(c *gin.Context) {
	postID, err := parseID(c)
	if err != nil {
		pkg.WriteError(c, err)
		return
	}

	liked, err := h.svc.IsLiked(c.Request.Context(), middleware.UserID(c), postID)
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked})
}

func (h *PostLikeHandler) Count(c *gin.Context) {
	postID, err := parseID(c)
	if err != nil {
		pkg.WriteError(c, err)
		return
	}

	count, err := h.svc.GetCountWithLock(c.Request.Context(), middleware.UserID(c), postID)
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}
