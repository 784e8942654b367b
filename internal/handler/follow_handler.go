package handler

import (
	"net/http"
	"strconv"

	"Lin_BookClub/internal/middleware"
	"Lin_BookClub/internal/pkg"
	"Lin_BookClub/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type FollowHandler struct {
	svc *service.FollowService
}

// FollowReq action: follow / unfollow
type FollowReq struct {
	UserID uint64 `json:"user_id" binding:"required"`
	Action string `json:"action" binding:"required,oneof=follow unfollow"`
}

func NewFollowHandler(db *gorm.DB) *FollowHandler {
	return &FollowHandler{
		svc: service.NewFollowService(db),
	}
}

func (h *FollowHandler) Action(c *gin.Context) {
	var req FollowReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"kind": pkg.KindValidation, "msg": "invalid params"})
		return
	}

	var (
		changed bool
		err     error
	)
	if req.Action == "follow" {
		changed, err = h.svc.Follow(c.Request.Context(), middleware.UserID(c), req.UserID)
	} else {
		changed, err = h.svc.Unfollow(c.Request.Context(), middleware.UserID(c), req.UserID)
	}
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok", "changed": changed})
}

func (h *FollowHandler) ListFollowings(c *gin.Context) {
	cursor, _ := strconv.ParseUint(c.Query("last_id"), 10, 64)
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	list, next, err := h.svc.ListFollowings(c.Request.Context(), middleware.UserID(c), cursor, size)
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list, "last_id": next})
}

func (h *FollowHandler) ListFollowers(c *gin.Context) {
	cursor, _ := strconv.ParseUint(c.Query("last_id"), 10, 64)
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	list, next, err := h.svc.ListFollowers(c.Request.Context(), middleware.UserID(c), cursor, size)
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list, "last_id": next})
}

// Relation 查询我与目标用户的关注关系
func (h *FollowHandler) Relation(c *gin.Context) {
	targetID, err := strconv.ParseUint(c.Query("user_id"), 10, 64)
	if err != nil || targetID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"kind": pkg.KindValidation, "msg": "invalid user_id"})
		return
	}

	me := middleware.UserID(c)
	following, err := h.svc.IsFollowing(c.Request.Context(), me, targetID)
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	followed, err := h.svc.IsFollowing(c.Request.Context(), targetID, me)
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"following": following, "followed_by": followed})
}
