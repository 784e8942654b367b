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

type CommentHandler struct {
	svc *service.CommentService
}

type CommentReq struct {
	Content string `json:"content" binding:"required,max=2000"`
}

func NewCommentHandler(db *gorm.DB) *CommentHandler {
	return &CommentHandler{
		svc: service.NewCommentService(db),
	}
}

// Create 在帖子下评论，:id 为帖子ID
func (h *CommentHandler) Create(c *gin.Context) {
	postID, err := parseID(c)
	if err != nil {
		pkg.WriteError(c, err)
		return
	}

	var req CommentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"kind": pkg.KindValidation, "msg": "invalid params"})
		return
	}

	comment, err := h.svc.CreateComment(c.Request.Context(), middleware.UserID(c), postID, req.Content)
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// ListByPost 帖子的评论列表，按发表先后排列
func (h *CommentHandler) ListByPost(c *gin.Context) {
	postID, err := parseID(c)
	if err != nil {
		pkg.WriteError(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	comments, err := h.svc.ListByPost(postID, page, size)
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": comments})
}

func (h *CommentHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		pkg.WriteError(c, err)
		return
	}

	var req CommentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"kind": pkg.KindValidation, "msg": "invalid params"})
		return
	}

	comment, err := h.svc.UpdateComment(middleware.UserID(c), middleware.Role(c), id, req.Content)
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

func (h *CommentHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		pkg.WriteError(c, err)
		return
	}

	if err := h.svc.DeleteComment(middleware.UserID(c), middleware.Role(c), id); err != nil {
		pkg.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
