package handler

import (
	"net/http"

	"Lin_BookClub/internal/middleware"
	"Lin_BookClub/internal/pkg"
	"Lin_BookClub/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PostHandler struct {
	svc *service.PostService
}

type CreatePostReq struct {
	Title   string `json:"title" binding:"required,max=200"`
	Content string `json:"content" binding:"required"`
	Tags    string `json:"tags"`
}

type UpdatePostReq struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Tags    *string `json:"tags"`
}

func NewPostHandler(db *gorm.DB) *PostHandler {
	return &PostHandler{
		svc: service.NewPostService(db),
	}
}

func (h *PostHandler) Create(c *gin.Context) {
	var req CreatePostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"kind": pkg.KindValidation, "msg": "invalid params"})
		return
	}

	post, err := h.svc.CreatePost(middleware.UserID(c), req.Title, req.Content, req.Tags)
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *PostHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		pkg.WriteError(c, err)
		return
	}

	post, err := h.svc.GetPost(id)
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// List 帖子流，时间倒序游标分页
func (h *PostHandler) List(c *gin.Context) {
	lastID, lastTime, size := parseCursor(c)

	posts, nextID, nextTime, err := h.svc.ListPosts(c.Query("search"), lastID, lastTime, size)
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": posts, "last_id": nextID, "last_time": nextTime})
}

// Feed 关注流：仅我关注的人发的帖子
func (h *PostHandler) Feed(c *gin.Context) {
	lastID, lastTime, size := parseCursor(c)

	posts, nextID, nextTime, err := h.svc.Feed(c.Request.Context(), middleware.UserID(c), lastID, lastTime, size)
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": posts, "last_id": nextID, "last_time": nextTime})
}

func (h *PostHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		pkg.WriteError(c, err)
		return
	}

	var req UpdatePostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"kind": pkg.KindValidation, "msg": "invalid params"})
		return
	}

	post, err := h.svc.UpdatePost(middleware.UserID(c), middleware.Role(c), id, service.UpdatePostInput{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	})
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		pkg.WriteError(c, err)
		return
	}

	if err := h.svc.DeletePost(c.Request.Context(), middleware.UserID(c), middleware.Role(c), id); err != nil {
		pkg.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
