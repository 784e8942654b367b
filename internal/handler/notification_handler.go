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

type NotificationHandler struct {
	svc *service.NotificationService
}

func NewNotificationHandler(db *gorm.DB) *NotificationHandler {
	return &NotificationHandler{
		svc: service.NewNotificationService(db),
	}
}

// List 我的通知，新的在前
func (h *NotificationHandler) List(c *gin.Context) {
	cursor, _ := strconv.ParseUint(c.Query("last_id"), 10, 64)
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	unreadOnly := c.Query("unread") == "true"

	list, next, err := h.svc.List(c.Request.Context(), middleware.UserID(c), unreadOnly, cursor, size)
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list, "last_id": next})
}

// MarkRead 仅收件人可标记
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		pkg.WriteError(c, err)
		return
	}

	if err := h.svc.MarkRead(c.Request.Context(), middleware.UserID(c), id); err != nil {
		pkg.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	n, err := h.svc.MarkAllRead(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}
