package handler

import (
	"strconv"

	"Lin_BookClub/internal/pkg"

	"github.com/gin-gonic/gin"
)

// parseID 解析路径里的 :id
func parseID(c *gin.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, pkg.NewError(pkg.KindValidation, "invalid id")
	}
	return id, nil
}

// parseCursor 游标分页参数：last_id + last_time(unix纳秒)，首页全零
func parseCursor(c *gin.Context) (lastID uint64, lastTime int64, size int) {
	lastID, _ = strconv.ParseUint(c.Query("last_id"), 10, 64)
	lastTime, _ = strconv.ParseInt(c.Query("last_time"), 10, 64)
	size, _ = strconv.Atoi(c.DefaultQuery("size", "20"))
	return
}
