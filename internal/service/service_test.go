package service

import (
	"errors"
	"testing"

	"Lin_BookClub/internal/model"
	"Lin_BookClub/internal/pkg"
	"Lin_BookClub/internal/repository/mysql"
	redisrepo "Lin_BookClub/internal/repository/redis"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, mysql.AutoMigrate(db))
	return db
}

func testRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	old := redisrepo.Client
	redisrepo.Client = goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = redisrepo.Client.Close()
		redisrepo.Client = old
	})
	return mr
}

func seedUser(t *testing.T, db *gorm.DB, username string, role pkg.Role) *model.User {
	t.Helper()
	u := &model.User{
		Username: username,
		Password: "x",
		Email:    username + "@example.com",
		Role:     int(role),
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// kindOf 取错误分类，非 AppError 返回空串
func kindOf(err error) pkg.Kind {
	var appErr *pkg.AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}
