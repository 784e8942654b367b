package mysql

import (
	"testing"

	"Lin_BookClub/internal/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testDB 每个测试一份内存库；TranslateError 让 SQLite 的唯一约束冲突
// 与 MySQL 一样映射成 gorm.ErrDuplicatedKey
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	u := &model.User{
		Username: username,
		Password: "x",
		Email:    username + "@example.com",
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedPost(t *testing.T, db *gorm.DB, authorID uint64, title string) *model.Post {
	t.Helper()
	p := &model.Post{
		AuthorID: authorID,
		Title:    title,
		Content:  "content of " + title,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}
