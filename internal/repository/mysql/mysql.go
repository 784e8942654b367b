package mysql

import (
	"Lin_BookClub/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB 连接 MySQL；TranslateError 让唯一约束冲突统一成 gorm.ErrDuplicatedKey
func InitDB(dsn string) error {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return err
	}
	DB = db
	return nil
}

// AutoMigrate 自动建表（开发阶段 OK），测试里对 SQLite 复用
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Author{},
		&model.Book{},
		&model.Post{},
		&model.Comment{},
		&model.PostLike{},
		&model.Follow{},
		&model.Notification{},
		&model.NotificationOutbox{},
	)
}
