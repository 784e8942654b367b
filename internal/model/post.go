package model

import "time"

type Post struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	AuthorID  uint64    `gorm:"not null;index:idx_author_time" json:"author_id"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Content   string    `gorm:"type:text" json:"content"`
	Tags      string    `gorm:"size:255" json:"tags"` // 逗号分隔
	LikeCount int64     `gorm:"not null;default:0" json:"like_count"`
	CreatedAt time.Time `gorm:"index:idx_author_time" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Comment struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	PostID    uint64    `gorm:"not null;index" json:"post_id"`
	AuthorID  uint64    `gorm:"not null;index" json:"author_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
