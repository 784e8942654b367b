package model

import "time"

type Author struct {
	ID        uint64 `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"size:255;not null;index" json:"name"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Book struct {
	ID              uint64  `gorm:"primaryKey" json:"id"`
	AuthorID        uint64  `gorm:"not null;index" json:"author_id"`
	Title           string  `gorm:"size:255;not null" json:"title"`
	PublicationYear int     `gorm:"not null;index" json:"publication_year"`
	ISBN            *string `gorm:"size:13;uniqueIndex" json:"isbn,omitempty"` // NULL允许重复，非空唯一
	CreatedBy       uint64  `gorm:"not null;index" json:"created_by"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
