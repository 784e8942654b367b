package model

import "time"

type User struct {
	ID             uint64 `gorm:"primaryKey" json:"id"`
	Username       string `gorm:"uniqueIndex;size:32;not null" json:"username"`
	Password       string `gorm:"size:255;not null" json:"-"`
	Email          string `gorm:"uniqueIndex;size:64;not null" json:"email"`
	Role           int    `gorm:"not null;default:0" json:"role"` // 0=member, 1=librarian, 2=admin
	Bio            string `gorm:"size:255" json:"bio"`
	FollowingCount int64  `gorm:"not null;default:0" json:"following_count"`
	FollowerCount  int64  `gorm:"not null;default:0" json:"follower_count"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
