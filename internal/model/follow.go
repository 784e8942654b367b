package model

import "time"

type Follow struct {
	ID         uint64 `gorm:"primaryKey" json:"id"`
	FollowerID uint64 `gorm:"not null;index:idx_follower_id;uniqueIndex:uk_follower_followee" json:"follower_id"`
	FolloweeID uint64 `gorm:"not null;index:idx_followee_id;uniqueIndex:uk_follower_followee" json:"followee_id"`
	Status     int8   `gorm:"not null;default:1;comment:'1=follow,0=unfollow'" json:"status"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName sets table name for Follow
func (Follow) TableName() string {
	return "follow"
}
