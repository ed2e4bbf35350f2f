package model

import (
	"fmt"
	"time"
)

// LikeUniqueIndex 同一用户对同一帖子只能点赞一次
const LikeUniqueIndex = "unique_user_post_like"

// Like 点赞
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime;default:CURRENT_TIMESTAMP" json:"created_at"`
	PostID    uint      `gorm:"not null;uniqueIndex:unique_user_post_like,priority:2;index:idx_like_post" json:"post_id" validate:"required"`
	UserID    uint      `gorm:"not null;uniqueIndex:unique_user_post_like,priority:1" json:"user_id" validate:"required"`
	// 复合唯一键 unique_user_post_like = (user_id, post_id)，user_id 前缀同时服务按用户查询

	Post  *Post `gorm:"foreignKey:PostID" json:"post,omitempty" validate:"-"`
	Liker *User `gorm:"foreignKey:UserID" json:"liker,omitempty" validate:"-"`
}

func (Like) TableName() string { return "likes" }

func (l Like) String() string { return fmt.Sprintf("<Like by User %d on Post %d>", l.UserID, l.PostID) }
