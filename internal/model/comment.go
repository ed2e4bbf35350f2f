package model

import (
	"fmt"
	"time"
)

// Comment 评论，随帖子或评论者一起级联删除
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content" validate:"required"`
	CreatedAt time.Time `gorm:"autoCreateTime;default:CURRENT_TIMESTAMP" json:"created_at"`
	PostID    uint      `gorm:"not null;index:idx_comment_post" json:"post_id" validate:"required"`
	UserID    uint      `gorm:"not null;index:idx_comment_user" json:"user_id" validate:"required"`

	Post      *Post `gorm:"foreignKey:PostID" json:"post,omitempty" validate:"-"`
	Commenter *User `gorm:"foreignKey:UserID" json:"commenter,omitempty" validate:"-"`
}

func (Comment) TableName() string { return "comments" }

func (c Comment) String() string { return fmt.Sprintf("<Comment %d on Post %d>", c.ID, c.PostID) }
