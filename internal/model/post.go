package model

import (
	"fmt"
	"time"
)

// Post 帖子，content_url 指向外部存储的媒体文件
type Post struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ContentURL string    `gorm:"column:content_url;type:varchar(255);not null" json:"content_url" validate:"required"`
	Caption    *string   `gorm:"type:text" json:"caption,omitempty"`
	CreatedAt  time.Time `gorm:"autoCreateTime;default:CURRENT_TIMESTAMP;index:idx_post_user_created,priority:2" json:"created_at"`
	UserID     uint      `gorm:"not null;index:idx_post_user_created,priority:1" json:"user_id" validate:"required"`

	Author   *User     `gorm:"foreignKey:UserID" json:"author,omitempty" validate:"-"`
	Comments []Comment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"comments,omitempty" validate:"-"`
	Likes    []Like    `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"likes,omitempty" validate:"-"`
}

func (Post) TableName() string { return "posts" }

// String 作者已加载时带上用户名
func (p Post) String() string {
	if p.Author != nil {
		return fmt.Sprintf("<Post %d by %s>", p.ID, p.Author.Username)
	}
	return fmt.Sprintf("<Post %d>", p.ID)
}
