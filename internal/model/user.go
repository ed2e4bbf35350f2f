package model

import (
	"fmt"
	"time"
)

// User 用户。删除用户时级联删除其帖子、评论、点赞（数据库 ON DELETE CASCADE）
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"type:varchar(80);uniqueIndex;not null" json:"username" validate:"required"`
	Email          string    `gorm:"type:varchar(120);uniqueIndex;not null" json:"email" validate:"required"`
	PasswordHash   string    `gorm:"type:varchar(255);not null" json:"-" validate:"required"`
	ProfilePicture *string   `gorm:"type:varchar(255)" json:"profile_picture,omitempty"`
	Bio            *string   `gorm:"type:text" json:"bio,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime;default:CURRENT_TIMESTAMP" json:"created_at"`

	Posts    []Post    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"posts,omitempty" validate:"-"`
	Comments []Comment `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"comments,omitempty" validate:"-"`
	Likes    []Like    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"likes,omitempty" validate:"-"`
}

func (User) TableName() string { return "users" }

func (u User) String() string { return fmt.Sprintf("<User %s>", u.Username) }
