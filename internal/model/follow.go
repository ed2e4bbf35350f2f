package model

import (
	"fmt"
	"time"
)

// Follow 关注关系（follower 关注 followee），复合主键 (follower_id, followee_id) 避免重复关注。
// 表结构不阻止 follower_id == followee_id。
type Follow struct {
	FollowerID uint      `gorm:"primaryKey;autoIncrement:false" json:"follower_id" validate:"required"`
	FolloweeID uint      `gorm:"primaryKey;autoIncrement:false;index:idx_follow_followee" json:"followee_id" validate:"required"`
	CreatedAt  time.Time `gorm:"autoCreateTime;default:CURRENT_TIMESTAMP" json:"created_at"`

	Follower *User `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"-" validate:"-"`
	Followee *User `gorm:"foreignKey:FolloweeID;constraint:OnDelete:CASCADE" json:"-" validate:"-"`
}

func (Follow) TableName() string { return "follows" }

func (f Follow) String() string {
	return fmt.Sprintf("<Follow: %d follows %d>", f.FollowerID, f.FolloweeID)
}
