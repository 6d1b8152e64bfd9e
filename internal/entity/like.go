package entity

import (
	"time"

	"github.com/google/uuid"
)

// Like is keyed by (post_id, user_id); the composite primary key is the
// one-like-per-pair constraint.
type Like struct {
	PostID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"post_id"`
	Post      *Post     `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	UserID    string    `gorm:"size:255;primaryKey" json:"user_id"`
	User      *Profile  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Like) TableName() string { return "likes" }
