package entity

import "time"

// Follow is a directed edge: FollowerID follows FollowingID. At most one edge
// per ordered pair; self edges are not rejected here.
type Follow struct {
	FollowerID  string    `gorm:"size:255;primaryKey" json:"follower_id"`
	Follower    *Profile  `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"-"`
	FollowingID string    `gorm:"size:255;primaryKey;index" json:"following_id"`
	Following   *Profile  `gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Follow) TableName() string { return "follows" }
