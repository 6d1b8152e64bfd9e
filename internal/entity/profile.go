package entity

import "time"

// Profile mirrors an identity-provider principal. ID is the provider subject id.
type Profile struct {
	ID              string    `gorm:"size:255;primaryKey" json:"id"`
	DisplayName     string    `gorm:"type:text;not null" json:"display_name"`
	Email           *string   `gorm:"size:255" json:"email,omitempty"`
	ProfileImageURL *string   `gorm:"type:text" json:"profile_image_url,omitempty"`
	Bio             *string   `gorm:"type:text" json:"bio,omitempty"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Profile) TableName() string { return "profiles" }
