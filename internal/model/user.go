package model

import "time"

type User struct {
	ID        uint64 `gorm:"primaryKey"`
	Username  string `gorm:"uniqueIndex;size:32;not null"`
	Password  string `gorm:"size:255;not null"`
	Name      string `gorm:"size:64;not null"`
	Avatar    string `gorm:"size:255"`
	Role      int    `gorm:"default:0"` // 0=member, 1=moderator
	Email     string `gorm:"uniqueIndex;size:64;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
