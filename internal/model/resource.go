package model

import "time"

// 资源审核状态
const (
	ResourcePending  = "pending"
	ResourceApproved = "approved"
	ResourceRejected = "rejected"
)

type Resource struct {
	ID                uint64 `gorm:"primaryKey"`
	SubmittedByID     uint64 `gorm:"not null;index"`
	SubmitterName     string `gorm:"size:64;not null"`
	SubmitterUsername string `gorm:"size:32;not null"`
	Title             string `gorm:"size:200;not null"`
	URL               string `gorm:"size:500;not null"`
	Category          string `gorm:"size:32;index"`
	Description       string `gorm:"type:text"`
	Status            string `gorm:"size:16;not null;default:'pending';index"`
	Rating            float64 `gorm:"not null;default:0"` // 派生值，评分均值截断到一位小数
	ReviewCount       int64   `gorm:"not null;default:0"` // 派生值
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type ResourceReview struct {
	ID               uint64 `gorm:"primaryKey"`
	ResourceID       uint64 `gorm:"not null;index;uniqueIndex:uk_resource_user"`
	UserID           uint64 `gorm:"not null;index;uniqueIndex:uk_resource_user"`
	ReviewerName     string `gorm:"size:64;not null"`
	ReviewerUsername string `gorm:"size:32;not null"`
	Rating           int    `gorm:"not null"` // 1-5
	Comment          string `gorm:"type:text"`
	Helpful          int64  `gorm:"not null;default:0"` // 非负
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
