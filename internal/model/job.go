package model

import "time"

// 投递方式
const (
	ApplyMethodEmail = "email"
	ApplyMethodURL   = "url"
)

// 申请状态，只能沿 pending -> reviewed -> accepted/rejected 前进
const (
	ApplicationPending  = "pending"
	ApplicationReviewed = "reviewed"
	ApplicationAccepted = "accepted"
	ApplicationRejected = "rejected"
)

type Job struct {
	ID               uint64 `gorm:"primaryKey"`
	PostedByID       uint64 `gorm:"not null;index"`
	PosterName       string `gorm:"size:64;not null"`
	PosterUsername   string `gorm:"size:32;not null"`
	Title            string `gorm:"size:200;not null"`
	Company          string `gorm:"size:128"`
	Type             string `gorm:"size:32;index"` // full-time / part-time / contract / freelance
	Category         string `gorm:"size:32;index"`
	Location         string `gorm:"size:128;index"`
	Description      string `gorm:"type:text"`
	ApplyMethod      string `gorm:"size:16;not null"`  // email / url
	ApplyTarget      string `gorm:"size:255;not null"` // 邮箱地址或投递链接
	RelatedProjectID *uint64 `gorm:"index"`
	ExpiresAt        *time.Time `gorm:"index"`
	// 不带 default 标签：gorm 建表默认值会吞掉插入时显式写入的 false
	IsActive         bool   `gorm:"not null"`
	ApplicationCount int64  `gorm:"not null;default:0"` // 派生值
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type JobApplication struct {
	ID                uint64 `gorm:"primaryKey"`
	JobID             uint64 `gorm:"not null;index"`
	ApplicantID       uint64 `gorm:"not null;index"`
	ApplicantName     string `gorm:"size:64;not null"`
	ApplicantUsername string `gorm:"size:32;not null"`
	CoverLetter       string `gorm:"type:text"`
	Status            string `gorm:"size:16;not null;default:'pending'"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
