package model

import "time"

// RSVP 状态
const (
	RSVPGoing    = "going"
	RSVPMaybe    = "maybe"
	RSVPNotGoing = "not-going"
	RSVPWaitlist = "waitlist"
)

type Event struct {
	ID                uint64 `gorm:"primaryKey"`
	OrganizerID       uint64 `gorm:"not null;index"`
	OrganizerName     string `gorm:"size:64;not null"`
	OrganizerUsername string `gorm:"size:32;not null"`
	Title             string `gorm:"size:200;not null"`
	Description       string `gorm:"type:text"`
	Category          string `gorm:"size:32;index"`
	Location          string `gorm:"size:255"`
	StartDate         time.Time `gorm:"not null;index"`
	EndDate           *time.Time
	MaxAttendees      *int       // 为空表示不限人数，仅约束 going
	RSVPDeadline      *time.Time // 必须 <= StartDate
	RequiresApproval  bool       `gorm:"not null;default:false"`
	CurrentAttendees  int        `gorm:"not null;default:0"` // 派生值 = going 人数
	Version           uint64     `gorm:"not null;default:0"` // 乐观锁版本号
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type EventAttendee struct {
	ID              uint64 `gorm:"primaryKey"`
	EventID         uint64 `gorm:"not null;index;uniqueIndex:uk_event_user"`
	UserID          uint64 `gorm:"not null;index;uniqueIndex:uk_event_user"`
	Name            string `gorm:"size:64;not null"`
	Username        string `gorm:"size:32;not null"`
	RSVPStatus      string `gorm:"size:16;not null"`
	PendingApproval bool   `gorm:"not null;default:false"` // requiresApproval 时的待审批标记
	RSVPDate        time.Time `gorm:"not null;index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
