package model

import "time"

// ActivityOutbox 社区活动事件表，与业务写入同事务落库，异步投递 kafka
type ActivityOutbox struct {
	ID         uint64 `gorm:"primaryKey"`
	EventType  string `gorm:"size:32;not null"` // rsvp / rsvp_cancel / waitlist_promote / moderate / follow
	EntityKind string `gorm:"size:16;not null"` // event / project / resource
	EntityID   uint64 `gorm:"not null"`
	ActorID    uint64 `gorm:"not null"`
	Payload    string `gorm:"type:json;not null"`
	Status     int8   `gorm:"not null;default:0;comment:'0=pending,1=sent,2=failed'"`
	Retry      int    `gorm:"not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (ActivityOutbox) TableName() string { return "activity_outbox" }
