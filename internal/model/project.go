package model

import "time"

// 项目阶段
const (
	StageConcept     = "concept"
	StageDevelopment = "development"
	StagePlaytesting = "playtesting"
	StageProduction  = "production"
	StagePublished   = "published"
	StageCancelled   = "cancelled"
)

// 可见性
const (
	VisibilityPublic      = "public"
	VisibilityPrivate     = "private"
	VisibilityMembersOnly = "members-only"
)

type Project struct {
	ID              uint64 `gorm:"primaryKey"`
	OwnerID         uint64 `gorm:"not null;index"`
	CreatorName     string `gorm:"size:64;not null"`
	CreatorUsername string `gorm:"size:32;not null"`
	CreatorAvatar   string `gorm:"size:255"`
	Title           string `gorm:"size:200;not null"`
	Description     string `gorm:"type:text"`
	Stage           string `gorm:"size:16;not null;default:'concept';index"`
	Visibility      string `gorm:"size:16;not null;default:'public'"`
	Tags            string `gorm:"size:255"` // 逗号分隔
	Complexity      *int   // 1-5，可空
	ViewCount       int64  `gorm:"not null;default:0"`
	LikeCount       int64  `gorm:"not null;default:0"`
	CommentCount    int64  `gorm:"not null;default:0"`
	FollowerCount   int64  `gorm:"not null;default:0"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type ProjectFollower struct {
	ID        uint64 `gorm:"primaryKey"`
	ProjectID uint64 `gorm:"not null;index;uniqueIndex:uk_project_follower"`
	UserID    uint64 `gorm:"not null;index;uniqueIndex:uk_project_follower"`
	CreatedAt time.Time
}

type ProjectLike struct {
	ID        uint64 `gorm:"primaryKey"`
	ProjectID uint64 `gorm:"not null;index;uniqueIndex:uk_project_like"`
	UserID    uint64 `gorm:"not null;index;uniqueIndex:uk_project_like"`
	CreatedAt time.Time
}

// GalleryImage 项目图册，仅通过项目操作维护
type GalleryImage struct {
	ID        uint64 `gorm:"primaryKey"`
	ProjectID uint64 `gorm:"not null;index"`
	URL       string `gorm:"size:500;not null"`
	Caption   string `gorm:"size:255"`
	Position  int    `gorm:"not null;default:0"`
	CreatedAt time.Time
}

// JournalEntry 开发日志，按创建时间排序
type JournalEntry struct {
	ID        uint64 `gorm:"primaryKey"`
	ProjectID uint64 `gorm:"not null;index"`
	Title     string `gorm:"size:200;not null"`
	Content   string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
