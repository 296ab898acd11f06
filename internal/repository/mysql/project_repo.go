package mysql

import (
	"context"

	"Tabletop_Community/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProjectRepository struct {
	DB *gorm.DB
}

func (r *ProjectRepository) Create(p *model.Project) error {
	return r.DB.Create(p).Error
}

func (r *ProjectRepository) FindByID(id uint64) (*model.Project, error) {
	var p model.Project
	err := r.DB.First(&p, id).Error
	return &p, err
}

// UpdateStage 条件更新：只有当前阶段仍是 from 时才生效，并发时靠 RowsAffected 判断
func (r *ProjectRepository) UpdateStage(ctx context.Context, id uint64, from, to string) (int64, error) {
	tx := r.DB.WithContext(ctx).Model(&model.Project{}).
		Where("id = ? AND stage = ?", id, from).
		Update("stage", to)
	return tx.RowsAffected, tx.Error
}

func (r *ProjectRepository) UpdateFields(ctx context.Context, id uint64, fields map[string]any) error {
	return r.DB.WithContext(ctx).Model(&model.Project{}).Where("id = ?", id).Updates(fields).Error
}

// Follow 幂等关注。真正新增关注时重算 follower_count，重复请求返回 changed=false
func (r *ProjectRepository) Follow(ctx context.Context, projectID, userID uint64) (bool, error) {
	var changed bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "project_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).Create(&model.ProjectFollower{ProjectID: projectID, UserID: userID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		changed = true
		if err := insertOutbox(tx, "follow", "project", projectID, userID); err != nil {
			return err
		}
		return r.syncFollowerCount(tx, projectID)
	})
	return changed, err
}

func (r *ProjectRepository) Unfollow(ctx context.Context, projectID, userID uint64) (bool, error) {
	var changed bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("project_id = ? AND user_id = ?", projectID, userID).
			Delete(&model.ProjectFollower{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		changed = true
		return r.syncFollowerCount(tx, projectID)
	})
	return changed, err
}

// syncFollowerCount follower_count 永远从关注集合重算，避免漂移
func (r *ProjectRepository) syncFollowerCount(tx *gorm.DB, projectID uint64) error {
	var n int64
	if err := tx.Model(&model.ProjectFollower{}).
		Where("project_id = ?", projectID).
		Count(&n).Error; err != nil {
		return err
	}
	return tx.Model(&model.Project{}).Where("id = ?", projectID).
		UpdateColumn("follower_count", n).Error
}

// Like 幂等点赞，like_count 同事务重算；不提供取消（计数只增不减）
func (r *ProjectRepository) Like(ctx context.Context, projectID, userID uint64) (bool, error) {
	var changed bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "project_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).Create(&model.ProjectLike{ProjectID: projectID, UserID: userID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		changed = true
		var n int64
		if err := tx.Model(&model.ProjectLike{}).
			Where("project_id = ?", projectID).
			Count(&n).Error; err != nil {
			return err
		}
		return tx.Model(&model.Project{}).Where("id = ?", projectID).
			UpdateColumn("like_count", n).Error
	})
	return changed, err
}

func (r *ProjectRepository) IsFollowing(ctx context.Context, projectID, userID uint64) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.ProjectFollower{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&n).Error
	return n > 0, err
}

func (r *ProjectRepository) IncrementView(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.Project{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

// ResetCounters 审核重置，计数单调性的唯一例外
func (r *ProjectRepository) ResetCounters(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.Project{}).
		Where("id = ?", id).
		Updates(map[string]any{"view_count": 0, "like_count": 0, "comment_count": 0}).Error
}

func (r *ProjectRepository) AddJournalEntry(ctx context.Context, entry *model.JournalEntry) error {
	return r.DB.WithContext(ctx).Create(entry).Error
}

// AddGalleryImage 追加到图册末尾，位置在同一事务内取 max+1
func (r *ProjectRepository) AddGalleryImage(ctx context.Context, img *model.GalleryImage) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxPos int64
		if err := tx.Model(&model.GalleryImage{}).
			Where("project_id = ?", img.ProjectID).
			Select("COALESCE(MAX(position), -1)").
			Scan(&maxPos).Error; err != nil {
			return err
		}
		img.Position = int(maxPos) + 1
		return tx.Create(img).Error
	})
}

func (r *ProjectRepository) ListJournal(ctx context.Context, projectID uint64) ([]model.JournalEntry, error) {
	var list []model.JournalEntry
	err := r.DB.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC, id ASC").
		Find(&list).Error
	return list, err
}

func (r *ProjectRepository) ListGallery(ctx context.Context, projectID uint64) ([]model.GalleryImage, error) {
	var list []model.GalleryImage
	err := r.DB.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("position ASC").
		Find(&list).Error
	return list, err
}

// List 列表查询，stage/tag/search 可选；publicOnly 时只返回公开项目
func (r *ProjectRepository) List(ctx context.Context, stage, tag, search string, publicOnly bool, offset, limit int) ([]model.Project, error) {
	q := r.DB.WithContext(ctx).Model(&model.Project{})
	if publicOnly {
		q = q.Where("visibility = ?", model.VisibilityPublic)
	}
	if stage != "" {
		q = q.Where("stage = ?", stage)
	}
	if tag != "" {
		q = q.Where("tags LIKE ?", "%"+tag+"%")
	}
	if search != "" {
		q = q.Where("title LIKE ? OR description LIKE ?", "%"+search+"%", "%"+search+"%")
	}
	var list []model.Project
	err := q.Order("id DESC").Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}
