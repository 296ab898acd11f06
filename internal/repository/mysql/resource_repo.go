package mysql

import (
	"context"
	"math"

	"Tabletop_Community/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ResourceRepository struct {
	DB *gorm.DB
}

func (r *ResourceRepository) Create(res *model.Resource) error {
	return r.DB.Create(res).Error
}

func (r *ResourceRepository) FindByID(id uint64) (*model.Resource, error) {
	var res model.Resource
	err := r.DB.First(&res, id).Error
	return &res, err
}

func (r *ResourceRepository) FindReview(id uint64) (*model.ResourceReview, error) {
	var review model.ResourceReview
	err := r.DB.First(&review, id).Error
	return &review, err
}

// Moderate 终态裁决：仅 pending 可被裁决，RowsAffected=0 表示已裁决过
func (r *ResourceRepository) Moderate(ctx context.Context, id uint64, decision string, moderatorID uint64) (int64, error) {
	var affected int64
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Resource{}).
			Where("id = ? AND status = ?", id, model.ResourcePending).
			Update("status", decision)
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		if affected == 0 {
			return nil
		}
		return insertOutbox(tx, "moderate", "resource", id, moderatorID)
	})
	return affected, err
}

// AddReview (resource_id, user_id) 唯一；新增成功后同事务重算 rating 与 review_count
func (r *ResourceRepository) AddReview(ctx context.Context, review *model.ResourceReview) (bool, error) {
	var created bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "resource_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).Create(review)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		created = true
		return r.syncRating(tx, review.ResourceID)
	})
	return created, err
}

// syncRating 均值从全量评论重算并截断到一位小数，不做增量累计
func (r *ResourceRepository) syncRating(tx *gorm.DB, resourceID uint64) error {
	var n int64
	if err := tx.Model(&model.ResourceReview{}).
		Where("resource_id = ?", resourceID).
		Count(&n).Error; err != nil {
		return err
	}
	var total int64
	if err := tx.Model(&model.ResourceReview{}).
		Where("resource_id = ?", resourceID).
		Select("COALESCE(SUM(rating), 0)").
		Scan(&total).Error; err != nil {
		return err
	}
	rating := 0.0
	if n > 0 {
		rating = math.Trunc(float64(total)/float64(n)*10) / 10
	}
	return tx.Model(&model.Resource{}).Where("id = ?", resourceID).
		Updates(map[string]any{"rating": rating, "review_count": n}).Error
}

// MarkHelpful 有用数自增，目标不存在时 RowsAffected=0
func (r *ResourceRepository) MarkHelpful(ctx context.Context, reviewID uint64) (int64, error) {
	tx := r.DB.WithContext(ctx).Model(&model.ResourceReview{}).
		Where("id = ?", reviewID).
		UpdateColumn("helpful", gorm.Expr("helpful + 1"))
	return tx.RowsAffected, tx.Error
}

func (r *ResourceRepository) ListReviews(ctx context.Context, resourceID uint64) ([]model.ResourceReview, error) {
	var list []model.ResourceReview
	err := r.DB.WithContext(ctx).
		Where("resource_id = ?", resourceID).
		Order("id DESC").
		Find(&list).Error
	return list, err
}

// List 列表查询；status 为空时由调用方决定可见范围
func (r *ResourceRepository) List(ctx context.Context, category, status string, offset, limit int) ([]model.Resource, error) {
	q := r.DB.WithContext(ctx).Model(&model.Resource{})
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var list []model.Resource
	err := q.Order("id DESC").Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}
