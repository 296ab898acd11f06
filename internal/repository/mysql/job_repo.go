package mysql

import (
	"context"
	"time"

	"Tabletop_Community/internal/model"

	"gorm.io/gorm"
)

type JobRepository struct {
	DB *gorm.DB
}

func (r *JobRepository) Create(job *model.Job) error {
	return r.DB.Create(job).Error
}

func (r *JobRepository) FindByID(id uint64) (*model.Job, error) {
	var job model.Job
	err := r.DB.First(&job, id).Error
	return &job, err
}

func (r *JobRepository) FindApplication(id uint64) (*model.JobApplication, error) {
	var app model.JobApplication
	err := r.DB.First(&app, id).Error
	return &app, err
}

// Apply 同一事务内做重复申请检查、落库并重算 application_count。
// 已有未被拒绝的申请时返回 created=false
func (r *JobRepository) Apply(ctx context.Context, app *model.JobApplication) (bool, error) {
	var created bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.JobApplication{}).
			Where("job_id = ? AND applicant_id = ? AND status <> ?",
				app.JobID, app.ApplicantID, model.ApplicationRejected).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		if err := tx.Create(app).Error; err != nil {
			return err
		}
		created = true
		return r.syncApplicationCount(tx, app.JobID)
	})
	return created, err
}

// syncApplicationCount application_count 从申请集合重算
func (r *JobRepository) syncApplicationCount(tx *gorm.DB, jobID uint64) error {
	var n int64
	if err := tx.Model(&model.JobApplication{}).
		Where("job_id = ?", jobID).
		Count(&n).Error; err != nil {
		return err
	}
	return tx.Model(&model.Job{}).Where("id = ?", jobID).
		UpdateColumn("application_count", n).Error
}

// UpdateApplicationStatus 条件更新：当前状态仍为 from 时才生效
func (r *JobRepository) UpdateApplicationStatus(ctx context.Context, id uint64, from, to string) (int64, error) {
	tx := r.DB.WithContext(ctx).Model(&model.JobApplication{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return tx.RowsAffected, tx.Error
}

func (r *JobRepository) ListApplications(ctx context.Context, jobID uint64) ([]model.JobApplication, error) {
	var list []model.JobApplication
	err := r.DB.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("id ASC").
		Find(&list).Error
	return list, err
}

// ExpireDue 过期清扫，单条 UPDATE，可重复、可并发执行
func (r *JobRepository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	tx := r.DB.WithContext(ctx).Model(&model.Job{}).
		Where("is_active = ? AND expires_at IS NOT NULL AND expires_at <= ?", true, now).
		Update("is_active", false)
	return tx.RowsAffected, tx.Error
}

// List 列表查询，默认只返回在招岗位
func (r *JobRepository) List(ctx context.Context, jobType, category, location string, offset, limit int) ([]model.Job, error) {
	q := r.DB.WithContext(ctx).Model(&model.Job{}).Where("is_active = ?", true)
	if jobType != "" {
		q = q.Where("type = ?", jobType)
	}
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if location != "" {
		q = q.Where("location LIKE ?", "%"+location+"%")
	}
	var list []model.Job
	err := q.Order("id DESC").Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}
