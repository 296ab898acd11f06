package service

import (
	"context"
	"time"

	"Tabletop_Community/internal/model"
	"Tabletop_Community/internal/repository/mysql"

	"gorm.io/gorm"
)

// QueryService 只读门面：跨实体族的过滤查询，不做任何写入
type QueryService struct {
	projects  *mysql.ProjectRepository
	events    *mysql.EventRepository
	jobs      *mysql.JobRepository
	resources *mysql.ResourceRepository
}

func NewQueryService(db *gorm.DB) *QueryService {
	return &QueryService{
		projects:  &mysql.ProjectRepository{DB: db},
		events:    &mysql.EventRepository{DB: db},
		jobs:      &mysql.JobRepository{DB: db},
		resources: &mysql.ResourceRepository{DB: db},
	}
}

func clampPage(page, size int) (offset, limit int) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}
	return (page - 1) * size, size
}

type ProjectFilter struct {
	Stage  string
	Tag    string
	Search string
	Page   int
	Size   int
}

// Projects 非管理员只能看到公开项目
func (s *QueryService) Projects(ctx context.Context, callerRole int, f ProjectFilter) ([]model.Project, error) {
	offset, limit := clampPage(f.Page, f.Size)
	return s.projects.List(ctx, f.Stage, f.Tag, f.Search, callerRole < 1, offset, limit)
}

type EventFilter struct {
	Category string
	From     *time.Time
	To       *time.Time
	Page     int
	Size     int
}

func (s *QueryService) Events(ctx context.Context, f EventFilter) ([]model.Event, error) {
	offset, limit := clampPage(f.Page, f.Size)
	return s.events.List(ctx, f.Category, f.From, f.To, offset, limit)
}

type JobFilter struct {
	Type     string
	Category string
	Location string
	Page     int
	Size     int
}

// Jobs 只返回在招岗位
func (s *QueryService) Jobs(ctx context.Context, f JobFilter) ([]model.Job, error) {
	offset, limit := clampPage(f.Page, f.Size)
	return s.jobs.List(ctx, f.Type, f.Category, f.Location, offset, limit)
}

type ResourceFilter struct {
	Category string
	Status   string // 仅管理员可指定
	Page     int
	Size     int
}

// Resources 普通查询只见 approved；管理员可按状态过滤审核队列
func (s *QueryService) Resources(ctx context.Context, callerRole int, f ResourceFilter) ([]model.Resource, error) {
	status := model.ResourceApproved
	if callerRole >= 1 && f.Status != "" {
		status = f.Status
	}
	offset, limit := clampPage(f.Page, f.Size)
	return s.resources.List(ctx, f.Category, status, offset, limit)
}
