package service

import (
	"context"
	"errors"

	"Tabletop_Community/internal/model"
	"Tabletop_Community/internal/repository/mysql"
	"Tabletop_Community/internal/repository/redis"

	"gorm.io/gorm"
)

type ProjectService struct {
	repo      *mysql.ProjectRepository
	userRepo  *mysql.UserRepository
	viewCache *redis.ViewCacheRepository
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{
		repo:      &mysql.ProjectRepository{DB: db},
		userRepo:  &mysql.UserRepository{DB: db},
		viewCache: redis.NewViewCacheRepository(),
	}
}

// stageNext 阶段推进图，cancelled 可从任意非终态进入
var stageNext = map[string]string{
	model.StageConcept:     model.StageDevelopment,
	model.StageDevelopment: model.StagePlaytesting,
	model.StagePlaytesting: model.StageProduction,
	model.StageProduction:  model.StagePublished,
}

func validStageChange(cur, next string) bool {
	if cur == model.StagePublished || cur == model.StageCancelled {
		return false
	}
	if next == model.StageCancelled {
		return true
	}
	return stageNext[cur] == next
}

func validVisibility(v string) bool {
	switch v {
	case model.VisibilityPublic, model.VisibilityPrivate, model.VisibilityMembersOnly:
		return true
	}
	return false
}

type CreateProjectInput struct {
	Title       string
	Description string
	Visibility  string
	Tags        string
	Complexity  *int
}

func (s *ProjectService) CreateProject(ctx context.Context, callerID uint64, in CreateProjectInput) (*model.Project, error) {
	if callerID == 0 {
		return nil, ErrUnauthenticated
	}
	if in.Title == "" {
		return nil, errors.New("title required")
	}
	if in.Visibility == "" {
		in.Visibility = model.VisibilityPublic
	}
	if !validVisibility(in.Visibility) {
		return nil, errors.New("invalid visibility")
	}
	if in.Complexity != nil && (*in.Complexity < 1 || *in.Complexity > 5) {
		return nil, errors.New("complexity must be between 1 and 5")
	}

	// 展示字段写入时从用户表取，不信任请求里带的
	creator, err := s.userRepo.FindByID(callerID)
	if err != nil {
		return nil, ErrNotFound
	}

	p := &model.Project{
		OwnerID:         creator.ID,
		CreatorName:     creator.Name,
		CreatorUsername: creator.Username,
		CreatorAvatar:   creator.Avatar,
		Title:           in.Title,
		Description:     in.Description,
		Stage:           model.StageConcept,
		Visibility:      in.Visibility,
		Tags:            in.Tags,
		Complexity:      in.Complexity,
	}
	if err := s.repo.Create(p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateStage 按推进图变更阶段，published/cancelled 为终态
func (s *ProjectService) UpdateStage(ctx context.Context, callerID, projectID uint64, next string) (*model.Project, error) {
	p, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != callerID {
		return nil, ErrPermissionDenied
	}
	if !validStageChange(p.Stage, next) {
		return nil, ErrInvalidStageTransition
	}
	affected, err := s.repo.UpdateStage(ctx, projectID, p.Stage, next)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		// 阶段已被并发修改
		return nil, ErrConflict
	}
	return s.findProject(projectID)
}

type UpdateProjectInput struct {
	Title       *string
	Description *string
	Visibility  *string
	Tags        *string
	Complexity  *int
}

// UpdateProject 所有者更新元数据，只动提交的字段
func (s *ProjectService) UpdateProject(ctx context.Context, callerID, projectID uint64, in UpdateProjectInput) (*model.Project, error) {
	p, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != callerID {
		return nil, ErrPermissionDenied
	}

	fields := map[string]any{}
	if in.Title != nil {
		if *in.Title == "" {
			return nil, errors.New("title required")
		}
		fields["title"] = *in.Title
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Visibility != nil {
		if !validVisibility(*in.Visibility) {
			return nil, errors.New("invalid visibility")
		}
		fields["visibility"] = *in.Visibility
	}
	if in.Tags != nil {
		fields["tags"] = *in.Tags
	}
	if in.Complexity != nil {
		if *in.Complexity < 1 || *in.Complexity > 5 {
			return nil, errors.New("complexity must be between 1 and 5")
		}
		fields["complexity"] = *in.Complexity
	}
	if len(fields) == 0 {
		return p, nil
	}
	if err := s.repo.UpdateFields(ctx, projectID, fields); err != nil {
		return nil, err
	}
	return s.findProject(projectID)
}

// Follow 幂等：重复关注直接返回当前快照
func (s *ProjectService) Follow(ctx context.Context, callerID, projectID uint64) (*model.Project, error) {
	p, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}
	if p.Visibility == model.VisibilityPrivate && p.OwnerID != callerID {
		return nil, ErrPermissionDenied
	}
	if _, err := s.repo.Follow(ctx, projectID, callerID); err != nil {
		return nil, err
	}
	return s.findProject(projectID)
}

func (s *ProjectService) Unfollow(ctx context.Context, callerID, projectID uint64) (*model.Project, error) {
	if _, err := s.findProject(projectID); err != nil {
		return nil, err
	}
	if _, err := s.repo.Unfollow(ctx, projectID, callerID); err != nil {
		return nil, err
	}
	return s.findProject(projectID)
}

func (s *ProjectService) Like(ctx context.Context, callerID, projectID uint64) (*model.Project, error) {
	p, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}
	if p.Visibility == model.VisibilityPrivate && p.OwnerID != callerID {
		return nil, ErrPermissionDenied
	}
	if _, err := s.repo.Like(ctx, projectID, callerID); err != nil {
		return nil, err
	}
	return s.findProject(projectID)
}

// RecordView 公开项目无需登录；私有项目仅所有者，members-only 需要登录
func (s *ProjectService) RecordView(ctx context.Context, callerID, projectID uint64) (*model.Project, error) {
	p, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}
	switch p.Visibility {
	case model.VisibilityPrivate:
		if p.OwnerID != callerID {
			return nil, ErrPermissionDenied
		}
	case model.VisibilityMembersOnly:
		if callerID == 0 {
			return nil, ErrPermissionDenied
		}
	}
	if err := s.repo.IncrementView(ctx, projectID); err != nil {
		return nil, err
	}
	// 热计数尽力而为
	_ = s.viewCache.IncrView(ctx, projectID)
	return s.findProject(projectID)
}

func (s *ProjectService) AddJournalEntry(ctx context.Context, callerID, projectID uint64, title, content string) (*model.JournalEntry, error) {
	if title == "" {
		return nil, errors.New("title required")
	}
	p, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != callerID {
		return nil, ErrPermissionDenied
	}
	entry := &model.JournalEntry{ProjectID: projectID, Title: title, Content: content}
	if err := s.repo.AddJournalEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *ProjectService) AddGalleryImage(ctx context.Context, callerID, projectID uint64, url, caption string) (*model.GalleryImage, error) {
	if url == "" {
		return nil, errors.New("image url required")
	}
	p, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != callerID {
		return nil, ErrPermissionDenied
	}
	img := &model.GalleryImage{ProjectID: projectID, URL: url, Caption: caption}
	if err := s.repo.AddGalleryImage(ctx, img); err != nil {
		return nil, err
	}
	return img, nil
}

// ResetCounters 审核操作，仅管理员；是计数单调性的唯一例外
func (s *ProjectService) ResetCounters(ctx context.Context, callerRole int, projectID uint64) (*model.Project, error) {
	if callerRole < 1 {
		return nil, ErrPermissionDenied
	}
	if _, err := s.findProject(projectID); err != nil {
		return nil, err
	}
	if err := s.repo.ResetCounters(ctx, projectID); err != nil {
		return nil, err
	}
	return s.findProject(projectID)
}

func (s *ProjectService) GetProject(ctx context.Context, callerID, projectID uint64) (*model.Project, error) {
	p, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}
	if p.Visibility == model.VisibilityPrivate && p.OwnerID != callerID {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *ProjectService) ListJournal(ctx context.Context, projectID uint64) ([]model.JournalEntry, error) {
	return s.repo.ListJournal(ctx, projectID)
}

func (s *ProjectService) ListGallery(ctx context.Context, projectID uint64) ([]model.GalleryImage, error) {
	return s.repo.ListGallery(ctx, projectID)
}

func (s *ProjectService) findProject(id uint64) (*model.Project, error) {
	p, err := s.repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}
