package service

import (
	"context"
	"errors"

	"Tabletop_Community/internal/model"
	"Tabletop_Community/internal/repository/mysql"

	"gorm.io/gorm"
)

type ResourceService struct {
	repo     *mysql.ResourceRepository
	userRepo *mysql.UserRepository
}

func NewResourceService(db *gorm.DB) *ResourceService {
	return &ResourceService{
		repo:     &mysql.ResourceRepository{DB: db},
		userRepo: &mysql.UserRepository{DB: db},
	}
}

type SubmitResourceInput struct {
	Title       string
	URL         string
	Category    string
	Description string
}

// Submit 新资源一律进入 pending，等待审核
func (s *ResourceService) Submit(ctx context.Context, callerID uint64, in SubmitResourceInput) (*model.Resource, error) {
	if callerID == 0 {
		return nil, ErrUnauthenticated
	}
	if in.Title == "" || in.URL == "" {
		return nil, errors.New("title and url required")
	}

	submitter, err := s.userRepo.FindByID(callerID)
	if err != nil {
		return nil, ErrNotFound
	}

	res := &model.Resource{
		SubmittedByID:     submitter.ID,
		SubmitterName:     submitter.Name,
		SubmitterUsername: submitter.Username,
		Title:             in.Title,
		URL:               in.URL,
		Category:          in.Category,
		Description:       in.Description,
		Status:            model.ResourcePending,
	}
	if err := s.repo.Create(res); err != nil {
		return nil, err
	}
	return res, nil
}

// Moderate 终态裁决，仅管理员；approved/rejected 之后不可再裁决
func (s *ResourceService) Moderate(ctx context.Context, callerID uint64, callerRole int, resourceID uint64, decision string) (*model.Resource, error) {
	if callerRole < 1 {
		return nil, ErrPermissionDenied
	}
	if decision != model.ResourceApproved && decision != model.ResourceRejected {
		return nil, errors.New("decision must be approved or rejected")
	}
	if _, err := s.findResource(resourceID); err != nil {
		return nil, err
	}
	affected, err := s.repo.Moderate(ctx, resourceID, decision, callerID)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrAlreadyModerated
	}
	return s.findResource(resourceID)
}

// AddReview 每人对同一资源只能评一次；rating 与 review_count 同事务重算
func (s *ResourceService) AddReview(ctx context.Context, callerID, resourceID uint64, rating int, comment string) (*model.ResourceReview, error) {
	if callerID == 0 {
		return nil, ErrUnauthenticated
	}
	if rating < 1 || rating > 5 {
		return nil, errors.New("rating must be between 1 and 5")
	}
	res, err := s.findResource(resourceID)
	if err != nil {
		return nil, err
	}
	if res.Status != model.ResourceApproved {
		return nil, ErrNotFound
	}

	reviewer, err := s.userRepo.FindByID(callerID)
	if err != nil {
		return nil, ErrNotFound
	}

	review := &model.ResourceReview{
		ResourceID:       resourceID,
		UserID:           reviewer.ID,
		ReviewerName:     reviewer.Name,
		ReviewerUsername: reviewer.Username,
		Rating:           rating,
		Comment:          comment,
	}
	created, err := s.repo.AddReview(ctx, review)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, ErrDuplicateReview
	}
	return review, nil
}

func (s *ResourceService) MarkHelpful(ctx context.Context, reviewID uint64) (*model.ResourceReview, error) {
	affected, err := s.repo.MarkHelpful(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return s.repo.FindReview(reviewID)
}

func (s *ResourceService) ListReviews(ctx context.Context, resourceID uint64) ([]model.ResourceReview, error) {
	if _, err := s.findResource(resourceID); err != nil {
		return nil, err
	}
	return s.repo.ListReviews(ctx, resourceID)
}

// GetResource 未过审的资源只有提交者和管理员可见
func (s *ResourceService) GetResource(ctx context.Context, callerID uint64, callerRole int, resourceID uint64) (*model.Resource, error) {
	res, err := s.findResource(resourceID)
	if err != nil {
		return nil, err
	}
	if res.Status != model.ResourceApproved && res.SubmittedByID != callerID && callerRole < 1 {
		return nil, ErrNotFound
	}
	return res, nil
}

func (s *ResourceService) findResource(id uint64) (*model.Resource, error) {
	res, err := s.repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}
