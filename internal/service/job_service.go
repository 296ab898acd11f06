package service

import (
	"context"
	"errors"
	"log"
	"net/mail"
	"strings"
	"time"

	"Tabletop_Community/internal/model"
	"Tabletop_Community/internal/repository/mysql"

	"gorm.io/gorm"
)

type JobService struct {
	repo     *mysql.JobRepository
	userRepo *mysql.UserRepository
}

// JobExpirer 过期清扫定时任务
type JobExpirer struct {
	svc      *JobService
	interval time.Duration
}

func NewJobService(db *gorm.DB) *JobService {
	return &JobService{
		repo:     &mysql.JobRepository{DB: db},
		userRepo: &mysql.UserRepository{DB: db},
	}
}

func NewJobExpirer(svc *JobService) *JobExpirer {
	return &JobExpirer{
		svc:      svc,
		interval: time.Minute,
	}
}

type PostJobInput struct {
	Title            string
	Company          string
	Type             string
	Category         string
	Location         string
	Description      string
	ApplyMethod      string // email / url
	ApplyTarget      string
	RelatedProjectID *uint64
	ExpiresAt        *time.Time
}

func (s *JobService) PostJob(ctx context.Context, callerID uint64, in PostJobInput) (*model.Job, error) {
	if callerID == 0 {
		return nil, ErrUnauthenticated
	}
	if in.Title == "" {
		return nil, errors.New("title required")
	}
	switch in.ApplyMethod {
	case model.ApplyMethodEmail:
		if _, err := mail.ParseAddress(in.ApplyTarget); err != nil {
			return nil, errors.New("invalid apply email")
		}
	case model.ApplyMethodURL:
		if !strings.HasPrefix(in.ApplyTarget, "http://") && !strings.HasPrefix(in.ApplyTarget, "https://") {
			return nil, errors.New("invalid apply url")
		}
	default:
		return nil, errors.New("apply method must be email or url")
	}

	poster, err := s.userRepo.FindByID(callerID)
	if err != nil {
		return nil, ErrNotFound
	}

	job := &model.Job{
		PostedByID:       poster.ID,
		PosterName:       poster.Name,
		PosterUsername:   poster.Username,
		Title:            in.Title,
		Company:          in.Company,
		Type:             in.Type,
		Category:         in.Category,
		Location:         in.Location,
		Description:      in.Description,
		ApplyMethod:      in.ApplyMethod,
		ApplyTarget:      in.ApplyTarget,
		RelatedProjectID: in.RelatedProjectID,
		ExpiresAt:        in.ExpiresAt,
		IsActive:         in.ExpiresAt == nil || in.ExpiresAt.After(time.Now()),
	}
	if err := s.repo.Create(job); err != nil {
		return nil, err
	}
	return job, nil
}

// Apply 投递。岗位下线或已过期拒绝；同一人存在未被拒绝的申请时拒绝
func (s *JobService) Apply(ctx context.Context, callerID, jobID uint64, coverLetter string) (*model.JobApplication, error) {
	if callerID == 0 {
		return nil, ErrUnauthenticated
	}
	job, err := s.findJob(jobID)
	if err != nil {
		return nil, err
	}
	if !job.IsActive || (job.ExpiresAt != nil && time.Now().After(*job.ExpiresAt)) {
		return nil, ErrJobInactive
	}

	applicant, err := s.userRepo.FindByID(callerID)
	if err != nil {
		return nil, ErrNotFound
	}

	app := &model.JobApplication{
		JobID:             jobID,
		ApplicantID:       applicant.ID,
		ApplicantName:     applicant.Name,
		ApplicantUsername: applicant.Username,
		CoverLetter:       coverLetter,
		Status:            model.ApplicationPending,
	}
	created, err := s.repo.Apply(ctx, app)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, ErrDuplicateApplication
	}
	return app, nil
}

// validApplicationChange 只允许向前推进；accepted/rejected 为终态
func validApplicationChange(cur, next string) bool {
	switch cur {
	case model.ApplicationPending:
		return next == model.ApplicationReviewed ||
			next == model.ApplicationAccepted ||
			next == model.ApplicationRejected
	case model.ApplicationReviewed:
		return next == model.ApplicationAccepted || next == model.ApplicationRejected
	}
	return false
}

// ReviewApplication 发布者推进申请状态
func (s *JobService) ReviewApplication(ctx context.Context, callerID, appID uint64, next string) (*model.JobApplication, error) {
	app, err := s.repo.FindApplication(appID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	job, err := s.findJob(app.JobID)
	if err != nil {
		return nil, err
	}
	if job.PostedByID != callerID {
		return nil, ErrPermissionDenied
	}
	if !validApplicationChange(app.Status, next) {
		return nil, ErrInvalidApplicationTransition
	}
	affected, err := s.repo.UpdateApplicationStatus(ctx, appID, app.Status, next)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrConflict
	}
	return s.repo.FindApplication(appID)
}

func (s *JobService) ListApplications(ctx context.Context, callerID, jobID uint64) ([]model.JobApplication, error) {
	job, err := s.findJob(jobID)
	if err != nil {
		return nil, err
	}
	if job.PostedByID != callerID {
		return nil, ErrPermissionDenied
	}
	return s.repo.ListApplications(ctx, jobID)
}

// ExpireJobs 幂等清扫，所有已过期岗位下线
func (s *JobService) ExpireJobs(ctx context.Context, now time.Time) (int64, error) {
	return s.repo.ExpireDue(ctx, now)
}

func (s *JobService) GetJob(ctx context.Context, jobID uint64) (*model.Job, error) {
	return s.findJob(jobID)
}

func (s *JobService) findJob(id uint64) (*model.Job, error) {
	job, err := s.repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return job, nil
}

// Run 定时清扫启动器
func (e *JobExpirer) Run(ctx context.Context) {
	t := time.NewTicker(e.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n, err := e.svc.ExpireJobs(ctx, time.Now()); err != nil {
				log.Printf("job expire sweep err: %v", err)
			} else if n > 0 {
				log.Printf("job expire sweep: %d deactivated", n)
			}
		}
	}
}
