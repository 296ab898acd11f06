package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"Tabletop_Community/internal/model"
)

func postJob(t *testing.T, svc *JobService, posterID uint64, expiresAt *time.Time) *model.Job {
	t.Helper()
	job, err := svc.PostJob(context.Background(), posterID, PostJobInput{
		Title:       "Board Game Illustrator",
		Company:     "Meeple Studio",
		Type:        "contract",
		ApplyMethod: model.ApplyMethodEmail,
		ApplyTarget: "jobs@meeple.example.com",
		ExpiresAt:   expiresAt,
	})
	if err != nil {
		t.Fatalf("post job: %v", err)
	}
	return job
}

func TestPostJobValidation(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewJobService(db)
	poster := seedUser(t, db, "poster", 0)

	cases := []struct {
		name   string
		method string
		target string
		ok     bool
	}{
		{"valid email", model.ApplyMethodEmail, "hire@studio.example.com", true},
		{"bad email", model.ApplyMethodEmail, "not-an-email", false},
		{"valid url", model.ApplyMethodURL, "https://studio.example.com/jobs/1", true},
		{"bad url", model.ApplyMethodURL, "ftp://studio.example.com", false},
		{"unknown method", "carrier-pigeon", "x", false},
	}
	for _, c := range cases {
		_, err := svc.PostJob(ctx, poster.ID, PostJobInput{
			Title:       "Job " + c.name,
			ApplyMethod: c.method,
			ApplyTarget: c.target,
		})
		if c.ok && err != nil {
			t.Errorf("%s: unexpected err %v", c.name, err)
		}
		if !c.ok && err == nil {
			t.Errorf("%s: expected validation error", c.name)
		}
	}
}

func TestApplyDuplicateAndRejectedRetry(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewJobService(db)
	poster := seedUser(t, db, "poster", 0)
	applicant := seedUser(t, db, "applicant", 0)

	job := postJob(t, svc, poster.ID, nil)

	app, err := svc.Apply(ctx, applicant.ID, job.ID, "I love dice")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if app.Status != model.ApplicationPending {
		t.Fatalf("application status = %s, want pending", app.Status)
	}

	if _, err := svc.Apply(ctx, applicant.ID, job.ID, "again"); !errors.Is(err, ErrDuplicateApplication) {
		t.Fatalf("duplicate apply err = %v, want ErrDuplicateApplication", err)
	}

	if _, err := svc.ReviewApplication(ctx, poster.ID, app.ID, model.ApplicationRejected); err != nil {
		t.Fatalf("reject: %v", err)
	}

	// 被拒后允许重新投递，计数重算
	if _, err := svc.Apply(ctx, applicant.ID, job.ID, "second try"); err != nil {
		t.Fatalf("re-apply after rejection: %v", err)
	}
	got, err := svc.GetJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if got.ApplicationCount != 2 {
		t.Fatalf("application count = %d, want 2", got.ApplicationCount)
	}
}

func TestApplyInactiveJob(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewJobService(db)
	poster := seedUser(t, db, "poster", 0)
	applicant := seedUser(t, db, "applicant", 0)

	past := time.Now().Add(-time.Hour)
	job := postJob(t, svc, poster.ID, &past)
	if job.IsActive {
		t.Fatalf("job posted with past expiry should be inactive")
	}

	// 落库值也必须是 inactive，不依赖清扫任务
	got, err := svc.GetJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if got.IsActive {
		t.Fatalf("persisted job is active, want inactive")
	}

	if _, err := svc.Apply(ctx, applicant.ID, job.ID, ""); !errors.Is(err, ErrJobInactive) {
		t.Fatalf("apply to expired job err = %v, want ErrJobInactive", err)
	}
}

func TestApplicationTransitions(t *testing.T) {
	cases := []struct {
		cur, next string
		ok        bool
	}{
		{model.ApplicationPending, model.ApplicationReviewed, true},
		{model.ApplicationPending, model.ApplicationAccepted, true},
		{model.ApplicationPending, model.ApplicationRejected, true},
		{model.ApplicationReviewed, model.ApplicationAccepted, true},
		{model.ApplicationReviewed, model.ApplicationRejected, true},
		{model.ApplicationReviewed, model.ApplicationPending, false},
		{model.ApplicationAccepted, model.ApplicationRejected, false},
		{model.ApplicationRejected, model.ApplicationReviewed, false},
		{model.ApplicationAccepted, model.ApplicationAccepted, false},
	}
	for _, c := range cases {
		if got := validApplicationChange(c.cur, c.next); got != c.ok {
			t.Errorf("validApplicationChange(%s, %s) = %v, want %v", c.cur, c.next, got, c.ok)
		}
	}
}

func TestReviewApplication(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewJobService(db)
	poster := seedUser(t, db, "poster", 0)
	applicant := seedUser(t, db, "applicant", 0)
	stranger := seedUser(t, db, "stranger", 0)

	job := postJob(t, svc, poster.ID, nil)
	app, err := svc.Apply(ctx, applicant.ID, job.ID, "")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	if _, err := svc.ReviewApplication(ctx, stranger.ID, app.ID, model.ApplicationReviewed); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("non-poster review err = %v, want ErrPermissionDenied", err)
	}

	got, err := svc.ReviewApplication(ctx, poster.ID, app.ID, model.ApplicationReviewed)
	if err != nil {
		t.Fatalf("pending -> reviewed: %v", err)
	}
	if got.Status != model.ApplicationReviewed {
		t.Fatalf("status = %s, want reviewed", got.Status)
	}

	got, err = svc.ReviewApplication(ctx, poster.ID, app.ID, model.ApplicationAccepted)
	if err != nil {
		t.Fatalf("reviewed -> accepted: %v", err)
	}
	if got.Status != model.ApplicationAccepted {
		t.Fatalf("status = %s, want accepted", got.Status)
	}

	// 终态之后不可再改
	if _, err := svc.ReviewApplication(ctx, poster.ID, app.ID, model.ApplicationRejected); !errors.Is(err, ErrInvalidApplicationTransition) {
		t.Fatalf("accepted -> rejected err = %v, want ErrInvalidApplicationTransition", err)
	}

	// 申请列表仅发布者可见
	if _, err := svc.ListApplications(ctx, stranger.ID, job.ID); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("stranger list err = %v, want ErrPermissionDenied", err)
	}
	list, err := svc.ListApplications(ctx, poster.ID, job.ID)
	if err != nil {
		t.Fatalf("poster list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("applications = %d, want 1", len(list))
	}
}

func TestExpireJobsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewJobService(db)
	poster := seedUser(t, db, "poster", 0)

	soon := time.Now().Add(time.Minute)
	later := time.Now().Add(time.Hour)
	j1 := postJob(t, svc, poster.ID, &soon)
	j2 := postJob(t, svc, poster.ID, &later)
	j3 := postJob(t, svc, poster.ID, nil) // 不过期

	now := time.Now().Add(10 * time.Minute)
	n, err := svc.ExpireJobs(ctx, now)
	if err != nil {
		t.Fatalf("expire sweep: %v", err)
	}
	if n != 1 {
		t.Fatalf("expired = %d, want 1", n)
	}

	// 第二次清扫幂等
	n, err = svc.ExpireJobs(ctx, now)
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if n != 0 {
		t.Fatalf("second sweep expired = %d, want 0", n)
	}

	got, _ := svc.GetJob(ctx, j1.ID)
	if got.IsActive {
		t.Fatalf("expired job still active")
	}
	for _, id := range []uint64{j2.ID, j3.ID} {
		got, _ := svc.GetJob(ctx, id)
		if !got.IsActive {
			t.Fatalf("job %d deactivated too early", id)
		}
	}
}
