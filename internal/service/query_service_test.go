package service

import (
	"context"
	"testing"
	"time"

	"Tabletop_Community/internal/model"
)

func TestClampPage(t *testing.T) {
	cases := []struct {
		page, size     int
		offset, limit  int
	}{
		{0, 0, 0, 20},
		{1, 10, 0, 10},
		{3, 10, 20, 10},
		{2, 100, 20, 20}, // 超限回落默认页长
		{-1, -5, 0, 20},
	}
	for _, c := range cases {
		offset, limit := clampPage(c.page, c.size)
		if offset != c.offset || limit != c.limit {
			t.Errorf("clampPage(%d, %d) = (%d, %d), want (%d, %d)",
				c.page, c.size, offset, limit, c.offset, c.limit)
		}
	}
}

func TestQueryProjectsVisibility(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	projects := NewProjectService(db)
	query := NewQueryService(db)
	owner := seedUser(t, db, "owner", 0)

	if _, err := projects.CreateProject(ctx, owner.ID, CreateProjectInput{Title: "Open One", Visibility: model.VisibilityPublic}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := projects.CreateProject(ctx, owner.ID, CreateProjectInput{Title: "Hidden One", Visibility: model.VisibilityPrivate}); err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := query.Projects(ctx, 0, ProjectFilter{})
	if err != nil {
		t.Fatalf("member query: %v", err)
	}
	if len(list) != 1 || list[0].Title != "Open One" {
		t.Fatalf("member sees %d projects, want only the public one", len(list))
	}

	list, err = query.Projects(ctx, 1, ProjectFilter{})
	if err != nil {
		t.Fatalf("moderator query: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("moderator sees %d projects, want 2", len(list))
	}
}

func TestQueryResourcesStatusGate(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	resources := NewResourceService(db)
	query := NewQueryService(db)
	submitter := seedUser(t, db, "submitter", 0)
	mod := seedUser(t, db, "mod", 1)

	pending := submitResource(t, resources, submitter.ID, "pending-one")
	approved := submitResource(t, resources, submitter.ID, "approved-one")
	if _, err := resources.Moderate(ctx, mod.ID, mod.Role, approved.ID, model.ResourceApproved); err != nil {
		t.Fatalf("moderate: %v", err)
	}

	list, err := query.Resources(ctx, 0, ResourceFilter{})
	if err != nil {
		t.Fatalf("member query: %v", err)
	}
	if len(list) != 1 || list[0].ID != approved.ID {
		t.Fatalf("member sees %d resources, want only the approved one", len(list))
	}

	// 普通用户指定 status 不生效
	list, err = query.Resources(ctx, 0, ResourceFilter{Status: model.ResourcePending})
	if err != nil {
		t.Fatalf("member pending query: %v", err)
	}
	if len(list) != 1 || list[0].ID != approved.ID {
		t.Fatalf("member status override leaked the moderation queue")
	}

	// 管理员按状态过滤审核队列
	list, err = query.Resources(ctx, 1, ResourceFilter{Status: model.ResourcePending})
	if err != nil {
		t.Fatalf("moderator pending query: %v", err)
	}
	if len(list) != 1 || list[0].ID != pending.ID {
		t.Fatalf("moderator pending queue = %d rows, want the pending one", len(list))
	}
}

func TestQueryJobsActiveOnly(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	jobs := NewJobService(db)
	query := NewQueryService(db)
	poster := seedUser(t, db, "poster", 0)

	past := time.Now().Add(-time.Hour)
	postJob(t, jobs, poster.ID, &past)
	active := postJob(t, jobs, poster.ID, nil)

	list, err := query.Jobs(ctx, JobFilter{})
	if err != nil {
		t.Fatalf("jobs query: %v", err)
	}
	if len(list) != 1 || list[0].ID != active.ID {
		t.Fatalf("query returned %d jobs, want only the active one", len(list))
	}
}

func TestQueryEventsTimeWindow(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	events := NewEventService(db)
	query := NewQueryService(db)
	org := seedUser(t, db, "org", 0)

	near, err := events.CreateEvent(ctx, org.ID, CreateEventInput{Title: "This Week", StartDate: time.Now().Add(24 * time.Hour)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := events.CreateEvent(ctx, org.ID, CreateEventInput{Title: "Next Month", StartDate: time.Now().Add(30 * 24 * time.Hour)}); err != nil {
		t.Fatalf("create: %v", err)
	}

	to := time.Now().Add(7 * 24 * time.Hour)
	list, err := query.Events(ctx, EventFilter{To: &to})
	if err != nil {
		t.Fatalf("events query: %v", err)
	}
	if len(list) != 1 || list[0].ID != near.ID {
		t.Fatalf("window query returned %d events, want only the near one", len(list))
	}
}
