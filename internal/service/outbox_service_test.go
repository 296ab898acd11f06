package service

import (
	"context"
	"errors"
	"testing"

	"Tabletop_Community/internal/model"
)

func TestOutboxDrain(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	projects := NewProjectService(db)
	owner := seedUser(t, db, "owner", 0)
	fan := seedUser(t, db, "fan", 0)

	p, err := projects.CreateProject(ctx, owner.ID, CreateProjectInput{Title: "Signal Test"})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	if _, err := projects.Follow(ctx, fan.ID, p.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}

	var pendingRows int64
	if err := db.Model(&model.ActivityOutbox{}).Where("status = 0").Count(&pendingRows).Error; err != nil {
		t.Fatalf("count outbox: %v", err)
	}
	if pendingRows == 0 {
		t.Fatalf("follow left no outbox row")
	}

	var sent []model.ActivityOutbox
	relayer := NewOutboxRelayer(db, func(ctx context.Context, ob *model.ActivityOutbox) error {
		sent = append(sent, *ob)
		return nil
	})
	relayer.drainOnce(ctx)

	if int64(len(sent)) != pendingRows {
		t.Fatalf("sent %d events, want %d", len(sent), pendingRows)
	}
	var remaining int64
	if err := db.Model(&model.ActivityOutbox{}).Where("status = 0").Count(&remaining).Error; err != nil {
		t.Fatalf("count outbox: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("%d rows still pending after drain", remaining)
	}

	// 二次排空无新事件
	sent = sent[:0]
	relayer.drainOnce(ctx)
	if len(sent) != 0 {
		t.Fatalf("re-drain sent %d events, want 0", len(sent))
	}
}

func TestOutboxRetryOnSendFailure(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	projects := NewProjectService(db)
	owner := seedUser(t, db, "owner", 0)
	fan := seedUser(t, db, "fan", 0)

	p, err := projects.CreateProject(ctx, owner.ID, CreateProjectInput{Title: "Flaky Broker"})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	if _, err := projects.Follow(ctx, fan.ID, p.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}

	relayer := NewOutboxRelayer(db, func(ctx context.Context, ob *model.ActivityOutbox) error {
		return errors.New("broker down")
	})
	relayer.drainOnce(ctx)

	var row model.ActivityOutbox
	if err := db.Where("event_type = ?", "follow").First(&row).Error; err != nil {
		t.Fatalf("load outbox row: %v", err)
	}
	if row.Status != 2 || row.Retry != 1 {
		t.Fatalf("failed row status=%d retry=%d, want 2/1", row.Status, row.Retry)
	}
}
