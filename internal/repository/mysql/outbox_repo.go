package mysql

import (
	"context"
	"encoding/json"
	"time"

	"Tabletop_Community/internal/model"

	"gorm.io/gorm"
)

type OutboxRepository struct {
	DB *gorm.DB
}

// insertOutbox 业务事务内落一条活动事件，由 relayer 异步投递
func insertOutbox(tx *gorm.DB, eventType, entityKind string, entityID, actorID uint64) error {
	payload, _ := json.Marshal(map[string]any{
		"event_time":  time.Now().UTC().Format(time.RFC3339Nano),
		"event_type":  eventType,
		"entity_kind": entityKind,
		"entity_id":   entityID,
		"actor_id":    actorID,
	})
	ob := &model.ActivityOutbox{
		EventType:  eventType,
		EntityKind: entityKind,
		EntityID:   entityID,
		ActorID:    actorID,
		Payload:    string(payload),
		Status:     0,
	}
	return tx.Create(ob).Error
}

// List 批量取待投递事件
func (r *OutboxRepository) List(ctx context.Context, batchSize int) ([]model.ActivityOutbox, error) {
	var list []model.ActivityOutbox
	if err := r.DB.WithContext(ctx).
		Where("status = 0").
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// RetryUpdate 投递失败计入重试
func (r *OutboxRepository) RetryUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.ActivityOutbox{}).Where("id = ?", id).
		Updates(map[string]any{"status": 2, "retry": gorm.Expr("retry + 1")}).Error
}

// SuccessUpdate 投递成功
func (r *OutboxRepository) SuccessUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.ActivityOutbox{}).Where("id = ?", id).
		Update("status", 1).Error
}
