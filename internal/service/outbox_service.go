package service

import (
	"context"
	"log"
	"time"

	"Tabletop_Community/internal/model"
	"Tabletop_Community/internal/pkg"
	"Tabletop_Community/internal/repository/mysql"

	"gorm.io/gorm"
)

type Sender func(ctx context.Context, ob *model.ActivityOutbox) error

// OutboxRelayer 把业务事务里落库的活动事件异步投递出去
type OutboxRelayer struct {
	repo      *mysql.OutboxRepository
	batchSize int
	interval  time.Duration
	sender    Sender
}

func NewOutboxRelayer(db *gorm.DB, sender Sender) *OutboxRelayer {
	return &OutboxRelayer{
		repo:      &mysql.OutboxRepository{DB: db},
		batchSize: 200,
		interval:  time.Second,
		sender:    sender,
	}
}

// Run 投递启动器
func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

func (r *OutboxRelayer) drainOnce(ctx context.Context) {
	rows, err := r.repo.List(ctx, r.batchSize)
	if err != nil {
		log.Printf("outbox query err: %v", err)
		return
	}
	for i := range rows {
		ob := rows[i]
		if err = r.sender(ctx, &ob); err != nil {
			_ = r.repo.RetryUpdate(ctx, ob.ID)
			continue
		}
		_ = r.repo.SuccessUpdate(ctx, ob.ID)
	}
}

// KafkaSender 按实体分区投递，同一实体的事件保持有序
func KafkaSender(producer *pkg.KafkaProducer) Sender {
	return func(ctx context.Context, ob *model.ActivityOutbox) error {
		key := pkg.EntityKey(ob.EntityKind, ob.EntityID)
		return producer.Send(ctx, key, []byte(ob.Payload))
	}
}

// LogSender 没配 kafka 时的兜底 sender
func LogSender(ctx context.Context, ob *model.ActivityOutbox) error {
	log.Printf("OUTBOX SEND type=%s kind=%s entity=%d actor=%d payload=%s",
		ob.EventType, ob.EntityKind, ob.EntityID, ob.ActorID, ob.Payload)
	return nil
}
