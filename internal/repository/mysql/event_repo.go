package mysql

import (
	"context"
	"errors"
	"time"

	"Tabletop_Community/internal/model"

	"gorm.io/gorm"
)

var (
	// ErrVersionConflict 乐观锁冲突，由服务层重试
	ErrVersionConflict = errors.New("event version conflict")
	ErrEventFull       = errors.New("event full")
)

type EventRepository struct {
	DB *gorm.DB
}

func (r *EventRepository) Create(ev *model.Event) error {
	return r.DB.Create(ev).Error
}

func (r *EventRepository) FindByID(id uint64) (*model.Event, error) {
	var ev model.Event
	err := r.DB.First(&ev, id).Error
	return &ev, err
}

func (r *EventRepository) FindAttendee(ctx context.Context, eventID, userID uint64) (*model.EventAttendee, error) {
	var att model.EventAttendee
	err := r.DB.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		First(&att).Error
	return &att, err
}

func (r *EventRepository) ListAttendees(ctx context.Context, eventID uint64) ([]model.EventAttendee, error) {
	var list []model.EventAttendee
	err := r.DB.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("rsvp_date ASC, id ASC").
		Find(&list).Error
	return list, err
}

// UpsertRSVP 单事务内落一次报名。going 满员时转 waitlist；让出座位时自动递补；
// 需审批活动里新 going 先挂为 maybe 待确认，已占座的重复 going 是无操作；
// current_attendees 与版本号在同一事务内条件更新，冲突返回 ErrVersionConflict
func (r *EventRepository) UpsertRSVP(ctx context.Context, ev *model.Event, user *model.User, status string, now time.Time) (string, error) {
	final := status
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var att model.EventAttendee
		prev := ""
		err := tx.Where("event_id = ? AND user_id = ?", ev.ID, user.ID).First(&att).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err == nil {
			prev = att.RSVPStatus
		}

		// 审批挂起只针对新 going 请求，已确认的 going 重发不降级
		pendingApproval := false
		if ev.RequiresApproval && final == model.RSVPGoing && prev != model.RSVPGoing {
			final = model.RSVPMaybe
			pendingApproval = true
		}

		// 容量只约束 going；已占座的重复 going 不再检查
		if final == model.RSVPGoing && prev != model.RSVPGoing {
			full, cerr := r.atCapacity(tx, ev)
			if cerr != nil {
				return cerr
			}
			if full {
				final = model.RSVPWaitlist
			}
		}

		if prev == "" {
			att = model.EventAttendee{
				EventID:         ev.ID,
				UserID:          user.ID,
				Name:            user.Name,
				Username:        user.Username,
				RSVPStatus:      final,
				PendingApproval: pendingApproval,
				RSVPDate:        now,
			}
			if err := tx.Create(&att).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Model(&model.EventAttendee{}).
				Where("id = ?", att.ID).
				Updates(map[string]any{
					"rsvp_status":      final,
					"pending_approval": pendingApproval,
					"rsvp_date":        now,
				}).Error; err != nil {
				return err
			}
		}

		// 让出座位时递补等待队列
		if prev == model.RSVPGoing && final != model.RSVPGoing {
			if _, err := r.promoteOne(tx, ev.ID); err != nil {
				return err
			}
		}

		if err := insertOutbox(tx, "rsvp", "event", ev.ID, user.ID); err != nil {
			return err
		}
		return r.syncAttendeeCount(tx, ev)
	})
	return final, err
}

// CancelRSVP 取消与递补同一事务，要么都生效要么都回滚。返回被递补的用户 id（0 表示无）
func (r *EventRepository) CancelRSVP(ctx context.Context, ev *model.Event, userID uint64) (uint64, error) {
	var promoted uint64
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var att model.EventAttendee
		if err := tx.Where("event_id = ? AND user_id = ?", ev.ID, userID).First(&att).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.EventAttendee{}, att.ID).Error; err != nil {
			return err
		}
		if att.RSVPStatus == model.RSVPGoing {
			p, err := r.promoteOne(tx, ev.ID)
			if err != nil {
				return err
			}
			promoted = p
		}
		if err := insertOutbox(tx, "rsvp_cancel", "event", ev.ID, userID); err != nil {
			return err
		}
		return r.syncAttendeeCount(tx, ev)
	})
	return promoted, err
}

// PromoteFromWaitlist 组织者手动递补，满员时拒绝
func (r *EventRepository) PromoteFromWaitlist(ctx context.Context, ev *model.Event) (uint64, error) {
	var promoted uint64
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		full, err := r.atCapacity(tx, ev)
		if err != nil {
			return err
		}
		if full {
			return ErrEventFull
		}
		p, err := r.promoteOne(tx, ev.ID)
		if err != nil {
			return err
		}
		promoted = p
		return r.syncAttendeeCount(tx, ev)
	})
	return promoted, err
}

// ApproveAttendee 审批待确认的报名；通过时若已满员转 waitlist
func (r *EventRepository) ApproveAttendee(ctx context.Context, ev *model.Event, userID uint64, approve bool) (string, error) {
	final := model.RSVPNotGoing
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var att model.EventAttendee
		if err := tx.Where("event_id = ? AND user_id = ? AND pending_approval = ?", ev.ID, userID, true).
			First(&att).Error; err != nil {
			return err
		}
		if approve {
			final = model.RSVPGoing
			full, err := r.atCapacity(tx, ev)
			if err != nil {
				return err
			}
			if full {
				final = model.RSVPWaitlist
			}
		}
		if err := tx.Model(&model.EventAttendee{}).
			Where("id = ?", att.ID).
			Updates(map[string]any{"rsvp_status": final, "pending_approval": false}).Error; err != nil {
			return err
		}
		return r.syncAttendeeCount(tx, ev)
	})
	return final, err
}

func (r *EventRepository) atCapacity(tx *gorm.DB, ev *model.Event) (bool, error) {
	if ev.MaxAttendees == nil {
		return false, nil
	}
	var n int64
	if err := tx.Model(&model.EventAttendee{}).
		Where("event_id = ? AND rsvp_status = ?", ev.ID, model.RSVPGoing).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n >= int64(*ev.MaxAttendees), nil
}

// promoteOne 按 rsvp_date 先进先出递补一人，无等待者返回 0
func (r *EventRepository) promoteOne(tx *gorm.DB, eventID uint64) (uint64, error) {
	var next model.EventAttendee
	err := tx.Where("event_id = ? AND rsvp_status = ?", eventID, model.RSVPWaitlist).
		Order("rsvp_date ASC, id ASC").
		First(&next).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if err := tx.Model(&model.EventAttendee{}).
		Where("id = ?", next.ID).
		Updates(map[string]any{"rsvp_status": model.RSVPGoing, "pending_approval": false}).Error; err != nil {
		return 0, err
	}
	return next.UserID, insertOutbox(tx, "waitlist_promote", "event", eventID, next.UserID)
}

// syncAttendeeCount current_attendees = going 人数，带版本号条件写入
func (r *EventRepository) syncAttendeeCount(tx *gorm.DB, ev *model.Event) error {
	var n int64
	if err := tx.Model(&model.EventAttendee{}).
		Where("event_id = ? AND rsvp_status = ?", ev.ID, model.RSVPGoing).
		Count(&n).Error; err != nil {
		return err
	}
	res := tx.Model(&model.Event{}).
		Where("id = ? AND version = ?", ev.ID, ev.Version).
		Updates(map[string]any{"current_attendees": n, "version": ev.Version + 1})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	return nil
}

// List 列表查询，category 与时间窗口可选
func (r *EventRepository) List(ctx context.Context, category string, from, to *time.Time, offset, limit int) ([]model.Event, error) {
	q := r.DB.WithContext(ctx).Model(&model.Event{})
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if from != nil {
		q = q.Where("start_date >= ?", *from)
	}
	if to != nil {
		q = q.Where("start_date <= ?", *to)
	}
	var list []model.Event
	err := q.Order("start_date ASC").Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}
