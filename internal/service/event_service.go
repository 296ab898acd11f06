package service

import (
	"context"
	"errors"
	"time"

	"Tabletop_Community/internal/model"
	"Tabletop_Community/internal/repository/mysql"

	"gorm.io/gorm"
)

// 乐观锁冲突时的最大重试次数
const rsvpMaxRetries = 3

type EventService struct {
	repo     *mysql.EventRepository
	userRepo *mysql.UserRepository
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{
		repo:     &mysql.EventRepository{DB: db},
		userRepo: &mysql.UserRepository{DB: db},
	}
}

type CreateEventInput struct {
	Title            string
	Description      string
	Category         string
	Location         string
	StartDate        time.Time
	EndDate          *time.Time
	MaxAttendees     *int
	RSVPDeadline     *time.Time
	RequiresApproval bool
}

func (s *EventService) CreateEvent(ctx context.Context, callerID uint64, in CreateEventInput) (*model.Event, error) {
	if callerID == 0 {
		return nil, ErrUnauthenticated
	}
	if in.Title == "" {
		return nil, errors.New("title required")
	}
	if in.StartDate.IsZero() {
		return nil, errors.New("start date required")
	}
	if in.MaxAttendees != nil && *in.MaxAttendees <= 0 {
		return nil, errors.New("max attendees must be positive")
	}
	if in.RSVPDeadline != nil && in.RSVPDeadline.After(in.StartDate) {
		return nil, errors.New("rsvp deadline must not be after start date")
	}

	organizer, err := s.userRepo.FindByID(callerID)
	if err != nil {
		return nil, ErrNotFound
	}

	ev := &model.Event{
		OrganizerID:       organizer.ID,
		OrganizerName:     organizer.Name,
		OrganizerUsername: organizer.Username,
		Title:             in.Title,
		Description:       in.Description,
		Category:          in.Category,
		Location:          in.Location,
		StartDate:         in.StartDate,
		EndDate:           in.EndDate,
		MaxAttendees:      in.MaxAttendees,
		RSVPDeadline:      in.RSVPDeadline,
		RequiresApproval:  in.RequiresApproval,
	}
	if err := s.repo.Create(ev); err != nil {
		return nil, err
	}
	return ev, nil
}

// RSVP 报名。going/maybe/not-going 可自由切换；满员的 going 落到 waitlist；
// 需审批的活动里新 going 先挂为 maybe 待组织者确认
func (s *EventService) RSVP(ctx context.Context, callerID, eventID uint64, status string) (*model.Event, string, error) {
	if callerID == 0 {
		return nil, "", ErrUnauthenticated
	}
	switch status {
	case model.RSVPGoing, model.RSVPMaybe, model.RSVPNotGoing:
	default:
		return nil, "", errors.New("invalid rsvp status")
	}

	user, err := s.userRepo.FindByID(callerID)
	if err != nil {
		return nil, "", ErrNotFound
	}

	now := time.Now()
	var final string
	err = s.withRetry(eventID, func(ev *model.Event) error {
		if ev.RSVPDeadline != nil && now.After(*ev.RSVPDeadline) {
			return ErrDeadlinePassed
		}
		f, err := s.repo.UpsertRSVP(ctx, ev, user, status, now)
		final = f
		return err
	})
	if err != nil {
		return nil, "", err
	}
	ev, err := s.findEvent(eventID)
	return ev, final, err
}

// CancelRSVP 取消报名；让出 going 座位时等待队列按 rsvp_date 先进先出递补
func (s *EventService) CancelRSVP(ctx context.Context, callerID, eventID uint64) (*model.Event, uint64, error) {
	if callerID == 0 {
		return nil, 0, ErrUnauthenticated
	}
	var promoted uint64
	err := s.withRetry(eventID, func(ev *model.Event) error {
		p, err := s.repo.CancelRSVP(ctx, ev, callerID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		promoted = p
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	ev, err := s.findEvent(eventID)
	return ev, promoted, err
}

// PromoteFromWaitlist 组织者手动递补
func (s *EventService) PromoteFromWaitlist(ctx context.Context, callerID, eventID uint64) (*model.Event, uint64, error) {
	var promoted uint64
	err := s.withRetry(eventID, func(ev *model.Event) error {
		if ev.OrganizerID != callerID {
			return ErrPermissionDenied
		}
		p, err := s.repo.PromoteFromWaitlist(ctx, ev)
		if errors.Is(err, mysql.ErrEventFull) {
			return ErrCapacityExceeded
		}
		promoted = p
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	ev, err := s.findEvent(eventID)
	return ev, promoted, err
}

// ApproveAttendee 组织者审批待确认报名
func (s *EventService) ApproveAttendee(ctx context.Context, callerID, eventID, attendeeID uint64, approve bool) (*model.Event, string, error) {
	var final string
	err := s.withRetry(eventID, func(ev *model.Event) error {
		if ev.OrganizerID != callerID {
			return ErrPermissionDenied
		}
		f, err := s.repo.ApproveAttendee(ctx, ev, attendeeID, approve)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		final = f
		return err
	})
	if err != nil {
		return nil, "", err
	}
	ev, err := s.findEvent(eventID)
	return ev, final, err
}

func (s *EventService) ListAttendees(ctx context.Context, eventID uint64) ([]model.EventAttendee, error) {
	if _, err := s.findEvent(eventID); err != nil {
		return nil, err
	}
	return s.repo.ListAttendees(ctx, eventID)
}

func (s *EventService) GetEvent(ctx context.Context, eventID uint64) (*model.Event, error) {
	return s.findEvent(eventID)
}

// withRetry 每次重试重读事件行，拿最新版本号
func (s *EventService) withRetry(eventID uint64, fn func(ev *model.Event) error) error {
	for i := 0; i < rsvpMaxRetries; i++ {
		ev, err := s.findEvent(eventID)
		if err != nil {
			return err
		}
		err = fn(ev)
		if errors.Is(err, mysql.ErrVersionConflict) {
			continue
		}
		return err
	}
	return ErrConflict
}

func (s *EventService) findEvent(id uint64) (*model.Event, error) {
	ev, err := s.repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return ev, nil
}
