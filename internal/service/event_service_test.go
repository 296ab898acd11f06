package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"Tabletop_Community/internal/model"

	"gorm.io/gorm"
)

func createEvent(t *testing.T, svc *EventService, organizerID uint64, maxAttendees *int, requiresApproval bool) *model.Event {
	t.Helper()
	ev, err := svc.CreateEvent(context.Background(), organizerID, CreateEventInput{
		Title:            "Playtest Night",
		StartDate:        time.Now().Add(48 * time.Hour),
		MaxAttendees:     maxAttendees,
		RequiresApproval: requiresApproval,
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	return ev
}

func attendeeStatus(t *testing.T, db *gorm.DB, eventID, userID uint64) string {
	t.Helper()
	var att model.EventAttendee
	if err := db.Where("event_id = ? AND user_id = ?", eventID, userID).First(&att).Error; err != nil {
		t.Fatalf("load attendee %d: %v", userID, err)
	}
	return att.RSVPStatus
}

func TestRSVPCapacityRedirectsToWaitlist(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewEventService(db)
	org := seedUser(t, db, "org", 0)
	a := seedUser(t, db, "alice", 0)
	b := seedUser(t, db, "bob", 0)
	c := seedUser(t, db, "carol", 0)

	cap := 2
	ev := createEvent(t, svc, org.ID, &cap, false)

	for _, u := range []*model.User{a, b} {
		_, final, err := svc.RSVP(ctx, u.ID, ev.ID, model.RSVPGoing)
		if err != nil {
			t.Fatalf("rsvp %s: %v", u.Username, err)
		}
		if final != model.RSVPGoing {
			t.Fatalf("rsvp %s final = %s, want going", u.Username, final)
		}
	}

	got, final, err := svc.RSVP(ctx, c.ID, ev.ID, model.RSVPGoing)
	if err != nil {
		t.Fatalf("rsvp carol: %v", err)
	}
	if final != model.RSVPWaitlist {
		t.Fatalf("rsvp at capacity final = %s, want waitlist", final)
	}
	if got.CurrentAttendees != 2 {
		t.Fatalf("current attendees = %d, want 2", got.CurrentAttendees)
	}

	// 已占座的重复 going 不会被挤到等待队列
	_, final, err = svc.RSVP(ctx, a.ID, ev.ID, model.RSVPGoing)
	if err != nil {
		t.Fatalf("repeat rsvp alice: %v", err)
	}
	if final != model.RSVPGoing {
		t.Fatalf("repeat rsvp final = %s, want going", final)
	}
}

func TestCancelPromotesFIFO(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewEventService(db)
	org := seedUser(t, db, "org", 0)
	a := seedUser(t, db, "alice", 0)
	c := seedUser(t, db, "carol", 0)
	d := seedUser(t, db, "dave", 0)

	cap := 1
	ev := createEvent(t, svc, org.ID, &cap, false)

	if _, _, err := svc.RSVP(ctx, a.ID, ev.ID, model.RSVPGoing); err != nil {
		t.Fatalf("rsvp alice: %v", err)
	}
	if _, final, _ := svc.RSVP(ctx, c.ID, ev.ID, model.RSVPGoing); final != model.RSVPWaitlist {
		t.Fatalf("carol final = %s, want waitlist", final)
	}
	if _, final, _ := svc.RSVP(ctx, d.ID, ev.ID, model.RSVPGoing); final != model.RSVPWaitlist {
		t.Fatalf("dave final = %s, want waitlist", final)
	}

	got, promoted, err := svc.CancelRSVP(ctx, a.ID, ev.ID)
	if err != nil {
		t.Fatalf("cancel alice: %v", err)
	}
	if promoted != c.ID {
		t.Fatalf("promoted = %d, want carol (%d)", promoted, c.ID)
	}
	if got.CurrentAttendees != 1 {
		t.Fatalf("current attendees = %d, want 1", got.CurrentAttendees)
	}
	if s := attendeeStatus(t, db, ev.ID, c.ID); s != model.RSVPGoing {
		t.Fatalf("carol status = %s, want going", s)
	}
	if s := attendeeStatus(t, db, ev.ID, d.ID); s != model.RSVPWaitlist {
		t.Fatalf("dave status = %s, want waitlist", s)
	}

	// 重复取消：报名记录已不存在
	if _, _, err := svc.CancelRSVP(ctx, a.ID, ev.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("repeat cancel err = %v, want ErrNotFound", err)
	}
}

func TestStatusSwitchFreesSeat(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewEventService(db)
	org := seedUser(t, db, "org", 0)
	a := seedUser(t, db, "alice", 0)
	b := seedUser(t, db, "bob", 0)

	cap := 1
	ev := createEvent(t, svc, org.ID, &cap, false)

	if _, _, err := svc.RSVP(ctx, a.ID, ev.ID, model.RSVPGoing); err != nil {
		t.Fatalf("rsvp alice: %v", err)
	}
	if _, final, _ := svc.RSVP(ctx, b.ID, ev.ID, model.RSVPGoing); final != model.RSVPWaitlist {
		t.Fatalf("bob final = %s, want waitlist", final)
	}

	// alice 改成 maybe 让出座位，bob 自动递补
	got, final, err := svc.RSVP(ctx, a.ID, ev.ID, model.RSVPMaybe)
	if err != nil {
		t.Fatalf("switch to maybe: %v", err)
	}
	if final != model.RSVPMaybe {
		t.Fatalf("final = %s, want maybe", final)
	}
	if s := attendeeStatus(t, db, ev.ID, b.ID); s != model.RSVPGoing {
		t.Fatalf("bob status = %s, want going", s)
	}
	if got.CurrentAttendees != 1 {
		t.Fatalf("current attendees = %d, want 1", got.CurrentAttendees)
	}
}

func TestRSVPDeadline(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewEventService(db)
	org := seedUser(t, db, "org", 0)
	a := seedUser(t, db, "alice", 0)

	past := time.Now().Add(-time.Hour)
	ev := &model.Event{
		OrganizerID:       org.ID,
		OrganizerName:     org.Name,
		OrganizerUsername: org.Username,
		Title:             "Closed Event",
		StartDate:         time.Now().Add(time.Hour),
		RSVPDeadline:      &past,
	}
	if err := db.Create(ev).Error; err != nil {
		t.Fatalf("seed event: %v", err)
	}

	if _, _, err := svc.RSVP(ctx, a.ID, ev.ID, model.RSVPGoing); !errors.Is(err, ErrDeadlinePassed) {
		t.Fatalf("rsvp after deadline err = %v, want ErrDeadlinePassed", err)
	}
}

func TestRequiresApprovalFlow(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewEventService(db)
	org := seedUser(t, db, "org", 0)
	a := seedUser(t, db, "alice", 0)
	b := seedUser(t, db, "bob", 0)

	ev := createEvent(t, svc, org.ID, nil, true)

	_, final, err := svc.RSVP(ctx, a.ID, ev.ID, model.RSVPGoing)
	if err != nil {
		t.Fatalf("rsvp alice: %v", err)
	}
	if final != model.RSVPMaybe {
		t.Fatalf("pending rsvp final = %s, want maybe", final)
	}

	if _, _, err := svc.ApproveAttendee(ctx, a.ID, ev.ID, a.ID, true); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("non-organizer approve err = %v, want ErrPermissionDenied", err)
	}

	got, final, err := svc.ApproveAttendee(ctx, org.ID, ev.ID, a.ID, true)
	if err != nil {
		t.Fatalf("approve alice: %v", err)
	}
	if final != model.RSVPGoing {
		t.Fatalf("approved final = %s, want going", final)
	}
	if got.CurrentAttendees != 1 {
		t.Fatalf("current attendees = %d, want 1", got.CurrentAttendees)
	}

	// 拒绝时标记为 not-going
	if _, _, err := svc.RSVP(ctx, b.ID, ev.ID, model.RSVPGoing); err != nil {
		t.Fatalf("rsvp bob: %v", err)
	}
	_, final, err = svc.ApproveAttendee(ctx, org.ID, ev.ID, b.ID, false)
	if err != nil {
		t.Fatalf("deny bob: %v", err)
	}
	if final != model.RSVPNotGoing {
		t.Fatalf("denied final = %s, want not-going", final)
	}

	// 没有待审批记录时审批报 NotFound
	if _, _, err := svc.ApproveAttendee(ctx, org.ID, ev.ID, b.ID, true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("re-approve err = %v, want ErrNotFound", err)
	}
}

func TestRepeatGoingKeepsSeatUnderApproval(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewEventService(db)
	org := seedUser(t, db, "org", 0)
	a := seedUser(t, db, "alice", 0)
	b := seedUser(t, db, "bob", 0)

	max := 1
	ev := createEvent(t, svc, org.ID, &max, true)

	// alice 审批通过占座，bob 审批通过但满员落到等待队列
	if _, _, err := svc.RSVP(ctx, a.ID, ev.ID, model.RSVPGoing); err != nil {
		t.Fatalf("rsvp alice: %v", err)
	}
	if _, final, err := svc.ApproveAttendee(ctx, org.ID, ev.ID, a.ID, true); err != nil || final != model.RSVPGoing {
		t.Fatalf("approve alice = (%s, %v), want going", final, err)
	}
	if _, _, err := svc.RSVP(ctx, b.ID, ev.ID, model.RSVPGoing); err != nil {
		t.Fatalf("rsvp bob: %v", err)
	}
	if _, final, err := svc.ApproveAttendee(ctx, org.ID, ev.ID, b.ID, true); err != nil || final != model.RSVPWaitlist {
		t.Fatalf("approve bob = (%s, %v), want waitlist", final, err)
	}

	// 已确认的 going 重发不降级，也不让出座位
	got, final, err := svc.RSVP(ctx, a.ID, ev.ID, model.RSVPGoing)
	if err != nil {
		t.Fatalf("repeat rsvp alice: %v", err)
	}
	if final != model.RSVPGoing {
		t.Fatalf("repeat going final = %s, want going", final)
	}
	if s := attendeeStatus(t, db, ev.ID, a.ID); s != model.RSVPGoing {
		t.Fatalf("alice status = %s, want going", s)
	}
	if s := attendeeStatus(t, db, ev.ID, b.ID); s != model.RSVPWaitlist {
		t.Fatalf("bob status = %s, want waitlist", s)
	}
	if got.CurrentAttendees != 1 {
		t.Fatalf("current attendees = %d, want 1", got.CurrentAttendees)
	}
}

func TestPromoteFromWaitlist(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewEventService(db)
	org := seedUser(t, db, "org", 0)
	a := seedUser(t, db, "alice", 0)
	b := seedUser(t, db, "bob", 0)

	cap := 1
	ev := createEvent(t, svc, org.ID, &cap, false)

	if _, _, err := svc.RSVP(ctx, a.ID, ev.ID, model.RSVPGoing); err != nil {
		t.Fatalf("rsvp alice: %v", err)
	}
	if _, final, _ := svc.RSVP(ctx, b.ID, ev.ID, model.RSVPGoing); final != model.RSVPWaitlist {
		t.Fatalf("bob final = %s, want waitlist", final)
	}

	if _, _, err := svc.PromoteFromWaitlist(ctx, a.ID, ev.ID); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("non-organizer promote err = %v, want ErrPermissionDenied", err)
	}
	if _, _, err := svc.PromoteFromWaitlist(ctx, org.ID, ev.ID); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("promote into full event err = %v, want ErrCapacityExceeded", err)
	}

	// alice 取消后 bob 自动递补
	if _, promoted, err := svc.CancelRSVP(ctx, a.ID, ev.ID); err != nil {
		t.Fatalf("cancel alice: %v", err)
	} else if promoted != b.ID {
		t.Fatalf("auto promote = %d, want bob (%d)", promoted, b.ID)
	}

	// bob 退出腾出座位，再给等待队列补一个人，组织者手动递补
	if _, promoted, err := svc.CancelRSVP(ctx, b.ID, ev.ID); err != nil {
		t.Fatalf("cancel bob: %v", err)
	} else if promoted != 0 {
		t.Fatalf("empty waitlist promote = %d, want 0", promoted)
	}
	c := seedUser(t, db, "carol", 0)
	wait := &model.EventAttendee{
		EventID: ev.ID, UserID: c.ID, Name: c.Name, Username: c.Username,
		RSVPStatus: model.RSVPWaitlist, RSVPDate: time.Now(),
	}
	if err := db.Create(wait).Error; err != nil {
		t.Fatalf("seed waitlist row: %v", err)
	}
	got, promoted, err := svc.PromoteFromWaitlist(ctx, org.ID, ev.ID)
	if err != nil {
		t.Fatalf("manual promote: %v", err)
	}
	if promoted != c.ID {
		t.Fatalf("manual promote = %d, want carol (%d)", promoted, c.ID)
	}
	if got.CurrentAttendees != 1 {
		t.Fatalf("current attendees = %d, want 1", got.CurrentAttendees)
	}
}
