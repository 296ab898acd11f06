package handler

import (
	"net/http"
	"time"

	"Tabletop_Community/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type EventHandler struct {
	svc   *service.EventService
	query *service.QueryService
}

func NewEventHandler(db *gorm.DB) *EventHandler {
	return &EventHandler{
		svc:   service.NewEventService(db),
		query: service.NewQueryService(db),
	}
}

type CreateEventReq struct {
	Title            string     `json:"title" binding:"required"`
	Description      string     `json:"description"`
	Category         string     `json:"category"`
	Location         string     `json:"location"`
	StartDate        time.Time  `json:"start_date" binding:"required"`
	EndDate          *time.Time `json:"end_date"`
	MaxAttendees     *int       `json:"max_attendees"`
	RSVPDeadline     *time.Time `json:"rsvp_deadline"`
	RequiresApproval bool       `json:"requires_approval"`
}

type RSVPReq struct {
	Status string `json:"status" binding:"required,oneof=going maybe not-going"`
}

type ApproveReq struct {
	UserID  uint64 `json:"user_id" binding:"required"`
	Approve *bool  `json:"approve" binding:"required"`
}

func (h *EventHandler) Create(c *gin.Context) {
	var req CreateEventReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	ev, err := h.svc.CreateEvent(c.Request.Context(), callerID(c), service.CreateEventInput{
		Title:            req.Title,
		Description:      req.Description,
		Category:         req.Category,
		Location:         req.Location,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		MaxAttendees:     req.MaxAttendees,
		RSVPDeadline:     req.RSVPDeadline,
		RequiresApproval: req.RequiresApproval,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": ev})
}

// RSVP 满员的 going 会落到 waitlist，响应里的 status 是实际落位
func (h *EventHandler) RSVP(c *gin.Context) {
	var req RSVPReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	ev, final, err := h.svc.RSVP(c.Request.Context(), callerID(c), paramID(c, "id"), req.Status)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": ev, "status": final})
}

func (h *EventHandler) Cancel(c *gin.Context) {
	ev, promoted, err := h.svc.CancelRSVP(c.Request.Context(), callerID(c), paramID(c, "id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": ev, "promoted_user_id": promoted})
}

func (h *EventHandler) Promote(c *gin.Context) {
	ev, promoted, err := h.svc.PromoteFromWaitlist(c.Request.Context(), callerID(c), paramID(c, "id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": ev, "promoted_user_id": promoted})
}

func (h *EventHandler) Approve(c *gin.Context) {
	var req ApproveReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	ev, final, err := h.svc.ApproveAttendee(c.Request.Context(), callerID(c), paramID(c, "id"), req.UserID, *req.Approve)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": ev, "status": final})
}

func (h *EventHandler) Attendees(c *gin.Context) {
	list, err := h.svc.ListAttendees(c.Request.Context(), paramID(c, "id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

func (h *EventHandler) Get(c *gin.Context) {
	ev, err := h.svc.GetEvent(c.Request.Context(), paramID(c, "id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": ev})
}

func (h *EventHandler) List(c *gin.Context) {
	var f service.EventFilter
	f.Category = c.Query("category")
	if v := c.Query("from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			f.From = &t
		}
	}
	if v := c.Query("to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			f.To = &t
		}
	}
	f.Page, f.Size = pageSize(c)
	list, err := h.query.Events(c.Request.Context(), f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}
