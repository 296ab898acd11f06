package handler

import (
	"net/http"
	"time"

	"Tabletop_Community/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type JobHandler struct {
	svc   *service.JobService
	query *service.QueryService
}

func NewJobHandler(db *gorm.DB) *JobHandler {
	return &JobHandler{
		svc:   service.NewJobService(db),
		query: service.NewQueryService(db),
	}
}

type PostJobReq struct {
	Title            string     `json:"title" binding:"required"`
	Company          string     `json:"company"`
	Type             string     `json:"type"`
	Category         string     `json:"category"`
	Location         string     `json:"location"`
	Description      string     `json:"description"`
	ApplyMethod      string     `json:"apply_method" binding:"required,oneof=email url"`
	ApplyTarget      string     `json:"apply_target" binding:"required"`
	RelatedProjectID *uint64    `json:"related_project_id"`
	ExpiresAt        *time.Time `json:"expires_at"`
}

type ApplyReq struct {
	CoverLetter string `json:"cover_letter"`
}

type ReviewApplicationReq struct {
	Status string `json:"status" binding:"required,oneof=reviewed accepted rejected"`
}

func (h *JobHandler) Create(c *gin.Context) {
	var req PostJobReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	job, err := h.svc.PostJob(c.Request.Context(), callerID(c), service.PostJobInput{
		Title:            req.Title,
		Company:          req.Company,
		Type:             req.Type,
		Category:         req.Category,
		Location:         req.Location,
		Description:      req.Description,
		ApplyMethod:      req.ApplyMethod,
		ApplyTarget:      req.ApplyTarget,
		RelatedProjectID: req.RelatedProjectID,
		ExpiresAt:        req.ExpiresAt,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": job})
}

func (h *JobHandler) Apply(c *gin.Context) {
	var req ApplyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	app, err := h.svc.Apply(c.Request.Context(), callerID(c), paramID(c, "id"), req.CoverLetter)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"application": app})
}

func (h *JobHandler) Review(c *gin.Context) {
	var req ReviewApplicationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	app, err := h.svc.ReviewApplication(c.Request.Context(), callerID(c), paramID(c, "id"), req.Status)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"application": app})
}

func (h *JobHandler) Applications(c *gin.Context) {
	list, err := h.svc.ListApplications(c.Request.Context(), callerID(c), paramID(c, "id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

func (h *JobHandler) Get(c *gin.Context) {
	job, err := h.svc.GetJob(c.Request.Context(), paramID(c, "id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": job})
}

func (h *JobHandler) List(c *gin.Context) {
	var f service.JobFilter
	f.Type = c.Query("type")
	f.Category = c.Query("category")
	f.Location = c.Query("location")
	f.Page, f.Size = pageSize(c)
	list, err := h.query.Jobs(c.Request.Context(), f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}
