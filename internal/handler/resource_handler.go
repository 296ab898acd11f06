package handler

import (
	"net/http"

	"Tabletop_Community/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ResourceHandler struct {
	svc   *service.ResourceService
	query *service.QueryService
}

func NewResourceHandler(db *gorm.DB) *ResourceHandler {
	return &ResourceHandler{
		svc:   service.NewResourceService(db),
		query: service.NewQueryService(db),
	}
}

type SubmitResourceReq struct {
	Title       string `json:"title" binding:"required"`
	URL         string `json:"url" binding:"required"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

type ModerateReq struct {
	Decision string `json:"decision" binding:"required,oneof=approved rejected"`
}

type AddReviewReq struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

func (h *ResourceHandler) Submit(c *gin.Context) {
	var req SubmitResourceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	res, err := h.svc.Submit(c.Request.Context(), callerID(c), service.SubmitResourceInput{
		Title:       req.Title,
		URL:         req.URL,
		Category:    req.Category,
		Description: req.Description,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"resource": res})
}

func (h *ResourceHandler) Moderate(c *gin.Context) {
	var req ModerateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	res, err := h.svc.Moderate(c.Request.Context(), callerID(c), callerRole(c), paramID(c, "id"), req.Decision)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"resource": res})
}

func (h *ResourceHandler) AddReview(c *gin.Context) {
	var req AddReviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	review, err := h.svc.AddReview(c.Request.Context(), callerID(c), paramID(c, "id"), req.Rating, req.Comment)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"review": review})
}

func (h *ResourceHandler) MarkHelpful(c *gin.Context) {
	review, err := h.svc.MarkHelpful(c.Request.Context(), paramID(c, "id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"review": review})
}

func (h *ResourceHandler) Reviews(c *gin.Context) {
	list, err := h.svc.ListReviews(c.Request.Context(), paramID(c, "id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

func (h *ResourceHandler) Get(c *gin.Context) {
	res, err := h.svc.GetResource(c.Request.Context(), callerID(c), callerRole(c), paramID(c, "id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"resource": res})
}

func (h *ResourceHandler) List(c *gin.Context) {
	var f service.ResourceFilter
	f.Category = c.Query("category")
	f.Status = c.Query("status")
	f.Page, f.Size = pageSize(c)
	list, err := h.query.Resources(c.Request.Context(), callerRole(c), f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}
