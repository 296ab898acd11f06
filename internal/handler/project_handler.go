package handler

import (
	"net/http"

	"Tabletop_Community/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ProjectHandler struct {
	svc   *service.ProjectService
	query *service.QueryService
}

func NewProjectHandler(db *gorm.DB) *ProjectHandler {
	return &ProjectHandler{
		svc:   service.NewProjectService(db),
		query: service.NewQueryService(db),
	}
}

type CreateProjectReq struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Visibility  string `json:"visibility"`
	Tags        string `json:"tags"`
	Complexity  *int   `json:"complexity"`
}

type UpdateStageReq struct {
	Stage string `json:"stage" binding:"required"`
}

type UpdateProjectReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Visibility  *string `json:"visibility"`
	Tags        *string `json:"tags"`
	Complexity  *int    `json:"complexity"`
}

type JournalReq struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
}

type GalleryReq struct {
	URL     string `json:"url" binding:"required"`
	Caption string `json:"caption"`
}

func (h *ProjectHandler) Create(c *gin.Context) {
	var req CreateProjectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	p, err := h.svc.CreateProject(c.Request.Context(), callerID(c), service.CreateProjectInput{
		Title:       req.Title,
		Description: req.Description,
		Visibility:  req.Visibility,
		Tags:        req.Tags,
		Complexity:  req.Complexity,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": p})
}

func (h *ProjectHandler) Update(c *gin.Context) {
	var req UpdateProjectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	p, err := h.svc.UpdateProject(c.Request.Context(), callerID(c), paramID(c, "id"), service.UpdateProjectInput{
		Title:       req.Title,
		Description: req.Description,
		Visibility:  req.Visibility,
		Tags:        req.Tags,
		Complexity:  req.Complexity,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": p})
}

func (h *ProjectHandler) UpdateStage(c *gin.Context) {
	var req UpdateStageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	p, err := h.svc.UpdateStage(c.Request.Context(), callerID(c), paramID(c, "id"), req.Stage)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": p})
}

func (h *ProjectHandler) Follow(c *gin.Context) {
	p, err := h.svc.Follow(c.Request.Context(), callerID(c), paramID(c, "id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": p})
}

func (h *ProjectHandler) Unfollow(c *gin.Context) {
	p, err := h.svc.Unfollow(c.Request.Context(), callerID(c), paramID(c, "id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": p})
}

func (h *ProjectHandler) Like(c *gin.Context) {
	p, err := h.svc.Like(c.Request.Context(), callerID(c), paramID(c, "id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": p})
}

// View 公开项目不要求登录
func (h *ProjectHandler) View(c *gin.Context) {
	p, err := h.svc.RecordView(c.Request.Context(), callerID(c), paramID(c, "id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": p})
}

func (h *ProjectHandler) AddJournalEntry(c *gin.Context) {
	var req JournalReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	entry, err := h.svc.AddJournalEntry(c.Request.Context(), callerID(c), paramID(c, "id"), req.Title, req.Content)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

func (h *ProjectHandler) AddGalleryImage(c *gin.Context) {
	var req GalleryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	img, err := h.svc.AddGalleryImage(c.Request.Context(), callerID(c), paramID(c, "id"), req.URL, req.Caption)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"image": img})
}

// ResetCounters 管理员审核重置计数
func (h *ProjectHandler) ResetCounters(c *gin.Context) {
	p, err := h.svc.ResetCounters(c.Request.Context(), callerRole(c), paramID(c, "id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": p})
}

func (h *ProjectHandler) Journal(c *gin.Context) {
	list, err := h.svc.ListJournal(c.Request.Context(), paramID(c, "id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

func (h *ProjectHandler) Gallery(c *gin.Context) {
	list, err := h.svc.ListGallery(c.Request.Context(), paramID(c, "id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

func (h *ProjectHandler) Get(c *gin.Context) {
	p, err := h.svc.GetProject(c.Request.Context(), callerID(c), paramID(c, "id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": p})
}

func (h *ProjectHandler) List(c *gin.Context) {
	var f service.ProjectFilter
	f.Stage = c.Query("stage")
	f.Tag = c.Query("tag")
	f.Search = c.Query("q")
	f.Page, f.Size = pageSize(c)
	list, err := h.query.Projects(c.Request.Context(), callerRole(c), f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}
