package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hossamkoky599/crowdfund/internal/middleware"
	"github.com/hossamkoky599/crowdfund/internal/modules/serializer"
	"github.com/hossamkoky599/crowdfund/internal/modules/service"
	"github.com/shopspring/decimal"
)

type ProjectHandler struct {
	svc service.ProjectService
}

func NewProjectHandler(s service.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: s}
}

type CreateProjectReq struct {
	Title       string   `form:"title" binding:"required"`
	Details     string   `form:"details" binding:"required"`
	TotalTarget string   `form:"total_target" binding:"required" example:"10000.00"`
	StartTime   string   `form:"start_time" binding:"required" example:"2025-01-01T00:00:00Z"`
	EndTime     string   `form:"end_time" binding:"required" example:"2025-06-01T00:00:00Z"`
	Category    string   `form:"category" binding:"required"`
	Tags        []string `form:"tags"`
}

// CreateProject godoc
//
//	@Summary		Create project
//	@Description	Create a project with category, tags and images in one multipart request
//	@Tags			project
//	@Accept			mpfd
//	@Produce		json
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=model.Project}
//	@Router			/projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, serializer.AuthErr(""))
		return
	}

	req := CreateProjectReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	target, err := decimal.NewFromString(req.TotalTarget)
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid total_target", err))
		return
	}
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid start_time", err))
		return
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid end_time", err))
		return
	}

	in := service.CreateProjectInput{
		OwnerID:      user.ID,
		Title:        req.Title,
		Details:      req.Details,
		TotalTarget:  target,
		StartTime:    start,
		EndTime:      end,
		CategoryName: req.Category,
		TagNames:     req.Tags,
	}
	if form, err := c.MultipartForm(); err == nil && form != nil {
		in.Images = form.File["images"]
	}

	project, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		serializer.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, serializer.Response{Data: project})
}

// GetProject godoc
//
//	@Summary		Get project
//	@Tags			project
//	@Produce		json
//	@Param			project_id	path		string	true	"Project ID"	format(uuid)
//	@Success		200			{object}	serializer.Response{data=serializer.ProjectDetail}
//	@Router			/projects/{project_id} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	project, avg, err := h.svc.Get(c.Request.Context(), projectID)
	if err != nil {
		serializer.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: serializer.BuildProjectDetail(project, avg)})
}

type UpdateProjectReq struct {
	Title       *string  `json:"title"`
	Details     *string  `json:"details"`
	TotalTarget *string  `json:"total_target"`
	StartTime   *string  `json:"start_time"`
	EndTime     *string  `json:"end_time"`
	Tags        []string `json:"tags"`
}

// UpdateProject godoc
//
//	@Summary		Update project
//	@Description	Partial update; a tags list replaces the full tag set
//	@Tags			project
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			project_id	path		string						true	"Project ID"	format(uuid)
//	@Param			payload		body		handler.UpdateProjectReq	true	"Patch payload"
//	@Success		200			{object}	serializer.Response{data=model.Project}
//	@Router			/projects/{project_id} [put]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, serializer.AuthErr(""))
		return
	}

	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	req := UpdateProjectReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	in := service.UpdateProjectInput{
		Title:    req.Title,
		Details:  req.Details,
		TagNames: req.Tags,
	}
	if req.TotalTarget != nil {
		target, err := decimal.NewFromString(*req.TotalTarget)
		if err != nil {
			c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid total_target", err))
			return
		}
		in.TotalTarget = &target
	}
	if req.StartTime != nil {
		t, err := time.Parse(time.RFC3339, *req.StartTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid start_time", err))
			return
		}
		in.StartTime = &t
	}
	if req.EndTime != nil {
		t, err := time.Parse(time.RFC3339, *req.EndTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid end_time", err))
			return
		}
		in.EndTime = &t
	}

	project, err := h.svc.Update(c.Request.Context(), user.ID, projectID, in)
	if err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: project})
}

// AttachImage godoc
//
//	@Summary		Attach image
//	@Tags			project
//	@Accept			mpfd
//	@Produce		json
//	@Security		BearerAuth
//	@Param			project_id	path		string	true	"Project ID"	format(uuid)
//	@Success		201			{object}	serializer.Response{data=model.ProjectImage}
//	@Router			/projects/{project_id}/images [post]
func (h *ProjectHandler) AttachImage(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, serializer.AuthErr(""))
		return
	}

	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	fh, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("image file required", err))
		return
	}

	img, err := h.svc.AttachImage(c.Request.Context(), user.ID, projectID, fh)
	if err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.Response{Data: img})
}

// CancelProject godoc
//
//	@Summary		Cancel project
//	@Description	Owner-only; allowed while donations are below 25% of the target. Deletes the project and everything attached to it.
//	@Tags			project
//	@Produce		json
//	@Security		BearerAuth
//	@Param			project_id	path		string	true	"Project ID"	format(uuid)
//	@Success		200			{object}	serializer.Response{}
//	@Router			/projects/{project_id} [delete]
func (h *ProjectHandler) CancelProject(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, serializer.AuthErr(""))
		return
	}

	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	if err := h.svc.Cancel(c.Request.Context(), user.ID, projectID); err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Msg: "project canceled"})
}

// SimilarProjects godoc
//
//	@Summary		Similar projects
//	@Description	Projects sharing at least one tag, excluding the project itself
//	@Tags			project
//	@Produce		json
//	@Param			project_id	path		string	true	"Project ID"	format(uuid)
//	@Success		200			{object}	serializer.Response{data=[]model.Project}
//	@Router			/projects/{project_id}/similar [get]
func (h *ProjectHandler) SimilarProjects(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	projects, err := h.svc.Similar(c.Request.Context(), projectID)
	if err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: projects})
}
