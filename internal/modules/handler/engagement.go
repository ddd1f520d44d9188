package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hossamkoky599/crowdfund/internal/middleware"
	"github.com/hossamkoky599/crowdfund/internal/modules/model"
	"github.com/hossamkoky599/crowdfund/internal/modules/serializer"
	"github.com/hossamkoky599/crowdfund/internal/modules/service"
)

type EngagementHandler struct {
	svc service.EngagementService
}

func NewEngagementHandler(s service.EngagementService) *EngagementHandler {
	return &EngagementHandler{svc: s}
}

type AddCommentReq struct {
	Content  string  `json:"content" binding:"required"`
	ParentID *string `json:"parent_id"`
}

// AddComment godoc
//
//	@Summary		Comment on a project
//	@Description	Set parent_id to reply to an existing comment on the same project
//	@Tags			comment
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			project_id	path		string					true	"Project ID"	format(uuid)
//	@Param			payload		body		handler.AddCommentReq	true	"Comment payload"
//	@Success		201			{object}	serializer.Response{data=model.Comment}
//	@Router			/projects/{project_id}/comments [post]
func (h *EngagementHandler) AddComment(c *gin.Context) {
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

	req := AddCommentReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	var parentID *uuid.UUID
	if req.ParentID != nil {
		pid, err := uuid.Parse(*req.ParentID)
		if err != nil {
			c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid parent_id", err))
			return
		}
		parentID = &pid
	}

	comment, err := h.svc.AddComment(c.Request.Context(), user.ID, projectID, req.Content, parentID)
	if err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.Response{Data: comment})
}

// ListComments godoc
//
//	@Summary		List comments on a project
//	@Description	Top-level comments with their replies nested
//	@Tags			comment
//	@Produce		json
//	@Param			project_id	path		string	true	"Project ID"	format(uuid)
//	@Success		200			{object}	serializer.Response{data=[]model.Comment}
//	@Router			/projects/{project_id}/comments [get]
func (h *EngagementHandler) ListComments(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	comments, err := h.svc.ListComments(c.Request.Context(), projectID)
	if err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: comments})
}

// DeleteComment godoc
//
//	@Summary		Delete own comment
//	@Tags			comment
//	@Produce		json
//	@Security		BearerAuth
//	@Param			comment_id	path		string	true	"Comment ID"	format(uuid)
//	@Success		200			{object}	serializer.Response{}
//	@Router			/comments/{comment_id} [delete]
func (h *EngagementHandler) DeleteComment(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, serializer.AuthErr(""))
		return
	}

	commentID, err := uuid.Parse(c.Param("comment_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	if err := h.svc.DeleteComment(c.Request.Context(), user.ID, commentID); err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Msg: "comment deleted"})
}

type ReportReq struct {
	ReportType string  `json:"report_type" binding:"required" enums:"project,comment"`
	ProjectID  *string `json:"project_id"`
	CommentID  *string `json:"comment_id"`
	Reason     string  `json:"reason" binding:"required"`
}

// Report godoc
//
//	@Summary		Report a project or a comment
//	@Description	report_type selects the target; set project_id for project reports and comment_id for comment reports
//	@Tags			report
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			payload	body		handler.ReportReq	true	"Report payload"
//	@Success		201		{object}	serializer.Response{data=model.Report}
//	@Router			/reports [post]
func (h *EngagementHandler) Report(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, serializer.AuthErr(""))
		return
	}

	req := ReportReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	var target model.ReportTarget
	switch model.ReportType(req.ReportType) {
	case model.ReportTypeProject:
		if req.ProjectID == nil {
			c.JSON(http.StatusBadRequest, serializer.ParamErr("project_id required for project reports", nil))
			return
		}
		id, err := uuid.Parse(*req.ProjectID)
		if err != nil {
			c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid project_id", err))
			return
		}
		target = model.ProjectTarget(id)
	case model.ReportTypeComment:
		if req.CommentID == nil {
			c.JSON(http.StatusBadRequest, serializer.ParamErr("comment_id required for comment reports", nil))
			return
		}
		id, err := uuid.Parse(*req.CommentID)
		if err != nil {
			c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid comment_id", err))
			return
		}
		target = model.CommentTarget(id)
	default:
		c.JSON(http.StatusBadRequest, serializer.ParamErr("report_type must be project or comment", nil))
		return
	}

	report, err := h.svc.Report(c.Request.Context(), user.ID, target, req.Reason)
	if err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.Response{Data: report})
}
