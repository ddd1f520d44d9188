package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hossamkoky599/crowdfund/internal/middleware"
	"github.com/hossamkoky599/crowdfund/internal/modules/serializer"
	"github.com/hossamkoky599/crowdfund/internal/modules/service"
)

type RatingHandler struct {
	svc service.RatingService
}

func NewRatingHandler(s service.RatingService) *RatingHandler {
	return &RatingHandler{svc: s}
}

type RateReq struct {
	Score int `json:"score" binding:"required" example:"4"`
}

type RateResp struct {
	Score     int     `json:"score"`
	AvgRating float64 `json:"avg_rating"`
}

// Rate godoc
//
//	@Summary		Rate a project
//	@Description	One rating per user per project; rating again overwrites the previous score. 201 on first rating, 200 on overwrite.
//	@Tags			rating
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			project_id	path		string			true	"Project ID"	format(uuid)
//	@Param			payload		body		handler.RateReq	true	"Rating payload"
//	@Success		200			{object}	serializer.Response{data=handler.RateResp}
//	@Success		201			{object}	serializer.Response{data=handler.RateResp}
//	@Router			/projects/{project_id}/rating [put]
func (h *RatingHandler) Rate(c *gin.Context) {
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

	req := RateReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	created, err := h.svc.Submit(c.Request.Context(), user.ID, projectID, req.Score)
	if err != nil {
		serializer.WriteError(c, err)
		return
	}

	avg, err := h.svc.Average(c.Request.Context(), projectID)
	if err != nil {
		serializer.WriteError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, serializer.Response{Data: RateResp{Score: req.Score, AvgRating: avg}})
}

// ProjectRating godoc
//
//	@Summary		Average rating of a project
//	@Tags			rating
//	@Produce		json
//	@Param			project_id	path		string	true	"Project ID"	format(uuid)
//	@Success		200			{object}	serializer.Response{data=handler.RateResp}
//	@Router			/projects/{project_id}/rating [get]
func (h *RatingHandler) ProjectRating(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	avg, err := h.svc.Average(c.Request.Context(), projectID)
	if err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: gin.H{"avg_rating": avg}})
}
