package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hossamkoky599/crowdfund/internal/middleware"
	"github.com/hossamkoky599/crowdfund/internal/modules/model"
	"github.com/hossamkoky599/crowdfund/internal/modules/serializer"
	"github.com/hossamkoky599/crowdfund/internal/modules/service"
	"github.com/shopspring/decimal"
)

type DonationHandler struct {
	svc service.DonationService
}

func NewDonationHandler(s service.DonationService) *DonationHandler {
	return &DonationHandler{svc: s}
}

type DonateReq struct {
	Amount string `json:"amount" binding:"required" example:"50.00"`
}

type DonateResp struct {
	Donation       *model.Donation `json:"donation"`
	TotalDonations decimal.Decimal `json:"total_donations"`
}

// Donate godoc
//
//	@Summary		Donate to a project
//	@Description	Records the donation and returns the project's recomputed total
//	@Tags			donation
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			project_id	path		string				true	"Project ID"	format(uuid)
//	@Param			payload		body		handler.DonateReq	true	"Donation payload"
//	@Success		201			{object}	serializer.Response{data=handler.DonateResp}
//	@Router			/projects/{project_id}/donations [post]
func (h *DonationHandler) Donate(c *gin.Context) {
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

	req := DonateReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid amount", err))
		return
	}

	donation, total, err := h.svc.Record(c.Request.Context(), user.ID, projectID, amount)
	if err != nil {
		serializer.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, serializer.Response{
		Data: DonateResp{Donation: donation, TotalDonations: total},
	})
}

// ListProjectDonations godoc
//
//	@Summary		List donations on a project
//	@Tags			donation
//	@Produce		json
//	@Param			project_id	path		string	true	"Project ID"	format(uuid)
//	@Success		200			{object}	serializer.Response{data=[]model.Donation}
//	@Router			/projects/{project_id}/donations [get]
func (h *DonationHandler) ListProjectDonations(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	donations, err := h.svc.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: donations})
}

// ListMyDonations godoc
//
//	@Summary		List own donations
//	@Tags			donation
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=[]model.Donation}
//	@Router			/users/me/donations [get]
func (h *DonationHandler) ListMyDonations(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, serializer.AuthErr(""))
		return
	}

	donations, err := h.svc.ListByUser(c.Request.Context(), user.ID)
	if err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: donations})
}
