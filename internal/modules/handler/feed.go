package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hossamkoky599/crowdfund/internal/modules/serializer"
	"github.com/hossamkoky599/crowdfund/internal/modules/service"
)

type FeedHandler struct {
	svc service.FeedService
}

func NewFeedHandler(s service.FeedService) *FeedHandler {
	return &FeedHandler{svc: s}
}

// Home godoc
//
//	@Summary		Home feed
//	@Description	Latest, featured and top-rated project lists
//	@Tags			feed
//	@Produce		json
//	@Success		200	{object}	serializer.Response{data=service.HomeFeed}
//	@Router			/home [get]
func (h *FeedHandler) Home(c *gin.Context) {
	feed, err := h.svc.Home(c.Request.Context())
	if err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: feed})
}

// Search godoc
//
//	@Summary		Search projects
//	@Description	Matches project titles and tag names
//	@Tags			feed
//	@Produce		json
//	@Param			q	query		string	true	"Search query"
//	@Success		200	{object}	serializer.Response{data=[]repo.ProjectWithRating}
//	@Router			/search [get]
func (h *FeedHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))

	results, err := h.svc.Search(c.Request.Context(), query)
	if err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: results})
}
