package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dreamnet/dreamnet-backend/internal/platform/apierr"
	"github.com/dreamnet/dreamnet-backend/internal/services"
)

type FeedHandler struct {
	feedService services.FeedService
}

func NewFeedHandler(feedService services.FeedService) *FeedHandler {
	return &FeedHandler{feedService: feedService}
}

func (fh *FeedHandler) Garden(c *gin.Context) {
	items, err := fh.feedService.GardenFeed(c.Request.Context())
	if err != nil {
		c.JSON(apierr.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"feed": items})
}

func (fh *FeedHandler) Tags(c *gin.Context) {
	tags, err := fh.feedService.TagCloud(c.Request.Context())
	if err != nil {
		c.JSON(apierr.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

func (fh *FeedHandler) Metrics(c *gin.Context) {
	metrics, err := fh.feedService.Metrics(c.Request.Context())
	if err != nil {
		c.JSON(apierr.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"metrics": metrics})
}
