package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dreamnet/dreamnet-backend/internal/platform/apierr"
	"github.com/dreamnet/dreamnet-backend/internal/services"
	"github.com/dreamnet/dreamnet-backend/internal/types"
)

type ContributorHandler struct {
	contributorService services.ContributorService
}

func NewContributorHandler(contributorService services.ContributorService) *ContributorHandler {
	return &ContributorHandler{contributorService: contributorService}
}

func (ch *ContributorHandler) Add(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req struct {
		Wallet      string                `json:"wallet" binding:"required"`
		Role        types.ContributorRole `json:"role" binding:"required"`
		PerformedBy string                `json:"performed_by"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	added, err := ch.contributorService.Add(c.Request.Context(), id, req.Wallet, req.Role, req.PerformedBy)
	if err != nil {
		c.JSON(apierr.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	if !added {
		c.JSON(http.StatusConflict, gin.H{"added": false})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"added": true})
}

func (ch *ContributorHandler) Remove(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	wallet := c.Param("wallet")
	removed, err := ch.contributorService.Remove(c.Request.Context(), id, wallet, c.Query("performed_by"))
	if err != nil {
		c.JSON(apierr.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"removed": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": true})
}

func (ch *ContributorHandler) List(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	contributors, err := ch.contributorService.List(c.Request.Context(), id)
	if err != nil {
		c.JSON(apierr.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"contributors": contributors})
}

func (ch *ContributorHandler) History(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	history, err := ch.contributorService.History(c.Request.Context(), id)
	if err != nil {
		c.JSON(apierr.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}

func (ch *ContributorHandler) Top(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}
	rankings, err := ch.contributorService.Top(c.Request.Context(), limit)
	if err != nil {
		c.JSON(apierr.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"contributors": rankings})
}
