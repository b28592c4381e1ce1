package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dreamnet/dreamnet-backend/internal/platform/apierr"
	"github.com/dreamnet/dreamnet-backend/internal/services"
)

type HarvestHandler struct {
	harvestService services.HarvestService
}

func NewHarvestHandler(harvestService services.HarvestService) *HarvestHandler {
	return &HarvestHandler{harvestService: harvestService}
}

func (hh *HarvestHandler) Yield(c *gin.Context) {
	wallet := c.Param("wallet")
	summary, err := hh.harvestService.Yield(c.Request.Context(), wallet)
	if err != nil {
		c.JSON(apierr.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"yield": summary})
}

func (hh *HarvestHandler) Claim(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	result, err := hh.harvestService.Claim(c.Request.Context(), id)
	if err != nil {
		c.JSON(apierr.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"claim": result})
}

func (hh *HarvestHandler) ClaimAll(c *gin.Context) {
	wallet := c.Param("wallet")
	results, err := hh.harvestService.ClaimAll(c.Request.Context(), wallet)
	if err != nil {
		c.JSON(apierr.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"claims": results})
}
