package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dreamnet/dreamnet-backend/internal/platform/apierr"
	"github.com/dreamnet/dreamnet-backend/internal/services"
	"github.com/dreamnet/dreamnet-backend/internal/types"
)

type DreamHandler struct {
	dreamService  services.DreamService
	cocoonService services.CocoonService
}

func NewDreamHandler(dreamService services.DreamService, cocoonService services.CocoonService) *DreamHandler {
	return &DreamHandler{dreamService: dreamService, cocoonService: cocoonService}
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

func (dh *DreamHandler) Create(c *gin.Context) {
	var input services.CreateDreamInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	dream, err := dh.dreamService.Create(c.Request.Context(), input)
	if err != nil {
		c.JSON(apierr.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"dream": dream})
}

func (dh *DreamHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	dream, err := dh.dreamService.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(apierr.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"dream": dream})
}

func (dh *DreamHandler) List(c *gin.Context) {
	status := types.DreamStatus(c.Query("status"))
	if wallet := c.Query("wallet"); wallet != "" {
		dreams, err := dh.dreamService.ListByWallet(c.Request.Context(), wallet)
		if err != nil {
			c.JSON(apierr.StatusOf(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"dreams": dreams})
		return
	}
	dreams, err := dh.dreamService.List(c.Request.Context(), status)
	if err != nil {
		c.JSON(apierr.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"dreams": dreams})
}

func (dh *DreamHandler) Edit(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var input services.EditDreamInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	dream, err := dh.dreamService.Edit(c.Request.Context(), id, input)
	if err != nil {
		c.JSON(apierr.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"dream": dream})
}

func (dh *DreamHandler) RecordEngagement(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var input services.EngagementInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	dream, err := dh.dreamService.RecordEngagement(c.Request.Context(), id, input)
	if err != nil {
		c.JSON(apierr.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"dream": dream})
}

func (dh *DreamHandler) Evolve(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	cocoon, err := dh.cocoonService.EvolveDream(c.Request.Context(), id)
	if err != nil {
		c.JSON(apierr.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"cocoon": cocoon})
}

// Admin surface below.

func (dh *DreamHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req struct {
		Status     types.DreamStatus `json:"status" binding:"required"`
		ReviewerID string            `json:"reviewer_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	dream, err := dh.dreamService.UpdateStatus(c.Request.Context(), id, req.Status, req.ReviewerID)
	if err != nil {
		c.JSON(apierr.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"dream": dream})
}

func (dh *DreamHandler) SetScore(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req struct {
		Score     int                   `json:"score"`
		Breakdown *types.ScoreBreakdown `json:"breakdown"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	dream, err := dh.dreamService.SetScore(c.Request.Context(), id, req.Score, req.Breakdown)
	if err != nil {
		c.JSON(apierr.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"dream": dream})
}

func (dh *DreamHandler) RecalculateScore(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	dream, err := dh.dreamService.RecalculateScore(c.Request.Context(), id)
	if err != nil {
		c.JSON(apierr.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"dream": dream})
}

func (dh *DreamHandler) RefreshAIScore(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	dream, err := dh.dreamService.RefreshAIScore(c.Request.Context(), id)
	if err != nil {
		c.JSON(apierr.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"dream": dream})
}

func (dh *DreamHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := dh.dreamService.Delete(c.Request.Context(), id); err != nil {
		c.JSON(apierr.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
