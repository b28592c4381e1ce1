package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dreamnet/dreamnet-backend/internal/platform/apierr"
	"github.com/dreamnet/dreamnet-backend/internal/services"
	"github.com/dreamnet/dreamnet-backend/internal/types"
)

type CocoonHandler struct {
	cocoonService services.CocoonService
}

func NewCocoonHandler(cocoonService services.CocoonService) *CocoonHandler {
	return &CocoonHandler{cocoonService: cocoonService}
}

func (ch *CocoonHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	cocoon, err := ch.cocoonService.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(apierr.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cocoon": cocoon})
}

func (ch *CocoonHandler) List(c *gin.Context) {
	stage := types.CocoonStage(c.Query("stage"))
	cocoons, err := ch.cocoonService.List(c.Request.Context(), stage)
	if err != nil {
		c.JSON(apierr.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cocoons": cocoons})
}

func (ch *CocoonHandler) Logs(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	logs, err := ch.cocoonService.Logs(c.Request.Context(), id)
	if err != nil {
		c.JSON(apierr.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

func (ch *CocoonHandler) AppendNote(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req struct {
		Note string `json:"note" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cocoon, err := ch.cocoonService.AppendEvolutionNote(c.Request.Context(), id, req.Note)
	if err != nil {
		c.JSON(apierr.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cocoon": cocoon})
}

type stageRequest struct {
	Stage       types.CocoonStage `json:"stage" binding:"required"`
	AdminWallet string            `json:"admin_wallet" binding:"required"`
	Notes       string            `json:"notes"`
}

func (ch *CocoonHandler) UpdateStage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req stageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cocoon, err := ch.cocoonService.UpdateStage(c.Request.Context(), id, req.Stage, req.AdminWallet, req.Notes)
	if err != nil {
		c.JSON(apierr.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cocoon": cocoon})
}

func (ch *CocoonHandler) ForceStage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req stageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cocoon, err := ch.cocoonService.ForceStage(c.Request.Context(), id, req.Stage, req.AdminWallet, req.Notes)
	if err != nil {
		c.JSON(apierr.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cocoon": cocoon})
}

func (ch *CocoonHandler) UpdateScore(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req struct {
		Score int `json:"score"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cocoon, err := ch.cocoonService.UpdateScore(c.Request.Context(), id, req.Score)
	if err != nil {
		c.JSON(apierr.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cocoon": cocoon})
}

func (ch *CocoonHandler) Mint(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	minted, err := ch.cocoonService.CheckAndMintNFT(c.Request.Context(), id)
	if err != nil {
		c.JSON(apierr.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"minted": minted})
}
