package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dreamnet/dreamnet-backend/internal/platform/apierr"
	"github.com/dreamnet/dreamnet-backend/internal/services"
)

type AdminHandler struct {
	archiveService services.ArchiveService
	walletService  services.WalletService
	defaultDays    int
}

func NewAdminHandler(archiveService services.ArchiveService, walletService services.WalletService, defaultDays int) *AdminHandler {
	return &AdminHandler{
		archiveService: archiveService,
		walletService:  walletService,
		defaultDays:    defaultDays,
	}
}

// RunArchiveSweep triggers the inactivity sweep on demand, outside the cron
// schedule.
func (ah *AdminHandler) RunArchiveSweep(c *gin.Context) {
	days := ah.defaultDays
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid days"})
			return
		}
		days = parsed
	}

	result, err := ah.archiveService.ArchiveInactive(c.Request.Context(), days)
	if err != nil {
		c.JSON(apierr.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

func (ah *AdminHandler) RecalculateWallet(c *gin.Context) {
	var req struct {
		UserID        string `json:"user_id" binding:"required"`
		WalletAddress string `json:"wallet_address" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	wallet, err := ah.walletService.Recalculate(c.Request.Context(), req.UserID, req.WalletAddress)
	if err != nil {
		c.JSON(apierr.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"wallet": wallet})
}
