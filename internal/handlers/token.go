package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dreamnet/dreamnet-backend/internal/platform/apierr"
	"github.com/dreamnet/dreamnet-backend/internal/services"
)

type TokenHandler struct {
	tokenService services.TokenService
}

func NewTokenHandler(tokenService services.TokenService) *TokenHandler {
	return &TokenHandler{tokenService: tokenService}
}

func (th *TokenHandler) ListByWallet(c *gin.Context) {
	wallet := c.Param("wallet")
	tokens, err := th.tokenService.ListByWallet(c.Request.Context(), wallet)
	if err != nil {
		c.JSON(apierr.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

func (th *TokenHandler) ListByDream(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	tokens, err := th.tokenService.ListByDream(c.Request.Context(), id)
	if err != nil {
		c.JSON(apierr.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

func (th *TokenHandler) ListByCocoon(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	tokens, err := th.tokenService.ListByCocoon(c.Request.Context(), id)
	if err != nil {
		c.JSON(apierr.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}
