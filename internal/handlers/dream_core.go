package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dreamnet/dreamnet-backend/internal/platform/apierr"
	"github.com/dreamnet/dreamnet-backend/internal/services"
)

type DreamCoreHandler struct {
	coreService services.DreamCoreService
}

func NewDreamCoreHandler(coreService services.DreamCoreService) *DreamCoreHandler {
	return &DreamCoreHandler{coreService: coreService}
}

func (dch *DreamCoreHandler) Create(c *gin.Context) {
	var input services.CreateDreamCoreInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	core, err := dch.coreService.Create(c.Request.Context(), input)
	if err != nil {
		c.JSON(apierr.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"core": core})
}

func (dch *DreamCoreHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	core, err := dch.coreService.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(apierr.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"core": core})
}

func (dch *DreamCoreHandler) List(c *gin.Context) {
	cores, err := dch.coreService.List(c.Request.Context())
	if err != nil {
		c.JSON(apierr.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cores": cores})
}

func (dch *DreamCoreHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var input services.UpdateDreamCoreInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	core, err := dch.coreService.Update(c.Request.Context(), id, input)
	if err != nil {
		c.JSON(apierr.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"core": core})
}

func (dch *DreamCoreHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := dch.coreService.Delete(c.Request.Context(), id); err != nil {
		c.JSON(apierr.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
