package handler

import (
	"net/http"

	reactionDto "anoa.com/reactions/internal/modules/reaction/dto"
	reaction "anoa.com/reactions/internal/modules/reaction/service"
	commonDto "anoa.com/reactions/pkg/dto"
	"anoa.com/reactions/pkg/response"
	"anoa.com/reactions/pkg/validator"
	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	service reaction.AdminService
}

func NewAdminHandler(service reaction.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

func (h *AdminHandler) CreateRule(c *gin.Context) {
	var req reactionDto.CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	rule, err := h.service.CreateRule(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, rule)
}

func (h *AdminHandler) ListRules(c *gin.Context) {
	var filter commonDto.PageFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	rules, err := h.service.ListRules(c.Request.Context(), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, rules)
}

func (h *AdminHandler) GetRule(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	rule, err := h.service.GetRule(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, rule)
}

func (h *AdminHandler) DeleteRule(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteRule(c.Request.Context(), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "reaction rule deleted successfully"})
}

func (h *AdminHandler) CreateInstance(c *gin.Context) {
	var req reactionDto.CreateInstanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	instance, err := h.service.CreateInstance(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, instance)
}

func (h *AdminHandler) ListInstances(c *gin.Context) {
	var filter commonDto.PageFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	instances, err := h.service.ListInstances(c.Request.Context(), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, instances)
}

func (h *AdminHandler) GetInstance(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	instance, err := h.service.GetInstance(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, instance)
}

func (h *AdminHandler) DeleteInstance(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteInstance(c.Request.Context(), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "reaction instance deleted successfully"})
}
