package handler

import (
	"errors"
	"io"
	"net/http"

	reactionDto "anoa.com/reactions/internal/modules/reaction/dto"
	reaction "anoa.com/reactions/internal/modules/reaction/service"
	"anoa.com/reactions/pkg/apperror"
	"anoa.com/reactions/pkg/response"
	"anoa.com/reactions/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReactionHandler struct {
	service reaction.ReactionService
}

func NewReactionHandler(service reaction.ReactionService) *ReactionHandler {
	return &ReactionHandler{service: service}
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid uuid format"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *ReactionHandler) Vote(c *gin.Context) {
	instanceID, ok := parseID(c)
	if !ok {
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req reactionDto.VoteRequest
	// A LIKE needs no body, so an empty one is accepted.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	result, err := h.service.Vote(c.Request.Context(), instanceID, userID, req)
	if err != nil {
		if errors.Is(err, apperror.ErrVoteLimitReached) && result != nil {
			c.JSON(http.StatusForbidden, result.Vote)
			return
		}
		response.ResponseError(c, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	c.JSON(status, result.Vote)
}

func (h *ReactionHandler) GetResult(c *gin.Context) {
	instanceID, ok := parseID(c)
	if !ok {
		return
	}

	view, err := h.service.GetResult(c.Request.Context(), instanceID, response.GetOptionalUserID(c))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *ReactionHandler) ListResultsByPost(c *gin.Context) {
	postID := c.Param("id")
	if postID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "post id is required"})
		return
	}

	views, err := h.service.ListResultsByPost(c.Request.Context(), postID, response.GetOptionalUserID(c))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}
