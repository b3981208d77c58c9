package dto

import (
	"time"

	"anoa.com/reactions/internal/entity"
	commonDto "anoa.com/reactions/pkg/dto"
	"github.com/google/uuid"
)

type VoteRequest struct {
	Value *string `json:"value" binding:"omitempty,max=255"`
}

// VoteResult is what a vote submission produced. Created is false when an
// existing vote was toggled.
type VoteResult struct {
	Vote    *entity.ReactionVote
	Created bool
}

type CreateRuleRequest struct {
	Name        string     `json:"name" binding:"omitempty,max=100"`
	Method      string     `json:"method" binding:"required,max=20"`
	OpeningDate *time.Time `json:"openingDate"`
	ClosingDate *time.Time `json:"closingDate"`
	Limit       *int       `json:"limit" binding:"required,min=0"`
}

type CreateInstanceRequest struct {
	ReactionID   uuid.UUID `json:"reactionId" binding:"required"`
	Title        string    `json:"title" binding:"required,max=120"`
	Instruction  string    `json:"instruction" binding:"max=255"`
	ResourceType string    `json:"resourceType" binding:"required,max=50"`
	ResourceID   string    `json:"resourceId" binding:"required,max=64"`
}

type PaginatedRuleResponse struct {
	Data []*entity.ReactionRule   `json:"data"`
	Meta commonDto.PaginationMeta `json:"meta"`
}

type PaginatedInstanceResponse struct {
	Data []*entity.ReactionInstance `json:"data"`
	Meta commonDto.PaginationMeta   `json:"meta"`
}

// Participant is a vote owner as shown in result views.
type Participant struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username,omitempty"`
}

type LikeData struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type LikeResult struct {
	ID           uuid.UUID            `json:"id"`
	Title        string               `json:"title"`
	Instruction  string               `json:"instruction"`
	ReactionRule *entity.ReactionRule `json:"reactionRule"`
	Participants []Participant        `json:"participants"`
	UserVote     *entity.ReactionVote `json:"userVote"`
	Data         LikeData             `json:"data"`
}

// ChoiceOption is one row of a choice frequency table. Option is nil for
// votes cast without a value.
type ChoiceOption struct {
	Option *string `json:"option,omitempty"`
	Value  int     `json:"value"`
}

type ChoiceResult struct {
	ID           uuid.UUID             `json:"id"`
	Title        string                `json:"title"`
	Instruction  string                `json:"instruction"`
	ReactionRule *entity.ReactionRule  `json:"reactionRule"`
	Data         []ChoiceOption        `json:"data"`
	Participants []entity.ReactionVote `json:"participants"`
}

// EmptyResult is rendered for methods that have no result view.
type EmptyResult struct{}

// VoteEvent is published after every accepted vote.
type VoteEvent struct {
	InstanceID uuid.UUID       `json:"instanceId"`
	VoteID     uuid.UUID       `json:"voteId"`
	UserID     uuid.UUID       `json:"userId"`
	Created    bool            `json:"created"`
	Meta       entity.VoteMeta `json:"meta"`
}
