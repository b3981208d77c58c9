package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReactionMethod string

const (
	MethodLike ReactionMethod = "LIKE"
	MethodVote ReactionMethod = "VOTE"
)

// ReactionRule is the template a ReactionInstance is bound to: which method
// votes follow, when voting closes and how many times a user may vote.
type ReactionRule struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string         `gorm:"size:100" json:"name,omitempty"`
	Method      ReactionMethod `gorm:"size:20;not null" json:"method"`
	OpeningDate *time.Time     `json:"openingDate,omitempty"`
	ClosingDate *time.Time     `json:"closingDate,omitempty"`
	Limit       int            `gorm:"column:vote_limit;not null" json:"limit"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (r *ReactionRule) TableName() string {
	return "reaction_rules"
}

func (r *ReactionRule) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID, err = uuid.NewV7()
	}
	return
}

// ClosedAt reports whether the voting window is over at t.
// A rule without a closing date never closes.
func (r *ReactionRule) ClosedAt(t time.Time) bool {
	return r.ClosingDate != nil && r.ClosingDate.Before(t)
}

type VoteMeta struct {
	TimesVoted int  `gorm:"not null" json:"timesVoted"`
	Deleted    bool `gorm:"not null" json:"deleted"`
}

type ReactionVote struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	InstanceID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reaction_votes_user,priority:1" json:"instanceId"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reaction_votes_user,priority:2" json:"userId"`
	User       *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Value      *string   `gorm:"size:255" json:"value,omitempty"`
	Meta       VoteMeta  `gorm:"embedded" json:"meta"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (v *ReactionVote) TableName() string {
	return "reaction_votes"
}

// Votes are ordered by their v7 id, so creation order is also result order.
func (v *ReactionVote) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == uuid.Nil {
		v.ID, err = uuid.NewV7()
	}
	return
}

type ReactionInstance struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ReactionID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"reactionId"`
	Rule         *ReactionRule  `gorm:"foreignKey:ReactionID" json:"reactionRule,omitempty"`
	Title        string         `gorm:"size:120;not null" json:"title"`
	Instruction  string         `gorm:"size:255" json:"instruction"`
	ResourceType string         `gorm:"size:50;not null;index:idx_reaction_instances_resource,priority:1" json:"resourceType"`
	ResourceID   string         `gorm:"size:64;not null;index:idx_reaction_instances_resource,priority:2" json:"resourceId"`
	Results      []ReactionVote `gorm:"foreignKey:InstanceID" json:"results"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (i *ReactionInstance) TableName() string {
	return "reaction_instances"
}

func (i *ReactionInstance) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID, err = uuid.NewV7()
	}
	return
}
