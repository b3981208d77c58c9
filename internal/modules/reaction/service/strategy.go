package reaction

import (
	"anoa.com/reactions/internal/entity"
	reactionDto "anoa.com/reactions/internal/modules/reaction/dto"
	"github.com/google/uuid"
)

// Strategy is the per-method behaviour of a reaction: how results are
// rendered and, optionally through VoteFactory, how first votes are built.
type Strategy interface {
	Method() entity.ReactionMethod
	Render(instance *entity.ReactionInstance, userID *uuid.UUID) any
}

// VoteFactory is implemented by strategies that accept new votes.
type VoteFactory interface {
	NewVote(userID uuid.UUID, value *string) *entity.ReactionVote
}

type Registry map[entity.ReactionMethod]Strategy

func NewRegistry(strategies ...Strategy) Registry {
	r := make(Registry, len(strategies))
	for _, s := range strategies {
		r[s.Method()] = s
	}
	return r
}

// DefaultRegistry knows LIKE (votes and results) and VOTE (results only).
func DefaultRegistry() Registry {
	return NewRegistry(LikeStrategy{}, ChoiceStrategy{})
}

func (r Registry) Lookup(method entity.ReactionMethod) (Strategy, bool) {
	s, ok := r[method]
	return s, ok
}

// VoteFactory returns the creation strategy of method, if it has one.
func (r Registry) VoteFactory(method entity.ReactionMethod) (VoteFactory, bool) {
	s, ok := r[method]
	if !ok {
		return nil, false
	}
	f, ok := s.(VoteFactory)
	return f, ok
}

// Render dispatches on the instance rule. Instances whose method has no
// strategy render as an empty object.
func (r Registry) Render(instance *entity.ReactionInstance, userID *uuid.UUID) any {
	if instance.Rule == nil {
		return reactionDto.EmptyResult{}
	}
	s, ok := r.Lookup(instance.Rule.Method)
	if !ok {
		return reactionDto.EmptyResult{}
	}
	return s.Render(instance, userID)
}

type LikeStrategy struct{}

func (LikeStrategy) Method() entity.ReactionMethod { return entity.MethodLike }

func (LikeStrategy) Render(instance *entity.ReactionInstance, userID *uuid.UUID) any {
	return RenderLike(instance, userID)
}

func (LikeStrategy) NewVote(userID uuid.UUID, _ *string) *entity.ReactionVote {
	return &entity.ReactionVote{
		UserID: userID,
		Meta: entity.VoteMeta{
			TimesVoted: 1,
			Deleted:    false,
		},
	}
}

// ChoiceStrategy renders VOTE results. It is not a VoteFactory: new VOTE
// ballots are rejected with ErrUnsupportedMethod.
type ChoiceStrategy struct{}

func (ChoiceStrategy) Method() entity.ReactionMethod { return entity.MethodVote }

func (ChoiceStrategy) Render(instance *entity.ReactionInstance, _ *uuid.UUID) any {
	return RenderChoice(instance)
}
