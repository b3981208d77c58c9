package reaction

import (
	"anoa.com/reactions/internal/entity"
	reactionDto "anoa.com/reactions/internal/modules/reaction/dto"
	"github.com/google/uuid"
)

// RenderLike builds the LIKE view of a populated instance. Only votes that are
// not deleted are tallied and listed as participants. userID may be nil for
// anonymous readers, in which case UserVote stays nil.
func RenderLike(instance *entity.ReactionInstance, userID *uuid.UUID) reactionDto.LikeResult {
	participants := make([]reactionDto.Participant, 0, len(instance.Results))
	var userVote *entity.ReactionVote
	count := 0

	for _, vote := range instance.Results {
		if !vote.Meta.Deleted {
			participants = append(participants, participantOf(vote))
			count++
		}
		if userID != nil && userVote == nil && vote.UserID == *userID {
			v := vote
			userVote = &v
		}
	}

	return reactionDto.LikeResult{
		ID:           instance.ID,
		Title:        instance.Title,
		Instruction:  instance.Instruction,
		ReactionRule: instance.Rule,
		Participants: participants,
		UserVote:     userVote,
		Data: reactionDto.LikeData{
			Name:  string(entity.MethodLike),
			Value: count,
		},
	}
}

// RenderChoice builds the frequency table of vote values, options in the
// order they first appear. Deleted votes are counted here.
func RenderChoice(instance *entity.ReactionInstance) reactionDto.ChoiceResult {
	type optionKey struct {
		set   bool
		value string
	}

	frequency := make(map[optionKey]int)
	order := make([]optionKey, 0)

	for _, vote := range instance.Results {
		key := optionKey{}
		if vote.Value != nil {
			key = optionKey{set: true, value: *vote.Value}
		}
		if _, seen := frequency[key]; !seen {
			order = append(order, key)
		}
		frequency[key]++
	}

	data := make([]reactionDto.ChoiceOption, 0, len(order))
	for _, key := range order {
		option := reactionDto.ChoiceOption{Value: frequency[key]}
		if key.set {
			value := key.value
			option.Option = &value
		}
		data = append(data, option)
	}

	participants := make([]entity.ReactionVote, len(instance.Results))
	copy(participants, instance.Results)

	return reactionDto.ChoiceResult{
		ID:           instance.ID,
		Title:        instance.Title,
		Instruction:  instance.Instruction,
		ReactionRule: instance.Rule,
		Data:         data,
		Participants: participants,
	}
}

func participantOf(vote entity.ReactionVote) reactionDto.Participant {
	p := reactionDto.Participant{ID: vote.UserID}
	if vote.User != nil {
		p.Username = vote.User.Username
	}
	return p
}
