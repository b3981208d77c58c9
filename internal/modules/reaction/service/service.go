package reaction

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"anoa.com/reactions/internal/entity"
	reactionDto "anoa.com/reactions/internal/modules/reaction/dto"
	reactionRepo "anoa.com/reactions/internal/modules/reaction/repository"
	"anoa.com/reactions/pkg/apperror"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type ReactionService interface {
	// Vote casts, withdraws or re-casts the vote of userID on an instance.
	Vote(ctx context.Context, instanceID, userID uuid.UUID, req reactionDto.VoteRequest) (*reactionDto.VoteResult, error)
	GetResult(ctx context.Context, instanceID uuid.UUID, userID *uuid.UUID) (any, error)
	ListResultsByPost(ctx context.Context, postID string, userID *uuid.UUID) ([]any, error)
}

type reactionService struct {
	repo        reactionRepo.ReactionRepository
	registry    Registry
	redisClient *redis.Client
	lockTTL     time.Duration
	now         func() time.Time
}

func NewReactionService(repo reactionRepo.ReactionRepository, registry Registry, redisClient *redis.Client, lockTTL time.Duration) ReactionService {
	return &reactionService{
		repo:        repo,
		registry:    registry,
		redisClient: redisClient,
		lockTTL:     lockTTL,
		now:         time.Now,
	}
}

// InstanceChannel is the redis channel vote events of an instance go to.
func InstanceChannel(instanceID uuid.UUID) string {
	return fmt.Sprintf("reactions:instance:%s", instanceID)
}

func (s *reactionService) Vote(ctx context.Context, instanceID, userID uuid.UUID, req reactionDto.VoteRequest) (*reactionDto.VoteResult, error) {
	instance, err := s.repo.FindInstanceByID(ctx, instanceID)
	if err != nil {
		return nil, err
	}

	rule, err := s.repo.FindRuleByID(ctx, instance.ReactionID)
	if err != nil {
		return nil, err
	}

	if rule.ClosedAt(s.now()) {
		return nil, apperror.ErrVotingClosed
	}

	release, err := acquireVoteLock(ctx, s.redisClient, instanceID, userID, s.lockTTL)
	if err != nil {
		return nil, err
	}
	defer release()

	existing, err := s.repo.FindUserVote(ctx, instanceID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find existing vote: %w", err)
	}

	var result *reactionDto.VoteResult
	if existing == nil {
		result, err = s.createVote(ctx, instance, rule, userID, req)
	} else {
		result, err = s.toggleVote(ctx, existing, rule)
	}
	if err != nil {
		return result, err
	}

	s.publish(ctx, instanceID, result)
	return result, nil
}

func (s *reactionService) createVote(ctx context.Context, instance *entity.ReactionInstance, rule *entity.ReactionRule, userID uuid.UUID, req reactionDto.VoteRequest) (*reactionDto.VoteResult, error) {
	factory, ok := s.registry.VoteFactory(rule.Method)
	if !ok {
		return nil, apperror.ErrUnsupportedMethod
	}

	vote := factory.NewVote(userID, req.Value)
	if err := s.repo.AddVote(ctx, instance, vote); err != nil {
		return nil, err
	}

	return &reactionDto.VoteResult{Vote: vote, Created: true}, nil
}

func (s *reactionService) toggleVote(ctx context.Context, existing *entity.ReactionVote, rule *entity.ReactionRule) (*reactionDto.VoteResult, error) {
	vote, toggled, err := s.repo.ToggleVote(ctx, existing.ID, rule.Limit)
	if err != nil {
		return nil, err
	}

	result := &reactionDto.VoteResult{Vote: vote}
	if !toggled {
		return result, apperror.ErrVoteLimitReached
	}
	return result, nil
}

func (s *reactionService) publish(ctx context.Context, instanceID uuid.UUID, result *reactionDto.VoteResult) {
	if s.redisClient == nil {
		return
	}

	payload, err := json.Marshal(reactionDto.VoteEvent{
		InstanceID: instanceID,
		VoteID:     result.Vote.ID,
		UserID:     result.Vote.UserID,
		Created:    result.Created,
		Meta:       result.Vote.Meta,
	})
	if err != nil {
		log.Printf("failed to encode vote event: %v", err)
		return
	}

	if err := s.redisClient.Publish(ctx, InstanceChannel(instanceID), payload).Err(); err != nil {
		log.Printf("failed to publish vote event for %s: %v", instanceID, err)
	}
}

func (s *reactionService) GetResult(ctx context.Context, instanceID uuid.UUID, userID *uuid.UUID) (any, error) {
	instance, err := s.repo.FindResultByID(ctx, instanceID)
	if err != nil {
		return nil, err
	}
	return s.registry.Render(instance, userID), nil
}

func (s *reactionService) ListResultsByPost(ctx context.Context, postID string, userID *uuid.UUID) ([]any, error) {
	instances, err := s.repo.FindResultsByResource(ctx, postID)
	if err != nil {
		return nil, err
	}

	results := make([]any, 0, len(instances))
	for _, instance := range instances {
		results = append(results, s.registry.Render(instance, userID))
	}
	return results, nil
}
