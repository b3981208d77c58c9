package reaction

import (
	"context"
	"fmt"
	"strings"

	"anoa.com/reactions/internal/entity"
	reactionDto "anoa.com/reactions/internal/modules/reaction/dto"
	reactionRepo "anoa.com/reactions/internal/modules/reaction/repository"
	"anoa.com/reactions/pkg/apperror"
	commonDto "anoa.com/reactions/pkg/dto"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

// AdminService manages reaction rules and the instances bound to resources.
type AdminService interface {
	CreateRule(ctx context.Context, req reactionDto.CreateRuleRequest) (*entity.ReactionRule, error)
	GetRule(ctx context.Context, id uuid.UUID) (*entity.ReactionRule, error)
	ListRules(ctx context.Context, filter commonDto.PageFilter) (*reactionDto.PaginatedRuleResponse, error)
	DeleteRule(ctx context.Context, id uuid.UUID) error

	CreateInstance(ctx context.Context, req reactionDto.CreateInstanceRequest) (*entity.ReactionInstance, error)
	GetInstance(ctx context.Context, id uuid.UUID) (*entity.ReactionInstance, error)
	ListInstances(ctx context.Context, filter commonDto.PageFilter) (*reactionDto.PaginatedInstanceResponse, error)
	DeleteInstance(ctx context.Context, id uuid.UUID) error
}

type adminService struct {
	repo      reactionRepo.ReactionRepository
	registry  Registry
	sanitizer *bluemonday.Policy
}

func NewAdminService(repo reactionRepo.ReactionRepository, registry Registry) AdminService {
	return &adminService{
		repo:      repo,
		registry:  registry,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (s *adminService) clean(text string) string {
	return strings.TrimSpace(s.sanitizer.Sanitize(text))
}

// CreateRule rejects methods without a registered strategy, so an unknown
// method fails here instead of on every vote.
func (s *adminService) CreateRule(ctx context.Context, req reactionDto.CreateRuleRequest) (*entity.ReactionRule, error) {
	method := entity.ReactionMethod(strings.ToUpper(strings.TrimSpace(req.Method)))
	if _, ok := s.registry.Lookup(method); !ok {
		return nil, fmt.Errorf("method %q: %w", req.Method, apperror.ErrUnsupportedMethod)
	}

	if req.Limit == nil || *req.Limit < 0 {
		return nil, fmt.Errorf("limit must be zero or greater: %w", apperror.ErrInvalidInput)
	}

	if req.OpeningDate != nil && req.ClosingDate != nil && req.OpeningDate.After(*req.ClosingDate) {
		return nil, fmt.Errorf("openingDate is after closingDate: %w", apperror.ErrInvalidInput)
	}

	rule := &entity.ReactionRule{
		Name:        s.clean(req.Name),
		Method:      method,
		OpeningDate: req.OpeningDate,
		ClosingDate: req.ClosingDate,
		Limit:       *req.Limit,
	}

	if err := s.repo.CreateRule(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *adminService) GetRule(ctx context.Context, id uuid.UUID) (*entity.ReactionRule, error) {
	return s.repo.FindRuleByID(ctx, id)
}

func (s *adminService) ListRules(ctx context.Context, filter commonDto.PageFilter) (*reactionDto.PaginatedRuleResponse, error) {
	filter.Normalize()

	rules, total, err := s.repo.FindRules(ctx, filter.Offset(), filter.Limit)
	if err != nil {
		return nil, err
	}
	if rules == nil {
		rules = []*entity.ReactionRule{}
	}

	return &reactionDto.PaginatedRuleResponse{
		Data: rules,
		Meta: commonDto.NewPaginationMeta(filter, total),
	}, nil
}

func (s *adminService) DeleteRule(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteRule(ctx, id)
}

func (s *adminService) CreateInstance(ctx context.Context, req reactionDto.CreateInstanceRequest) (*entity.ReactionInstance, error) {
	rule, err := s.repo.FindRuleByID(ctx, req.ReactionID)
	if err != nil {
		return nil, err
	}

	title := s.clean(req.Title)
	if title == "" {
		return nil, fmt.Errorf("title is empty after sanitizing: %w", apperror.ErrInvalidInput)
	}

	instance := &entity.ReactionInstance{
		ReactionID:   rule.ID,
		Title:        title,
		Instruction:  s.clean(req.Instruction),
		ResourceType: strings.TrimSpace(req.ResourceType),
		ResourceID:   strings.TrimSpace(req.ResourceID),
		Results:      []entity.ReactionVote{},
	}

	if err := s.repo.CreateInstance(ctx, instance); err != nil {
		return nil, err
	}

	instance.Rule = rule
	return instance, nil
}

func (s *adminService) GetInstance(ctx context.Context, id uuid.UUID) (*entity.ReactionInstance, error) {
	return s.repo.FindResultByID(ctx, id)
}

func (s *adminService) ListInstances(ctx context.Context, filter commonDto.PageFilter) (*reactionDto.PaginatedInstanceResponse, error) {
	filter.Normalize()

	instances, total, err := s.repo.FindInstances(ctx, filter.Offset(), filter.Limit)
	if err != nil {
		return nil, err
	}
	if instances == nil {
		instances = []*entity.ReactionInstance{}
	}

	return &reactionDto.PaginatedInstanceResponse{
		Data: instances,
		Meta: commonDto.NewPaginationMeta(filter, total),
	}, nil
}

func (s *adminService) DeleteInstance(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteInstance(ctx, id)
}
