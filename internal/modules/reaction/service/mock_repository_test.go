package reaction

import (
	"context"

	"anoa.com/reactions/internal/entity"
	reactionRepo "anoa.com/reactions/internal/modules/reaction/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockReactionRepository is a mock implementation of ReactionRepository for testing
type MockReactionRepository struct {
	mock.Mock
}

var _ reactionRepo.ReactionRepository = (*MockReactionRepository)(nil)

func (m *MockReactionRepository) CreateRule(ctx context.Context, rule *entity.ReactionRule) error {
	return m.Called(ctx, rule).Error(0)
}

func (m *MockReactionRepository) FindRuleByID(ctx context.Context, id uuid.UUID) (*entity.ReactionRule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ReactionRule), args.Error(1)
}

func (m *MockReactionRepository) FindRules(ctx context.Context, offset, limit int) ([]*entity.ReactionRule, int64, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entity.ReactionRule), args.Get(1).(int64), args.Error(2)
}

func (m *MockReactionRepository) DeleteRule(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockReactionRepository) CreateInstance(ctx context.Context, instance *entity.ReactionInstance) error {
	return m.Called(ctx, instance).Error(0)
}

func (m *MockReactionRepository) FindInstanceByID(ctx context.Context, id uuid.UUID) (*entity.ReactionInstance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ReactionInstance), args.Error(1)
}

func (m *MockReactionRepository) FindInstances(ctx context.Context, offset, limit int) ([]*entity.ReactionInstance, int64, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entity.ReactionInstance), args.Get(1).(int64), args.Error(2)
}

func (m *MockReactionRepository) DeleteInstance(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockReactionRepository) FindResultByID(ctx context.Context, id uuid.UUID) (*entity.ReactionInstance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ReactionInstance), args.Error(1)
}

func (m *MockReactionRepository) FindResultsByResource(ctx context.Context, resourceID string) ([]*entity.ReactionInstance, error) {
	args := m.Called(ctx, resourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.ReactionInstance), args.Error(1)
}

func (m *MockReactionRepository) FindUserVote(ctx context.Context, instanceID, userID uuid.UUID) (*entity.ReactionVote, error) {
	args := m.Called(ctx, instanceID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ReactionVote), args.Error(1)
}

func (m *MockReactionRepository) AddVote(ctx context.Context, instance *entity.ReactionInstance, vote *entity.ReactionVote) error {
	return m.Called(ctx, instance, vote).Error(0)
}

func (m *MockReactionRepository) ToggleVote(ctx context.Context, id uuid.UUID, limit int) (*entity.ReactionVote, bool, error) {
	args := m.Called(ctx, id, limit)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*entity.ReactionVote), args.Bool(1), args.Error(2)
}
