package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"anoa.com/reactions/internal/entity"
	"anoa.com/reactions/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReactionRepository interface {
	CreateRule(ctx context.Context, rule *entity.ReactionRule) error
	FindRuleByID(ctx context.Context, id uuid.UUID) (*entity.ReactionRule, error)
	FindRules(ctx context.Context, offset, limit int) ([]*entity.ReactionRule, int64, error)
	DeleteRule(ctx context.Context, id uuid.UUID) error

	CreateInstance(ctx context.Context, instance *entity.ReactionInstance) error
	FindInstanceByID(ctx context.Context, id uuid.UUID) (*entity.ReactionInstance, error)
	FindInstances(ctx context.Context, offset, limit int) ([]*entity.ReactionInstance, int64, error)
	DeleteInstance(ctx context.Context, id uuid.UUID) error

	// FindResultByID loads an instance with its rule, its votes in result
	// order and the owners of those votes.
	FindResultByID(ctx context.Context, id uuid.UUID) (*entity.ReactionInstance, error)
	// FindResultsByResource is FindResultByID for every instance bound to
	// resourceID, in creation order.
	FindResultsByResource(ctx context.Context, resourceID string) ([]*entity.ReactionInstance, error)

	// FindUserVote returns nil, nil when the user has not voted on the instance.
	FindUserVote(ctx context.Context, instanceID, userID uuid.UUID) (*entity.ReactionVote, error)
	// AddVote persists vote and appends it to the results of instance.
	AddVote(ctx context.Context, instance *entity.ReactionInstance, vote *entity.ReactionVote) error
	// ToggleVote flips the deleted flag of a vote, counting a re-activation,
	// only while times_voted is below limit. The check and the update are one
	// statement. toggled is false when the limit blocked the update; the
	// returned vote is the stored state either way.
	ToggleVote(ctx context.Context, id uuid.UUID, limit int) (vote *entity.ReactionVote, toggled bool, err error)
}

type reactionRepository struct {
	db *gorm.DB
}

func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

func notFound(err error, what string, id uuid.UUID) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %s: %w", what, id, apperror.ErrNotFound)
	}
	return err
}

func (r *reactionRepository) CreateRule(ctx context.Context, rule *entity.ReactionRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

func (r *reactionRepository) FindRuleByID(ctx context.Context, id uuid.UUID) (*entity.ReactionRule, error) {
	var rule entity.ReactionRule
	if err := r.db.WithContext(ctx).First(&rule, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "reaction rule", id)
	}
	return &rule, nil
}

func (r *reactionRepository) FindRules(ctx context.Context, offset, limit int) ([]*entity.ReactionRule, int64, error) {
	var rules []*entity.ReactionRule
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.ReactionRule{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&rules).Error; err != nil {
		return nil, 0, err
	}

	return rules, total, nil
}

func (r *reactionRepository) DeleteRule(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inUse int64
		if err := tx.Model(&entity.ReactionInstance{}).Where("reaction_id = ?", id).Count(&inUse).Error; err != nil {
			return err
		}
		if inUse > 0 {
			return apperror.ErrRuleInUse
		}

		res := tx.Delete(&entity.ReactionRule{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("reaction rule %s: %w", id, apperror.ErrNotFound)
		}
		return nil
	})
}

func (r *reactionRepository) CreateInstance(ctx context.Context, instance *entity.ReactionInstance) error {
	return r.db.WithContext(ctx).Create(instance).Error
}

func (r *reactionRepository) FindInstanceByID(ctx context.Context, id uuid.UUID) (*entity.ReactionInstance, error) {
	var instance entity.ReactionInstance
	if err := r.db.WithContext(ctx).First(&instance, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "reaction instance", id)
	}
	return &instance, nil
}

func (r *reactionRepository) FindInstances(ctx context.Context, offset, limit int) ([]*entity.ReactionInstance, int64, error) {
	var instances []*entity.ReactionInstance
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.ReactionInstance{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Preload("Rule").Order("created_at DESC").Offset(offset).Limit(limit).Find(&instances).Error; err != nil {
		return nil, 0, err
	}

	return instances, total, nil
}

func (r *reactionRepository) DeleteInstance(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&entity.ReactionInstance{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("reaction instance %s: %w", id, apperror.ErrNotFound)
		}
		return tx.Where("instance_id = ?", id).Delete(&entity.ReactionVote{}).Error
	})
}

func (r *reactionRepository) withResults(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Rule").
		Preload("Results", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Preload("Results.User")
}

func (r *reactionRepository) FindResultByID(ctx context.Context, id uuid.UUID) (*entity.ReactionInstance, error) {
	var instance entity.ReactionInstance
	if err := r.withResults(ctx).First(&instance, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "reaction instance", id)
	}
	return &instance, nil
}

func (r *reactionRepository) FindResultsByResource(ctx context.Context, resourceID string) ([]*entity.ReactionInstance, error) {
	var instances []*entity.ReactionInstance
	err := r.withResults(ctx).
		Where("resource_id = ?", resourceID).
		Order("created_at ASC").
		Find(&instances).Error
	return instances, err
}

func (r *reactionRepository) FindUserVote(ctx context.Context, instanceID, userID uuid.UUID) (*entity.ReactionVote, error) {
	// Use Find with slice to avoid "record not found" log noise from GORM's First()
	var existing []entity.ReactionVote
	err := r.db.WithContext(ctx).
		Where("instance_id = ? AND user_id = ?", instanceID, userID).
		Limit(1).
		Find(&existing).Error
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		return nil, nil
	}
	return &existing[0], nil
}

func (r *reactionRepository) AddVote(ctx context.Context, instance *entity.ReactionInstance, vote *entity.ReactionVote) error {
	vote.InstanceID = instance.ID

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(vote).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Another request created this user's vote first.
				return apperror.ErrVoteInProgress
			}
			return err
		}

		return tx.Model(&entity.ReactionInstance{}).
			Where("id = ?", instance.ID).
			UpdateColumn("updated_at", time.Now()).Error
	})
	if err != nil {
		return err
	}

	instance.Results = append(instance.Results, *vote)
	return nil
}

func (r *reactionRepository) ToggleVote(ctx context.Context, id uuid.UUID, limit int) (*entity.ReactionVote, bool, error) {
	var vote entity.ReactionVote
	toggled := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entity.ReactionVote{}).
			Where("id = ? AND times_voted < ?", id, limit).
			Updates(map[string]interface{}{
				"times_voted": gorm.Expr("times_voted + CASE WHEN deleted THEN 1 ELSE 0 END"),
				"deleted":     gorm.Expr("NOT deleted"),
			})
		if res.Error != nil {
			return res.Error
		}
		toggled = res.RowsAffected > 0

		return tx.First(&vote, "id = ?", id).Error
	})
	if err != nil {
		return nil, false, notFound(err, "reaction vote", id)
	}

	return &vote, toggled, nil
}
