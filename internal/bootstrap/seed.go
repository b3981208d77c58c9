package bootstrap

import (
	"context"
	"errors"
	"log"

	"anoa.com/reactions/internal/entity"
	userRepo "anoa.com/reactions/internal/modules/user/repository"
	"anoa.com/reactions/pkg/apperror"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.ReactionRule{},
		&entity.ReactionInstance{},
		&entity.ReactionVote{},
	)
}

// SeedAdminUser makes sure a local admin record exists so that a token
// issued for it passes RequireAdmin in development.
func SeedAdminUser(ctx context.Context, users userRepo.UserRepository, username string) (*entity.User, error) {
	existing, err := users.FindByUsername(ctx, username)
	if err == nil {
		log.Println("Admin user already exists, skipping seed")
		return existing, nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}

	admin := &entity.User{
		Username: username,
		Role:     entity.RoleAdmin,
	}
	if err := users.Create(ctx, admin); err != nil {
		return nil, err
	}

	log.Printf("Admin user seeded: %s (%s)", admin.Username, admin.ID)
	return admin, nil
}

// SeedDefaultRules creates a LIKE rule with a small toggle budget when the
// rules table is empty.
func SeedDefaultRules(db *gorm.DB) error {
	var count int64
	if err := db.Model(&entity.ReactionRule{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	rule := entity.ReactionRule{
		Name:   "Like",
		Method: entity.MethodLike,
		Limit:  5,
	}
	if err := db.Create(&rule).Error; err != nil {
		return err
	}

	log.Printf("Default LIKE rule seeded: %s", rule.ID)
	return nil
}
