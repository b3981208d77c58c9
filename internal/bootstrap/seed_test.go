package bootstrap_test

import (
	"context"
	"testing"

	"anoa.com/reactions/internal/bootstrap"
	"anoa.com/reactions/internal/entity"
	userRepo "anoa.com/reactions/internal/modules/user/repository"
	"anoa.com/reactions/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedAdminUser_Idempotent(t *testing.T) {
	db := testutil.NewDB(t)
	users := userRepo.NewUserRepository(db)

	first, err := bootstrap.SeedAdminUser(context.Background(), users, "root")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, first.Role)

	second, err := bootstrap.SeedAdminUser(context.Background(), users, "root")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&entity.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSeedAdminUser_KeepsExistingRole(t *testing.T) {
	db := testutil.NewDB(t)
	require.NoError(t, db.Create(&entity.User{Username: "root", Role: entity.RoleMember}).Error)

	user, err := bootstrap.SeedAdminUser(context.Background(), userRepo.NewUserRepository(db), "root")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleMember, user.Role)
}

func TestSeedDefaultRules(t *testing.T) {
	db := testutil.NewDB(t)

	require.NoError(t, bootstrap.SeedDefaultRules(db))
	require.NoError(t, bootstrap.SeedDefaultRules(db))

	var rules []entity.ReactionRule
	require.NoError(t, db.Find(&rules).Error)
	require.Len(t, rules, 1)
	assert.Equal(t, entity.MethodLike, rules[0].Method)
	assert.Equal(t, 5, rules[0].Limit)
}
