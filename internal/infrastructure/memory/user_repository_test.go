package memory

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-learning-platform/internal/domain/entity"
	"github.com/oksasatya/go-learning-platform/internal/domain/repository"
)

func seedUser(t *testing.T, repo *UserRepository, name string, role entity.Role) *entity.User {
	t.Helper()
	u := &entity.User{Username: name, Email: name + "@example.com", Password: "hash", Role: role, Status: true}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestUserRepository_CreateRejectsDuplicates(t *testing.T) {
	repo := NewUserRepository(NewStore())
	seedUser(t, repo, "ann", entity.RoleStudent)

	err := repo.Create(context.Background(), &entity.User{Username: "ann", Email: "other@example.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestUserRepository_FollowIsIdempotentAndSymmetric(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(NewStore())
	a := seedUser(t, repo, "a", entity.RoleStudent)
	b := seedUser(t, repo, "b", entity.RoleTutor)

	require.NoError(t, repo.Follow(ctx, a.ID, b.ID))
	require.NoError(t, repo.Follow(ctx, a.ID, b.ID))

	ga, _ := repo.GetByID(ctx, a.ID)
	gb, _ := repo.GetByID(ctx, b.ID)
	assert.Equal(t, []string{b.ID}, ga.Following)
	assert.Equal(t, []string{a.ID}, gb.Followers)

	require.NoError(t, repo.Unfollow(ctx, a.ID, b.ID))
	ga, _ = repo.GetByID(ctx, a.ID)
	gb, _ = repo.GetByID(ctx, b.ID)
	assert.Empty(t, ga.Following)
	assert.Empty(t, gb.Followers)
}

func TestUserRepository_RemoveFollower(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(NewStore())
	a := seedUser(t, repo, "a", entity.RoleStudent)
	b := seedUser(t, repo, "b", entity.RoleTutor)
	require.NoError(t, repo.Follow(ctx, a.ID, b.ID))

	require.NoError(t, repo.RemoveFollower(ctx, b.ID, a.ID))
	ga, _ := repo.GetByID(ctx, a.ID)
	gb, _ := repo.GetByID(ctx, b.ID)
	assert.Empty(t, ga.Following)
	assert.Empty(t, gb.Followers)

	assert.ErrorIs(t, repo.Follow(ctx, a.ID, "missing"), repository.ErrNotFound)
}

func TestUserRepository_ListByRoleHasNoPassword(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(NewStore())
	seedUser(t, repo, "s1", entity.RoleStudent)
	seedUser(t, repo, "t1", entity.RoleTutor)
	seedUser(t, repo, "root", entity.RoleAdmin)

	students, err := repo.ListByRole(ctx, entity.RoleStudent)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Empty(t, students[0].Password)

	b, err := json.Marshal(students)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "password")

	all, _ := repo.List(ctx)
	assert.Len(t, all, 2)
	n, _ := repo.CountByRole(ctx, entity.RoleTutor)
	assert.Equal(t, int64(1), n)
}

func TestUserRepository_UpdateCredentialsConflict(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(NewStore())
	a := seedUser(t, repo, "a", entity.RoleStudent)
	seedUser(t, repo, "b", entity.RoleStudent)

	_, err := repo.UpdateCredentials(ctx, a.ID, "b@example.com", "a")
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	u, err := repo.UpdateCredentials(ctx, a.ID, "new@example.com", "a2")
	require.NoError(t, err)
	assert.Equal(t, "a2", u.Username)
}
