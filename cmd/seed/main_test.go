package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-learning-platform/internal/container"
	"github.com/oksasatya/go-learning-platform/internal/domain/entity"
	"github.com/oksasatya/go-learning-platform/internal/infrastructure/memory"
	"github.com/oksasatya/go-learning-platform/pkg/helpers"
)

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	stores := container.MemoryStores(memory.NewStore())

	first := &entity.User{Username: "admin", Email: "admin@example.com", Role: entity.RoleAdmin, Status: true}
	require.NoError(t, seedAdmin(ctx, stores.Users, first, "password123"))
	second := &entity.User{Username: "admin", Email: "admin@example.com", Role: entity.RoleAdmin, Status: true}
	require.NoError(t, seedAdmin(ctx, stores.Users, second, "other-password"))
	assert.Equal(t, first.ID, second.ID)

	stored, err := stores.Users.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, helpers.CompareHashAndPassword(stored.Password, "password123"))

	for i := 0; i < 2; i++ {
		require.NoError(t, seedCategory(ctx, stores.Categories, "Development"))
		require.NoError(t, seedLanguage(ctx, stores.Languages, "English"))
	}
	cats, err := stores.Categories.List(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 1)
	langs, err := stores.Languages.List(ctx)
	require.NoError(t, err)
	assert.Len(t, langs, 1)
}
