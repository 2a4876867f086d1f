package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-learning-platform/internal/domain/entity"
)

func TestCategory_CaseInsensitiveDuplicate(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	c, err := h.category.Create(ctx, "Design", "ui and ux")
	require.NoError(t, err)
	assert.True(t, c.Status)

	_, err = h.category.Create(ctx, "design", "")
	assert.ErrorIs(t, err, ErrCategoryExists)

	edited, err := h.category.Edit(ctx, c.ID, "DESIGN", "same name, new case")
	require.NoError(t, err, "renaming to itself is allowed")
	assert.Equal(t, "DESIGN", edited.CategoryName)

	unlisted, err := h.category.SetListed(ctx, c.ID, false)
	require.NoError(t, err)
	assert.False(t, unlisted.Status)

	_, err = h.category.Get(ctx, "000000000000000000000000")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestLanguage_RenameRewritesCourses(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	tutor := h.user(t, "t", entity.RoleTutor)
	h.courseOf(t, tutor.ID, "One", 0)
	h.courseOf(t, tutor.ID, "Two", 0)

	en, err := h.language.Create(ctx, "English", "")
	require.NoError(t, err)
	_, err = h.language.Create(ctx, "Hindi", "")
	require.NoError(t, err)

	_, err = h.language.Edit(ctx, en.ID, "hindi", "")
	assert.ErrorIs(t, err, ErrLanguageExists)

	_, err = h.language.Edit(ctx, en.ID, "British English", "")
	require.NoError(t, err)

	n, err := h.course.CountByLanguage(ctx, "British English")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	n, _ = h.course.CountByLanguage(ctx, "English")
	assert.Zero(t, n)
}
