package repository_test

import (
	"context"
	"testing"

	"lms/internal/model"
	"lms/internal/repository"
	"lms/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourseRepoLoadsOrderedChildren(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner@example.com", "secret", model.RoleTeacher)
	course := testutil.CreateCourse(t, db, owner.ID, "Go basics")

	chapters := repository.NewChapterRepo(db)
	for _, title := range []string{"Intro", "Types", "Interfaces"} {
		require.NoError(t, chapters.CreateChapter(ctx, &model.Chapter{CourseID: course.ID, Title: title}))
	}

	repo := repository.NewCourseRepo(db)
	got, err := repo.GetCourseByID(ctx, course.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Chapters, 3)
	for i, ch := range got.Chapters {
		assert.Equal(t, i+1, ch.Position)
	}
	assert.Equal(t, "Intro", got.Chapters[0].Title)

	missing, err := repo.GetCourseByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCourseRepoUpdateFields(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	course := testutil.CreateCourse(t, db, "u1", "Old")

	repo := repository.NewCourseRepo(db)
	updated, err := repo.UpdateCourseFields(ctx, course.ID, map[string]any{"title": "New"})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "New", updated.Title)

	missing, err := repo.UpdateCourseFields(ctx, "nope", map[string]any{"title": "x"})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestChapterRepoScopedByCourse(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	c1 := testutil.CreateCourse(t, db, "u1", "One")
	c2 := testutil.CreateCourse(t, db, "u1", "Two")
	ch := testutil.CreateChapter(t, db, model.Chapter{CourseID: c1.ID, Title: "Intro", Position: 1})

	repo := repository.NewChapterRepo(db)
	got, err := repo.GetChapter(ctx, c2.ID, ch.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	updated, err := repo.SetChapterPublished(ctx, c2.ID, ch.ID, true)
	require.NoError(t, err)
	assert.Nil(t, updated)

	updated, err = repo.SetChapterPublished(ctx, c1.ID, ch.ID, true)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.True(t, updated.IsPublished)

	n, err := repo.CountPublishedChapters(ctx, c1.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestChapterRepoReorder(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	course := testutil.CreateCourse(t, db, "u1", "One")
	a := testutil.CreateChapter(t, db, model.Chapter{CourseID: course.ID, Title: "A", Position: 1})
	b := testutil.CreateChapter(t, db, model.Chapter{CourseID: course.ID, Title: "B", Position: 2})

	repo := repository.NewChapterRepo(db)
	require.NoError(t, repo.ReorderChapters(ctx, course.ID, []repository.ChapterPosition{
		{ID: a.ID, Position: 2},
		{ID: b.ID, Position: 1},
	}))

	loaded, err := repository.NewCourseRepo(db).GetCourseByID(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Chapters, 2)
	assert.Equal(t, "B", loaded.Chapters[0].Title)
	assert.Equal(t, "A", loaded.Chapters[1].Title)
}

func TestChapterRepoReorderRejectsForeignChapter(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	course := testutil.CreateCourse(t, db, "u1", "One")
	other := testutil.CreateCourse(t, db, "u1", "Two")
	a := testutil.CreateChapter(t, db, model.Chapter{CourseID: course.ID, Title: "A", Position: 1})
	foreign := testutil.CreateChapter(t, db, model.Chapter{CourseID: other.ID, Title: "X", Position: 1})

	repo := repository.NewChapterRepo(db)
	err := repo.ReorderChapters(ctx, course.ID, []repository.ChapterPosition{
		{ID: a.ID, Position: 5},
		{ID: foreign.ID, Position: 6},
	})
	assert.ErrorIs(t, err, repository.ErrChapterNotInCourse)

	got, err := repo.GetChapter(ctx, course.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Position)
}

func TestCategoryRepoOrdersByName(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	repo := repository.NewCategoryRepo(db)
	for _, name := range []string{"Sales", "Compliance", "Onboarding"} {
		require.NoError(t, repo.CreateCategory(ctx, &model.Category{Name: name}))
	}

	got, err := repo.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Compliance", got[0].Name)
	assert.Equal(t, "Sales", got[2].Name)
}

func TestUserRepo(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	repo := repository.NewUserRepo(db)
	u := testutil.CreateUser(t, db, "ana@example.com", "pw", model.RoleStudent)

	got, err := repo.GetUserByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)
	assert.NoError(t, got.CheckPassword("pw"))

	none, err := repo.GetUserByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, none)

	deleted, err := repo.DeleteUser(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.DeleteUser(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

