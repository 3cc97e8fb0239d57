package repository

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/maheshrc27/linkedin-scheduler/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func post(id, content string) *models.Post {
	return &models.Post{
		ID:        id,
		Content:   content,
		Status:    models.PostStatusDraft,
		CreatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

type failingMedium struct {
	Medium
	getErr, setErr error
}

func (f *failingMedium) Get(ctx context.Context, key string) (string, bool, error) {
	if f.getErr != nil {
		return "", false, f.getErr
	}
	return f.Medium.Get(ctx, key)
}

func (f *failingMedium) Set(ctx context.Context, key, value string) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.Medium.Set(ctx, key, value)
}

func exerciseRepository(t *testing.T, repo PostRepository) {
	ctx := context.Background()

	posts, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, posts)

	require.NoError(t, repo.Save(ctx, post("a", "first")))
	require.NoError(t, repo.Save(ctx, post("b", "second")))
	require.NoError(t, repo.Save(ctx, post("c", "third")))

	updated := post("b", "second, edited")
	require.NoError(t, repo.Save(ctx, updated))

	posts, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{posts[0].ID, posts[1].ID, posts[2].ID})
	assert.Equal(t, "second, edited", posts[1].Content)

	got, found, err := repo.GetByID(ctx, "c")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "third", got.Content)
	assert.True(t, got.CreatedAt.Equal(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)))

	_, found, err = repo.GetByID(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, repo.Remove(ctx, "a"))
	require.NoError(t, repo.Remove(ctx, "a"))
	posts, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	require.NoError(t, repo.Clear(ctx))
	posts, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestMediumPostRepositoryMemory(t *testing.T) {
	exerciseRepository(t, NewMediumPostRepository(NewMemoryMedium(), quietLogger()))
}

func TestMediumPostRepositoryFile(t *testing.T) {
	exerciseRepository(t, NewMediumPostRepository(NewFileMedium(t.TempDir()), quietLogger()))
}

func TestMediumPostRepositoryFilePersists(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	require.NoError(t, NewMediumPostRepository(NewFileMedium(dir), quietLogger()).Save(ctx, post("a", "kept")))

	posts, err := NewMediumPostRepository(NewFileMedium(dir), quietLogger()).List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "kept", posts[0].Content)
}

func TestMediumPostRepositoryCorruptedData(t *testing.T) {
	ctx := context.Background()
	medium := NewMemoryMedium()
	repo := NewMediumPostRepository(medium, quietLogger())

	for _, raw := range []string{"not-valid-json{{{", `{"id":"x"}`, `"string"`, ""} {
		require.NoError(t, medium.Set(ctx, PostsKey, raw))
		posts, err := repo.List(ctx)
		require.NoError(t, err, raw)
		assert.Empty(t, posts, raw)
	}

	require.NoError(t, medium.Set(ctx, PostsKey, `[null,{"id":"a","content":"x","status":"draft","createdAt":"2026-03-01T09:00:00Z"}]`))
	posts, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "a", posts[0].ID)

	require.NoError(t, medium.Set(ctx, PostsKey, "garbage"))
	require.NoError(t, repo.Save(ctx, post("b", "fresh")))
	posts, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "b", posts[0].ID)
}

func TestMediumPostRepositoryStorageErrors(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryMedium()
	medium := &failingMedium{Medium: inner}
	repo := NewMediumPostRepository(medium, quietLogger())
	require.NoError(t, repo.Save(ctx, post("a", "original")))

	medium.setErr = errors.New("quota exceeded")
	err := repo.Save(ctx, post("b", "new"))
	assert.ErrorIs(t, err, ErrStorage)

	medium.setErr = nil
	medium.getErr = errors.New("unavailable")
	err = repo.Save(ctx, post("c", "new"))
	assert.ErrorIs(t, err, ErrStorage)
	_, err = repo.List(ctx)
	assert.ErrorIs(t, err, ErrStorage)

	medium.getErr = nil
	posts, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "original", posts[0].Content)
}
