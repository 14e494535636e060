package store_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"

	"blog/internal/models"
	"blog/internal/store"
)

func TestMissingFileReadsEmpty(t *testing.T) {
	st, err := store.Open(t.TempDir())
	require.NoError(t, err)

	posts, err := st.Posts()
	require.NoError(t, err)
	require.Empty(t, posts)

	users, err := st.Users()
	require.NoError(t, err)
	require.Empty(t, users)

	admins, err := st.Admins()
	require.NoError(t, err)
	require.Empty(t, admins)
}

func TestCorruptFileIsStorageFailure(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "posts.json"), []byte("{not json"), 0o644))

	_, err = st.Posts()
	require.ErrorIs(t, err, store.ErrStorage)
}

func TestRoundTrip(t *testing.T) {
	st, err := store.Open(t.TempDir())
	require.NoError(t, err)

	want := []models.Post{{
		ID:          gofakeit.UUID(),
		Title:       gofakeit.Sentence(3),
		Content:     gofakeit.Paragraph(1, 2, 5, " "),
		AuthorEmail: gofakeit.Email(),
		AuthorName:  gofakeit.Name(),
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
		Likes:       []string{gofakeit.Email()},
		Dislikes:    []string{},
	}}
	require.NoError(t, st.PutPosts(want))

	got, err := st.Posts()
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestWriteNilWritesEmptyArray(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(dir)
	require.NoError(t, err)

	require.NoError(t, st.PutUsers(nil))

	b, err := os.ReadFile(filepath.Join(dir, "users.json"))
	require.NoError(t, err)
	require.JSONEq(t, "[]", string(b))
}
