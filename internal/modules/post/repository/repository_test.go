package repository

import (
	"context"
	"testing"
	"time"

	"anoa.com/socialblog/pkg/apperror"
	"anoa.com/socialblog/pkg/database/dbtest"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var postColumns = []string{"id", "author_id", "title", "content", "cover_url", "created_at"}

func TestPostRepository_FindFeedAll(t *testing.T) {
	db, mock := dbtest.New(t)
	repo := NewPostRepository(db)
	id := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "posts" ORDER BY created_at DESC LIMIT`).
		WillReturnRows(sqlmock.NewRows(postColumns).AddRow(id.String(), "u1", "t", "c", nil, time.Now()))
	mock.ExpectQuery(`SELECT .*display_name.* FROM "profiles" WHERE "profiles"."id" = \$1`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "display_name", "profile_image_url"}).AddRow("u1", "Ada", nil))

	posts, err := repo.FindFeed(context.Background(), nil, 50)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Ada", posts[0].Author.DisplayName)
}

func TestPostRepository_FindFeedFiltered(t *testing.T) {
	db, mock := dbtest.New(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "posts" WHERE author_id IN \(\$1,\$2\) ORDER BY created_at DESC LIMIT`).
		WillReturnRows(sqlmock.NewRows(postColumns))

	posts, err := repo.FindFeed(context.Background(), []string{"u2", "u1"}, 50)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestPostRepository_FindByIDNotFound(t *testing.T) {
	db, mock := dbtest.New(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "posts" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(postColumns))

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestPostRepository_CountByAuthor(t *testing.T) {
	db, mock := dbtest.New(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "posts" WHERE author_id = \$1`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	n, err := repo.CountByAuthor(context.Background(), "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)
}

func TestPostRepository_Delete(t *testing.T) {
	db, mock := dbtest.New(t)
	repo := NewPostRepository(db)
	id := uuid.New()

	mock.ExpectExec(`DELETE FROM "posts" WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), id))
}
