package repository

import (
	"context"
	"errors"
	"testing"

	"anoa.com/socialblog/internal/entity"
	"anoa.com/socialblog/pkg/apperror"
	"anoa.com/socialblog/pkg/database/dbtest"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestFollowRepository_Counts(t *testing.T) {
	db, mock := dbtest.New(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "follows" WHERE following_id = \$1`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "follows" WHERE follower_id = \$1`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "follows" WHERE following_id = \$1 AND follower_id IN \(\$2,\$3\)`).
		WithArgs("u1", "u2", "u3").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	followers, err := repo.CountFollowers(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 3, followers)

	following, err := repo.CountFollowing(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, following)

	friends, err := repo.CountFollowersAmong(ctx, "u1", []string{"u2", "u3"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, friends)
}

func TestFollowRepository_FollowingIDs(t *testing.T) {
	db, mock := dbtest.New(t)
	repo := NewFollowRepository(db)

	mock.ExpectQuery(`SELECT .*following_id.* FROM "follows" WHERE follower_id = \$1`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"following_id"}).AddRow("u2").AddRow("u3"))

	ids, err := repo.FollowingIDs(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u2", "u3"}, ids)
}

func TestFollowRepository_ListFollowers(t *testing.T) {
	db, mock := dbtest.New(t)
	repo := NewFollowRepository(db)

	mock.ExpectQuery(`SELECT .* FROM "profiles" JOIN follows ON follows.follower_id = profiles.id WHERE follows.following_id = \$1`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "display_name"}).AddRow("u2", "Bea"))

	profiles, err := repo.ListFollowers(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "Bea", profiles[0].DisplayName)
}

func TestFollowRepository_Exists(t *testing.T) {
	db, mock := dbtest.New(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT \* FROM "follows" WHERE follower_id = \$1 AND following_id = \$2 LIMIT`).
		WillReturnRows(sqlmock.NewRows([]string{"follower_id", "following_id"}).AddRow("u1", "u2"))
	mock.ExpectQuery(`SELECT \* FROM "follows" WHERE follower_id = \$1 AND following_id = \$2 LIMIT`).
		WillReturnRows(sqlmock.NewRows([]string{"follower_id", "following_id"}))

	ok, err := repo.Exists(ctx, "u1", "u2")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Exists(ctx, "u2", "u1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFollowRepository_CreateAndDelete(t *testing.T) {
	db, mock := dbtest.New(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	mock.ExpectExec(`INSERT INTO "follows"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "follows" WHERE follower_id = \$1 AND following_id = \$2`).
		WithArgs("u1", "u2").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(ctx, &entity.Follow{FollowerID: "u1", FollowingID: "u2"}))
	require.NoError(t, repo.Delete(ctx, "u1", "u2"))
}

func TestFollowRepository_CreateDuplicate(t *testing.T) {
	db, mock := dbtest.New(t)
	repo := NewFollowRepository(db)

	mock.ExpectExec(`INSERT INTO "follows"`).
		WillReturnError(gorm.ErrDuplicatedKey)

	err := repo.Create(context.Background(), &entity.Follow{FollowerID: "u1", FollowingID: "u2"})
	assert.True(t, errors.Is(err, apperror.ErrConflict))
}
