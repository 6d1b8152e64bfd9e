package social

import (
	"context"
	"errors"
	"sort"
	"testing"

	"anoa.com/socialblog/internal/entity"
	"anoa.com/socialblog/internal/modules/social/repository"
	"anoa.com/socialblog/pkg/database/dbtest"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type edge struct{ from, to string }

// memoryFollows is an in-memory follows relation.
type memoryFollows struct {
	edges   map[edge]bool
	calls   map[string]int
	failOn  string
	failErr error
}

func newMemoryFollows(edges ...edge) *memoryFollows {
	m := &memoryFollows{edges: map[edge]bool{}, calls: map[string]int{}}
	for _, e := range edges {
		m.edges[e] = true
	}
	return m
}

func (m *memoryFollows) hit(name string) error {
	m.calls[name]++
	if m.failOn == name {
		return m.failErr
	}
	return nil
}

func (m *memoryFollows) profiles(ids []string) []entity.Profile {
	sort.Strings(ids)
	out := make([]entity.Profile, 0, len(ids))
	for _, id := range ids {
		out = append(out, entity.Profile{ID: id, DisplayName: id})
	}
	return out
}

func (m *memoryFollows) CountFollowers(_ context.Context, userID string) (int64, error) {
	if err := m.hit("CountFollowers"); err != nil {
		return 0, err
	}
	var n int64
	for e := range m.edges {
		if e.to == userID {
			n++
		}
	}
	return n, nil
}

func (m *memoryFollows) CountFollowing(_ context.Context, userID string) (int64, error) {
	if err := m.hit("CountFollowing"); err != nil {
		return 0, err
	}
	var n int64
	for e := range m.edges {
		if e.from == userID {
			n++
		}
	}
	return n, nil
}

func (m *memoryFollows) FollowingIDs(_ context.Context, userID string) ([]string, error) {
	if err := m.hit("FollowingIDs"); err != nil {
		return nil, err
	}
	var ids []string
	for e := range m.edges {
		if e.from == userID {
			ids = append(ids, e.to)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *memoryFollows) CountFollowersAmong(_ context.Context, userID string, followerIDs []string) (int64, error) {
	if err := m.hit("CountFollowersAmong"); err != nil {
		return 0, err
	}
	var n int64
	for _, f := range followerIDs {
		if m.edges[edge{f, userID}] {
			n++
		}
	}
	return n, nil
}

func (m *memoryFollows) ListFollowers(_ context.Context, userID string) ([]entity.Profile, error) {
	if err := m.hit("ListFollowers"); err != nil {
		return nil, err
	}
	var ids []string
	for e := range m.edges {
		if e.to == userID {
			ids = append(ids, e.from)
		}
	}
	return m.profiles(ids), nil
}

func (m *memoryFollows) ListFollowing(_ context.Context, userID string) ([]entity.Profile, error) {
	if err := m.hit("ListFollowing"); err != nil {
		return nil, err
	}
	var ids []string
	for e := range m.edges {
		if e.from == userID {
			ids = append(ids, e.to)
		}
	}
	return m.profiles(ids), nil
}

func (m *memoryFollows) ListFollowersAmong(_ context.Context, userID string, followerIDs []string) ([]entity.Profile, error) {
	if err := m.hit("ListFollowersAmong"); err != nil {
		return nil, err
	}
	var ids []string
	for _, f := range followerIDs {
		if m.edges[edge{f, userID}] {
			ids = append(ids, f)
		}
	}
	return m.profiles(ids), nil
}

func (m *memoryFollows) Exists(_ context.Context, followerID, followingID string) (bool, error) {
	if err := m.hit("Exists"); err != nil {
		return false, err
	}
	return m.edges[edge{followerID, followingID}], nil
}

func (m *memoryFollows) Create(_ context.Context, follow *entity.Follow) error {
	if err := m.hit("Create"); err != nil {
		return err
	}
	m.edges[edge{follow.FollowerID, follow.FollowingID}] = true
	return nil
}

func (m *memoryFollows) Delete(_ context.Context, followerID, followingID string) error {
	if err := m.hit("Delete"); err != nil {
		return err
	}
	delete(m.edges, edge{followerID, followingID})
	return nil
}

var _ repository.FollowRepository = (*memoryFollows)(nil)

func ids(profiles []entity.Profile) []string {
	out := make([]string, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, p.ID)
	}
	return out
}

func TestAggregator_MutualAndOneWay(t *testing.T) {
	// A <-> B mutual, A -> C one way.
	repo := newMemoryFollows(edge{"A", "B"}, edge{"B", "A"}, edge{"A", "C"})
	svc := NewAggregator(repo)
	ctx := context.Background()

	counts, err := svc.Counts(ctx, "A")
	require.NoError(t, err)
	assert.EqualValues(t, 1, counts.Followers)
	assert.EqualValues(t, 2, counts.Following)
	assert.EqualValues(t, 1, counts.Friends)

	friends, err := svc.ListFriends(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, ids(friends))

	friends, err = svc.ListFriends(ctx, "C")
	require.NoError(t, err)
	assert.Empty(t, friends)

	followers, err := svc.ListFollowers(ctx, "C")
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, ids(followers))

	following, err := svc.ListFollowing(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C"}, ids(following))
}

func TestAggregator_FriendsAreSymmetric(t *testing.T) {
	repo := newMemoryFollows(
		edge{"A", "B"}, edge{"B", "A"},
		edge{"B", "C"}, edge{"C", "B"},
		edge{"A", "D"},
	)
	svc := NewAggregator(repo)
	ctx := context.Background()

	for _, u := range []string{"A", "B", "C", "D"} {
		friends, err := svc.ListFriends(ctx, u)
		require.NoError(t, err)

		n, err := svc.CountFriends(ctx, u)
		require.NoError(t, err)
		assert.EqualValues(t, len(friends), n, u)

		for _, f := range friends {
			back, err := svc.ListFriends(ctx, f.ID)
			require.NoError(t, err)
			assert.Contains(t, ids(back), u, "%s lists %s but not the reverse", u, f.ID)
		}
	}
}

func TestAggregator_ToggleFollow(t *testing.T) {
	repo := newMemoryFollows()
	svc := NewAggregator(repo)
	ctx := context.Background()

	following, err := svc.ToggleFollow(ctx, "A", "B")
	require.NoError(t, err)
	assert.True(t, following)

	n, err := svc.CountFollowers(ctx, "B")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	following, err = svc.ToggleFollow(ctx, "A", "B")
	require.NoError(t, err)
	assert.False(t, following)

	n, err = svc.CountFollowers(ctx, "B")
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, repo.edges)
}

func TestAggregator_ToggleFollowAllowsSelf(t *testing.T) {
	repo := newMemoryFollows()
	svc := NewAggregator(repo)

	following, err := svc.ToggleFollow(context.Background(), "A", "A")
	require.NoError(t, err)
	assert.True(t, following)
	assert.True(t, repo.edges[edge{"A", "A"}])
}

func TestAggregator_ToggleFollowFailure(t *testing.T) {
	repo := newMemoryFollows(edge{"A", "B"})
	repo.failOn = "Delete"
	repo.failErr = errors.New("connection reset")
	svc := NewAggregator(repo)

	following, err := svc.ToggleFollow(context.Background(), "A", "B")
	assert.ErrorIs(t, err, repo.failErr)
	assert.True(t, following)
	assert.True(t, repo.edges[edge{"A", "B"}])
}

func TestAggregator_FeedAuthorFilter(t *testing.T) {
	ctx := context.Background()

	t.Run("follows nobody", func(t *testing.T) {
		svc := NewAggregator(newMemoryFollows(edge{"B", "A"}))
		authors, err := svc.FeedAuthorFilter(ctx, "A")
		require.NoError(t, err)
		assert.Equal(t, []string{"A"}, authors)
	})

	t.Run("following plus self", func(t *testing.T) {
		svc := NewAggregator(newMemoryFollows(edge{"A", "B"}, edge{"A", "C"}))
		authors, err := svc.FeedAuthorFilter(ctx, "A")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"A", "B", "C"}, authors)
	})

	t.Run("self edge is not duplicated", func(t *testing.T) {
		svc := NewAggregator(newMemoryFollows(edge{"A", "A"}, edge{"A", "B"}))
		authors, err := svc.FeedAuthorFilter(ctx, "A")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"A", "B"}, authors)
	})
}

func TestAggregator_FriendsShortCircuit(t *testing.T) {
	repo := newMemoryFollows(edge{"B", "A"})
	svc := NewAggregator(repo)
	ctx := context.Background()

	n, err := svc.CountFriends(ctx, "A")
	require.NoError(t, err)
	assert.Zero(t, n)

	friends, err := svc.ListFriends(ctx, "A")
	require.NoError(t, err)
	assert.NotNil(t, friends)
	assert.Empty(t, friends)

	assert.Zero(t, repo.calls["CountFollowersAmong"])
	assert.Zero(t, repo.calls["ListFollowersAmong"])
}

func TestAggregator_FriendsShortCircuitIssuesOneQuery(t *testing.T) {
	db, mock := dbtest.New(t)
	svc := NewAggregator(repository.NewFollowRepository(db))

	mock.ExpectQuery(`SELECT .*following_id.* FROM "follows" WHERE follower_id = \$1`).
		WithArgs("A").
		WillReturnRows(sqlmock.NewRows([]string{"following_id"}))

	n, err := svc.CountFriends(context.Background(), "A")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAggregator_PropagatesStoreErrors(t *testing.T) {
	repo := newMemoryFollows(edge{"A", "B"})
	repo.failOn = "CountFollowersAmong"
	repo.failErr = errors.New("timeout")
	svc := NewAggregator(repo)

	_, err := svc.Counts(context.Background(), "A")
	assert.ErrorIs(t, err, repo.failErr)
}

func TestAggregator_CountFriendsOneWayAndMutual(t *testing.T) {
	ctx := context.Background()

	oneWay := NewAggregator(newMemoryFollows(edge{"A", "B"}))
	for _, u := range []string{"A", "B"} {
		n, err := oneWay.CountFriends(ctx, u)
		require.NoError(t, err)
		assert.Zero(t, n, u)
	}

	mutual := NewAggregator(newMemoryFollows(edge{"A", "B"}, edge{"B", "A"}))
	for _, u := range []string{"A", "B"} {
		n, err := mutual.CountFriends(ctx, u)
		require.NoError(t, err)
		assert.EqualValues(t, 1, n, u)
	}
}
