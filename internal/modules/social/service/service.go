package social

import (
	"context"
	"fmt"

	"anoa.com/socialblog/internal/entity"
	socialDto "anoa.com/socialblog/internal/modules/social/dto"
	"anoa.com/socialblog/internal/modules/social/repository"
)

// Aggregator derives follower, following and mutual-friend views of a user
// straight from the follows relation. Nothing is cached; every call re-reads.
type Aggregator interface {
	CountFollowers(ctx context.Context, userID string) (int64, error)
	CountFollowing(ctx context.Context, userID string) (int64, error)
	CountFriends(ctx context.Context, userID string) (int64, error)
	Counts(ctx context.Context, userID string) (*socialDto.FollowCounts, error)
	ListFollowers(ctx context.Context, userID string) ([]entity.Profile, error)
	ListFollowing(ctx context.Context, userID string) ([]entity.Profile, error)
	ListFriends(ctx context.Context, userID string) ([]entity.Profile, error)
	IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error)
	ToggleFollow(ctx context.Context, followerID, followeeID string) (bool, error)
	FeedAuthorFilter(ctx context.Context, userID string) ([]string, error)
}

type aggregator struct {
	repo repository.FollowRepository
}

func NewAggregator(repo repository.FollowRepository) Aggregator {
	return &aggregator{repo: repo}
}

func (s *aggregator) CountFollowers(ctx context.Context, userID string) (int64, error) {
	n, err := s.repo.CountFollowers(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count followers of %s: %w", userID, err)
	}
	return n, nil
}

func (s *aggregator) CountFollowing(ctx context.Context, userID string) (int64, error) {
	n, err := s.repo.CountFollowing(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count following of %s: %w", userID, err)
	}
	return n, nil
}

// CountFriends counts the accounts userID follows that follow userID back.
func (s *aggregator) CountFriends(ctx context.Context, userID string) (int64, error) {
	following, err := s.repo.FollowingIDs(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("load following of %s: %w", userID, err)
	}
	if len(following) == 0 {
		return 0, nil
	}

	n, err := s.repo.CountFollowersAmong(ctx, userID, following)
	if err != nil {
		return 0, fmt.Errorf("count friends of %s: %w", userID, err)
	}
	return n, nil
}

func (s *aggregator) Counts(ctx context.Context, userID string) (*socialDto.FollowCounts, error) {
	followers, err := s.CountFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	following, err := s.CountFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	friends, err := s.CountFriends(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &socialDto.FollowCounts{
		Followers: followers,
		Following: following,
		Friends:   friends,
	}, nil
}

func (s *aggregator) ListFollowers(ctx context.Context, userID string) ([]entity.Profile, error) {
	profiles, err := s.repo.ListFollowers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list followers of %s: %w", userID, err)
	}
	return nonNil(profiles), nil
}

func (s *aggregator) ListFollowing(ctx context.Context, userID string) ([]entity.Profile, error) {
	profiles, err := s.repo.ListFollowing(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list following of %s: %w", userID, err)
	}
	return nonNil(profiles), nil
}

func (s *aggregator) ListFriends(ctx context.Context, userID string) ([]entity.Profile, error) {
	following, err := s.repo.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load following of %s: %w", userID, err)
	}
	if len(following) == 0 {
		return []entity.Profile{}, nil
	}

	profiles, err := s.repo.ListFollowersAmong(ctx, userID, following)
	if err != nil {
		return nil, fmt.Errorf("list friends of %s: %w", userID, err)
	}
	return nonNil(profiles), nil
}

func (s *aggregator) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	return s.repo.Exists(ctx, followerID, followeeID)
}

// ToggleFollow deletes the edge when present and inserts it otherwise,
// returning whether followerID follows followeeID afterwards. Self edges are
// the caller's concern.
func (s *aggregator) ToggleFollow(ctx context.Context, followerID, followeeID string) (bool, error) {
	exists, err := s.repo.Exists(ctx, followerID, followeeID)
	if err != nil {
		return false, fmt.Errorf("check follow %s -> %s: %w", followerID, followeeID, err)
	}

	if exists {
		if err := s.repo.Delete(ctx, followerID, followeeID); err != nil {
			return true, fmt.Errorf("unfollow %s -> %s: %w", followerID, followeeID, err)
		}
		return false, nil
	}

	if err := s.repo.Create(ctx, &entity.Follow{FollowerID: followerID, FollowingID: followeeID}); err != nil {
		return false, fmt.Errorf("follow %s -> %s: %w", followerID, followeeID, err)
	}
	return true, nil
}

// FeedAuthorFilter is the author allow-list of the "following" feed: everyone
// userID follows plus userID. Following nobody narrows it to {userID}.
func (s *aggregator) FeedAuthorFilter(ctx context.Context, userID string) ([]string, error) {
	following, err := s.repo.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load following of %s: %w", userID, err)
	}

	seen := make(map[string]struct{}, len(following)+1)
	authors := make([]string, 0, len(following)+1)
	for _, id := range append(following, userID) {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		authors = append(authors, id)
	}
	return authors, nil
}

func nonNil(profiles []entity.Profile) []entity.Profile {
	if profiles == nil {
		return []entity.Profile{}
	}
	return profiles
}
