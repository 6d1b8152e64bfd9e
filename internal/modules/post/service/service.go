package post

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"anoa.com/socialblog/internal/entity"
	commentRepo "anoa.com/socialblog/internal/modules/comment/repository"
	postDto "anoa.com/socialblog/internal/modules/post/dto"
	postRepo "anoa.com/socialblog/internal/modules/post/repository"
	realtime "anoa.com/socialblog/internal/modules/realtime/service"
	search "anoa.com/socialblog/internal/modules/search/service"
	social "anoa.com/socialblog/internal/modules/social/service"
	"anoa.com/socialblog/pkg/apperror"
	"anoa.com/socialblog/pkg/dto"
	"anoa.com/socialblog/pkg/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PostsRelation names the relation whose changes drive feed refreshes.
const PostsRelation = "posts"

const (
	msgCreateFailed = "Failed to create post. Please try again."
	msgUpdateFailed = "Failed to update post. Please try again."
)

type PostService interface {
	CreatePost(ctx context.Context, userID string, req postDto.CreatePostRequest, cover *dto.UploadFile) (*postDto.PostResponse, error)
	UpdatePost(ctx context.Context, userID string, postID uuid.UUID, req postDto.UpdatePostRequest) (*postDto.PostResponse, error)
	DeletePost(ctx context.Context, userID string, postID uuid.UUID) error
	GetPostByID(ctx context.Context, postID uuid.UUID) (*postDto.PostResponse, error)
	GetPostsByAuthor(ctx context.Context, authorID string) ([]postDto.PostResponse, error)
	// GetFeed composes the newest posts for viewerID. "following" narrows the
	// authors to the viewer's following set plus the viewer.
	GetFeed(ctx context.Context, viewerID, mode string) ([]postDto.PostResponse, error)
}

type postService struct {
	postRepo    postRepo.PostRepository
	commentRepo commentRepo.CommentRepository
	graph       social.Aggregator
	fileStorage storage.ObjectStorage
	changes     realtime.ChangeFeed
	meili       search.MeiliSearchService
	log         *zap.Logger
	feedLimit   int
	now         func() time.Time
}

// NewPostService accepts nil fileStorage and meili; uploads then fail with 503
// and search indexing is skipped.
func NewPostService(postRepo postRepo.PostRepository, commentRepo commentRepo.CommentRepository, graph social.Aggregator, fileStorage storage.ObjectStorage, changes realtime.ChangeFeed, meili search.MeiliSearchService, log *zap.Logger, feedLimit int) PostService {
	return &postService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		graph:       graph,
		fileStorage: fileStorage,
		changes:     changes,
		meili:       meili,
		log:         log,
		feedLimit:   feedLimit,
		now:         time.Now,
	}
}

func (s *postService) CreatePost(ctx context.Context, userID string, req postDto.CreatePostRequest, cover *dto.UploadFile) (*postDto.PostResponse, error) {
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" || content == "" {
		return nil, apperror.New(http.StatusBadRequest, "Title and content are required.", apperror.ErrInvalidInput)
	}

	coverURL := normalizeOptional(req.CoverURL)
	if coverURL != nil && !validCoverURL(*coverURL) {
		return nil, apperror.New(http.StatusBadRequest, "Cover image URL must be a valid absolute URL.", apperror.ErrInvalidInput)
	}

	if cover != nil && cover.Reader != nil {
		url, err := s.uploadCover(ctx, userID, cover)
		if err != nil {
			return nil, err
		}
		coverURL = &url
	}

	post := &entity.Post{
		AuthorID: userID,
		Title:    title,
		Content:  content,
		CoverURL: coverURL,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, apperror.New(http.StatusInternalServerError, msgCreateFailed, err)
	}

	// Reload to join the author
	if reloaded, err := s.postRepo.FindByID(ctx, post.ID); err == nil {
		post = reloaded
	}

	s.publish(ctx, realtime.ChangeInsert, post.ID)
	s.index(post)

	res := mapToResponse(post, 0)
	return &res, nil
}

func (s *postService) uploadCover(ctx context.Context, userID string, cover *dto.UploadFile) (string, error) {
	if s.fileStorage == nil {
		return "", apperror.New(http.StatusServiceUnavailable, "Image uploads are not available.", apperror.ErrServiceUnavailable)
	}

	objectPath := storage.ObjectPath("posts", userID, cover.FileName, s.now())
	if err := s.fileStorage.Upload(ctx, objectPath, cover.Reader); err != nil {
		return "", apperror.New(http.StatusInternalServerError, msgCreateFailed, err)
	}

	url, err := s.fileStorage.PublicURL(objectPath)
	if err != nil {
		return "", apperror.New(http.StatusInternalServerError, msgCreateFailed, err)
	}
	return url, nil
}

func (s *postService) UpdatePost(ctx context.Context, userID string, postID uuid.UUID, req postDto.UpdatePostRequest) (*postDto.PostResponse, error) {
	post, err := s.ownedPost(ctx, userID, postID, "You can only edit your own posts.")
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" || content == "" {
		return nil, apperror.New(http.StatusBadRequest, "Title and content are required.", apperror.ErrInvalidInput)
	}

	if req.CoverURL != nil {
		coverURL := normalizeOptional(req.CoverURL)
		if coverURL != nil && !validCoverURL(*coverURL) {
			return nil, apperror.New(http.StatusBadRequest, "Cover image URL must be a valid absolute URL.", apperror.ErrInvalidInput)
		}
		post.CoverURL = coverURL
	}
	post.Title = title
	post.Content = content

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, apperror.New(http.StatusInternalServerError, msgUpdateFailed, err)
	}

	s.publish(ctx, realtime.ChangeUpdate, post.ID)
	s.index(post)

	count, err := s.commentRepo.CountByPostID(ctx, post.ID)
	if err != nil {
		s.log.Warn("count comments failed", zap.String("post_id", post.ID.String()), zap.Error(err))
	}

	res := mapToResponse(post, count)
	return &res, nil
}

func (s *postService) DeletePost(ctx context.Context, userID string, postID uuid.UUID) error {
	post, err := s.ownedPost(ctx, userID, postID, "You can only delete your own posts.")
	if err != nil {
		return err
	}

	if err := s.postRepo.Delete(ctx, post.ID); err != nil {
		return fmt.Errorf("delete post %s: %w", post.ID, err)
	}

	s.publish(ctx, realtime.ChangeDelete, post.ID)

	if s.meili != nil {
		if err := s.meili.DeletePost(post.ID.String()); err != nil {
			s.log.Warn("search unindex failed", zap.String("post_id", post.ID.String()), zap.Error(err))
		}
	}

	if post.CoverURL != nil && s.fileStorage != nil {
		if err := s.fileStorage.Delete(ctx, *post.CoverURL); err != nil {
			s.log.Debug("cover cleanup skipped", zap.String("post_id", post.ID.String()), zap.Error(err))
		}
	}

	return nil
}

func (s *postService) ownedPost(ctx context.Context, userID string, postID uuid.UUID, forbidden string) (*entity.Post, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.New(http.StatusNotFound, "Post not found.", err)
		}
		return nil, err
	}
	if post.AuthorID != userID {
		return nil, apperror.New(http.StatusForbidden, forbidden, apperror.ErrForbidden)
	}
	return post, nil
}

func (s *postService) GetPostByID(ctx context.Context, postID uuid.UUID) (*postDto.PostResponse, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	count, err := s.commentRepo.CountByPostID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("count comments of %s: %w", postID, err)
	}

	res := mapToResponse(post, count)
	return &res, nil
}

func (s *postService) GetPostsByAuthor(ctx context.Context, authorID string) ([]postDto.PostResponse, error) {
	posts, err := s.postRepo.FindByAuthor(ctx, authorID, s.feedLimit)
	if err != nil {
		return nil, fmt.Errorf("list posts of %s: %w", authorID, err)
	}
	return s.withCommentCounts(ctx, posts)
}

func (s *postService) GetFeed(ctx context.Context, viewerID, mode string) ([]postDto.PostResponse, error) {
	var authors []string
	switch mode {
	case "", postDto.FeedModeAll:
	case postDto.FeedModeFollowing:
		filter, err := s.graph.FeedAuthorFilter(ctx, viewerID)
		if err != nil {
			return nil, err
		}
		authors = filter
	default:
		return nil, apperror.New(http.StatusBadRequest, fmt.Sprintf("unknown feed mode %q", mode), apperror.ErrInvalidInput)
	}

	posts, err := s.postRepo.FindFeed(ctx, authors, s.feedLimit)
	if err != nil {
		return nil, fmt.Errorf("load feed: %w", err)
	}
	return s.withCommentCounts(ctx, posts)
}

func (s *postService) withCommentCounts(ctx context.Context, posts []entity.Post) ([]postDto.PostResponse, error) {
	ids := make([]uuid.UUID, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}

	counts, err := s.commentRepo.CountByPostIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}

	res := make([]postDto.PostResponse, 0, len(posts))
	for i := range posts {
		res = append(res, mapToResponse(&posts[i], counts[posts[i].ID]))
	}
	return res, nil
}

func (s *postService) publish(ctx context.Context, changeType string, id uuid.UUID) {
	err := s.changes.Publish(ctx, PostsRelation, realtime.Change{Type: changeType, ID: id.String()})
	if err != nil {
		s.log.Warn("publish post change failed", zap.String("post_id", id.String()), zap.String("type", changeType), zap.Error(err))
	}
}

func (s *postService) index(post *entity.Post) {
	if s.meili == nil {
		return
	}
	if err := s.meili.IndexPost(post); err != nil {
		s.log.Warn("search index failed", zap.String("post_id", post.ID.String()), zap.Error(err))
	}
}
