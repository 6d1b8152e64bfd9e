package search

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"anoa.com/socialblog/internal/entity"
	searchDto "anoa.com/socialblog/internal/modules/search/dto"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

const postsIndex = "posts"

type MeiliSearchService interface {
	IndexPost(post *entity.Post) error
	DeletePost(id string) error
	SearchPosts(query string, limit int) ([]searchDto.PostHit, error)
}

type meiliSearchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
	log       *zap.Logger
}

func NewMeiliSearchService(client meilisearch.ServiceManager, log *zap.Logger) MeiliSearchService {
	s := &meiliSearchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
		log:       log,
	}
	s.initIndexes()
	return s
}

func (s *meiliSearchService) initIndexes() {
	filterable := []any{"author_id"}
	if _, err := s.client.Index(postsIndex).UpdateFilterableAttributes(&filterable); err != nil {
		s.log.Warn("failed to update posts filterable attributes", zap.Error(err))
	}

	sortable := []string{"created_at"}
	if _, err := s.client.Index(postsIndex).UpdateSortableAttributes(&sortable); err != nil {
		s.log.Warn("failed to update posts sortable attributes", zap.Error(err))
	}
}

type meiliPostDoc struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	AuthorID  string `json:"author_id"`
	Author    string `json:"author"`
	CreatedAt int64  `json:"created_at"`
}

func (s *meiliSearchService) cleanContentForIndex(content string) string {
	// Block tags become spaces so adjacent paragraphs don't merge.
	content = strings.ReplaceAll(content, "</p>", " ")
	content = strings.ReplaceAll(content, "<br>", " ")
	content = strings.ReplaceAll(content, "</div>", " ")

	cleanText := html.UnescapeString(s.sanitizer.Sanitize(content))
	return strings.Join(strings.Fields(cleanText), " ")
}

func (s *meiliSearchService) IndexPost(post *entity.Post) error {
	doc := meiliPostDoc{
		ID:        post.ID.String(),
		Title:     s.cleanContentForIndex(post.Title),
		Content:   s.cleanContentForIndex(post.Content),
		AuthorID:  post.AuthorID,
		Author:    post.Author.DisplayName,
		CreatedAt: post.CreatedAt.Unix(),
	}

	task, err := s.client.Index(postsIndex).AddDocuments([]meiliPostDoc{doc}, strPtr("id"))
	if err != nil {
		return fmt.Errorf("index post %s: %w", doc.ID, err)
	}
	s.log.Debug("indexed post", zap.String("post_id", doc.ID), zap.Int64("task_uid", task.TaskUID))
	return nil
}

func (s *meiliSearchService) DeletePost(id string) error {
	if _, err := s.client.Index(postsIndex).DeleteDocument(id); err != nil {
		return fmt.Errorf("remove post %s from index: %w", id, err)
	}
	return nil
}

func (s *meiliSearchService) SearchPosts(query string, limit int) ([]searchDto.PostHit, error) {
	resp, err := s.client.Index(postsIndex).Search(query, &meilisearch.SearchRequest{
		Limit:                int64(limit),
		AttributesToRetrieve: []string{"id", "title", "author_id", "created_at"},
		Sort:                 []string{"created_at:desc"},
	})
	if err != nil {
		return nil, fmt.Errorf("search posts: %w", err)
	}

	// Hits are re-decoded through JSON; their Go type differs across client releases.
	raw, err := json.Marshal(resp.Hits)
	if err != nil {
		return nil, fmt.Errorf("decode search hits: %w", err)
	}
	hits := []searchDto.PostHit{}
	if err := json.Unmarshal(raw, &hits); err != nil {
		return nil, fmt.Errorf("decode search hits: %w", err)
	}
	return hits, nil
}

func strPtr(s string) *string {
	return &s
}
