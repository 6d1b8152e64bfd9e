package search

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"anoa.com/socialblog/internal/entity"
	"github.com/google/uuid"
	"github.com/meilisearch/meilisearch-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   string
}

type fakeMeili struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (f *fakeMeili) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{Method: r.Method, Path: r.URL.Path, Body: string(body)})
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/search") {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `{"hits":[{"id":"p1","title":"Hello","author_id":"u1","created_at":1700000000}],"query":"hello","processingTimeMs":1,"limit":20,"offset":0,"estimatedTotalHits":1}`)
		return
	}
	w.WriteHeader(http.StatusAccepted)
	_, _ = io.WriteString(w, `{"taskUid":7,"indexUid":"posts","status":"enqueued","type":"documentAdditionOrUpdate","enqueuedAt":"2026-01-01T00:00:00Z"}`)
}

func (f *fakeMeili) find(method, pathSuffix string) *recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.requests {
		if f.requests[i].Method == method && strings.HasSuffix(f.requests[i].Path, pathSuffix) {
			return &f.requests[i]
		}
	}
	return nil
}

func newTestService(t *testing.T) (MeiliSearchService, *fakeMeili) {
	fake := &fakeMeili{}
	ts := httptest.NewServer(fake)
	t.Cleanup(ts.Close)

	return NewMeiliSearchService(meilisearch.New(ts.URL), zap.NewNop()), fake
}

func TestIndexPost(t *testing.T) {
	svc, fake := newTestService(t)
	id := uuid.MustParse("0190c3d4-0000-7000-8000-000000000001")

	err := svc.IndexPost(&entity.Post{
		ID:        id,
		AuthorID:  "u1",
		Author:    entity.Profile{ID: "u1", DisplayName: "Ada"},
		Title:     "Hello <b>world</b>",
		Content:   "<p>first</p><p>second &amp; third</p>",
		CreatedAt: time.Unix(1700000000, 0),
	})
	require.NoError(t, err)

	req := fake.find(http.MethodPost, "/indexes/posts/documents")
	require.NotNil(t, req)

	var docs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(req.Body), &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, id.String(), docs[0]["id"])
	assert.Equal(t, "Hello world", docs[0]["title"])
	assert.Equal(t, "first second & third", docs[0]["content"])
	assert.Equal(t, "Ada", docs[0]["author"])
	assert.EqualValues(t, 1700000000, docs[0]["created_at"])

	assert.NotNil(t, fake.find(http.MethodPut, "/settings/sortable-attributes"))
}

func TestDeletePost(t *testing.T) {
	svc, fake := newTestService(t)

	require.NoError(t, svc.DeletePost("p1"))
	assert.NotNil(t, fake.find(http.MethodDelete, "/indexes/posts/documents/p1"))
}

func TestSearchPosts(t *testing.T) {
	svc, fake := newTestService(t)

	hits, err := svc.SearchPosts("hello", 20)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "p1", hits[0].ID)
	assert.Equal(t, "Hello", hits[0].Title)
	assert.Equal(t, "u1", hits[0].AuthorID)

	req := fake.find(http.MethodPost, "/indexes/posts/search")
	require.NotNil(t, req)
	assert.Contains(t, req.Body, `"q":"hello"`)
	assert.Contains(t, req.Body, `created_at:desc`)
}
