package view

import (
	"context"
	"sync"

	"github.com/BloggingApp/blog-client/internal/dto"
	"github.com/BloggingApp/blog-client/internal/model"
	"go.uber.org/zap"
)

// ListGateway is the API surface of the post listing pages.
type ListGateway interface {
	ListPosts(ctx context.Context, page int, search string) (*dto.PagedPosts, error)
	ListMyPosts(ctx context.Context, page int, search string) (*dto.PagedPosts, error)
}

// ListView is a paginated, searchable post listing. With mine set it shows
// the authenticated user's own posts instead of the public feed.
type ListView struct {
	gateway ListGateway
	logger  *zap.Logger
	mine    bool

	mu         sync.Mutex
	page       int
	query      string
	posts      []model.Post
	count      int64
	totalPages int
}

type ListReadModel struct {
	Posts      []model.Post `json:"posts"`
	Page       int          `json:"page"`
	TotalPages int          `json:"total_pages"`
	Count      int64        `json:"count"`
	Query      string       `json:"query"`
}

func NewListView(gw ListGateway, logger *zap.Logger, mine bool) *ListView {
	return &ListView{
		gateway:    gw,
		logger:     logger,
		mine:       mine,
		page:       1,
		totalPages: 1,
	}
}

// Load fetches the current page. The page size is whatever the server
// returns per page, so the total page count is derived from the payload.
func (l *ListView) Load(ctx context.Context) error {
	l.mu.Lock()
	page, query := l.page, l.query
	l.mu.Unlock()

	result, err := l.fetch(ctx, page, query)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// A concurrent Search/GoToPage superseded this fetch; drop it.
	if l.page != page || l.query != query {
		return nil
	}

	l.posts = result.Results
	l.count = result.Count
	l.totalPages = totalPages(result.Count, len(result.Results))

	return nil
}

// Search resets to the first page with the new query.
func (l *ListView) Search(ctx context.Context, query string) error {
	l.mu.Lock()
	l.query = query
	l.page = 1
	l.mu.Unlock()

	return l.Load(ctx)
}

// GoToPage switches pages; asking for the current page is a no-op so that
// repeated clicks do not refetch.
func (l *ListView) GoToPage(ctx context.Context, page int) error {
	l.mu.Lock()
	if page == l.page {
		l.mu.Unlock()
		return nil
	}
	l.page = page
	l.mu.Unlock()

	return l.Load(ctx)
}

func (l *ListView) Render() *ListReadModel {
	l.mu.Lock()
	defer l.mu.Unlock()

	posts := make([]model.Post, len(l.posts))
	copy(posts, l.posts)

	return &ListReadModel{
		Posts:      posts,
		Page:       l.page,
		TotalPages: l.totalPages,
		Count:      l.count,
		Query:      l.query,
	}
}

func (l *ListView) fetch(ctx context.Context, page int, query string) (*dto.PagedPosts, error) {
	if l.mine {
		return l.gateway.ListMyPosts(ctx, page, query)
	}
	return l.gateway.ListPosts(ctx, page, query)
}

// totalPages is ceil(count/pageSize), with an empty page counting as one
// page rather than dividing by zero.
func totalPages(count int64, pageSize int) int {
	if pageSize <= 0 || count <= 0 {
		return 1
	}
	pages := int((count + int64(pageSize) - 1) / int64(pageSize))
	if pages < 1 {
		return 1
	}
	return pages
}
