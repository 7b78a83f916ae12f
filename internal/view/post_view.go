package view

import (
	"context"
	"errors"
	"sync"

	"github.com/BloggingApp/blog-client/internal/comments"
	"github.com/BloggingApp/blog-client/internal/model"
	"go.uber.org/zap"
)

var (
	ErrViewClosed  = errors.New("view has been closed")
	ErrNotLoggedIn = errors.New("you must be logged in to do that")
	ErrNotLoaded   = errors.New("view is not loaded")
)

// Sessions is the session read surface the views need.
type Sessions interface {
	Current() *model.User
}

// PostGateway is the API surface of a single post page.
type PostGateway interface {
	comments.Gateway
	FetchPost(ctx context.Context, slug string) (*model.Post, error)
	TrackView(ctx context.Context, slug string) error
}

// PostView composes the post detail, its comment forest and the session
// into one read model, and forwards user actions to the tree.
type PostView struct {
	gateway  PostGateway
	sessions Sessions
	logger   *zap.Logger
	slug     string
	tree     *comments.Tree

	mu          sync.Mutex
	closed      bool
	loaded      bool
	post        *model.Post
	commentsErr string
}

// PostReadModel is what the presentation layer renders.
type PostReadModel struct {
	Post          *model.Post      `json:"post"`
	Comments      []*comments.Node `json:"comments"`
	CommentCount  int              `json:"comment_count"`
	CommentsError string           `json:"comments_error,omitempty"`
	User          *model.User      `json:"user,omitempty"`
	CanComment    bool             `json:"can_comment"`
}

func NewPostView(gw PostGateway, sessions Sessions, logger *zap.Logger, slug string) *PostView {
	return &PostView{
		gateway:  gw,
		sessions: sessions,
		logger:   logger,
		slug:     slug,
		tree:     comments.New(gw, logger, slug),
	}
}

// Load issues the post and comment fetches concurrently. A post failure is
// terminal for the view; a comment failure degrades to an empty list with
// an error note. On success the view counter is bumped in the background,
// and its failure is only logged.
func (v *PostView) Load(ctx context.Context) error {
	var (
		wg          sync.WaitGroup
		post        *model.Post
		postErr     error
		rootList    []model.Comment
		commentsErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		post, postErr = v.gateway.FetchPost(ctx, v.slug)
	}()
	go func() {
		defer wg.Done()
		rootList, commentsErr = v.gateway.ListComments(ctx, v.slug)
	}()
	wg.Wait()

	v.mu.Lock()
	if v.closed {
		// Navigated away before the fetches resolved; drop the results.
		v.mu.Unlock()
		return ErrViewClosed
	}

	if postErr != nil {
		v.loaded = false
		v.mu.Unlock()
		return postErr
	}

	v.post = post
	v.loaded = true
	if commentsErr != nil {
		v.logger.Sugar().Errorf("failed to fetch comments for post(%s): %s", v.slug, commentsErr.Error())
		v.commentsErr = "Failed to load comments. Please try again."
		v.tree.Build(nil)
	} else {
		v.commentsErr = ""
		v.tree.Build(rootList)
	}
	v.mu.Unlock()

	go func() {
		if err := v.gateway.TrackView(context.Background(), v.slug); err != nil {
			v.logger.Sugar().Errorf("failed to track view for post(%s): %s", v.slug, err.Error())
		}
	}()

	return nil
}

// Render snapshots the composed read model.
func (v *PostView) Render() (*PostReadModel, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return nil, ErrViewClosed
	}
	if !v.loaded {
		return nil, ErrNotLoaded
	}

	user := v.sessions.Current()

	return &PostReadModel{
		Post:          v.post,
		Comments:      v.tree.Roots(),
		CommentCount:  v.tree.CommentCount(),
		CommentsError: v.commentsErr,
		User:          user,
		CanComment:    user != nil,
	}, nil
}

func (v *PostView) AddComment(ctx context.Context, body string) error {
	if err := v.guardAuthed(); err != nil {
		return err
	}
	return v.tree.AddComment(ctx, body)
}

func (v *PostView) AddReply(ctx context.Context, parentID int64, body string) error {
	if err := v.guardAuthed(); err != nil {
		return err
	}
	return v.tree.AddReply(ctx, parentID, body)
}

func (v *PostView) DeleteComment(ctx context.Context, commentID int64) error {
	if err := v.guardAuthed(); err != nil {
		return err
	}
	return v.tree.Delete(ctx, commentID)
}

func (v *PostView) Expand(ctx context.Context, nodeID int64) error {
	if err := v.guardOpen(); err != nil {
		return err
	}
	return v.tree.Expand(ctx, nodeID)
}

func (v *PostView) Collapse(nodeID int64) error {
	if err := v.guardOpen(); err != nil {
		return err
	}
	return v.tree.Collapse(nodeID)
}

// Close marks the view as torn down; late fetch results and further actions
// are discarded.
func (v *PostView) Close() {
	v.mu.Lock()
	v.closed = true
	v.mu.Unlock()
}

func (v *PostView) Slug() string {
	return v.slug
}

func (v *PostView) guardOpen() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return ErrViewClosed
	}
	return nil
}

func (v *PostView) guardAuthed() error {
	if err := v.guardOpen(); err != nil {
		return err
	}
	if v.sessions.Current() == nil {
		return ErrNotLoggedIn
	}
	return nil
}
