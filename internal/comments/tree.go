package comments

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/BloggingApp/blog-client/internal/model"
	"go.uber.org/zap"
)

var ErrUnknownNode = errors.New("unknown comment node")

// Gateway is the slice of the API client the tree needs.
type Gateway interface {
	ListComments(ctx context.Context, postSlug string) ([]model.Comment, error)
	FetchReplies(ctx context.Context, commentID int64) ([]model.Comment, error)
	CreateComment(ctx context.Context, postSlug string, body string) (*model.Comment, error)
	CreateReply(ctx context.Context, commentID int64, body string) (*model.Comment, error)
	DeleteComment(ctx context.Context, commentID int64) error
}

// Node is one comment or reply in the forest. Children is authoritative
// only once ChildrenLoaded is true; before that ReplyCount may report
// children the client has not fetched yet. Expanded is UI state and is
// never persisted.
type Node struct {
	ID             int64     `json:"id"`
	Author         string    `json:"author"`
	Body           string    `json:"body"`
	ReplyCount     int64     `json:"reply_count"`
	CreatedAt      time.Time `json:"created_at"`
	Children       []*Node   `json:"children"`
	ChildrenLoaded bool      `json:"children_loaded"`
	Expanded       bool      `json:"expanded"`
}

// CanDelete reports whether the delete affordance should be shown to user.
// It is a UI predicate only; ownership is enforced server-side.
func (n *Node) CanDelete(user *model.User) bool {
	return user != nil && n.Author == user.Username
}

func (n *Node) clone() *Node {
	c := *n
	c.Children = make([]*Node, 0, len(n.Children))
	for _, child := range n.Children {
		c.Children = append(c.Children, child.clone())
	}
	return &c
}

// Tree is the in-memory comment forest of one post. Mutations call the
// backend first and only touch local state on success, so a failed call
// leaves the forest exactly as it was.
type Tree struct {
	gateway  Gateway
	logger   *zap.Logger
	postSlug string

	mu       sync.Mutex
	roots    []*Node
	index    map[int64]*Node
	inflight map[int64]chan struct{}
}

func New(gw Gateway, logger *zap.Logger, postSlug string) *Tree {
	return &Tree{
		gateway:  gw,
		logger:   logger,
		postSlug: postSlug,
		index:    make(map[int64]*Node),
		inflight: make(map[int64]chan struct{}),
	}
}

// Build replaces the forest with the given root comments. Every root starts
// collapsed with no loaded children. Duplicate identifiers violate the
// backend contract; the later occurrence is dropped with a warning rather
// than corrupting the index.
func (t *Tree) Build(rootComments []model.Comment) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.roots = nil
	t.index = make(map[int64]*Node)
	for _, comment := range rootComments {
		node := t.newNode(comment)
		if node == nil {
			continue
		}
		t.roots = append(t.roots, node)
	}
}

// newNode registers a node in the index, enforcing forest-wide ID
// uniqueness. Callers hold t.mu.
func (t *Tree) newNode(comment model.Comment) *Node {
	if _, exists := t.index[comment.ID]; exists {
		t.logger.Sugar().Warnf("duplicate comment id(%d) in post(%s), dropping", comment.ID, t.postSlug)
		return nil
	}

	node := &Node{
		ID:         comment.ID,
		Author:     comment.Author,
		Body:       comment.Body,
		ReplyCount: comment.ReplyCount,
		CreatedAt:  comment.CreatedAt,
	}
	t.index[comment.ID] = node

	return node
}

// Reload refetches the root comments and rebuilds the forest wholesale,
// discarding any loaded reply subtrees.
func (t *Tree) Reload(ctx context.Context) error {
	rootComments, err := t.gateway.ListComments(ctx, t.postSlug)
	if err != nil {
		return err
	}

	t.Build(rootComments)

	return nil
}

// Expand shows a node's replies, fetching them on first expansion. Repeated
// calls while that first fetch is still in flight do not issue a second
// one; they wait for it instead.
func (t *Tree) Expand(ctx context.Context, nodeID int64) error {
	t.mu.Lock()

	node, ok := t.index[nodeID]
	if !ok {
		t.mu.Unlock()
		return ErrUnknownNode
	}

	if node.ChildrenLoaded {
		node.Expanded = true
		t.mu.Unlock()
		return nil
	}

	if pending, ok := t.inflight[nodeID]; ok {
		t.mu.Unlock()
		select {
		case <-pending:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	done := make(chan struct{})
	t.inflight[nodeID] = done
	t.mu.Unlock()

	replies, err := t.gateway.FetchReplies(ctx, nodeID)

	t.mu.Lock()
	delete(t.inflight, nodeID)
	defer close(done)
	defer t.mu.Unlock()

	if err != nil {
		return err
	}

	// The forest may have been rebuilt while the fetch was out; a stale
	// result must not resurrect a node that is gone.
	if current, ok := t.index[nodeID]; !ok || current != node {
		return nil
	}

	t.setChildren(node, replies)
	node.Expanded = true

	return nil
}

// setChildren replaces node's children with fetched replies. Callers hold
// t.mu.
func (t *Tree) setChildren(node *Node, replies []model.Comment) {
	for _, child := range node.Children {
		t.unindex(child)
	}

	node.Children = nil
	for _, reply := range replies {
		child := t.newNode(reply)
		if child == nil {
			continue
		}
		node.Children = append(node.Children, child)
	}
	node.ReplyCount = int64(len(node.Children))
	node.ChildrenLoaded = true
}

func (t *Tree) unindex(node *Node) {
	delete(t.index, node.ID)
	for _, child := range node.Children {
		t.unindex(child)
	}
}

// Collapse hides a node's replies. Loaded children are kept, so the next
// Expand is instant.
func (t *Tree) Collapse(nodeID int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	node, ok := t.index[nodeID]
	if !ok {
		return ErrUnknownNode
	}
	node.Expanded = false

	return nil
}

// AddComment posts a new root comment and resynchronizes the whole forest
// with the server.
func (t *Tree) AddComment(ctx context.Context, body string) error {
	if _, err := t.gateway.CreateComment(ctx, t.postSlug, body); err != nil {
		return err
	}

	return t.Reload(ctx)
}

// AddReply posts a reply under parentID and refetches only that parent's
// replies; the rest of the forest keeps its state.
func (t *Tree) AddReply(ctx context.Context, parentID int64, body string) error {
	t.mu.Lock()
	if _, ok := t.index[parentID]; !ok {
		t.mu.Unlock()
		return ErrUnknownNode
	}
	t.mu.Unlock()

	if _, err := t.gateway.CreateReply(ctx, parentID, body); err != nil {
		return err
	}

	replies, err := t.gateway.FetchReplies(ctx, parentID)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	parent, ok := t.index[parentID]
	if !ok {
		return nil
	}
	t.setChildren(parent, replies)

	return nil
}

// Delete removes a comment. Deletion is a pure removal, so no refetch is
// needed; on failure the forest is untouched.
func (t *Tree) Delete(ctx context.Context, nodeID int64) error {
	t.mu.Lock()
	if _, ok := t.index[nodeID]; !ok {
		t.mu.Unlock()
		return ErrUnknownNode
	}
	t.mu.Unlock()

	if err := t.gateway.DeleteComment(ctx, nodeID); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	node, ok := t.index[nodeID]
	if !ok {
		return nil
	}
	t.roots = removeNode(t.roots, node)
	for _, root := range t.roots {
		root.Children = removeNodeRecursive(root.Children, node)
	}
	t.unindex(node)

	return nil
}

func removeNode(nodes []*Node, target *Node) []*Node {
	for i, n := range nodes {
		if n == target {
			return append(nodes[:i], nodes[i+1:]...)
		}
	}
	return nodes
}

func removeNodeRecursive(nodes []*Node, target *Node) []*Node {
	nodes = removeNode(nodes, target)
	for _, n := range nodes {
		n.Children = removeNodeRecursive(n.Children, target)
	}
	return nodes
}

// Roots returns a deep copy of the forest in server order.
func (t *Tree) Roots() []*Node {
	t.mu.Lock()
	defer t.mu.Unlock()

	roots := make([]*Node, 0, len(t.roots))
	for _, root := range t.roots {
		roots = append(roots, root.clone())
	}

	return roots
}

// CommentCount is the number of root comments, the figure shown next to the
// post.
func (t *Tree) CommentCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.roots)
}
