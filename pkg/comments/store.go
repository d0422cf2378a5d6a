package comments

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/devsphere/engagement/pkg/identity"
	"github.com/devsphere/engagement/pkg/reactions"
)

// Replies are rendered two levels deep; the tree is never searched further
// than one level below a top-level comment when resolving a parent.
const maxParentDepth = 2

// Collaborator is the server-side comment mutation surface. It owns identity,
// authorization and persistence; the store only mirrors its outcomes.
type Collaborator interface {
	CreateComment(ctx context.Context, postId string, content string, parentId string) (*Comment, error)
	DeleteComment(ctx context.Context, commentId string) error
	EditComment(ctx context.Context, commentId string, content string) error
}

// Store holds one post's comment tree for one viewing session, top-level
// comments newest-first. Local state reflects the tree after the last
// successful mutation; additions, edits and deletes are never applied
// speculatively.
type Store struct {
	mu     sync.Mutex
	postId string
	viewer identity.Viewer
	collab Collaborator
	top    []*Comment
}

func NewStore(postId string, viewer identity.Viewer, collab Collaborator, initial []*Comment) *Store {
	s := &Store{
		postId: postId,
		viewer: viewer,
		collab: collab,
		top:    []*Comment{},
	}
	for _, c := range initial {
		c.normalize()
		s.top = append(s.top, c)
	}
	return s
}

// Add sends a new comment to the collaborator and, on success, inserts the
// returned comment into the local tree. With no parentId the comment is
// prepended to the top level. With a parentId the parent is searched for up
// to one level below the top; a parentId not present locally means the tree
// is stale and the insert is silently skipped until a refetch.
func (s *Store) Add(ctx context.Context, content string, parentId string) (*Comment, error) {
	if !s.viewer.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}

	created, err := s.collab.CreateComment(ctx, s.postId, content, parentId)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	created.normalize()

	s.mu.Lock()
	defer s.mu.Unlock()

	if parentId == "" {
		s.top = append([]*Comment{created}, s.top...)
		return created, nil
	}

	if parent := s.find(parentId, maxParentDepth); parent != nil {
		parent.Replies = append(parent.Replies, created)
		parent.ReplyCount = len(parent.Replies)
	}
	return created, nil
}

// Remove deletes a comment through the collaborator and detaches the node
// locally on success.
func (s *Store) Remove(ctx context.Context, id string) error {
	if !s.viewer.Authenticated() {
		return ErrNotAuthenticated
	}
	if err := s.collab.DeleteComment(ctx, id); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.detach(id)
	return nil
}

// Edit replaces a comment's content through the collaborator and mirrors the
// change locally on success.
func (s *Store) Edit(ctx context.Context, id string, content string) error {
	if !s.viewer.Authenticated() {
		return ErrNotAuthenticated
	}
	if strings.TrimSpace(content) == "" {
		return ErrEmptyContent
	}
	if err := s.collab.EditComment(ctx, id, content); err != nil {
		return fmt.Errorf("edit comment: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if c := s.find(id, maxParentDepth); c != nil {
		c.Content = content
	}
	return nil
}

// SetReactions replaces a comment's reaction list wholesale with the
// server-confirmed one, keeping the denormalized count in the same step.
// Returns false if the comment is not in the local tree.
func (s *Store) SetReactions(commentId string, list []reactions.Reaction, count int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.find(commentId, maxParentDepth)
	if c == nil {
		return false
	}
	if list == nil {
		list = []reactions.Reaction{}
	}
	c.Reactions = list
	c.ReactionCount = count
	return true
}

// Comments returns a snapshot of the top-level list in display order.
func (s *Store) Comments() []*Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Comment, len(s.top))
	copy(out, s.top)
	return out
}

// Get looks a comment up anywhere within rendering depth.
func (s *Store) Get(id string) (*Comment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.find(id, maxParentDepth)
	return c, c != nil
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.top)
}

// find walks the tree at most depth levels down. Callers hold s.mu.
func (s *Store) find(id string, depth int) *Comment {
	return findIn(s.top, id, depth)
}

func findIn(list []*Comment, id string, depth int) *Comment {
	if depth == 0 {
		return nil
	}
	for _, c := range list {
		if c.Id == id {
			return c
		}
		if found := findIn(c.Replies, id, depth-1); found != nil {
			return found
		}
	}
	return nil
}

// detach removes the node with the given id and fixes the owning collection's
// denormalized count in the same step. Callers hold s.mu.
func (s *Store) detach(id string) bool {
	for i, c := range s.top {
		if c.Id == id {
			s.top = append(s.top[:i], s.top[i+1:]...)
			return true
		}
		if detachFrom(c, id, maxParentDepth-1) {
			return true
		}
	}
	return false
}

func detachFrom(parent *Comment, id string, depth int) bool {
	if depth == 0 {
		return false
	}
	for i, r := range parent.Replies {
		if r.Id == id {
			parent.Replies = append(parent.Replies[:i], parent.Replies[i+1:]...)
			parent.ReplyCount = len(parent.Replies)
			return true
		}
		if detachFrom(r, id, depth-1) {
			return true
		}
	}
	return false
}
