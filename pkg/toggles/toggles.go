package toggles

import (
	"context"
	"sync"

	"github.com/devsphere/engagement/pkg/identity"
)

type VoteDirection string

const (
	VoteUp   VoteDirection = "UP"
	VoteDown VoteDirection = "DOWN"
)

type VoteState int8

const (
	VoteNone VoteState = iota
	VotedUp
	VotedDown
)

// Collaborator is the server-side vote/save mutation surface. Both calls are
// idempotent per-user toggles; the server derives the resulting state from
// the viewer's current one.
type Collaborator interface {
	Vote(ctx context.Context, postId string, direction VoteDirection) error
	ToggleSave(ctx context.Context, postId string) error
}

// PostToggles is the optimistic vote/save state machine for one post and one
// viewer. Toggles apply locally before the collaborator confirms and roll
// back to the pre-action snapshot on failure. One busy flag per toggle type
// blocks re-entrant toggles while a request is outstanding; a toggle issued
// while busy is a no-op, not queued.
//
// Votes and saves are optimistic because they have cheap deterministic
// inverses. Comment mutations are not (see pkg/comments).
type PostToggles struct {
	mu     sync.Mutex
	postId string
	viewer identity.Viewer
	collab Collaborator

	vote  VoteState
	votes int // displayed count: total votes on the post
	saved bool

	voteBusy bool
	saveBusy bool
	closed   bool

	// onError surfaces failed (and rolled back) toggles to the view. May be
	// nil. Called outside the lock.
	onError func(error)
}

func NewPostToggles(postId string, viewer identity.Viewer, collab Collaborator, opts ...Option) *PostToggles {
	t := &PostToggles{
		postId: postId,
		viewer: viewer,
		collab: collab,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

type Option func(*PostToggles)

// WithInitialState seeds the machine from server-rendered post data.
func WithInitialState(vote VoteState, votes int, saved bool) Option {
	return func(t *PostToggles) {
		t.vote = vote
		t.votes = votes
		t.saved = saved
	}
}

// WithErrorHandler installs the callback invoked after a rollback.
func WithErrorHandler(fn func(error)) Option {
	return func(t *PostToggles) { t.onError = fn }
}

// Vote returns the displayed vote state and count.
func (t *PostToggles) Vote() (VoteState, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.vote, t.votes
}

func (t *PostToggles) Saved() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.saved
}

// ToggleVote applies the vote transition optimistically and issues the
// collaborator call in the background. Selecting the active direction clears
// it; selecting the other direction switches it. The displayed count moves
// +1 when a vote appears, -1 when it clears, and 0 on a switch.
func (t *PostToggles) ToggleVote(ctx context.Context, direction VoteDirection) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return ErrClosed
	}
	if !t.viewer.Authenticated() {
		t.mu.Unlock()
		return ErrNotAuthenticated
	}
	if t.voteBusy {
		t.mu.Unlock()
		return ErrToggleInFlight
	}

	// Snapshot, then optimistic write.
	prevVote, prevVotes := t.vote, t.votes
	next := nextVote(t.vote, direction)
	t.vote = next
	t.votes += voteDelta(prevVote, next)
	t.voteBusy = true
	t.mu.Unlock()

	go func() {
		err := t.collab.Vote(ctx, t.postId, direction)

		t.mu.Lock()
		t.voteBusy = false
		if t.closed {
			// View is gone; the response has no target.
			t.mu.Unlock()
			return
		}
		if err != nil {
			t.vote = prevVote
			t.votes = prevVotes
		}
		onError := t.onError
		t.mu.Unlock()

		if err != nil && onError != nil {
			onError(err)
		}
	}()

	return nil
}

// ToggleSave flips the saved flag optimistically and issues the collaborator
// call in the background.
func (t *PostToggles) ToggleSave(ctx context.Context) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return ErrClosed
	}
	if !t.viewer.Authenticated() {
		t.mu.Unlock()
		return ErrNotAuthenticated
	}
	if t.saveBusy {
		t.mu.Unlock()
		return ErrToggleInFlight
	}

	prevSaved := t.saved
	t.saved = !t.saved
	t.saveBusy = true
	t.mu.Unlock()

	go func() {
		err := t.collab.ToggleSave(ctx, t.postId)

		t.mu.Lock()
		t.saveBusy = false
		if t.closed {
			t.mu.Unlock()
			return
		}
		if err != nil {
			t.saved = prevSaved
		}
		onError := t.onError
		t.mu.Unlock()

		if err != nil && onError != nil {
			onError(err)
		}
	}()

	return nil
}

// Close marks the view as unmounted. In-flight responses arriving afterwards
// are discarded.
func (t *PostToggles) Close() {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
}

func nextVote(current VoteState, direction VoteDirection) VoteState {
	selected := VotedUp
	if direction == VoteDown {
		selected = VotedDown
	}
	if current == selected {
		return VoteNone
	}
	return selected
}

func voteDelta(from, to VoteState) int {
	delta := 0
	if from != VoteNone {
		delta--
	}
	if to != VoteNone {
		delta++
	}
	return delta
}
