package reactions

import (
	"context"
	"fmt"

	"github.com/devsphere/engagement/pkg/identity"
)

// Collaborator is the server-side reaction mutation endpoint. It enforces the
// one-reaction-per-user-per-emoji rule and returns the authoritative new
// reaction list for the comment.
type Collaborator interface {
	ToggleReaction(ctx context.Context, commentId string, emoji string) ([]Reaction, int, error)
}

// Sink receives the reconciled reaction list for a comment. The comment tree
// store implements this. Returns false if the comment is unknown locally.
type Sink interface {
	SetReactions(commentId string, list []Reaction, count int) bool
}

// Toggler turns a viewer's emoji selection into a server round-trip and a
// wholesale replacement of local reaction state. Reaction state is multi-user
// so a local toggle would drift from server truth; the collaborator's
// response always wins.
type Toggler struct {
	collab Collaborator
	sink   Sink
	viewer identity.Viewer
}

func NewToggler(collab Collaborator, sink Sink, viewer identity.Viewer) *Toggler {
	return &Toggler{collab: collab, sink: sink, viewer: viewer}
}

func (t *Toggler) Toggle(ctx context.Context, commentId string, emoji string) error {
	if !t.viewer.Authenticated() {
		return ErrNotAuthenticated
	}
	if emoji == "" {
		return ErrEmptyEmoji
	}

	list, count, err := t.collab.ToggleReaction(ctx, commentId, emoji)
	if err != nil {
		return fmt.Errorf("toggle reaction: %w", err)
	}

	// Comment may have been removed locally while the request was in flight.
	// The response is simply discarded in that case.
	t.sink.SetReactions(commentId, list, count)
	return nil
}
