package client

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devsphere/engagement/pkg/collabtest"
	"github.com/devsphere/engagement/pkg/comments"
	"github.com/devsphere/engagement/pkg/eventbus"
	"github.com/devsphere/engagement/pkg/identity"
	"github.com/devsphere/engagement/pkg/reactions"
	"github.com/devsphere/engagement/pkg/toggles"
)

var (
	_ comments.Collaborator  = (*Client)(nil)
	_ reactions.Collaborator = (*Client)(nil)
	_ toggles.Collaborator   = (*Client)(nil)
)

var ada = identity.User{Id: "uA", Username: "ada", DisplayName: "Ada"}

func newTestClient(t *testing.T, opts ...Option) (*Client, *collabtest.Server) {
	t.Helper()
	fake := collabtest.NewServer()
	fake.AddToken("tok-ada", ada)
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)
	return New(srv.URL, "tok-ada", opts...), fake
}

func TestCommentRoundTrip(t *testing.T) {
	c, fake := newTestClient(t)
	ctx := context.Background()

	created, err := c.CreateComment(ctx, "post-1", "hello", "")
	require.NoError(t, err)
	assert.NotEmpty(t, created.Id)
	assert.Equal(t, "hello", created.Content)
	assert.Equal(t, ada, created.Author)
	assert.WithinDuration(t, time.Now(), created.CreatedAt, time.Minute)

	reply, err := c.CreateComment(ctx, "post-1", "reply", created.Id)
	require.NoError(t, err)

	stored, ok := fake.Comment(created.Id)
	require.True(t, ok)
	require.Len(t, stored.Replies, 1)
	assert.Equal(t, reply.Id, stored.Replies[0].Id)
	assert.Equal(t, 1, stored.ReplyCount)

	require.NoError(t, c.EditComment(ctx, reply.Id, "edited"))
	edited, _ := fake.Comment(reply.Id)
	assert.Equal(t, "edited", edited.Content)

	require.NoError(t, c.DeleteComment(ctx, reply.Id))
	_, ok = fake.Comment(reply.Id)
	assert.False(t, ok)
}

func TestCreateCommentStaleParent(t *testing.T) {
	c, _ := newTestClient(t)

	_, err := c.CreateComment(context.Background(), "post-1", "orphan", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestToggleReaction(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	created, err := c.CreateComment(ctx, "post-1", "hello", "")
	require.NoError(t, err)

	list, count, err := c.ToggleReaction(ctx, created.Id, "👍")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	require.Len(t, list, 1)
	assert.Equal(t, "👍", list[0].Emoji)
	assert.Equal(t, ada.Id, list[0].User.Id)

	// Same user, same emoji: toggled off.
	list, count, err = c.ToggleReaction(ctx, created.Id, "👍")
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, list)
}

func TestVoteAndSave(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Vote(ctx, "post-1", toggles.VoteUp))
	require.NoError(t, c.Vote(ctx, "post-1", toggles.VoteDown))
	require.NoError(t, c.ToggleSave(ctx, "post-1"))
}

func TestToggleFollowFeedsBus(t *testing.T) {
	buses := eventbus.NewBuses()
	defer buses.Close()
	sub := buses.Followers.Subscribe()

	c, fake := newTestClient(t, WithBuses(buses))

	resp, err := c.ToggleFollow(context.Background(), "uB")
	require.NoError(t, err)
	assert.True(t, resp.Following)
	assert.Equal(t, int64(1), resp.Followers)
	assert.Equal(t, int64(1), fake.Followers("uB"))

	e := <-sub
	assert.Equal(t, "uB", e.UserId)
	assert.Equal(t, int64(1), e.Count)
	assert.True(t, e.Following)

	resp, err = c.ToggleFollow(context.Background(), "uB")
	require.NoError(t, err)
	assert.False(t, resp.Following)
	assert.Zero(t, fake.Followers("uB"))
}

func TestUnauthorized(t *testing.T) {
	fake := collabtest.NewServer()
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)

	c := New(srv.URL, "bad-token")
	_, err := c.CreateComment(context.Background(), "post-1", "hello", "")
	assert.ErrorIs(t, err, ErrUnauthorized)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.Status)
}

func TestInjectedFailure(t *testing.T) {
	c, fake := newTestClient(t)

	fake.FailNext(1)
	err := c.ToggleSave(context.Background(), "post-1")
	assert.ErrorIs(t, err, ErrInternal)

	// Only the next request fails.
	assert.NoError(t, c.ToggleSave(context.Background(), "post-1"))
}

func TestLocalValidationSkipsNetwork(t *testing.T) {
	// Pointing at a dead address proves validation rejects before dialing.
	c := New("http://127.0.0.1:0", "tok")

	_, err := c.CreateComment(context.Background(), "post-1", "", "")
	assert.Error(t, err)

	_, _, err = c.ToggleReaction(context.Background(), "c1", "")
	assert.Error(t, err)

	err = c.Vote(context.Background(), "post-1", toggles.VoteDirection("SIDEWAYS"))
	assert.Error(t, err)
}

func TestEventStream(t *testing.T) {
	fake := collabtest.NewServer()
	fake.AddToken("tok-ada", ada)
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)

	buses := eventbus.NewBuses()
	defer buses.Close()
	sub := buses.Reactions.Subscribe()

	wsURL := strings.Replace(srv.URL, "http://", "ws://", 1) + "/events"
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, err := DialEvents(ctx, wsURL, "tok-ada", buses)
	require.NoError(t, err)
	defer stream.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		stream.Run(ctx)
	}()

	c := New(srv.URL, "tok-ada")
	created, err := c.CreateComment(ctx, "post-1", "hello", "")
	require.NoError(t, err)
	_, _, err = c.ToggleReaction(ctx, created.Id, "🎉")
	require.NoError(t, err)

	select {
	case e := <-sub:
		assert.Equal(t, created.Id, e.CommentId)
		assert.Equal(t, "🎉", e.Emoji)
		assert.Equal(t, int64(1), e.Count)
		assert.False(t, e.Removed)
	case <-time.After(2 * time.Second):
		t.Fatal("reaction update never arrived over the event stream")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not stop on cancel")
	}
}
