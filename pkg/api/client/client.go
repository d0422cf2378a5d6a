package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/devsphere/engagement/pkg/comments"
	"github.com/devsphere/engagement/pkg/eventbus"
	"github.com/devsphere/engagement/pkg/reactions"
	"github.com/devsphere/engagement/pkg/structs"
	"github.com/devsphere/engagement/pkg/toggles"
)

var validate = validator.New()

// Client speaks the platform's engagement REST surface. It satisfies the
// collaborator interfaces of pkg/comments, pkg/reactions and pkg/toggles.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	buses   *eventbus.Buses
}

type Option func(*Client)

// WithHTTPClient overrides the transport (tests, custom timeouts).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithBuses makes confirmed follow toggles fan out on the follower bus.
func WithBuses(b *eventbus.Buses) Option {
	return func(c *Client) { c.buses = b }
}

func New(baseURL string, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) CreateComment(ctx context.Context, postId string, content string, parentId string) (*comments.Comment, error) {
	req := structs.CreateCommentReq{
		Content:  content,
		ParentId: parentId,
		Nonce:    uuid.NewString(),
	}
	if err := validate.Struct(&req); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	var created comments.Comment
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/posts/%s/comments", url.PathEscape(postId)), req, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) DeleteComment(ctx context.Context, commentId string) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/comments/%s", url.PathEscape(commentId)), nil, nil)
}

func (c *Client) EditComment(ctx context.Context, commentId string, content string) error {
	req := structs.EditCommentReq{Content: content}
	if err := validate.Struct(&req); err != nil {
		return fmt.Errorf("edit comment: %w", err)
	}
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/comments/%s", url.PathEscape(commentId)), req, nil)
}

func (c *Client) ToggleReaction(ctx context.Context, commentId string, emoji string) ([]reactions.Reaction, int, error) {
	req := structs.ToggleReactionReq{Emoji: emoji}
	if err := validate.Struct(&req); err != nil {
		return nil, 0, fmt.Errorf("toggle reaction: %w", err)
	}

	var resp structs.ToggleReactionResp
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/comments/%s/reactions", url.PathEscape(commentId)), req, &resp)
	if err != nil {
		return nil, 0, err
	}
	return resp.Reactions, resp.Count, nil
}

func (c *Client) Vote(ctx context.Context, postId string, direction toggles.VoteDirection) error {
	req := structs.VoteReq{Direction: string(direction)}
	if err := validate.Struct(&req); err != nil {
		return fmt.Errorf("vote: %w", err)
	}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/posts/%s/vote", url.PathEscape(postId)), req, nil)
}

func (c *Client) ToggleSave(ctx context.Context, postId string) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/posts/%s/save", url.PathEscape(postId)), nil, nil)
}

// ToggleFollow flips the follow state for a profile and, when buses are
// wired, publishes the confirmed follower count so every open view of that
// profile updates.
func (c *Client) ToggleFollow(ctx context.Context, userId string) (structs.ToggleFollowResp, error) {
	var resp structs.ToggleFollowResp
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/users/%s/follow", url.PathEscape(userId)), nil, &resp)
	if err != nil {
		return resp, err
	}
	if c.buses != nil {
		c.buses.Followers.Publish(eventbus.FollowerUpdate{
			UserId:    resp.UserId,
			Count:     resp.Followers,
			Following: resp.Following,
		})
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, method string, path string, body interface{}, out interface{}) error {
	var reqBody *bytes.Reader
	if body != nil {
		marshaled, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(marshaled)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var envelope structs.ErrResp
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil {
			apiErr.Type = envelope.Type
			apiErr.Fields = envelope.Fields
		}
		return apiErr
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
