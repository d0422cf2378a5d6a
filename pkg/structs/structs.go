package structs

import "github.com/devsphere/engagement/pkg/reactions"

// Wire shapes shared by the API client and the in-process fake collaborator.

type ErrResp struct {
	Error  bool              `json:"error"`
	Type   string            `json:"type"`
	Fields map[string]string `json:"fields,omitempty"`
}

type CreateCommentReq struct {
	Content  string `json:"content" validate:"required,max=4000"`
	ParentId string `json:"parent_id,omitempty"`
	Nonce    string `json:"nonce,omitempty"`
}

type EditCommentReq struct {
	Content string `json:"content" validate:"required,max=4000"`
}

type ToggleReactionReq struct {
	Emoji string `json:"emoji" validate:"required,max=32"`
}

type ToggleReactionResp struct {
	Reactions []reactions.Reaction `json:"reactions"`
	Count     int                  `json:"count"`
}

type VoteReq struct {
	Direction string `json:"direction" validate:"required,oneof=UP DOWN"`
}

type ToggleSaveResp struct {
	Saved bool `json:"saved"`
}

type ToggleFollowResp struct {
	UserId    string `json:"user_id"`
	Followers int64  `json:"followers"`
	Following bool   `json:"following"`
}
