package comments

import (
	"time"

	"github.com/devsphere/engagement/pkg/identity"
	"github.com/devsphere/engagement/pkg/reactions"
)

// Comment is one node of a post's comment tree. Replies is always non-nil so
// traversal never has to branch on absence; the UI renders two levels but the
// shape recurses arbitrarily. ReactionCount and ReplyCount are denormalized
// for API compatibility and must only ever be updated in the same step as
// the collection they describe.
type Comment struct {
	Id        string               `json:"id" msgpack:"id"`
	Content   string               `json:"content" msgpack:"content"`
	Author    identity.User        `json:"author" msgpack:"author"`
	CreatedAt time.Time            `json:"created_at" msgpack:"created_at"`
	Replies   []*Comment           `json:"replies" msgpack:"replies"`
	Reactions []reactions.Reaction `json:"reactions" msgpack:"reactions"`

	ReactionCount int `json:"reaction_count" msgpack:"reaction_count"`
	ReplyCount    int `json:"reply_count" msgpack:"reply_count"`
}

// Groups is the per-emoji rollup of this comment's reactions for the given
// viewer. Pure projection, recomputed per call.
func (c *Comment) Groups(currentUserId string) []reactions.Group {
	return reactions.GroupByEmoji(c.Reactions, currentUserId)
}

func (c *Comment) normalize() {
	if c.Replies == nil {
		c.Replies = []*Comment{}
	}
	if c.Reactions == nil {
		c.Reactions = []reactions.Reaction{}
	}
	for _, r := range c.Replies {
		r.normalize()
	}
}
