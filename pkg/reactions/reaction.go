package reactions

import (
	"github.com/devsphere/engagement/pkg/identity"
)

type Reaction struct {
	Id    string        `json:"id" msgpack:"id"`
	Emoji string        `json:"emoji" msgpack:"emoji"`
	User  identity.User `json:"user" msgpack:"user"`
}

// Group is the per-emoji rollup rendered on a comment. It is a projection of
// the raw reaction list, never stored.
type Group struct {
	Emoji  string
	Count  int
	Users  []identity.User
	Active bool // current viewer has this emoji down
}

// GroupByEmoji rolls the raw reaction list up by emoji, ordered by first
// occurrence. Pure; recompute after every reaction-list change.
func GroupByEmoji(list []Reaction, currentUserId string) []Group {
	groups := []Group{}
	index := map[string]int{}
	for _, r := range list {
		i, ok := index[r.Emoji]
		if !ok {
			i = len(groups)
			index[r.Emoji] = i
			groups = append(groups, Group{Emoji: r.Emoji})
		}
		groups[i].Count++
		groups[i].Users = append(groups[i].Users, r.User)
		if currentUserId != "" && r.User.Id == currentUserId {
			groups[i].Active = true
		}
	}
	return groups
}
