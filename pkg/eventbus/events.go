package eventbus

// FollowerUpdate fans out follower-count changes for a profile so every open
// view of it stays in sync.
type FollowerUpdate struct {
	UserId    string `msgpack:"user_id"`
	Count     int64  `msgpack:"count"`
	Following bool   `msgpack:"following"`
}

// ReactionUpdate fans out a confirmed reaction toggle on a comment.
type ReactionUpdate struct {
	CommentId string `msgpack:"comment_id"`
	Emoji     string `msgpack:"emoji"`
	Count     int64  `msgpack:"count"`
	UserId    string `msgpack:"user_id"`
	Removed   bool   `msgpack:"removed"`
}

// Buses bundles the topics one view session cares about.
type Buses struct {
	Followers *Bus[FollowerUpdate]
	Reactions *Bus[ReactionUpdate]
}

func NewBuses() *Buses {
	return &Buses{
		Followers: NewBus[FollowerUpdate](),
		Reactions: NewBus[ReactionUpdate](),
	}
}

func (b *Buses) Close() {
	b.Followers.Close()
	b.Reactions.Close()
}
