package collabtest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/devsphere/engagement/pkg/comments"
	"github.com/devsphere/engagement/pkg/eventbus"
	"github.com/devsphere/engagement/pkg/flakeid"
	"github.com/devsphere/engagement/pkg/reactions"
	"github.com/devsphere/engagement/pkg/structs"
	"github.com/devsphere/engagement/pkg/toggles"
)

func (s *Server) createComment(w http.ResponseWriter, r *http.Request) {
	// Get authed user
	user := s.authedUser(r)
	if user == nil {
		returnErr(w, http.StatusUnauthorized, errUnauthorized, nil)
		return
	}

	// Decode body
	var body structs.CreateCommentReq
	if !decodeBody(w, r, &body) {
		return
	}

	postId := chi.URLParam(r, "postId")

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.shouldFail() {
		returnErr(w, http.StatusInternalServerError, errInternal, nil)
		return
	}

	// A stale parent id is a client-side problem; server-side it is a hard
	// failure so the client never shows an orphaned comment.
	if body.ParentId != "" {
		if _, ok := s.byId[body.ParentId]; !ok {
			returnErr(w, http.StatusNotFound, errNotFound, nil)
			return
		}
	}

	created := &comments.Comment{
		Id:        flakeid.Next(),
		Content:   body.Content,
		Author:    *user,
		CreatedAt: time.Now().UTC(),
		Replies:   []*comments.Comment{},
		Reactions: []reactions.Reaction{},
	}
	s.byId[created.Id] = created
	if body.ParentId == "" {
		s.postComments[postId] = append([]*comments.Comment{created}, s.postComments[postId]...)
	} else {
		parent := s.byId[body.ParentId]
		parent.Replies = append(parent.Replies, created)
		parent.ReplyCount = len(parent.Replies)
		s.parentOf[created.Id] = parent.Id
	}

	returnData(w, http.StatusOK, created)
}

func (s *Server) deleteComment(w http.ResponseWriter, r *http.Request) {
	user := s.authedUser(r)
	if user == nil {
		returnErr(w, http.StatusUnauthorized, errUnauthorized, nil)
		return
	}

	commentId := chi.URLParam(r, "commentId")

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.shouldFail() {
		returnErr(w, http.StatusInternalServerError, errInternal, nil)
		return
	}

	c, ok := s.byId[commentId]
	if !ok {
		returnErr(w, http.StatusNotFound, errNotFound, nil)
		return
	}

	if parentId, ok := s.parentOf[commentId]; ok {
		parent := s.byId[parentId]
		for i, reply := range parent.Replies {
			if reply.Id == commentId {
				parent.Replies = append(parent.Replies[:i], parent.Replies[i+1:]...)
				parent.ReplyCount = len(parent.Replies)
				break
			}
		}
		delete(s.parentOf, commentId)
	} else {
		for postId, list := range s.postComments {
			for i, top := range list {
				if top.Id == commentId {
					s.postComments[postId] = append(list[:i], list[i+1:]...)
					break
				}
			}
		}
	}
	delete(s.byId, c.Id)

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) editComment(w http.ResponseWriter, r *http.Request) {
	user := s.authedUser(r)
	if user == nil {
		returnErr(w, http.StatusUnauthorized, errUnauthorized, nil)
		return
	}

	var body structs.EditCommentReq
	if !decodeBody(w, r, &body) {
		return
	}

	commentId := chi.URLParam(r, "commentId")

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.shouldFail() {
		returnErr(w, http.StatusInternalServerError, errInternal, nil)
		return
	}

	c, ok := s.byId[commentId]
	if !ok {
		returnErr(w, http.StatusNotFound, errNotFound, nil)
		return
	}
	c.Content = body.Content

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) toggleReaction(w http.ResponseWriter, r *http.Request) {
	user := s.authedUser(r)
	if user == nil {
		returnErr(w, http.StatusUnauthorized, errUnauthorized, nil)
		return
	}

	var body structs.ToggleReactionReq
	if !decodeBody(w, r, &body) {
		return
	}

	commentId := chi.URLParam(r, "commentId")

	s.mu.Lock()
	if s.shouldFail() {
		s.mu.Unlock()
		returnErr(w, http.StatusInternalServerError, errInternal, nil)
		return
	}

	c, ok := s.byId[commentId]
	if !ok {
		s.mu.Unlock()
		returnErr(w, http.StatusNotFound, errNotFound, nil)
		return
	}

	// One reaction per user per emoji: re-selecting toggles it off.
	removed := false
	for i, reaction := range c.Reactions {
		if reaction.User.Id == user.Id && reaction.Emoji == body.Emoji {
			c.Reactions = append(c.Reactions[:i], c.Reactions[i+1:]...)
			removed = true
			break
		}
	}
	if !removed {
		c.Reactions = append(c.Reactions, reactions.Reaction{
			Id:    flakeid.Next(),
			Emoji: body.Emoji,
			User:  *user,
		})
	}
	c.ReactionCount = len(c.Reactions)

	resp := structs.ToggleReactionResp{
		Reactions: append([]reactions.Reaction{}, c.Reactions...),
		Count:     c.ReactionCount,
	}
	count := int64(c.ReactionCount)
	s.mu.Unlock()

	s.broadcastPacket(mustEncode(eventbus.EncodeReactionUpdate(eventbus.ReactionUpdate{
		CommentId: commentId,
		Emoji:     body.Emoji,
		Count:     count,
		UserId:    user.Id,
		Removed:   removed,
	})))

	returnData(w, http.StatusOK, resp)
}

func (s *Server) vote(w http.ResponseWriter, r *http.Request) {
	user := s.authedUser(r)
	if user == nil {
		returnErr(w, http.StatusUnauthorized, errUnauthorized, nil)
		return
	}

	var body structs.VoteReq
	if !decodeBody(w, r, &body) {
		return
	}

	postId := chi.URLParam(r, "postId")
	key := voteKey{postId: postId, userId: user.Id}
	direction := toggles.VoteDirection(body.Direction)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.shouldFail() {
		returnErr(w, http.StatusInternalServerError, errInternal, nil)
		return
	}

	// Same direction clears, other direction switches.
	if s.votes[key] == direction {
		delete(s.votes, key)
	} else {
		s.votes[key] = direction
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) toggleSave(w http.ResponseWriter, r *http.Request) {
	user := s.authedUser(r)
	if user == nil {
		returnErr(w, http.StatusUnauthorized, errUnauthorized, nil)
		return
	}

	postId := chi.URLParam(r, "postId")
	key := voteKey{postId: postId, userId: user.Id}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.shouldFail() {
		returnErr(w, http.StatusInternalServerError, errInternal, nil)
		return
	}

	saved := !s.saves[key]
	if saved {
		s.saves[key] = true
	} else {
		delete(s.saves, key)
	}

	returnData(w, http.StatusOK, structs.ToggleSaveResp{Saved: saved})
}

func (s *Server) toggleFollow(w http.ResponseWriter, r *http.Request) {
	user := s.authedUser(r)
	if user == nil {
		returnErr(w, http.StatusUnauthorized, errUnauthorized, nil)
		return
	}

	userId := chi.URLParam(r, "userId")

	s.mu.Lock()
	if s.shouldFail() {
		s.mu.Unlock()
		returnErr(w, http.StatusInternalServerError, errInternal, nil)
		return
	}

	set := s.followers[userId]
	if set == nil {
		set = map[string]bool{}
		s.followers[userId] = set
	}
	following := !set[user.Id]
	if following {
		set[user.Id] = true
	} else {
		delete(set, user.Id)
	}
	count := int64(len(set))
	s.mu.Unlock()

	s.broadcastPacket(mustEncode(eventbus.EncodeFollowerUpdate(eventbus.FollowerUpdate{
		UserId:    userId,
		Count:     count,
		Following: following,
	})))

	returnData(w, http.StatusOK, structs.ToggleFollowResp{
		UserId:    userId,
		Followers: count,
		Following: following,
	})
}

func mustEncode(packet []byte, err error) []byte {
	if err != nil {
		panic(err)
	}
	return packet
}
