// Package collabtest is an in-memory stand-in for the platform's engagement
// collaborators: comment CRUD, reaction toggles, votes, saves and follows,
// behind the same REST+events surface the real deployment serves. It backs
// this module's own tests and is importable by consumers for theirs.
package collabtest

import (
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"

	"github.com/devsphere/engagement/pkg/comments"
	"github.com/devsphere/engagement/pkg/identity"
	"github.com/devsphere/engagement/pkg/toggles"
)

type voteKey struct {
	postId string
	userId string
}

type Server struct {
	mu sync.Mutex

	tokens map[string]identity.User

	// comment tree per post, plus a flat index for id lookups
	postComments map[string][]*comments.Comment
	byId         map[string]*comments.Comment
	parentOf     map[string]string

	votes     map[voteKey]toggles.VoteDirection
	saves     map[voteKey]bool
	followers map[string]map[string]bool

	failNext int

	upgrader websocket.Upgrader
	conns    map[*websocket.Conn]bool
	wmu      sync.Mutex
}

func NewServer() *Server {
	return &Server{
		tokens:       map[string]identity.User{},
		postComments: map[string][]*comments.Comment{},
		byId:         map[string]*comments.Comment{},
		parentOf:     map[string]string{},
		votes:        map[voteKey]toggles.VoteDirection{},
		saves:        map[voteKey]bool{},
		followers:    map[string]map[string]bool{},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		conns: map[*websocket.Conn]bool{},
	}
}

// AddToken registers a bearer token for a user.
func (s *Server) AddToken(token string, user identity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = user
}

// FailNext makes the next n mutating requests fail with a 500, for
// exercising rollback paths.
func (s *Server) FailNext(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = n
}

// Comment returns the stored comment for assertions.
func (s *Server) Comment(id string) (*comments.Comment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byId[id]
	return c, ok
}

// Followers returns the current follower count for a user.
func (s *Server) Followers(userId string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.followers[userId]))
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"OPTIONS", "GET", "POST", "PATCH", "DELETE"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler)

	r.Post("/posts/{postId}/comments", s.createComment)
	r.Delete("/comments/{commentId}", s.deleteComment)
	r.Patch("/comments/{commentId}", s.editComment)
	r.Post("/comments/{commentId}/reactions", s.toggleReaction)
	r.Post("/posts/{postId}/vote", s.vote)
	r.Post("/posts/{postId}/save", s.toggleSave)
	r.Post("/users/{userId}/follow", s.toggleFollow)
	r.Get("/events", s.events)

	return r
}

// authedUser resolves the bearer token. Callers do not hold s.mu.
func (s *Server) authedUser(r *http.Request) *identity.User {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil
	}
	token := strings.TrimPrefix(header, "Bearer ")

	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.tokens[token]
	if !ok {
		return nil
	}
	return &user
}

// shouldFail consumes one injected failure if any are pending. Callers hold
// s.mu.
func (s *Server) shouldFail() bool {
	if s.failNext > 0 {
		s.failNext--
		return true
	}
	return false
}
