package collabtest

import (
	"net/http"

	"github.com/gorilla/websocket"
)

// events upgrades the connection and streams engagement packets until the
// client goes away.
func (s *Server) events(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	s.mu.Lock()
	s.conns[conn] = true
	s.mu.Unlock()

	// Drain reads so pings and close frames are processed; drop the
	// connection on first read error.
	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.conns, conn)
			s.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) broadcastPacket(packet []byte) {
	s.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(s.conns))
	for conn := range s.conns {
		conns = append(conns, conn)
	}
	s.mu.Unlock()

	// gorilla allows one concurrent writer per conn.
	s.wmu.Lock()
	defer s.wmu.Unlock()
	for _, conn := range conns {
		// A failed write is handled by the reader goroutine's teardown.
		_ = conn.WriteMessage(websocket.BinaryMessage, packet)
	}
}
