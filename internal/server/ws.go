package server

import (
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// The API has no browser origin of its own; callers are local tools.
	CheckOrigin: func(*http.Request) bool { return true },
}

type wsMessage struct {
	Message string `json:"message"`
}

type wsReply struct {
	SessionID string `json:"sessionId"`
	Reply     string `json:"reply"`
	Error     string `json:"error,omitempty"`
}

// handleChatWS runs one conversational session over a websocket. Each text
// frame is a user message; each reply frame carries the model's response.
// The session ends with the connection.
func (s *Server) handleChatWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	cs := s.newSession()
	s.logger.Info("websocket chat opened", "session_id", cs.session.ID())

	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read failed", "error", err)
			}
			break
		}
		if msg.Message == "" {
			if err := conn.WriteJSON(wsReply{SessionID: cs.session.ID(), Error: "empty message"}); err != nil {
				break
			}
			continue
		}

		cs.mu.Lock()
		reply := cs.session.Send(r.Context(), msg.Message)
		cs.mu.Unlock()

		if err := conn.WriteJSON(wsReply{SessionID: cs.session.ID(), Reply: reply}); err != nil {
			break
		}
	}

	s.mu.Lock()
	delete(s.sessions, cs.session.ID())
	s.mu.Unlock()
	s.logger.Info("websocket chat closed", "session_id", cs.session.ID())
}
