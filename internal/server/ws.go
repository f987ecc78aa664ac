package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"hiring-assistant/internal/evaluator"
)

const (
	wsReadLimit   = 64 << 10
	wsIdleTimeout = 5 * time.Minute
	wsWriteWait   = 10 * time.Second
)

// wsReply wraps every frame sent back on /ws. Exactly one of Result and Error is set.
type wsReply struct {
	Status int            `json:"status"`
	Result any            `json:"result,omitempty"`
	Error  *ErrorResponse `json:"error,omitempty"`
}

// handleWebSocket runs an interactive session: each text frame is an
// EvaluateRequest and gets one reply frame, in order.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}
	defer conn.Close()

	s.clientsMu.Lock()
	s.clients[conn] = struct{}{}
	s.clientsMu.Unlock()
	if s.cfg.Metrics != nil {
		s.cfg.Metrics.SessionOpened()
	}

	defer func() {
		s.clientsMu.Lock()
		delete(s.clients, conn)
		s.clientsMu.Unlock()
		if s.cfg.Metrics != nil {
			s.cfg.Metrics.SessionClosed()
		}
	}()

	conn.SetReadLimit(wsReadLimit)
	log.Debug().Str("remote", r.RemoteAddr).Msg("Evaluation session opened")

	for {
		conn.SetReadDeadline(time.Now().Add(wsIdleTimeout))
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Msg("Evaluation session closed unexpectedly")
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		msg, err := json.Marshal(s.handleFrame(data))
		if err != nil {
			log.Error().Err(err).Msg("Failed to encode WebSocket reply")
			msg, _ = json.Marshal(wsReply{
				Status: http.StatusInternalServerError,
				Error:  &ErrorResponse{Error: "failed to encode reply", Kind: evaluator.KindInternal},
			})
		}
		conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Error().Err(err).Msg("Failed to send message to WebSocket client")
			return
		}
	}
}

func (s *Server) handleFrame(data []byte) wsReply {
	var req EvaluateRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return wsReply{
			Status: http.StatusBadRequest,
			Error:  &ErrorResponse{Error: fmt.Sprintf("invalid request: %v", err), Kind: kindBadRequest},
		}
	}

	status, body := s.evaluate(req)
	if e, ok := body.(ErrorResponse); ok {
		return wsReply{Status: status, Error: &e}
	}
	return wsReply{Status: status, Result: body}
}

func (s *Server) closeClients() {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	for conn := range s.clients {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		conn.Close()
	}
	s.clients = make(map[*websocket.Conn]struct{})
}
