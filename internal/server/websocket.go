package server

import (
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // the plugin UI runs on an opaque origin
	},
}

// serveWS answers every text message with one response message until the
// peer disconnects or the request context ends.
func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxBody)

	ctx := r.Context()
	s.logger.Debug("websocket connected", "remote", r.RemoteAddr)
	for {
		kind, msg, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("websocket read failed", "err", err)
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, s.handler.HandleJSON(ctx, msg)); err != nil {
			s.logger.Debug("websocket write failed", "err", err)
			return
		}
		if ctx.Err() != nil {
			return
		}
	}
}
