// internal/handlers/ws.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/KoubaPetr/kabo/internal/protocol"
	"github.com/KoubaPetr/kabo/internal/server"
)

// wsConn adapts a websocket connection to the transport.Conn shape.
// Websockets already delimit messages, so frames travel as plain JSON
// texts without the TCP length prefix.
type wsConn struct {
	ctx context.Context
	c   *websocket.Conn
}

func (w *wsConn) ReadMessage() (*protocol.Message, error) {
	_, data, err := w.c.Read(w.ctx)
	if err != nil {
		return nil, err
	}
	var msg protocol.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (w *wsConn) WriteMessage(msg *protocol.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return w.c.Write(w.ctx, websocket.MessageText, data)
}

func (w *wsConn) Close() error {
	return w.c.Close(websocket.StatusNormalClosure, "table closed")
}

// GameWSHandler upgrades the HTTP connection and hands it to the
// current table's roster. The same join handshake runs over the
// socket, so a websocket participant is indistinguishable from a TCP
// one past admission. Tables come and go across matches, hence the
// provider instead of a fixed server.
func GameWSHandler(logger *logrus.Logger, current func() *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		srv := current()
		if srv == nil {
			http.Error(w, "no table is accepting players right now", http.StatusServiceUnavailable)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"kabo"},
			OriginPatterns: []string{"*"}, // Adjust for production security.
		})
		if err != nil {
			logger.Warnf("WebSocket accept error: %v", err)
			return
		}
		if c.Subprotocol() != "kabo" {
			logger.Warnf("Client from %s connected with invalid subprotocol: %s", r.RemoteAddr, c.Subprotocol())
			c.Close(websocket.StatusPolicyViolation, "Client must use the 'kabo' subprotocol.")
			return
		}
		logger.Infof("WebSocket connection established from %s", r.RemoteAddr)

		// Admission and all subsequent play run on the connection's
		// own lifetime, not the HTTP request's.
		srv.Admit(&wsConn{ctx: context.Background(), c: c})
	}
}
