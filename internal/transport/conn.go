// internal/transport/conn.go
package transport

import (
	"net"

	"github.com/KoubaPetr/kabo/internal/protocol"
)

// Conn is one participant's message channel. Implementations exist for
// raw TCP (this package) and websockets (internal/handlers); the
// remote decider only ever talks to this interface.
type Conn interface {
	ReadMessage() (*protocol.Message, error)
	WriteMessage(*protocol.Message) error
	Close() error
}

// TCPConn frames protocol messages over a stream socket.
type TCPConn struct {
	conn net.Conn
}

func NewTCPConn(conn net.Conn) *TCPConn {
	return &TCPConn{conn: conn}
}

func (c *TCPConn) ReadMessage() (*protocol.Message, error) {
	return protocol.ReadMessage(c.conn)
}

func (c *TCPConn) WriteMessage(msg *protocol.Message) error {
	return protocol.WriteMessage(c.conn, msg)
}

func (c *TCPConn) Close() error {
	return c.conn.Close()
}

func (c *TCPConn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}
