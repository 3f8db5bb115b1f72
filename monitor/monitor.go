// This file is part of tasplayer.
//
// tasplayer is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// tasplayer is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with tasplayer.  If not, see <https://www.gnu.org/licenses/>.

package monitor

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jetsetilly/tasplayer/curated"
	"github.com/jetsetilly/tasplayer/logger"
	"github.com/jetsetilly/tasplayer/notifications"
)

// ServerError is the sentinal pattern for failures starting the server.
const ServerError = "monitor: %v"

// Message is the JSON object sent to clients for each notice.
type Message struct {
	Notice notifications.Notice `json:"notice"`
	notifications.Status
}

// Command is the JSON object accepted from clients.
type Command struct {
	Cmd string `json:"cmd"`
}

// CmdStop is the only command understood by the server.
const CmdStop = "stop"

// the number of messages queued for a client before messages are dropped
const queueLength = 64

// how long a write to a client can take before the client is dropped
const writeTimeout = time.Second

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Server implements the notifications.Notify and http.Handler interfaces.
type Server struct {
	upgrader websocket.Upgrader

	crit    sync.Mutex
	clients map[*client]bool
	stop    func()

	// no new clients are accepted once the server has been closed
	closed bool

	ln  net.Listener
	srv *http.Server
}

// NewServer is the preferred method of initialisation for the Server type.
func NewServer() *Server {
	return &Server{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients: make(map[*client]bool),
	}
}

// SetStop sets the function called when a client sends the stop command.
func (mon *Server) SetStop(stop func()) {
	mon.crit.Lock()
	defer mon.crit.Unlock()
	mon.stop = stop
}

// Clients returns the number of connected clients.
func (mon *Server) Clients() int {
	mon.crit.Lock()
	defer mon.crit.Unlock()
	return len(mon.clients)
}

// Listen starts serving websocket connections on the address. The address
// may have a port of zero, in which case Addr() returns the chosen port.
func (mon *Server) Listen(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return curated.Errorf(ServerError, err)
	}

	mon.crit.Lock()
	mon.ln = ln
	mon.srv = &http.Server{
		Handler:           mon,
		ReadHeaderTimeout: 5 * time.Second,
	}
	srv := mon.srv
	mon.crit.Unlock()

	go func() {
		err := srv.Serve(ln)
		if err != nil && err != http.ErrServerClosed {
			logger.Log(logger.Allow, "monitor", err)
		}
	}()

	logger.Logf(logger.Allow, "monitor", "listening on %s", ln.Addr())
	return nil
}

// Addr returns the address the server is listening on. Empty if Listen()
// has not been called.
func (mon *Server) Addr() string {
	mon.crit.Lock()
	defer mon.crit.Unlock()
	if mon.ln == nil {
		return ""
	}
	return mon.ln.Addr().String()
}

// Close the server and disconnect every client.
func (mon *Server) Close() error {
	mon.crit.Lock()
	mon.closed = true
	srv := mon.srv
	mon.srv = nil
	for c := range mon.clients {
		delete(mon.clients, c)
		close(c.send)
	}
	mon.crit.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Close()
}

// ServeHTTP upgrades the request to a websocket and serves the client until
// it disconnects.
func (mon *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if mon.isClosed() {
		http.Error(w, "monitor closed", http.StatusServiceUnavailable)
		return
	}

	conn, err := mon.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log(logger.Allow, "monitor", err)
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, queueLength),
	}

	mon.crit.Lock()
	if mon.closed {
		mon.crit.Unlock()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "monitor closed"),
			time.Now().Add(writeTimeout))
		_ = conn.Close()
		return
	}
	mon.clients[c] = true
	mon.crit.Unlock()
	logger.Logf(logger.Allow, "monitor", "client connected from %s", conn.RemoteAddr())

	go mon.writer(c)
	mon.reader(c)

	mon.remove(c)
	_ = conn.Close()
	logger.Logf(logger.Allow, "monitor", "client disconnected from %s", conn.RemoteAddr())
}

func (mon *Server) isClosed() bool {
	mon.crit.Lock()
	defer mon.crit.Unlock()
	return mon.closed
}

func (mon *Server) remove(c *client) {
	mon.crit.Lock()
	defer mon.crit.Unlock()
	if mon.clients[c] {
		delete(mon.clients, c)
		close(c.send)
	}
}

// writer is the only goroutine that writes to the client's connection.
func (mon *Server) writer(c *client) {
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			logger.Log(logger.Allow, "monitor", err)
			_ = c.conn.Close()
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (mon *Server) reader(c *client) {
	for {
		typ, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		if typ != websocket.TextMessage {
			continue
		}

		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			logger.Logf(logger.Allow, "monitor", "invalid command: %v", err)
			continue
		}

		switch cmd.Cmd {
		case CmdStop:
			mon.crit.Lock()
			stop := mon.stop
			mon.crit.Unlock()
			if stop != nil {
				logger.Logf(logger.Allow, "monitor", "stop requested by %s", c.conn.RemoteAddr())
				stop()
			}
		default:
			logger.Logf(logger.Allow, "monitor", "unknown command (%s)", cmd.Cmd)
		}
	}
}

// Notify implements the notifications.Notify interface.
func (mon *Server) Notify(notice notifications.Notice, status notifications.Status) error {
	data, err := json.Marshal(Message{
		Notice: notice,
		Status: status,
	})
	if err != nil {
		return fmt.Errorf("monitor: %w", err)
	}

	mon.crit.Lock()
	defer mon.crit.Unlock()

	for c := range mon.clients {
		select {
		case c.send <- data:
		default:
			// dropped
		}
	}

	return nil
}
