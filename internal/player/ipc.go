package player

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
)

var errConnClosed = errors.New("mpv connection closed")

// mpvEvent is one asynchronous notification from mpv. Kind is the event
// name; Name and Data are set for property-change events.
type mpvEvent struct {
	Kind string
	Name string
	Data json.RawMessage
}

// ipcMessage is one line of the mpv JSON IPC protocol. Command replies
// carry an error string and a request id; events carry an event name.
type ipcMessage struct {
	Event     string          `json:"event"`
	Name      string          `json:"name"`
	Error     string          `json:"error"`
	Data      json.RawMessage `json:"data"`
	RequestID int64           `json:"request_id"`
}

type ipcRequest struct {
	Command   []any `json:"command"`
	RequestID int64 `json:"request_id"`
}

// ipcConn speaks the mpv JSON IPC protocol over a single connection.
// Writes are serialized, replies are matched to requests by id and
// events land on the events channel.
type ipcConn struct {
	conn net.Conn

	writeMu sync.Mutex
	enc     *json.Encoder

	pendingMu sync.Mutex
	pending   map[int64]chan ipcMessage
	nextID    int64
	closed    bool

	events chan mpvEvent
}

func newIPCConn(conn net.Conn) *ipcConn {
	c := &ipcConn{
		conn:    conn,
		enc:     json.NewEncoder(conn),
		pending: map[int64]chan ipcMessage{},
		events:  make(chan mpvEvent, 64),
	}
	go c.readLoop()
	return c
}

func (c *ipcConn) readLoop() {
	scanner := bufio.NewScanner(c.conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var msg ipcMessage
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			continue
		}
		if msg.Event != "" {
			select {
			case c.events <- mpvEvent{Kind: msg.Event, Name: msg.Name, Data: msg.Data}:
			default:
				// Full buffer: drop, the next change carries newer data
			}
			continue
		}
		c.deliver(msg)
	}
	c.fail()
}

func (c *ipcConn) deliver(msg ipcMessage) {
	c.pendingMu.Lock()
	ch, ok := c.pending[msg.RequestID]
	if ok {
		delete(c.pending, msg.RequestID)
	}
	c.pendingMu.Unlock()
	if ok {
		ch <- msg
	}
}

// fail unblocks every waiting request once the connection is gone.
func (c *ipcConn) fail() {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()
	c.closed = true
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
	close(c.events)
}

func (c *ipcConn) Close() error {
	return c.conn.Close()
}

// Command runs one mpv command and returns its data payload.
func (c *ipcConn) Command(args ...any) (json.RawMessage, error) {
	c.pendingMu.Lock()
	if c.closed {
		c.pendingMu.Unlock()
		return nil, errConnClosed
	}
	c.nextID++
	id := c.nextID
	ch := make(chan ipcMessage, 1)
	c.pending[id] = ch
	c.pendingMu.Unlock()

	c.writeMu.Lock()
	err := c.enc.Encode(ipcRequest{Command: args, RequestID: id})
	c.writeMu.Unlock()
	if err != nil {
		c.pendingMu.Lock()
		delete(c.pending, id)
		c.pendingMu.Unlock()
		return nil, err
	}

	msg, ok := <-ch
	if !ok {
		return nil, errConnClosed
	}
	if msg.Error != "success" {
		return nil, fmt.Errorf("mpv: %s", msg.Error)
	}
	return msg.Data, nil
}

func (c *ipcConn) GetProperty(name string) (json.RawMessage, error) {
	return c.Command("get_property", name)
}

func (c *ipcConn) SetProperty(name string, value any) error {
	_, err := c.Command("set_property", name, value)
	return err
}

func (c *ipcConn) ObserveProperty(id int64, name string) error {
	_, err := c.Command("observe_property", id, name)
	return err
}
